package extsort

import (
	"sort"
	"sync"
)

// Merger streams the union of a set of sorted runs in comparator order.
// Produced by RunsCreator.Finish; single-consumer.
type Merger[T any] struct {
	runs    []*run[T]
	cursors []*runCursor[T]
	merge   *kway[T]
	err     error
}

// Empty reports whether the merged stream is exhausted.
func (m *Merger[T]) Empty() bool { return m.err != nil || m.merge == nil || m.merge.empty() }

// Peek returns the smallest remaining record. Undefined when Empty.
func (m *Merger[T]) Peek() T { return m.merge.peek() }

// Next advances past the smallest remaining record.
func (m *Merger[T]) Next() {
	if m.Empty() {
		return
	}
	m.merge.next()
	for _, c := range m.cursors {
		if c.err != nil {
			m.err = c.err
		}
	}
}

// Err reports the first IO failure, if any.
func (m *Merger[T]) Err() error { return m.err }

// Close releases every run.
func (m *Merger[T]) Close() {
	for _, r := range m.runs {
		r.discard()
	}
	m.runs = nil
	m.merge = nil
}

// RunsCreator collects pre-sorted record chunks from many producers on a
// single background goroutine and exposes their union as a Merger. Chunks
// stay resident until the byte budget is exceeded, then spill to run files.
//
// Submit transfers chunk ownership; the caller must not reuse the slice.
type RunsCreator[T any] struct {
	less  func(a, b T) bool
	codec Codec[T]

	memLimit int64
	resident int64

	ch   chan []T
	wg   sync.WaitGroup
	runs []*run[T]
	err  error
}

// NewRunsCreator starts the background intake goroutine.
func NewRunsCreator[T any](less func(a, b T) bool, codec Codec[T], memLimit int64) *RunsCreator[T] {
	rc := &RunsCreator[T]{
		less:     less,
		codec:    codec,
		memLimit: memLimit,
		ch:       make(chan []T, 4),
	}
	rc.wg.Add(1)
	go rc.consume()

	return rc
}

// consume stores each submitted chunk as one run.
func (rc *RunsCreator[T]) consume() {
	defer rc.wg.Done()
	for chunk := range rc.ch {
		if rc.err != nil || len(chunk) == 0 {
			continue
		}
		bytes := int64(len(chunk)) * int64(rc.codec.Size())
		if rc.resident+bytes <= rc.memLimit {
			rc.runs = append(rc.runs, &run[T]{items: chunk})
			rc.resident += bytes

			continue
		}
		r, err := writeRun(chunk, rc.less, rc.codec, true)
		if err != nil {
			rc.err = err

			continue
		}
		rc.runs = append(rc.runs, r)
	}
}

// Submit hands one sorted chunk to the background goroutine.
func (rc *RunsCreator[T]) Submit(chunk []T) { rc.ch <- chunk }

// Finish stops intake and returns the merger over all submitted runs.
func (rc *RunsCreator[T]) Finish() (*Merger[T], error) {
	close(rc.ch)
	rc.wg.Wait()
	if rc.err != nil {
		for _, r := range rc.runs {
			r.discard()
		}

		return nil, rc.err
	}

	var err error
	if rc.runs, err = compactRuns(rc.runs, rc.less, rc.codec); err != nil {
		for _, r := range rc.runs {
			r.discard()
		}

		return nil, err
	}

	m := &Merger[T]{runs: rc.runs}
	for _, r := range rc.runs {
		c, err := newRunCursor(r, rc.codec)
		if err != nil {
			m.Close()

			return nil, err
		}
		m.cursors = append(m.cursors, c)
	}
	m.merge = newKway(rc.less, m.cursors)

	return m, nil
}

// RunsCreatorBuffer is the per-producer façade over a shared RunsCreator:
// records accumulate unordered up to the buffer capacity, Finish sorts and
// submits them as one run.
type RunsCreatorBuffer[T any] struct {
	rc  *RunsCreator[T]
	buf []T
	cap int
}

// NewRunsCreatorBuffer returns a buffer submitting to rc, holding at most
// capacity records between submits.
func NewRunsCreatorBuffer[T any](rc *RunsCreator[T], capacity int) *RunsCreatorBuffer[T] {
	if capacity < minResidentItems {
		capacity = minResidentItems
	}

	return &RunsCreatorBuffer[T]{rc: rc, buf: make([]T, 0, capacity), cap: capacity}
}

// Push appends one record, auto-submitting when the buffer fills.
func (b *RunsCreatorBuffer[T]) Push(v T) {
	b.buf = append(b.buf, v)
	if len(b.buf) >= b.cap {
		b.Finish()
	}
}

// Finish sorts and submits the buffered records as one run.
func (b *RunsCreatorBuffer[T]) Finish() {
	if len(b.buf) == 0 {
		return
	}
	sort.Slice(b.buf, func(i, j int) bool { return b.rc.less(b.buf[i], b.buf[j]) })
	b.rc.Submit(b.buf)
	b.buf = make([]T, 0, b.cap)
}

// Flush submits any remaining records. Call once per producer before the
// creator's Finish.
func (b *RunsCreatorBuffer[T]) Flush() { b.Finish() }
