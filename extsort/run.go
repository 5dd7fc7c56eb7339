package extsort

import (
	"bufio"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// ioBufSize is the bufio buffer size for run files.
const ioBufSize = 1 << 18

// run is one sorted sequence of records, resident or spilled. A resident run
// keeps its records in items; a spilled run owns a temporary file of count
// fixed-size records.
type run[T any] struct {
	items []T

	file  *os.File
	count int64
}

// spilled reports whether the run lives on disk.
func (r *run[T]) spilled() bool { return r.file != nil }

// writeRun sorts items (unless presorted) and spills them to a fresh
// temporary file.
func writeRun[T any](items []T, less func(a, b T) bool, codec Codec[T], presorted bool) (*run[T], error) {
	if !presorted {
		sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })
	}

	f, err := os.CreateTemp("", "emswap-run-*")
	if err != nil {
		return nil, errors.Wrap(err, "extsort: create run file")
	}

	w := bufio.NewWriterSize(f, ioBufSize)
	rec := make([]byte, codec.Size())
	for _, v := range items {
		codec.Encode(rec, v)
		if _, err = w.Write(rec); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		f.Close()
		os.Remove(f.Name())

		return nil, errors.Wrap(err, "extsort: write run file")
	}

	return &run[T]{file: f, count: int64(len(items))}, nil
}

// discard releases the run's resources.
func (r *run[T]) discard() {
	if r.file != nil {
		name := r.file.Name()
		r.file.Close()
		os.Remove(name)
		r.file = nil
	}
	r.items = nil
}

// runCursor streams one run in order. For spilled runs it decodes through a
// bufio reader; rewinding seeks the file back to the start.
type runCursor[T any] struct {
	r     *run[T]
	codec Codec[T]

	// resident state
	pos int

	// spilled state
	br   *bufio.Reader
	rec  []byte
	left int64
	cur  T
	has  bool
	err  error
}

// newRunCursor opens a cursor at the start of r.
func newRunCursor[T any](r *run[T], codec Codec[T]) (*runCursor[T], error) {
	c := &runCursor[T]{r: r, codec: codec}
	if err := c.rewind(); err != nil {
		return nil, err
	}

	return c, nil
}

// rewind repositions the cursor at the first record.
func (c *runCursor[T]) rewind() error {
	c.pos = 0
	c.err = nil
	if !c.r.spilled() {
		return nil
	}
	if _, err := c.r.file.Seek(0, 0); err != nil {
		c.err = errors.Wrap(err, "extsort: rewind run file")

		return c.err
	}
	if c.br == nil {
		c.br = bufio.NewReaderSize(c.r.file, ioBufSize)
	} else {
		c.br.Reset(c.r.file)
	}
	if c.rec == nil {
		c.rec = make([]byte, c.codec.Size())
	}
	c.left = c.r.count
	c.has = false
	c.fill()

	return c.err
}

// fill decodes the next spilled record into cur.
func (c *runCursor[T]) fill() {
	if c.left == 0 || c.err != nil {
		c.has = false

		return
	}
	if _, err := readFull(c.br, c.rec); err != nil {
		c.err = errors.Wrap(err, "extsort: read run file")
		c.has = false

		return
	}
	c.cur = c.codec.Decode(c.rec)
	c.left--
	c.has = true
}

// empty reports whether the cursor is exhausted.
func (c *runCursor[T]) empty() bool {
	if c.r.spilled() {
		return !c.has
	}

	return c.pos >= len(c.r.items)
}

// peek returns the record under the cursor.
func (c *runCursor[T]) peek() T {
	if c.r.spilled() {
		return c.cur
	}

	return c.r.items[c.pos]
}

// advance moves the cursor one record forward.
func (c *runCursor[T]) advance() {
	if c.r.spilled() {
		c.fill()

		return
	}
	c.pos++
}

// maxFanIn bounds how many runs a single merge reads from; larger run sets
// are compacted in waves when a Sorter is sorted or a RunsCreator finishes,
// so the read phase holds at most maxFanIn run files open. Every spilled run
// keeps its file open from the moment it is written, so the number of open
// files is not bounded while runs accumulate before that point.
const maxFanIn = 64

// mergeRuns folds a set of runs into one spilled run.
func mergeRuns[T any](runs []*run[T], less func(a, b T) bool, codec Codec[T]) (*run[T], error) {
	cursors := make([]*runCursor[T], 0, len(runs))
	for _, r := range runs {
		c, err := newRunCursor(r, codec)
		if err != nil {
			return nil, err
		}
		cursors = append(cursors, c)
	}
	k := newKway(less, cursors)

	f, err := os.CreateTemp("", "emswap-run-*")
	if err != nil {
		return nil, errors.Wrap(err, "extsort: create merged run")
	}
	w := bufio.NewWriterSize(f, ioBufSize)
	rec := make([]byte, codec.Size())
	count := int64(0)
	for !k.empty() {
		codec.Encode(rec, k.peek())
		if _, err = w.Write(rec); err != nil {
			break
		}
		count++
		k.next()
	}
	for _, c := range cursors {
		if err == nil {
			err = c.err
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if err != nil {
		f.Close()
		os.Remove(f.Name())

		return nil, errors.Wrap(err, "extsort: write merged run")
	}
	for _, r := range runs {
		r.discard()
	}

	return &run[T]{file: f, count: count}, nil
}

// compactRuns repeatedly merges the oldest maxFanIn runs until the set fits
// a single merge pass.
func compactRuns[T any](runs []*run[T], less func(a, b T) bool, codec Codec[T]) ([]*run[T], error) {
	for len(runs) > maxFanIn {
		merged, err := mergeRuns(runs[:maxFanIn], less, codec)
		if err != nil {
			return runs, err
		}
		runs = append(runs[maxFanIn:], merged)
	}

	return runs, nil
}

// readFull reads exactly len(buf) bytes from br.
func readFull(br *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := br.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}

	return n, nil
}
