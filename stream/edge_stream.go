package stream

import "github.com/katalvlaran/emswap/core"

// Reader is the minimal pull interface shared by all sequential sources.
type Reader[T any] interface {
	Empty() bool
	Peek() T
	Next()
}

// edgePageSize is the number of edges per backing page. Paged storage keeps
// the stream free of any contiguous allocation proportional to the sequence
// length.
const edgePageSize = 1 << 16

// EdgeStream is the sequential edge container. It follows the cycle protocol
// described in the package documentation: Push fills the pending content,
// Consume promotes it, Peek/Next/Rewind read the current content.
//
// The zero value is not usable; call NewEdgeStream.
type EdgeStream struct {
	cur     [][]core.Edge
	pending [][]core.Edge

	readPage int
	readPos  int
	size     int64
}

// NewEdgeStream returns an empty stream. Push edges, then Consume once to
// make them readable.
func NewEdgeStream() *EdgeStream {
	return &EdgeStream{}
}

// FromEdges is a convenience constructor: the slice content becomes the
// current, rewound content of a fresh stream.
func FromEdges(edges []core.Edge) *EdgeStream {
	s := NewEdgeStream()
	for _, e := range edges {
		s.Push(e)
	}
	s.Consume()

	return s
}

// Push appends e to the pending content. Legal in both phases; readers do not
// observe pushed edges until Consume.
func (s *EdgeStream) Push(e core.Edge) {
	n := len(s.pending)
	if n == 0 || len(s.pending[n-1]) == edgePageSize {
		s.pending = append(s.pending, make([]core.Edge, 0, edgePageSize))
		n++
	}
	s.pending[n-1] = append(s.pending[n-1], e)
}

// Consume discards the current content, promotes the pending content in its
// place, and rewinds the read cursor.
func (s *EdgeStream) Consume() {
	s.cur = s.pending
	s.pending = nil
	s.size = 0
	for _, p := range s.cur {
		s.size += int64(len(p))
	}
	s.Rewind()
}

// Rewind restarts reading at the beginning of the current content.
func (s *EdgeStream) Rewind() {
	s.readPage = 0
	s.readPos = 0
}

// Empty reports whether the read cursor is past the current content.
func (s *EdgeStream) Empty() bool {
	for s.readPage < len(s.cur) && s.readPos >= len(s.cur[s.readPage]) {
		s.readPage++
		s.readPos = 0
	}

	return s.readPage >= len(s.cur)
}

// Peek returns the edge under the cursor. Undefined when Empty.
func (s *EdgeStream) Peek() core.Edge {
	if s.Empty() {
		return core.InvalidEdge
	}

	return s.cur[s.readPage][s.readPos]
}

// Next advances the cursor by one edge.
func (s *EdgeStream) Next() {
	if !s.Empty() {
		s.readPos++
	}
}

// Len returns the number of edges in the current content.
func (s *EdgeStream) Len() int64 { return s.size }

// Edges materialises the current content into a fresh slice, preserving the
// read cursor. Intended for tests and small sequences.
func (s *EdgeStream) Edges() []core.Edge {
	out := make([]core.Edge, 0, s.size)
	for _, p := range s.cur {
		out = append(out, p...)
	}

	return out
}
