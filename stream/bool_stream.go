package stream

// BoolStream is an append-only bit sequence with the cycle protocol: Push
// fills pending bits, Consume promotes them, Peek/Next/Rewind read them.
// Bits are packed into uint64 words.
//
// The engine uses one BoolStream per worker for swap directions and one for
// the edge-validity mask between two runs.
type BoolStream struct {
	curWords []uint64
	curLen   int

	pendWords []uint64
	pendLen   int

	readPos int
}

// NewBoolStream returns an empty bit stream.
func NewBoolStream() *BoolStream {
	return &BoolStream{}
}

// Push appends one pending bit.
func (b *BoolStream) Push(v bool) {
	word, off := b.pendLen>>6, uint(b.pendLen&63)
	if word == len(b.pendWords) {
		b.pendWords = append(b.pendWords, 0)
	}
	if v {
		b.pendWords[word] |= 1 << off
	}
	b.pendLen++
}

// Consume promotes the pending bits to the current content and rewinds.
func (b *BoolStream) Consume() {
	b.curWords, b.curLen = b.pendWords, b.pendLen
	b.pendWords, b.pendLen = nil, 0
	b.readPos = 0
}

// Rewind restarts reading at the first current bit.
func (b *BoolStream) Rewind() { b.readPos = 0 }

// Clear drops both current and pending content.
func (b *BoolStream) Clear() {
	b.curWords, b.curLen = nil, 0
	b.pendWords, b.pendLen = nil, 0
	b.readPos = 0
}

// Empty reports whether all current bits have been read.
func (b *BoolStream) Empty() bool { return b.readPos >= b.curLen }

// Peek returns the bit under the cursor. Undefined when Empty.
func (b *BoolStream) Peek() bool {
	return b.curWords[b.readPos>>6]&(1<<uint(b.readPos&63)) != 0
}

// Next advances the cursor by one bit.
func (b *BoolStream) Next() {
	if b.readPos < b.curLen {
		b.readPos++
	}
}

// Take returns the bit under the cursor and advances past it.
func (b *BoolStream) Take() bool {
	v := b.Peek()
	b.Next()

	return v
}

// Len returns the number of current bits.
func (b *BoolStream) Len() int { return b.curLen }
