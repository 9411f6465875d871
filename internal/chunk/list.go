package chunk

import "fmt"

// List is the ordered set of chunks still waiting to be copied.
// Operations return a new List and never modify the receiver.
type List struct {
	chunks []Chunk
}

// NewList wraps chunks. The slice is copied.
func NewList(chunks []Chunk) List {
	return List{chunks: append([]Chunk(nil), chunks...)}
}

// Len returns the number of pending chunks.
func (l List) Len() int { return len(l.chunks) }

// At returns the chunk at index i.
func (l List) At(i int) (Chunk, error) {
	if i < 0 || i >= len(l.chunks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrChunkIndex, i, len(l.chunks))
	}
	return l.chunks[i], nil
}

// Chunks returns a copy of the pending chunks in order.
func (l List) Chunks() []Chunk {
	return append([]Chunk(nil), l.chunks...)
}

// Total returns the number of values across all chunks.
func (l List) Total() int {
	n := 0
	for _, c := range l.chunks {
		n += len(c)
	}
	return n
}

// Remove returns a list without the chunk at index i. Later chunks shift
// down by one.
func (l List) Remove(i int) (List, error) {
	if i < 0 || i >= len(l.chunks) {
		return l, fmt.Errorf("%w: %d of %d", ErrChunkIndex, i, len(l.chunks))
	}
	out := make([]Chunk, 0, len(l.chunks)-1)
	out = append(out, l.chunks[:i]...)
	out = append(out, l.chunks[i+1:]...)
	return List{chunks: out}, nil
}
