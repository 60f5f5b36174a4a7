package core

import "sync/atomic"

// Sequence hands out monotonically increasing identifiers starting at zero.
// A value is never handed out twice for the lifetime of the Sequence, there is no release.
type Sequence struct {
	next atomic.Uint32
}

// Next returns the next identifier and advances the sequence.
func (s *Sequence) Next() uint32 {
	return s.next.Add(1) - 1
}

// Peek returns the identifier the following call to Next will hand out.
func (s *Sequence) Peek() uint32 {
	return s.next.Load()
}
