// Package frames holds the finalized, read-only sequence of replay frames.
package frames

import (
	"errors"
	"fmt"
	"iter"

	"github.com/justapithecus/arenaviz/types"
)

// ErrIndexOutOfRange is returned by At for an index outside [0, Len()).
var ErrIndexOutOfRange = errors.New("frame index out of range")

// Sequence is an ordered, immutable collection of sealed frames.
// It has no mutation API and is safe for concurrent readers.
type Sequence struct {
	frames []*types.Frame
}

// New wraps sealed frames into a Sequence. The slice is owned by the
// Sequence afterwards and must not be modified by the caller.
func New(sealed []*types.Frame) *Sequence {
	return &Sequence{frames: sealed}
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.frames)
}

// At returns the frame at index i.
func (s *Sequence) At(i int) (*types.Frame, error) {
	if i < 0 || i >= s.Len() {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, s.Len())
	}
	return s.frames[i], nil
}

// All iterates over the frames in order.
func (s *Sequence) All() iter.Seq2[int, *types.Frame] {
	return func(yield func(int, *types.Frame) bool) {
		if s == nil {
			return
		}
		for i, f := range s.frames {
			if !yield(i, f) {
				return
			}
		}
	}
}

// Span returns the logger time of the first and last frame.
// Both are zero for an empty sequence.
func (s *Sequence) Span() (firstMs, lastMs int64) {
	if s.Len() == 0 {
		return 0, 0
	}
	return s.frames[0].TimeMs, s.frames[len(s.frames)-1].TimeMs
}
