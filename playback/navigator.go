// Package playback provides a cursor over a frame sequence with
// play, pause, step and seek semantics.
//
// All operations are synchronous and total. Moving past either end of the
// sequence clamps silently; the only failure is asking for the current
// frame of an empty sequence.
package playback

import (
	"errors"

	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/types"
)

// ErrEmptySequence is returned by CurrentFrame when there are no frames.
var ErrEmptySequence = errors.New("frame sequence is empty")

// Navigator is a playback cursor. It is owned by a single goroutine; the
// underlying sequence may be shared.
type Navigator struct {
	seq     *frames.Sequence
	index   int
	playing bool
}

// New creates a navigator at the first frame, playing.
func New(seq *frames.Sequence) *Navigator {
	return &Navigator{seq: seq, playing: true}
}

// Len returns the number of frames in the sequence.
func (n *Navigator) Len() int {
	return n.seq.Len()
}

// Index returns the cursor position.
func (n *Navigator) Index() int {
	return n.index
}

// Playing reports whether ticks advance the cursor.
func (n *Navigator) Playing() bool {
	return n.playing
}

// StepForward moves one frame forward, stopping at the last frame.
func (n *Navigator) StepForward() {
	n.Seek(n.index + 1)
}

// StepBackward moves one frame back, stopping at the first frame.
func (n *Navigator) StepBackward() {
	n.Seek(n.index - 1)
}

// Seek moves the cursor to i, clamped to the sequence.
func (n *Navigator) Seek(i int) {
	last := n.seq.Len() - 1
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	n.index = i
}

// SeekStart moves to the first frame.
func (n *Navigator) SeekStart() {
	n.Seek(0)
}

// SeekEnd moves to the last frame.
func (n *Navigator) SeekEnd() {
	n.Seek(n.seq.Len() - 1)
}

// TogglePlay flips between playing and paused.
func (n *Navigator) TogglePlay() {
	n.playing = !n.playing
}

// Play resumes playback.
func (n *Navigator) Play() {
	n.playing = true
}

// Pause stops playback.
func (n *Navigator) Pause() {
	n.playing = false
}

// AdvanceOnTick is called once per external time tick. It steps forward
// while playing and does nothing while paused.
func (n *Navigator) AdvanceOnTick() {
	if n.playing {
		n.StepForward()
	}
}

// AtEnd reports whether the cursor is on the last frame.
func (n *Navigator) AtEnd() bool {
	return n.index >= n.seq.Len()-1
}

// CurrentFrame returns the frame under the cursor.
func (n *Navigator) CurrentFrame() (*types.Frame, error) {
	if n.seq.Len() == 0 {
		return nil, ErrEmptySequence
	}
	return n.seq.At(n.index)
}

// Progress returns index / length in [0, 1), or 0 for an empty sequence.
func (n *Navigator) Progress() float64 {
	if n.seq.Len() == 0 {
		return 0
	}
	return float64(n.index) / float64(n.seq.Len())
}
