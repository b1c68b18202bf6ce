package playback

import (
	"errors"
	"testing"

	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/types"
)

func newNavigator(n int) *Navigator {
	sealed := make([]*types.Frame, n)
	for i := range sealed {
		sealed[i] = &types.Frame{Index: i}
	}
	return New(frames.New(sealed))
}

func TestNavigator_StartsPlayingAtZero(t *testing.T) {
	nav := newNavigator(3)
	if nav.Index() != 0 {
		t.Errorf("Index() = %d, want 0", nav.Index())
	}
	if !nav.Playing() {
		t.Error("new navigator should be playing")
	}
}

func TestNavigator_StepClampsAtBoundaries(t *testing.T) {
	nav := newNavigator(3)

	nav.StepBackward()
	if nav.Index() != 0 {
		t.Errorf("StepBackward at 0: Index() = %d, want 0", nav.Index())
	}

	nav.StepForward()
	nav.StepForward()
	if nav.Index() != 2 {
		t.Fatalf("Index() = %d, want 2", nav.Index())
	}
	nav.StepForward()
	nav.StepForward()
	if nav.Index() != 2 {
		t.Errorf("StepForward at end: Index() = %d, want 2", nav.Index())
	}
	if !nav.AtEnd() {
		t.Error("AtEnd() = false at last frame")
	}

	nav.StepBackward()
	if nav.Index() != 1 {
		t.Errorf("StepBackward: Index() = %d, want 1", nav.Index())
	}
}

func TestNavigator_Seek(t *testing.T) {
	tests := []struct {
		seek int
		want int
	}{
		{0, 0},
		{3, 3},
		{9, 9},
		{10, 9},
		{1000, 9},
		{-1, 0},
	}

	for _, tt := range tests {
		nav := newNavigator(10)
		nav.Seek(tt.seek)
		if nav.Index() != tt.want {
			t.Errorf("Seek(%d): Index() = %d, want %d", tt.seek, nav.Index(), tt.want)
		}
	}

	nav := newNavigator(10)
	nav.SeekEnd()
	if nav.Index() != 9 {
		t.Errorf("SeekEnd: Index() = %d, want 9", nav.Index())
	}
	nav.SeekStart()
	if nav.Index() != 0 {
		t.Errorf("SeekStart: Index() = %d, want 0", nav.Index())
	}
}

func TestNavigator_AdvanceOnTick(t *testing.T) {
	nav := newNavigator(3)

	nav.AdvanceOnTick()
	if nav.Index() != 1 {
		t.Fatalf("playing tick: Index() = %d, want 1", nav.Index())
	}

	nav.TogglePlay()
	if nav.Playing() {
		t.Fatal("TogglePlay should pause")
	}
	nav.AdvanceOnTick()
	if nav.Index() != 1 {
		t.Errorf("paused tick: Index() = %d, want 1", nav.Index())
	}

	nav.Play()
	nav.AdvanceOnTick()
	nav.AdvanceOnTick()
	if nav.Index() != 2 {
		t.Errorf("tick past end: Index() = %d, want 2", nav.Index())
	}
	if !nav.Playing() {
		t.Error("reaching the end should not pause")
	}

	nav.Pause()
	if nav.Playing() {
		t.Error("Pause() left navigator playing")
	}
}

func TestNavigator_CurrentFrame(t *testing.T) {
	nav := newNavigator(4)
	nav.Seek(2)
	f, err := nav.CurrentFrame()
	if err != nil {
		t.Fatalf("CurrentFrame failed: %v", err)
	}
	if f.Index != 2 {
		t.Errorf("CurrentFrame().Index = %d, want 2", f.Index)
	}
	if p := nav.Progress(); p != 0.5 {
		t.Errorf("Progress() = %v, want 0.5", p)
	}
}

func TestNavigator_EmptySequence(t *testing.T) {
	nav := New(frames.New(nil))

	nav.StepForward()
	nav.StepBackward()
	nav.Seek(5)
	nav.AdvanceOnTick()
	if nav.Index() != 0 {
		t.Errorf("Index() = %d, want 0", nav.Index())
	}
	if _, err := nav.CurrentFrame(); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("CurrentFrame() error = %v, want ErrEmptySequence", err)
	}
	if nav.Progress() != 0 {
		t.Errorf("Progress() = %v, want 0", nav.Progress())
	}
}
