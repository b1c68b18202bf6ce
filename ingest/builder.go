// Package ingest turns a robot's text log into a sealed frames.Sequence.
//
// The Builder is a state machine fed one classified record at a time.
// The Engine splits raw text into lines, classifies them, drives a Builder
// and reports what it dropped.
package ingest

import (
	"fmt"
	"strings"

	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/maze"
	"github.com/justapithecus/arenaviz/record"
	"github.com/justapithecus/arenaviz/types"
)

// State is the builder's position in the frame lifecycle.
type State int

const (
	// StateNoFrame is the initial state. Records are discarded.
	StateNoFrame State = iota
	// StateBuilding means a partial frame is accepting records.
	StateBuilding
	// StateResync means the current frame was corrupt. Records are skipped
	// until the next FrameStart.
	StateResync
)

func (s State) String() string {
	switch s {
	case StateNoFrame:
		return "no_frame"
	case StateBuilding:
		return "building"
	case StateResync:
		return "resync"
	default:
		return "unknown"
	}
}

// RobotPolicy decides what happens when a frame receives a second update
// for a robot id it already holds.
type RobotPolicy int

const (
	// RobotsAppend keeps every update as its own entry.
	RobotsAppend RobotPolicy = iota
	// RobotsReplace keeps the last update in the slot of the first.
	RobotsReplace
	// RobotsReject keeps the first update and rejects the rest.
	RobotsReject
)

func (p RobotPolicy) String() string {
	switch p {
	case RobotsAppend:
		return "append"
	case RobotsReplace:
		return "replace"
	case RobotsReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseRobotPolicy parses a policy name. The empty string is RobotsAppend.
func ParseRobotPolicy(s string) (RobotPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append":
		return RobotsAppend, nil
	case "replace":
		return RobotsReplace, nil
	case "reject":
		return RobotsReject, nil
	default:
		return RobotsAppend, fmt.Errorf("unknown robot policy %q (want append, replace or reject)", s)
	}
}

// Builder assembles frames from records. It owns the partial frame; sealed
// frames are never touched again.
type Builder struct {
	policy RobotPolicy
	state  State

	partial *types.Frame
	// robotSlots maps robot id to its index in partial.Robots.
	robotSlots map[int]int

	sealed []*types.Frame
}

// NewBuilder creates a builder in StateNoFrame.
func NewBuilder(policy RobotPolicy) *Builder {
	return &Builder{policy: policy}
}

// State returns the current state.
func (b *Builder) State() State {
	return b.state
}

// Sealed returns the number of frames sealed so far.
func (b *Builder) Sealed() int {
	return len(b.sealed)
}

// Apply feeds one record to the builder.
//
// Returns nil when the record was applied or deliberately ignored
// (disconnected robots, unrecognized lines), ErrNoFrame or ErrResyncing when it
// was discarded, ErrDuplicateRobot under RobotsReject, or a *FrameError when it
// revealed corruption. After a *FrameError the builder is in StateResync.
func (b *Builder) Apply(rec record.Record) error {
	switch r := rec.(type) {
	case record.FrameStart:
		b.start(r)
		return nil
	case record.Unrecognized:
		return nil
	case record.RobotUpdate:
		if r.Robot.ID == 0 {
			return nil
		}
	}

	switch b.state {
	case StateNoFrame:
		return ErrNoFrame
	case StateResync:
		return ErrResyncing
	}

	switch r := rec.(type) {
	case record.RobotUpdate:
		return b.applyRobot(r.Robot)
	case record.GridSizeUpdate:
		size := r.GridSize
		b.partial.GridSize = &size
	case record.MazeRow:
		return b.applyMazeRow(r)
	case record.BombUpdate:
		return b.applyBomb(r)
	case record.DrawLine:
		b.partial.Lines = append(b.partial.Lines, r.Metric())
	case record.DrawPoint:
		b.partial.Points = append(b.partial.Points, r.Metric())
	case record.FreeText:
		b.partial.LogLines = append(b.partial.LogLines, r.Message)
	default:
		return fmt.Errorf("ingest: unhandled record %T", rec)
	}
	return nil
}

// SkipFrame handles a frame boundary whose FrameStart could not be parsed.
// A frame being built is sealed, and the records that follow are skipped
// until the next FrameStart. Returns true if a frame was sealed.
func (b *Builder) SkipFrame() bool {
	sealed := b.state == StateBuilding
	if sealed {
		b.seal()
	}
	b.state = StateResync
	return sealed
}

// Finish returns the sealed frames. A frame still being built is dropped:
// without a following FrameStart it may be truncated.
func (b *Builder) Finish() *frames.Sequence {
	b.partial = nil
	b.robotSlots = nil
	b.state = StateNoFrame
	return frames.New(b.sealed)
}

func (b *Builder) start(r record.FrameStart) {
	if b.state == StateBuilding {
		b.seal()
	}
	b.partial = &types.Frame{
		TimeMs:          r.TimeMs,
		LoggerID:        r.LoggerID,
		TimeUntilShrink: r.TimeUntilShrink,
	}
	b.robotSlots = make(map[int]int)
	b.state = StateBuilding
}

func (b *Builder) seal() {
	b.partial.Index = len(b.sealed)
	b.sealed = append(b.sealed, b.partial)
	b.partial = nil
	b.robotSlots = nil
}

func (b *Builder) applyRobot(robot types.Robot) error {
	slot, seen := b.robotSlots[robot.ID]
	if seen {
		switch b.policy {
		case RobotsReplace:
			b.partial.Robots[slot] = robot
			return nil
		case RobotsReject:
			return fmt.Errorf("%w: id %d", ErrDuplicateRobot, robot.ID)
		}
	} else {
		b.robotSlots[robot.ID] = len(b.partial.Robots)
	}
	b.partial.Robots = append(b.partial.Robots, robot)
	return nil
}

func (b *Builder) applyMazeRow(r record.MazeRow) error {
	if r.Row < 0 || r.Row >= types.GridCells {
		return b.corrupt(RowIndexOutOfRange, r.Row, 0)
	}
	row := &b.partial.Grid[r.Row]
	cells := maze.DecodeRow(r.Bitmaps)
	for col := range cells {
		if row[col] != nil {
			return b.corrupt(DuplicateCellWrite, r.Row, col)
		}
		if cells[col].Possession1 && cells[col].Possession2 {
			return b.corrupt(PossessionConflict, r.Row, col)
		}
		row[col] = &cells[col]
	}
	return nil
}

func (b *Builder) applyBomb(r record.BombUpdate) error {
	if r.Row < 0 || r.Row >= types.GridCells || r.Col < 0 || r.Col >= types.GridCells {
		return b.corrupt(CellIndexOutOfRange, r.Row, r.Col)
	}
	cell := b.partial.Grid[r.Row][r.Col]
	switch {
	case cell == nil:
		return b.corrupt(BombOnMissingCell, r.Row, r.Col)
	case cell.Bomb != nil:
		return b.corrupt(DuplicateBombData, r.Row, r.Col)
	}
	bomb := r.Bomb
	cell.IsBomb = true
	cell.Bomb = &bomb
	return nil
}

// corrupt discards the partial frame and enters StateResync.
func (b *Builder) corrupt(kind FrameErrorKind, row, col int) error {
	err := &FrameError{Kind: kind, TimeMs: b.partial.TimeMs, Row: row, Col: col}
	b.partial = nil
	b.robotSlots = nil
	b.state = StateResync
	return err
}
