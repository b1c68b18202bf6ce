package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFrame is returned by Builder.Apply for a record that arrives
	// before the first FrameStart. The record is discarded.
	ErrNoFrame = errors.New("ingest: record before first frame start")

	// ErrResyncing is returned by Builder.Apply for a record that arrives
	// while the builder skips the rest of a corrupt frame.
	ErrResyncing = errors.New("ingest: skipping records until next frame start")

	// ErrDuplicateRobot is returned under RobotsReject when a frame already
	// holds a robot with the same id. The frame itself is kept.
	ErrDuplicateRobot = errors.New("ingest: duplicate robot id in frame")

	// ErrEmptyLog is returned together with an empty sequence when the input
	// produced no sealed frame.
	ErrEmptyLog = errors.New("ingest: log produced no frames")
)

// FrameErrorKind classifies corruption of a single frame.
type FrameErrorKind int

const (
	// DuplicateCellWrite indicates a maze row wrote a cell that was already set.
	DuplicateCellWrite FrameErrorKind = iota
	// RowIndexOutOfRange indicates a maze row index outside the grid.
	RowIndexOutOfRange
	// CellIndexOutOfRange indicates bomb coordinates outside the grid.
	CellIndexOutOfRange
	// BombOnMissingCell indicates bomb data for a cell no maze row has written.
	BombOnMissingCell
	// DuplicateBombData indicates a second bomb update for the same cell.
	DuplicateBombData
	// PossessionConflict indicates a cell claimed by both teams.
	PossessionConflict
)

var frameErrorKindNames = [...]string{
	DuplicateCellWrite:  "duplicate_cell_write",
	RowIndexOutOfRange:  "row_index_out_of_range",
	CellIndexOutOfRange: "cell_index_out_of_range",
	BombOnMissingCell:   "bomb_on_missing_cell",
	DuplicateBombData:   "duplicate_bomb_data",
	PossessionConflict:  "possession_conflict",
}

func (k FrameErrorKind) String() string {
	if k < 0 || int(k) >= len(frameErrorKindNames) {
		return "unknown"
	}
	return frameErrorKindNames[k]
}

// FrameError reports corruption detected while building a frame.
// The partial frame is discarded when it is returned.
type FrameError struct {
	Kind FrameErrorKind
	// TimeMs identifies the discarded frame.
	TimeMs int64
	Row    int
	Col    int
}

func (e *FrameError) Error() string {
	switch e.Kind {
	case RowIndexOutOfRange:
		return fmt.Sprintf("frame %dms: %s: row %d", e.TimeMs, e.Kind, e.Row)
	default:
		return fmt.Sprintf("frame %dms: %s at (%d, %d)", e.TimeMs, e.Kind, e.Row, e.Col)
	}
}

// IsCorruption reports whether err is or wraps a *FrameError.
func IsCorruption(err error) bool {
	var fe *FrameError
	return errors.As(err, &fe)
}

// IngestionError aborts a strict ingestion. Line is the 1-based line number
// of the record that failed.
type IngestionError struct {
	Line int
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
