package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/justapithecus/arenaviz/archive"
	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/ingest"
	"github.com/justapithecus/arenaviz/iox"
	"github.com/justapithecus/arenaviz/log"
	"github.com/justapithecus/arenaviz/metrics"
	"github.com/justapithecus/arenaviz/types"
)

// Source formats reported in SourceMeta.Format.
const (
	FormatLog     = "log"
	FormatArchive = "archive"
)

// StdinPath selects standard input as the log source.
const StdinPath = "-"

var (
	// ErrCellOutOfRange is returned for a cell outside the 12x12 maze.
	ErrCellOutOfRange = errors.New("cell out of range")
	// ErrRobotNotFound is returned when a frame has no robot with the id.
	ErrRobotNotFound = errors.New("robot not found")
)

// Meta returns the source metadata for path. Paths with the archive
// extension are archives, everything else is a text log.
func Meta(path string) types.SourceMeta {
	if archive.IsArchivePath(path) {
		return types.SourceMeta{Path: path, Format: FormatArchive}
	}
	return types.SourceMeta{Path: path, Format: FormatLog}
}

// LoadOptions configures Load. The logger should carry the source meta
// of the path being loaded.
type LoadOptions struct {
	Ingest ingest.Config
	Logger *log.Logger
	// Stdin replaces os.Stdin when the path is StdinPath.
	Stdin io.Reader
}

// Replay is a loaded frame sequence plus how it was obtained.
type Replay struct {
	Meta     types.SourceMeta
	Sequence *frames.Sequence
	Metrics  metrics.Snapshot
	// Header is set for archives only.
	Header *archive.Header
}

// Load reads the replay at path. A log without complete frames, or an
// empty archive, returns the (empty) replay together with
// ingest.ErrEmptyLog so callers can still report what was read.
func Load(ctx context.Context, path string, opts LoadOptions) (*Replay, error) {
	meta := Meta(path)
	if meta.Format == FormatArchive {
		return loadArchive(meta)
	}
	return loadLog(ctx, meta, opts)
}

func loadArchive(meta types.SourceMeta) (*Replay, error) {
	seq, header, err := archive.ReadFile(meta.Path)
	if err != nil {
		return nil, err
	}
	replay := &Replay{
		Meta:     meta,
		Sequence: seq,
		Metrics:  metrics.NewCollector(meta.Path, meta.Format).Snapshot(),
		Header:   header,
	}
	if seq.Len() == 0 {
		return replay, ingest.ErrEmptyLog
	}
	return replay, nil
}

func loadLog(ctx context.Context, meta types.SourceMeta, opts LoadOptions) (*Replay, error) {
	var r io.Reader
	if meta.Path == StdinPath {
		r = opts.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(meta.Path)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		defer iox.DiscardClose(f)
		r = f
	}

	collector := metrics.NewCollector(meta.Path, meta.Format)
	engine := ingest.NewEngine(opts.Ingest, opts.Logger, collector)
	seq, err := engine.IngestReader(ctx, r)
	if err != nil && !errors.Is(err, ingest.ErrEmptyLog) {
		return nil, err
	}
	return &Replay{
		Meta:     meta,
		Sequence: seq,
		Metrics:  collector.Snapshot(),
	}, err
}

// Frame implements Reader.
func (r *Replay) Frame(index int) (*FrameView, error) {
	f, err := r.Sequence.At(index)
	if err != nil {
		return nil, err
	}
	return NewFrameView(f), nil
}

// NewFrameView summarizes f.
func NewFrameView(f *types.Frame) *FrameView {
	lo, hi := f.ActiveBounds()
	team1, team2 := f.TeamScores()
	return &FrameView{
		Index:           f.Index,
		TimeMs:          f.TimeMs,
		LoggerID:        f.LoggerID,
		TimeUntilShrink: f.TimeUntilShrink,
		GridSize:        f.EffectiveGridSize(),
		ActiveLo:        lo,
		ActiveHi:        hi,
		Robots:          len(f.Robots),
		Cells:           f.CellCount(),
		Bombs:           f.BombCount(),
		Lines:           len(f.Lines),
		Points:          len(f.Points),
		Team1Score:      team1,
		Team2Score:      team2,
		LogLines:        f.LogLines,
	}
}

// Cell implements Reader. A cell that was never logged in the frame is
// reported with Logged false rather than as an error.
func (r *Replay) Cell(index, row, col int) (*CellView, error) {
	f, err := r.Sequence.At(index)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= types.GridCells || col < 0 || col >= types.GridCells {
		return nil, fmt.Errorf("%w: (%d, %d) not in [0, %d)", ErrCellOutOfRange, row, col, types.GridCells)
	}

	view := &CellView{
		Index:  f.Index,
		Row:    row,
		Col:    col,
		X:      types.IndexToMetric(col),
		Y:      types.IndexToMetric(row),
		Active: f.IsActive(row, col),
	}
	c, ok := f.Cell(row, col)
	if !ok {
		return view, nil
	}
	view.Logged = true
	view.CoinValue = c.CoinValue
	view.DangerValue = c.DangerValue
	view.NorthWall = c.NorthWall
	view.WestWall = c.WestWall
	view.SouthWall = c.SouthWall
	view.EastWall = c.EastWall
	view.Possession = possession(c)
	view.IsBomb = c.IsBomb
	if c.Bomb != nil {
		owner, timer := c.Bomb.Owner, c.Bomb.Timer
		view.BombOwner = &owner
		view.BombTimer = &timer
	}
	return view, nil
}

// Robots implements Reader.
func (r *Replay) Robots(index, id int) ([]RobotView, error) {
	f, err := r.Sequence.At(index)
	if err != nil {
		return nil, err
	}
	var views []RobotView
	for entry, robot := range f.Robots {
		if id != 0 && robot.ID != id {
			continue
		}
		views = append(views, RobotView{
			Index:      f.Index,
			TimeMs:     f.TimeMs,
			Entry:      entry,
			ID:         robot.ID,
			X:          robot.X,
			Y:          robot.Y,
			A:          robot.A,
			SpeedLimit: robot.SpeedLimit,
			Team:       robot.Team,
			IsLive:     robot.IsLive,
			Score:      robot.Score,
			Inventory:  robot.Inventory,
		})
	}
	if id != 0 && len(views) == 0 {
		return nil, fmt.Errorf("%w: id %d in frame %d", ErrRobotNotFound, id, index)
	}
	return views, nil
}

// Frames implements Reader.
func (r *Replay) Frames() []FrameSummary {
	summaries := make([]FrameSummary, 0, r.Sequence.Len())
	for _, f := range r.Sequence.All() {
		team1, team2 := f.TeamScores()
		summaries = append(summaries, FrameSummary{
			Source:     r.Meta.Path,
			LoggerID:   strconv.Itoa(f.LoggerID),
			Index:      f.Index,
			TimeMs:     f.TimeMs,
			Robots:     len(f.Robots),
			Cells:      f.CellCount(),
			Bombs:      f.BombCount(),
			Team1Score: team1,
			Team2Score: team2,
		})
	}
	return summaries
}

// Stats implements Reader.
func (r *Replay) Stats() *StatsView {
	first, last := r.Sequence.Span()
	m := r.Metrics
	return &StatsView{
		Source:               r.Meta.Path,
		Format:               r.Meta.Format,
		Frames:               r.Sequence.Len(),
		FirstMs:              first,
		LastMs:               last,
		DurationMs:           last - first,
		LinesRead:            m.LinesRead,
		TailLinesDiscarded:   m.TailLinesDiscarded,
		RecordsByKind:        m.RecordsByKind,
		MalformedLines:       m.MalformedLines,
		OrphanRecords:        m.OrphanRecords,
		RobotsIgnored:        m.RobotsIgnored,
		RobotsRejected:       m.RobotsRejected,
		ResyncedRecords:      m.ResyncedRecords,
		FramesCorrupt:        m.FramesCorrupt,
		CorruptByKind:        m.CorruptByKind,
		TrailingFrameDropped: m.TrailingFrameDropped,
	}
}

// possession returns the team holding the cell, 0 for none.
func possession(c *types.Cell) int {
	switch {
	case c.Possession1:
		return 1
	case c.Possession2:
		return 2
	default:
		return 0
	}
}
