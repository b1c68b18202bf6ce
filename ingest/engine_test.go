package ingest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/justapithecus/arenaviz/log"
	"github.com/justapithecus/arenaviz/metrics"
)

const openMazeRow = ";960;960;960;960;960;960;960;960;960;960;960;960"

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func junk(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "junk"
	}
	return out
}

func TestIngest_BasicScenario(t *testing.T) {
	raw := joinLines(append([]string{
		"{State};1000;1;15.0",
		"{Robot_3};1.0;2.0;0.0;1.0;1;1;5;0",
		"{Robot_0};...",
		"{State};2000;1;14.5",
	}, junk(DefaultTrailingLines)...)...)

	seq, err := Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if seq.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", seq.Len())
	}
	f, _ := seq.At(0)
	if len(f.Robots) != 1 {
		t.Fatalf("robots = %+v, want one", f.Robots)
	}
	r := f.Robots[0]
	if r.ID != 3 || r.Score != 5 || r.X != 1.0 || r.Y != 2.0 || !r.IsLive {
		t.Errorf("robot = %+v", r)
	}
	if f.TimeMs != 1000 || f.TimeUntilShrink != 15.0 {
		t.Errorf("frame header = (%d, %v)", f.TimeMs, f.TimeUntilShrink)
	}
}

func TestIngest_TrailingLinesDiscarded(t *testing.T) {
	// Without padding, the default tail discard eats the second frame start.
	raw := joinLines(
		"{State};1000;1;15.0",
		"{Robot_3};1.0;2.0;0.0;1.0;1;1;5;0",
		"{State};2000;1;14.5",
		"{State};3000;1;14.0",
	)

	seq, err := Ingest(raw)
	if !errors.Is(err, ErrEmptyLog) {
		t.Fatalf("Ingest error = %v, want ErrEmptyLog", err)
	}
	if seq == nil || seq.Len() != 0 {
		t.Fatalf("want empty non-nil sequence, got %v", seq)
	}

	cfg := DefaultConfig()
	cfg.TrailingLines = 0
	col := metrics.NewCollector("t.log", "log")
	seq, err = NewEngine(cfg, nil, col).Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if seq.Len() != 2 {
		t.Errorf("Len() = %d, want 2", seq.Len())
	}
	s := col.Snapshot()
	if s.LinesRead != 4 || s.TailLinesDiscarded != 0 {
		t.Errorf("lines = (%d, %d), want (4, 0)", s.LinesRead, s.TailLinesDiscarded)
	}
	if s.FramesSealed != 2 || !s.TrailingFrameDropped {
		t.Errorf("frames sealed = %d, trailing dropped = %v", s.FramesSealed, s.TrailingFrameDropped)
	}
}

func TestIngest_BombScenario(t *testing.T) {
	raw := joinLines(append([]string{
		"{State};1000;1;15.0",
		"{Maze_0}" + openMazeRow,
		"{Bomb_0_5};2;3.5",
		"{State};2000;1;14.5",
	}, junk(DefaultTrailingLines)...)...)

	seq, err := Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	f, _ := seq.At(0)
	cell, ok := f.Cell(0, 5)
	if !ok || !cell.IsBomb || cell.Bomb == nil {
		t.Fatalf("cell (0,5) = %+v", cell)
	}
	if cell.Bomb.Owner != 2 || cell.Bomb.Timer != 3.5 {
		t.Errorf("bomb = %+v, want {2 3.5}", *cell.Bomb)
	}
}

func TestIngest_DrawPointIJScenario(t *testing.T) {
	raw := joinLines(append([]string{
		"{State};1000;1;15.0",
		"{drawPointIJ};3;4;#ff0000;2",
		"{State};2000;1;14.5",
	}, junk(DefaultTrailingLines)...)...)

	seq, err := Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	f, _ := seq.At(0)
	if len(f.Points) != 1 {
		t.Fatalf("points = %+v", f.Points)
	}
	p := f.Points[0]
	if p.X != 0.75 || p.Y != 1.0 || p.Color != "#ff0000" || p.Thickness != 2 {
		t.Errorf("point = %+v", p)
	}
}

func TestIngest_MalformedAndOrphanLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrailingLines = 0
	col := metrics.NewCollector("t.log", "log")

	raw := joinLines(
		"boot | starting",
		"{Robot_2};1;2;3;4;1;1;0;0",
		"{State};1000;1;15.0",
		"{Grid};oops",
		"{Robot_2};1;2",
		"12:00 | hello",
		"nothing to see",
		"{State};2000;1;14.5",
	)
	seq, err := NewEngine(cfg, nil, col).Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	f, _ := seq.At(0)
	if len(f.LogLines) != 1 || f.LogLines[0] != "hello" {
		t.Errorf("LogLines = %q, want [hello]", f.LogLines)
	}

	s := col.Snapshot()
	if s.MalformedLines != 2 {
		t.Errorf("MalformedLines = %d, want 2", s.MalformedLines)
	}
	if s.OrphanRecords != 2 {
		t.Errorf("OrphanRecords = %d, want 2", s.OrphanRecords)
	}
	if s.RecordsByKind["unrecognized"] != 1 {
		t.Errorf("RecordsByKind[unrecognized] = %d, want 1", s.RecordsByKind["unrecognized"])
	}
	if s.RecordsByKind["frame_start"] != 2 {
		t.Errorf("RecordsByKind[frame_start] = %d, want 2", s.RecordsByKind["frame_start"])
	}
}

func TestIngest_CorruptFrameResync(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrailingLines = 0
	col := metrics.NewCollector("t.log", "log")
	var logs bytes.Buffer
	logger := log.NewLogger(nil).WithOutput(&logs)

	raw := joinLines(
		"{State};1000;1;15.0",
		"{Maze_0}"+openMazeRow,
		"{State};2000;1;14.5",
		"{Maze_0}"+openMazeRow,
		"{Maze_0}"+openMazeRow,
		"{Robot_4};1;1;0;1;2;1;3;0",
		"{State};3000;1;14.0",
		"{State};4000;1;13.5",
	)
	seq, err := NewEngine(cfg, logger, col).Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if seq.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", seq.Len())
	}
	second, _ := seq.At(1)
	if second.TimeMs != 3000 {
		t.Errorf("second frame TimeMs = %d, want 3000", second.TimeMs)
	}

	s := col.Snapshot()
	if s.FramesCorrupt != 1 || s.CorruptByKind["duplicate_cell_write"] != 1 {
		t.Errorf("corrupt = %d %v", s.FramesCorrupt, s.CorruptByKind)
	}
	if s.ResyncedRecords != 1 {
		t.Errorf("ResyncedRecords = %d, want 1", s.ResyncedRecords)
	}
	if !strings.Contains(logs.String(), "dropping corrupt frame") {
		t.Errorf("expected warn log, got %q", logs.String())
	}
}

func TestIngest_MalformedFrameStartEndsFrame(t *testing.T) {
	tests := []struct {
		name string
		tick []string
	}{
		{
			name: "robots only",
			tick: []string{
				"{Robot_3};1.5;2.0;0.0;1.0;1;1;6;0",
				"a | tick two",
			},
		},
		{
			name: "maze row",
			tick: []string{
				"{Maze_0}" + openMazeRow,
				"{Robot_3};1.5;2.0;0.0;1.0;1;1;6;0",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TrailingLines = 0
			col := metrics.NewCollector("t.log", "log")

			lines := []string{
				"{State};1000;1;15.0",
				"{Maze_0}" + openMazeRow,
				"{Robot_3};1.0;2.0;0.0;1.0;1;1;5;0",
				"a | tick one",
				"{State};2000;1",
			}
			lines = append(lines, tt.tick...)
			lines = append(lines, "{State};3000;1;14.0", "{State};4000;1;13.5")

			seq, err := NewEngine(cfg, nil, col).Ingest(joinLines(lines...))
			if err != nil {
				t.Fatalf("Ingest error: %v", err)
			}
			if seq.Len() != 2 {
				t.Fatalf("Len() = %d, want 2", seq.Len())
			}
			first, _ := seq.At(0)
			if first.TimeMs != 1000 {
				t.Errorf("first frame TimeMs = %d, want 1000", first.TimeMs)
			}
			if len(first.Robots) != 1 || first.Robots[0].Score != 5 {
				t.Errorf("first frame robots = %+v, want only the score 5 update", first.Robots)
			}
			if len(first.LogLines) != 1 || first.LogLines[0] != "tick one" {
				t.Errorf("first frame LogLines = %q, want [tick one]", first.LogLines)
			}
			if first.Grid[0][0] == nil {
				t.Error("first frame lost its maze row")
			}
			second, _ := seq.At(1)
			if second.TimeMs != 3000 || len(second.Robots) != 0 {
				t.Errorf("second frame = %dms with %d robots, want 3000ms with none", second.TimeMs, len(second.Robots))
			}

			s := col.Snapshot()
			if s.MalformedLines != 1 {
				t.Errorf("MalformedLines = %d, want 1", s.MalformedLines)
			}
			if s.ResyncedRecords != int64(len(tt.tick)) {
				t.Errorf("ResyncedRecords = %d, want %d", s.ResyncedRecords, len(tt.tick))
			}
			if s.FramesCorrupt != 0 {
				t.Errorf("FramesCorrupt = %d, want 0", s.FramesCorrupt)
			}
			if s.FramesSealed != 2 {
				t.Errorf("FramesSealed = %d, want 2", s.FramesSealed)
			}
		})
	}
}

func TestIngest_StrictAborts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrailingLines = 0
	cfg.Strict = true

	raw := joinLines(
		"{State};1000;1;15.0",
		"{State};2000;1;14.5",
		"{Bomb_4_4};1;2.0",
		"{State};3000;1;14.0",
	)
	seq, err := NewEngine(cfg, nil, nil).Ingest(raw)
	if seq != nil {
		t.Errorf("strict failure returned a sequence of %d frames", seq.Len())
	}
	var ie *IngestionError
	if !errors.As(err, &ie) {
		t.Fatalf("error = %v, want *IngestionError", err)
	}
	if ie.Line != 3 {
		t.Errorf("Line = %d, want 3", ie.Line)
	}
	var fe *FrameError
	if !errors.As(err, &fe) || fe.Kind != BombOnMissingCell {
		t.Errorf("wrapped error = %v, want BombOnMissingCell", err)
	}
	if !IsCorruption(err) {
		t.Error("IsCorruption = false")
	}
}

func TestIngest_RobotPolicyFromConfig(t *testing.T) {
	raw := joinLines(
		"{State};1000;1;15.0",
		"{Robot_3};1;1;0;1;1;1;5;0",
		"{Robot_3};2;2;0;1;1;1;6;0",
		"{State};2000;1;14.5",
	)
	tests := []struct {
		policy RobotPolicy
		want   int
	}{
		{RobotsAppend, 2},
		{RobotsReplace, 1},
		{RobotsReject, 1},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			col := metrics.NewCollector("t.log", "log")
			seq, err := NewEngine(Config{Robots: tt.policy}, nil, col).Ingest(raw)
			if err != nil {
				t.Fatalf("Ingest error: %v", err)
			}
			f, _ := seq.At(0)
			if len(f.Robots) != tt.want {
				t.Errorf("robots = %d, want %d", len(f.Robots), tt.want)
			}
			rejected := col.Snapshot().RobotsRejected
			if (tt.policy == RobotsReject) != (rejected == 1) {
				t.Errorf("RobotsRejected = %d", rejected)
			}
		})
	}
}

func TestIngest_Empty(t *testing.T) {
	for _, raw := range []string{"", "\n", "junk\njunk\n"} {
		seq, err := Ingest(raw)
		if !errors.Is(err, ErrEmptyLog) {
			t.Errorf("Ingest(%q) error = %v, want ErrEmptyLog", raw, err)
		}
		if seq.Len() != 0 {
			t.Errorf("Ingest(%q) Len() = %d", raw, seq.Len())
		}
	}
}

func TestIngest_CRLF(t *testing.T) {
	raw := "{State};1000;1;15.0\r\n12:00 | hi\r\n{State};2000;1;14.5\r\n"
	seq, err := NewEngine(Config{}, nil, nil).Ingest(raw)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	f, _ := seq.At(0)
	if len(f.LogLines) != 1 || f.LogLines[0] != "hi" {
		t.Errorf("LogLines = %q", f.LogLines)
	}
}

func TestIngestReader(t *testing.T) {
	raw := joinLines("{State};1;1;1", "{State};2;1;1")
	e := NewEngine(Config{}, nil, nil)

	seq, err := e.IngestReader(t.Context(), strings.NewReader(raw))
	if err != nil {
		t.Fatalf("IngestReader error: %v", err)
	}
	if seq.Len() != 1 {
		t.Errorf("Len() = %d, want 1", seq.Len())
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if _, err := e.IngestReader(ctx, strings.NewReader(raw)); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled IngestReader error = %v, want context.Canceled", err)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\n\nb\n", []string{"a", "", "b"}},
		{"a\r\nb", []string{"a", "b"}},
		{"\n", []string{""}},
	}
	for _, tt := range tests {
		got := splitLines(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
