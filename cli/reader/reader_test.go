package reader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/justapithecus/arenaviz/archive"
	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/ingest"
)

// sampleLog has two sealed frames; the third frame start is followed by
// the default trailing padding.
const sampleLog = `{State};1000;3;15.0
{Robot_3};1.0;2.0;0.5;1.0;1;1;5;0
{Robot_9};2.0;1.0;0.0;1.0;2;1;4;1
{Maze_0};1987;960;960;960;960;960;960;960;960;960;960;960
{Bomb_0_5};2;3.5
12.3 | hello world
{State};2000;3;14.5
{Robot_3};1.1;2.0;0.5;1.0;1;1;6;0
{Robot_3};1.0
{State};3000;3;14.0
pad
pad
pad
pad
pad
`

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func loadSample(t *testing.T) *Replay {
	t.Helper()
	replay, err := Load(t.Context(), writeLog(t, sampleLog), LoadOptions{Ingest: ingest.DefaultConfig()})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return replay
}

func TestMeta(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"match.log", FormatLog},
		{"-", FormatLog},
		{"match.arena", FormatArchive},
		{"MATCH.ARENA", FormatArchive},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Meta(tt.path); got.Format != tt.want || got.Path != tt.path {
				t.Errorf("Meta(%q) = %+v, want format %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoad_TextLog(t *testing.T) {
	replay := loadSample(t)

	if replay.Sequence.Len() != 2 {
		t.Fatalf("frames = %d, want 2", replay.Sequence.Len())
	}
	if replay.Meta.Format != FormatLog || replay.Header != nil {
		t.Errorf("meta = %+v, header = %v", replay.Meta, replay.Header)
	}
	if replay.Metrics.MalformedLines != 1 || replay.Metrics.TailLinesDiscarded != 5 {
		t.Errorf("metrics = %+v", replay.Metrics)
	}
}

func TestReplay_Frame(t *testing.T) {
	replay := loadSample(t)

	v, err := replay.Frame(0)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if v.TimeMs != 1000 || v.LoggerID != 3 || v.Robots != 2 {
		t.Errorf("frame header = %+v", v)
	}
	if v.Cells != 12 || v.Bombs != 1 {
		t.Errorf("cells = %d, bombs = %d, want 12 and 1", v.Cells, v.Bombs)
	}
	if v.Team1Score != 5 || v.Team2Score != 4 {
		t.Errorf("scores = (%d, %d), want (5, 4)", v.Team1Score, v.Team2Score)
	}
	if v.GridSize != 12 || v.ActiveLo != 0 || v.ActiveHi != 12 {
		t.Errorf("active region = %v [%d, %d)", v.GridSize, v.ActiveLo, v.ActiveHi)
	}
	if len(v.LogLines) != 1 || v.LogLines[0] != "hello world" {
		t.Errorf("log lines = %q", v.LogLines)
	}

	if _, err := replay.Frame(2); !errors.Is(err, frames.ErrIndexOutOfRange) {
		t.Errorf("Frame(2) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestReplay_Cell(t *testing.T) {
	replay := loadSample(t)

	c, err := replay.Cell(0, 0, 0)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if !c.Logged || c.CoinValue != 3 || c.Possession != 1 || c.NorthWall {
		t.Errorf("cell (0,0) = %+v", c)
	}

	bomb, err := replay.Cell(0, 0, 5)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if !bomb.IsBomb || bomb.BombOwner == nil || *bomb.BombOwner != 2 || *bomb.BombTimer != 3.5 {
		t.Errorf("bomb cell = %+v", bomb)
	}
	if bomb.X != 1.25 || bomb.Y != 0 {
		t.Errorf("bomb cell position = (%v, %v), want (1.25, 0)", bomb.X, bomb.Y)
	}

	missing, err := replay.Cell(1, 4, 4)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if missing.Logged || !missing.Active {
		t.Errorf("unlogged cell = %+v", missing)
	}

	if _, err := replay.Cell(0, 12, 0); !errors.Is(err, ErrCellOutOfRange) {
		t.Errorf("Cell(0, 12, 0) error = %v, want ErrCellOutOfRange", err)
	}
}

func TestReplay_Robots(t *testing.T) {
	replay := loadSample(t)

	all, err := replay.Robots(0, 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("Robots(0, 0) = %v, %v", all, err)
	}

	one, err := replay.Robots(0, 9)
	if err != nil {
		t.Fatalf("Robots failed: %v", err)
	}
	if len(one) != 1 || one[0].Entry != 1 || one[0].Team != 2 || one[0].Inventory != 1 {
		t.Errorf("robot 9 = %+v", one)
	}

	if _, err := replay.Robots(1, 9); !errors.Is(err, ErrRobotNotFound) {
		t.Errorf("Robots(1, 9) error = %v, want ErrRobotNotFound", err)
	}
}

func TestReplay_FramesAndStats(t *testing.T) {
	replay := loadSample(t)

	summaries := replay.Frames()
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(summaries))
	}
	if summaries[1].Index != 1 || summaries[1].LoggerID != "3" || summaries[1].Team1Score != 6 {
		t.Errorf("summary[1] = %+v", summaries[1])
	}

	stats := replay.Stats()
	if stats.Frames != 2 || stats.FirstMs != 1000 || stats.LastMs != 2000 || stats.DurationMs != 1000 {
		t.Errorf("stats span = %+v", stats)
	}
	if stats.RecordsByKind["robot"] != 3 {
		t.Errorf("robot records = %d, want 3", stats.RecordsByKind["robot"])
	}
}

func TestLoad_Archive(t *testing.T) {
	src := loadSample(t)
	path := filepath.Join(t.TempDir(), "match.arena")
	if err := archive.WriteFile(path, src.Sequence, "match.log"); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	replay, err := Load(t.Context(), path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if replay.Meta.Format != FormatArchive || replay.Header == nil || replay.Header.Source != "match.log" {
		t.Errorf("meta = %+v, header = %+v", replay.Meta, replay.Header)
	}
	if replay.Sequence.Len() != 2 {
		t.Fatalf("frames = %d, want 2", replay.Sequence.Len())
	}
	c, err := replay.Cell(0, 0, 5)
	if err != nil || !c.IsBomb {
		t.Errorf("archived bomb cell = %+v, %v", c, err)
	}
}

func TestLoad_Stdin(t *testing.T) {
	replay, err := Load(t.Context(), StdinPath, LoadOptions{
		Ingest: ingest.DefaultConfig(),
		Stdin:  strings.NewReader(sampleLog),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if replay.Sequence.Len() != 2 || replay.Meta.Path != StdinPath {
		t.Errorf("replay = %+v", replay.Meta)
	}
}

func TestLoad_EmptyLog(t *testing.T) {
	replay, err := Load(t.Context(), writeLog(t, "junk\n"), LoadOptions{Ingest: ingest.DefaultConfig()})
	if !errors.Is(err, ingest.ErrEmptyLog) {
		t.Fatalf("Load error = %v, want ErrEmptyLog", err)
	}
	if replay == nil || replay.Sequence.Len() != 0 {
		t.Fatalf("want empty replay, got %+v", replay)
	}
	if replay.Stats().LinesRead != 1 {
		t.Errorf("lines read = %d, want 1", replay.Stats().LinesRead)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.Context(), filepath.Join(t.TempDir(), "nope.log"), LoadOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want not exist", err)
	}
}
