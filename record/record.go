// Package record classifies raw arena log lines into typed records.
//
// Every line maps to exactly one Record. Recognised records are located by a
// brace-delimited tag such as {State} or {Maze_3}; the fields follow the tag
// and are separated by ';'. Untagged lines that contain the free-text
// delimiter become FreeText, everything else is Unrecognized.
package record

import "github.com/justapithecus/arenaviz/types"

// Separator delimits the fields of a tagged record.
const Separator = ";"

// FreeTextDelimiter separates a free-text line's source prefix from its body.
const FreeTextDelimiter = " | "

// Kind discriminates record variants.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindFrameStart
	KindRobot
	KindGridSize
	KindMazeRow
	KindBomb
	KindDrawLine
	KindDrawPoint
	KindFreeText
)

var kindNames = [...]string{
	KindUnrecognized: "unrecognized",
	KindFrameStart:   "frame_start",
	KindRobot:        "robot",
	KindGridSize:     "grid_size",
	KindMazeRow:      "maze_row",
	KindBomb:         "bomb",
	KindDrawLine:     "draw_line",
	KindDrawPoint:    "draw_point",
	KindFreeText:     "free_text",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// kinds returns every record kind in declaration order.
func kinds() []Kind {
	return []Kind{
		KindUnrecognized, KindFrameStart, KindRobot, KindGridSize, KindMazeRow,
		KindBomb, KindDrawLine, KindDrawPoint, KindFreeText,
	}
}

// Record is one classified log line.
type Record interface {
	Kind() Kind
}

// Space says how the coordinates of a draw record are expressed.
type Space int

const (
	// SpaceXY is metric arena coordinates.
	SpaceXY Space = iota
	// SpaceIJ is grid indices, converted with types.IndexToMetric.
	SpaceIJ
)

// FrameStart opens a new frame and seals the previous one.
type FrameStart struct {
	TimeMs          int64
	LoggerID        int
	TimeUntilShrink float64
}

// RobotUpdate is one robot's state. ID 0 marks a disconnected robot and
// carries no other fields.
type RobotUpdate struct {
	Robot types.Robot
}

// GridSizeUpdate sets the side of the active sub-grid.
type GridSizeUpdate struct {
	GridSize float64
}

// MazeRow carries the packed bitmaps of one maze row.
type MazeRow struct {
	Row     int
	Bitmaps [types.GridCells]uint32
}

// BombUpdate attaches bomb data to a cell.
type BombUpdate struct {
	Row, Col int
	Bomb     types.BombData
}

// DrawLine is a debug line annotation. In SpaceIJ the coordinates are
// whole grid indices.
type DrawLine struct {
	Space          Space
	X1, Y1, X2, Y2 float64
	Color          string
	Thickness      int
}

// Metric returns the annotation in metric coordinates.
func (d DrawLine) Metric() types.Line {
	l := types.Line{X1: d.X1, Y1: d.Y1, X2: d.X2, Y2: d.Y2, Color: d.Color, Thickness: d.Thickness}
	if d.Space == SpaceIJ {
		l.X1 = types.IndexToMetric(int(d.X1))
		l.Y1 = types.IndexToMetric(int(d.Y1))
		l.X2 = types.IndexToMetric(int(d.X2))
		l.Y2 = types.IndexToMetric(int(d.Y2))
	}
	return l
}

// DrawPoint is a debug point annotation.
type DrawPoint struct {
	Space     Space
	X, Y      float64
	Color     string
	Thickness int
}

// Metric returns the annotation in metric coordinates.
func (d DrawPoint) Metric() types.Point {
	p := types.Point{X: d.X, Y: d.Y, Color: d.Color, Thickness: d.Thickness}
	if d.Space == SpaceIJ {
		p.X = types.IndexToMetric(int(d.X))
		p.Y = types.IndexToMetric(int(d.Y))
	}
	return p
}

// FreeText is a human-readable log message.
type FreeText struct {
	Message string
}

// Unrecognized is a line that matched no record pattern. It is ignored.
type Unrecognized struct{}

func (FrameStart) Kind() Kind     { return KindFrameStart }
func (RobotUpdate) Kind() Kind    { return KindRobot }
func (GridSizeUpdate) Kind() Kind { return KindGridSize }
func (MazeRow) Kind() Kind        { return KindMazeRow }
func (BombUpdate) Kind() Kind     { return KindBomb }
func (DrawLine) Kind() Kind       { return KindDrawLine }
func (DrawPoint) Kind() Kind      { return KindDrawPoint }
func (FreeText) Kind() Kind       { return KindFreeText }
func (Unrecognized) Kind() Kind   { return KindUnrecognized }
