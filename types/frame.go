package types

import "math"

// BombData describes a placed bomb. It is only ever attached to a Cell.
type BombData struct {
	// Owner is the team that placed the bomb (1 or 2).
	Owner int `msgpack:"owner" json:"owner" yaml:"owner"`
	// Timer is the number of seconds left before detonation.
	Timer float64 `msgpack:"timer" json:"timer" yaml:"timer"`
}

// Cell is one decoded maze cell.
// Possession1 and Possession2 are never both true in a sealed frame,
// and a non-nil Bomb implies IsBomb.
type Cell struct {
	CoinValue   uint8     `msgpack:"coin_value" json:"coin_value" yaml:"coin_value"`
	DangerValue uint8     `msgpack:"danger_value" json:"danger_value" yaml:"danger_value"`
	NorthWall   bool      `msgpack:"north_wall" json:"north_wall" yaml:"north_wall"`
	WestWall    bool      `msgpack:"west_wall" json:"west_wall" yaml:"west_wall"`
	SouthWall   bool      `msgpack:"south_wall" json:"south_wall" yaml:"south_wall"`
	EastWall    bool      `msgpack:"east_wall" json:"east_wall" yaml:"east_wall"`
	Possession1 bool      `msgpack:"possession1" json:"possession1" yaml:"possession1"`
	Possession2 bool      `msgpack:"possession2" json:"possession2" yaml:"possession2"`
	IsBomb      bool      `msgpack:"is_bomb" json:"is_bomb" yaml:"is_bomb"`
	Bomb        *BombData `msgpack:"bomb,omitempty" json:"bomb,omitempty" yaml:"bomb,omitempty"`
}

// Robot is the logged state of one connected robot.
// Position and heading are in metric arena coordinates and are not clamped.
type Robot struct {
	ID         int     `msgpack:"id" json:"id" yaml:"id"`
	X          float64 `msgpack:"x" json:"x" yaml:"x"`
	Y          float64 `msgpack:"y" json:"y" yaml:"y"`
	A          float64 `msgpack:"a" json:"a" yaml:"a"`
	SpeedLimit float64 `msgpack:"speed_limit" json:"speed_limit" yaml:"speed_limit"`
	Team       int     `msgpack:"team" json:"team" yaml:"team"`
	IsLive     bool    `msgpack:"is_live" json:"is_live" yaml:"is_live"`
	Score      int     `msgpack:"score" json:"score" yaml:"score"`
	// Inventory is opaque to the replay core.
	Inventory int `msgpack:"inventory" json:"inventory" yaml:"inventory"`
}

// Line is a debug line annotation in metric coordinates.
type Line struct {
	X1        float64 `msgpack:"x1" json:"x1" yaml:"x1"`
	Y1        float64 `msgpack:"y1" json:"y1" yaml:"y1"`
	X2        float64 `msgpack:"x2" json:"x2" yaml:"x2"`
	Y2        float64 `msgpack:"y2" json:"y2" yaml:"y2"`
	Color     string  `msgpack:"color" json:"color" yaml:"color"`
	Thickness int     `msgpack:"thickness" json:"thickness" yaml:"thickness"`
}

// Point is a debug point annotation in metric coordinates.
type Point struct {
	X         float64 `msgpack:"x" json:"x" yaml:"x"`
	Y         float64 `msgpack:"y" json:"y" yaml:"y"`
	Color     string  `msgpack:"color" json:"color" yaml:"color"`
	Thickness int     `msgpack:"thickness" json:"thickness" yaml:"thickness"`
}

// Grid is the full maze of a frame, indexed [row][col].
// A nil entry is a cell that was never logged in the frame.
type Grid [GridCells][GridCells]*Cell

// Frame is one reconstructed snapshot of the arena.
//
// A Frame is built by the ingest package and sealed into a frames.Sequence.
// Sealed frames are shared between readers and must not be modified.
type Frame struct {
	// Index is the 0-based position of the frame in its sequence.
	Index int `msgpack:"index" json:"index" yaml:"index"`
	// TimeMs is the logger's clock in milliseconds.
	TimeMs int64 `msgpack:"time_ms" json:"time_ms" yaml:"time_ms"`
	// LoggerID is the robot that wrote the log.
	LoggerID int `msgpack:"logger_id" json:"logger_id" yaml:"logger_id"`
	// TimeUntilShrink is in seconds and may be transiently negative.
	TimeUntilShrink float64 `msgpack:"time_until_shrink" json:"time_until_shrink" yaml:"time_until_shrink"`
	// GridSize is the side of the active sub-grid; nil means the full grid.
	GridSize *float64 `msgpack:"grid_size,omitempty" json:"grid_size,omitempty" yaml:"grid_size,omitempty"`

	Grid     Grid     `msgpack:"grid" json:"grid" yaml:"-"`
	Robots   []Robot  `msgpack:"robots" json:"robots" yaml:"robots"`
	LogLines []string `msgpack:"log_lines" json:"log_lines" yaml:"log_lines"`
	Lines    []Line   `msgpack:"lines" json:"lines" yaml:"lines"`
	Points   []Point  `msgpack:"points" json:"points" yaml:"points"`
}

// Cell returns the cell at (row, col) and whether it was logged.
// Out-of-range coordinates report false.
func (f *Frame) Cell(row, col int) (*Cell, bool) {
	if row < 0 || row >= GridCells || col < 0 || col >= GridCells {
		return nil, false
	}
	c := f.Grid[row][col]
	return c, c != nil
}

// EffectiveGridSize returns the active sub-grid side, defaulting to GridCells.
func (f *Frame) EffectiveGridSize() float64 {
	if f.GridSize == nil {
		return GridCells
	}
	return *f.GridSize
}

// ActiveBounds returns the half-open index range [lo, hi) of the active
// sub-grid on both axes. The sub-grid is centred in the maze.
func (f *Frame) ActiveBounds() (lo, hi int) {
	size := f.EffectiveGridSize()
	low := GridCells/2 - math.Floor(size/2)
	return int(low), int(math.Ceil(low + size))
}

// IsActive reports whether (row, col) lies inside the active sub-grid.
func (f *Frame) IsActive(row, col int) bool {
	lo, hi := f.ActiveBounds()
	return row >= lo && row < hi && col >= lo && col < hi
}

// TeamScores sums robot scores per team. Robots of any team other than 1
// are counted for team 2.
func (f *Frame) TeamScores() (team1, team2 int) {
	for _, r := range f.Robots {
		if r.Team == 1 {
			team1 += r.Score
		} else {
			team2 += r.Score
		}
	}
	return team1, team2
}

// CellCount returns the number of logged cells.
func (f *Frame) CellCount() int {
	n := 0
	for row := range f.Grid {
		for _, c := range f.Grid[row] {
			if c != nil {
				n++
			}
		}
	}
	return n
}

// BombCount returns the number of logged cells holding a bomb.
func (f *Frame) BombCount() int {
	n := 0
	for row := range f.Grid {
		for _, c := range f.Grid[row] {
			if c != nil && c.IsBomb {
				n++
			}
		}
	}
	return n
}
