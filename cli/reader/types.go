// Package reader is the read side of the arenaviz CLI: it loads a replay
// from a text log or a .arena archive and turns frames, cells, robots and
// stored dataset records into flat view types for rendering.
//
// Every view type renders the same way in json, yaml, table and TUI mode.
package reader

// FrameView describes one frame header and its aggregate contents.
type FrameView struct {
	Index           int      `json:"index" yaml:"index"`
	TimeMs          int64    `json:"time_ms" yaml:"time_ms"`
	LoggerID        int      `json:"logger_id" yaml:"logger_id"`
	TimeUntilShrink float64  `json:"time_until_shrink" yaml:"time_until_shrink"`
	GridSize        float64  `json:"grid_size" yaml:"grid_size"`
	ActiveLo        int      `json:"active_lo" yaml:"active_lo"`
	ActiveHi        int      `json:"active_hi" yaml:"active_hi"`
	Robots          int      `json:"robots" yaml:"robots"`
	Cells           int      `json:"cells" yaml:"cells"`
	Bombs           int      `json:"bombs" yaml:"bombs"`
	Lines           int      `json:"lines" yaml:"lines"`
	Points          int      `json:"points" yaml:"points"`
	Team1Score      int      `json:"team1_score" yaml:"team1_score"`
	Team2Score      int      `json:"team2_score" yaml:"team2_score"`
	LogLines        []string `json:"log_lines" yaml:"log_lines"`
}

// CellView describes one maze cell of one frame. X and Y are the metric
// coordinates of the cell's low corner.
type CellView struct {
	Index       int      `json:"index" yaml:"index"`
	Row         int      `json:"row" yaml:"row"`
	Col         int      `json:"col" yaml:"col"`
	X           float64  `json:"x" yaml:"x"`
	Y           float64  `json:"y" yaml:"y"`
	Logged      bool     `json:"logged" yaml:"logged"`
	Active      bool     `json:"active" yaml:"active"`
	CoinValue   uint8    `json:"coin_value" yaml:"coin_value"`
	DangerValue uint8    `json:"danger_value" yaml:"danger_value"`
	NorthWall   bool     `json:"north_wall" yaml:"north_wall"`
	WestWall    bool     `json:"west_wall" yaml:"west_wall"`
	SouthWall   bool     `json:"south_wall" yaml:"south_wall"`
	EastWall    bool     `json:"east_wall" yaml:"east_wall"`
	Possession  int      `json:"possession" yaml:"possession"`
	IsBomb      bool     `json:"is_bomb" yaml:"is_bomb"`
	BombOwner   *int     `json:"bomb_owner" yaml:"bomb_owner"`
	BombTimer   *float64 `json:"bomb_timer" yaml:"bomb_timer"`
}

// RobotView is one robot entry of one frame.
type RobotView struct {
	Index      int     `json:"index" yaml:"index"`
	TimeMs     int64   `json:"time_ms" yaml:"time_ms"`
	Entry      int     `json:"entry" yaml:"entry"`
	ID         int     `json:"id" yaml:"id"`
	X          float64 `json:"x" yaml:"x"`
	Y          float64 `json:"y" yaml:"y"`
	A          float64 `json:"a" yaml:"a"`
	SpeedLimit float64 `json:"speed_limit" yaml:"speed_limit"`
	Team       int     `json:"team" yaml:"team"`
	IsLive     bool    `json:"is_live" yaml:"is_live"`
	Score      int     `json:"score" yaml:"score"`
	Inventory  int     `json:"inventory" yaml:"inventory"`
}

// FrameSummary is one row of a frame listing, either from a loaded replay
// or from an exported dataset.
type FrameSummary struct {
	Source     string `json:"source" yaml:"source"`
	LoggerID   string `json:"logger_id" yaml:"logger_id"`
	Index      int    `json:"index" yaml:"index"`
	TimeMs     int64  `json:"time_ms" yaml:"time_ms"`
	Robots     int    `json:"robots" yaml:"robots"`
	Cells      int    `json:"cells" yaml:"cells"`
	Bombs      int    `json:"bombs" yaml:"bombs"`
	Team1Score int    `json:"team1_score" yaml:"team1_score"`
	Team2Score int    `json:"team2_score" yaml:"team2_score"`
}

// StatsView is the ingestion report of a loaded replay.
// Line and record counters are zero for archives.
type StatsView struct {
	Source     string `json:"source" yaml:"source"`
	Format     string `json:"format" yaml:"format"`
	Frames     int    `json:"frames" yaml:"frames"`
	FirstMs    int64  `json:"first_ms" yaml:"first_ms"`
	LastMs     int64  `json:"last_ms" yaml:"last_ms"`
	DurationMs int64  `json:"duration_ms" yaml:"duration_ms"`

	LinesRead            int64            `json:"lines_read" yaml:"lines_read"`
	TailLinesDiscarded   int64            `json:"tail_lines_discarded" yaml:"tail_lines_discarded"`
	RecordsByKind        map[string]int64 `json:"records_by_kind" yaml:"records_by_kind"`
	MalformedLines       int64            `json:"malformed_lines" yaml:"malformed_lines"`
	OrphanRecords        int64            `json:"orphan_records" yaml:"orphan_records"`
	RobotsIgnored        int64            `json:"robots_disconnected" yaml:"robots_disconnected"`
	RobotsRejected       int64            `json:"robots_rejected" yaml:"robots_rejected"`
	ResyncedRecords      int64            `json:"resynced_records" yaml:"resynced_records"`
	FramesCorrupt        int64            `json:"frames_corrupt" yaml:"frames_corrupt"`
	CorruptByKind        map[string]int64 `json:"corrupt_by_kind" yaml:"corrupt_by_kind"`
	TrailingFrameDropped bool             `json:"trailing_frame_dropped" yaml:"trailing_frame_dropped"`
}
