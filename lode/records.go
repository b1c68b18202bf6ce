package lode

import (
	"strconv"

	"github.com/justapithecus/arenaviz/types"
)

// Record kind discriminators. record_kind is also the last partition key.
const (
	RecordKindFrame = "frame"
	RecordKindRobot = "robot"
)

// FrameRecord is the storage format of one frame: its header and
// aggregate counts. Cells are not exported.
type FrameRecord struct {
	RecordKind string `json:"record_kind"`

	FrameIndex      int      `json:"frame_index"`
	TimeMs          int64    `json:"time_ms"`
	TimeUntilShrink float64  `json:"time_until_shrink"`
	GridSize        *float64 `json:"grid_size,omitempty"`

	RobotCount int      `json:"robot_count"`
	CellCount  int      `json:"cell_count"`
	BombCount  int      `json:"bomb_count"`
	LineCount  int      `json:"line_count"`
	PointCount int      `json:"point_count"`
	Team1Score int      `json:"team1_score"`
	Team2Score int      `json:"team2_score"`
	LogLines   []string `json:"log_lines"`

	// Partition keys (used by Lode HiveLayout)
	Source   string `json:"source"`
	Day      string `json:"day"`
	LoggerID string `json:"logger_id"`
}

// RobotRecord is the storage format of one robot entry in one frame.
type RobotRecord struct {
	RecordKind string `json:"record_kind"`

	FrameIndex int   `json:"frame_index"`
	TimeMs     int64 `json:"time_ms"`
	// Entry is the position in the frame's robot list. Ids may repeat
	// within a frame, entries do not.
	Entry      int     `json:"entry"`
	RobotID    int     `json:"robot_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	A          float64 `json:"a"`
	SpeedLimit float64 `json:"speed_limit"`
	Team       int     `json:"team"`
	IsLive     bool    `json:"is_live"`
	Score      int     `json:"score"`
	Inventory  int     `json:"inventory"`

	Source   string `json:"source"`
	Day      string `json:"day"`
	LoggerID string `json:"logger_id"`
}

// toFrameRecordMap converts a frame to a map for Lode storage.
// Lode HiveLayout requires records as map[string]any.
func toFrameRecordMap(f *types.Frame, cfg Config) map[string]any {
	team1, team2 := f.TeamScores()
	logLines := f.LogLines
	if logLines == nil {
		logLines = []string{}
	}
	m := map[string]any{
		"record_kind":       RecordKindFrame,
		"frame_index":       f.Index,
		"time_ms":           f.TimeMs,
		"time_until_shrink": f.TimeUntilShrink,
		"robot_count":       len(f.Robots),
		"cell_count":        f.CellCount(),
		"bomb_count":        f.BombCount(),
		"line_count":        len(f.Lines),
		"point_count":       len(f.Points),
		"team1_score":       team1,
		"team2_score":       team2,
		"log_lines":         logLines,
		"source":            cfg.Source,
		"day":               cfg.Day,
		"logger_id":         strconv.Itoa(f.LoggerID),
	}
	if f.GridSize != nil {
		m["grid_size"] = *f.GridSize
	}
	return m
}

// toRobotRecordMap converts one robot of a frame to a map for Lode storage.
func toRobotRecordMap(f *types.Frame, entry int, cfg Config) map[string]any {
	r := f.Robots[entry]
	return map[string]any{
		"record_kind": RecordKindRobot,
		"frame_index": f.Index,
		"time_ms":     f.TimeMs,
		"entry":       entry,
		"robot_id":    r.ID,
		"x":           r.X,
		"y":           r.Y,
		"a":           r.A,
		"speed_limit": r.SpeedLimit,
		"team":        r.Team,
		"is_live":     r.IsLive,
		"score":       r.Score,
		"inventory":   r.Inventory,
		"source":      cfg.Source,
		"day":         cfg.Day,
		"logger_id":   strconv.Itoa(f.LoggerID),
	}
}

// frameRecordFromMap decodes a stored frame record. JSONL decoding yields
// float64 for every number.
func frameRecordFromMap(m map[string]any) FrameRecord {
	rec := FrameRecord{
		RecordKind:      toString(m["record_kind"]),
		FrameIndex:      int(toInt64(m["frame_index"])),
		TimeMs:          toInt64(m["time_ms"]),
		TimeUntilShrink: toFloat64(m["time_until_shrink"]),
		RobotCount:      int(toInt64(m["robot_count"])),
		CellCount:       int(toInt64(m["cell_count"])),
		BombCount:       int(toInt64(m["bomb_count"])),
		LineCount:       int(toInt64(m["line_count"])),
		PointCount:      int(toInt64(m["point_count"])),
		Team1Score:      int(toInt64(m["team1_score"])),
		Team2Score:      int(toInt64(m["team2_score"])),
		Source:          toString(m["source"]),
		Day:             toString(m["day"]),
		LoggerID:        toString(m["logger_id"]),
	}
	if v, ok := m["grid_size"]; ok && v != nil {
		size := toFloat64(v)
		rec.GridSize = &size
	}
	if lines, ok := m["log_lines"].([]any); ok {
		rec.LogLines = make([]string, 0, len(lines))
		for _, l := range lines {
			rec.LogLines = append(rec.LogLines, toString(l))
		}
	}
	return rec
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

// robotRecordFromMap decodes a stored robot record.
func robotRecordFromMap(m map[string]any) RobotRecord {
	isLive, _ := m["is_live"].(bool)
	return RobotRecord{
		RecordKind: toString(m["record_kind"]),
		FrameIndex: int(toInt64(m["frame_index"])),
		TimeMs:     toInt64(m["time_ms"]),
		Entry:      int(toInt64(m["entry"])),
		RobotID:    int(toInt64(m["robot_id"])),
		X:          toFloat64(m["x"]),
		Y:          toFloat64(m["y"]),
		A:          toFloat64(m["a"]),
		SpeedLimit: toFloat64(m["speed_limit"]),
		Team:       int(toInt64(m["team"])),
		IsLive:     isLive,
		Score:      int(toInt64(m["score"])),
		Inventory:  int(toInt64(m["inventory"])),
		Source:     toString(m["source"]),
		Day:        toString(m["day"]),
		LoggerID:   toString(m["logger_id"]),
	}
}
