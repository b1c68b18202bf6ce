package reader

import (
	"context"
	"errors"

	lodelibrary "github.com/justapithecus/lode/lode"

	"github.com/justapithecus/arenaviz/lode"
)

// ListFrames reads the frame records of an exported dataset as summaries.
// An empty or non-matching dataset yields an empty list.
func ListFrames(ctx context.Context, ds lodelibrary.Dataset, filter lode.Filter) ([]FrameSummary, error) {
	records, err := lode.QueryFrames(ctx, ds, filter)
	if errors.Is(err, lode.ErrNoRecordsFound) {
		return []FrameSummary{}, nil
	}
	if err != nil {
		return nil, err
	}
	summaries := make([]FrameSummary, len(records))
	for i, rec := range records {
		summaries[i] = FrameSummaryFromRecord(rec)
	}
	return summaries, nil
}

// ListRobots reads the robot records of an exported dataset.
func ListRobots(ctx context.Context, ds lodelibrary.Dataset, filter lode.Filter) ([]RobotView, error) {
	records, err := lode.QueryRobots(ctx, ds, filter)
	if errors.Is(err, lode.ErrNoRecordsFound) {
		return []RobotView{}, nil
	}
	if err != nil {
		return nil, err
	}
	views := make([]RobotView, len(records))
	for i, rec := range records {
		views[i] = RobotViewFromRecord(rec)
	}
	return views, nil
}

// FrameSummaryFromRecord converts a stored frame record.
func FrameSummaryFromRecord(rec lode.FrameRecord) FrameSummary {
	return FrameSummary{
		Source:     rec.Source,
		LoggerID:   rec.LoggerID,
		Index:      rec.FrameIndex,
		TimeMs:     rec.TimeMs,
		Robots:     rec.RobotCount,
		Cells:      rec.CellCount,
		Bombs:      rec.BombCount,
		Team1Score: rec.Team1Score,
		Team2Score: rec.Team2Score,
	}
}

// RobotViewFromRecord converts a stored robot record.
func RobotViewFromRecord(rec lode.RobotRecord) RobotView {
	return RobotView{
		Index:      rec.FrameIndex,
		TimeMs:     rec.TimeMs,
		Entry:      rec.Entry,
		ID:         rec.RobotID,
		X:          rec.X,
		Y:          rec.Y,
		A:          rec.A,
		SpeedLimit: rec.SpeedLimit,
		Team:       rec.Team,
		IsLive:     rec.IsLive,
		Score:      rec.Score,
		Inventory:  rec.Inventory,
	}
}
