package lode

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/justapithecus/lode/lode"
)

// ErrNoRecordsFound is returned when no matching records exist in the dataset.
var ErrNoRecordsFound = errors.New("no matching records found")

// Filter narrows a query. Empty fields match everything; FrameIndex < 0
// matches every frame.
type Filter struct {
	Source     string
	LoggerID   string
	FrameIndex int
}

// AllFrames is a filter that matches every record.
var AllFrames = Filter{FrameIndex: -1}

// QueryFrames reads every frame record that passes the filter, ordered by
// source, logger and frame index. When the same frame was exported more
// than once the latest write wins.
func QueryFrames(ctx context.Context, ds lode.Dataset, filter Filter) ([]FrameRecord, error) {
	latest := make(map[recordKey]FrameRecord)
	err := scan(ctx, ds, RecordKindFrame, filter, func(m map[string]any) {
		rec := frameRecordFromMap(m)
		latest[recordKey{rec.Source, rec.LoggerID, rec.FrameIndex}] = rec
	})
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, ErrNoRecordsFound
	}

	out := make([]FrameRecord, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b FrameRecord) int {
		return cmp.Or(
			cmp.Compare(a.Source, b.Source),
			cmp.Compare(a.LoggerID, b.LoggerID),
			cmp.Compare(a.FrameIndex, b.FrameIndex),
		)
	})
	return out, nil
}

// QueryRobots reads every robot record that passes the filter, ordered by
// source, logger, frame index and position in the frame's robot list.
func QueryRobots(ctx context.Context, ds lode.Dataset, filter Filter) ([]RobotRecord, error) {
	latest := make(map[robotKey]RobotRecord)
	err := scan(ctx, ds, RecordKindRobot, filter, func(m map[string]any) {
		rec := robotRecordFromMap(m)
		latest[robotKey{recordKey{rec.Source, rec.LoggerID, rec.FrameIndex}, rec.Entry}] = rec
	})
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return nil, ErrNoRecordsFound
	}

	out := make([]RobotRecord, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b RobotRecord) int {
		return cmp.Or(
			cmp.Compare(a.Source, b.Source),
			cmp.Compare(a.LoggerID, b.LoggerID),
			cmp.Compare(a.FrameIndex, b.FrameIndex),
			cmp.Compare(a.Entry, b.Entry),
		)
	})
	return out, nil
}

type recordKey struct {
	source   string
	loggerID string
	frame    int
}

type robotKey struct {
	recordKey
	entry int
}

// scan reads every snapshot that may hold kind records and calls fn for
// each record passing the filter. Snapshots are visited oldest first.
// Manifest path filtering is a coarse pre-filter; record fields are
// authoritative.
func scan(ctx context.Context, ds lode.Dataset, kind string, filter Filter, fn func(map[string]any)) error {
	snapshots, err := ds.Snapshots(ctx)
	if err != nil {
		return WrapReadError(err, "snapshots")
	}

	for _, snap := range snapshots {
		if !snapshotMatchesFilter(snap, "record_kind", kind) ||
			!snapshotMatchesFilter(snap, "source", filter.Source) ||
			!snapshotMatchesFilter(snap, "logger_id", filter.LoggerID) {
			continue
		}

		data, err := ds.Read(ctx, snap.ID)
		if err != nil {
			return WrapReadError(err, fmt.Sprintf("snapshot/%s", snap.ID))
		}

		for _, item := range data {
			m, ok := item.(map[string]any)
			if !ok || m["record_kind"] != kind {
				continue
			}
			if filter.Source != "" && toString(m["source"]) != filter.Source {
				continue
			}
			if filter.LoggerID != "" && toString(m["logger_id"]) != filter.LoggerID {
				continue
			}
			if filter.FrameIndex >= 0 && int(toInt64(m["frame_index"])) != filter.FrameIndex {
				continue
			}
			fn(m)
		}
	}
	return nil
}
