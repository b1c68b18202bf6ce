// Package metrics provides per-ingestion counters.
//
// The Collector accumulates counters while one log is ingested and, for
// exports, while its frames are written to storage. It is a leaf package
// with no internal dependencies: record kinds and corruption kinds are
// passed in as their string names.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Input
	LinesRead          int64 `json:"lines_read" yaml:"lines_read"`
	TailLinesDiscarded int64 `json:"tail_lines_discarded" yaml:"tail_lines_discarded"`

	// Classification
	RecordsByKind   map[string]int64 `json:"records_by_kind" yaml:"records_by_kind"`
	MalformedLines  int64            `json:"malformed_lines" yaml:"malformed_lines"`
	OrphanRecords   int64            `json:"orphan_records" yaml:"orphan_records"`
	RobotsIgnored   int64            `json:"robots_disconnected" yaml:"robots_disconnected"`
	RobotsRejected  int64            `json:"robots_rejected" yaml:"robots_rejected"`
	ResyncedRecords int64            `json:"resynced_records" yaml:"resynced_records"`

	// Frames
	FramesSealed         int64            `json:"frames_sealed" yaml:"frames_sealed"`
	FramesCorrupt        int64            `json:"frames_corrupt" yaml:"frames_corrupt"`
	CorruptByKind        map[string]int64 `json:"corrupt_by_kind" yaml:"corrupt_by_kind"`
	TrailingFrameDropped bool             `json:"trailing_frame_dropped" yaml:"trailing_frame_dropped"`

	// Storage (exports only). Counted per call, not per record.
	StorageWriteSuccess int64 `json:"storage_write_success" yaml:"storage_write_success"`
	StorageWriteFailure int64 `json:"storage_write_failure" yaml:"storage_write_failure"`

	// Dimensions
	Source string `json:"source" yaml:"source"`
	Format string `json:"format" yaml:"format"`
}

// Collector accumulates metrics for one ingestion.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	linesRead          int64
	tailLinesDiscarded int64

	recordsByKind   map[string]int64
	malformedLines  int64
	orphanRecords   int64
	robotsIgnored   int64
	robotsRejected  int64
	resyncedRecords int64

	framesSealed         int64
	framesCorrupt        int64
	corruptByKind        map[string]int64
	trailingFrameDropped bool

	storageWriteSuccess int64
	storageWriteFailure int64

	source string
	format string
}

// NewCollector creates a Collector labelled with the input source and format.
func NewCollector(source, format string) *Collector {
	return &Collector{
		recordsByKind: make(map[string]int64),
		corruptByKind: make(map[string]int64),
		source:        source,
		format:        format,
	}
}

// --- Input ---

// AddLines records how many lines were read and how many were discarded
// from the tail before classification.
func (c *Collector) AddLines(read, tailDiscarded int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.linesRead += int64(read)
	c.tailLinesDiscarded += int64(tailDiscarded)
	c.mu.Unlock()
}

// --- Classification ---

// IncRecord records one successfully classified line of the given kind.
func (c *Collector) IncRecord(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.recordsByKind[kind]++
	c.mu.Unlock()
}

// IncMalformed records a dropped malformed line.
func (c *Collector) IncMalformed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.malformedLines++
	c.mu.Unlock()
}

// IncOrphan records a record that arrived before the first frame.
func (c *Collector) IncOrphan() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.orphanRecords++
	c.mu.Unlock()
}

// IncRobotIgnored records a disconnected-robot update.
func (c *Collector) IncRobotIgnored() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.robotsIgnored++
	c.mu.Unlock()
}

// IncRobotRejected records a duplicate robot update rejected by policy.
func (c *Collector) IncRobotRejected() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.robotsRejected++
	c.mu.Unlock()
}

// IncResynced records a record skipped while waiting for the next frame
// after a corrupt one.
func (c *Collector) IncResynced() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.resyncedRecords++
	c.mu.Unlock()
}

// --- Frames ---

// IncFrameSealed records a frame appended to the sequence.
func (c *Collector) IncFrameSealed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesSealed++
	c.mu.Unlock()
}

// IncFrameCorrupt records a frame discarded because of log corruption.
func (c *Collector) IncFrameCorrupt(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.framesCorrupt++
	c.corruptByKind[kind]++
	c.mu.Unlock()
}

// SetTrailingFrameDropped records that the final, incomplete frame was dropped.
func (c *Collector) SetTrailingFrameDropped() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.trailingFrameDropped = true
	c.mu.Unlock()
}

// --- Storage ---

// IncStorageWriteSuccess records a successful storage write call.
func (c *Collector) IncStorageWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storageWriteSuccess++
	c.mu.Unlock()
}

// IncStorageWriteFailure records a failed storage write call.
func (c *Collector) IncStorageWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storageWriteFailure++
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		LinesRead:          c.linesRead,
		TailLinesDiscarded: c.tailLinesDiscarded,

		RecordsByKind:   copyCounts(c.recordsByKind),
		MalformedLines:  c.malformedLines,
		OrphanRecords:   c.orphanRecords,
		RobotsIgnored:   c.robotsIgnored,
		RobotsRejected:  c.robotsRejected,
		ResyncedRecords: c.resyncedRecords,

		FramesSealed:         c.framesSealed,
		FramesCorrupt:        c.framesCorrupt,
		CorruptByKind:        copyCounts(c.corruptByKind),
		TrailingFrameDropped: c.trailingFrameDropped,

		StorageWriteSuccess: c.storageWriteSuccess,
		StorageWriteFailure: c.storageWriteFailure,

		Source: c.source,
		Format: c.format,
	}
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
