package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/log"
	"github.com/justapithecus/arenaviz/metrics"
	"github.com/justapithecus/arenaviz/record"
)

// DefaultTrailingLines is how many lines at the end of a log are discarded.
// A log copied from a running robot usually ends in a half-written record.
const DefaultTrailingLines = 5

// Config controls an Engine.
type Config struct {
	// TrailingLines is the number of final lines to discard. Negative is 0.
	TrailingLines int
	// Robots is the duplicate robot policy.
	Robots RobotPolicy
	// Strict aborts ingestion on the first corrupt frame.
	Strict bool
}

// DefaultConfig returns the configuration used by Ingest.
func DefaultConfig() Config {
	return Config{
		TrailingLines: DefaultTrailingLines,
		Robots:        RobotsAppend,
	}
}

// Engine ingests whole logs. It holds no per-log state and may be reused.
type Engine struct {
	cfg       Config
	logger    *log.Logger
	collector *metrics.Collector
}

// NewEngine creates an engine. logger and collector may be nil.
func NewEngine(cfg Config, logger *log.Logger, collector *metrics.Collector) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{cfg: cfg, logger: logger, collector: collector}
}

// Ingest parses raw log text into a frame sequence.
//
// Malformed lines are dropped. A malformed FrameStart still ends the frame
// being built, and the records up to the next FrameStart are skipped. A corrupt frame is dropped and the builder
// resumes at the next FrameStart, unless Config.Strict is set, in which case
// ingestion stops with an *IngestionError wrapping the *FrameError. When no
// frame is sealed the empty sequence is returned with ErrEmptyLog.
func (e *Engine) Ingest(raw string) (*frames.Sequence, error) {
	lines := splitLines(raw)
	discard := min(max(e.cfg.TrailingLines, 0), len(lines))
	lines = lines[:len(lines)-discard]
	e.collector.AddLines(len(lines)+discard, discard)

	b := NewBuilder(e.cfg.Robots)
	debug := e.logger.Enabled(zapcore.DebugLevel)

	for i, line := range lines {
		lineNo := i + 1

		rec, err := record.Classify(line)
		if err != nil {
			e.collector.IncMalformed()
			if debug {
				e.logger.Debug("dropping malformed line", map[string]any{
					"line":  lineNo,
					"error": err.Error(),
				})
			}
			if record.IsMalformedFrameStart(err) && b.SkipFrame() {
				e.collector.IncFrameSealed()
			}
			continue
		}
		e.collector.IncRecord(rec.Kind().String())

		if r, ok := rec.(record.RobotUpdate); ok && r.Robot.ID == 0 {
			e.collector.IncRobotIgnored()
		}
		if _, ok := rec.(record.FrameStart); ok && b.State() == StateBuilding {
			e.collector.IncFrameSealed()
		}

		err = b.Apply(rec)
		switch {
		case err == nil:
		case errors.Is(err, ErrNoFrame):
			e.collector.IncOrphan()
		case errors.Is(err, ErrResyncing):
			e.collector.IncResynced()
		case errors.Is(err, ErrDuplicateRobot):
			e.collector.IncRobotRejected()
			if debug {
				e.logger.Debug("rejected duplicate robot", map[string]any{
					"line":  lineNo,
					"error": err.Error(),
				})
			}
		default:
			var fe *FrameError
			if !errors.As(err, &fe) {
				return nil, &IngestionError{Line: lineNo, Err: err}
			}
			e.collector.IncFrameCorrupt(fe.Kind.String())
			e.logger.Warn("dropping corrupt frame", map[string]any{
				"line":    lineNo,
				"kind":    fe.Kind.String(),
				"time_ms": fe.TimeMs,
				"row":     fe.Row,
				"col":     fe.Col,
			})
			if e.cfg.Strict {
				return nil, &IngestionError{Line: lineNo, Err: fe}
			}
		}
	}

	if b.State() == StateBuilding {
		e.collector.SetTrailingFrameDropped()
	}
	seq := b.Finish()

	e.logger.Info("ingestion complete", map[string]any{
		"lines":  len(lines),
		"frames": seq.Len(),
	})

	if seq.Len() == 0 {
		return seq, ErrEmptyLog
	}
	return seq, nil
}

// IngestReader reads r to the end and ingests the text. ctx is checked
// before and after reading; parsing itself is not interruptible.
func (e *Engine) IngestReader(ctx context.Context, r io.Reader) (*frames.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.Ingest(string(data))
}

// Ingest parses raw log text with DefaultConfig and no logging.
func Ingest(raw string) (*frames.Sequence, error) {
	return NewEngine(DefaultConfig(), nil, nil).Ingest(raw)
}

// splitLines splits text the way a file is read line by line: a final
// newline does not start another line and a trailing \r is removed.
func splitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
