// Package adapter publishes archive completion notifications to
// downstream systems (an HTTP endpoint or a Redis channel) after a replay
// has been exported into a dataset.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justapithecus/arenaviz/types"
)

// EventArchiveCompleted is the event type of ArchiveCompletedEvent.
const EventArchiveCompleted = "archive_completed"

// DefaultBackoff is the delay before the first retry. It doubles per retry.
const DefaultBackoff = 500 * time.Millisecond

// ArchiveCompletedEvent is the payload published when an export finishes.
type ArchiveCompletedEvent struct {
	Version     string `json:"version"`
	EventType   string `json:"event_type"` // always "archive_completed"
	Dataset     string `json:"dataset"`
	Source      string `json:"source"`
	Day         string `json:"day"`
	StoragePath string `json:"storage_path"`
	// Replay is the store path of the .arena sidecar, if one was written.
	Replay     string `json:"replay,omitempty"`
	Frames     int    `json:"frames"`
	Robots     int    `json:"robots"`
	FirstMs    int64  `json:"first_ms"`
	LastMs     int64  `json:"last_ms"`
	Timestamp  string `json:"timestamp"` // RFC 3339, UTC
	DurationMs int64  `json:"duration_ms"`
}

// NewArchiveCompletedEvent fills the version, type and timestamp fields.
func NewArchiveCompletedEvent(now time.Time) *ArchiveCompletedEvent {
	return &ArchiveCompletedEvent{
		Version:   types.Version,
		EventType: EventArchiveCompleted,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// Adapter publishes archive completion events to a downstream system.
type Adapter interface {
	// Publish sends an event. Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *ArchiveCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}

// Retry calls attempt up to 1+retries times with exponential backoff
// between calls. It stops early when attempt succeeds, when fatal reports
// the error as non-retriable, or when ctx is done. name prefixes errors.
func Retry(ctx context.Context, name string, retries int, backoff time.Duration, attempt func(context.Context) error, fatal func(error) bool) error {
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	attempts := 1 + retries

	var lastErr error
	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: context canceled: %w", name, err)
		}
		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: context canceled during backoff: %w", name, ctx.Err())
			case <-time.After(backoff << (i - 1)):
			}
		}

		lastErr = attempt(ctx)
		if lastErr == nil {
			return nil
		}
		if fatal != nil && fatal(lastErr) {
			return fmt.Errorf("%s: non-retriable error: %w", name, lastErr)
		}
	}
	return fmt.Errorf("%s: failed after %d attempts: %w", name, attempts, lastErr)
}

// Multi fans one event out to several adapters. Every adapter is tried;
// the errors are joined.
type Multi []Adapter

// Publish implements Adapter.
func (m Multi) Publish(ctx context.Context, event *ArchiveCompletedEvent) error {
	var errs []error
	for _, a := range m {
		if err := a.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Adapter.
func (m Multi) Close() error {
	var errs []error
	for _, a := range m {
		if err := a.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Adapter = Multi(nil)
