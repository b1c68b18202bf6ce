// Package lode exports parsed replays into a Lode dataset.
//
// Records are Hive-partitioned by source, day, logger_id and record_kind
// and encoded as JSONL. Frames and their robots are written in batches;
// each batch becomes one Lode snapshot.
package lode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/justapithecus/lode/lode"

	"github.com/justapithecus/arenaviz/frames"
	"github.com/justapithecus/arenaviz/metrics"
)

// DefaultBatchFrames is the number of frames written per dataset snapshot.
const DefaultBatchFrames = 256

// ErrInvalidFilename is returned by PutFile for names that would escape
// the files/ prefix.
var ErrInvalidFilename = errors.New("invalid sidecar filename")

// Config holds export configuration. Source and Day are partition keys.
type Config struct {
	// Dataset is the Lode dataset ID. Empty means DefaultDataset.
	Dataset string
	// Source names the replay, typically the log file's base name.
	Source string
	// Day is the export day (YYYY-MM-DD UTC), see DeriveDay.
	Day string
}

// Validate checks that the partition keys are present.
func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("lode: source is required")
	}
	if c.Day == "" {
		return errors.New("lode: day is required")
	}
	if strings.ContainsAny(c.Source, "/=") {
		return fmt.Errorf("lode: source %q must not contain '/' or '='", c.Source)
	}
	return nil
}

// Option configures a Client.
type Option func(*Client)

// WithCollector counts every dataset write as a storage success or failure.
func WithCollector(collector *metrics.Collector) Option {
	return func(c *Client) { c.collector = collector }
}

// WithBatchFrames sets how many frames go into one write. Values below 1
// are ignored.
func WithBatchFrames(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchFrames = n
		}
	}
}

// WriteResult summarizes an export.
type WriteResult struct {
	Frames  int `json:"frames" yaml:"frames"`
	Robots  int `json:"robots" yaml:"robots"`
	Batches int `json:"batches" yaml:"batches"`
}

// Client writes replays to a Lode dataset.
type Client struct {
	dataset     lode.Dataset
	config      Config
	collector   *metrics.Collector
	batchFrames int

	storeFactory lode.StoreFactory
	storeOnce    sync.Once
	store        lode.Store
	storeErr     error
}

// NewClient creates a client with filesystem storage rooted at root.
func NewClient(cfg Config, root string, opts ...Option) (*Client, error) {
	return NewClientWithFactory(cfg, lode.NewFSFactory(root), opts...)
}

// NewClientWithFactory creates a client with a custom store factory.
// Use lode.NewMemoryFactory() for testing.
func NewClientWithFactory(cfg Config, factory lode.StoreFactory, opts ...Option) (*Client, error) {
	if cfg.Dataset == "" {
		cfg.Dataset = DefaultDataset
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ds, err := newDataset(cfg.Dataset, factory)
	if err != nil {
		return nil, WrapInitError(err, cfg.Dataset)
	}

	c := &Client{
		dataset:      ds,
		config:       cfg,
		batchFrames:  DefaultBatchFrames,
		storeFactory: factory,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// WriteSequence writes one frame record per frame and one robot record per
// robot entry. Batches are written in frame order; on failure, earlier
// batches remain committed.
func (c *Client) WriteSequence(ctx context.Context, seq *frames.Sequence) (WriteResult, error) {
	var (
		res     WriteResult
		records []any
		pending int
	)

	flush := func() error {
		if len(records) == 0 {
			return nil
		}
		if err := c.write(ctx, records); err != nil {
			return err
		}
		res.Batches++
		records = nil
		pending = 0
		return nil
	}

	for _, f := range seq.All() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		records = append(records, toFrameRecordMap(f, c.config))
		for entry := range f.Robots {
			records = append(records, toRobotRecordMap(f, entry, c.config))
		}
		res.Frames++
		res.Robots += len(f.Robots)

		pending++
		if pending == c.batchFrames {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	return res, flush()
}

func (c *Client) write(ctx context.Context, records []any) error {
	if _, err := c.dataset.Write(ctx, records, lode.Metadata{}); err != nil {
		c.collector.IncStorageWriteFailure()
		return WrapWriteError(err, c.config.Dataset)
	}
	c.collector.IncStorageWriteSuccess()
	return nil
}

// PutFile writes a sidecar file (such as a replay archive) next to the
// exported partitions. The filename must not contain path separators or "..".
func (c *Client) PutFile(ctx context.Context, filename string, data []byte) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	store, err := c.getOrCreateStore()
	if err != nil {
		return WrapInitError(fmt.Errorf("file write store init failed: %w", err), c.config.Dataset)
	}

	path := c.FilePath(filename)
	if err := store.Put(ctx, path, bytes.NewReader(data)); err != nil {
		c.collector.IncStorageWriteFailure()
		return WrapWriteError(err, path)
	}
	c.collector.IncStorageWriteSuccess()
	return nil
}

// FilePath returns the store path of a sidecar file.
// Format: datasets/<dataset>/partitions/source=<s>/day=<d>/files/<filename>
func (c *Client) FilePath(filename string) string {
	return fmt.Sprintf("datasets/%s/partitions/source=%s/day=%s/files/%s",
		c.config.Dataset,
		c.config.Source,
		c.config.Day,
		filename,
	)
}

func (c *Client) getOrCreateStore() (lode.Store, error) {
	c.storeOnce.Do(func() {
		c.store, c.storeErr = c.storeFactory()
	})
	return c.store, c.storeErr
}

// Close releases client resources.
func (c *Client) Close() error {
	return nil
}
