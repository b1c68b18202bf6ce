package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/justapithecus/arenaviz/ingest"
	"github.com/justapithecus/arenaviz/log"
)

// Config represents an arenaviz.yaml configuration file.
// All values are optional and act as defaults for command flags.
// CLI flags always override config values.
type Config struct {
	Source   string         `yaml:"source"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Playback PlaybackConfig `yaml:"playback"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Adapter  AdapterConfig  `yaml:"adapter"`
	// Notify lists further adapters that receive the same completion event.
	Notify []AdapterConfig `yaml:"notify"`
}

// IngestConfig holds log parsing defaults.
type IngestConfig struct {
	// TrailingLines is nil when unset so that an explicit 0 is kept.
	TrailingLines *int   `yaml:"trailing_lines"`
	Robots        string `yaml:"robots"`
	Strict        bool   `yaml:"strict"`
}

// PlaybackConfig holds player defaults.
type PlaybackConfig struct {
	Tick   Duration `yaml:"tick"`
	Paused bool     `yaml:"paused"`
}

// LogConfig holds diagnostic logging defaults.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives player logs. Empty discards them.
	File string `yaml:"file"`
}

// StorageConfig holds dataset export defaults.
type StorageConfig struct {
	Dataset     string `yaml:"dataset"`
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds archive notification defaults.
type AdapterConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "16ms", "1s").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "16ms" or "1m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Validate checks enumerated and numeric fields. All errors are joined.
func (c *Config) Validate() error {
	var errs []error
	if c.Ingest.TrailingLines != nil && *c.Ingest.TrailingLines < 0 {
		errs = append(errs, fmt.Errorf("ingest.trailing_lines must be >= 0, got %d", *c.Ingest.TrailingLines))
	}
	if _, err := ingest.ParseRobotPolicy(c.Ingest.Robots); err != nil {
		errs = append(errs, fmt.Errorf("ingest.robots: %w", err))
	}
	if c.Playback.Tick.Duration < 0 {
		errs = append(errs, fmt.Errorf("playback.tick must be positive, got %s", c.Playback.Tick.Duration))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Storage.Backend {
	case "", "fs", "s3":
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be fs or s3, got %q", c.Storage.Backend))
	}
	errs = append(errs, c.Adapter.validate("adapter")...)
	for i, ac := range c.Notify {
		errs = append(errs, ac.validate(fmt.Sprintf("notify[%d]", i))...)
	}
	return errors.Join(errs...)
}

func (a AdapterConfig) validate(prefix string) []error {
	var errs []error
	switch a.Type {
	case "", "webhook", "redis":
	default:
		errs = append(errs, fmt.Errorf("%s.type must be webhook or redis, got %q", prefix, a.Type))
	}
	if a.Retries != nil && *a.Retries < 0 {
		errs = append(errs, fmt.Errorf("%s.retries must be >= 0, got %d", prefix, *a.Retries))
	}
	return errs
}

// IngestConfig returns the ingestion settings, falling back to
// ingest.DefaultConfig for unset fields.
func (c *Config) IngestConfig() (ingest.Config, error) {
	cfg := ingest.DefaultConfig()
	if c == nil {
		return cfg, nil
	}
	if c.Ingest.TrailingLines != nil {
		cfg.TrailingLines = *c.Ingest.TrailingLines
	}
	policy, err := ingest.ParseRobotPolicy(c.Ingest.Robots)
	if err != nil {
		return cfg, err
	}
	cfg.Robots = policy
	cfg.Strict = c.Ingest.Strict
	return cfg, nil
}
