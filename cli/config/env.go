package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are the ARENAVIZ_* environment variables. They sit between
// the config file and command flags. Empty values leave the file's value.
type EnvOverrides struct {
	Source          string        `env:"ARENAVIZ_SOURCE"`
	LogLevel        string        `env:"ARENAVIZ_LOG_LEVEL"`
	LogFile         string        `env:"ARENAVIZ_LOG_FILE"`
	Tick            time.Duration `env:"ARENAVIZ_TICK"`
	StorageDataset  string        `env:"ARENAVIZ_STORAGE_DATASET"`
	StorageBackend  string        `env:"ARENAVIZ_STORAGE_BACKEND"`
	StoragePath     string        `env:"ARENAVIZ_STORAGE_PATH"`
	StorageRegion   string        `env:"ARENAVIZ_STORAGE_REGION"`
	StorageEndpoint string        `env:"ARENAVIZ_STORAGE_ENDPOINT"`
	AdapterType     string        `env:"ARENAVIZ_ADAPTER"`
	AdapterURL      string        `env:"ARENAVIZ_ADAPTER_URL"`
}

// ApplyEnv overlays the ARENAVIZ_* environment variables onto c and
// validates the result.
func (c *Config) ApplyEnv() error {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Source, o.Source)
	set(&c.Log.Level, o.LogLevel)
	set(&c.Log.File, o.LogFile)
	set(&c.Storage.Dataset, o.StorageDataset)
	set(&c.Storage.Backend, o.StorageBackend)
	set(&c.Storage.Path, o.StoragePath)
	set(&c.Storage.Region, o.StorageRegion)
	set(&c.Storage.Endpoint, o.StorageEndpoint)
	set(&c.Adapter.Type, o.AdapterType)
	set(&c.Adapter.URL, o.AdapterURL)
	if o.Tick != 0 {
		c.Playback.Tick = Duration{Duration: o.Tick}
	}
	return c.Validate()
}
