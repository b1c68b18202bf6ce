package cmd

import (
	"fmt"
	"path"
	"path/filepath"

	lodelibrary "github.com/justapithecus/lode/lode"
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/cli/config"
	"github.com/justapithecus/arenaviz/lode"
)

// storageSettings merges the storage flags over the config file.
func storageSettings(c *cli.Context, cfg *config.Config) config.StorageConfig {
	s := cfg.Storage
	if c.IsSet("storage-backend") {
		s.Backend = c.String("storage-backend")
	}
	if c.IsSet("storage-path") {
		s.Path = c.String("storage-path")
	}
	if c.IsSet("storage-dataset") {
		s.Dataset = c.String("storage-dataset")
	}
	if c.IsSet("storage-region") {
		s.Region = c.String("storage-region")
	}
	if c.IsSet("storage-endpoint") {
		s.Endpoint = c.String("storage-endpoint")
	}
	if c.IsSet("storage-path-style") {
		s.S3PathStyle = c.Bool("storage-path-style")
	}
	if s.Dataset == "" {
		s.Dataset = lode.DefaultDataset
	}
	return s
}

func requireLocation(s config.StorageConfig) error {
	if s.Backend == "" || s.Path == "" {
		return cli.Exit("both --storage-backend and --storage-path are required (or the storage section of the config file)", exitError)
	}
	return nil
}

func s3Config(s config.StorageConfig) lode.S3Config {
	bucket, prefix := lode.ParseS3Path(s.Path)
	return lode.S3Config{
		Bucket:       bucket,
		Prefix:       prefix,
		Region:       s.Region,
		Endpoint:     s.Endpoint,
		UsePathStyle: s.S3PathStyle,
	}
}

// buildClient creates a Lode export client for the configured backend.
func buildClient(s config.StorageConfig, cfg lode.Config, opts ...lode.Option) (*lode.Client, error) {
	if err := requireLocation(s); err != nil {
		return nil, err
	}
	switch s.Backend {
	case "fs":
		return lode.NewClient(cfg, s.Path, opts...)
	case "s3":
		return lode.NewS3Client(cfg, s3Config(s), opts...)
	default:
		return nil, fmt.Errorf("unsupported storage-backend: %s (must be fs or s3)", s.Backend)
	}
}

// buildReadDataset creates a Lode Dataset for reading.
func buildReadDataset(s config.StorageConfig) (lodelibrary.Dataset, error) {
	if err := requireLocation(s); err != nil {
		return nil, err
	}
	switch s.Backend {
	case "fs":
		return lode.NewReadDatasetFS(s.Dataset, s.Path)
	case "s3":
		return lode.NewReadDatasetS3(s.Dataset, s3Config(s))
	default:
		return nil, fmt.Errorf("unsupported storage-backend: %s (must be fs or s3)", s.Backend)
	}
}

// storageURI names the dataset location for notifications.
func storageURI(s config.StorageConfig) string {
	switch s.Backend {
	case "s3":
		return "s3://" + path.Join(s.Path, "datasets", s.Dataset)
	default:
		abs, err := filepath.Abs(s.Path)
		if err != nil {
			abs = s.Path
		}
		return "file://" + filepath.ToSlash(filepath.Join(abs, "datasets", s.Dataset))
	}
}
