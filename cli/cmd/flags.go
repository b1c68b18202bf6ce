// Package cmd provides CLI commands for the arenaviz binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for select read-only commands (inspect, stats).
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (inspect, stats only)",
	}

	// ConfigFlag points at an arenaviz.yaml file. Without it the file in
	// the working directory is used when present.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file (default: ./arenaviz.yaml if present)",
		EnvVars: []string{"ARENAVIZ_CONFIG"},
	}

	// LogLevelFlag sets the diagnostic log level.
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Diagnostic log level: debug, info, warn, error",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
		ConfigFlag,
		LogLevelFlag,
	}
}

// IngestFlags returns the flags that tune log parsing. They override
// the ingest section of the config file.
func IngestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Abort on the first corrupt frame instead of skipping it",
		},
		&cli.StringFlag{
			Name:  "robots",
			Usage: "Duplicate robot ids within a frame: append, replace, reject",
		},
		&cli.IntFlag{
			Name:  "trailing-lines",
			Usage: "Number of trailing log lines to discard (default 5)",
		},
	}
}

// StorageFlags returns the dataset location flags. They override the
// storage section of the config file.
func StorageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "storage-backend",
			Usage: "Dataset backend: fs or s3",
		},
		&cli.StringFlag{
			Name:  "storage-path",
			Usage: "Dataset location (fs: directory, s3: bucket/prefix)",
		},
		&cli.StringFlag{
			Name:  "storage-dataset",
			Usage: "Dataset name (default arenaviz)",
		},
		&cli.StringFlag{
			Name:  "storage-region",
			Usage: "AWS region for the s3 backend (optional, uses default chain)",
		},
		&cli.StringFlag{
			Name:  "storage-endpoint",
			Usage: "Custom S3 endpoint URL (e.g. MinIO)",
		},
		&cli.BoolFlag{
			Name:  "storage-path-style",
			Usage: "Force S3 path-style addressing",
		},
	}
}

// replayFlags are the flags of every command that loads a replay.
func replayFlags(extra ...cli.Flag) []cli.Flag {
	flags := append(ReadOnlyFlags(), IngestFlags()...)
	return append(flags, extra...)
}
