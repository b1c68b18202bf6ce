package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/cli/config"
	"github.com/justapithecus/arenaviz/cli/reader"
	"github.com/justapithecus/arenaviz/ingest"
	"github.com/justapithecus/arenaviz/iox"
	"github.com/justapithecus/arenaviz/log"
	"github.com/justapithecus/arenaviz/types"
)

// Exit codes.
const (
	exitSuccess  = 0
	exitError    = 1
	exitEmptyLog = 2
)

// loadConfig loads --config, or ./arenaviz.yaml when present, then the
// ARENAVIZ_* environment overrides. The result is never nil.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadOptional(c.String("config"))
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ingestConfig merges the ingest flags over the config file.
func ingestConfig(c *cli.Context, cfg *config.Config) (ingest.Config, error) {
	ic, err := cfg.IngestConfig()
	if err != nil {
		return ic, err
	}
	if c.IsSet("strict") {
		ic.Strict = c.Bool("strict")
	}
	if c.IsSet("robots") {
		policy, err := ingest.ParseRobotPolicy(c.String("robots"))
		if err != nil {
			return ic, err
		}
		ic.Robots = policy
	}
	if c.IsSet("trailing-lines") {
		n := c.Int("trailing-lines")
		if n < 0 {
			return ic, fmt.Errorf("--trailing-lines must be >= 0, got %d", n)
		}
		ic.TrailingLines = n
	}
	return ic, nil
}

// newLogger builds the diagnostic logger for meta. Logs go to w, or to
// the app's error writer when w is nil.
func newLogger(c *cli.Context, cfg *config.Config, meta types.SourceMeta, w io.Writer) (*log.Logger, error) {
	levelName := cfg.Log.Level
	if c.IsSet("log-level") {
		levelName = c.String("log-level")
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = c.App.ErrWriter
	}
	logger := log.NewLogger(&meta, log.WithLevel(level))
	if w != nil {
		logger = logger.WithOutput(w)
	}
	return logger, nil
}

// replayArg returns the single <log> argument.
func replayArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", cli.Exit("log path required (use - for stdin)", exitError)
	}
	return c.Args().First(), nil
}

// loadReplay loads the config and then the replay named by the first
// argument. Diagnostic logs go to the app's error writer.
func loadReplay(c *cli.Context) (*reader.Replay, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), exitError)
	}
	replay, err := loadReplayWith(c, cfg, nil)
	return replay, cfg, err
}

// loadReplayWith loads the replay named by the first argument with cfg
// under the flags. logOut redirects diagnostic logs when not nil.
func loadReplayWith(c *cli.Context, cfg *config.Config, logOut io.Writer) (*reader.Replay, error) {
	path, err := replayArg(c)
	if err != nil {
		return nil, err
	}
	ic, err := ingestConfig(c, cfg)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitError)
	}
	meta := reader.Meta(path)
	logger, err := newLogger(c, cfg, meta, logOut)
	if err != nil {
		return nil, cli.Exit(err.Error(), exitError)
	}
	defer iox.DiscardErr(logger.Sync)

	replay, err := reader.Load(c.Context, path, reader.LoadOptions{
		Ingest: ic,
		Logger: logger,
		Stdin:  c.App.Reader,
	})
	if err != nil {
		return replay, replayError(path, err)
	}
	return replay, nil
}

// replayError maps a load failure to an exit code.
func replayError(path string, err error) error {
	if errors.Is(err, ingest.ErrEmptyLog) {
		return cli.Exit(fmt.Sprintf("%s: no complete frames", path), exitEmptyLog)
	}
	return cli.Exit(fmt.Sprintf("%s: %v", path, err), exitError)
}

// isEmptyLog reports whether err is the empty-log exit.
func isEmptyLog(err error) bool {
	var exitCoder cli.ExitCoder
	return errors.As(err, &exitCoder) && exitCoder.ExitCode() == exitEmptyLog
}

// sourceName derives a dataset source from a log path: the base name
// without extension, with partition separators replaced.
func sourceName(path string) string {
	if path == reader.StdinPath {
		return "stdin"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.NewReplacer("/", "_", "=", "_").Replace(base)
}

// isStderrTTY returns true if stderr is a TTY.
func isStderrTTY() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
