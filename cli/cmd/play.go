package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/cli/tui"
	"github.com/justapithecus/arenaviz/iox"
)

// PlayCommand returns the play command, the interactive replay player.
func PlayCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "Play a replay in the terminal",
		ArgsUsage: "<log|replay.arena|->",
		Flags: append([]cli.Flag{ConfigFlag, LogLevelFlag, NoColorFlag},
			append(IngestFlags(),
				&cli.DurationFlag{
					Name:  "tick",
					Usage: "Playback period per frame (default 16ms)",
				},
				&cli.BoolFlag{
					Name:  "paused",
					Usage: "Start paused",
				},
				&cli.IntFlag{
					Name:  "start",
					Usage: "First frame to show",
				},
			)...,
		),
		Action: playAction,
	}
}

func playAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	// The alternate screen owns the terminal; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return cli.Exit(fmt.Sprintf("open log file: %v", err), exitError)
		}
		defer iox.DiscardClose(f)
		logOut = f
	}

	replay, err := loadReplayWith(c, cfg, logOut)
	if err != nil {
		return err
	}

	opts := tui.PlayerOptions{
		Tick:   cfg.Playback.Tick.Duration,
		Paused: cfg.Playback.Paused,
		Start:  c.Int("start"),
		Color:  !c.Bool("no-color"),
	}
	if c.IsSet("tick") {
		opts.Tick = c.Duration("tick")
	}
	if c.IsSet("paused") {
		opts.Paused = c.Bool("paused")
	}
	if opts.Tick < 0 {
		return cli.Exit("--tick must be positive", exitError)
	}

	return tui.RunPlayer(replay.Sequence, replay.Meta, opts)
}
