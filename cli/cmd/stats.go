package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/cli/render"
	"github.com/justapithecus/arenaviz/cli/tui"
)

// StatsCommand returns the stats command.
// Stats reports ingest counters and the frame span of a replay.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Show ingest statistics for a replay",
		ArgsUsage: "<log|replay.arena|->",
		Flags:     replayFlags(),
		Action:    statsAction,
	}
}

func statsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	// An empty log still has counters worth reporting; the exit code
	// carries the failure.
	replay, _, loadErr := loadReplay(c)
	if loadErr != nil && (replay == nil || !isEmptyLog(loadErr)) {
		return loadErr
	}

	view := replay.Stats()
	if c.Bool("tui") {
		err = r.RenderTUI(tui.ViewStats, view)
	} else {
		err = r.Render(view)
	}
	if err != nil {
		return err
	}
	return loadErr
}
