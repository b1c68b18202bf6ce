package cmd

import (
	"context"
	"fmt"
	"time"

	lodelibrary "github.com/justapithecus/lode/lode"
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/cli/reader"
	"github.com/justapithecus/arenaviz/cli/render"
	"github.com/justapithecus/arenaviz/lode"
)

// listWarningThreshold is the number of items above which we warn about using --limit.
const listWarningThreshold = 100

// listTimeout bounds one dataset scan.
const listTimeout = 30 * time.Second

// ListCommand returns the list command with subcommands.
// List returns thin slices of an exported dataset.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List exported records (frames, robots)",
		Subcommands: []*cli.Command{
			listFramesCommand(),
			listRobotsCommand(),
		},
	}
}

func listFlags() []cli.Flag {
	flags := append(ReadOnlyFlags(), StorageFlags()...)
	return append(flags,
		&cli.StringFlag{
			Name:  "source",
			Usage: "Filter by source partition",
		},
		&cli.StringFlag{
			Name:  "logger",
			Usage: "Filter by logger id",
		},
		&cli.IntFlag{
			Name:  "frame",
			Usage: "Filter by frame index (-1 = all frames)",
			Value: -1,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of records to return (0 = no limit)",
		},
	)
}

func listFramesCommand() *cli.Command {
	return &cli.Command{
		Name:   "frames",
		Usage:  "List exported frame summaries",
		Flags:  listFlags(),
		Action: listAction(reader.ListFrames),
	}
}

func listRobotsCommand() *cli.Command {
	return &cli.Command{
		Name:   "robots",
		Usage:  "List exported robot records",
		Flags:  listFlags(),
		Action: listAction(reader.ListRobots),
	}
}

// listAction builds the action of a list subcommand around a dataset query.
func listAction[T any](query func(context.Context, lodelibrary.Dataset, lode.Filter) ([]T, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}

		// TUI not supported for list commands
		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for list commands", exitError)
		}

		cfg, err := loadConfig(c)
		if err != nil {
			return cli.Exit(err.Error(), exitError)
		}
		ds, err := buildReadDataset(storageSettings(c, cfg))
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to initialize storage reader: %v", err), exitError)
		}

		ctx, cancel := context.WithTimeout(c.Context, listTimeout)
		defer cancel()

		results, err := query(ctx, ds, lode.Filter{
			Source:     c.String("source"),
			LoggerID:   c.String("logger"),
			FrameIndex: c.Int("frame"),
		})
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to read dataset: %v", err), exitError)
		}

		limit := c.Int("limit")
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		// Warn if output is large and --limit was not specified (TTY only to avoid noise in pipelines)
		if len(results) > listWarningThreshold && limit == 0 && isStderrTTY() {
			fmt.Fprintf(c.App.ErrWriter, "Warning: returning %d results. Consider using --limit to reduce output.\n\n", len(results))
		}

		return r.Render(results)
	}
}
