package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/cli/reader"
	"github.com/justapithecus/arenaviz/cli/render"
	"github.com/justapithecus/arenaviz/cli/tui"
)

// InspectCommand returns the inspect command with subcommands.
// Inspect returns a deep view of a single frame, cell or robot.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect a single entity (frame, cell, robot)",
		Subcommands: []*cli.Command{
			inspectFrameCommand(),
			inspectCellCommand(),
			inspectRobotCommand(),
		},
	}
}

var indexFlag = &cli.IntFlag{
	Name:    "index",
	Aliases: []string{"i"},
	Usage:   "Frame index",
}

func inspectFrameCommand() *cli.Command {
	return &cli.Command{
		Name:      "frame",
		Usage:     "Inspect a frame by index",
		ArgsUsage: "<log|replay.arena|->",
		Flags:     replayFlags(indexFlag),
		Action:    inspectFrameAction,
	}
}

func inspectFrameAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	replay, _, err := loadReplay(c)
	if err != nil {
		return err
	}

	f, err := replay.Sequence.At(c.Int("index"))
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewInspectFrame, f)
	}

	if err := r.Render(reader.NewFrameView(f)); err != nil {
		return err
	}
	return r.RenderGrid(f)
}

func inspectCellCommand() *cli.Command {
	return &cli.Command{
		Name:      "cell",
		Usage:     "Inspect one grid cell of a frame",
		ArgsUsage: "<log|replay.arena|->",
		Flags: replayFlags(indexFlag,
			&cli.IntFlag{Name: "row", Usage: "Grid row (0-11)", Required: true},
			&cli.IntFlag{Name: "col", Usage: "Grid column (0-11)", Required: true},
		),
		Action: inspectCellAction,
	}
}

func inspectCellAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	replay, _, err := loadReplay(c)
	if err != nil {
		return err
	}

	view, err := replay.Cell(c.Int("index"), c.Int("row"), c.Int("col"))
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewInspectCell, view)
	}
	return r.Render(view)
}

func inspectRobotCommand() *cli.Command {
	return &cli.Command{
		Name:      "robot",
		Usage:     "Inspect the robots of a frame",
		ArgsUsage: "<log|replay.arena|->",
		Flags: replayFlags(indexFlag,
			&cli.IntFlag{Name: "id", Usage: "Robot id (0 = all robots)"},
		),
		Action: inspectRobotAction,
	}
}

func inspectRobotAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	replay, _, err := loadReplay(c)
	if err != nil {
		return err
	}

	robots, err := replay.Robots(c.Int("index"), c.Int("id"))
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	if c.Bool("tui") {
		return r.RenderTUI(tui.ViewInspectRobot, robots)
	}
	return r.Render(robots)
}
