package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/archive"
	"github.com/justapithecus/arenaviz/cli/reader"
	"github.com/justapithecus/arenaviz/cli/render"
)

// ExportResponse is the response for the export command.
type ExportResponse struct {
	Source string `json:"source"`
	Output string `json:"output"`
	Frames int    `json:"frames"`
	Bytes  int64  `json:"bytes"`
}

// ExportCommand returns the export command, which converts a text log
// into a replay archive.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write a replay archive (.arena) from a log",
		ArgsUsage: "<log|->",
		Flags: replayFlags(
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Archive path (default: <log name>.arena)",
			},
		),
		Action: exportAction,
	}
}

func exportAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for export command", exitError)
	}

	replay, _, err := loadReplay(c)
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "" {
		output = archivePath(replay.Meta.Path)
	}
	if filepath.Clean(output) == filepath.Clean(replay.Meta.Path) {
		return cli.Exit("output would overwrite the input", exitError)
	}

	if err := archive.WriteFile(output, replay.Sequence, replay.Meta.Path); err != nil {
		return cli.Exit(fmt.Sprintf("export: %v", err), exitError)
	}
	info, err := os.Stat(output)
	if err != nil {
		return cli.Exit(fmt.Sprintf("export: %v", err), exitError)
	}

	return r.Render(ExportResponse{
		Source: replay.Meta.Path,
		Output: output,
		Frames: replay.Sequence.Len(),
		Bytes:  info.Size(),
	})
}

// archivePath derives the default archive path of a log: the log path
// with its extension replaced, or stdin.arena in the working directory.
func archivePath(path string) string {
	if path == reader.StdinPath {
		return "stdin" + archive.Extension
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + archive.Extension
}
