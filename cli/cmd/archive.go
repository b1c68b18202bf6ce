package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/arenaviz/adapter"
	"github.com/justapithecus/arenaviz/archive"
	"github.com/justapithecus/arenaviz/cli/render"
	"github.com/justapithecus/arenaviz/iox"
	"github.com/justapithecus/arenaviz/lode"
	"github.com/justapithecus/arenaviz/metrics"
)

// ArchiveResponse is the response for the archive command.
type ArchiveResponse struct {
	Dataset      string `json:"dataset"`
	Source       string `json:"source"`
	Day          string `json:"day"`
	Frames       int    `json:"frames"`
	Robots       int    `json:"robots"`
	Batches      int    `json:"batches"`
	Replay       string `json:"replay,omitempty"`
	WriteSuccess int64  `json:"write_success"`
	WriteFailure int64  `json:"write_failure"`
	// Notified lists the adapter types that accepted the completion event.
	Notified string `json:"notified,omitempty"`
}

// ArchiveCommand returns the archive command, which exports a replay
// into a partitioned Lode dataset.
func ArchiveCommand() *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Export frames and robots into a Lode dataset",
		ArgsUsage: "<log|replay.arena|->",
		Flags: replayFlags(append(append(StorageFlags(), AdapterFlags()...),
			&cli.StringFlag{
				Name:  "source",
				Usage: "Source partition (default: config source, else the log name)",
			},
			&cli.StringFlag{
				Name:  "day",
				Usage: "Day partition, YYYY-MM-DD (default: today, UTC)",
			},
			&cli.BoolFlag{
				Name:  "with-replay",
				Usage: "Also store the replay archive next to the records",
			},
		)...),
		Action: archiveAction,
	}
}

func archiveAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for archive command", exitError)
	}

	replay, cfg, err := loadReplay(c)
	if err != nil {
		return err
	}

	source := c.String("source")
	if source == "" {
		source = cfg.Source
	}
	if source == "" {
		source = sourceName(replay.Meta.Path)
	}
	day := c.String("day")
	if day == "" {
		day = lode.DeriveDay(time.Now())
	} else if _, err := time.Parse(time.DateOnly, day); err != nil {
		return cli.Exit(fmt.Sprintf("invalid --day %q: want YYYY-MM-DD", day), exitError)
	}

	storage := storageSettings(c, cfg)
	ac, err := adapterSettings(c, cfg)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}
	notifier, notifierName, err := buildNotifier(ac, cfg.Notify)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to initialize adapter: %v", err), exitError)
	}
	if notifier != nil {
		defer iox.DiscardClose(notifier)
	}

	start := time.Now()
	collector := metrics.NewCollector(replay.Meta.Path, replay.Meta.Format)
	client, err := buildClient(storage, lode.Config{
		Dataset: storage.Dataset,
		Source:  source,
		Day:     day,
	}, lode.WithCollector(collector))
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to initialize storage: %v", err), exitError)
	}
	defer iox.DiscardClose(client)

	res, err := client.WriteSequence(c.Context, replay.Sequence)
	if err != nil {
		return cli.Exit(fmt.Sprintf("archive: %v", err), exitError)
	}

	resp := ArchiveResponse{
		Dataset: storage.Dataset,
		Source:  source,
		Day:     day,
		Frames:  res.Frames,
		Robots:  res.Robots,
		Batches: res.Batches,
	}

	if c.Bool("with-replay") {
		var buf bytes.Buffer
		if err := archive.NewWriter(&buf).WriteSequence(replay.Sequence, replay.Meta.Path); err != nil {
			return cli.Exit(fmt.Sprintf("archive: %v", err), exitError)
		}
		name := source + archive.Extension
		if err := client.PutFile(c.Context, name, buf.Bytes()); err != nil {
			return cli.Exit(fmt.Sprintf("archive: %v", err), exitError)
		}
		resp.Replay = client.FilePath(name)
	}

	snap := collector.Snapshot()
	resp.WriteSuccess = snap.StorageWriteSuccess
	resp.WriteFailure = snap.StorageWriteFailure

	// The export is committed; a failed notification only warns.
	if notifier != nil {
		event := adapter.NewArchiveCompletedEvent(time.Now())
		event.Dataset = storage.Dataset
		event.Source = source
		event.Day = day
		event.StoragePath = storageURI(storage)
		event.Replay = resp.Replay
		event.Frames = res.Frames
		event.Robots = res.Robots
		event.FirstMs, event.LastMs = replay.Sequence.Span()
		event.DurationMs = time.Since(start).Milliseconds()

		if err := notifier.Publish(c.Context, event); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "Warning: %s notification failed: %v\n", notifierName, err)
		} else {
			resp.Notified = notifierName
		}
	}

	return r.Render(resp)
}
