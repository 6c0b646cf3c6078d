package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Retrace/internal/agent"
	"github.com/SmitUplenchwar2687/Retrace/internal/recorder"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

func newRecordCmd() *cobra.Command {
	var (
		opts sessionOptions
		name string
	)

	cmd := &cobra.Command{
		Use:   "record [telemetry-file]",
		Short: "Record a session from a telemetry stream",
		Long: `Reads newline-delimited telemetry from a file, or stdin when the file is
omitted or "-", and records it into a timeline.

Each line carries the session time in seconds and a position, a key press,
or both:

  {"t": 0.00, "pos": {"x": 0, "y": 0, "z": 0}}
  {"t": 1.25, "pos": {"x": 1.5, "y": 0, "z": 2}}
  {"t": 1.30, "key": "Space"}

Positions are sampled every --interval of session time starting at the
first line. The timeline is saved under --name, or the next free save_<n>
slot, when the stream ends.`,
		Example: `  retrace record session.ndjson
  game --telemetry | retrace record --name pilot_03
  retrace record session.ndjson --storage sqlite --sqlite-path sessions.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if name != "" {
				if err := storage.ValidateName(name); err != nil {
					return err
				}
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening telemetry: %w", err)
				}
				defer f.Close()
				in = f
			}

			st, err := storage.Open(cfg.Storage)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ag := agent.New(timeline.Vec3{})
			rec := recorder.New(ag,
				recorder.WithInterval(cfg.Recording.Interval),
				recorder.WithStorage(st, name),
			)

			stats, importErr := recorder.Import(ctx, in, rec, ag)
			if importErr != nil && !rec.Recording() {
				return importErr
			}

			// Whatever was recorded before an interrupted or broken
			// stream is still saved.
			tl, saved, err := rec.StopAndSave(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded %d samples and %d key events over %s\n",
				len(tl.Positions), len(tl.KeyEvents), stats.Duration)
			fmt.Fprintf(out, "  Lines:    %d\n", stats.Lines)
			fmt.Fprintf(out, "  Interval: %s\n", cfg.Recording.Interval)
			fmt.Fprintf(out, "  Saved as: %s (%s storage)\n", saved, backendName(cfg.Storage.Backend))
			return importErr
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&name, "name", "", "timeline name (default: next free save_<n> slot)")

	return cmd
}

func backendName(b string) string {
	if b == "" {
		return storage.BackendFile
	}
	return b
}
