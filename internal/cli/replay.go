package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Retrace/internal/agent"
	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
	"github.com/SmitUplenchwar2687/Retrace/internal/loop"
	"github.com/SmitUplenchwar2687/Retrace/internal/replay"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// ReplayStep is one sample reached during playback.
type ReplayStep struct {
	Index    int                 `json:"index"`
	Time     float64             `json:"time"` // seconds
	Position timeline.Vec3       `json:"position"`
	Markers  []timeline.KeyEvent `json:"markers,omitempty"`
}

// ReplayResult is the --json output of the replay command.
type ReplayResult struct {
	Name         string              `json:"name"`
	Steps        []ReplayStep        `json:"steps"`
	Markers      []timeline.KeyEvent `json:"markers"`
	OutsideRange []int               `json:"outside_range,omitempty"`
	Summary      timeline.Stats      `json:"summary"`
	Loop         loop.Stats          `json:"loop"`
}

func newReplayCmd() *cobra.Command {
	var (
		opts       sessionOptions
		file       string
		speed      float64
		seek       float64
		keys       string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "replay [name]",
		Short: "Replay a recorded session headless",
		Long: `Walks an agent through a recorded timeline, one sample per interval,
printing each position as it is reached and the key presses that happened
on the way.

The timeline is read from storage by name (default: the configured replay
name) or straight from a file with --file.

Speed: 0 = instant, 1 = real-time, 10 = 10x`,
		Example: `  retrace replay save_1
  retrace replay --file saves/save_2.json --speed 0
  retrace replay save_1 --speed 4 --seek 0.5 --keys Space
  retrace replay save_1 --speed 0 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("speed") {
				cfg.Replay.Speed = speed
			}
			if cfg.Replay.Speed < 0 {
				return fmt.Errorf("--speed must not be negative, got %g", cfg.Replay.Speed)
			}
			if cmd.Flags().Changed("seek") && (seek < 0 || seek > 1) {
				return fmt.Errorf("--seek must be in [0, 1], got %g", seek)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			name := cfg.Replay.Name
			if len(args) == 1 {
				name = args[0]
			}
			store := replay.NewStore()
			if file != "" {
				name = file
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading timeline: %w", err)
				}
				if _, err := store.Load(data); err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
			} else {
				if err := loadStored(ctx, cfg.Storage, store, name); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			tl := store.Timeline()
			interval := cfg.Recording.Interval
			result := ReplayResult{
				Name:         name,
				Markers:      store.Events(replay.Filter{Keys: replay.ParseKeys(keys)}),
				OutsideRange: tl.EventsOutsideRange(interval),
				Summary:      timeline.Summarize(tl, interval),
			}
			if result.Markers == nil {
				result.Markers = []timeline.KeyEvent{}
			}

			ag := agent.New(timeline.Vec3{})
			player := replay.NewPlayer(store,
				replay.WithInterval(interval),
				replay.WithSink(ag),
			)

			pending := result.Markers
			if cmd.Flags().Changed("seek") {
				player.SeekFraction(seek)
				// Markers before the seek point are skipped.
				at := replay.TimeAt(player.Index(), interval).Seconds()
				for len(pending) > 0 && float64(pending[0].Time) < at-1e-6 {
					pending = pending[1:]
				}
			}
			player.OnProgress(func(index, count int) {
				step := ReplayStep{
					Index:    index,
					Time:     replay.TimeAt(index, interval).Seconds(),
					Position: ag.Position(),
				}
				// Markers are attached to the first sample at or after
				// their press time.
				for len(pending) > 0 && float64(pending[0].Time) <= step.Time+1e-6 {
					step.Markers = append(step.Markers, pending[0])
					pending = pending[1:]
				}
				result.Steps = append(result.Steps, step)
				if !outputJSON {
					printStep(out, step, count)
				}
			})

			if !outputJSON {
				if store.Count() == 0 {
					fmt.Fprintf(out, "Nothing to replay: %s has no samples\n", name)
				} else {
					fmt.Fprintf(out, "Replaying %s (%d samples) at %s...\n\n", name, store.Count(), speedLabel(cfg.Replay.Speed))
				}
			}

			var clk clock.Clock = clock.NewRealClock()
			if cfg.Replay.Speed == 0 {
				clk = clock.NewVirtualClock(time.Now())
			}
			l := loop.New(clk, cfg.Loop.Frame, cfg.Replay.Speed, player)
			if player.Play() {
				result.Loop, err = l.Run(ctx, func() bool { return player.State() != replay.Playing })
				if err != nil {
					player.Stop()
					return err
				}
			}

			if outputJSON {
				if result.Steps == nil {
					result.Steps = []ReplayStep{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printReplaySummary(out, &result)
			return nil
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&file, "file", "", "read the timeline from a JSON file instead of storage")
	cmd.Flags().Float64Var(&speed, "speed", 1, "replay speed (0=instant, 1=real-time, 10=10x)")
	cmd.Flags().Float64Var(&seek, "seek", 0, "start playback at this fraction of the timeline (0..1)")
	cmd.Flags().StringVar(&keys, "keys", "", "only show these key markers (comma-separated, e.g. Space,M)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output results as JSON")

	return cmd
}

// loadStored reads name from the configured backend into store. A
// timeline that is missing or whose backend is unreachable leaves an empty
// session with a warning; anything else is an error.
func loadStored(ctx context.Context, cfg storage.Config, store *replay.Store, name string) error {
	st, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = store.LoadFrom(ctx, st, name)
	if errors.Is(err, timeline.ErrStorageUnavailable) {
		log.Printf("[replay] WARNING: %v", err)
		return nil
	}
	return err
}

func speedLabel(speed float64) string {
	if speed == 0 {
		return "instant speed"
	}
	return fmt.Sprintf("%gx speed", speed)
}

func printStep(w io.Writer, step ReplayStep, count int) {
	fmt.Fprintf(w, "  [%*d/%d] t=%6.1fs  %s\n", digits(count), step.Index+1, count, step.Time, step.Position)
	for _, m := range step.Markers {
		fmt.Fprintf(w, "      %-5s pressed at t=%.2fs %s\n", m.Key, m.Time, m.Position)
	}
}

func digits(n int) int {
	return len(fmt.Sprint(n))
}

func printReplaySummary(w io.Writer, r *ReplayResult) {
	s := r.Summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Replay Summary ---")
	fmt.Fprintf(w, "  Samples:        %d\n", s.Samples)
	fmt.Fprintf(w, "  Replayed:       %d\n", len(r.Steps))
	fmt.Fprintf(w, "  Duration:       %s\n", s.Duration)
	fmt.Fprintf(w, "  Path length:    %.2f\n", s.Distance)
	if s.Samples > 0 {
		fmt.Fprintf(w, "  Bounds:         %s .. %s\n", s.Min, s.Max)
	}
	fmt.Fprintf(w, "  Key events:     %d\n", s.KeyEvents)
	fmt.Fprintf(w, "  Wall time:      %s\n", r.Loop.Wall.Round(time.Millisecond))

	if len(s.Keys) > 0 {
		keys := make([]string, 0, len(s.Keys))
		for k := range s.Keys {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Per key:")
		for _, k := range keys {
			fmt.Fprintf(w, "    %s: %d\n", k, s.Keys[timeline.Key(k)])
		}
	}

	if len(r.OutsideRange) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Repeat("=", 50))
		fmt.Fprintf(w, "WARNING: %d key events fall outside the sampled range\n", len(r.OutsideRange))
		fmt.Fprintln(w, strings.Repeat("=", 50))
	}
}
