package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Retrace/internal/config"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
	"github.com/SmitUplenchwar2687/Retrace/pkg/generate"
)

func newGenerateCmd() *cobra.Command {
	var (
		opts    sessionOptions
		output  string
		name    string
		count   int
		keys    int
		pattern string
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample trajectories and config",
		Long: `Generates sample data for testing and experimentation.

Use "generate trajectory" to create a synthetic recorded session.
Use "generate config" to create an example config file.`,
	}

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory",
		Short: "Generate a synthetic recorded session",
		Long: `Creates a timeline of an agent walking on the ground plane, sampled at
--interval, with key presses scattered along the way.

Patterns:
  walk      Wandering path with gradual turns
  loop      One lap around a circle
  corridor  Back and forth along parallel aisles

The timeline is written to --output, or saved to the storage backend under
--name when no output file is given.`,
		Example: `  retrace generate trajectory --output walk.json --count 120
  retrace generate trajectory --pattern loop --keys 4 --name lap_1
  retrace generate trajectory --pattern corridor --seed 7 --storage sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			tl, err := generate.Trajectory(&generate.Options{
				Count:    count,
				Keys:     keys,
				Interval: cfg.Recording.Interval,
				Pattern:  pattern,
				Seed:     seed,
			})
			if err != nil {
				return err
			}
			data, err := timeline.Encode(tl)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("writing timeline: %w", err)
				}
				fmt.Fprintf(out, "Generated %d samples to %s\n", len(tl.Positions), output)
			} else {
				if name == "" {
					name = "synthetic-" + uuid.NewString()[:8]
				}
				if err := storage.ValidateName(name); err != nil {
					return err
				}
				st, err := storage.Open(cfg.Storage)
				if err != nil {
					return err
				}
				defer st.Close()
				if err := st.Save(context.Background(), name, data); err != nil {
					return fmt.Errorf("saving timeline: %w", err)
				}
				fmt.Fprintf(out, "Generated %d samples as %s (%s storage)\n", len(tl.Positions), name, backendName(cfg.Storage.Backend))
			}

			stats := timeline.Summarize(tl, cfg.Recording.Interval)
			fmt.Fprintf(out, "  Pattern:    %s\n", pattern)
			fmt.Fprintf(out, "  Duration:   %s\n", stats.Duration)
			fmt.Fprintf(out, "  Distance:   %.1f\n", stats.Distance)
			fmt.Fprintf(out, "  Key events: %d\n", stats.KeyEvents)
			return nil
		},
	}

	opts.addFlags(trajectoryCmd)
	trajectoryCmd.Flags().StringVar(&output, "output", "", "output file path (default: save to storage)")
	trajectoryCmd.Flags().StringVar(&name, "name", "", "timeline name when saving to storage (default: synthetic-<id>)")
	trajectoryCmd.Flags().IntVar(&count, "count", 60, "number of position samples")
	trajectoryCmd.Flags().IntVar(&keys, "keys", 3, "number of key presses")
	trajectoryCmd.Flags().StringVar(&pattern, "pattern", "walk", "trajectory pattern (walk, loop, corridor)")
	trajectoryCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 or unset: time based)")

	var configOutput string
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate an example config file",
		Example: `  retrace generate config --output retrace.json
  retrace generate config --output retrace.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configOutput == "" {
				configOutput = "retrace.json"
			}
			if err := config.WriteExample(configOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", configOutput)
			return nil
		},
	}

	configCmd.Flags().StringVar(&configOutput, "output", "retrace.json", "output file path (.json, .yaml or .yml)")

	cmd.AddCommand(trajectoryCmd, configCmd)
	return cmd
}
