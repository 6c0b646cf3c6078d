package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
)

func newListCmd() *cobra.Command {
	var (
		opts       sessionOptions
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored timelines",
		Example: `  retrace list
  retrace list --storage redis --redis-host localhost:6379 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			st, err := storage.Open(cfg.Storage)
			if err != nil {
				return err
			}
			defer st.Close()

			names, err := st.List(context.Background())
			if err != nil {
				return fmt.Errorf("listing timelines: %w", err)
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				if names == nil {
					names = []string{}
				}
				return json.NewEncoder(out).Encode(map[string][]string{"timelines": names})
			}
			if len(names) == 0 {
				fmt.Fprintf(out, "No timelines in %s storage\n", backendName(cfg.Storage.Backend))
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")

	return cmd
}
