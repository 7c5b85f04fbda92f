package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/citymap/internal/citystore"
	"github.com/sells-group/citymap/internal/loader"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Validate city files and report duplicate names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := citystore.New()
		rep, err := loader.Load(cmd.Context(), store, args, cfg.Loader.Concurrency)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d cities loaded from %d file(s)\n", rep.Inserted, len(args))
		for _, name := range rep.Conflicts {
			fmt.Fprintf(out, "City: %s already exists.\n", name)
		}

		zap.L().Info("check complete",
			zap.Int("cities", rep.Inserted),
			zap.Int("duplicates", len(rep.Conflicts)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
