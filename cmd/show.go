package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/citymap/internal/loader"
	"github.com/sells-group/citymap/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show CITY...",
	Short: "Print the coordinates of one or more cities",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range args {
			c, err := store.Get(loader.NormalizeName(name))
			if err != nil {
				return err
			}
			if err := report.WriteCity(out, report.FormatText, c); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
