package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/citymap/internal/report"
)

var listOut string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every loaded city ordered by y, then name",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}

		w, closeFn, err := openOutput(cmd, listOut, format)
		if err != nil {
			return err
		}
		if err := report.WriteCities(w, format, store.All()); err != nil {
			_ = closeFn()
			return err
		}
		return eris.Wrap(closeFn(), "close output")
	},
}

func init() {
	listCmd.Flags().String("format", "text", "output format: text, json, yaml, geojson or xlsx")
	listCmd.Flags().StringVar(&listOut, "out", "", "output file path (default: stdout)")
	rootCmd.AddCommand(listCmd)
}
