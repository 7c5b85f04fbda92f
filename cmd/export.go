package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/citymap/internal/report"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every loaded city to a file",
	Long: `Write every loaded city, ordered by y then name, to --out.

Examples:
  # Spreadsheet of all cities
  citymap export --data cities.txt --format xlsx --out cities.xlsx

  # GeoJSON point collection
  citymap export --data cities.txt --format geojson --out cities.geojson`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		if exportOut == "" {
			return eris.New("export requires --out")
		}

		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}

		w, closeFn, err := openOutput(cmd, exportOut, format)
		if err != nil {
			return err
		}
		if err := report.WriteCities(w, format, store.All()); err != nil {
			_ = closeFn()
			return err
		}
		if err := closeFn(); err != nil {
			return eris.Wrap(err, "close output")
		}

		zap.L().Info("export complete",
			zap.Int("cities", store.Len()),
			zap.String("format", string(format)),
			zap.String("out", exportOut),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "text", "output format: text, json, yaml, geojson or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
