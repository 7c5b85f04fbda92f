package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/citymap/internal/geo"
	"github.com/sells-group/citymap/internal/loader"
	"github.com/sells-group/citymap/internal/report"
)

var (
	nearbyRadius float64
	nearbyMetric string
	nearbyOut    string
)

var nearbyCmd = &cobra.Command{
	Use:   "nearby CITY",
	Short: "List cities within a radius of CITY",
	Long: `List every city within --radius of CITY, nearest first. Equal distances are
ordered by name.

Examples:
  # Euclidean radius 3 around a city
  citymap nearby "Gifford, IL" --radius 3 --data cities.txt

  # Manhattan distance, exported as GeoJSON
  citymap nearby "Gifford, IL" --radius 10 --metric manhattan --format geojson --out near.geojson`,
	Args: cobra.ExactArgs(1),
	RunE: runNearby,
}

func init() {
	f := nearbyCmd.Flags()
	f.Float64Var(&nearbyRadius, "radius", 0, "search radius (default: search.radius)")
	f.StringVar(&nearbyMetric, "metric", "", "distance metric: euclidean, manhattan or chebyshev (default: search.metric)")
	f.String("format", "text", "output format: text, json, yaml, geojson or xlsx")
	f.StringVar(&nearbyOut, "out", "", "output file path (default: stdout)")
	rootCmd.AddCommand(nearbyCmd)
}

func runNearby(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := zap.L().With(zap.String("command", "nearby"))

	radius := cfg.Search.Radius
	if cmd.Flags().Changed("radius") {
		radius = nearbyRadius
	}
	if !(radius > 0) {
		return eris.Errorf("radius must be positive, got %v", radius)
	}

	metricName := cfg.Search.Metric
	if nearbyMetric != "" {
		metricName = nearbyMetric
	}
	metric, err := geo.ParseMetric(metricName)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}

	center := loader.NormalizeName(args[0])
	res, err := store.Nearby(center, radius, metric)
	if err != nil {
		return err
	}
	log.Debug("nearby search",
		zap.String("city", center),
		zap.Float64("radius", radius),
		zap.Stringer("metric", metric),
		zap.Int("matches", len(res.Matches)),
		zap.Int("visited", res.Visited),
		zap.Int("stored", store.Len()),
	)

	w, closeFn, err := openOutput(cmd, nearbyOut, format)
	if err != nil {
		return err
	}
	if err := report.WriteNearby(w, format, res); err != nil {
		_ = closeFn()
		return err
	}
	return eris.Wrap(closeFn(), "close output")
}
