package report

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/citymap/internal/citystore"
	"github.com/sells-group/citymap/internal/geo"
)

func pointFeature(c geo.Point, props map[string]any) *geojson.Feature {
	if props == nil {
		props = map[string]any{}
	}
	props["name"] = c.Name
	return &geojson.Feature{
		Geometry:   geom.NewPointFlat(geom.XY, []float64{c.X, c.Y}),
		Properties: props,
	}
}

func citiesCollection(cities []geo.Point) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(cities))}
	for _, c := range cities {
		fc.Features = append(fc.Features, pointFeature(c, nil))
	}
	return fc
}

// nearbyCollection puts the center first, then every match in result order.
func nearbyCollection(res citystore.NearbyResult) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(res.Matches)+1)}
	fc.Features = append(fc.Features, pointFeature(res.Center, map[string]any{
		"role":   "center",
		"metric": res.Metric.String(),
		"radius": res.Radius,
	}))
	for _, m := range res.Matches {
		fc.Features = append(fc.Features, pointFeature(m.City, map[string]any{
			"role":     "match",
			"distance": m.Distance,
		}))
	}
	return fc
}

func writeGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return eris.Wrap(err, "report: encode geojson")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return eris.Wrap(err, "report: write geojson")
}
