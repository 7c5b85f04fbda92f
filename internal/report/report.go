// Package report renders city lists and radius-search results.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/citymap/internal/citystore"
	"github.com/sells-group/citymap/internal/geo"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatGeoJSON Format = "geojson"
	FormatXLSX    Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatGeoJSON, FormatXLSX}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatJSON, FormatYAML, FormatGeoJSON, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatText, nil
	}
	return "", eris.Errorf("report: unknown format %q", s)
}

// Binary reports whether the format is not meant for a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// nearbyDoc is the structured form of a radius search.
type nearbyDoc struct {
	Center  geo.Point    `json:"center" yaml:"center"`
	Metric  string       `json:"metric" yaml:"metric"`
	Radius  float64      `json:"radius" yaml:"radius"`
	Count   int          `json:"count" yaml:"count"`
	North   int          `json:"north" yaml:"north"`
	South   int          `json:"south" yaml:"south"`
	Matches []matchEntry `json:"matches" yaml:"matches"`
}

type matchEntry struct {
	Name     string  `json:"name" yaml:"name"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Distance float64 `json:"distance" yaml:"distance"`
}

func newNearbyDoc(res citystore.NearbyResult) nearbyDoc {
	doc := nearbyDoc{
		Center:  res.Center,
		Metric:  res.Metric.String(),
		Radius:  res.Radius,
		Count:   len(res.Matches),
		North:   res.North,
		South:   res.South,
		Matches: make([]matchEntry, 0, len(res.Matches)),
	}
	for _, m := range res.Matches {
		doc.Matches = append(doc.Matches, matchEntry{
			Name:     m.City.Name,
			X:        m.City.X,
			Y:        m.City.Y,
			Distance: m.Distance,
		})
	}
	return doc
}

// WriteCity writes a single city.
func WriteCity(w io.Writer, f Format, c geo.Point) error {
	if f == FormatText {
		_, err := fmt.Fprintln(w, cityLine(c))
		return eris.Wrap(err, "report: write city")
	}
	return WriteCities(w, f, []geo.Point{c})
}

// WriteCities writes a list of cities.
func WriteCities(w io.Writer, f Format, cities []geo.Point) error {
	if cities == nil {
		cities = []geo.Point{}
	}
	switch f {
	case FormatText:
		for _, c := range cities {
			if _, err := fmt.Fprintln(w, cityLine(c)); err != nil {
				return eris.Wrap(err, "report: write city")
			}
		}
		_, err := fmt.Fprintf(w, "Number of cities: %d\n", len(cities))
		return eris.Wrap(err, "report: write summary")
	case FormatJSON:
		return writeJSON(w, cities)
	case FormatYAML:
		return writeYAML(w, cities)
	case FormatGeoJSON:
		return writeGeoJSON(w, citiesCollection(cities))
	case FormatXLSX:
		return writeXLSX(w, "Cities", cityColumns, cityRows(cities))
	}
	return eris.Errorf("report: unknown format %q", f)
}

// WriteNearby writes the result of a radius search.
func WriteNearby(w io.Writer, f Format, res citystore.NearbyResult) error {
	switch f {
	case FormatText:
		return writeNearbyText(w, res)
	case FormatJSON:
		return writeJSON(w, newNearbyDoc(res))
	case FormatYAML:
		return writeYAML(w, newNearbyDoc(res))
	case FormatGeoJSON:
		return writeGeoJSON(w, nearbyCollection(res))
	case FormatXLSX:
		return writeXLSX(w, "Nearby", matchColumns, matchRows(res))
	}
	return eris.Errorf("report: unknown format %q", f)
}

func cityLine(c geo.Point) string {
	return fmt.Sprintf("City: %s, X-Axis: %s, Y-Axis: %s", c.Name, formatNumber(c.X), formatNumber(c.Y))
}

func formatNumber(f float64) string {
	return fmt.Sprintf("%.6g", f)
}

func writeNearbyText(w io.Writer, res citystore.NearbyResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d city/cities found in the given radius.\n", len(res.Matches))
	fmt.Fprintf(&b, "%d cities are to the north of the selected city.\n", res.North)
	b.WriteString("City list:\n")
	for _, m := range res.Matches {
		fmt.Fprintf(&b, "%s\nDistance: %s\n", m.City.Name, formatNumber(m.Distance))
	}
	_, err := io.WriteString(w, b.String())
	return eris.Wrap(err, "report: write nearby")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "report: encode json")
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	return eris.Wrap(enc.Close(), "report: close yaml encoder")
}
