// Package geo provides the point type and planar distance metrics used by the city store.
package geo

import (
	"math"
	"strings"
)

// Point is a named location on the plane. Name is the primary key.
type Point struct {
	Name string  `json:"name" yaml:"name"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

// Valid reports whether the point has a non-blank name and finite coordinates.
func (p Point) Valid() bool {
	return strings.TrimSpace(p.Name) != "" && finite(p.X) && finite(p.Y)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
