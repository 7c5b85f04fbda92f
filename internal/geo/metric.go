package geo

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Metric selects a distance function.
//
// Every metric must satisfy d(P, Q) >= |P.Y - Q.Y|. The store prunes its
// radius scan on the y axis and stops early based on that bound, so a new
// metric that breaks it will silently drop results.
type Metric int

// Supported metrics. The numeric values double as the menu selectors.
const (
	Euclidean Metric = iota
	Manhattan
	Chebyshev
)

// ErrUnknownMetric is returned for metric names or values outside the supported set.
var ErrUnknownMetric = eris.New("geo: unknown metric")

// Metrics lists the supported metrics in selector order.
var Metrics = []Metric{Euclidean, Manhattan, Chebyshev}

var metricNames = map[string]Metric{
	"0":         Euclidean,
	"euclidean": Euclidean,
	"l2":        Euclidean,
	"1":         Manhattan,
	"manhattan": Manhattan,
	"l1":        Manhattan,
	"2":         Chebyshev,
	"chebyshev": Chebyshev,
	"linf":      Chebyshev,
	"infinity":  Chebyshev,
}

// ParseMetric resolves a metric name or menu selector, case-insensitively.
func ParseMetric(s string) (Metric, error) {
	m, ok := metricNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, eris.Wrapf(ErrUnknownMetric, "parse %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported metrics.
func (m Metric) Valid() bool {
	return m >= Euclidean && m <= Chebyshev
}

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	default:
		return "unknown"
	}
}

// Distance returns the distance between a and b under m.
// It returns NaN for an unsupported metric.
func (m Metric) Distance(a, b Point) float64 {
	switch m {
	case Euclidean:
		return EuclideanDistance(a, b)
	case Manhattan:
		return ManhattanDistance(a, b)
	case Chebyshev:
		return ChebyshevDistance(a, b)
	default:
		return math.NaN()
	}
}

// EuclideanDistance is the L2 norm of a - b.
func EuclideanDistance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ManhattanDistance is the L1 norm of a - b.
func ManhattanDistance(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// ChebyshevDistance is the L-infinity norm of a - b.
func ChebyshevDistance(a, b Point) float64 {
	return math.Max(math.Abs(a.X-b.X), math.Abs(a.Y-b.Y))
}
