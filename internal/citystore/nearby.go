package citystore

import (
	"cmp"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/citymap/internal/geo"
)

// Match is a city found within the search radius.
type Match struct {
	City     geo.Point
	Distance float64
}

// NearbyResult is the outcome of a radius search.
//
// North counts matches ordered before the center in the order index (smaller
// y, or equal y and a smaller name). South counts matches ordered after it.
// Visited is the number of cities the two scans examined.
type NearbyResult struct {
	Center  geo.Point
	Radius  float64
	Metric  geo.Metric
	Matches []Match
	North   int
	South   int
	Visited int
}

// Nearby returns every city within radius of the named center under metric
// m, sorted by (distance, name). The center itself is never part of the
// result. A radius that is not positive yields no matches.
//
// Both scans walk outward from the center in the order index and stop at the
// first city whose y distance alone exceeds the radius; no metric can bring
// such a city, or any beyond it, back inside.
func (s *Store) Nearby(center string, radius float64, m geo.Metric) (NearbyResult, error) {
	if !m.Valid() {
		return NearbyResult{}, eris.Wrapf(geo.ErrUnknownMetric, "nearby %q: metric %d", center, int(m))
	}
	h, ok := s.byName[center]
	if !ok {
		return NearbyResult{}, eris.Wrapf(ErrNotFound, "nearby %q", center)
	}
	c := s.arena[h].point

	res := NearbyResult{Center: c, Radius: radius, Metric: m, Matches: []Match{}}
	if !(radius > 0) {
		return res, nil
	}

	pivot := orderKey{y: c.Y, name: c.Name}

	s.byY.AscendGreaterOrEqual(pivot, func(k orderKey) bool {
		if k.h == h {
			return true
		}
		res.Visited++
		if k.y-c.Y > radius {
			return false
		}
		if s.collect(&res, k.h, m) {
			res.South++
		}
		return true
	})

	s.byY.DescendLessOrEqual(pivot, func(k orderKey) bool {
		if k.h == h {
			return true
		}
		res.Visited++
		if c.Y-k.y > radius {
			return false
		}
		if s.collect(&res, k.h, m) {
			res.North++
		}
		return true
	})

	slices.SortFunc(res.Matches, compareMatches)
	return res, nil
}

// collect appends the city at h to res when it lies within the radius.
func (s *Store) collect(res *NearbyResult, h Handle, m geo.Metric) bool {
	p := s.arena[h].point
	d := m.Distance(res.Center, p)
	if d > res.Radius {
		return false
	}
	res.Matches = append(res.Matches, Match{City: p, Distance: d})
	return true
}

func compareMatches(a, b Match) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	return cmp.Compare(a.City.Name, b.City.Name)
}
