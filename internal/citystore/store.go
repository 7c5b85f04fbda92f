// Package citystore keeps a set of named points indexed both by name and by
// (y, name) order, and answers bounded radius queries over them.
//
// A Store is not safe for concurrent use.
package citystore

import (
	"github.com/google/btree"
	"github.com/rotisserie/eris"

	"github.com/sells-group/citymap/internal/geo"
)

// btreeDegree is the branching factor of the order index.
const btreeDegree = 16

// Handle is a stable reference to a stored city. It stays valid until that
// city is removed, whatever else is inserted or removed in between.
type Handle int

// orderKey is an entry of the order index.
type orderKey struct {
	y    float64
	name string
	h    Handle
}

func lessOrderKey(a, b orderKey) bool {
	if a.y != b.y {
		return a.y < b.y
	}
	return a.name < b.name
}

type slot struct {
	point geo.Point
	live  bool
}

// Store owns every city. The name index maps a name to its arena handle and
// the order index holds one (y, name) key per live handle.
type Store struct {
	arena  []slot
	free   []Handle
	byName map[string]Handle
	byY    *btree.BTreeG[orderKey]
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		byName: make(map[string]Handle),
		byY:    btree.NewG[orderKey](btreeDegree, lessOrderKey),
	}
}

// Len returns the number of stored cities.
func (s *Store) Len() int {
	return len(s.byName)
}

// Insert adds a city. It returns ErrConflict if the name is taken and
// ErrInvalidPoint for a blank name or a non-finite coordinate. On error the
// store is left unchanged.
func (s *Store) Insert(name string, x, y float64) (Handle, error) {
	p := geo.Point{Name: name, X: x, Y: y}
	if !p.Valid() {
		return 0, eris.Wrapf(ErrInvalidPoint, "insert %q (%v, %v)", name, x, y)
	}
	if _, ok := s.byName[name]; ok {
		return 0, eris.Wrapf(ErrConflict, "insert %q", name)
	}

	h := s.alloc(p)
	s.byName[name] = h
	s.byY.ReplaceOrInsert(orderKey{y: y, name: name, h: h})
	return h, nil
}

// Remove deletes a city by name, or returns ErrNotFound.
func (s *Store) Remove(name string) error {
	h, ok := s.byName[name]
	if !ok {
		return eris.Wrapf(ErrNotFound, "remove %q", name)
	}
	p := s.arena[h].point

	s.byY.Delete(orderKey{y: p.Y, name: p.Name})
	delete(s.byName, name)
	s.release(h)
	return nil
}

// Exists reports whether a city with the given name is stored.
func (s *Store) Exists(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Get returns the city with the given name, or ErrNotFound.
func (s *Store) Get(name string) (geo.Point, error) {
	h, ok := s.byName[name]
	if !ok {
		return geo.Point{}, eris.Wrapf(ErrNotFound, "get %q", name)
	}
	return s.arena[h].point, nil
}

// HandleOf returns the handle of a stored city.
func (s *Store) HandleOf(name string) (Handle, bool) {
	h, ok := s.byName[name]
	return h, ok
}

// Lookup resolves a handle. It reports false for a handle whose city has
// been removed. A freed handle may be handed out again by a later Insert.
func (s *Store) Lookup(h Handle) (geo.Point, bool) {
	if h < 0 || int(h) >= len(s.arena) || !s.arena[h].live {
		return geo.Point{}, false
	}
	return s.arena[h].point, true
}

// All returns every city ordered by (y, name).
func (s *Store) All() []geo.Point {
	out := make([]geo.Point, 0, s.Len())
	s.byY.Ascend(func(k orderKey) bool {
		out = append(out, s.arena[k.h].point)
		return true
	})
	return out
}

func (s *Store) alloc(p geo.Point) Handle {
	if n := len(s.free); n > 0 {
		h := s.free[n-1]
		s.free = s.free[:n-1]
		s.arena[h] = slot{point: p, live: true}
		return h
	}
	s.arena = append(s.arena, slot{point: p, live: true})
	return Handle(len(s.arena) - 1)
}

func (s *Store) release(h Handle) {
	s.arena[h] = slot{}
	s.free = append(s.free, h)
}
