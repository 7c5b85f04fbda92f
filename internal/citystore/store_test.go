package citystore

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/citymap/internal/geo"
)

// checkInvariants asserts that both indices describe the same set of cities
// and that the order index is sorted by (y, name).
func checkInvariants(t *testing.T, s *Store) {
	t.Helper()

	require.Equal(t, len(s.byName), s.byY.Len(), "index sizes differ")

	live := 0
	for _, sl := range s.arena {
		if sl.live {
			live++
		}
	}
	require.Equal(t, len(s.byName), live, "arena live count differs")

	for name, h := range s.byName {
		p, ok := s.Lookup(h)
		require.True(t, ok, "name %q points at a dead slot", name)
		require.Equal(t, name, p.Name)
		require.True(t, s.byY.Has(orderKey{y: p.Y, name: p.Name}), "order index missing %q", name)
	}

	var prev *orderKey
	s.byY.Ascend(func(k orderKey) bool {
		p, ok := s.Lookup(k.h)
		require.True(t, ok)
		require.Equal(t, p.Name, k.name)
		require.Equal(t, p.Y, k.y)
		if prev != nil {
			require.True(t, lessOrderKey(*prev, k), "order index unsorted at %q", k.name)
		}
		kk := k
		prev = &kk
		return true
	})
}

func TestInsertGet(t *testing.T) {
	s := New()

	_, err := s.Insert("Gifford, IL", 10.5, -3)
	require.NoError(t, err)

	assert.True(t, s.Exists("Gifford, IL"))
	assert.False(t, s.Exists("gifford, il"))
	assert.Equal(t, 1, s.Len())

	p, err := s.Get("Gifford, IL")
	require.NoError(t, err)
	assert.Equal(t, geo.Point{Name: "Gifford, IL", X: 10.5, Y: -3}, p)

	checkInvariants(t, s)
}

func TestInsert_Conflict(t *testing.T) {
	s := New()
	_, err := s.Insert("A", 1, 1)
	require.NoError(t, err)

	_, err = s.Insert("A", 5, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))

	p, err := s.Get("A")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.X)
	assert.Equal(t, 1.0, p.Y)
	assert.Equal(t, 1, s.Len())
	checkInvariants(t, s)
}

func TestInsert_Invalid(t *testing.T) {
	s := New()
	tests := []struct {
		name string
		x, y float64
	}{
		{"", 0, 0},
		{"  ", 0, 0},
		{"nan", math.NaN(), 0},
		{"inf", 0, math.Inf(1)},
	}
	for _, tt := range tests {
		_, err := s.Insert(tt.name, tt.x, tt.y)
		assert.ErrorIs(t, err, ErrInvalidPoint, tt.name)
	}
	assert.Zero(t, s.Len())
	checkInvariants(t, s)
}

func TestRemove(t *testing.T) {
	s := New()
	for _, n := range []string{"A", "B", "C"} {
		_, err := s.Insert(n, 0, 0)
		require.NoError(t, err)
	}

	require.NoError(t, s.Remove("B"))
	assert.False(t, s.Exists("B"))
	_, err := s.Get("B")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Remove("B")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{"A", "C"}, names(s.All()))
	checkInvariants(t, s)
}

func TestHandlesSurviveUnrelatedMutations(t *testing.T) {
	s := New()
	hA, err := s.Insert("A", 0, 5)
	require.NoError(t, err)
	hB, err := s.Insert("B", 0, 1)
	require.NoError(t, err)
	_, err = s.Insert("C", 0, 3)
	require.NoError(t, err)

	require.NoError(t, s.Remove("C"))
	_, err = s.Insert("D", 0, 4)
	require.NoError(t, err)
	require.NoError(t, s.Remove("D"))

	p, ok := s.Lookup(hA)
	require.True(t, ok)
	assert.Equal(t, "A", p.Name)
	p, ok = s.Lookup(hB)
	require.True(t, ok)
	assert.Equal(t, "B", p.Name)

	h, ok := s.HandleOf("A")
	require.True(t, ok)
	assert.Equal(t, hA, h)

	require.NoError(t, s.Remove("A"))
	_, ok = s.Lookup(hA)
	assert.False(t, ok)
	_, ok = s.Lookup(Handle(-1))
	assert.False(t, ok)
	_, ok = s.Lookup(Handle(100))
	assert.False(t, ok)
	checkInvariants(t, s)
}

func TestAll_OrderedByYThenName(t *testing.T) {
	s := New()
	for _, p := range []geo.Point{
		{Name: "e", X: 0, Y: 3},
		{Name: "b", X: 9, Y: -1},
		{Name: "d", X: 1, Y: 2},
		{Name: "a", X: 7, Y: 2},
		{Name: "c", X: -4, Y: 2},
	} {
		_, err := s.Insert(p.Name, p.X, p.Y)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"b", "a", "c", "d", "e"}, names(s.All()))
}

func TestRandomMutations_KeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := New()
	present := map[string]bool{}

	for i := 0; i < 3000; i++ {
		name := string(rune('a'+rng.IntN(26))) + string(rune('a'+rng.IntN(26)))
		if rng.IntN(3) == 0 {
			err := s.Remove(name)
			if present[name] {
				require.NoError(t, err)
				delete(present, name)
			} else {
				require.ErrorIs(t, err, ErrNotFound)
			}
		} else {
			_, err := s.Insert(name, float64(rng.IntN(50)-25), float64(rng.IntN(50)-25))
			if present[name] {
				require.ErrorIs(t, err, ErrConflict)
			} else {
				require.NoError(t, err)
				present[name] = true
			}
		}
		if i%250 == 0 {
			checkInvariants(t, s)
		}
	}
	checkInvariants(t, s)
	assert.Equal(t, len(present), s.Len())
}

func TestBulkLoad(t *testing.T) {
	s := New()
	_, err := s.Insert("A", 0, 0)
	require.NoError(t, err)

	rep, err := s.BulkLoad([]geo.Point{
		{Name: "B", X: 1, Y: 0},
		{Name: "A", X: 9, Y: 9},
		{Name: "C", X: 0, Y: 3},
		{Name: "B", X: 2, Y: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Inserted)
	assert.Equal(t, []string{"A", "B"}, rep.Conflicts)
	assert.Equal(t, 3, s.Len())

	p, err := s.Get("B")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.X)
	checkInvariants(t, s)
}

func TestBulkLoad_InvalidBatchIsAtomic(t *testing.T) {
	s := New()
	_, err := s.BulkLoad([]geo.Point{
		{Name: "ok", X: 1, Y: 1},
		{Name: "bad", X: math.NaN(), Y: 0},
	})
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Record)
	assert.ErrorIs(t, err, ErrInvalidPoint)
	assert.Contains(t, err.Error(), "load record 1")
	assert.Zero(t, s.Len())
}

func TestLoadError_Message(t *testing.T) {
	base := errors.New("boom")
	assert.Equal(t, "load cities.txt:4: boom", (&LoadError{Source: "cities.txt", Line: 4, Err: base}).Error())
	assert.Equal(t, "load cities.txt: boom", (&LoadError{Source: "cities.txt", Record: -1, Err: base}).Error())
	assert.Equal(t, "load: boom", (&LoadError{Record: -1, Err: base}).Error())
}

func names(ps []geo.Point) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
