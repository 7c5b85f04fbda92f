package citystore

import (
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/citymap/internal/geo"
)

// LoadReport summarizes a BulkLoad.
type LoadReport struct {
	Inserted  int
	Conflicts []string // names skipped because they were already stored
}

// BulkLoad inserts a batch of cities. The batch is validated up front: an
// invalid record fails the whole batch with a *LoadError and nothing is
// inserted. Name collisions, against the store or earlier in the batch, are
// skipped and listed in the report.
func (s *Store) BulkLoad(points []geo.Point) (LoadReport, error) {
	for i, p := range points {
		if !p.Valid() {
			return LoadReport{}, &LoadError{
				Record: i,
				Err:    eris.Wrapf(ErrInvalidPoint, "%q (%v, %v)", p.Name, p.X, p.Y),
			}
		}
	}

	var rep LoadReport
	for _, p := range points {
		if _, err := s.Insert(p.Name, p.X, p.Y); err != nil {
			if errors.Is(err, ErrConflict) {
				rep.Conflicts = append(rep.Conflicts, p.Name)
				continue
			}
			return rep, eris.Wrap(err, "citystore: bulk load")
		}
		rep.Inserted++
	}
	return rep, nil
}
