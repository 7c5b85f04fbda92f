package citystore

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Sentinel errors returned by Store operations. Match with errors.Is.
var (
	ErrConflict     = eris.New("citystore: city already exists")
	ErrNotFound     = eris.New("citystore: city not found")
	ErrInvalidPoint = eris.New("citystore: invalid city")
)

// LoadError reports a structurally invalid batch. The whole batch is rejected.
type LoadError struct {
	Source string // file name or other origin, may be empty
	Line   int    // 1-based line number, 0 when unknown
	Record int    // 0-based record index within the batch, -1 when unknown
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Source != "" && e.Line > 0:
		return fmt.Sprintf("load %s:%d: %v", e.Source, e.Line, e.Err)
	case e.Source != "":
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	case e.Record >= 0:
		return fmt.Sprintf("load record %d: %v", e.Record, e.Err)
	default:
		return fmt.Sprintf("load: %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
