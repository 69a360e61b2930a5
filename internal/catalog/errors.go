package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrDataLoad marks a failed bulk load. Any single sheet failing fails
	// the whole load.
	ErrDataLoad = errors.New("data load failed")

	// ErrNotReady is returned when data did not become available in time.
	ErrNotReady = errors.New("data not ready")

	// ErrNoData is returned when the load finished without any course.
	ErrNoData = errors.New("no courses loaded")
)

// SheetError describes why one sheet could not be fetched.
type SheetError struct {
	Sheet  string
	Status int
	Err    error
}

func (e *SheetError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sheet %s: unexpected status %d", e.Sheet, e.Status)
	}
	return fmt.Sprintf("sheet %s: %v", e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error { return e.Err }
