package profile

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when the table is absent or structurally broken.
// Profiling aborts and no partial profile is returned.
var ErrInvalidInput = errors.New("invalid input table")

// ColumnError reports a column the table could not provide or that does not
// match the table's row count.
type ColumnError struct {
	Index int
	Name  string
	Err   error
}

func (e *ColumnError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("column %d (%q): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("column %d: %v", e.Index, e.Err)
}

// Unwrap exposes both the cause and ErrInvalidInput to errors.Is.
func (e *ColumnError) Unwrap() []error { return []error{ErrInvalidInput, e.Err} }
