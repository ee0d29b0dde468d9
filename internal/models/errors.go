package models

import (
	"errors"
	"fmt"
)

// ErrDuplicate is wrapped by store writes that would repeat an existing row.
var ErrDuplicate = errors.New("duplicate row")

// ShapeError reports a join result that does not have the expected shape.
type ShapeError struct {
	Join   string
	Key    string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected %s row %q: %s", e.Join, e.Key, e.Reason)
}
