package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented    = errors.New("not implemented")
	ErrInvalidParameters = errors.New("invalid parameters")
)

// NotImplementedError reports a category/aggregation pair the warehouse has
// no view for.
type NotImplementedError struct {
	Aggregation Aggregation
	Category    Category
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("Not Implemented: aggregation '%s' and category '%s'", e.Aggregation, e.Category)
}

func (e *NotImplementedError) Is(target error) bool {
	return target == ErrNotImplemented
}
