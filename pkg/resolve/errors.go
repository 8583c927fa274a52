package resolve

import (
	"errors"
	"fmt"
)

// InvalidQueryError reports a query that is not a string or an ordered
// sequence of strings. Always a usage error; never recovered internally.
type InvalidQueryError struct {
	Query  any
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("resolve: invalid query (%v): %s", e.Query, e.Reason)
}

// NotFoundError reports that no path at or above the threshold exists for
// the query. Expected and recoverable; callers substitute defaults or
// propagate as they see fit.
type NotFoundError struct {
	Query     string
	Threshold int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resolve: no exact or approximate match for key path %q (threshold %d)", e.Query, e.Threshold)
}

// IsNotFound reports whether err is a resolution miss.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInvalidQuery reports whether err is a malformed-query failure.
func IsInvalidQuery(err error) bool {
	var iq *InvalidQueryError
	return errors.As(err, &iq)
}
