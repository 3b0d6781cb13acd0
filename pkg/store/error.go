package store

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a project, asset, or history entry does
// not exist in the backing store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return e.Kind + " not found"
	}
	return e.Kind + " not found: " + e.ID
}

// ConsistencyError reports a referential integrity violation: a node
// pointing at a missing asset, an edge pointing at a missing node, or a
// history entry claimed for the wrong asset. The store detects and surfaces
// these; it never auto-repairs.
type ConsistencyError struct {
	Detail string
}

func (e ConsistencyError) Error() string {
	return "consistency violation: " + e.Detail
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func consistencyf(format string, args ...any) ConsistencyError {
	return ConsistencyError{Detail: fmt.Sprintf(format, args...)}
}
