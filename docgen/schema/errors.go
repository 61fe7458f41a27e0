package schema

import (
	"errors"
	"fmt"
)

// ErrInvalidInput reports configuration misuse such as a nil root descriptor
// or a resolver without a type source.
var ErrInvalidInput = errors.New("schema: invalid input")

// NameCollisionError reports two distinct types that cannot be given distinct
// model names, even after qualifying with every package path segment.
type NameCollisionError struct {
	// Name is the contested model name.
	Name string

	// Type is the qualified name of the type that could not be named.
	Type string

	// Owner is the qualified name of the type already holding Name.
	Owner string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("schema: cannot name %s: %q is already used by %s", e.Type, e.Name, e.Owner)
}
