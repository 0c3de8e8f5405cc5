package listing

import (
	"errors"
	"fmt"
)

// ErrPersistence wraps every data-access failure surfaced by Paginate.
var ErrPersistence = errors.New("listing: persistence error")

// ConfigurationError reports a resource that is unknown or registered inconsistently.
type ConfigurationError struct {
	Resource Resource
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("listing: resource %q: %s", e.Resource, e.Reason)
}

// InvalidFilterError is returned in strict mode when a filter value cannot be
// coerced to the type its filter expects.
type InvalidFilterError struct {
	Field    string
	Value    string
	Expected string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("listing: filter %q: %q is not a valid %s", e.Field, e.Value, e.Expected)
}

func invalid(field, value, expected string) error {
	return &InvalidFilterError{Field: field, Value: value, Expected: expected}
}
