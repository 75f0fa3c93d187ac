package sfrc

import (
	"errors"
	"fmt"
)

// InvalidInputError is the only error the engine produces. Out-of-domain input is
// not an error.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s=%v %s", e.Field, e.Value, e.Reason)
}

func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

func invalid(field string, v float64, reason string) error {
	return &InvalidInputError{Field: field, Value: v, Reason: reason}
}
