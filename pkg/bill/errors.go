package bill

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by resolution and validation. Callers match them
// with errors.Is; the concrete error usually carries more context.
var (
	// ErrNotFound means no record survived any lookup for the given text.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous means several records remain and none can be preferred.
	ErrAmbiguous = errors.New("ambiguous")

	// ErrInvalidReference means a record required to complete a bill
	// (parent bill, committee, member in charge) does not exist.
	ErrInvalidReference = errors.New("invalid reference")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}

	// Err is an optional sentinel the failure maps to.
	Err error
}

func (e ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "no errors"
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(errs), strings.Join(messages, "; "))
}

// Unwrap exposes each field error so errors.Is finds wrapped sentinels.
func (errs ValidationErrors) Unwrap() []error {
	result := make([]error, len(errs))
	for i, err := range errs {
		result[i] = err
	}
	return result
}
