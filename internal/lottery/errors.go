package lottery

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FieldError describes one invalid ticket field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError is returned when ticket input is malformed. Field names the
// first offending field; every problem found is kept in the wrapped error.
type ValidationError struct {
	Field string
	errs  *multierror.Error
}

func (e *ValidationError) Error() string {
	if e.errs == nil || len(e.errs.Errors) == 0 {
		return fmt.Sprintf("invalid ticket: %s", e.Field)
	}
	msgs := make([]string, 0, len(e.errs.Errors))
	for _, err := range e.errs.Errors {
		msgs = append(msgs, err.Error())
	}
	return "invalid ticket: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	if e.errs == nil {
		return nil
	}
	return e.errs.ErrorOrNil()
}

// Fields lists every offending field in the order it was detected.
func (e *ValidationError) Fields() []string {
	if e.errs == nil {
		return []string{e.Field}
	}
	var fields []string
	seen := make(map[string]bool)
	for _, err := range e.errs.Errors {
		fe, ok := err.(*FieldError)
		if !ok || seen[fe.Field] {
			continue
		}
		seen[fe.Field] = true
		fields = append(fields, fe.Field)
	}
	return fields
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, format string, args ...any) *ValidationError {
	fe := &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)}
	return &ValidationError{Field: field, errs: multierror.Append(nil, fe)}
}

type fieldErrors struct {
	errs *multierror.Error
}

func (f *fieldErrors) add(field, format string, args ...any) {
	f.errs = multierror.Append(f.errs, &FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
}

func (f *fieldErrors) err() error {
	if f.errs == nil || len(f.errs.Errors) == 0 {
		return nil
	}
	first := f.errs.Errors[0].(*FieldError)
	return &ValidationError{Field: first.Field, errs: f.errs}
}
