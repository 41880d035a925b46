package framework

import "strings"

// Errors collects errors from independent steps.
type Errors []error

// Add appends non-nil errors.
func (e *Errors) Add(errs ...error) *Errors {
	for _, err := range errs {
		if err != nil {
			*e = append(*e, err)
		}
	}
	return e
}

// Error implements error.
func (e Errors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for n, err := range e {
		msgs[n] = err.Error()
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Err returns nil if nothing was collected.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
