package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means the order id is not in the caller's current view.
	ErrNotFound = errors.New("order not found")
	// ErrPrecondition means the order is not in a state the operation needs.
	ErrPrecondition = errors.New("order precondition failed")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a draft.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "invalid order: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func notFound(orderID string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, orderID)
}
