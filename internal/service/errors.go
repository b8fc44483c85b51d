package service

import (
	"fmt"

	"github.com/alexanderramin/arbor/internal/repository"
)

// ErrNotFound is the repository sentinel, so callers can match either layer.
var ErrNotFound = repository.ErrNotFound

// ValidationError rejects input before any state is read.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func blankTitle() error {
	return &ValidationError{Field: "title", Message: "must not be blank"}
}
