package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/research-library/internal/backend"
)

// ErrValidation is matched by every client-side validation failure. Validation
// failures never reach the network.
var ErrValidation = errors.New("validation error")

// UI gate errors.
var (
	ErrBusy            = errors.New("an operation of this kind is already in progress")
	ErrSelectionMode   = errors.New("action unavailable while selecting documents")
	ErrNotSelecting    = errors.New("selection is only available in selection mode")
	ErrNoDraft         = errors.New("no draft is open")
	ErrNoPendingDelete = errors.New("no delete is awaiting confirmation")
	ErrUnknownDocument = errors.New("document is not in the library")
	ErrClosed          = errors.New("library view is closed")
)

// ValidationError describes one rejected input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Kind classifies an error for user-visible notification.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNetwork    Kind = "network"
	KindBackend    Kind = "backend"
	KindCanceled   Kind = "canceled"
	KindInternal   Kind = "internal"
)

// Classify maps any error produced by the library or the backend client to its Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, backend.ErrBackend):
		return KindBackend
	case errors.Is(err, backend.ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	case errors.Is(err, ErrBusy), errors.Is(err, ErrSelectionMode), errors.Is(err, ErrNotSelecting),
		errors.Is(err, ErrNoDraft), errors.Is(err, ErrNoPendingDelete), errors.Is(err, ErrUnknownDocument):
		return KindValidation
	default:
		return KindInternal
	}
}
