package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrEmptyOrder           = errors.New("order must have items")
	ErrForbidden            = errors.New("forbidden")
	ErrDeliveryFailure      = errors.New("delivery failure")
	ErrValidation           = errors.New("validation failed")
	ErrConflict             = errors.New("conflict")
	ErrInUse                = errors.New("in use")
	ErrWebhookNotConfigured = errors.New("webhook url is not set")
	ErrUnauthorized         = errors.New("unauthorized")
)

type NotFoundError struct {
	Entity string
	ID     string
}

func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StockError names the product that could not cover a requested OUT quantity.
type StockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

type ValidationError struct {
	Field   string
	Message string
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Conflict wraps ErrConflict with a human readable detail.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// InUse wraps ErrInUse with a human readable detail.
func InUse(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInUse, fmt.Sprintf(format, args...))
}

// Detail strips the sentinel prefix added by Conflict and InUse.
func Detail(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrConflict, ErrInUse} {
		prefix := sentinel.Error() + ": "
		if errors.Is(err, sentinel) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
