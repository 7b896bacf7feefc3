// Package domain defines the error kinds shared by every entry point of the
// core engine. Services return *domain.Error so that handlers can map each
// kind to the right HTTP status without string matching, and so that storage
// failures stay distinguishable from business rejections.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error.
type Kind string

const (
	KindSessionAlreadyOpen   Kind = "SESSION_ALREADY_OPEN"
	KindSessionNotFound      Kind = "SESSION_NOT_FOUND"
	KindSessionAlreadyClosed Kind = "SESSION_ALREADY_CLOSED"
	KindOrderNotFound        Kind = "ORDER_NOT_FOUND"
	KindInvalidTransition    Kind = "INVALID_TRANSITION"
	KindValidation           Kind = "VALIDATION_ERROR"
	// KindInfra marks storage / connectivity failures. They are never
	// surfaced with internal detail and the transport layer may retry them.
	KindInfra Kind = "INFRA_ERROR"
)

// Error is the structured rejection surfaced to callers: kind + human message,
// plus an optional field map for client-correctable validation failures.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a domain error of the given kind.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation builds a field-level validation error.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "Erro de validação", Fields: fields}
}

// Infra wraps a storage or connectivity failure.
func Infra(op string, err error) *Error {
	return &Error{Kind: KindInfra, Message: "Erro interno", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf extracts the Kind of err, or "" when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
