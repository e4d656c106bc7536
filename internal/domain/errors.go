package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrNoAdjacent means the entity is already first or last in its scope.
	ErrNoAdjacent = errors.New("no adjacent entity")

	// ErrUpload means the blob store rejected a file.
	ErrUpload = errors.New("upload failed")

	// ErrRateLimited means the caller exceeded a request budget.
	ErrRateLimited = errors.New("too many requests")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // category, project, ...
	ResourceID   int64  // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// WriteFailureError reports which write of a multi-step mutation the store rejected.
// Steps are numbered from 1.
type WriteFailureError struct {
	Step int
	Err  error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("write failure at step %d: %v", e.Step, e.Err)
}

func (e *WriteFailureError) Unwrap() error   { return e.Err }
func (e *WriteFailureError) StatusCode() int { return http.StatusInternalServerError }

// UploadError wraps a blob store failure for a named object.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error   { return e.Err }
func (e *UploadError) StatusCode() int { return http.StatusBadGateway }

// Is allows errors.Is() to match against ErrUpload
func (e *UploadError) Is(target error) bool {
	return target == ErrUpload
}

// KindError carries a user facing message while matching a sentinel with errors.Is.
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string { return e.Message }
func (e *KindError) Unwrap() error { return e.Kind }

// Errorf returns a *KindError of kind with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return &KindError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
