package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies application errors.
type Kind string

const (
	KindValidation     Kind = "VALIDATION_FAILED"
	KindAuthentication Kind = "AUTHENTICATION_FAILED"
	KindAuthorization  Kind = "FORBIDDEN"
	KindNotFound       Kind = "NOT_FOUND"
	KindConflict       Kind = "CONFLICT"
	KindPersistence    Kind = "PERSISTENCE_ERROR"
	KindCreation       Kind = "CREATION_FAILED"
	KindSigning        Kind = "SIGNING_FAILED"
	KindInvalidToken   Kind = "INVALID_TOKEN"
	KindRateLimited    Kind = "RATE_LIMITED"
	KindBadRequest     Kind = "BAD_REQUEST"
	KindUnknown        Kind = "INTERNAL_ERROR"
)

// UnknownErrorMessage is used for failures that carry no client-facing message.
const UnknownErrorMessage = "An unknown error occurred"

// InvalidInputsMessage is shared by every validation failure.
const InvalidInputsMessage = "Invalid inputs passed, please check your data"

// Sentinels returned by the repository layer.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violated")
)

// FieldViolation names one failed field rule.
type FieldViolation struct {
	Field      string
	Constraint string
}

// AppError is the only error shape surfaced to clients.
type AppError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Violations []FieldViolation
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(kind Kind, message string, status int, err error) *AppError {
	return &AppError{Kind: kind, Message: message, HTTPStatus: status, Err: err}
}

func NewValidationError(violations []FieldViolation) error {
	return &AppError{
		Kind:       KindValidation,
		Message:    InvalidInputsMessage,
		HTTPStatus: http.StatusUnprocessableEntity,
		Violations: violations,
	}
}

func NewAuthenticationError(message string) error {
	return NewAppError(KindAuthentication, message, http.StatusForbidden, nil)
}

func NewAuthorizationError(message string) error {
	return NewAppError(KindAuthorization, message, http.StatusForbidden, nil)
}

func NewNotFound(message string) error {
	return NewAppError(KindNotFound, message, http.StatusNotFound, nil)
}

func NewConflict(message string, err error) error {
	return NewAppError(KindConflict, message, http.StatusUnprocessableEntity, err)
}

func NewPersistenceError(message string, err error) error {
	return NewAppError(KindPersistence, message, http.StatusInternalServerError, err)
}

func NewCreationError(message string, err error) error {
	return NewAppError(KindCreation, message, http.StatusInternalServerError, err)
}

func NewSigningError(err error) error {
	return NewAppError(KindSigning, "Could not sign token", http.StatusInternalServerError, err)
}

func NewInvalidToken(err error) error {
	return NewAppError(KindInvalidToken, "Authentication failed", http.StatusForbidden, err)
}

func NewRateLimited(message string) error {
	return NewAppError(KindRateLimited, message, http.StatusTooManyRequests, nil)
}

func NewBadRequest(message string, err error) error {
	return NewAppError(KindBadRequest, message, http.StatusBadRequest, err)
}

// ToAppError normalizes any error into an AppError. Errors without explicit
// fields become a 500 with UnknownErrorMessage.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus == 0 {
			appErr.HTTPStatus = http.StatusInternalServerError
		}
		if appErr.Message == "" {
			appErr.Message = UnknownErrorMessage
		}
		return appErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		message := fiberErr.Message
		if message == "" {
			message = UnknownErrorMessage
		}
		return &AppError{Kind: kindForStatus(fiberErr.Code), Message: message, HTTPStatus: fiberErr.Code, Err: err}
	}
	return &AppError{
		Kind:       KindUnknown,
		Message:    UnknownErrorMessage,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsKind reports whether err normalizes to the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindAuthorization
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	if status >= 400 && status < 500 {
		return KindBadRequest
	}
	return KindUnknown
}
