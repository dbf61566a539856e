package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeAuthorization ErrorCode = "AUTHORIZATION"
	CodeStateConflict ErrorCode = "STATE_CONFLICT"
	CodeGateway       ErrorCode = "GATEWAY"
	CodePersistence   ErrorCode = "PERSISTENCE"
)

// Error is the structured error returned by synchronous operations. Batch
// tasks capture these per item instead of aborting the run.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func NewValidationError(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewAuthorizationError(msg string) *Error {
	return &Error{Code: CodeAuthorization, Message: msg}
}

func NewStateConflictError(msg string) *Error {
	return &Error{Code: CodeStateConflict, Message: msg}
}

func NewGatewayError(msg string, cause error) *Error {
	return &Error{Code: CodeGateway, Message: msg, cause: cause}
}

func NewPersistenceError(msg string, cause error) *Error {
	return &Error{Code: CodePersistence, Message: msg, cause: cause}
}

// CodeOf extracts the taxonomy code from err, defaulting to persistence for
// anything untyped.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodePersistence
}

var (
	ErrLeadNotAvailable    = errors.New("lead is not available for purchase")
	ErrDuplicateLead       = errors.New("lead already exists for this listing and contact")
	ErrInsufficientCredits = errors.New("insufficient lead credits")
	ErrVersionConflict     = errors.New("record was modified concurrently")
	ErrGatewayRateLimited  = errors.New("payment gateway rate limit exceeded")
)
