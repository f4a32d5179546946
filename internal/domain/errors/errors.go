package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the authentication domain.
var (
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token or code")
	ErrInvalidInput       = errors.New("invalid input: must be a valid email, username, or phone number")

	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrPhoneExists    = errors.New("phone number already exists")
	ErrUsernameExists = errors.New("username already exists")

	ErrTooManyAttempts      = errors.New("too many password reset attempts")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired verification code")

	ErrSessionNotFound = errors.New("session not found")
)

// API error codes, stable across releases. Clients match on these,
// never on messages.
const (
	CodeEmailExists         = "AUTH_EMAIL_ALREADY_EXISTS"
	CodePhoneExists         = "AUTH_PHONE_ALREADY_EXISTS"
	CodeUsernameExists      = "AUTH_USERNAME_ALREADY_EXISTS"
	CodeInvalidToken        = "AUTH_INVALID_TOKEN"
	CodeUserNotFound        = "AUTH_USER_NOT_FOUND"
	CodeTooManyAttempts     = "AUTH_TOO_MANY_ATTEMPTS"
	CodeUnauthorized        = "ACCESS_UNAUTHORIZED"
	CodeTokenNotFound       = "AUTH_TOKEN_NOT_FOUND"
	CodeInvalidPhoneOrEmail = "AUTH_INVALID_PHONE_OR_EMAIL"
	CodeInvalidInput        = "AUTH_INVALID_INPUT"
	CodeSessionNotFound     = "AUTH_SESSION_NOT_FOUND"
	CodeVerificationError   = "VERIFICATION_ERROR"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
)

// AppError carries the HTTP status and machine-readable code a domain
// failure should surface with. The boundary translator in handler/http is
// the only place that turns it into a response.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
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

// New creates an AppError wrapping err.
func New(err error, message string, statusCode int, code string) *AppError {
	return &AppError{Err: err, Message: message, StatusCode: statusCode, Code: code}
}

// BadRequest builds a 400 AppError.
func BadRequest(message, code string) *AppError {
	return &AppError{Err: ErrInvalidRequest, Message: message, StatusCode: http.StatusBadRequest, Code: code}
}

// Unauthorized builds a 401 AppError.
func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message, StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized}
}

// IsNotFound reports whether err is a "not found" class error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken)
}

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailExists) ||
		errors.Is(err, ErrPhoneExists) ||
		errors.Is(err, ErrUsernameExists)
}
