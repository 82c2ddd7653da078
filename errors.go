package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeEmailTaken        = "EMAIL_TAKEN"
	TextCodeMissingField      = "MISSING_FIELD"
	TextCodeInvalidConfig     = "INVALID_CONFIG"
	TextCodeInvalidBirthday   = "INVALID_BIRTHDAY"
	TextCodeWeakPassword      = "WEAK_PASSWORD"
	TextCodeEmptyPassword     = "EMPTY_PASSWORD"
	TextCodeMissingSigningKey = "MISSING_SIGNING_KEY"
	TextCodeStorageFailure    = "STORAGE_FAILURE"
	TextCodeUserNotFound      = "USER_NOT_FOUND"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so callers can't probe which accounts exist.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrEmailTaken is returned when a signup email is already registered.
var ErrEmailTaken = errors.New("email already registered", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned by stores when no record matches the email.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrMissingSigningKey means the token signing secret was never supplied.
// Tokens are never signed with an empty key.
var ErrMissingSigningKey = errors.New("token signing key is not configured", errors.CategoryInternal).
	WithTextCode(TextCodeMissingSigningKey).
	WithCode(errors.CodeInternal)

// ErrTokenExpired is returned when validating a token past its expiry.
var ErrTokenExpired = errors.New("session token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token can't be parsed or verified.
var ErrTokenMalformed = errors.New("session token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// NewValidationError builds a field-level input error.
func NewValidationError(msg, textCode string, fields map[string]any) *errors.Error {
	err := errors.New(msg, errors.CategoryValidation).
		WithTextCode(textCode).
		WithCode(errors.CodeBadRequest)
	if len(fields) > 0 {
		err = err.WithMetadata(fields)
	}
	return err
}

// NewStorageError wraps a persistence fault. The record involved must not be
// treated as registered; callers may retry with backoff.
func NewStorageError(cause error, msg string) *errors.Error {
	return errors.Wrap(cause, errors.CategoryInternal, msg).
		WithTextCode(TextCodeStorageFailure).
		WithCode(errors.CodeInternal)
}

// IsValidation reports whether err is a malformed-input error.
func IsValidation(err error) bool {
	return hasCategory(err, errors.CategoryValidation)
}

// IsConflict reports whether err is a duplicate-email conflict.
func IsConflict(err error) bool {
	return hasCategory(err, errors.CategoryConflict)
}

// IsAuthError reports whether err is a bad-credentials error.
func IsAuthError(err error) bool {
	return hasCategory(err, errors.CategoryAuth)
}

// IsStorage reports whether err is an infrastructure fault.
func IsStorage(err error) bool {
	return hasCategory(err, errors.CategoryInternal)
}

func hasCategory(err error, category errors.Category) bool {
	if err == nil {
		return false
	}
	var rich *errors.Error
	if !errors.As(err, &rich) {
		return false
	}
	return rich.Category == category
}
