package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside the human readable message.
const (
	TextCodeUserNotFound    = "USER_NOT_FOUND"
	TextCodeBadCredentials  = "BAD_CREDENTIALS"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeBadSignature    = "TOKEN_BAD_SIGNATURE"
	TextCodeUsernameTaken   = "USERNAME_TAKEN"
	TextCodeEmailTaken      = "EMAIL_TAKEN"
	TextCodeRoleNotFound    = "ROLE_NOT_FOUND"
	TextCodeUnauthenticated = "UNAUTHENTICATED"
	TextCodeForbidden       = "FORBIDDEN"
)

// ErrIdentityNotFound is returned when no account exists for a username.
// Distinct from ErrMismatchedHashAndPassword on purpose: the deployed
// product reports "username does not exist" separately from a bad password.
var ErrIdentityNotFound = errors.New("username does not exist", errors.CategoryAuth).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeUserNotFound)

// ErrMismatchedHashAndPassword is the bad-credentials error for sign in.
var ErrMismatchedHashAndPassword = errors.New("incorrect username or password", errors.CategoryAuth).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeBadCredentials)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned for tokens past their expiry.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed is returned for tokens whose structure cannot be parsed.
var ErrTokenMalformed = errors.New("malformed authentication token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenSignatureInvalid is returned when the signature does not verify
// against the current signing secret. Checked before expiry.
var ErrTokenSignatureInvalid = errors.New("invalid token signature", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeBadSignature)

// ErrUsernameTaken is the registration conflict for a duplicate username.
var ErrUsernameTaken = errors.New("Error: Username is already taken!", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeUsernameTaken)

// ErrEmailTaken is the registration conflict for a duplicate email.
var ErrEmailTaken = errors.New("Error: Email is already in use!", errors.CategoryConflict).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmailTaken)

// ErrRoleNotFound indicates a role row missing from the credential store.
// A policy or registration referencing it is a configuration error.
var ErrRoleNotFound = errors.New("Error: Role is not found.", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeRoleNotFound)

// ErrUnauthenticated denies a protected route reached without a security
// context (missing, invalid or expired credential).
var ErrUnauthenticated = errors.New("full authentication is required to access this resource", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeUnauthenticated)

// ErrForbidden denies an authenticated caller missing a required role.
var ErrForbidden = errors.New("access denied: insufficient permissions", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeForbidden)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
