// Package error defines domain-specific errors for the dispatch backend.
package error

import "errors"

// Repository-level errors. Implementations of the application adapters
// return these to signal absence or constraint violations.
var (
	// ErrUserNotFound is returned when a user is not found in the system.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameAlreadyExists is returned when the username unique constraint is violated.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrDispatcherNotFound is returned when no dispatcher record exists.
	ErrDispatcherNotFound = errors.New("dispatcher not found")

	// ErrProfileImageNotFound is returned when a user has no stored profile image.
	ErrProfileImageNotFound = errors.New("profile image not found")

	// ErrInvalidProfileImageName is returned when a stored file name is not a plain file name.
	ErrInvalidProfileImageName = errors.New("invalid profile image name")

	// ErrSessionNotFound is returned when no session matches a token.
	ErrSessionNotFound = errors.New("session not found")
)

// Domain errors used as causes of AuthError values.
var (
	// ErrMissingArea is returned when a dispatcher registers without an area.
	ErrMissingArea = errors.New("dispatcher registration requires an area id")

	// ErrInvalidRole is returned when the role is not one of the known roles.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidDimensions is returned when a requested image size is out of range.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrMissingDispatcher is returned when a dispatcher-role user has no dispatcher record.
	ErrMissingDispatcher = errors.New("dispatcher record missing for dispatcher user")
)

// ErrorKind is the coarse failure category reported to callers.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindBadRequest
	KindConflict
	KindUnauthorized
	KindNotFound
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindConflict:
		return "Conflict"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	default:
		return "InternalServerError"
	}
}

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Registration errors (01XXXX)
	ErrCodeUsernameExists AuthErrorCode = "AUTH-010001"
	ErrCodeMissingArea    AuthErrorCode = "AUTH-010002"
	ErrCodeInvalidRole    AuthErrorCode = "AUTH-010003"
	ErrCodeMissingFields  AuthErrorCode = "AUTH-010004"

	// Login errors (02XXXX)
	ErrCodeInvalidCredentials AuthErrorCode = "AUTH-020001"
	ErrCodeRateLimited        AuthErrorCode = "AUTH-020002"
	ErrCodeUserNotFound       AuthErrorCode = "AUTH-020003"

	// Session errors (03XXXX)
	ErrCodeSessionNotFound AuthErrorCode = "AUTH-030001"
	ErrCodeInvalidSession  AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken    AuthErrorCode = "AUTH-030003"

	// Profile image errors (04XXXX)
	ErrCodeProfileImageNotFound AuthErrorCode = "AUTH-040001"
	ErrCodeInvalidDimensions    AuthErrorCode = "AUTH-040002"
	ErrCodeImageProcessing      AuthErrorCode = "AUTH-040003"

	// Internal errors (09XXXX)
	ErrCodeInternal AuthErrorCode = "AUTH-090001"
)

// AuthError represents an authentication error with kind, code and message.
type AuthError struct {
	Kind    ErrorKind
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given kind, code and message.
func NewAuthError(kind ErrorKind, code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewInternalError wraps an unexpected failure as an InternalServerError.
func NewInternalError(message string, err error) *AuthError {
	return NewAuthError(KindInternal, ErrCodeInternal, message, err)
}

// KindOf returns the ErrorKind carried by err. Errors that are not an
// AuthError are reported as internal.
func KindOf(err error) ErrorKind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindInternal
}
