package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Fatal marks errors that indicate a broken internal invariant.
	Fatal bool `json:"fatal"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code, so that
// package-level sentinels match any error carrying their code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic fatal detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Fatal:   IsFatalCode(code),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// --- Common Error Constructors ---

// InvalidArgument creates a new AppError for a nil or unusable argument.
func InvalidArgument(argument, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("Invalid %s: %s", argument, reason),
		Details: map[string]any{"argument": argument},
	}
}

// NotRegistered creates a new AppError for a type that was never bound.
func NotRegistered(typeName string) *AppError {
	return &AppError{
		Code: ErrCodeNotRegistered, Message: fmt.Sprintf("The type %s hasn't been registered with the container.", typeName),
		Details: map[string]any{"type": typeName},
	}
}

// NotSnapshotted creates a new AppError for a restore with no saved state.
func NotSnapshotted(typeName string) *AppError {
	return &AppError{
		Code: ErrCodeNotSnapshotted, Message: fmt.Sprintf("Binding for %s was never snapshotted.", typeName),
		Details: map[string]any{"type": typeName},
	}
}

// IllegalInstantiation creates a new AppError for a direct construction of a
// container-managed singleton.
func IllegalInstantiation(typeName string) *AppError {
	return &AppError{
		Code: ErrCodeIllegalInstantiation, Message: fmt.Sprintf("Can not instantiate singleton %s. Ask the container for it.", typeName),
		Details: map[string]any{"type": typeName},
	}
}

// TypeIdentity creates a new AppError for a reference whose canonical type
// cannot be identified.
func TypeIdentity(typeName string) *AppError {
	return &AppError{
		Code: ErrCodeTypeIdentity, Message: fmt.Sprintf("Can not identify the base type for requested target %s.", typeName),
		Fatal: true, Details: map[string]any{"type": typeName},
	}
}

// MissingTypeHint creates a new AppError for an injection point without a
// declared type.
func MissingTypeHint(owner, point string) *AppError {
	return &AppError{
		Code: ErrCodeMissingTypeHint, Message: fmt.Sprintf("No type declared for %s of %s; supply one explicitly.", point, owner),
		Details: map[string]any{"type": owner, "point": point},
	}
}

// TypeMismatch creates a new AppError for an instance of an unexpected type.
func TypeMismatch(want, got string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch, Message: fmt.Sprintf("Resolved %s, expected %s.", got, want),
		Details: map[string]any{"expected": want, "actual": got},
	}
}

// ProviderFailed creates a new AppError for a failing provider.
func ProviderFailed(typeName string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeProviderFailed, Message: fmt.Sprintf("Provider for %s failed.", typeName),
		Details: map[string]any{"type": typeName}, Cause: cause,
	}
}

// InvalidConfig creates a new AppError for configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected internal error occurred.",
		Fatal: true, Cause: cause,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "" when
// there is none.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}
