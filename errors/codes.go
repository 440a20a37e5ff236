package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Caller errors
const (
	// ErrCodeInvalidArgument indicates a nil or unusable argument was passed
	// where a type, provider or constructor is required.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotRegistered indicates a lookup on a type that was never bound.
	ErrCodeNotRegistered ErrorCode = "NOT_REGISTERED"
	// ErrCodeNotSnapshotted indicates a restore without a prior snapshot.
	ErrCodeNotSnapshotted ErrorCode = "NOT_SNAPSHOTTED"
	// ErrCodeIllegalInstantiation indicates a direct construction of a type
	// that may only be obtained from the container.
	ErrCodeIllegalInstantiation ErrorCode = "ILLEGAL_INSTANTIATION"
	// ErrCodeMissingTypeHint indicates no declared type was available for an
	// injection point and none was supplied explicitly.
	ErrCodeMissingTypeHint ErrorCode = "MISSING_TYPE_HINT"
	// ErrCodeTypeMismatch indicates a resolved instance does not have the
	// type the caller asked for.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeInvalidConfig indicates configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Internal errors
const (
	// ErrCodeTypeIdentity indicates the canonical type of a reference could
	// not be determined.
	ErrCodeTypeIdentity ErrorCode = "TYPE_IDENTITY"
	// ErrCodeProviderFailed indicates a provider or constructor returned an
	// error or panicked.
	ErrCodeProviderFailed ErrorCode = "PROVIDER_FAILED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeTypeIdentity: true,
	ErrCodeInternal:     true,
}

// IsFatalCode reports whether the code signals a broken internal invariant
// rather than a malformed request.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
