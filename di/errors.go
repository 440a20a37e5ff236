package di

import (
	"github.com/kbukum/typeioc/errors"
)

// Sentinel errors for use with errors.Is. Every error returned by the
// container is an *errors.AppError carrying one of these codes.
var (
	ErrInvalidArgument      = errors.New(errors.ErrCodeInvalidArgument, "invalid argument")
	ErrNotRegistered        = errors.New(errors.ErrCodeNotRegistered, "type not registered")
	ErrNotSnapshotted       = errors.New(errors.ErrCodeNotSnapshotted, "binding never snapshotted")
	ErrIllegalInstantiation = errors.New(errors.ErrCodeIllegalInstantiation, "illegal direct instantiation")
	ErrTypeIdentity         = errors.New(errors.ErrCodeTypeIdentity, "type identity exhausted")
	ErrMissingTypeHint      = errors.New(errors.ErrCodeMissingTypeHint, "missing type hint")
	ErrTypeMismatch         = errors.New(errors.ErrCodeTypeMismatch, "type mismatch")
	ErrProviderFailed       = errors.New(errors.ErrCodeProviderFailed, "provider failed")
)

