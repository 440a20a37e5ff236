// Package errors provides the structured error type used across typeioc.
// Every failure raised by the registry carries a machine-readable code, a
// human-readable message and optional details, and can be matched with the
// standard library's errors.Is against the sentinels exported by package di.
package errors
