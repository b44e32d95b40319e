package engine

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned by registration calls made after the registry
// entered its read-only query phase.
var ErrFrozen = errors.New("registry is frozen: registration is a startup-time-only phase")

// DuplicateOperationError reports a second registration for a
// (representation, operation) pair that was not marked as a replacement.
type DuplicateOperationError struct {
	Rep  Representation
	Name string
}

func (e *DuplicateOperationError) Error() string {
	return fmt.Sprintf("operation %q already registered for representation %q", e.Name, e.Rep)
}

// InvalidCostError reports a converter registration with a negative cost.
type InvalidCostError struct {
	Source Representation
	Target Representation
	Cost   int
}

func (e *InvalidCostError) Error() string {
	return fmt.Sprintf("converter %s -> %s has invalid cost %d (must be >= 0)", e.Source, e.Target, e.Cost)
}

// InvalidConverterError reports a structurally invalid converter
// registration, such as a self-loop. A representation is trivially
// reachable from itself at cost 0, so a self-loop edge is always a
// configuration mistake.
type InvalidConverterError struct {
	Source Representation
	Target Representation
	Reason string
}

func (e *InvalidConverterError) Error() string {
	return fmt.Sprintf("invalid converter %s -> %s: %s", e.Source, e.Target, e.Reason)
}

// UnrecognizedFormatError reports input bytes that no decoder recognizes.
type UnrecognizedFormatError struct {
	Detail string
}

func (e *UnrecognizedFormatError) Error() string {
	return fmt.Sprintf("unrecognized image format: %s", e.Detail)
}

// UnsupportedOperationError reports that no reachable representation
// supports the requested operation. This is an expected, user-facing
// condition: for example, asking for a webp export in a build without the
// vips backend.
type UnsupportedOperationError struct {
	Start Representation
	Name  string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %q is not reachable from representation %q", e.Name, e.Start)
}

// ConversionError wraps a backend failure during one converter step. The
// Session that hit it remains in the last representation it successfully
// reached, so the caller can inspect or retry.
type ConversionError struct {
	Source Representation
	Target Representation
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion %s -> %s failed: %v", e.Source, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// OperationError wraps a backend failure while executing a native
// operation.
type OperationError struct {
	Rep  Representation
	Name string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %q on representation %q failed: %v", e.Name, e.Rep, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// BadArgumentError reports invalid operation arguments, detected by the
// operation implementation before any backend mutation occurs.
type BadArgumentError struct {
	Name   string
	Reason string
}

func (e *BadArgumentError) Error() string {
	return fmt.Sprintf("bad argument for operation %q: %s", e.Name, e.Reason)
}
