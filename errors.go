package chunkstage

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
var (
	// ErrMalformedBundle indicates an artifact bundle violates its invariants.
	ErrMalformedBundle = errors.New("chunkstage: malformed artifact bundle")

	// ErrInvalidChunkSize indicates a non-positive packing limit.
	ErrInvalidChunkSize = errors.New("chunkstage: chunk size must be positive")

	// ErrInvalidAddress indicates a string that is not a chain address.
	ErrInvalidAddress = errors.New("chunkstage: invalid address")

	// ErrUnknownTarget indicates an unrecognized deployment target kind.
	ErrUnknownTarget = errors.New("chunkstage: unknown deployment target")

	// ErrMissingObjectAddress indicates an upgrade intent without a target object.
	ErrMissingObjectAddress = errors.New("chunkstage: object upgrade requires an object address")

	// ErrMissingSequenceSource indicates an object deployment without a way to
	// look up the deployer's sequence number.
	ErrMissingSequenceSource = errors.New("chunkstage: object deployment requires a sequence number source")

	// ErrStageCountChanged indicates the final build packed into a different
	// number of stage calls than the build used to derive the object address.
	ErrStageCountChanged = errors.New("chunkstage: stage count changed between build passes")

	// ErrMalformedBCS indicates input that ends early or holds an invalid
	// BCS value.
	ErrMalformedBCS = errors.New("chunkstage: malformed BCS input")

	// ErrMissingStagingAddress indicates an intent without a staging contract address.
	ErrMissingStagingAddress = errors.New("chunkstage: staging contract address is required")

	// ErrMalformedCall indicates a stage call whose index and code lists differ in length.
	ErrMalformedCall = errors.New("chunkstage: module indices and code chunks differ in length")
)

// BundleError describes which part of an artifact bundle is malformed.
type BundleError struct {
	Module int // -1 when the problem is not tied to one module
	Reason string
}

func (e *BundleError) Error() string {
	if e.Module >= 0 {
		return fmt.Sprintf("chunkstage: module %d: %s", e.Module, e.Reason)
	}
	return fmt.Sprintf("chunkstage: bundle: %s", e.Reason)
}

func (e *BundleError) Unwrap() error {
	return ErrMalformedBundle
}

// AddressError indicates an address string could not be parsed.
type AddressError struct {
	Input string
	Err   error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("chunkstage: address %q: %v", e.Input, e.Err)
}

func (e *AddressError) Unwrap() error {
	return e.Err
}

// BuildError wraps a failure of the artifact builder during one pass.
type BuildError struct {
	Pass int
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("chunkstage: build pass %d: %v", e.Pass, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// LookupError wraps a failed sequence number lookup.
type LookupError struct {
	Address Address
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("chunkstage: sequence number for %s: %v", e.Address.Hex(), e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// StageError wraps errors tied to one stage call.
type StageError struct {
	Stage int
	Entry Entry
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("chunkstage: stage %d (%s): %v", e.Stage, e.Entry, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
