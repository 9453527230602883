package chunkstage

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrMalformedBundle", ErrMalformedBundle, "chunkstage: malformed artifact bundle"},
		{"ErrInvalidChunkSize", ErrInvalidChunkSize, "chunkstage: chunk size must be positive"},
		{"ErrInvalidAddress", ErrInvalidAddress, "chunkstage: invalid address"},
		{"ErrUnknownTarget", ErrUnknownTarget, "chunkstage: unknown deployment target"},
		{"ErrMissingObjectAddress", ErrMissingObjectAddress, "chunkstage: object upgrade requires an object address"},
		{"ErrMissingSequenceSource", ErrMissingSequenceSource, "chunkstage: object deployment requires a sequence number source"},
		{"ErrStageCountChanged", ErrStageCountChanged, "chunkstage: stage count changed between build passes"},
		{"ErrMalformedCall", ErrMalformedCall, "chunkstage: module indices and code chunks differ in length"},
		{"ErrMalformedBCS", ErrMalformedBCS, "chunkstage: malformed BCS input"},
		{"ErrMissingStagingAddress", ErrMissingStagingAddress, "chunkstage: staging contract address is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("Expected error message %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestBundleError(t *testing.T) {
	t.Run("with module index", func(t *testing.T) {
		err := &BundleError{Module: 2, Reason: "missing bytecode"}

		expected := "chunkstage: module 2: missing bytecode"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})

	t.Run("without module index", func(t *testing.T) {
		err := &BundleError{Module: -1, Reason: "missing package metadata"}

		expected := "chunkstage: bundle: missing package metadata"
		if err.Error() != expected {
			t.Errorf("Expected error message %q, got %q", expected, err.Error())
		}
	})

	t.Run("unwraps to ErrMalformedBundle", func(t *testing.T) {
		err := &BundleError{Module: 0, Reason: "x"}
		if !errors.Is(err, ErrMalformedBundle) {
			t.Error("errors.Is should find ErrMalformedBundle in chain")
		}
	})
}

func TestLookupError(t *testing.T) {
	innerErr := errors.New("connection refused")
	err := &LookupError{Address: MustParseAddress("0xcafe"), Err: innerErr}

	expected := "chunkstage: sequence number for 0x000000000000000000000000000000000000000000000000000000000000cafe: connection refused"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if err.Unwrap() != innerErr {
		t.Error("Unwrap should return the inner error")
	}
}

func TestBuildError(t *testing.T) {
	innerErr := errors.New("compiler exited 1")
	err := &BuildError{Pass: 2, Err: innerErr}

	expected := "chunkstage: build pass 2: compiler exited 1"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, innerErr) {
		t.Error("errors.Is should find the inner error in chain")
	}
}

func TestStageError(t *testing.T) {
	err := &StageError{Stage: 3, Entry: EntryUpgradeObject, Err: ErrMissingObjectAddress}

	expected := "chunkstage: stage 3 (stage_code_chunk_and_upgrade_object_code): chunkstage: object upgrade requires an object address"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrMissingObjectAddress) {
		t.Error("errors.Is should find ErrMissingObjectAddress in chain")
	}
}

func TestAddressError(t *testing.T) {
	err := &AddressError{Input: "0xzz", Err: ErrInvalidAddress}

	expected := `chunkstage: address "0xzz": chunkstage: invalid address`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	var addrErr *AddressError
	if !errors.As(err, &addrErr) {
		t.Error("errors.As should match *AddressError")
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	sentinelErrors := []error{
		ErrMalformedBundle,
		ErrInvalidChunkSize,
		ErrInvalidAddress,
		ErrUnknownTarget,
		ErrMissingObjectAddress,
		ErrMissingSequenceSource,
		ErrStageCountChanged,
		ErrMalformedCall,
		ErrMalformedBCS,
		ErrMissingStagingAddress,
	}

	for i, err1 := range sentinelErrors {
		for j, err2 := range sentinelErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors %d and %d should be distinct", i, j)
			}
		}
	}
}
