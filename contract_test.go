package chunkstage

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFunctionID(t *testing.T) {
	contract := NewStagingContract(MustParseAddress("0x7"))

	t.Run("String", func(t *testing.T) {
		id := contract.FunctionID(EntryStageChunk)
		expected := "0x0000000000000000000000000000000000000000000000000000000000000007::large_packages::stage_code_chunk"
		if id.String() != expected {
			t.Errorf("Expected %s, got %s", expected, id.String())
		}
	})

	t.Run("round trips through text", func(t *testing.T) {
		id := contract.FunctionID(EntryUpgradeObject)
		data, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}

		var decoded FunctionID
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if decoded != id {
			t.Errorf("Expected %v, got %v", id, decoded)
		}
	})

	t.Run("parse short address", func(t *testing.T) {
		id, err := ParseFunctionID("0x7::large_packages::stage_code_chunk")
		if err != nil {
			t.Fatalf("ParseFunctionID failed: %v", err)
		}
		if id.Address != MustParseAddress("0x7") || id.Module != StagingModule || id.Function != "stage_code_chunk" {
			t.Errorf("Unexpected function id %v", id)
		}
	})

	t.Run("parse errors", func(t *testing.T) {
		for _, s := range []string{"", "0x7::large_packages", "0x7::::f", "nothex::m::f"} {
			if _, err := ParseFunctionID(s); err == nil {
				t.Errorf("Expected error for %q", s)
			}
		}
	})
}

func TestStagingContractInvoke(t *testing.T) {
	contract := NewStagingContract(MustParseAddress("0x7"))
	object := MustParseAddress("0xbeef")

	t.Run("stage call has three arguments", func(t *testing.T) {
		call, err := contract.Invoke(EntryStageChunk, []byte("m"), []uint16{0}, [][]byte{{1}}, object)
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		if len(call.Args()) != 3 {
			t.Errorf("Expected 3 args, got %d", len(call.Args()))
		}
		if _, ok := call.ObjectAddress(); ok {
			t.Error("Stage call should not carry an object address")
		}
	})

	t.Run("upgrade call has object address", func(t *testing.T) {
		call, err := contract.Invoke(EntryUpgradeObject, nil, nil, nil, object)
		if err != nil {
			t.Fatalf("Invoke failed: %v", err)
		}
		if len(call.Args()) != 4 {
			t.Fatalf("Expected 4 args, got %d", len(call.Args()))
		}
		got, ok := call.ObjectAddress()
		if !ok || got != object {
			t.Errorf("Expected object %s, got %s", object, got)
		}
	})

	t.Run("upgrade without object fails", func(t *testing.T) {
		_, err := contract.Invoke(EntryUpgradeObject, nil, nil, nil, Address{})
		if !errors.Is(err, ErrMissingObjectAddress) {
			t.Errorf("Expected ErrMissingObjectAddress, got %v", err)
		}
	})

	t.Run("mismatched indices and code fails", func(t *testing.T) {
		_, err := contract.Invoke(EntryStageChunk, nil, []uint16{0, 1}, [][]byte{{1}}, Address{})
		if !errors.Is(err, ErrMalformedCall) {
			t.Errorf("Expected ErrMalformedCall, got %v", err)
		}
	})

	t.Run("unknown entry fails", func(t *testing.T) {
		_, err := contract.Invoke(Entry(99), nil, nil, nil, Address{})
		if !errors.Is(err, ErrUnknownTarget) {
			t.Errorf("Expected ErrUnknownTarget, got %v", err)
		}
	})

	t.Run("MustInvoke panics on error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic")
			}
		}()
		contract.MustInvoke(EntryUpgradeObject, nil, nil, nil, Address{})
	})
}
