package chunkstage

import (
	"fmt"
	"strings"
)

// FunctionID names an entry function as address::module::function.
type FunctionID struct {
	Address  Address
	Module   string
	Function string
}

// String returns the fully qualified function id.
func (f FunctionID) String() string {
	return f.Address.Hex() + "::" + f.Module + "::" + f.Function
}

// ParseFunctionID parses address::module::function.
func ParseFunctionID(s string) (FunctionID, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return FunctionID{}, fmt.Errorf("chunkstage: invalid function id %q", s)
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return FunctionID{}, err
	}
	return FunctionID{Address: addr, Module: parts[1], Function: parts[2]}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (f FunctionID) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FunctionID) UnmarshalText(text []byte) error {
	parsed, err := ParseFunctionID(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// StagingContract wraps the on-chain staging contract. The address differs
// per network, so it is always supplied by the caller.
type StagingContract struct {
	address Address
	module  string
}

// NewStagingContract creates a wrapper for the staging contract at address.
func NewStagingContract(address Address) *StagingContract {
	return &StagingContract{
		address: address,
		module:  StagingModule,
	}
}

// Address returns the contract address.
func (c *StagingContract) Address() Address {
	return c.address
}

// FunctionID returns the fully qualified id of an entry function.
func (c *StagingContract) FunctionID(e Entry) FunctionID {
	return FunctionID{Address: c.address, Module: c.module, Function: e.Function()}
}

// Invoke creates a StageCall for the entry with the given chunk contents.
// object is used only for EntryUpgradeObject.
func (c *StagingContract) Invoke(e Entry, metadata []byte, indices []uint16, code [][]byte, object Address) (*StageCall, error) {
	if e.Function() == "" {
		return nil, fmt.Errorf("%w: entry %d", ErrUnknownTarget, uint8(e))
	}
	if len(indices) != len(code) {
		return nil, ErrMalformedCall
	}
	if e == EntryUpgradeObject && object.IsZero() {
		return nil, ErrMissingObjectAddress
	}

	args := make([]Arg, 0, e.ArgCount())
	args = append(args, Hex(metadata), U16List(indices), HexList(code))
	if e == EntryUpgradeObject {
		args = append(args, AddressValue(object))
	}

	return &StageCall{
		function: c.FunctionID(e),
		entry:    e,
		args:     args,
	}, nil
}

// MustInvoke is like Invoke but panics on error.
func (c *StagingContract) MustInvoke(e Entry, metadata []byte, indices []uint16, code [][]byte, object Address) *StageCall {
	call, err := c.Invoke(e, metadata, indices, code, object)
	if err != nil {
		panic(err)
	}
	return call
}
