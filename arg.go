package chunkstage

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Argument type tags understood by the entry function JSON format.
const (
	TypeHex     = "hex"
	TypeU16     = "u16"
	TypeAddress = "address"
)

// Arg is one typed argument of a stage call.
// This is a sealed interface - only types within this package can implement it.
type Arg interface {
	// isArg is unexported to seal the interface.
	isArg()

	// TypeTag returns the wire type name of the argument.
	TypeTag() string

	// Value returns the JSON value of the argument.
	Value() any
}

// HexArg is a single byte string, encoded as 0x-prefixed hex.
type HexArg struct {
	data []byte
}

func (a *HexArg) isArg() {}

// TypeTag returns "hex".
func (a *HexArg) TypeTag() string {
	return TypeHex
}

// Value returns the bytes as hexutil.Bytes.
func (a *HexArg) Value() any {
	return hexutil.Bytes(a.data)
}

// Bytes returns the raw bytes.
func (a *HexArg) Bytes() []byte {
	return a.data
}

// U16ListArg is a list of u16 values.
type U16ListArg struct {
	values []uint16
}

func (a *U16ListArg) isArg() {}

// TypeTag returns "u16".
func (a *U16ListArg) TypeTag() string {
	return TypeU16
}

// Value returns the values as a slice of integers.
func (a *U16ListArg) Value() any {
	// []uint16 marshals as a JSON array of numbers; keep it non-nil so an
	// empty list encodes as [] rather than null.
	if a.values == nil {
		return []uint16{}
	}
	return a.values
}

// Values returns the u16 values.
func (a *U16ListArg) Values() []uint16 {
	return a.values
}

// HexListArg is a list of byte strings.
type HexListArg struct {
	items [][]byte
}

func (a *HexListArg) isArg() {}

// TypeTag returns "hex".
func (a *HexListArg) TypeTag() string {
	return TypeHex
}

// Value returns the items as hex strings.
func (a *HexListArg) Value() any {
	out := make([]hexutil.Bytes, len(a.items))
	for i, item := range a.items {
		out[i] = item
	}
	return out
}

// Items returns the raw byte strings.
func (a *HexListArg) Items() [][]byte {
	return a.items
}

// AddressArg is a chain address.
type AddressArg struct {
	addr Address
}

func (a *AddressArg) isArg() {}

// TypeTag returns "address".
func (a *AddressArg) TypeTag() string {
	return TypeAddress
}

// Value returns the address.
func (a *AddressArg) Value() any {
	return a.addr
}

// Address returns the wrapped address.
func (a *AddressArg) Address() Address {
	return a.addr
}

// Hex creates a hex argument.
func Hex(data []byte) *HexArg {
	if data == nil {
		data = []byte{}
	}
	return &HexArg{data: data}
}

// U16List creates a u16 list argument.
func U16List(values []uint16) *U16ListArg {
	return &U16ListArg{values: values}
}

// HexList creates a list-of-bytes argument.
func HexList(items [][]byte) *HexListArg {
	return &HexListArg{items: items}
}

// AddressValue creates an address argument.
func AddressValue(addr Address) *AddressArg {
	return &AddressArg{addr: addr}
}

// argJSON is the entry function JSON form of an argument.
type argJSON struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func marshalArg(a Arg) ([]byte, error) {
	return json.Marshal(argJSON{Type: a.TypeTag(), Value: a.Value()})
}
