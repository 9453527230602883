package chunkstage

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressLength is the size of a chain address in bytes.
const AddressLength = 32

// Address is a 32-byte on-chain account or object address.
type Address [AddressLength]byte

// ParseAddress parses a hex address with or without the 0x prefix.
// Short forms such as "0x1" are left-padded with zeros.
func ParseAddress(s string) (Address, error) {
	var addr Address

	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if raw == "" {
		return addr, &AddressError{Input: s, Err: errors.New("empty")}
	}
	if len(raw) > 2*AddressLength {
		return addr, &AddressError{Input: s, Err: ErrInvalidAddress}
	}
	if len(raw)%2 == 1 {
		raw = "0" + raw
	}

	b, err := hexutil.Decode("0x" + raw)
	if err != nil {
		return addr, &AddressError{Input: s, Err: errors.Join(ErrInvalidAddress, err)}
	}

	copy(addr[AddressLength-len(b):], b)
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// Hex returns the full-length 0x-prefixed lowercase hex form.
func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// IsZero reports whether the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
