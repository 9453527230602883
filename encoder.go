package chunkstage

import (
	"encoding/binary"
	"fmt"
)

// BCSEncoder appends values in Binary Canonical Serialization.
// Only the shapes needed for seeds and package metadata are supported.
type BCSEncoder struct {
	buf []byte
}

// NewBCSEncoder creates an empty encoder.
func NewBCSEncoder() *BCSEncoder {
	return &BCSEncoder{buf: make([]byte, 0, 64)}
}

// WriteULEB128 appends a ULEB128 integer, as used for sequence lengths.
func (e *BCSEncoder) WriteULEB128(v uint64) *BCSEncoder {
	e.buf = binary.AppendUvarint(e.buf, v)
	return e
}

// WriteBytes appends a vector<u8>: ULEB128 length followed by the bytes.
func (e *BCSEncoder) WriteBytes(b []byte) *BCSEncoder {
	e.WriteULEB128(uint64(len(b)))
	e.buf = append(e.buf, b...)
	return e
}

// WriteString appends a UTF-8 string, encoded like vector<u8>.
func (e *BCSEncoder) WriteString(s string) *BCSEncoder {
	return e.WriteBytes([]byte(s))
}

// WriteU8 appends a single byte.
func (e *BCSEncoder) WriteU8(v uint8) *BCSEncoder {
	e.buf = append(e.buf, v)
	return e
}

// WriteU64 appends a little-endian u64.
func (e *BCSEncoder) WriteU64(v uint64) *BCSEncoder {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
	return e
}

// Bytes returns the encoded bytes.
func (e *BCSEncoder) Bytes() []byte {
	return e.buf
}

// BCSDecoder reads values written by BCSEncoder.
type BCSDecoder struct {
	buf []byte
	off int
}

// NewBCSDecoder creates a decoder over data.
func NewBCSDecoder(data []byte) *BCSDecoder {
	return &BCSDecoder{buf: data}
}

// Remaining returns the number of unread bytes.
func (d *BCSDecoder) Remaining() int {
	return len(d.buf) - d.off
}

// ReadULEB128 reads a ULEB128 integer.
func (d *BCSDecoder) ReadULEB128() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: bad ULEB128 at offset %d", ErrMalformedBCS, d.off)
	}
	d.off += n
	return v, nil
}

// ReadU8 reads a single byte.
func (d *BCSDecoder) ReadU8() (uint8, error) {
	if d.Remaining() < 1 {
		return 0, fmt.Errorf("%w: u8 at offset %d", ErrMalformedBCS, d.off)
	}
	v := d.buf[d.off]
	d.off++
	return v, nil
}

// ReadU64 reads a little-endian u64.
func (d *BCSDecoder) ReadU64() (uint64, error) {
	if d.Remaining() < 8 {
		return 0, fmt.Errorf("%w: u64 at offset %d", ErrMalformedBCS, d.off)
	}
	v := binary.LittleEndian.Uint64(d.buf[d.off:])
	d.off += 8
	return v, nil
}

// ReadBytes reads a vector<u8>. The result aliases the decoder input.
func (d *BCSDecoder) ReadBytes() ([]byte, error) {
	start := d.off
	n, err := d.ReadULEB128()
	if err != nil {
		return nil, err
	}
	if n > uint64(d.Remaining()) {
		return nil, fmt.Errorf("%w: length %d at offset %d exceeds input", ErrMalformedBCS, n, start)
	}
	b := d.buf[d.off : d.off+int(n)]
	d.off += int(n)
	return b, nil
}

// ReadString reads a UTF-8 string.
func (d *BCSDecoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
