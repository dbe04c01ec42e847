// Package codec implements the single canonical binary encoding used for
// every wire type in gtos-lite: extrinsics, blocks, signed payloads, and
// values written to the KV store. It plays the role the teacher's
// hand-written `rlp` package plays in gtos — an in-house, bit-exact framing
// format rather than a general-purpose third-party serializer, because the
// spec requires byte-for-byte determinism and a self-describing leading
// discriminant on every sum type.
//
// Layout rules:
//   - fixed-size values (uint32, uint64, 32-byte arrays, 64-byte arrays) are
//     encoded as their raw big-endian (integers) or raw (byte arrays) bytes.
//   - variable-length byte slices and strings are length-prefixed with a
//     uvarint.
//   - sum types (Call, RuntimeCall) are prefixed with a single discriminant
//     byte identifying the active variant.
//   - sequences are length-prefixed with a uvarint count, followed by each
//     element in order.
package codec

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrTruncated is returned when a decode runs out of input bytes.
var ErrTruncated = errors.New("codec: truncated input")

// ErrBadDiscriminant is returned when a sum-type tag byte has no known variant.
var ErrBadDiscriminant = errors.New("codec: unknown discriminant")

// Encoder accumulates canonical bytes.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the accumulated canonical encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// PutByte appends a single raw byte (used for discriminants).
func (e *Encoder) PutByte(b byte) { e.buf = append(e.buf, b) }

// PutRaw appends raw bytes without a length prefix (used for fixed-size fields).
func (e *Encoder) PutRaw(b []byte) { e.buf = append(e.buf, b...) }

// PutUint32 appends a big-endian uint32.
func (e *Encoder) PutUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// PutUint64 appends a big-endian uint64.
func (e *Encoder) PutUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// PutUint128 appends a big-endian 128-bit unsigned integer from two uint64 halves.
func (e *Encoder) PutUint128(hi, lo uint64) {
	e.PutUint64(hi)
	e.PutUint64(lo)
}

// PutUvarint appends a length-prefix-style unsigned varint.
func (e *Encoder) PutUvarint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	e.buf = append(e.buf, tmp[:n]...)
}

// PutBytes appends a uvarint length prefix followed by the raw bytes.
func (e *Encoder) PutBytes(b []byte) {
	e.PutUvarint(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

// PutString appends a uvarint length prefix followed by the raw UTF-8 bytes.
func (e *Encoder) PutString(s string) { e.PutBytes([]byte(s)) }

// Decoder consumes canonical bytes in order.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps b for sequential decoding.
func NewDecoder(b []byte) *Decoder { return &Decoder{buf: b} }

// Remaining reports how many bytes are left.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// Done reports whether every byte has been consumed.
func (d *Decoder) Done() bool { return d.pos >= len(d.buf) }

// GetByte reads a single raw byte.
func (d *Decoder) GetByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrTruncated
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// GetRaw reads n raw bytes.
func (d *Decoder) GetRaw(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, ErrTruncated
	}
	out := d.buf[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

// GetUint32 reads a big-endian uint32.
func (d *Decoder) GetUint32() (uint32, error) {
	b, err := d.GetRaw(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// GetUint64 reads a big-endian uint64.
func (d *Decoder) GetUint64() (uint64, error) {
	b, err := d.GetRaw(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// GetUint128 reads a big-endian 128-bit unsigned integer as two uint64 halves.
func (d *Decoder) GetUint128() (hi, lo uint64, err error) {
	if hi, err = d.GetUint64(); err != nil {
		return 0, 0, err
	}
	if lo, err = d.GetUint64(); err != nil {
		return 0, 0, err
	}
	return hi, lo, nil
}

// GetUvarint reads an unsigned varint.
func (d *Decoder) GetUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.pos:])
	if n <= 0 {
		return 0, ErrTruncated
	}
	d.pos += n
	return v, nil
}

// GetBytes reads a uvarint-length-prefixed byte slice.
func (d *Decoder) GetBytes() ([]byte, error) {
	n, err := d.GetUvarint()
	if err != nil {
		return nil, err
	}
	return d.GetRaw(int(n))
}

// GetString reads a uvarint-length-prefixed UTF-8 string.
func (d *Decoder) GetString() (string, error) {
	b, err := d.GetBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Marshaler is implemented by every wire type in gtos-lite.
type Marshaler interface {
	EncodeCodec(e *Encoder)
}

// Unmarshaler is implemented by every wire type in gtos-lite.
type Unmarshaler interface {
	DecodeCodec(d *Decoder) error
}

// Encode returns the canonical encoding of v.
func Encode(v Marshaler) []byte {
	e := NewEncoder()
	v.EncodeCodec(e)
	return e.Bytes()
}

// Decode parses b into v, failing if trailing bytes remain.
func Decode(b []byte, v Unmarshaler) error {
	d := NewDecoder(b)
	if err := v.DecodeCodec(d); err != nil {
		return err
	}
	if !d.Done() {
		return io.ErrUnexpectedEOF
	}
	return nil
}
