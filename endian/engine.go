// Package endian provides the primitive codec operations for reading and
// writing little-endian (and, for completeness, big-endian) integers and
// floats at byte offsets, plus the buffer-size and alignment guards the rest
// of the codec relies on.
//
// It mirrors github.com/arloliu/mebo's endian.EndianEngine: a single interface
// combining encoding/binary's ByteOrder and AppendByteOrder so callers get both
// random-access Put/Uint accessors and allocation-free Append operations.
package endian

import (
	"encoding/binary"
	"math"

	"github.com/reneherrero/mdf4-rs-sub000/errs"
)

// Engine combines ByteOrder and AppendByteOrder from the standard library into
// one interface. binary.LittleEndian and binary.BigEndian both satisfy it.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LittleEndian is the engine used for every on-disk MDF field; the format is
// little-endian only, but the type stays generic for symmetry with
// mebo's engine abstraction and for any future big-endian test fixture.
var LittleEndian Engine = binary.LittleEndian

// ValidateBufferSize fails with errs.TooShortBuffer when buf is smaller than min.
// source should be the call site, e.g. via errs.CallSite().
func ValidateBufferSize(buf []byte, min int, source string) error {
	if len(buf) < min {
		return errs.NewTooShortBuffer(len(buf), min, source)
	}

	return nil
}

// AlignedLen reports whether n is a multiple of 8, the block-alignment unit
// every MDF block must satisfy.
func AlignedLen(n int) bool {
	return n%8 == 0
}

// PadTo8 returns the number of zero padding bytes needed to round n up to the
// next multiple of 8.
func PadTo8(n int) int {
	rem := n % 8
	if rem == 0 {
		return 0
	}

	return 8 - rem
}

// ReadU8 reads a single byte at off.
func ReadU8(buf []byte, off int) (uint8, error) {
	if err := ValidateBufferSize(buf, off+1, "endian.ReadU8"); err != nil {
		return 0, err
	}

	return buf[off], nil
}

// ReadU16 reads a little-endian uint16 at off.
func ReadU16(buf []byte, off int) (uint16, error) {
	if err := ValidateBufferSize(buf, off+2, "endian.ReadU16"); err != nil {
		return 0, err
	}

	return LittleEndian.Uint16(buf[off : off+2]), nil
}

// ReadU32 reads a little-endian uint32 at off.
func ReadU32(buf []byte, off int) (uint32, error) {
	if err := ValidateBufferSize(buf, off+4, "endian.ReadU32"); err != nil {
		return 0, err
	}

	return LittleEndian.Uint32(buf[off : off+4]), nil
}

// ReadU64 reads a little-endian uint64 at off.
func ReadU64(buf []byte, off int) (uint64, error) {
	if err := ValidateBufferSize(buf, off+8, "endian.ReadU64"); err != nil {
		return 0, err
	}

	return LittleEndian.Uint64(buf[off : off+8]), nil
}

// ReadI16 reads a little-endian int16 at off.
func ReadI16(buf []byte, off int) (int16, error) {
	v, err := ReadU16(buf, off)
	return int16(v), err
}

// ReadI64 reads a little-endian int64 at off.
func ReadI64(buf []byte, off int) (int64, error) {
	v, err := ReadU64(buf, off)
	return int64(v), err
}

// ReadF64 reads a little-endian IEEE-754 double at off.
func ReadF64(buf []byte, off int) (float64, error) {
	v, err := ReadU64(buf, off)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// WriteU8 writes a single byte at off, growing buf if necessary, returning the
// (possibly reallocated) slice.
func WriteU8(buf []byte, off int, v uint8) []byte {
	buf = ensureLen(buf, off+1)
	buf[off] = v
	return buf
}

// WriteU16 writes a little-endian uint16 at off.
func WriteU16(buf []byte, off int, v uint16) []byte {
	buf = ensureLen(buf, off+2)
	LittleEndian.PutUint16(buf[off:off+2], v)
	return buf
}

// WriteU32 writes a little-endian uint32 at off.
func WriteU32(buf []byte, off int, v uint32) []byte {
	buf = ensureLen(buf, off+4)
	LittleEndian.PutUint32(buf[off:off+4], v)
	return buf
}

// WriteU64 writes a little-endian uint64 at off.
func WriteU64(buf []byte, off int, v uint64) []byte {
	buf = ensureLen(buf, off+8)
	LittleEndian.PutUint64(buf[off:off+8], v)
	return buf
}

// WriteI64 writes a little-endian int64 at off.
func WriteI64(buf []byte, off int, v int64) []byte {
	return WriteU64(buf, off, uint64(v))
}

// WriteF64 writes a little-endian IEEE-754 double at off.
func WriteF64(buf []byte, off int, v float64) []byte {
	return WriteU64(buf, off, math.Float64bits(v))
}

func ensureLen(buf []byte, n int) []byte {
	if len(buf) >= n {
		return buf
	}

	grown := make([]byte, n)
	copy(grown, buf)

	return grown
}
