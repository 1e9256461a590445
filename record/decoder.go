// Package record implements the record decoder: extracting a
// channel's raw value from a record buffer, honoring byte/bit offset,
// bit-count, endianness, signedness, string/byte-array layouts, and the
// per-record invalidation bit.
package record

import (
	"math"
	"strings"
	"unicode/utf16"

	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// Decoded is the result of decoding one channel's value out of one record:
// the raw value plus its validity.
type Decoded struct {
	Value   conversion.Value
	IsValid bool
}

// Descriptor is the minimal shape of a channel the decoder needs, built from
// a parsed block.Channel by FromChannel and from the index's own copied
// channel descriptor so both the parser and the index share one decoder.
type Descriptor struct {
	ChannelType        format.ChannelType
	DataType           format.DataType
	ByteOffset         uint32
	BitOffset          uint8
	BitCount           uint32
	Flags              uint32
	PosInvalidationBit uint32
}

// FromChannel adapts a parsed block.Channel to a Descriptor.
func FromChannel(c block.Channel) Descriptor {
	return Descriptor{
		ChannelType:        c.ChannelType,
		DataType:           c.DataType,
		ByteOffset:         c.ByteOffset,
		BitOffset:          c.BitOffset,
		BitCount:           c.BitCount,
		Flags:              c.Flags,
		PosInvalidationBit: c.PosInvalidationBit,
	}
}

// DecodeValue extracts a channel's raw value from record, a byte slice holding
// exactly one record ([record_id][data_bytes][invalidation_bytes]).
// recordIDSize positions the value; the invalidation-bit region is read by
// IsValid, not here.
//
// vlsdPayload, when non-nil, is the already-substituted variable-length slice
// for a VLSD channel;
// when set, bit extraction is skipped entirely.
func DecodeValue(d Descriptor, record []byte, recordIDSize uint8, vlsdPayload []byte) (conversion.Value, error) {
	if d.ChannelType == format.ChannelTypeVLSD && vlsdPayload != nil {
		return decodeVLSDPayload(d.DataType, vlsdPayload), nil
	}

	base := int(recordIDSize) + fieldByteOffset(d)

	if d.DataType.IsString() || d.DataType.IsByteArray() {
		n := int(d.BitCount) / 8
		if err := endian.ValidateBufferSize(record, base+n, "record.DecodeValue string/bytes"); err != nil {
			return conversion.Value{}, err
		}

		return decodeStringOrBytes(d.DataType, record[base:base+n]), nil
	}

	nbytes := (int(d.BitOffset) + int(d.BitCount) + 7) / 8
	if nbytes < 1 {
		nbytes = 1
	}
	if err := endian.ValidateBufferSize(record, base+nbytes, "record.DecodeValue numeric"); err != nil {
		return conversion.Value{}, err
	}

	word := assembleWord(record[base:base+nbytes], d.DataType.IsBigEndian())
	word = (word >> d.BitOffset) & bitMask(d.BitCount)

	return numericValue(d.DataType, word, d.BitCount), nil
}

func fieldByteOffset(d Descriptor) int { return int(d.ByteOffset) }

// assembleWord folds bytes into a little-endian-ordered uint64 accumulator
// regardless of the field's own byte order: little-endian folds from the
// high-index byte down, big-endian folds from the low-index byte up, so the
// subsequent shift-and-mask is byte-order agnostic.
func assembleWord(b []byte, bigEndian bool) uint64 {
	var acc uint64
	if bigEndian {
		for i := 0; i < len(b); i++ {
			acc = (acc << 8) | uint64(b[i])
		}
	} else {
		for i := len(b) - 1; i >= 0; i-- {
			acc = (acc << 8) | uint64(b[i])
		}
	}

	return acc
}

func bitMask(bitCount uint32) uint64 {
	if bitCount >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << bitCount) - 1
}

// numericValue interprets the assembled, shifted, masked word per data type:
// unsigned as-is, signed sign-extended from bit (bitCount-1), float
// bit-reinterpreted (bitCount must be 32 or 64).
func numericValue(dt format.DataType, word uint64, bitCount uint32) conversion.Value {
	switch {
	case dt.IsFloat():
		if bitCount == 32 {
			return conversion.FloatValue(float64(math.Float32frombits(uint32(word))))
		}

		return conversion.FloatValue(math.Float64frombits(word))
	case dt.IsSigned():
		return conversion.IntValue(signExtend(word, bitCount))
	default:
		return conversion.UintValue(word)
	}
}

func signExtend(word uint64, bitCount uint32) int64 {
	if bitCount == 0 || bitCount >= 64 {
		return int64(word)
	}

	signBit := uint64(1) << (bitCount - 1)
	if word&signBit != 0 {
		word |= ^uint64(0) << bitCount
	}

	return int64(word)
}

func decodeStringOrBytes(dt format.DataType, b []byte) conversion.Value {
	switch dt {
	case format.DataTypeStringLatin1:
		return conversion.StringValue(trimNulls(latin1ToUTF8(b)))
	case format.DataTypeStringUTF8:
		return conversion.StringValue(trimNulls(strings.ToValidUTF8(string(b), "�")))
	case format.DataTypeStringUTF16LE:
		return conversion.StringValue(trimNulls(utf16ToString(b, false)))
	case format.DataTypeStringUTF16BE:
		return conversion.StringValue(trimNulls(utf16ToString(b, true)))
	case format.DataTypeMimeSample:
		return conversion.Value{Kind: conversion.KindMimeSample, Bytes: append([]byte(nil), b...)}
	case format.DataTypeMimeStream:
		return conversion.Value{Kind: conversion.KindMimeStream, Bytes: append([]byte(nil), b...)}
	default:
		return conversion.BytesValue(append([]byte(nil), b...))
	}
}

func decodeVLSDPayload(dt format.DataType, b []byte) conversion.Value {
	if dt.IsString() {
		return decodeStringOrBytes(dt, b)
	}

	return conversion.BytesValue(append([]byte(nil), b...))
}

func trimNulls(s string) string {
	return strings.TrimRight(s, "\x00")
}

func latin1ToUTF8(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}

	return string(runes)
}

func utf16ToString(b []byte, bigEndian bool) string {
	n := len(b) / 2
	units := make([]uint16, n)
	for i := 0; i < n; i++ {
		if bigEndian {
			units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
		} else {
			units[i] = uint16(b[2*i+1])<<8 | uint16(b[2*i])
		}
	}

	return string(utf16.Decode(units))
}

// IsValid computes a channel's validity for one record: the all-invalid flag
// short-circuits to invalid, otherwise a channel with no invalidation bit is
// always valid, and one with a bit tests it at PosInvalidationBit within the
// record's trailing invalidation-bytes region.
func IsValid(d Descriptor, record []byte, recordIDSize uint8, cgRecordSize uint32) (bool, error) {
	if d.Flags&format.ChannelFlagAllInvalid != 0 {
		return false, nil
	}
	if d.Flags&format.ChannelFlagInvalidBitValid == 0 {
		return true, nil
	}

	byteOff := int(recordIDSize) + int(cgRecordSize) + int(d.PosInvalidationBit>>3)
	bitIdx := d.PosInvalidationBit & 7

	if err := endian.ValidateBufferSize(record, byteOff+1, "record.IsValid"); err != nil {
		return false, err
	}

	set := record[byteOff]&(1<<bitIdx) != 0

	return !set, nil
}

// Decode extracts both the value and validity for a channel in one record.
func Decode(d Descriptor, record []byte, recordIDSize uint8, cgRecordSize uint32, vlsdPayload []byte) (Decoded, error) {
	valid, err := IsValid(d, record, recordIDSize, cgRecordSize)
	if err != nil {
		return Decoded{}, err
	}

	v, err := DecodeValue(d, record, recordIDSize, vlsdPayload)
	if err != nil {
		return Decoded{}, err
	}

	return Decoded{Value: v, IsValid: valid}, nil
}
