package record

import (
	"testing"

	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/stretchr/testify/require"
)

func TestDecodeValueNumeric(t *testing.T) {
	t.Run("unsigned little endian 16 bit", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeUintLE, ByteOffset: 2, BitCount: 16}
		record := []byte{0, 0, 0x34, 0x12}
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.UintValue(0x1234), v)
	})

	t.Run("unsigned big endian 16 bit", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeUintBE, ByteOffset: 0, BitCount: 16}
		record := []byte{0x12, 0x34}
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.UintValue(0x1234), v)
	})

	t.Run("signed 8 bit negative", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeIntLE, ByteOffset: 0, BitCount: 8}
		record := []byte{0xFF}
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.IntValue(-1), v)
	})

	t.Run("sub byte bit packed field", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeUintLE, ByteOffset: 0, BitOffset: 3, BitCount: 4}
		record := []byte{0b01111000}
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.UintValue(0xF), v)
	})

	t.Run("float32", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeFloatLE, ByteOffset: 0, BitCount: 32}
		record := []byte{0x00, 0x00, 0xC0, 0x3F} // 1.5
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.FloatValue(1.5), v)
	})

	t.Run("float64", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeFloatLE, ByteOffset: 0, BitCount: 64}
		record := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x40} // 2.5
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.FloatValue(2.5), v)
	})

	t.Run("record id offset shifts base", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeUintLE, ByteOffset: 0, BitCount: 8}
		record := []byte{0xAA, 0x07}
		v, err := DecodeValue(d, record, 1, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.UintValue(7), v)
	})
}

func TestDecodeValueStringsAndBytes(t *testing.T) {
	t.Run("latin1 trims trailing nulls", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeStringLatin1, ByteOffset: 0, BitCount: 40}
		record := []byte{0x41, 0x42, 0x00, 0x00, 0x00}
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.StringValue("AB"), v)
	})

	t.Run("utf8", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeStringUTF8, ByteOffset: 0, BitCount: 24}
		record := []byte("Hi\x00")
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.StringValue("Hi"), v)
	})

	t.Run("utf8 malformed byte sequence is lossily replaced", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeStringUTF8, ByteOffset: 0, BitCount: 40}
		record := []byte{0x41, 0xFF, 0xFE, 0x42, 0x00} // "A", two invalid bytes, "B"
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.StringValue("A�B"), v)
	})

	t.Run("utf16le", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeStringUTF16LE, ByteOffset: 0, BitCount: 32}
		record := []byte{0x48, 0x00, 0x69, 0x00}
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.StringValue("Hi"), v)
	})

	t.Run("byte array", func(t *testing.T) {
		d := Descriptor{DataType: format.DataTypeByteArray, ByteOffset: 0, BitCount: 24}
		record := []byte{1, 2, 3}
		v, err := DecodeValue(d, record, 0, nil)
		require.NoError(t, err)
		require.Equal(t, conversion.BytesValue([]byte{1, 2, 3}), v)
	})
}

func TestDecodeValueVLSDPayloadBypassesRecordBytes(t *testing.T) {
	d := Descriptor{ChannelType: format.ChannelTypeVLSD, DataType: format.DataTypeStringUTF8}
	v, err := DecodeValue(d, nil, 0, []byte("hello\x00"))
	require.NoError(t, err)
	require.Equal(t, conversion.StringValue("hello"), v)
}

func TestIsValid(t *testing.T) {
	t.Run("all invalid flag short circuits", func(t *testing.T) {
		d := Descriptor{Flags: format.ChannelFlagAllInvalid | format.ChannelFlagInvalidBitValid}
		valid, err := IsValid(d, make([]byte, 16), 1, 4)
		require.NoError(t, err)
		require.False(t, valid)
	})

	t.Run("no invalidation bit always valid", func(t *testing.T) {
		d := Descriptor{Flags: 0}
		valid, err := IsValid(d, make([]byte, 1), 1, 4)
		require.NoError(t, err)
		require.True(t, valid)
	})

	t.Run("bit set means invalid", func(t *testing.T) {
		d := Descriptor{Flags: format.ChannelFlagInvalidBitValid, PosInvalidationBit: 3}
		record := make([]byte, 6)
		record[5] = 0b00001000 // recordIDSize(1) + cgRecordSize(4) -> byte 5, bit 3
		valid, err := IsValid(d, record, 1, 4)
		require.NoError(t, err)
		require.False(t, valid)
	})

	t.Run("bit clear means valid", func(t *testing.T) {
		d := Descriptor{Flags: format.ChannelFlagInvalidBitValid, PosInvalidationBit: 3}
		record := make([]byte, 6)
		valid, err := IsValid(d, record, 1, 4)
		require.NoError(t, err)
		require.True(t, valid)
	})
}

func TestDecodeCombinesValueAndValidity(t *testing.T) {
	d := Descriptor{
		DataType:           format.DataTypeUintLE,
		ByteOffset:         0,
		BitCount:           8,
		Flags:              format.ChannelFlagInvalidBitValid,
		PosInvalidationBit: 0,
	}
	record := []byte{42, 0b00000001}
	got, err := Decode(d, record, 0, 1, nil)
	require.NoError(t, err)
	require.Equal(t, conversion.UintValue(42), got.Value)
	require.False(t, got.IsValid)
}
