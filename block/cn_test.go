package block

import (
	"testing"

	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/stretchr/testify/require"
)

func TestChannelRoundTrip(t *testing.T) {
	ch := Channel{
		NextChannel: 100, Component: 0, Name: 200, Source: 0, Conversion: 300,
		Data: 0, Unit: 400, Comment: 0,
		ChannelType: format.ChannelTypeMaster,
		SyncType:    format.SyncTypeTime,
		DataType:    format.DataTypeFloatLE,
		BitOffset:   0,
		ByteOffset:  8,
		BitCount:    64,
		Flags:       format.ChannelFlagInvalidBitValid,
		Precision:   2,
	}

	buf := ch.Bytes()
	require.Len(t, buf, ChannelSize)

	parsed, err := FromBytesCN(buf)
	require.NoError(t, err)
	require.Equal(t, ch.NextChannel, parsed.NextChannel)
	require.Equal(t, ch.Name, parsed.Name)
	require.Equal(t, ch.Conversion, parsed.Conversion)
	require.Equal(t, ch.ChannelType, parsed.ChannelType)
	require.Equal(t, ch.SyncType, parsed.SyncType)
	require.Equal(t, ch.DataType, parsed.DataType)
	require.Equal(t, ch.ByteOffset, parsed.ByteOffset)
	require.Equal(t, ch.BitCount, parsed.BitCount)
	require.True(t, parsed.HasInvalidationBit())
	require.False(t, parsed.IsAllInvalid())
	require.True(t, parsed.HasRange)
}

func TestChannelFromBytesWrongID(t *testing.T) {
	h := Header{ID: IDChannelGroup, Length: ChannelSize, LinkCount: ChannelFixedLinks}
	buf := make([]byte, ChannelSize)
	copy(buf, h.Bytes())

	_, err := FromBytesCN(buf)
	require.Error(t, err)
}

func TestChannelOmittedRangeFieldsLeftZero(t *testing.T) {
	ch := Channel{DataType: format.DataTypeUintLE, ByteOffset: 0, BitCount: 16}
	full := ch.Bytes()

	const minSize = HeaderSize + ChannelFixedLinks*8 + (110 - 88)
	truncated := full[:minSize+2] // through attachmentCount, no range fields

	parsed, err := FromBytesCN(truncated)
	require.NoError(t, err)
	require.False(t, parsed.HasRange)
	require.Equal(t, 0.0, parsed.RangeMin)
}

func TestValueByteSpan(t *testing.T) {
	t.Run("fixed-width numeric", func(t *testing.T) {
		ch := Channel{DataType: format.DataTypeFloatLE, ByteOffset: 8, BitOffset: 0, BitCount: 64}
		start, length := ch.ValueByteSpan(1)
		require.Equal(t, 9, start)
		require.Equal(t, 8, length)
	})

	t.Run("sub-byte packed", func(t *testing.T) {
		ch := Channel{DataType: format.DataTypeUintLE, ByteOffset: 0, BitOffset: 3, BitCount: 4}
		_, length := ch.ValueByteSpan(0)
		require.Equal(t, 1, length)
	})

	t.Run("string uses byte count directly", func(t *testing.T) {
		ch := Channel{DataType: format.DataTypeStringUTF8, ByteOffset: 4, BitCount: 80}
		start, length := ch.ValueByteSpan(0)
		require.Equal(t, 4, start)
		require.Equal(t, 10, length)
	})
}
