package endian

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateBufferSize(t *testing.T) {
	t.Run("long enough", func(t *testing.T) {
		require.NoError(t, ValidateBufferSize(make([]byte, 8), 4, "test"))
	})

	t.Run("too short", func(t *testing.T) {
		err := ValidateBufferSize(make([]byte, 2), 4, "test")
		require.Error(t, err)
	})
}

func TestAlignedLenAndPadTo8(t *testing.T) {
	cases := []struct {
		n        int
		aligned  bool
		padBytes int
	}{
		{0, true, 0},
		{8, true, 0},
		{16, true, 0},
		{1, false, 7},
		{9, false, 7},
		{15, false, 1},
	}

	for _, c := range cases {
		require.Equal(t, c.aligned, AlignedLen(c.n))
		require.Equal(t, c.padBytes, PadTo8(c.n))
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	var buf []byte
	buf = WriteU8(buf, 0, 0xAB)
	buf = WriteU16(buf, 1, 0x1234)
	buf = WriteU32(buf, 3, 0xDEADBEEF)
	buf = WriteU64(buf, 7, 0x0102030405060708)
	buf = WriteF64(buf, 15, 3.5)

	u8, err := ReadU8(buf, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	u16, err := ReadU16(buf, 1)
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := ReadU32(buf, 3)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := ReadU64(buf, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)

	f64, err := ReadF64(buf, 15)
	require.NoError(t, err)
	require.InDelta(t, 3.5, f64, 0)
}

func TestReadPastEndReturnsError(t *testing.T) {
	buf := make([]byte, 4)

	_, err := ReadU64(buf, 0)
	require.Error(t, err)
}

func TestWriteGrowsBuffer(t *testing.T) {
	buf := make([]byte, 0)
	buf = WriteU32(buf, 10, 7)
	require.Len(t, buf, 14)

	v, err := ReadU32(buf, 10)
	require.NoError(t, err)
	require.Equal(t, uint32(7), v)
}
