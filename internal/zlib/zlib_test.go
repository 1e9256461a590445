package zlib

import (
	"testing"

	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/stretchr/testify/require"
)

func TestDeflateInflateRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")

	compressed, err := Deflate(data)
	require.NoError(t, err)

	plain, err := Inflate(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, plain)
}

func TestCompressDecompressPlainDeflate(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	compressed, err := Compress(format.ZipTypeDeflate, 0, data)
	require.NoError(t, err)

	out, err := Decompress(format.ZipTypeDeflate, 0, compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestCompressDecompressTransposeDeflate(t *testing.T) {
	// 3 rows of 4 bytes each.
	data := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}

	compressed, err := Compress(format.ZipTypeTransposeDeflate, 4, data)
	require.NoError(t, err)

	out, err := Decompress(format.ZipTypeTransposeDeflate, 4, compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestInflateBadStreamErrors(t *testing.T) {
	_, err := Inflate([]byte{0x00, 0x01, 0x02}, 10)
	require.Error(t, err)
}
