// Package zlib implements the DZ-block codec:
// zlib inflate/deflate plus the transpose permutation some DZ blocks apply
// before compressing (zipType = transpose+deflate). It uses
// github.com/klauspost/compress/zlib, the faster drop-in the pack's own
// compress.Codec abstraction (github.com/arloliu/mebo/compress) is modeled on,
// rather than hand-rolling an inflate implementation.
package zlib

import (
	"bytes"
	"io"

	kzlib "github.com/klauspost/compress/zlib"

	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// Inflate zlib-decompresses compressed into a buffer of exactly originalSize
// bytes.
func Inflate(compressed []byte, originalSize int) ([]byte, error) {
	r, err := kzlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errs.NewBlockSerialization("dz: zlib reader: " + err.Error())
	}
	defer r.Close()

	out := make([]byte, originalSize)
	n, err := io.ReadFull(r, out)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errs.NewBlockSerialization("dz: zlib inflate: " + err.Error())
	}

	return out[:n], nil
}

// Deflate zlib-compresses data at default compression level.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := kzlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errs.NewBlockSerialization("dz: zlib deflate: " + err.Error())
	}
	if err := w.Close(); err != nil {
		return nil, errs.NewBlockSerialization("dz: zlib deflate close: " + err.Error())
	}

	return buf.Bytes(), nil
}

// Decompress applies the DZ block's zipType to compressed data, returning the
// original row-major record stream.
func Decompress(zipType format.ZipType, columns uint32, compressed []byte, originalSize int) ([]byte, error) {
	plain, err := Inflate(compressed, originalSize)
	if err != nil {
		return nil, err
	}

	if zipType == format.ZipTypeTransposeDeflate {
		return untranspose(plain, int(columns)), nil
	}

	return plain, nil
}

// Compress applies the DZ block's zipType on the way out, mirroring Decompress.
func Compress(zipType format.ZipType, columns uint32, data []byte) ([]byte, error) {
	payload := data
	if zipType == format.ZipTypeTransposeDeflate {
		payload = transpose(data, int(columns))
	}

	return Deflate(payload)
}

// transpose rearranges a row-major byte matrix (rows of `columns` bytes each)
// into column-major order: all byte-0-of-every-row, then all byte-1, etc.
// This is the inverse of untranspose.
func transpose(data []byte, columns int) []byte {
	if columns <= 0 || len(data)%columns != 0 {
		return append([]byte(nil), data...)
	}

	rows := len(data) / columns
	out := make([]byte, len(data))
	for c := 0; c < columns; c++ {
		for r := 0; r < rows; r++ {
			out[c*rows+r] = data[r*columns+c]
		}
	}

	return out
}

// untranspose inverts transpose: column-major -> row-major.
func untranspose(data []byte, columns int) []byte {
	if columns <= 0 || len(data)%columns != 0 {
		return append([]byte(nil), data...)
	}

	rows := len(data) / columns
	out := make([]byte, len(data))
	for c := 0; c < columns; c++ {
		for r := 0; r < rows; r++ {
			out[r*columns+c] = data[c*rows+r]
		}
	}

	return out
}
