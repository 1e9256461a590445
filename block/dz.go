package block

import (
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// DzHeaderSize is the size of the DZ-specific header that follows the 24-byte
// block header.
const DzHeaderSize = 24

// DzPayloadOffset is the byte offset of the compressed payload within the
// full DZ block buffer.
const DzPayloadOffset = HeaderSize + DzHeaderSize

// DzBlock is the MDF DZ (compressed data) block.
type DzBlock struct {
	Header Header

	OriginalID     string // 2 ASCII bytes: the block id being compressed ("DT", "SD", "DL", ...)
	ZipType        format.ZipType
	ZipParameter   uint32 // column count, used for transpose+deflate
	OriginalSize   uint64
	CompressedSize uint64

	Compressed []byte
}

// FromBytesDZ parses a DZ block's header; Compressed is a slice into buf.
func FromBytesDZ(buf []byte) (DzBlock, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return DzBlock{}, err
	}
	if err := ExpectID(h, IDDataZip); err != nil {
		return DzBlock{}, err
	}
	if err := endian.ValidateBufferSize(buf, DzPayloadOffset, "block.FromBytesDZ header"); err != nil {
		return DzBlock{}, err
	}

	originalID := string(buf[HeaderSize : HeaderSize+2])
	zipType, err := endian.ReadU8(buf, HeaderSize+2)
	if err != nil {
		return DzBlock{}, err
	}
	zipParam, err := endian.ReadU32(buf, HeaderSize+4)
	if err != nil {
		return DzBlock{}, err
	}
	origSize, err := endian.ReadU64(buf, HeaderSize+8)
	if err != nil {
		return DzBlock{}, err
	}
	compSize, err := endian.ReadU64(buf, HeaderSize+16)
	if err != nil {
		return DzBlock{}, err
	}

	end := DzPayloadOffset + int(compSize)
	if err := endian.ValidateBufferSize(buf, end, "block.FromBytesDZ payload"); err != nil {
		return DzBlock{}, err
	}

	return DzBlock{
		Header:         h,
		OriginalID:     originalID,
		ZipType:        format.ZipType(zipType),
		ZipParameter:   zipParam,
		OriginalSize:   origSize,
		CompressedSize: compSize,
		Compressed:     buf[DzPayloadOffset:end],
	}, nil
}

// Bytes serializes the DZ block.
func (d DzBlock) Bytes() []byte {
	size := DzPayloadOffset + len(d.Compressed)
	buf := make([]byte, size)

	d.Header.ID = IDDataZip
	d.Header.Length = uint64(size)
	d.Header.LinkCount = 0
	copy(buf[0:HeaderSize], d.Header.Bytes())

	oid := d.OriginalID
	if len(oid) > 2 {
		oid = oid[:2]
	}
	copy(buf[HeaderSize:HeaderSize+2], oid)
	buf = endian.WriteU8(buf, HeaderSize+2, uint8(d.ZipType))
	buf = endian.WriteU32(buf, HeaderSize+4, d.ZipParameter)
	buf = endian.WriteU64(buf, HeaderSize+8, d.OriginalSize)
	buf = endian.WriteU64(buf, HeaderSize+16, uint64(len(d.Compressed)))
	copy(buf[DzPayloadOffset:], d.Compressed)

	return buf
}
