// Package block implements the MDF 4.1 block header and registry
// together with one codec per typed block. Each typed block exposes a
// FromBytes/Bytes pair, following mebo's convention of a Parse/Bytes pair per
// typed header (e.g. NumericHeader).
package block

import (
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
)

// HeaderSize is the fixed on-disk size of every block header.
const HeaderSize = 24

// Known four-character block id tags.
const (
	IDIdentification = "ID  " // pseudo-tag: the ID block has no 24-byte header of its own.
	IDHeader         = "HD  "
	IDDataGroup      = "DG  "
	IDChannelGroup   = "CG  "
	IDChannel        = "CN  "
	IDConversion     = "CC  "
	IDTextBlock      = "TX  "
	IDMetadataBlock  = "MD  "
	IDSource         = "SI  "
	IDDataBlock      = "DT  "
	IDDataValues     = "DV  "
	IDDataList       = "DL  "
	IDSignalData     = "SD  "
	IDDataZip        = "DZ  "
	IDAttachment     = "AT  "
	IDEvent          = "EV  "
)

// Header is the 24-byte block header shared by every typed block except ID.
type Header struct {
	ID        string // 4 ASCII bytes, space-padded
	Length    uint64 // total block size including this header
	LinkCount uint64
}

// ParseHeader parses the 24-byte header at the start of buf.
func ParseHeader(buf []byte) (Header, error) {
	if err := endian.ValidateBufferSize(buf, HeaderSize, "block.ParseHeader"); err != nil {
		return Header{}, err
	}

	id := string(buf[0:4])
	length, err := endian.ReadU64(buf, 8)
	if err != nil {
		return Header{}, err
	}

	linkCount, err := endian.ReadU64(buf, 16)
	if err != nil {
		return Header{}, err
	}

	return Header{ID: id, Length: length, LinkCount: linkCount}, nil
}

// ExpectID fails with errs.BlockIDError when h.ID does not match tag.
func ExpectID(h Header, tag string) error {
	if h.ID != tag {
		return errs.NewBlockID(h.ID, tag)
	}

	return nil
}

// Bytes serializes the header: id padded/truncated to 4 bytes, zero-reserved,
// explicit length and link count.
func (h Header) Bytes() []byte {
	buf := make([]byte, HeaderSize)

	for i := 0; i < 4; i++ {
		buf[i] = ' '
	}
	id := h.ID
	if len(id) > 4 {
		id = id[:4]
	}
	copy(buf[0:4], id)
	// bytes 4:8 are the reserved field, left zero
	buf = endian.WriteU64(buf, 8, h.Length)
	buf = endian.WriteU64(buf, 16, h.LinkCount)

	return buf
}

// LinksAt reads n little-endian u64 link addresses starting right after the
// 24-byte header (i.e. at byte offset 24 within the full block buffer).
func LinksAt(buf []byte, n int) ([]uint64, error) {
	need := HeaderSize + n*8
	if err := endian.ValidateBufferSize(buf, need, "block.LinksAt"); err != nil {
		return nil, err
	}

	links := make([]uint64, n)
	for i := 0; i < n; i++ {
		v, err := endian.ReadU64(buf, HeaderSize+i*8)
		if err != nil {
			return nil, err
		}
		links[i] = v
	}

	return links, nil
}

// PutLinks writes links starting right after the 24-byte header into buf.
func PutLinks(buf []byte, links []uint64) []byte {
	off := HeaderSize
	for _, l := range links {
		buf = endian.WriteU64(buf, off, l)
		off += 8
	}

	return buf
}
