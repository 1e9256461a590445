package block

import (
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// SourceFixedLinks is the number of fixed links in an SI block (name, path, comment).
const SourceFixedLinks = 3

// SourceSize is the total size of an SI block.
const SourceSize = 56

// Source is the MDF SI block.
type Source struct {
	Header Header

	Name    uint64
	Path    uint64
	Comment uint64

	SourceType format.SourceType
	BusType    format.BusType
	Flags      uint8
}

// FromBytesSI parses an SI block from buf.
func FromBytesSI(buf []byte) (Source, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Source{}, err
	}
	if err := ExpectID(h, IDSource); err != nil {
		return Source{}, err
	}
	if err := endian.ValidateBufferSize(buf, SourceSize, "block.FromBytesSI"); err != nil {
		return Source{}, err
	}

	links, err := LinksAt(buf, SourceFixedLinks)
	if err != nil {
		return Source{}, err
	}

	sourceType, err := endian.ReadU8(buf, 48)
	if err != nil {
		return Source{}, err
	}
	busType, err := endian.ReadU8(buf, 49)
	if err != nil {
		return Source{}, err
	}
	flags, err := endian.ReadU8(buf, 50)
	if err != nil {
		return Source{}, err
	}

	return Source{
		Header:     h,
		Name:       links[0],
		Path:       links[1],
		Comment:    links[2],
		SourceType: format.SourceType(sourceType),
		BusType:    format.BusType(busType),
		Flags:      flags,
	}, nil
}

// Bytes serializes the SI block.
func (s Source) Bytes() []byte {
	buf := make([]byte, SourceSize)

	s.Header.ID = IDSource
	s.Header.Length = SourceSize
	s.Header.LinkCount = SourceFixedLinks
	copy(buf[0:HeaderSize], s.Header.Bytes())

	buf = PutLinks(buf, []uint64{s.Name, s.Path, s.Comment})
	buf = endian.WriteU8(buf, 48, uint8(s.SourceType))
	buf = endian.WriteU8(buf, 49, uint8(s.BusType))
	buf = endian.WriteU8(buf, 50, s.Flags)

	return buf
}
