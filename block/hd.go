package block

import (
	"github.com/reneherrero/mdf4-rs-sub000/endian"
)

// HeaderBlockFixedLinks is the number of fixed link fields in an HD block.
const HeaderBlockFixedLinks = 6

// HeaderBlockSize is the total size of an HD block (24-byte header + 6 links + data).
const HeaderBlockSize = 104

// HeaderBlock is the MDF HD block.
type HeaderBlock struct {
	Header Header

	FirstDataGroup  uint64
	FileHistory     uint64
	ChannelTree     uint64
	FirstAttachment uint64
	FirstEvent      uint64
	Comment         uint64

	StartTimeNs    uint64
	TzMin          int16
	DstMin         int16
	TimeFlags      uint8
	TimeQuality    uint8
	Flags          uint8
	StartAngleRad  float64
	StartDistanceM float64
}

// FromBytesHD parses an HD block from buf (the full block starting at its header).
func FromBytesHD(buf []byte) (HeaderBlock, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return HeaderBlock{}, err
	}
	if err := ExpectID(h, IDHeader); err != nil {
		return HeaderBlock{}, err
	}

	if err := endian.ValidateBufferSize(buf, HeaderBlockSize, "block.FromBytesHD"); err != nil {
		return HeaderBlock{}, err
	}

	links, err := LinksAt(buf, HeaderBlockFixedLinks)
	if err != nil {
		return HeaderBlock{}, err
	}

	startTimeNs, err := endian.ReadU64(buf, 72)
	if err != nil {
		return HeaderBlock{}, err
	}
	tzMin, err := endian.ReadI16(buf, 80)
	if err != nil {
		return HeaderBlock{}, err
	}
	dstMin, err := endian.ReadI16(buf, 82)
	if err != nil {
		return HeaderBlock{}, err
	}
	timeFlags, err := endian.ReadU8(buf, 84)
	if err != nil {
		return HeaderBlock{}, err
	}
	timeQuality, err := endian.ReadU8(buf, 85)
	if err != nil {
		return HeaderBlock{}, err
	}
	flags, err := endian.ReadU8(buf, 86)
	if err != nil {
		return HeaderBlock{}, err
	}
	startAngle, err := endian.ReadF64(buf, 88)
	if err != nil {
		return HeaderBlock{}, err
	}
	startDistance, err := endian.ReadF64(buf, 96)
	if err != nil {
		return HeaderBlock{}, err
	}

	return HeaderBlock{
		Header:          h,
		FirstDataGroup:  links[0],
		FileHistory:     links[1],
		ChannelTree:     links[2],
		FirstAttachment: links[3],
		FirstEvent:      links[4],
		Comment:         links[5],
		StartTimeNs:     startTimeNs,
		TzMin:           tzMin,
		DstMin:          dstMin,
		TimeFlags:       timeFlags,
		TimeQuality:     timeQuality,
		Flags:           flags,
		StartAngleRad:   startAngle,
		StartDistanceM:  startDistance,
	}, nil
}

// Bytes serializes the HD block.
func (b HeaderBlock) Bytes() []byte {
	buf := make([]byte, HeaderBlockSize)

	b.Header.ID = IDHeader
	b.Header.Length = HeaderBlockSize
	b.Header.LinkCount = HeaderBlockFixedLinks
	copy(buf[0:HeaderSize], b.Header.Bytes())

	buf = PutLinks(buf, []uint64{
		b.FirstDataGroup, b.FileHistory, b.ChannelTree,
		b.FirstAttachment, b.FirstEvent, b.Comment,
	})

	buf = endian.WriteU64(buf, 72, b.StartTimeNs)
	buf = endian.WriteU16(buf, 80, uint16(b.TzMin))
	buf = endian.WriteU16(buf, 82, uint16(b.DstMin))
	buf = endian.WriteU8(buf, 84, b.TimeFlags)
	buf = endian.WriteU8(buf, 85, b.TimeQuality)
	buf = endian.WriteU8(buf, 86, b.Flags)
	buf = endian.WriteF64(buf, 88, b.StartAngleRad)
	buf = endian.WriteF64(buf, 96, b.StartDistanceM)

	return buf
}
