package block

import (
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// ChannelFixedLinks is the number of fixed links in a CN block.
const ChannelFixedLinks = 8

// ChannelSize is the total size of a CN block, including the six trailing f64
// range fields some vendors omit (see FromBytesCN).
const ChannelSize = 160

// Channel is the MDF CN block.
type Channel struct {
	Header Header

	NextChannel uint64
	Component   uint64
	Name        uint64
	Source      uint64
	Conversion  uint64
	Data        uint64
	Unit        uint64
	Comment     uint64

	ChannelType        format.ChannelType
	SyncType           format.SyncType
	DataType           format.DataType
	BitOffset          uint8
	ByteOffset         uint32
	BitCount           uint32
	Flags              uint32
	PosInvalidationBit uint32
	Precision          uint8
	AttachmentCount    uint16

	HasRange   bool
	RangeMin   float64
	RangeMax   float64
	// the remaining 4 reserved f64 range slots some producers write
	// unconditionally are preserved
	// verbatim for round-trip fidelity.
	ExtraRange [4]float64
}

// IsAllInvalid reports whether every sample of this channel is invalid
// regardless of payload.
func (c Channel) IsAllInvalid() bool {
	return c.Flags&format.ChannelFlagAllInvalid != 0
}

// HasInvalidationBit reports whether this channel uses a per-record invalidation bit.
func (c Channel) HasInvalidationBit() bool {
	return c.Flags&format.ChannelFlagInvalidBitValid != 0
}

// FromBytesCN parses a CN block from buf. When buf is shorter than ChannelSize
// but at least long enough for the non-range fields (bytes 88..112, right after
// the fixed links), the range fields are left zero — some producers omit them.
func FromBytesCN(buf []byte) (Channel, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Channel{}, err
	}
	if err := ExpectID(h, IDChannel); err != nil {
		return Channel{}, err
	}

	const minSize = HeaderSize + ChannelFixedLinks*8 + (112 - 88) // through attachmentCount
	if err := endian.ValidateBufferSize(buf, minSize, "block.FromBytesCN"); err != nil {
		return Channel{}, err
	}

	links, err := LinksAt(buf, ChannelFixedLinks)
	if err != nil {
		return Channel{}, err
	}

	channelType, err := endian.ReadU8(buf, 88)
	if err != nil {
		return Channel{}, err
	}
	syncType, err := endian.ReadU8(buf, 89)
	if err != nil {
		return Channel{}, err
	}
	dataType, err := endian.ReadU8(buf, 90)
	if err != nil {
		return Channel{}, err
	}
	bitOffset, err := endian.ReadU8(buf, 91)
	if err != nil {
		return Channel{}, err
	}
	byteOffset, err := endian.ReadU32(buf, 92)
	if err != nil {
		return Channel{}, err
	}
	bitCount, err := endian.ReadU32(buf, 96)
	if err != nil {
		return Channel{}, err
	}
	flags, err := endian.ReadU32(buf, 100)
	if err != nil {
		return Channel{}, err
	}
	posInvalBit, err := endian.ReadU32(buf, 104)
	if err != nil {
		return Channel{}, err
	}
	precision, err := endian.ReadU8(buf, 108)
	if err != nil {
		return Channel{}, err
	}
	attachmentCount, err := endian.ReadU16(buf, 110)
	if err != nil {
		return Channel{}, err
	}

	ch := Channel{
		Header:             h,
		NextChannel:        links[0],
		Component:          links[1],
		Name:               links[2],
		Source:             links[3],
		Conversion:         links[4],
		Data:               links[5],
		Unit:               links[6],
		Comment:            links[7],
		ChannelType:        format.ChannelType(channelType),
		SyncType:           format.SyncType(syncType),
		DataType:           format.DataType(dataType),
		BitOffset:          bitOffset,
		ByteOffset:         byteOffset,
		BitCount:           bitCount,
		Flags:              flags,
		PosInvalidationBit: posInvalBit,
		Precision:          precision,
		AttachmentCount:    attachmentCount,
	}

	// Range fields occupy bytes 112..160 (6 f64s): min, max, then 4 reserved
	// slots some vendors use for limits/extended-limits. Read whenever buf
	// holds the full ChannelSize bytes, independent of any flag bit.
	if len(buf) >= ChannelSize {
		rangeMin, err := endian.ReadF64(buf, 112)
		if err != nil {
			return Channel{}, err
		}
		rangeMax, err := endian.ReadF64(buf, 120)
		if err != nil {
			return Channel{}, err
		}
		ch.HasRange = true
		ch.RangeMin = rangeMin
		ch.RangeMax = rangeMax
		for i := 0; i < 4; i++ {
			v, err := endian.ReadF64(buf, 128+i*8)
			if err != nil {
				return Channel{}, err
			}
			ch.ExtraRange[i] = v
		}
	}

	return ch, nil
}

// Bytes serializes the CN block, always emitting the range fields.
func (c Channel) Bytes() []byte {
	buf := make([]byte, ChannelSize)

	c.Header.ID = IDChannel
	c.Header.Length = ChannelSize
	c.Header.LinkCount = ChannelFixedLinks
	copy(buf[0:HeaderSize], c.Header.Bytes())

	buf = PutLinks(buf, []uint64{
		c.NextChannel, c.Component, c.Name, c.Source, c.Conversion, c.Data, c.Unit, c.Comment,
	})

	buf = endian.WriteU8(buf, 88, uint8(c.ChannelType))
	buf = endian.WriteU8(buf, 89, uint8(c.SyncType))
	buf = endian.WriteU8(buf, 90, uint8(c.DataType))
	buf = endian.WriteU8(buf, 91, c.BitOffset)
	buf = endian.WriteU32(buf, 92, c.ByteOffset)
	buf = endian.WriteU32(buf, 96, c.BitCount)
	buf = endian.WriteU32(buf, 100, c.Flags)
	buf = endian.WriteU32(buf, 104, c.PosInvalidationBit)
	buf = endian.WriteU8(buf, 108, c.Precision)
	buf = endian.WriteU16(buf, 110, c.AttachmentCount)
	buf = endian.WriteF64(buf, 112, c.RangeMin)
	buf = endian.WriteF64(buf, 120, c.RangeMax)
	for i := 0; i < 4; i++ {
		buf = endian.WriteF64(buf, 128+i*8, c.ExtraRange[i])
	}

	return buf
}

// ValueByteSpan returns the byte range within a record that this channel's
// value occupies.
func (c Channel) ValueByteSpan(recordIDSize uint8) (start, length int) {
	base := int(recordIDSize) + int(c.ByteOffset)
	if c.DataType.IsString() || c.DataType.IsByteArray() {
		return base, int(c.BitCount) / 8
	}

	nbytes := (int(c.BitOffset) + int(c.BitCount) + 7) / 8
	if nbytes < 1 {
		nbytes = 1
	}

	return base, nbytes
}
