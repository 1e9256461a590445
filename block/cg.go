package block

import "github.com/reneherrero/mdf4-rs-sub000/endian"

// ChannelGroupFixedLinks is the number of fixed links in a CG block.
const ChannelGroupFixedLinks = 6

// ChannelGroupSize is the total size of a CG block.
const ChannelGroupSize = 104

// ChannelGroup is the MDF CG block.
type ChannelGroup struct {
	Header Header

	NextChannelGrp       uint64
	FirstChannel         uint64
	AcqName              uint64
	AcqSource            uint64
	FirstSampleReduction uint64
	Comment              uint64

	RecordID         uint64
	CycleCount       uint64
	Flags            uint16
	PathSep          uint16
	RecordSize       uint32 // cg_data_bytes, excludes record id and invalidation bytes
	InvalidationSize uint32
}

// RecordSizeInBytes is record_id_size + cg.RecordSize + cg.InvalidationSize.
func (c ChannelGroup) RecordSizeInBytes(recordIDSize uint8) int {
	return int(recordIDSize) + int(c.RecordSize) + int(c.InvalidationSize)
}

// FromBytesCG parses a CG block from buf.
func FromBytesCG(buf []byte) (ChannelGroup, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return ChannelGroup{}, err
	}
	if err := ExpectID(h, IDChannelGroup); err != nil {
		return ChannelGroup{}, err
	}
	if err := endian.ValidateBufferSize(buf, ChannelGroupSize, "block.FromBytesCG"); err != nil {
		return ChannelGroup{}, err
	}

	links, err := LinksAt(buf, ChannelGroupFixedLinks)
	if err != nil {
		return ChannelGroup{}, err
	}

	recordID, err := endian.ReadU64(buf, 72)
	if err != nil {
		return ChannelGroup{}, err
	}
	cycleCount, err := endian.ReadU64(buf, 80)
	if err != nil {
		return ChannelGroup{}, err
	}
	flags, err := endian.ReadU16(buf, 88)
	if err != nil {
		return ChannelGroup{}, err
	}
	pathSep, err := endian.ReadU16(buf, 90)
	if err != nil {
		return ChannelGroup{}, err
	}
	recordSize, err := endian.ReadU32(buf, 96)
	if err != nil {
		return ChannelGroup{}, err
	}
	invalidationSize, err := endian.ReadU32(buf, 100)
	if err != nil {
		return ChannelGroup{}, err
	}

	return ChannelGroup{
		Header:               h,
		NextChannelGrp:       links[0],
		FirstChannel:         links[1],
		AcqName:              links[2],
		AcqSource:            links[3],
		FirstSampleReduction: links[4],
		Comment:              links[5],
		RecordID:             recordID,
		CycleCount:           cycleCount,
		Flags:                flags,
		PathSep:              pathSep,
		RecordSize:           recordSize,
		InvalidationSize:     invalidationSize,
	}, nil
}

// Bytes serializes the CG block.
func (c ChannelGroup) Bytes() []byte {
	buf := make([]byte, ChannelGroupSize)

	c.Header.ID = IDChannelGroup
	c.Header.Length = ChannelGroupSize
	c.Header.LinkCount = ChannelGroupFixedLinks
	copy(buf[0:HeaderSize], c.Header.Bytes())

	buf = PutLinks(buf, []uint64{
		c.NextChannelGrp, c.FirstChannel, c.AcqName, c.AcqSource,
		c.FirstSampleReduction, c.Comment,
	})

	buf = endian.WriteU64(buf, 72, c.RecordID)
	buf = endian.WriteU64(buf, 80, c.CycleCount)
	buf = endian.WriteU16(buf, 88, c.Flags)
	buf = endian.WriteU16(buf, 90, c.PathSep)
	buf = endian.WriteU32(buf, 96, c.RecordSize)
	buf = endian.WriteU32(buf, 100, c.InvalidationSize)

	return buf
}
