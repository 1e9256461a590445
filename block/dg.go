package block

import "github.com/reneherrero/mdf4-rs-sub000/endian"

// DataGroupFixedLinks is the number of fixed links in a DG block.
const DataGroupFixedLinks = 4

// DataGroupSize is the total size of a DG block.
const DataGroupSize = 64

// DataGroup is the MDF DG block.
type DataGroup struct {
	Header Header

	NextDataGroup    uint64
	FirstChannelGrp  uint64
	DataBlock        uint64
	Comment          uint64
	RecordIDSize     uint8 // 0, 1, 2, 4, or 8
}

// FromBytesDG parses a DG block from buf.
func FromBytesDG(buf []byte) (DataGroup, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return DataGroup{}, err
	}
	if err := ExpectID(h, IDDataGroup); err != nil {
		return DataGroup{}, err
	}
	if err := endian.ValidateBufferSize(buf, DataGroupSize, "block.FromBytesDG"); err != nil {
		return DataGroup{}, err
	}

	links, err := LinksAt(buf, DataGroupFixedLinks)
	if err != nil {
		return DataGroup{}, err
	}

	recordIDSize, err := endian.ReadU8(buf, 56)
	if err != nil {
		return DataGroup{}, err
	}

	return DataGroup{
		Header:          h,
		NextDataGroup:   links[0],
		FirstChannelGrp: links[1],
		DataBlock:       links[2],
		Comment:         links[3],
		RecordIDSize:    recordIDSize,
	}, nil
}

// Bytes serializes the DG block.
func (d DataGroup) Bytes() []byte {
	buf := make([]byte, DataGroupSize)

	d.Header.ID = IDDataGroup
	d.Header.Length = DataGroupSize
	d.Header.LinkCount = DataGroupFixedLinks
	copy(buf[0:HeaderSize], d.Header.Bytes())

	buf = PutLinks(buf, []uint64{d.NextDataGroup, d.FirstChannelGrp, d.DataBlock, d.Comment})
	buf = endian.WriteU8(buf, 56, d.RecordIDSize)

	return buf
}
