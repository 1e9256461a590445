package block

import "github.com/reneherrero/mdf4-rs-sub000/endian"

// DataListFixedLinks is the number of fixed links in a DL block before the
// per-fragment link vector.
const DataListFixedLinks = 1

// DataListEqualLengthFlag marks that all fragments share one common length.
const DataListEqualLengthFlag uint8 = 0x01

// DataList is the MDF DL block.
type DataList struct {
	Header Header

	NextDataList uint64
	Fragments    []uint64 // per-fragment data block links

	EqualLength  bool
	CommonLength uint64   // valid when EqualLength
	Lengths      []uint64 // valid when !EqualLength, one per fragment
}

// FromBytesDL parses a DL block. The fragment count derives from
// header.LinkCount - 1.
func FromBytesDL(buf []byte) (DataList, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return DataList{}, err
	}
	if err := ExpectID(h, IDDataList); err != nil {
		return DataList{}, err
	}

	n := int(h.LinkCount) - DataListFixedLinks
	if n < 0 {
		n = 0
	}

	totalLinks := DataListFixedLinks + n
	if err := endian.ValidateBufferSize(buf, HeaderSize+totalLinks*8, "block.FromBytesDL links"); err != nil {
		return DataList{}, err
	}

	links, err := LinksAt(buf, totalLinks)
	if err != nil {
		return DataList{}, err
	}

	dataOff := HeaderSize + totalLinks*8
	if err := endian.ValidateBufferSize(buf, dataOff+8, "block.FromBytesDL data header"); err != nil {
		return DataList{}, err
	}

	flags, err := endian.ReadU8(buf, dataOff)
	if err != nil {
		return DataList{}, err
	}
	blockCount, err := endian.ReadU32(buf, dataOff+4)
	if err != nil {
		return DataList{}, err
	}

	equalLength := flags&DataListEqualLengthFlag != 0
	cur := dataOff + 8

	dl := DataList{
		Header:       h,
		NextDataList: links[0],
		Fragments:    links[DataListFixedLinks:],
		EqualLength:  equalLength,
	}
	_ = blockCount

	if equalLength {
		v, err := endian.ReadU64(buf, cur)
		if err != nil {
			return DataList{}, err
		}
		dl.CommonLength = v
	} else {
		lengths := make([]uint64, n)
		for i := 0; i < n; i++ {
			v, err := endian.ReadU64(buf, cur+i*8)
			if err != nil {
				return DataList{}, err
			}
			lengths[i] = v
		}
		dl.Lengths = lengths
	}

	return dl, nil
}

// Bytes serializes the DL block.
func (d DataList) Bytes() []byte {
	n := len(d.Fragments)
	totalLinks := DataListFixedLinks + n
	dataOff := HeaderSize + totalLinks*8

	lenBytes := 8
	if !d.EqualLength {
		lenBytes = 8 * n
	}
	size := dataOff + 8 + lenBytes

	buf := make([]byte, size)

	d.Header.ID = IDDataList
	d.Header.Length = uint64(size)
	d.Header.LinkCount = uint64(totalLinks)
	copy(buf[0:HeaderSize], d.Header.Bytes())

	links := append([]uint64{d.NextDataList}, d.Fragments...)
	buf = PutLinks(buf, links)

	var flags uint8
	if d.EqualLength {
		flags |= DataListEqualLengthFlag
	}
	buf = endian.WriteU8(buf, dataOff, flags)
	buf = endian.WriteU32(buf, dataOff+4, uint32(n))

	cur := dataOff + 8
	if d.EqualLength {
		buf = endian.WriteU64(buf, cur, d.CommonLength)
	} else {
		for i, l := range d.Lengths {
			buf = endian.WriteU64(buf, cur+i*8, l)
		}
	}

	return buf
}
