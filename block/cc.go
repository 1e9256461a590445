package block

import (
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// ConversionBaseFixedLinks is the number of fixed links common to every CC
// block; ref[] follows, sized by
// RefCount.
const ConversionBaseFixedLinks = 4

// Conversion is the MDF CC block.
type Conversion struct {
	Header Header

	Name    uint64
	Unit    uint64
	Comment uint64
	Inverse uint64
	Ref     []uint64 // ref_count entries, variable-length link vector

	Type      format.ConversionType
	Precision uint8
	Flags     uint16
	RefCount  uint16
	ValCount  uint16

	HasPhysRange bool
	PhysMin      float64
	PhysMax      float64

	Val []float64 // val_count entries
}

// FromBytesCC parses a CC block from buf. The ref[] vector's length derives
// from header.LinkCount minus the 4 fixed links.
func FromBytesCC(buf []byte) (Conversion, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Conversion{}, err
	}
	if err := ExpectID(h, IDConversion); err != nil {
		return Conversion{}, err
	}

	refCountFromLinks := int(h.LinkCount) - ConversionBaseFixedLinks
	if refCountFromLinks < 0 {
		refCountFromLinks = 0
	}

	totalLinks := ConversionBaseFixedLinks + refCountFromLinks
	if err := endian.ValidateBufferSize(buf, HeaderSize+totalLinks*8, "block.FromBytesCC links"); err != nil {
		return Conversion{}, err
	}

	links, err := LinksAt(buf, totalLinks)
	if err != nil {
		return Conversion{}, err
	}

	dataOff := HeaderSize + totalLinks*8
	if err := endian.ValidateBufferSize(buf, dataOff+8, "block.FromBytesCC data header"); err != nil {
		return Conversion{}, err
	}

	convType, err := endian.ReadU8(buf, dataOff)
	if err != nil {
		return Conversion{}, err
	}
	precision, err := endian.ReadU8(buf, dataOff+1)
	if err != nil {
		return Conversion{}, err
	}
	flags, err := endian.ReadU16(buf, dataOff+2)
	if err != nil {
		return Conversion{}, err
	}
	refCount, err := endian.ReadU16(buf, dataOff+4)
	if err != nil {
		return Conversion{}, err
	}
	valCount, err := endian.ReadU16(buf, dataOff+6)
	if err != nil {
		return Conversion{}, err
	}

	cur := dataOff + 8

	// Physical range presence is derived from whether the block length leaves
	// 16 bytes of headroom beyond the val[] array, not solely from a flag bit:
	// some vendors write the range unconditionally.
	valBytes := int(valCount) * 8
	hasRange := int(h.Length) >= cur+16+valBytes

	var physMin, physMax float64
	if hasRange {
		physMin, err = endian.ReadF64(buf, cur)
		if err != nil {
			return Conversion{}, err
		}
		physMax, err = endian.ReadF64(buf, cur+8)
		if err != nil {
			return Conversion{}, err
		}
		cur += 16
	}

	val := make([]float64, valCount)
	for i := 0; i < int(valCount); i++ {
		v, err := endian.ReadF64(buf, cur+i*8)
		if err != nil {
			return Conversion{}, err
		}
		val[i] = v
	}

	return Conversion{
		Header:       h,
		Name:         links[0],
		Unit:         links[1],
		Comment:      links[2],
		Inverse:      links[3],
		Ref:          links[ConversionBaseFixedLinks:],
		Type:         format.ConversionType(convType),
		Precision:    precision,
		Flags:        flags,
		RefCount:     refCount,
		ValCount:     valCount,
		HasPhysRange: hasRange,
		PhysMin:      physMin,
		PhysMax:      physMax,
		Val:          val,
	}, nil
}

// Bytes serializes the CC block. The physical range is always emitted: readers that gate on a flag bit simply ignore the extra 16 bytes
// when their own flag says otherwise, since presence here is length-derived.
func (c Conversion) Bytes() []byte {
	totalLinks := ConversionBaseFixedLinks + len(c.Ref)
	dataOff := HeaderSize + totalLinks*8
	size := dataOff + 8 + 16 + len(c.Val)*8

	buf := make([]byte, size)

	c.Header.ID = IDConversion
	c.Header.Length = uint64(size)
	c.Header.LinkCount = uint64(totalLinks)
	copy(buf[0:HeaderSize], c.Header.Bytes())

	links := append([]uint64{c.Name, c.Unit, c.Comment, c.Inverse}, c.Ref...)
	buf = PutLinks(buf, links)

	buf = endian.WriteU8(buf, dataOff, uint8(c.Type))
	buf = endian.WriteU8(buf, dataOff+1, c.Precision)
	buf = endian.WriteU16(buf, dataOff+2, c.Flags)
	buf = endian.WriteU16(buf, dataOff+4, uint16(len(c.Ref)))
	buf = endian.WriteU16(buf, dataOff+6, uint16(len(c.Val)))

	cur := dataOff + 8
	buf = endian.WriteF64(buf, cur, c.PhysMin)
	buf = endian.WriteF64(buf, cur+8, c.PhysMax)
	cur += 16

	for i, v := range c.Val {
		buf = endian.WriteF64(buf, cur+i*8, v)
	}

	return buf
}
