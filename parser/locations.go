package parser

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/internal/hash"
)

// BlockLocation is one data block's byte range within the source file, the
// shape the index needs for its per-group Locations list.
type BlockLocation struct {
	FileOffset          uint64
	SizeIncludingHeader uint64
	IsCompressed        bool
	HeaderFingerprint    uint64
}

// DataBlockLocations walks dg's data-block chain (DT/DV/DZ, possibly via a
// DL fan-out) and reports each fragment's on-disk location without decoding
// payload bytes.
func (f *File) DataBlockLocations(dg *DataGroup) ([]BlockLocation, error) {
	return f.blockLocations(dg.Block.DataBlock)
}

func (f *File) blockLocations(addr uint64) ([]BlockLocation, error) {
	if addr == 0 {
		return nil, nil
	}

	h, err := block.ParseHeader(f.buf[addr:])
	if err != nil {
		return nil, err
	}
	fp := hash.Bytes(f.buf[addr : addr+block.HeaderSize])

	switch h.ID {
	case block.IDDataBlock, block.IDDataValues:
		return []BlockLocation{{FileOffset: addr, SizeIncludingHeader: h.Length, IsCompressed: false, HeaderFingerprint: fp}}, nil

	case block.IDDataZip:
		dz, err := block.FromBytesDZ(f.buf[addr:])
		if err != nil {
			return nil, err
		}

		return []BlockLocation{{FileOffset: addr, SizeIncludingHeader: dz.Header.Length, IsCompressed: true, HeaderFingerprint: fp}}, nil

	case block.IDDataList:
		return f.dataListLocations(addr)

	default:
		return nil, nil
	}
}

func (f *File) dataListLocations(addr uint64) ([]BlockLocation, error) {
	var out []BlockLocation

	for addr != 0 {
		dl, err := block.FromBytesDL(f.buf[addr:])
		if err != nil {
			return nil, err
		}

		for _, fragAddr := range dl.Fragments {
			if fragAddr == 0 {
				continue
			}

			locs, err := f.blockLocations(fragAddr)
			if err != nil {
				return nil, err
			}
			out = append(out, locs...)
		}

		addr = dl.NextDataList
	}

	return out, nil
}
