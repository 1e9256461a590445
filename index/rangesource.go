package index

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/internal/hash"
)

// rangeBlockSource implements conversion.BlockSource over a RangeReader,
// issuing one range-read per header then one per block body.
type rangeBlockSource struct {
	r    RangeReader
	size uint64
}

func (s *rangeBlockSource) ReadConversion(address uint64) (block.Conversion, error) {
	h, err := s.readHeader(address)
	if err != nil {
		return block.Conversion{}, err
	}
	if h.ID != block.IDConversion {
		return block.Conversion{}, errs.NewBlockID(h.ID, block.IDConversion)
	}

	buf, err := readExact(s.r, address, int(h.Length))
	if err != nil {
		return block.Conversion{}, err
	}

	return block.FromBytesCC(buf)
}

func (s *rangeBlockSource) ReadText(address uint64) (string, error) {
	if address == 0 {
		return "", errs.NewBlockLink("TX/MD")
	}

	h, err := s.readHeader(address)
	if err != nil {
		return "", err
	}

	buf, err := readExact(s.r, address, int(h.Length))
	if err != nil {
		return "", err
	}

	switch h.ID {
	case block.IDTextBlock:
		tx, err := block.FromBytesTX(buf)
		if err != nil {
			return "", err
		}

		return tx.Text, nil
	case block.IDMetadataBlock:
		md, err := block.FromBytesMD(buf)
		if err != nil {
			return "", err
		}

		return md.XML, nil
	default:
		return "", errs.NewBlockID(h.ID, "TX/MD")
	}
}

func (s *rangeBlockSource) readHeader(address uint64) (block.Header, error) {
	buf, err := readExact(s.r, address, block.HeaderSize)
	if err != nil {
		return block.Header{}, err
	}

	return block.ParseHeader(buf)
}

// rangeBlockLocations mirrors parser.File.DataBlockLocations but sourced from
// a RangeReader: it reads only headers (plus DL link vectors) rather than
// whole blocks.
func rangeBlockLocations(r RangeReader, addr uint64) ([]Location, error) {
	if addr == 0 {
		return nil, nil
	}

	hBuf, err := readExact(r, addr, block.HeaderSize)
	if err != nil {
		return nil, err
	}
	h, err := block.ParseHeader(hBuf)
	if err != nil {
		return nil, err
	}
	fp := hash.Bytes(hBuf)

	switch h.ID {
	case block.IDDataBlock, block.IDDataValues:
		return []Location{{FileOffset: addr, SizeIncludingHeader: h.Length, IsCompressed: false, Fingerprint: fp}}, nil

	case block.IDDataZip:
		return []Location{{FileOffset: addr, SizeIncludingHeader: h.Length, IsCompressed: true, Fingerprint: fp}}, nil

	case block.IDDataList:
		return rangeDataListLocations(r, addr)

	default:
		return nil, nil
	}
}

func rangeDataListLocations(r RangeReader, addr uint64) ([]Location, error) {
	var out []Location

	for addr != 0 {
		hBuf, err := readExact(r, addr, block.HeaderSize)
		if err != nil {
			return nil, err
		}
		h, err := block.ParseHeader(hBuf)
		if err != nil {
			return nil, err
		}

		full, err := readExact(r, addr, int(h.Length))
		if err != nil {
			return nil, err
		}
		dl, err := block.FromBytesDL(full)
		if err != nil {
			return nil, err
		}

		for _, fragAddr := range dl.Fragments {
			if fragAddr == 0 {
				continue
			}

			locs, err := rangeBlockLocations(r, fragAddr)
			if err != nil {
				return nil, err
			}
			out = append(out, locs...)
		}

		addr = dl.NextDataList
	}

	return out, nil
}
