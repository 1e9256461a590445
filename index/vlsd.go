package index

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/internal/zlib"
)

// vlsdRecords resolves a VLSD channel's own data chain (its CN.Data link,
// independent of the owning channel group's main record stream) over r into
// one []byte per record, mirroring parser.File.VLSDRecords for the
// range-reader path.
func vlsdRecords(r RangeReader, addr uint64) ([][]byte, error) {
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

	switch h.ID {
	case block.IDSignalData:
		return readSDRecords(r, addr, h)

	case block.IDDataZip:
		payload, err := rangeDecompressDZ(r, addr)
		if err != nil {
			return nil, err
		}

		return block.ParseSDRecords(payload)

	case block.IDDataList:
		return vlsdDataListRecords(r, addr)

	default:
		return nil, errs.NewBlockID(h.ID, "SD/DZ/DL")
	}
}

func readSDRecords(r RangeReader, addr uint64, h block.Header) ([][]byte, error) {
	buf, err := readExact(r, addr, int(h.Length))
	if err != nil {
		return nil, err
	}

	sd, err := block.FromBytesSD(buf)
	if err != nil {
		return nil, err
	}

	return sd.Records, nil
}

func rangeDecompressDZ(r RangeReader, addr uint64) ([]byte, error) {
	hBuf, err := readExact(r, addr, block.HeaderSize)
	if err != nil {
		return nil, err
	}
	h, err := block.ParseHeader(hBuf)
	if err != nil {
		return nil, err
	}

	buf, err := readExact(r, addr, int(h.Length))
	if err != nil {
		return nil, err
	}

	dz, err := block.FromBytesDZ(buf)
	if err != nil {
		return nil, err
	}

	return zlib.Decompress(dz.ZipType, dz.ZipParameter, dz.Compressed, int(dz.OriginalSize))
}

func vlsdDataListRecords(r RangeReader, addr uint64) ([][]byte, error) {
	var out [][]byte

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

			fragHBuf, err := readExact(r, fragAddr, block.HeaderSize)
			if err != nil {
				return nil, err
			}
			fragH, err := block.ParseHeader(fragHBuf)
			if err != nil {
				return nil, err
			}

			var records [][]byte
			switch fragH.ID {
			case block.IDSignalData:
				records, err = readSDRecords(r, fragAddr, fragH)
			case block.IDDataZip:
				var payload []byte
				payload, err = rangeDecompressDZ(r, fragAddr)
				if err == nil {
					records, err = block.ParseSDRecords(payload)
				}
			default:
				return nil, errs.NewBlockID(fragH.ID, "SD/DZ")
			}
			if err != nil {
				return nil, err
			}

			out = append(out, records...)
		}

		addr = dl.NextDataList
	}

	return out, nil
}
