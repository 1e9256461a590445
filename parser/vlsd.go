package parser

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
)

// VLSDRecords resolves a VLSD channel's own data chain (its CN.Data link,
// independent of the owning channel group's main record stream) into one
// []byte per record, in the order a fixed-length channel's offset into the
// group's records would reference them.
func (f *File) VLSDRecords(ch *Channel) ([][]byte, error) {
	if ch.Block.Data == 0 {
		return nil, nil
	}

	h, err := block.ParseHeader(f.buf[ch.Block.Data:])
	if err != nil {
		return nil, err
	}

	switch h.ID {
	case block.IDSignalData:
		sd, err := block.FromBytesSD(f.buf[ch.Block.Data:])
		if err != nil {
			return nil, err
		}

		return sd.Records, nil

	case block.IDDataZip:
		payload, err := f.decompressDZ(ch.Block.Data)
		if err != nil {
			return nil, err
		}

		return block.ParseSDRecords(payload)

	case block.IDDataList:
		return f.vlsdDataList(ch.Block.Data)

	default:
		return nil, errs.NewBlockID(h.ID, "SD/DZ/DL")
	}
}

// vlsdDataList concatenates the records of every SD/DZ fragment referenced by
// a DL chain feeding a VLSD channel.
func (f *File) vlsdDataList(addr uint64) ([][]byte, error) {
	var out [][]byte

	for addr != 0 {
		dl, err := block.FromBytesDL(f.buf[addr:])
		if err != nil {
			return nil, err
		}

		for _, fragAddr := range dl.Fragments {
			if fragAddr == 0 {
				continue
			}

			fragH, err := block.ParseHeader(f.buf[fragAddr:])
			if err != nil {
				return nil, err
			}

			var records [][]byte
			switch fragH.ID {
			case block.IDSignalData:
				sd, err := block.FromBytesSD(f.buf[fragAddr:])
				if err != nil {
					return nil, err
				}
				records = sd.Records
			case block.IDDataZip:
				payload, err := f.decompressDZ(fragAddr)
				if err != nil {
					return nil, err
				}
				records, err = block.ParseSDRecords(payload)
				if err != nil {
					return nil, err
				}
			default:
				return nil, errs.NewBlockID(fragH.ID, "SD/DZ")
			}

			out = append(out, records...)
		}

		addr = dl.NextDataList
	}

	return out, nil
}
