package index

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/reneherrero/mdf4-rs-sub000/internal/hash"
	"github.com/reneherrero/mdf4-rs-sub000/internal/zlib"
	"github.com/reneherrero/mdf4-rs-sub000/record"
)

// DecodedValue is one record's decoded-and-converted value, or None (IsValid
// false, Converted zero) for an invalid record.
type DecodedValue struct {
	Raw       conversion.Value
	Converted conversion.Value
	IsValid   bool
}

// ReadChannelValues walks every data block of g, decompressing DZ-flagged
// ones, decodes ch's value from every record with validity, and applies ch's
// stored conversion. For a VLSD channel, ch's own SD/DZ/DL data chain
// (ch.VLSDDataAddress) is resolved over r first, independently of g's main
// record stream, and each record's payload is substituted positionally: the
// i-th record in g's stream pairs with the i-th resolved VLSD payload.
func (g Group) ReadChannelValues(ch Channel, r RangeReader) ([]DecodedValue, error) {
	desc := record.Descriptor{
		ChannelType:        ch.ChannelType,
		DataType:           ch.DataType,
		ByteOffset:         ch.ByteOffset,
		BitOffset:          ch.BitOffset,
		BitCount:           ch.BitCount,
		Flags:              ch.Flags,
		PosInvalidationBit: ch.PosInvalidationBit,
	}

	var vlsd [][]byte
	if ch.ChannelType == format.ChannelTypeVLSD && ch.VLSDDataAddress != nil {
		var err error
		vlsd, err = vlsdRecords(r, *ch.VLSDDataAddress)
		if err != nil {
			return nil, err
		}
	}

	var out []DecodedValue
	recIdx := 0

	for _, loc := range g.Locations {
		payload, err := readLocationPayload(r, loc)
		if err != nil {
			return nil, err
		}

		recLen := int(g.RecordIDSize) + int(g.RecordSize) + int(g.InvalidationSize)
		if recLen <= 0 {
			continue
		}

		for off := 0; off+recLen <= len(payload); off += recLen {
			rec := payload[off : off+recLen]

			valid, err := record.IsValid(desc, rec, g.RecordIDSize, g.RecordSize)
			if err != nil {
				return nil, err
			}

			var vlsdPayload []byte
			if vlsd != nil && recIdx < len(vlsd) {
				vlsdPayload = vlsd[recIdx]
			}
			recIdx++

			raw, err := record.DecodeValue(desc, rec, g.RecordIDSize, vlsdPayload)
			if err != nil {
				return nil, err
			}

			converted := raw
			if !valid {
				converted = conversion.Value{}
			} else if ch.Conversion != nil {
				converted, err = ch.Conversion.Apply(raw)
				if err != nil {
					return nil, err
				}
			}

			out = append(out, DecodedValue{Raw: raw, Converted: converted, IsValid: valid})
		}
	}

	return out, nil
}

func readLocationPayload(r RangeReader, loc Location) ([]byte, error) {
	buf, err := readExact(r, loc.FileOffset, int(loc.SizeIncludingHeader))
	if err != nil {
		return nil, err
	}

	if loc.Fingerprint != 0 && hash.Bytes(buf[:block.HeaderSize]) != loc.Fingerprint {
		return nil, errs.NewBlockSerialization("index: data block header fingerprint mismatch, source changed since indexing")
	}

	if !loc.IsCompressed {
		h, err := block.ParseHeader(buf)
		if err != nil {
			return nil, err
		}

		return buf[block.HeaderSize:h.Length], nil
	}

	dz, err := block.FromBytesDZ(buf)
	if err != nil {
		return nil, err
	}

	return zlib.Decompress(dz.ZipType, dz.ZipParameter, dz.Compressed, int(dz.OriginalSize))
}
