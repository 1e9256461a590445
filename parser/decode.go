package parser

import (
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/reneherrero/mdf4-rs-sub000/record"
)

// DecodedValue pairs a decoded (and, when a conversion exists, converted)
// value with its record validity.
type DecodedValue struct {
	Raw       conversion.Value
	Converted conversion.Value
	IsValid   bool
}

// Values decodes every record of cg for ch, applying ch's conversion (if any)
// and resolving VLSD payloads from ch's own data chain when ch is a VLSD
// channel.
func (f *File) Values(ch *Channel, cg *ChannelGroup) ([]DecodedValue, error) {
	desc := record.FromChannel(ch.Block)
	recIDSize := f.recordIDSizeFor(cg)

	var vlsd [][]byte
	if desc.ChannelType == format.ChannelTypeVLSD {
		var err error
		vlsd, err = f.VLSDRecords(ch)
		if err != nil {
			return nil, err
		}
	}

	out := make([]DecodedValue, 0, len(cg.records))
	for i, rec := range cg.records {
		valid, err := record.IsValid(desc, rec, recIDSize, cg.Block.RecordSize)
		if err != nil {
			return nil, err
		}

		var vlsdPayload []byte
		if vlsd != nil && i < len(vlsd) {
			vlsdPayload = vlsd[i]
		}

		raw, err := record.DecodeValue(desc, rec, recIDSize, vlsdPayload)
		if err != nil {
			return nil, err
		}

		converted := raw
		if ch.Conversion != nil {
			converted, err = ch.Conversion.Apply(raw)
			if err != nil {
				return nil, err
			}
		}

		out = append(out, DecodedValue{Raw: raw, Converted: converted, IsValid: valid})
	}

	return out, nil
}

// recordIDSizeFor finds cg's owning data group's record_id_size. Channel
// groups are only ever reachable through their parent File, so this is a
// linear scan rather than a stored back-pointer.
func (f *File) recordIDSizeFor(cg *ChannelGroup) uint8 {
	for _, dg := range f.DataGroups {
		for _, g := range dg.Groups {
			if g == cg {
				return dg.Block.RecordIDSize
			}
		}
	}

	return 0
}
