// Package mdfutil provides small, composed convenience wrappers over the
// parser and mdfwriter packages: time-windowed cut and multi-file merge.
// Both are reference pipelines, not a CLI — a caller with more specific
// needs (renaming channels on merge, cutting on something other than the
// master time channel) should compose parser/mdfwriter directly instead.
package mdfutil

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/reneherrero/mdf4-rs-sub000/parser"
	"github.com/reneherrero/mdf4-rs-sub000/record"
)

// descriptorsFor returns one decode descriptor per channel of channels, in
// order, plus the index of the master (time) channel, or -1 if none is
// present.
func descriptorsFor(channels []*parser.Channel) ([]record.Descriptor, int) {
	descs := make([]record.Descriptor, len(channels))
	master := -1

	for i, ch := range channels {
		descs[i] = record.FromChannel(ch.Block)
		if ch.Block.ChannelType == format.ChannelTypeMaster {
			master = i
		}
	}

	return descs, master
}

// timeOf decodes desc's value out of rec and interprets it as a float64
// timestamp in seconds, the MDF convention for a master time channel.
func timeOf(desc record.Descriptor, rec []byte, recordIDSize uint8) (float64, error) {
	v, err := record.DecodeValue(desc, rec, recordIDSize, nil)
	if err != nil {
		return 0, err
	}

	t, _ := v.AsFloat()

	return t, nil
}

// configureFrom returns a configure callback for mdfwriter.AddChannel that
// reproduces src's type, sync, flags and bit-offset metadata on the newly
// written channel.
func configureFrom(src block.Channel) func(*block.Channel) {
	return func(c *block.Channel) {
		c.ChannelType = src.ChannelType
		c.SyncType = src.SyncType
		c.BitOffset = src.BitOffset
		c.Flags = src.Flags
		c.PosInvalidationBit = src.PosInvalidationBit
		c.Precision = src.Precision
	}
}
