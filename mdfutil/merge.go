package mdfutil

import (
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/mdfwriter"
	"github.com/reneherrero/mdf4-rs-sub000/parser"
	"github.com/reneherrero/mdf4-rs-sub000/record"
)

// Merge writes a new MDF file to sink containing every data group of every
// file in files, in order, appended as independent data groups — it does not
// attempt to align or interleave channel groups across files, matching how a
// bus-log pipeline appending consecutive capture segments treats each
// segment's data groups as already self-contained.
func Merge(files []*parser.File, sink mdfwriter.Sink, programID string) error {
	w, err := mdfwriter.New(sink)
	if err != nil {
		return err
	}
	if err := w.InitFile(programID); err != nil {
		return err
	}

	for _, src := range files {
		for _, dg := range src.DataGroups {
			wdg, err := w.AddDataGroup(dg.Block.RecordIDSize)
			if err != nil {
				return err
			}

			multiCG := len(dg.Groups) > 1

			for _, cg := range dg.Groups {
				wcg, err := w.AddChannelGroup(wdg, cg.Name)
				if err != nil {
					return err
				}
				if multiCG {
					if err := w.SetRecordID(wcg, cg.Block.RecordID); err != nil {
						return err
					}
				}

				descs, masterIdx := descriptorsFor(cg.Channels)

				for i, ch := range cg.Channels {
					wch, err := w.AddChannel(wcg, ch.Name, ch.Block.DataType, ch.Block.BitCount, configureFrom(ch.Block))
					if err != nil {
						return err
					}
					if i == masterIdx {
						if err := w.SetTimeChannel(wch); err != nil {
							return err
						}
					}
				}

				if err := w.StartDataBlockForCG(wcg); err != nil {
					return err
				}

				for _, rec := range cg.Records() {
					values := make([]conversion.Value, len(descs))
					for i, d := range descs {
						v, err := record.DecodeValue(d, rec, dg.Block.RecordIDSize, nil)
						if err != nil {
							return err
						}
						values[i] = v
					}

					if err := w.WriteRecord(wcg, values); err != nil {
						return err
					}
				}
			}
		}
	}

	return w.Finalize()
}
