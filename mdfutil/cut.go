package mdfutil

import (
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/mdfwriter"
	"github.com/reneherrero/mdf4-rs-sub000/parser"
	"github.com/reneherrero/mdf4-rs-sub000/record"
)

// Cut writes a new MDF file to sink containing only the records of src whose
// master (time) channel value falls in [startTime, endTime] inclusive, for
// every data group that has a master channel. Data groups with no master
// channel are copied through unfiltered. VLSD channels are replicated as
// channel descriptors but their samples are not carried over.
func Cut(src *parser.File, startTime, endTime float64, sink mdfwriter.Sink, programID string) error {
	w, err := mdfwriter.New(sink)
	if err != nil {
		return err
	}
	if err := w.InitFile(programID); err != nil {
		return err
	}

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
				if masterIdx >= 0 {
					t, err := timeOf(descs[masterIdx], rec, dg.Block.RecordIDSize)
					if err != nil {
						return err
					}
					if t < startTime || t > endTime {
						continue
					}
				}

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

	return w.Finalize()
}
