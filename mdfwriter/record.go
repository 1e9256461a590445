package mdfwriter

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/internal/pool"
)

// StartDataBlockForCG prepares cg to write records: it lazily opens its data
// group's shared data block (a no-op if another channel group in the same
// data group already opened it) and builds cg's own per-record template
// (record id prefix, sized for cg's own record layout).
func (w *Writer) StartDataBlockForCG(cg *channelGroup) error {
	if !cg.dg.open {
		if err := w.startDataBlockForDG(cg.dg); err != nil {
			return err
		}
	}

	cg.template = make([]byte, int(cg.dg.recordIDSize)+cg.recordBytes)
	if cg.dg.recordIDSize > 0 {
		writeUintLE(cg.template[:cg.dg.recordIDSize], cg.block.RecordID, int(cg.dg.recordIDSize))
	}

	return nil
}

// startDataBlockForDG opens a new DT block for dg and, on its first fragment,
// points dg's data_block link at it.
func (w *Writer) startDataBlockForDG(dg *dataGroup) error {
	id := nextDTID(dg)
	blk := block.BytesDT(0)

	off, err := w.appendBlock(id, blk)
	if err != nil {
		return err
	}

	if len(dg.fragments) == 0 {
		if err := w.linkBlockField(dg.id, 2, id); err != nil {
			return err
		}
	}

	dg.open = true
	dg.curDTID = id
	dg.curDTOffset = off
	dg.curDTRecords = 0
	dg.curDTBytes = 0
	dg.scratch = pool.Get()

	return nil
}

func nextDTID(dg *dataGroup) string {
	n := len(dg.fragments)
	return dg.id + "_dt_" + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}

// WriteRecord encodes one record from values (one per channel, in the order
// channels were added to cg) and appends it to the currently open DT,
// fragmenting into a new DT if the cap would be exceeded.
func (w *Writer) WriteRecord(cg *channelGroup, values []conversion.Value) error {
	dg := cg.dg
	if !dg.open {
		return errs.NewBlockSerialization("mdfwriter: no open data block for this channel group's data group")
	}
	if len(values) != len(cg.channels) {
		return errs.NewBlockSerialization("mdfwriter: value count does not match channel count")
	}

	recLen := len(cg.template)
	if dg.curDTBytes+recLen > w.cfg.dataBlockCap && dg.curDTRecords > 0 {
		if err := w.rotateDataBlock(dg); err != nil {
			return err
		}
	}

	dg.scratch.Reset()
	dg.scratch.MustWrite(cg.template)
	rec := dg.scratch.Bytes()

	for i, ch := range cg.channels {
		if err := ch.enc.splat(rec, values[i]); err != nil {
			return err
		}
	}

	if err := w.sink.WriteAll(rec); err != nil {
		return err
	}

	dg.curDTBytes += recLen
	dg.curDTRecords++
	cg.cycleCount++

	return w.maybeFlush(recLen)
}

// WriteRecordsUint64 writes rows of unsigned integers for a channel group
// whose every channel is an unsigned-integer encoder: it wraps each value as
// a conversion.Value and writes the row via WriteRecord, so per-value Kind
// dispatch still happens.
func (w *Writer) WriteRecordsUint64(cg *channelGroup, rows [][]uint64) error {
	for _, row := range rows {
		values := make([]conversion.Value, len(row))
		for i, v := range row {
			values[i] = conversion.UintValue(v)
		}
		if err := w.WriteRecord(cg, values); err != nil {
			return err
		}
	}

	return nil
}

// WriteRecords writes each row in order via WriteRecord.
func (w *Writer) WriteRecords(cg *channelGroup, rows [][]conversion.Value) error {
	for _, row := range rows {
		if err := w.WriteRecord(cg, row); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) maybeFlush(recLen int) error {
	w.sinceFlushRecords++
	w.sinceFlushBytes += recLen

	flush := false
	if w.cfg.flushEveryRecs > 0 && w.sinceFlushRecords >= w.cfg.flushEveryRecs {
		flush = true
	}
	if w.cfg.flushEveryBytes > 0 && w.sinceFlushBytes >= w.cfg.flushEveryBytes {
		flush = true
	}
	if !flush {
		return nil
	}

	w.sinceFlushRecords = 0
	w.sinceFlushBytes = 0

	return w.sink.Flush()
}

// rotateDataBlock back-patches the current DT's length and opens a new one,
// recording the closed fragment for a later DL emission.
func (w *Writer) rotateDataBlock(dg *dataGroup) error {
	if err := w.closeCurrentDT(dg); err != nil {
		return err
	}

	return w.startDataBlockForDG(dg)
}

func (w *Writer) closeCurrentDT(dg *dataGroup) error {
	size := block.HeaderSize + dg.curDTBytes
	if err := w.patchU64(dg.curDTID, 8, uint64(size)); err != nil {
		return err
	}

	dg.fragments = append(dg.fragments, fragment{offset: dg.curDTOffset, length: int64(size)})
	pool.Put(dg.scratch)
	dg.scratch = nil
	dg.open = false

	return nil
}

// FinishDataBlock closes dg's open DT, writes the final cycle count into
// every channel group under it, and — when more than one DT was written —
// emits a DL block listing every fragment and re-points the DG's data_block
// link at it.
func (w *Writer) FinishDataBlock(dg *dataGroup) error {
	if dg.open {
		if err := w.closeCurrentDT(dg); err != nil {
			return err
		}
	}

	for _, cg := range dg.groups {
		if err := w.patchU64(cg.id, 80, cg.cycleCount); err != nil {
			return err
		}
	}

	if len(dg.fragments) <= 1 {
		return nil
	}

	return w.emitDataList(dg)
}

func (w *Writer) emitDataList(dg *dataGroup) error {
	id := dg.id + "_dl"

	fragOffsets := make([]uint64, len(dg.fragments))
	equalLength := true
	for i, f := range dg.fragments {
		fragOffsets[i] = uint64(f.offset)
		if i > 0 && f.length != dg.fragments[0].length {
			equalLength = false
		}
	}

	dl := block.DataList{
		Fragments:   fragOffsets,
		EqualLength: equalLength,
	}
	if equalLength {
		dl.CommonLength = uint64(dg.fragments[0].length)
	} else {
		dl.Lengths = make([]uint64, len(dg.fragments))
		for i, f := range dg.fragments {
			dl.Lengths[i] = uint64(f.length)
		}
	}

	if err := w.writeBlock(id, dl.Bytes()); err != nil {
		return err
	}

	return w.linkBlockField(dg.id, 2, id)
}
