// Package mdfwriter implements the streaming writer: a builder
// that emits blocks one after another onto a Sink, recording each block's
// start offset in a symbolic map so later back-patches (link fixups, length
// fixups) can resolve it by name, the way a linker resolves relocations.
package mdfwriter

import (
	"fmt"

	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/reneherrero/mdf4-rs-sub000/internal/options"
	"github.com/reneherrero/mdf4-rs-sub000/internal/pool"
)

// Writer builds an MDF 4.1 file on a Sink, one block at a time.
//
// A Writer is not reusable across files and not safe for concurrent use by
// more than one goroutine.
type Writer struct {
	sink Sink
	cfg  *Config

	offsets map[string]int64 // symbolic block id -> sink offset at which it starts

	hdOffset int64
	groups   []*dataGroup

	sinceFlushRecords int
	sinceFlushBytes   int

	// archived holds Finalize's compressed sidecar bytes when cfg.archiveFormat
	// is set; empty otherwise.
	archived []byte
}

// dataGroup owns the single open data block shared by every channel group
// under it: MDF physically interleaves a data group's channel groups'
// records in one byte stream, distinguished by a leading record id, so the
// open-DT/fragment state belongs here rather than on each channel group.
type dataGroup struct {
	id           string
	recordIDSize uint8
	offset       int64
	groups       []*channelGroup

	open         bool
	curDTID      string
	curDTOffset  int64
	curDTRecords int
	curDTBytes   int
	fragments    []fragment

	scratch *pool.ByteBuffer
}

type channelGroup struct {
	id       string
	dg       *dataGroup
	offset   int64
	block    block.ChannelGroup
	name     string
	channels []*channel

	recordBytes int // cg.RecordSize (excludes record id / invalidation)
	cycleCount  uint64

	template []byte
}

type fragment struct {
	offset int64
	length int64
}

type channel struct {
	id      string
	block   block.Channel
	enc     valueEncoder
	name    string

	// vlsdRecords accumulates a VLSD channel's own variable-length payloads,
	// flushed into one SD block at Finalize time; empty for a fixed-layout
	// channel.
	vlsdRecords [][]byte
}

// New creates a Writer over sink with the given options.
func New(sink Sink, opts ...Option) (*Writer, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Writer{sink: sink, cfg: cfg, offsets: make(map[string]int64)}, nil
}

// InitFile writes the ID and HD blocks, the file's two mandatory leading
// blocks.
func (w *Writer) InitFile(programID string) error {
	id := block.Identification{FileID: "MDF     ", VersionStr: "4.10", ProgID: programID, VersionNum: 410}
	if err := w.writeBlock("id_block", id.Bytes()); err != nil {
		return err
	}

	hd := block.HeaderBlock{}
	w.hdOffset = w.sink.Position()
	if err := w.writeBlock("hd_block", hd.Bytes()); err != nil {
		return err
	}

	return nil
}

// AddDataGroup appends a new DG, chaining it from HD.first_data_group or the
// previous DG's next_dg link, and returns its handle.
func (w *Writer) AddDataGroup(recordIDSize uint8) (*dataGroup, error) {
	dg := &dataGroup{id: fmt.Sprintf("dg_%d", len(w.groups)), recordIDSize: recordIDSize}

	blk := block.DataGroup{RecordIDSize: recordIDSize}
	off, err := w.appendBlock(dg.id, blk.Bytes())
	if err != nil {
		return nil, err
	}
	dg.offset = off

	if len(w.groups) == 0 {
		if err := w.linkBlockField("hd_block", 0, dg.id); err != nil {
			return nil, err
		}
	} else {
		prev := w.groups[len(w.groups)-1]
		if err := w.linkBlockField(prev.id, 0, dg.id); err != nil {
			return nil, err
		}
	}

	w.groups = append(w.groups, dg)

	return dg, nil
}

// AddChannelGroup appends a new CG under dg, chaining it from dg's
// first_channel_group or the previous sibling CG's next_cg link.
func (w *Writer) AddChannelGroup(dg *dataGroup, name string) (*channelGroup, error) {
	cg := &channelGroup{id: fmt.Sprintf("cg_%d", len(w.allGroups())), dg: dg, name: name}

	blk := block.ChannelGroup{}
	off, err := w.appendBlock(cg.id, blk.Bytes())
	if err != nil {
		return nil, err
	}
	cg.offset = off
	cg.block = blk

	if name != "" {
		nameOff, err := w.writeText(cg.id+"_name", name)
		if err != nil {
			return nil, err
		}
		if err := w.linkBlockField(cg.id, 2, nameBlockID(cg.id)); err != nil {
			return nil, err
		}
		_ = nameOff
	}

	if len(dg.groups) == 0 {
		if err := w.linkBlockField(dg.id, 1, cg.id); err != nil {
			return nil, err
		}
	} else {
		prev := dg.groups[len(dg.groups)-1]
		if err := w.linkBlockField(prev.id, 0, cg.id); err != nil {
			return nil, err
		}
	}

	dg.groups = append(dg.groups, cg)

	return cg, nil
}

func (w *Writer) allGroups() []*channelGroup {
	var out []*channelGroup
	for _, dg := range w.groups {
		out = append(out, dg.groups...)
	}

	return out
}

// AddChannel appends a new CN under cg, chaining it from cg's first_channel
// or the previous sibling CN's next_cn link. configure lets the caller set
// channel_type, sync_type, flags, etc. before the block is serialized.
func (w *Writer) AddChannel(cg *channelGroup, name string, dt format.DataType, bitCount uint32, configure func(*block.Channel)) (*channel, error) {
	byteOffset := uint32(cg.recordBytes)

	blk := block.Channel{DataType: dt, BitCount: bitCount, ByteOffset: byteOffset}
	if configure != nil {
		configure(&blk)
	}

	ch := &channel{id: fmt.Sprintf("%s_cn_%d", cg.id, len(cg.channels)), block: blk, name: name}
	ch.enc = encoderFor(dt, int(byteOffset), bitCount)

	off, err := w.appendBlock(ch.id, blk.Bytes())
	if err != nil {
		return nil, err
	}
	_ = off

	if name != "" {
		if err := w.writeTextAndLink(ch.id, 2, name); err != nil {
			return nil, err
		}
	}

	if len(cg.channels) == 0 {
		if err := w.linkBlockField(cg.id, 1, ch.id); err != nil {
			return nil, err
		}
	} else {
		prev := cg.channels[len(cg.channels)-1]
		if err := w.linkBlockField(prev.id, 0, ch.id); err != nil {
			return nil, err
		}
	}

	cg.channels = append(cg.channels, ch)
	cg.recordBytes += bytesForBitCount(bitCount, dt)
	cg.block.RecordSize = uint32(cg.recordBytes)
	if err := w.patchU32(cg.id, 96, cg.block.RecordSize); err != nil {
		return nil, err
	}

	return ch, nil
}

// AddVLSDChannel appends a variable-length signal-data channel: its value
// lives entirely in its own SD chain rather than cg's main record, so it
// reserves no record bytes and its main-record encoder is a no-op. Payloads
// are accumulated with WriteVLSDRecord and flushed into one SD block, linked
// from the channel's data field, at Finalize.
func (w *Writer) AddVLSDChannel(cg *channelGroup, name string, dt format.DataType) (*channel, error) {
	ch, err := w.AddChannel(cg, name, dt, 0, func(c *block.Channel) {
		c.ChannelType = format.ChannelTypeVLSD
	})
	if err != nil {
		return nil, err
	}
	ch.enc = valueEncoder{kind: encSkip}

	return ch, nil
}

// WriteVLSDRecord appends one payload to ch's own variable-length data chain.
// Payloads correspond positionally to cg's main-record cycles: the i-th
// WriteVLSDRecord call pairs with the i-th WriteRecord call for cg.
func (w *Writer) WriteVLSDRecord(ch *channel, payload []byte) {
	ch.vlsdRecords = append(ch.vlsdRecords, append([]byte(nil), payload...))
}

// flushVLSDChannels writes every channel's accumulated VLSD payloads into one
// SD block and links the channel's data field to it.
func (w *Writer) flushVLSDChannels() error {
	for _, cg := range w.allGroups() {
		for _, ch := range cg.channels {
			if len(ch.vlsdRecords) == 0 {
				continue
			}

			sd := block.SignalDataBlock{Records: ch.vlsdRecords}
			sdID := ch.id + "_sd"
			if err := w.writeBlock(sdID, sd.Bytes()); err != nil {
				return err
			}
			if err := w.linkBlockField(ch.id, 5, sdID); err != nil {
				return err
			}
		}
	}

	return nil
}

func bytesForBitCount(bitCount uint32, dt format.DataType) int {
	if dt.IsString() || dt.IsByteArray() {
		return int(bitCount) / 8
	}

	return (int(bitCount) + 7) / 8
}

// SetTimeChannel marks ch as the channel group's master time channel
// (channel_type = master, sync_type = time).
func (w *Writer) SetTimeChannel(ch *channel) error {
	ch.block.ChannelType = format.ChannelTypeMaster
	ch.block.SyncType = format.SyncTypeTime
	if err := w.patchU8(ch.id, 88, uint8(format.ChannelTypeMaster)); err != nil {
		return err
	}

	return w.patchU8(ch.id, 89, uint8(format.SyncTypeTime))
}

// SetRecordID assigns cg's record id, needed when multiple channel groups
// share one interleaved data group and the parser's record-id demux must distinguish their records.
func (w *Writer) SetRecordID(cg *channelGroup, id uint64) error {
	cg.block.RecordID = id
	return w.patchU64(cg.id, 72, id)
}

func nameBlockID(baseID string) string { return baseID + "_name" }

func (w *Writer) writeText(id, text string) (int64, error) {
	tx := block.TextBlock{Text: text}
	return w.appendBlock(id, tx.Bytes())
}

func (w *Writer) writeTextAndLink(channelID string, linkFieldIndex int, text string) error {
	id := nameBlockID(channelID)
	if _, err := w.writeText(id, text); err != nil {
		return err
	}

	return w.linkBlockField(channelID, linkFieldIndex, id)
}

// appendBlock pads to 8-byte alignment, writes raw at the current position,
// and records its start offset under id.
func (w *Writer) appendBlock(id string, raw []byte) (int64, error) {
	if err := w.alignTo8(); err != nil {
		return 0, err
	}

	off := w.sink.Position()
	w.offsets[id] = off
	if err := w.sink.WriteAll(raw); err != nil {
		return 0, err
	}

	return off, nil
}

func (w *Writer) writeBlock(id string, raw []byte) error {
	_, err := w.appendBlock(id, raw)
	return err
}

func (w *Writer) alignTo8() error {
	pad := endian.PadTo8(int(w.sink.Position()))
	if pad == 0 {
		return nil
	}

	return w.sink.WriteAll(make([]byte, pad))
}

// linkBlockField back-patches an 8-byte link field at fieldIndex (0-based,
// counting links after the 24-byte header) of the block named byID to point
// at the block named toID.
func (w *Writer) linkBlockField(byID string, fieldIndex int, toID string) error {
	target, ok := w.offsets[toID]
	if !ok {
		return errs.NewBlockLink(toID)
	}

	return w.patchU64(byID, block.HeaderSize+fieldIndex*8, uint64(target))
}

func (w *Writer) patchU64(byID string, fieldOffset int, v uint64) error {
	base, ok := w.offsets[byID]
	if !ok {
		return errs.NewBlockLink(byID)
	}

	buf := make([]byte, 8)
	endian.LittleEndian.PutUint64(buf, v)

	return w.patchAt(base+int64(fieldOffset), buf)
}

func (w *Writer) patchU32(byID string, fieldOffset int, v uint32) error {
	base, ok := w.offsets[byID]
	if !ok {
		return errs.NewBlockLink(byID)
	}

	buf := make([]byte, 4)
	endian.LittleEndian.PutUint32(buf, v)

	return w.patchAt(base+int64(fieldOffset), buf)
}

func (w *Writer) patchU8(byID string, fieldOffset int, v uint8) error {
	base, ok := w.offsets[byID]
	if !ok {
		return errs.NewBlockLink(byID)
	}

	return w.patchAt(base+int64(fieldOffset), []byte{v})
}

func (w *Writer) patchAt(absOffset int64, data []byte) error {
	cur := w.sink.Position()
	if _, err := w.sink.Seek(absOffset); err != nil {
		return err
	}
	if err := w.sink.WriteAll(data); err != nil {
		return err
	}
	_, err := w.sink.Seek(cur)

	return err
}

// Finalize closes every data group's still-open data block and writes
// nothing further; callers must not reuse the Writer afterward. When
// WithArchiveCompression configured an ArchiveFormat other than ArchiveNone,
// Finalize also reads back the sink's finished bytes and compresses them into
// a sidecar retrievable via Archived.
func (w *Writer) Finalize() error {
	if err := w.flushVLSDChannels(); err != nil {
		return err
	}

	for _, dg := range w.groups {
		if dg.open || len(dg.fragments) > 0 {
			if err := w.FinishDataBlock(dg); err != nil {
				return err
			}
		}
	}

	if err := w.sink.Flush(); err != nil {
		return err
	}

	if w.cfg.archiveFormat == ArchiveNone {
		return nil
	}

	raw, err := w.sinkBytes()
	if err != nil {
		return err
	}

	archived, err := Archive(raw, w.cfg.archiveFormat)
	if err != nil {
		return err
	}
	w.archived = archived

	return nil
}

// Archived returns the sidecar bytes produced by Finalize when
// WithArchiveCompression selected a non-None ArchiveFormat; nil otherwise.
func (w *Writer) Archived() []byte { return w.archived }

// memByteSource is satisfied by Sinks that hold their content in memory and
// can return it without error, such as MemorySink.
type memByteSource interface{ Bytes() []byte }

// fileByteSource is satisfied by Sinks that must read their content back
// from an external medium, such as FileSink.
type fileByteSource interface{ Bytes() ([]byte, error) }

// sinkBytes retrieves w.sink's finished content for archival, dispatching on
// whichever of memByteSource or fileByteSource the concrete Sink implements.
func (w *Writer) sinkBytes() ([]byte, error) {
	if s, ok := w.sink.(memByteSource); ok {
		return s.Bytes(), nil
	}
	if s, ok := w.sink.(fileByteSource); ok {
		return s.Bytes()
	}

	return nil, errs.NewBlockSerialization("mdfwriter: archive compression requires a Sink that supports reading back its bytes")
}
