// Package parser implements the file parser: walking DG→CG→CN,
// following data-block chains (DT/DV/DZ/DL), collecting per-channel-group
// records (with record-id demultiplexing for interleaved multi-CG groups),
// and resolving VLSD signal-data chains.
package parser

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
)

// MinVersionMinor is the lowest accepted MDF 4.x minor version.
const MinVersionMinor = 10

// File is the in-memory parsed representation of one MDF file. It borrows
// text/payload slices from buf for as long as the parser is alive.
type File struct {
	buf            []byte
	Identification block.Identification
	Header         block.HeaderBlock
	DataGroups     []*DataGroup
}

// DataGroup is a parsed DG plus its channel groups.
type DataGroup struct {
	Block  block.DataGroup
	Groups []*ChannelGroup
}

// ChannelGroup is a parsed CG plus its channels and demultiplexed records.
type ChannelGroup struct {
	Block    block.ChannelGroup
	Name     string
	Comment  string
	Channels []*Channel

	// records holds one slice per cycle, each
	// [record_id][data_bytes][invalidation_bytes] long.
	records [][]byte
}

// Channel is a parsed CN plus resolved metadata.
type Channel struct {
	Block      block.Channel
	Name       string
	Unit       string
	Comment    string
	Conversion *conversion.Resolved // nil when Block.Conversion == 0 (raw passthrough)
}

// Records returns the channel group's demultiplexed record slices, in cycle order.
func (cg *ChannelGroup) Records() [][]byte { return cg.records }

// Parse parses an MDF 4.1 file held entirely in memory.
func Parse(data []byte) (*File, error) {
	if err := endian.ValidateBufferSize(data, block.IdentificationSize+block.HeaderBlockSize, "parser.Parse"); err != nil {
		return nil, err
	}

	id, err := block.ParseIdentification(data[0:block.IdentificationSize])
	if err != nil {
		return nil, err
	}
	if id.Minor() < MinVersionMinor || id.Major() < 4 {
		return nil, errs.NewFileVersioning(id.VersionStr)
	}

	hd, err := block.FromBytesHD(data[block.IdentificationSize:])
	if err != nil {
		return nil, err
	}

	f := &File{buf: data, Identification: id, Header: hd}
	src := blockSource{buf: data}

	addr := hd.FirstDataGroup
	for addr != 0 {
		dgBlock, err := block.FromBytesDG(data[addr:])
		if err != nil {
			return nil, err
		}

		dg := &DataGroup{Block: dgBlock}
		if err := f.parseChannelGroups(dg, src); err != nil {
			return nil, err
		}
		if err := f.loadRecords(dg); err != nil {
			return nil, err
		}

		f.DataGroups = append(f.DataGroups, dg)
		addr = dgBlock.NextDataGroup
	}

	return f, nil
}

func (f *File) parseChannelGroups(dg *DataGroup, src blockSource) error {
	cgAddr := dg.Block.FirstChannelGrp
	for cgAddr != 0 {
		cgBlock, err := block.FromBytesCG(f.buf[cgAddr:])
		if err != nil {
			return err
		}

		cg := &ChannelGroup{Block: cgBlock}
		cg.Name, _ = src.ReadText(cgBlock.AcqName)
		cg.Comment, _ = src.ReadText(cgBlock.Comment)

		cnAddr := cgBlock.FirstChannel
		for cnAddr != 0 {
			cnBlock, err := block.FromBytesCN(f.buf[cnAddr:])
			if err != nil {
				return err
			}

			ch := &Channel{Block: cnBlock}
			ch.Name, _ = src.ReadText(cnBlock.Name)
			ch.Unit, _ = src.ReadText(cnBlock.Unit)
			ch.Comment, _ = src.ReadText(cnBlock.Comment)

			if cnBlock.Conversion != 0 {
				resolved, err := conversion.Resolve(cnBlock.Conversion, src)
				if err != nil {
					return err
				}
				ch.Conversion = resolved
			}

			cg.Channels = append(cg.Channels, ch)
			cnAddr = cnBlock.NextChannel
		}

		dg.Groups = append(dg.Groups, cg)
		cgAddr = cgBlock.NextChannelGrp
	}

	return nil
}

// loadRecords resolves the DG's data-block chain and demultiplexes it across
// the DG's channel groups.
func (f *File) loadRecords(dg *DataGroup) error {
	payload, err := f.dataGroupPayload(dg.Block.DataBlock)
	if err != nil {
		return err
	}
	if payload == nil || len(dg.Groups) == 0 {
		return nil
	}

	recIDSize := dg.Block.RecordIDSize

	if len(dg.Groups) == 1 || recIDSize == 0 {
		cg := dg.Groups[0]
		recLen := cg.Block.RecordSizeInBytes(recIDSize)
		if recLen <= 0 {
			return nil
		}
		for off := 0; off+recLen <= len(payload); off += recLen {
			cg.records = append(cg.records, payload[off:off+recLen])
		}

		return nil
	}

	return demuxInterleaved(payload, recIDSize, dg.Groups)
}

// demuxInterleaved splits an interleaved multi-CG record stream using the
// record-id field as the only safe demultiplex key. Unknown ids trigger a byte-by-byte resync scan.
func demuxInterleaved(payload []byte, recIDSize uint8, groups []*ChannelGroup) error {
	byID := make(map[uint64]*ChannelGroup, len(groups))
	for _, cg := range groups {
		byID[cg.Block.RecordID] = cg
	}

	off := 0
	for off+int(recIDSize) <= len(payload) {
		id, err := readRecordID(payload, off, recIDSize)
		if err != nil {
			return err
		}

		cg, ok := byID[id]
		if !ok {
			// resync: unknown id, advance one byte and retry.
			off++
			continue
		}

		recLen := cg.Block.RecordSizeInBytes(recIDSize)
		if recLen <= 0 || off+recLen > len(payload) {
			off++
			continue
		}

		cg.records = append(cg.records, payload[off:off+recLen])
		off += recLen
	}

	return nil
}

func readRecordID(payload []byte, off int, size uint8) (uint64, error) {
	switch size {
	case 1:
		v, err := endian.ReadU8(payload, off)
		return uint64(v), err
	case 2:
		v, err := endian.ReadU16(payload, off)
		return uint64(v), err
	case 4:
		v, err := endian.ReadU32(payload, off)
		return uint64(v), err
	case 8:
		return endian.ReadU64(payload, off)
	default:
		return 0, errs.NewBlockSerialization("unsupported record_id_size")
	}
}

// dataGroupPayload resolves a DG's data_block link through DT/DV/DZ/DL chains,
// returning a single concatenated row-major byte stream.
func (f *File) dataGroupPayload(addr uint64) ([]byte, error) {
	if addr == 0 {
		return nil, nil
	}

	h, err := block.ParseHeader(f.buf[addr:])
	if err != nil {
		return nil, err
	}

	switch h.ID {
	case block.IDDataBlock:
		dt, err := block.FromBytesDT(f.buf[addr:])
		if err != nil {
			return nil, err
		}

		return dt.Payload(f.buf[addr:], len(f.buf)), nil

	case block.IDDataValues:
		dv, err := block.FromBytesDV(f.buf[addr:])
		if err != nil {
			return nil, err
		}

		return dv.Payload(f.buf[addr:], len(f.buf)), nil

	case block.IDDataZip:
		return f.decompressDZ(addr)

	case block.IDDataList:
		return f.dataListPayload(addr)

	default:
		return nil, errs.NewBlockID(h.ID, "DT/DV/DZ/DL")
	}
}

func (f *File) decompressDZ(addr uint64) ([]byte, error) {
	dz, err := block.FromBytesDZ(f.buf[addr:])
	if err != nil {
		return nil, err
	}

	return decompressDZBlock(dz)
}

// dataListPayload concatenates every fragment of a DL chain, one level deep
// in practice, continuing through next_dl.
func (f *File) dataListPayload(addr uint64) ([]byte, error) {
	var out []byte

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

			var fragPayload []byte
			switch fragH.ID {
			case block.IDDataBlock:
				dt, err := block.FromBytesDT(f.buf[fragAddr:])
				if err != nil {
					return nil, err
				}
				fragPayload = dt.Payload(f.buf[fragAddr:], len(f.buf))
			case block.IDDataValues:
				dv, err := block.FromBytesDV(f.buf[fragAddr:])
				if err != nil {
					return nil, err
				}
				fragPayload = dv.Payload(f.buf[fragAddr:], len(f.buf))
			case block.IDDataZip:
				fragPayload, err = f.decompressDZ(fragAddr)
				if err != nil {
					return nil, err
				}
			default:
				return nil, errs.NewBlockID(fragH.ID, "DT/DV/DZ")
			}

			out = append(out, fragPayload...)
		}

		addr = dl.NextDataList
	}

	return out, nil
}
