package index

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/parser"
)

// FromParsed builds an Index by traversing an already-parsed file's in-memory
// graph.
func FromParsed(f *parser.File) (*Index, error) {
	idx := &Index{}

	for _, dg := range f.DataGroups {
		for _, cg := range dg.Groups {
			locs, err := f.DataBlockLocations(dg)
			if err != nil {
				return nil, err
			}

			g := Group{
				Name:             cg.Name,
				NameHash:         nameHash(cg.Name),
				Comment:          cg.Comment,
				RecordIDSize:     dg.Block.RecordIDSize,
				RecordSize:       cg.Block.RecordSize,
				InvalidationSize: cg.Block.InvalidationSize,
				RecordCount:      cg.Block.CycleCount,
				Locations:        toLocations(locs),
				Channels:         make([]Channel, 0, len(cg.Channels)),
			}

			for _, ch := range cg.Channels {
				g.Channels = append(g.Channels, channelDescriptor(ch))
			}

			idx.Groups = append(idx.Groups, g)
		}
	}

	return idx, nil
}

func toLocations(locs []parser.BlockLocation) []Location {
	out := make([]Location, len(locs))
	for i, l := range locs {
		out[i] = Location{
			FileOffset:          l.FileOffset,
			SizeIncludingHeader: l.SizeIncludingHeader,
			IsCompressed:        l.IsCompressed,
			Fingerprint:         l.HeaderFingerprint,
		}
	}

	return out
}

func channelDescriptor(ch *parser.Channel) Channel {
	c := Channel{
		Name:               ch.Name,
		NameHash:           nameHash(ch.Name),
		Unit:               ch.Unit,
		DataType:           ch.Block.DataType,
		ByteOffset:         ch.Block.ByteOffset,
		BitOffset:          ch.Block.BitOffset,
		BitCount:           ch.Block.BitCount,
		ChannelType:        ch.Block.ChannelType,
		Flags:              ch.Block.Flags,
		PosInvalidationBit: ch.Block.PosInvalidationBit,
		Conversion:         ch.Conversion,
	}

	if ch.Block.Data != 0 {
		addr := ch.Block.Data
		c.VLSDDataAddress = &addr
	}

	return c
}

// FromRangeReader builds an Index by reading only the 24-byte headers and the
// exact byte ranges required, never loading the whole file. Multiple channel groups within one data group
// are built concurrently via an errgroup.
func FromRangeReader(ctx context.Context, r RangeReader) (*Index, error) {
	size, err := r.Size()
	if err != nil {
		return nil, err
	}

	src := &rangeBlockSource{r: r, size: size}

	idHeader, err := readExact(r, 0, block.IdentificationSize)
	if err != nil {
		return nil, err
	}
	id, err := block.ParseIdentification(idHeader)
	if err != nil {
		return nil, err
	}
	if id.Minor() < parser.MinVersionMinor || id.Major() < 4 {
		return nil, errs.NewFileVersioning(id.VersionStr)
	}

	hdBuf, err := readExact(r, block.IdentificationSize, block.HeaderBlockSize)
	if err != nil {
		return nil, err
	}
	hd, err := block.FromBytesHD(hdBuf)
	if err != nil {
		return nil, err
	}

	idx := &Index{}

	addr := hd.FirstDataGroup
	for addr != 0 {
		dgBuf, err := readExact(r, addr, block.DataGroupSize)
		if err != nil {
			return nil, err
		}
		dg, err := block.FromBytesDG(dgBuf)
		if err != nil {
			return nil, err
		}

		cgAddrs, err := collectChannelGroupAddrs(r, dg.FirstChannelGrp)
		if err != nil {
			return nil, err
		}

		groups := make([]Group, len(cgAddrs))

		g, gctx := errgroup.WithContext(ctx)
		for i, cgAddr := range cgAddrs {
			i, cgAddr := i, cgAddr
			g.Go(func() error {
				grp, err := buildGroupFromRange(gctx, r, src, dg, cgAddr)
				if err != nil {
					return err
				}
				groups[i] = grp

				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		idx.Groups = append(idx.Groups, groups...)
		addr = dg.NextDataGroup
	}

	return idx, nil
}

func collectChannelGroupAddrs(r RangeReader, first uint64) ([]uint64, error) {
	var addrs []uint64

	addr := first
	for addr != 0 {
		buf, err := readExact(r, addr, block.ChannelGroupSize)
		if err != nil {
			return nil, err
		}
		cg, err := block.FromBytesCG(buf)
		if err != nil {
			return nil, err
		}

		addrs = append(addrs, addr)
		addr = cg.NextChannelGrp
	}

	return addrs, nil
}

func buildGroupFromRange(ctx context.Context, r RangeReader, src *rangeBlockSource, dg block.DataGroup, cgAddr uint64) (Group, error) {
	cgBuf, err := readExact(r, cgAddr, block.ChannelGroupSize)
	if err != nil {
		return Group{}, err
	}
	cg, err := block.FromBytesCG(cgBuf)
	if err != nil {
		return Group{}, err
	}

	g := Group{
		RecordIDSize:     dg.RecordIDSize,
		RecordSize:       cg.RecordSize,
		InvalidationSize: cg.InvalidationSize,
		RecordCount:      cg.CycleCount,
	}
	g.Name, _ = src.ReadText(cg.AcqName)
	g.NameHash = nameHash(g.Name)
	g.Comment, _ = src.ReadText(cg.Comment)

	locs, err := rangeBlockLocations(r, dg.DataBlock)
	if err != nil {
		return Group{}, err
	}
	g.Locations = locs

	cnAddr := cg.FirstChannel
	for cnAddr != 0 {
		select {
		case <-ctx.Done():
			return Group{}, ctx.Err()
		default:
		}

		cnBuf, err := readExact(r, cnAddr, block.ChannelSize)
		if err != nil {
			return Group{}, err
		}
		cn, err := block.FromBytesCN(cnBuf)
		if err != nil {
			return Group{}, err
		}

		ch := Channel{
			DataType:           cn.DataType,
			ByteOffset:         cn.ByteOffset,
			BitOffset:          cn.BitOffset,
			BitCount:           cn.BitCount,
			ChannelType:        cn.ChannelType,
			Flags:              cn.Flags,
			PosInvalidationBit: cn.PosInvalidationBit,
		}
		ch.Name, _ = src.ReadText(cn.Name)
		ch.NameHash = nameHash(ch.Name)
		ch.Unit, _ = src.ReadText(cn.Unit)

		if cn.Conversion != 0 {
			resolved, err := conversion.Resolve(cn.Conversion, src)
			if err != nil {
				return Group{}, err
			}
			ch.Conversion = resolved
		}

		if cn.Data != 0 {
			addr := cn.Data
			ch.VLSDDataAddress = &addr
		}

		g.Channels = append(g.Channels, ch)
		cnAddr = cn.NextChannel
	}

	return g, nil
}

func readExact(r RangeReader, offset uint64, length int) ([]byte, error) {
	buf, err := r.ReadRange(offset, uint64(length))
	if err != nil {
		return nil, err
	}
	if len(buf) < length {
		return nil, errs.NewTooShortBuffer(len(buf), length, "index.readExact")
	}

	return buf, nil
}
