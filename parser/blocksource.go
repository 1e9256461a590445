package parser

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/internal/zlib"
)

// blockSource implements conversion.BlockSource over an in-memory file buffer.
type blockSource struct {
	buf []byte
}

func (s blockSource) ReadConversion(address uint64) (block.Conversion, error) {
	if address == 0 || address >= uint64(len(s.buf)) {
		return block.Conversion{}, errs.NewBlockLink("CC")
	}

	return block.FromBytesCC(s.buf[address:])
}

func (s blockSource) ReadText(address uint64) (string, error) {
	if address == 0 || address >= uint64(len(s.buf)) {
		return "", errs.NewBlockLink("TX/MD")
	}

	h, err := block.ParseHeader(s.buf[address:])
	if err != nil {
		return "", err
	}

	switch h.ID {
	case block.IDTextBlock:
		tx, err := block.FromBytesTX(s.buf[address:])
		if err != nil {
			return "", err
		}

		return tx.Text, nil
	case block.IDMetadataBlock:
		md, err := block.FromBytesMD(s.buf[address:])
		if err != nil {
			return "", err
		}

		return md.XML, nil
	default:
		return "", errs.NewBlockID(h.ID, "TX/MD")
	}
}

// decompressDZBlock inflates a DZ block's payload and, for column-major
// "transpose" storage, restores row-major byte order.
func decompressDZBlock(dz block.DzBlock) ([]byte, error) {
	return zlib.Decompress(dz.ZipType, dz.ZipParameter, dz.Compressed, int(dz.OriginalSize))
}
