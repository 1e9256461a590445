package mdfwriter

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/reneherrero/mdf4-rs-sub000/errs"
)

// Archive compresses finalized MDF bytes into a cold-storage sidecar format,
// the writer-side counterpart to WithArchiveCompression.
func Archive(raw []byte, format ArchiveFormat) ([]byte, error) {
	switch format {
	case ArchiveNone:
		return raw, nil
	case ArchiveZstd:
		return archiveZstd(raw)
	case ArchiveLZ4:
		return archiveLZ4(raw)
	default:
		return nil, errs.NewBlockSerialization("mdfwriter: unknown archive format")
	}
}

func archiveZstd(raw []byte) ([]byte, error) {
	w, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errs.NewIO(err)
	}
	defer w.Close()

	return w.EncodeAll(raw, nil), nil
}

func archiveLZ4(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, errs.NewIO(err)
	}
	if err := w.Close(); err != nil {
		return nil, errs.NewIO(err)
	}

	return buf.Bytes(), nil
}
