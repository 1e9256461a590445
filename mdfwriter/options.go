package mdfwriter

import "github.com/reneherrero/mdf4-rs-sub000/internal/options"

// DefaultBufferSize is the default internal buffer size for a FileSink.
const DefaultBufferSize = 1 << 20

// DefaultDataBlockCap is the default fragmenting cap for an open DT.
const DefaultDataBlockCap = 4 << 20

// ArchiveFormat selects the optional sidecar compression applied to a
// finalized sink's bytes.
type ArchiveFormat uint8

const (
	// ArchiveNone disables sidecar compression; finalize writes plain MDF bytes.
	ArchiveNone ArchiveFormat = iota
	// ArchiveZstd compresses the finalized output with zstd.
	ArchiveZstd
	// ArchiveLZ4 compresses the finalized output with LZ4.
	ArchiveLZ4
)

// Config holds a Writer's configuration, populated by Option values.
type Config struct {
	dataBlockCap     int
	flushEveryRecs   int
	flushEveryBytes  int
	archiveFormat    ArchiveFormat
	scratchBufferCap int
}

// Option configures a Writer at construction time.
type Option = options.Option[*Config]

func defaultConfig() *Config {
	return &Config{
		dataBlockCap:     DefaultDataBlockCap,
		scratchBufferCap: DefaultBufferSize,
	}
}

// WithDataBlockCap overrides the fragmenting cap for open DT blocks.
func WithDataBlockCap(bytes int) Option {
	return options.NoError(func(c *Config) { c.dataBlockCap = bytes })
}

// WithFlushEveryRecords triggers sink.Flush() after every n records written
// to any open data block.
func WithFlushEveryRecords(n int) Option {
	return options.NoError(func(c *Config) { c.flushEveryRecs = n })
}

// WithFlushEveryBytes triggers sink.Flush() after every n bytes written to
// any open data block.
func WithFlushEveryBytes(n int) Option {
	return options.NoError(func(c *Config) { c.flushEveryBytes = n })
}

// WithArchiveCompression makes Finalize also compress the finished output in
// the given archive format into a sidecar returned by Writer.Archived; the
// sink's own bytes stay plain MDF.
func WithArchiveCompression(format ArchiveFormat) Option {
	return options.NoError(func(c *Config) { c.archiveFormat = format })
}
