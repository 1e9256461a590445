package index

import (
	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/reneherrero/mdf4-rs-sub000/internal/hash"
)

// Index is a self-contained, serializable catalog of one MDF file.
type Index struct {
	Groups []Group `json:"groups"`
}

// Group mirrors one channel group: its layout constants, record count, the
// data blocks that hold its records, and its channels' descriptors.
type Group struct {
	Name             string     `json:"name"`
	NameHash         uint64     `json:"name_hash"`
	Comment          string     `json:"comment"`
	RecordIDSize     uint8      `json:"record_id_size"`
	RecordSize       uint32     `json:"record_size"`
	InvalidationSize uint32     `json:"invalidation_size"`
	RecordCount      uint64     `json:"record_count"`
	Locations        []Location `json:"locations"`
	Channels         []Channel  `json:"channels"`
}

// Location is one data block backing a group's records. Fingerprint is the
// xxHash64 of the block's 24-byte header as read at build time, letting
// ReadChannelValues detect a RangeReader silently returning stale or
// truncated bytes for the same offset on a later pass.
type Location struct {
	FileOffset          uint64 `json:"file_offset"`
	SizeIncludingHeader uint64 `json:"size_including_header"`
	IsCompressed        bool   `json:"is_compressed"`
	Fingerprint         uint64 `json:"fingerprint"`
}

// Channel is a fully self-contained channel descriptor: no links, no
// back-references into the source file.
type Channel struct {
	Name               string               `json:"name"`
	NameHash           uint64               `json:"name_hash"`
	Unit               string               `json:"unit"`
	DataType           format.DataType      `json:"data_type"`
	ByteOffset         uint32               `json:"byte_offset"`
	BitOffset          uint8                `json:"bit_offset"`
	BitCount           uint32               `json:"bit_count"`
	ChannelType        format.ChannelType   `json:"channel_type"`
	Flags              uint32               `json:"flags"`
	PosInvalidationBit uint32               `json:"pos_invalidation_bit"`
	VLSDDataAddress    *uint64              `json:"vlsd_data_address,omitempty"`
	Conversion         *conversion.Resolved `json:"conversion,omitempty"`
}

// nameHash computes the fast-lookup fingerprint for a channel or group name.
func nameHash(name string) uint64 { return hash.Name(name) }
