package block

import (
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// EventBaseFixedLinks is the number of fixed links before the variable
// scope/attachment vectors.
const EventBaseFixedLinks = 5

// Event is the MDF EV block.
type Event struct {
	Header Header

	Next        uint64
	Parent      uint64
	RangeStart  uint64
	Name        uint64
	Comment     uint64
	Scopes      []uint64 // scope_count entries
	Attachments []uint64 // attachment_count entries

	EventType    format.EventType
	SyncType     format.EventSyncType
	RangeType    uint8
	Cause        uint8
	Flags        uint8
	ScopeCount   uint32
	AttachCount  uint16
	CreatorIndex uint16
	SyncBase     int64
	SyncFactor   float64
}

// FromBytesEV parses an EV block. scope_count and attachment_count come from
// the fixed data fields, not from link_count, since they are interleaved with
// a non-vector data section.
func FromBytesEV(buf []byte) (Event, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Event{}, err
	}
	if err := ExpectID(h, IDEvent); err != nil {
		return Event{}, err
	}
	if err := endian.ValidateBufferSize(buf, HeaderSize+EventBaseFixedLinks*8, "block.FromBytesEV base links"); err != nil {
		return Event{}, err
	}

	baseLinks, err := LinksAt(buf, EventBaseFixedLinks)
	if err != nil {
		return Event{}, err
	}

	// The total link vector is 5 + scope_count + attachment_count; both counts
	// live in the fixed data section which follows all links, so we must read
	// link_count first to locate that data section, then re-slice the scope
	// and attachment sub-vectors out of the already-read link array.
	totalLinks := int(h.LinkCount)
	if totalLinks < EventBaseFixedLinks {
		totalLinks = EventBaseFixedLinks
	}
	if err := endian.ValidateBufferSize(buf, HeaderSize+totalLinks*8, "block.FromBytesEV all links"); err != nil {
		return Event{}, err
	}
	allLinks, err := LinksAt(buf, totalLinks)
	if err != nil {
		return Event{}, err
	}

	dataOff := HeaderSize + totalLinks*8
	const fixedDataSize = 1 + 1 + 1 + 1 + 1 + 3 + 4 + 2 + 2 + 8 + 8
	if err := endian.ValidateBufferSize(buf, dataOff+fixedDataSize, "block.FromBytesEV data"); err != nil {
		return Event{}, err
	}

	eventType, _ := endian.ReadU8(buf, dataOff)
	syncType, _ := endian.ReadU8(buf, dataOff+1)
	rangeType, _ := endian.ReadU8(buf, dataOff+2)
	cause, _ := endian.ReadU8(buf, dataOff+3)
	flags, _ := endian.ReadU8(buf, dataOff+4)
	scopeCount, err := endian.ReadU32(buf, dataOff+8)
	if err != nil {
		return Event{}, err
	}
	attachCount, err := endian.ReadU16(buf, dataOff+12)
	if err != nil {
		return Event{}, err
	}
	creatorIndex, err := endian.ReadU16(buf, dataOff+14)
	if err != nil {
		return Event{}, err
	}
	syncBase, err := endian.ReadI64(buf, dataOff+16)
	if err != nil {
		return Event{}, err
	}
	syncFactor, err := endian.ReadF64(buf, dataOff+24)
	if err != nil {
		return Event{}, err
	}

	variable := allLinks[EventBaseFixedLinks:]
	nScope := int(scopeCount)
	if nScope > len(variable) {
		nScope = len(variable)
	}
	scopes := append([]uint64(nil), variable[:nScope]...)

	rest := variable[nScope:]
	nAttach := int(attachCount)
	if nAttach > len(rest) {
		nAttach = len(rest)
	}
	attachments := append([]uint64(nil), rest[:nAttach]...)

	return Event{
		Header:       h,
		Next:         baseLinks[0],
		Parent:       baseLinks[1],
		RangeStart:   baseLinks[2],
		Name:         baseLinks[3],
		Comment:      baseLinks[4],
		Scopes:       scopes,
		Attachments:  attachments,
		EventType:    format.EventType(eventType),
		SyncType:     format.EventSyncType(syncType),
		RangeType:    rangeType,
		Cause:        cause,
		Flags:        flags,
		ScopeCount:   scopeCount,
		AttachCount:  attachCount,
		CreatorIndex: creatorIndex,
		SyncBase:     syncBase,
		SyncFactor:   syncFactor,
	}, nil
}

// Bytes serializes the EV block.
func (e Event) Bytes() []byte {
	totalLinks := EventBaseFixedLinks + len(e.Scopes) + len(e.Attachments)
	dataOff := HeaderSize + totalLinks*8
	const fixedDataSize = 1 + 1 + 1 + 1 + 1 + 3 + 4 + 2 + 2 + 8 + 8
	size := dataOff + fixedDataSize

	buf := make([]byte, size)

	e.Header.ID = IDEvent
	e.Header.Length = uint64(size)
	e.Header.LinkCount = uint64(totalLinks)
	copy(buf[0:HeaderSize], e.Header.Bytes())

	links := make([]uint64, 0, totalLinks)
	links = append(links, e.Next, e.Parent, e.RangeStart, e.Name, e.Comment)
	links = append(links, e.Scopes...)
	links = append(links, e.Attachments...)
	buf = PutLinks(buf, links)

	buf = endian.WriteU8(buf, dataOff, uint8(e.EventType))
	buf = endian.WriteU8(buf, dataOff+1, uint8(e.SyncType))
	buf = endian.WriteU8(buf, dataOff+2, e.RangeType)
	buf = endian.WriteU8(buf, dataOff+3, e.Cause)
	buf = endian.WriteU8(buf, dataOff+4, e.Flags)
	buf = endian.WriteU32(buf, dataOff+8, uint32(len(e.Scopes)))
	buf = endian.WriteU16(buf, dataOff+12, uint16(len(e.Attachments)))
	buf = endian.WriteU16(buf, dataOff+14, e.CreatorIndex)
	buf = endian.WriteI64(buf, dataOff+16, e.SyncBase)
	buf = endian.WriteF64(buf, dataOff+24, e.SyncFactor)

	return buf
}
