package block

import "github.com/reneherrero/mdf4-rs-sub000/endian"

// AttachmentFixedLinks is the number of fixed links in an AT block.
const AttachmentFixedLinks = 4

// Attachment flag bits.
const (
	AttachmentFlagEmbedded  uint16 = 1 << 0
	AttachmentFlagCompressed uint16 = 1 << 1
	AttachmentFlagMD5Valid  uint16 = 1 << 2
)

// Attachment is the MDF AT block.
type Attachment struct {
	Header Header

	Next     uint64
	Filename uint64
	Mime     uint64
	Comment  uint64

	Flags           uint16
	CreatorIndex    uint16
	MD5             [16]byte
	OriginalSize    uint64
	EmbeddedSize    uint64
	Embedded        []byte
}

// IsEmbedded, IsCompressed, HasValidMD5 report the corresponding flag bits.
func (a Attachment) IsEmbedded() bool   { return a.Flags&AttachmentFlagEmbedded != 0 }
func (a Attachment) IsCompressed() bool { return a.Flags&AttachmentFlagCompressed != 0 }
func (a Attachment) HasValidMD5() bool  { return a.Flags&AttachmentFlagMD5Valid != 0 }

// FromBytesAT parses an AT block.
func FromBytesAT(buf []byte) (Attachment, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Attachment{}, err
	}
	if err := ExpectID(h, IDAttachment); err != nil {
		return Attachment{}, err
	}

	const fixedDataSize = 2 + 2 + 4 + 16 + 8 + 8 // flags, creatorIndex, reserved, md5, origSize, embSize
	dataOff := HeaderSize + AttachmentFixedLinks*8
	if err := endian.ValidateBufferSize(buf, dataOff+fixedDataSize, "block.FromBytesAT"); err != nil {
		return Attachment{}, err
	}

	links, err := LinksAt(buf, AttachmentFixedLinks)
	if err != nil {
		return Attachment{}, err
	}

	flags, err := endian.ReadU16(buf, dataOff)
	if err != nil {
		return Attachment{}, err
	}
	creatorIndex, err := endian.ReadU16(buf, dataOff+2)
	if err != nil {
		return Attachment{}, err
	}
	var md5 [16]byte
	copy(md5[:], buf[dataOff+8:dataOff+24])
	origSize, err := endian.ReadU64(buf, dataOff+24)
	if err != nil {
		return Attachment{}, err
	}
	embSize, err := endian.ReadU64(buf, dataOff+32)
	if err != nil {
		return Attachment{}, err
	}

	embStart := dataOff + fixedDataSize
	embEnd := embStart + int(embSize)
	var embedded []byte
	if embSize > 0 {
		if err := endian.ValidateBufferSize(buf, embEnd, "block.FromBytesAT embedded"); err != nil {
			return Attachment{}, err
		}
		embedded = buf[embStart:embEnd]
	}

	return Attachment{
		Header:       h,
		Next:         links[0],
		Filename:     links[1],
		Mime:         links[2],
		Comment:      links[3],
		Flags:        flags,
		CreatorIndex: creatorIndex,
		MD5:          md5,
		OriginalSize: origSize,
		EmbeddedSize: embSize,
		Embedded:     embedded,
	}, nil
}

// Bytes serializes the AT block.
func (a Attachment) Bytes() []byte {
	const fixedDataSize = 2 + 2 + 4 + 16 + 8 + 8
	dataOff := HeaderSize + AttachmentFixedLinks*8
	size := dataOff + fixedDataSize + len(a.Embedded)

	buf := make([]byte, size)

	a.Header.ID = IDAttachment
	a.Header.Length = uint64(size)
	a.Header.LinkCount = AttachmentFixedLinks
	copy(buf[0:HeaderSize], a.Header.Bytes())

	buf = PutLinks(buf, []uint64{a.Next, a.Filename, a.Mime, a.Comment})

	buf = endian.WriteU16(buf, dataOff, a.Flags)
	buf = endian.WriteU16(buf, dataOff+2, a.CreatorIndex)
	copy(buf[dataOff+8:dataOff+24], a.MD5[:])
	buf = endian.WriteU64(buf, dataOff+24, a.OriginalSize)
	buf = endian.WriteU64(buf, dataOff+32, uint64(len(a.Embedded)))
	copy(buf[dataOff+fixedDataSize:], a.Embedded)

	return buf
}
