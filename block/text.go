package block

import (
	"bytes"

	"github.com/reneherrero/mdf4-rs-sub000/endian"
)

// TextBlock is the MDF TX block: a plain, null-terminated UTF-8 string.
type TextBlock struct {
	Header Header
	Text   string
}

// FromBytesTX parses a TX block; trailing null bytes are trimmed from the text.
func FromBytesTX(buf []byte) (TextBlock, error) {
	return parseTextLike(buf, IDTextBlock)
}

// Bytes serializes a TX block.
func (t TextBlock) Bytes() []byte {
	return textLikeBytes(IDTextBlock, t.Text)
}

// MetadataBlock is the MDF MD block: an XML payload, same wire shape as TX.
type MetadataBlock struct {
	Header Header
	XML    string
}

// FromBytesMD parses an MD block.
func FromBytesMD(buf []byte) (MetadataBlock, error) {
	t, err := parseTextLike(buf, IDMetadataBlock)
	if err != nil {
		return MetadataBlock{}, err
	}

	return MetadataBlock{Header: t.Header, XML: t.Text}, nil
}

// Bytes serializes an MD block.
func (m MetadataBlock) Bytes() []byte {
	return textLikeBytes(IDMetadataBlock, m.XML)
}

func parseTextLike(buf []byte, tag string) (TextBlock, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return TextBlock{}, err
	}
	if err := ExpectID(h, tag); err != nil {
		return TextBlock{}, err
	}
	if err := endian.ValidateBufferSize(buf, int(h.Length), "block.parseTextLike"); err != nil {
		return TextBlock{}, err
	}

	payload := buf[HeaderSize:h.Length]
	payload = bytes.TrimRight(payload, "\x00")

	return TextBlock{Header: h, Text: string(payload)}, nil
}

func textLikeBytes(tag string, text string) []byte {
	payload := []byte(text)
	payload = append(payload, 0) // null terminator
	unpadded := HeaderSize + len(payload)
	pad := (8 - unpadded%8) % 8
	size := unpadded + pad

	buf := make([]byte, size)
	h := Header{ID: tag, Length: uint64(size), LinkCount: 0}
	copy(buf[0:HeaderSize], h.Bytes())
	copy(buf[HeaderSize:], payload)

	return buf
}
