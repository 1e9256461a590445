package block

import "github.com/reneherrero/mdf4-rs-sub000/endian"

// DataBlock is the MDF DT/DV block: raw records concatenated, no links.
// DV is a wire-identical variant used for "values only" streams; both are
// represented by the same struct since decoding does not distinguish them.
type DataBlock struct {
	Header Header
}

// FromBytesDT parses a DT block header and checks its id; it does not check
// that buf holds the declared length. When header.Length == HeaderSize the
// file is unfinalized for this block: the caller should
// fall back to reading to the end of the surrounding buffer.
func FromBytesDT(buf []byte) (DataBlock, error) {
	return fromBytesDataLike(buf, IDDataBlock)
}

// FromBytesDV parses a DV block header, same shape as DT.
func FromBytesDV(buf []byte) (DataBlock, error) {
	return fromBytesDataLike(buf, IDDataValues)
}

func fromBytesDataLike(buf []byte, tag string) (DataBlock, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return DataBlock{}, err
	}
	if err := ExpectID(h, tag); err != nil {
		return DataBlock{}, err
	}

	return DataBlock{Header: h}, nil
}

// Payload returns the record-stream payload of a DT/DV block given the full
// buffer it lives in (starting at the block header) and, for the unfinalized
// read-to-end-of-file case, an end index into blockBuf; fileEnd is clamped to
// len(blockBuf), so passing the whole file's length reads to the end of blockBuf.
func (d DataBlock) Payload(blockBuf []byte, fileEnd int) []byte {
	if d.Header.Length == HeaderSize {
		// unfinalized: length field was never patched, read to EOF.
		if fileEnd > len(blockBuf) {
			fileEnd = len(blockBuf)
		}

		return blockBuf[HeaderSize:fileEnd]
	}

	end := int(d.Header.Length)
	if end > len(blockBuf) {
		end = len(blockBuf)
	}

	return blockBuf[HeaderSize:end]
}

// BytesDT serializes a DT header for the given payload length (caller appends payload).
func BytesDT(payloadLen int) []byte {
	return bytesDataLike(IDDataBlock, payloadLen)
}

// BytesDV serializes a DV header for the given payload length.
func BytesDV(payloadLen int) []byte {
	return bytesDataLike(IDDataValues, payloadLen)
}

func bytesDataLike(tag string, payloadLen int) []byte {
	size := HeaderSize + payloadLen
	h := Header{ID: tag, Length: uint64(size), LinkCount: 0}
	return h.Bytes()
}

// SignalDataBlock is the MDF SD block: VLSD payload of [u32 length][bytes] records.
type SignalDataBlock struct {
	Header  Header
	Records [][]byte
}

// FromBytesSD parses an SD block's [u32 length][bytes]* records.
func FromBytesSD(buf []byte) (SignalDataBlock, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return SignalDataBlock{}, err
	}
	if err := ExpectID(h, IDSignalData); err != nil {
		return SignalDataBlock{}, err
	}
	if err := endian.ValidateBufferSize(buf, int(h.Length), "block.FromBytesSD"); err != nil {
		return SignalDataBlock{}, err
	}

	payload := buf[HeaderSize:h.Length]
	records, err := ParseSDRecords(payload)
	if err != nil {
		return SignalDataBlock{}, err
	}

	return SignalDataBlock{Header: h, Records: records}, nil
}

// ParseSDRecords decodes a bare [u32 length][bytes]* record stream, the SD
// payload shape, usable both for an on-disk SD block's payload
// and for a DZ-decompressed SD payload (which carries no block header).
func ParseSDRecords(payload []byte) ([][]byte, error) {
	var records [][]byte
	off := 0
	for off+4 <= len(payload) {
		n, err := endian.ReadU32(payload, off)
		if err != nil {
			return nil, err
		}
		off += 4
		if err := endian.ValidateBufferSize(payload, off+int(n), "block.ParseSDRecords"); err != nil {
			return nil, err
		}
		records = append(records, payload[off:off+int(n)])
		off += int(n)
	}

	return records, nil
}

// Bytes serializes an SD block.
func (s SignalDataBlock) Bytes() []byte {
	payloadLen := 0
	for _, r := range s.Records {
		payloadLen += 4 + len(r)
	}

	size := HeaderSize + payloadLen
	buf := make([]byte, size)

	h := Header{ID: IDSignalData, Length: uint64(size), LinkCount: 0}
	copy(buf[0:HeaderSize], h.Bytes())

	off := HeaderSize
	for _, r := range s.Records {
		buf = endian.WriteU32(buf, off, uint32(len(r)))
		off += 4
		copy(buf[off:off+len(r)], r)
		off += len(r)
	}

	return buf
}
