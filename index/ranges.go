package index

// ByteRange is one (offset, length) tuple to fetch, covering exactly the
// bytes of interest within one data block.
type ByteRange struct {
	Offset uint64
	Length uint64
}

// valueWidth returns the number of bytes a channel's value occupies in one
// record: bit_count/8 for strings/byte arrays, ceil((bit_offset+bit_count)/8)
// for numerics.
func valueWidth(ch Channel) int {
	if ch.DataType.IsString() || ch.DataType.IsByteArray() {
		return int(ch.BitCount) / 8
	}

	return (int(ch.BitOffset) + int(ch.BitCount) + 7) / 8
}

// ByteRangesForWindow computes the minimal set of (offset, length) tuples
// within g's data blocks that cover ch's values for the record window
// [startRecord, startRecord+count).
func (g Group) ByteRangesForWindow(ch Channel, startRecord, count uint64) []ByteRange {
	recLen := uint64(int(g.RecordIDSize) + int(g.RecordSize) + int(g.InvalidationSize))
	if recLen == 0 || count == 0 {
		return nil
	}

	width := uint64(valueWidth(ch))
	valueOff := uint64(g.RecordIDSize) + uint64(ch.ByteOffset)

	endRecord := startRecord + count

	var ranges []ByteRange
	var recordsBefore uint64

	for _, loc := range g.Locations {
		headerLen := uint64(24)
		payloadLen := loc.SizeIncludingHeader - headerLen
		recsInBlock := payloadLen / recLen

		blockStart := recordsBefore
		blockEnd := recordsBefore + recsInBlock

		lo := max64(startRecord, blockStart)
		hi := min64(endRecord, blockEnd)

		if lo < hi {
			firstOffsetInBlock := (lo - blockStart) * recLen

			fileStart := loc.FileOffset + headerLen + firstOffsetInBlock + valueOff
			fileLen := (hi-lo-1)*recLen + width

			ranges = append(ranges, ByteRange{Offset: fileStart, Length: fileLen})
		}

		recordsBefore = blockEnd
	}

	return ranges
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}

	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}

	return b
}
