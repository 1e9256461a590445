package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataListRoundTripEqualLength(t *testing.T) {
	dl := DataList{
		NextDataList: 99,
		Fragments:    []uint64{100, 200, 300},
		EqualLength:  true,
		CommonLength: 4096,
	}

	buf := dl.Bytes()
	parsed, err := FromBytesDL(buf)
	require.NoError(t, err)

	require.Equal(t, dl.NextDataList, parsed.NextDataList)
	require.Equal(t, dl.Fragments, parsed.Fragments)
	require.True(t, parsed.EqualLength)
	require.Equal(t, dl.CommonLength, parsed.CommonLength)
}

func TestDataListRoundTripPerFragmentLengths(t *testing.T) {
	dl := DataList{
		NextDataList: 0,
		Fragments:    []uint64{111, 222},
		EqualLength:  false,
		Lengths:      []uint64{1000, 2000},
	}

	buf := dl.Bytes()
	parsed, err := FromBytesDL(buf)
	require.NoError(t, err)

	require.Equal(t, dl.Fragments, parsed.Fragments)
	require.False(t, parsed.EqualLength)
	require.Equal(t, dl.Lengths, parsed.Lengths)
}
