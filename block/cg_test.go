package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelGroupRoundTrip(t *testing.T) {
	cg := ChannelGroup{
		NextChannelGrp: 10, FirstChannel: 20, AcqName: 30,
		RecordID: 1, CycleCount: 500, RecordSize: 16, InvalidationSize: 1,
	}

	buf := cg.Bytes()
	require.Len(t, buf, ChannelGroupSize)

	parsed, err := FromBytesCG(buf)
	require.NoError(t, err)
	require.Equal(t, cg.NextChannelGrp, parsed.NextChannelGrp)
	require.Equal(t, cg.FirstChannel, parsed.FirstChannel)
	require.Equal(t, cg.RecordID, parsed.RecordID)
	require.Equal(t, cg.CycleCount, parsed.CycleCount)
	require.Equal(t, cg.RecordSize, parsed.RecordSize)
	require.Equal(t, cg.InvalidationSize, parsed.InvalidationSize)
}

func TestRecordSizeInBytes(t *testing.T) {
	cg := ChannelGroup{RecordSize: 16, InvalidationSize: 1}
	require.Equal(t, 18, cg.RecordSizeInBytes(1))
	require.Equal(t, 17, cg.RecordSizeInBytes(0))
}
