package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsKnownID(t *testing.T) {
	require.True(t, IsKnownID(IDChannel))
	require.True(t, IsKnownID(IDDataZip))
	require.False(t, IsKnownID("ZZ  "))
}

func TestDispatchRoutesToTypedCodec(t *testing.T) {
	cg := ChannelGroup{RecordSize: 8}

	any, err := Dispatch(cg.Bytes())
	require.NoError(t, err)
	require.Equal(t, IDChannelGroup, any.Header.ID)

	parsed, ok := any.Value.(ChannelGroup)
	require.True(t, ok)
	require.Equal(t, uint32(8), parsed.RecordSize)
}

func TestDispatchUnknownIDReturnsBareHeader(t *testing.T) {
	h := Header{ID: "ZZ  ", Length: HeaderSize, LinkCount: 0}

	any, err := Dispatch(h.Bytes())
	require.NoError(t, err)
	require.Nil(t, any.Value)
	require.Equal(t, "ZZ  ", any.Header.ID)
}
