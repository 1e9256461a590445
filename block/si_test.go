package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reneherrero/mdf4-rs-sub000/format"
)

func TestSourceRoundTrip(t *testing.T) {
	si := Source{
		Name: 10, Path: 20, Comment: 30,
		SourceType: format.SourceTypeECU,
		BusType:    format.BusTypeCAN,
		Flags:      1,
	}

	buf := si.Bytes()
	require.Len(t, buf, SourceSize)

	parsed, err := FromBytesSI(buf)
	require.NoError(t, err)

	require.Equal(t, si.Name, parsed.Name)
	require.Equal(t, si.Path, parsed.Path)
	require.Equal(t, si.Comment, parsed.Comment)
	require.Equal(t, si.SourceType, parsed.SourceType)
	require.Equal(t, si.BusType, parsed.BusType)
	require.Equal(t, si.Flags, parsed.Flags)
}
