package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/reneherrero/mdf4-rs-sub000/mdfwriter"
	"github.com/reneherrero/mdf4-rs-sub000/parser"
)

// buildVLSDFile writes a data group with one master time channel, one
// fixed-length uint16 value channel, and one VLSD string channel, strs[i]
// corresponding positionally to the i-th record.
func buildVLSDFile(t *testing.T, strs []string) []byte {
	t.Helper()

	sink := mdfwriter.NewMemorySink()
	w, err := mdfwriter.New(sink)
	require.NoError(t, err)
	require.NoError(t, w.InitFile("index_vlsd_test"))

	dg, err := w.AddDataGroup(0)
	require.NoError(t, err)
	cg, err := w.AddChannelGroup(dg, "main")
	require.NoError(t, err)

	timeCh, err := w.AddChannel(cg, "time", format.DataTypeFloatLE, 64, nil)
	require.NoError(t, err)
	require.NoError(t, w.SetTimeChannel(timeCh))

	_, err = w.AddChannel(cg, "value", format.DataTypeUintLE, 16, nil)
	require.NoError(t, err)

	vlsdCh, err := w.AddVLSDChannel(cg, "label", format.DataTypeStringUTF8)
	require.NoError(t, err)

	require.NoError(t, w.StartDataBlockForCG(cg))
	for i, s := range strs {
		row := []conversion.Value{
			conversion.FloatValue(float64(i) / 10),
			conversion.UintValue(uint64(i)),
			conversion.UintValue(0), // VLSD channel's main-record slot is a no-op
		}
		require.NoError(t, w.WriteRecord(cg, row))
		w.WriteVLSDRecord(vlsdCh, []byte(s+"\x00"))
	}
	require.NoError(t, w.Finalize())

	return sink.Bytes()
}

func TestReadChannelValuesResolvesVLSDStringChannel(t *testing.T) {
	strs := []string{"alpha", "bravo", "charlie", "delta"}
	data := buildVLSDFile(t, strs)

	f, err := parser.Parse(data)
	require.NoError(t, err)

	idx, err := FromParsed(f)
	require.NoError(t, err)
	require.Len(t, idx.Groups, 1)

	g, ch, ok := idx.FindChannelByNameGlobal("label")
	require.True(t, ok)

	r := &memRangeReader{buf: data}
	vals, err := g.ReadChannelValues(*ch, r)
	require.NoError(t, err)
	require.Len(t, vals, len(strs))

	for i, want := range strs {
		require.True(t, vals[i].IsValid)
		require.True(t, vals[i].Converted.IsString())
		require.Equal(t, want, vals[i].Converted.Str)
	}
}

func TestReadChannelValuesVLSDMatchesAcrossFromParsedAndFromRangeReader(t *testing.T) {
	strs := []string{"one", "two", "three"}
	data := buildVLSDFile(t, strs)

	f, err := parser.Parse(data)
	require.NoError(t, err)

	fromParsed, err := FromParsed(f)
	require.NoError(t, err)

	r := &memRangeReader{buf: data}
	fromRange, err := FromRangeReader(context.Background(), r)
	require.NoError(t, err)

	gParsed, chParsed, ok := fromParsed.FindChannelByNameGlobal("label")
	require.True(t, ok)
	gRange, chRange, ok := fromRange.FindChannelByNameGlobal("label")
	require.True(t, ok)

	valsParsed, err := gParsed.ReadChannelValues(*chParsed, r)
	require.NoError(t, err)
	valsRange, err := gRange.ReadChannelValues(*chRange, r)
	require.NoError(t, err)

	require.Len(t, valsParsed, len(strs))
	require.Len(t, valsRange, len(strs))

	for i := range strs {
		require.True(t, valsParsed[i].Converted.IsString())
		require.True(t, valsRange[i].Converted.IsString())
		require.Equal(t, valsParsed[i].Converted.Str, valsRange[i].Converted.Str)
		require.Equal(t, strs[i], valsParsed[i].Converted.Str)
	}
}
