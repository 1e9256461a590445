package mdfwriter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/reneherrero/mdf4-rs-sub000/parser"
	"github.com/reneherrero/mdf4-rs-sub000/record"
)

func TestAddValueToTextConversionEndToEnd(t *testing.T) {
	sink := NewMemorySink()
	w, err := New(sink)
	require.NoError(t, err)
	require.NoError(t, w.InitFile("conversion_test"))

	dg, err := w.AddDataGroup(0)
	require.NoError(t, err)
	cg, err := w.AddChannelGroup(dg, "group1")
	require.NoError(t, err)

	ch, err := w.AddChannel(cg, "state", format.DataTypeUintLE, 8, nil)
	require.NoError(t, err)

	mapping := map[float64]string{
		0: "Off",
		1: "On",
		2: "Fault",
	}
	require.NoError(t, w.AddValueToTextConversion(cg, ch, mapping, "Unknown"))

	require.NoError(t, w.StartDataBlockForCG(cg))
	rows := [][]conversion.Value{
		{conversion.UintValue(0)},
		{conversion.UintValue(1)},
		{conversion.UintValue(2)},
		{conversion.UintValue(99)}, // not in mapping
	}
	require.NoError(t, w.WriteRecords(cg, rows))
	require.NoError(t, w.Finalize())

	f, err := parser.Parse(sink.Bytes())
	require.NoError(t, err)
	require.Len(t, f.DataGroups, 1)

	parsedCG := f.DataGroups[0].Groups[0]
	require.Len(t, parsedCG.Channels, 1)

	stateCh := parsedCG.Channels[0]
	require.NotNil(t, stateCh.Conversion)

	desc := record.FromChannel(stateCh.Block)

	want := []string{"Off", "On", "Fault", "Unknown"}
	for i, rec := range parsedCG.Records() {
		raw, err := record.DecodeValue(desc, rec, 0, nil)
		require.NoError(t, err)

		converted, err := stateCh.Conversion.Apply(raw)
		require.NoError(t, err)
		require.True(t, converted.IsString())
		require.Equal(t, want[i], converted.Str)
	}
}
