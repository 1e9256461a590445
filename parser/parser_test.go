package parser

import (
	"testing"

	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/reneherrero/mdf4-rs-sub000/mdfwriter"
	"github.com/reneherrero/mdf4-rs-sub000/record"
	"github.com/stretchr/testify/require"
)

func TestParseSingleGroupRoundTrip(t *testing.T) {
	sink := mdfwriter.NewMemorySink()
	w, err := mdfwriter.New(sink)
	require.NoError(t, err)
	require.NoError(t, w.InitFile("parser_test"))

	dg, err := w.AddDataGroup(0)
	require.NoError(t, err)
	cg, err := w.AddChannelGroup(dg, "main")
	require.NoError(t, err)

	timeCh, err := w.AddChannel(cg, "time", format.DataTypeFloatLE, 64, nil)
	require.NoError(t, err)
	require.NoError(t, w.SetTimeChannel(timeCh))
	_, err = w.AddChannel(cg, "value", format.DataTypeUintLE, 16, nil)
	require.NoError(t, err)

	require.NoError(t, w.StartDataBlockForCG(cg))
	require.NoError(t, w.WriteRecords(cg, [][]conversion.Value{
		{conversion.FloatValue(0), conversion.UintValue(7)},
		{conversion.FloatValue(1), conversion.UintValue(9)},
	}))
	require.NoError(t, w.Finalize())

	f, err := Parse(sink.Bytes())
	require.NoError(t, err)
	require.Len(t, f.DataGroups, 1)

	parsedCG := f.DataGroups[0].Groups[0]
	require.Equal(t, "main", parsedCG.Name)
	require.Len(t, parsedCG.Channels, 2)

	records := parsedCG.Records()
	require.Len(t, records, 2)

	valueDesc := record.FromChannel(parsedCG.Channels[1].Block)
	v, err := record.DecodeValue(valueDesc, records[1], 0, nil)
	require.NoError(t, err)
	require.Equal(t, conversion.UintValue(9), v)
}

// buildInterleavedTwoCGFile writes a single data group holding two channel
// groups that share one physical data block, each with its own record id, to
// exercise demuxInterleaved.
func buildInterleavedTwoCGFile(t *testing.T) []byte {
	t.Helper()

	sink := mdfwriter.NewMemorySink()
	w, err := mdfwriter.New(sink)
	require.NoError(t, err)
	require.NoError(t, w.InitFile("parser_test"))

	dg, err := w.AddDataGroup(1)
	require.NoError(t, err)

	cgA, err := w.AddChannelGroup(dg, "groupA")
	require.NoError(t, err)
	require.NoError(t, w.SetRecordID(cgA, 1))
	_, err = w.AddChannel(cgA, "a_value", format.DataTypeUintLE, 16, nil)
	require.NoError(t, err)

	cgB, err := w.AddChannelGroup(dg, "groupB")
	require.NoError(t, err)
	require.NoError(t, w.SetRecordID(cgB, 2))
	_, err = w.AddChannel(cgB, "b_value", format.DataTypeUintLE, 32, nil)
	require.NoError(t, err)

	require.NoError(t, w.StartDataBlockForCG(cgA))
	require.NoError(t, w.StartDataBlockForCG(cgB))

	require.NoError(t, w.WriteRecord(cgA, []conversion.Value{conversion.UintValue(100)}))
	require.NoError(t, w.WriteRecord(cgB, []conversion.Value{conversion.UintValue(900000)}))
	require.NoError(t, w.WriteRecord(cgA, []conversion.Value{conversion.UintValue(101)}))
	require.NoError(t, w.WriteRecord(cgB, []conversion.Value{conversion.UintValue(900001)}))

	require.NoError(t, w.Finalize())

	return sink.Bytes()
}

func TestParseInterleavedMultiChannelGroupDemux(t *testing.T) {
	data := buildInterleavedTwoCGFile(t)

	f, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, f.DataGroups, 1)

	dg := f.DataGroups[0]
	require.Len(t, dg.Groups, 2)

	cgA, cgB := dg.Groups[0], dg.Groups[1]
	require.Equal(t, "groupA", cgA.Name)
	require.Equal(t, "groupB", cgB.Name)

	recsA := cgA.Records()
	recsB := cgB.Records()
	require.Len(t, recsA, 2)
	require.Len(t, recsB, 2)

	descA := record.FromChannel(cgA.Channels[0].Block)
	descB := record.FromChannel(cgB.Channels[0].Block)

	vA0, err := record.DecodeValue(descA, recsA[0], dg.Block.RecordIDSize, nil)
	require.NoError(t, err)
	require.Equal(t, conversion.UintValue(100), vA0)

	vA1, err := record.DecodeValue(descA, recsA[1], dg.Block.RecordIDSize, nil)
	require.NoError(t, err)
	require.Equal(t, conversion.UintValue(101), vA1)

	vB0, err := record.DecodeValue(descB, recsB[0], dg.Block.RecordIDSize, nil)
	require.NoError(t, err)
	require.Equal(t, conversion.UintValue(900000), vB0)

	vB1, err := record.DecodeValue(descB, recsB[1], dg.Block.RecordIDSize, nil)
	require.NoError(t, err)
	require.Equal(t, conversion.UintValue(900001), vB1)
}

func TestParseRejectsPreMDF4File(t *testing.T) {
	data := []byte("not an mdf file at all, far too short")
	_, err := Parse(data)
	require.Error(t, err)
}

func TestParseRejectsOldMinorVersion(t *testing.T) {
	sink := mdfwriter.NewMemorySink()
	w, err := mdfwriter.New(sink)
	require.NoError(t, err)
	require.NoError(t, w.InitFile("parser_test"))
	require.NoError(t, w.Finalize())

	data := sink.Bytes()
	// version_number is a little-endian uint16 at byte offset 28 of the ID
	// block; drop it from 410 (4.10) to 400 (4.00) to exercise the
	// MinVersionMinor rejection path.
	data[28] = 0x90
	data[29] = 0x01

	_, err = Parse(data)
	require.Error(t, err)
}
