package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataTypeClassification(t *testing.T) {
	cases := []struct {
		dt         DataType
		bigEndian  bool
		isString   bool
		isByteArr  bool
		isSigned   bool
		isFloat    bool
	}{
		{DataTypeUintLE, false, false, false, false, false},
		{DataTypeUintBE, true, false, false, false, false},
		{DataTypeIntLE, false, false, false, true, false},
		{DataTypeIntBE, true, false, false, true, false},
		{DataTypeFloatLE, false, false, false, false, true},
		{DataTypeFloatBE, true, false, false, false, true},
		{DataTypeStringUTF8, false, true, false, false, false},
		{DataTypeStringUTF16BE, true, true, false, false, false},
		{DataTypeByteArray, false, false, true, false, false},
		{DataTypeMimeSample, false, false, true, false, false},
	}

	for _, c := range cases {
		require.Equal(t, c.bigEndian, c.dt.IsBigEndian(), c.dt.String())
		require.Equal(t, c.isString, c.dt.IsString(), c.dt.String())
		require.Equal(t, c.isByteArr, c.dt.IsByteArray(), c.dt.String())
		require.Equal(t, c.isSigned, c.dt.IsSigned(), c.dt.String())
		require.Equal(t, c.isFloat, c.dt.IsFloat(), c.dt.String())
	}
}

func TestEnumStringersCoverKnownValues(t *testing.T) {
	require.Equal(t, "Master", ChannelTypeMaster.String())
	require.Equal(t, "Unknown", ChannelType(200).String())

	require.Equal(t, "Linear", ConversionLinear.String())
	require.Equal(t, "Unknown", ConversionType(200).String())

	require.Equal(t, "FloatLE", DataTypeFloatLE.String())
	require.Equal(t, "Unknown", DataType(200).String())
}
