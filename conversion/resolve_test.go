package conversion

import (
	"fmt"
	"testing"

	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/stretchr/testify/require"
)

// fakeSource is an in-memory BlockSource keyed by synthetic addresses.
type fakeSource struct {
	conversions map[uint64]block.Conversion
	texts       map[uint64]string
}

func (f *fakeSource) ReadConversion(address uint64) (block.Conversion, error) {
	cc, ok := f.conversions[address]
	if !ok {
		return block.Conversion{}, fmt.Errorf("no conversion at 0x%x", address)
	}
	return cc, nil
}

func (f *fakeSource) ReadText(address uint64) (string, error) {
	text, ok := f.texts[address]
	if !ok {
		return "", fmt.Errorf("no text at 0x%x", address)
	}
	return text, nil
}

func TestResolveLinearNoRefs(t *testing.T) {
	src := &fakeSource{
		conversions: map[uint64]block.Conversion{
			1: {Type: format.ConversionLinear, Val: []float64{0, 2}, Name: 10, Unit: 20},
		},
		texts: map[uint64]string{10: "rpm_to_hz", 20: "Hz"},
	}

	r, err := Resolve(1, src)
	require.NoError(t, err)
	require.Equal(t, format.ConversionLinear, r.Type)
	require.Equal(t, "rpm_to_hz", r.Name)
	require.Equal(t, "Hz", r.Unit)
	require.Equal(t, []float64{0, 2}, r.Val)
}

func TestResolveAlgebraicFormulaFromFirstRef(t *testing.T) {
	src := &fakeSource{
		conversions: map[uint64]block.Conversion{
			1: {Type: format.ConversionAlgebraic, Ref: []uint64{99}},
		},
		texts: map[uint64]string{99: "X*2"},
	}

	r, err := Resolve(1, src)
	require.NoError(t, err)
	require.Equal(t, "X*2", r.AlgebraicFormula)
}

func TestResolveNestedConversion(t *testing.T) {
	src := &fakeSource{
		conversions: map[uint64]block.Conversion{
			1: {Type: format.ConversionValueToText, Val: []float64{1}, Ref: []uint64{2}},
			2: {Type: format.ConversionLinear, Val: []float64{0, 1}},
		},
	}

	r, err := Resolve(1, src)
	require.NoError(t, err)
	require.Len(t, r.ResolvedConversions, 1)
	require.NotNil(t, r.ResolvedConversions[0])
	require.Equal(t, format.ConversionLinear, r.ResolvedConversions[0].Type)
}

func TestResolveCycleDetected(t *testing.T) {
	src := &fakeSource{
		conversions: map[uint64]block.Conversion{
			1: {Type: format.ConversionValueToText, Val: []float64{1}, Ref: []uint64{2}},
			2: {Type: format.ConversionValueToText, Val: []float64{1}, Ref: []uint64{1}},
		},
	}

	_, err := Resolve(1, src)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrConversionChainCycle)
}

func TestResolveDepthCapped(t *testing.T) {
	src := &fakeSource{conversions: map[uint64]block.Conversion{}}

	// build a chain 1 -> 2 -> 3 -> ... deeper than MaxChainDepth, each link
	// distinct so it isn't caught by cycle detection first.
	for i := uint64(1); i <= MaxChainDepth+5; i++ {
		src.conversions[i] = block.Conversion{
			Type: format.ConversionValueToText,
			Val:  []float64{1},
			Ref:  []uint64{i + 1},
		}
	}
	src.conversions[MaxChainDepth+6] = block.Conversion{Type: format.ConversionLinear, Val: []float64{0, 1}}

	_, err := Resolve(1, src)
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrConversionChainTooDeep)
}

func TestResolveRangeToTextDefaultConversion(t *testing.T) {
	src := &fakeSource{
		conversions: map[uint64]block.Conversion{
			1: {
				Type:     format.ConversionRangeToText,
				Val:      []float64{0, 10},
				Ref:      []uint64{50, 2},
				RefCount: 2,
			},
			2: {Type: format.ConversionLinear, Val: []float64{0, 1}},
		},
		texts: map[uint64]string{50: "low"},
	}

	r, err := Resolve(1, src)
	require.NoError(t, err)
	require.NotNil(t, r.DefaultConversion)
	require.Equal(t, format.ConversionLinear, r.DefaultConversion.Type)
}

func TestResolveRangeToTextDefaultText(t *testing.T) {
	src := &fakeSource{
		conversions: map[uint64]block.Conversion{
			1: {
				Type:     format.ConversionRangeToText,
				Val:      []float64{0, 10},
				Ref:      []uint64{50, 51},
				RefCount: 2,
			},
		},
		texts: map[uint64]string{50: "low", 51: "fallback"},
	}

	r, err := Resolve(1, src)
	require.NoError(t, err)
	require.Equal(t, "fallback", r.DefaultText)
	require.Nil(t, r.DefaultConversion)
}

func TestResolvePhysicalRangeCarried(t *testing.T) {
	src := &fakeSource{
		conversions: map[uint64]block.Conversion{
			1: {Type: format.ConversionIdentity, HasPhysRange: true, PhysMin: -10, PhysMax: 10},
		},
	}

	r, err := Resolve(1, src)
	require.NoError(t, err)
	require.True(t, r.HasPhysRange)
	require.Equal(t, -10.0, r.PhysMin)
	require.Equal(t, 10.0, r.PhysMax)
}
