package conversion

import (
	"math"
	"testing"

	"github.com/reneherrero/mdf4-rs-sub000/format"
	"github.com/stretchr/testify/require"
)

func TestApplyIdentity(t *testing.T) {
	r := &Resolved{Type: format.ConversionIdentity}
	got, err := r.Apply(UintValue(7))
	require.NoError(t, err)
	require.Equal(t, UintValue(7), got)
}

func TestApplyLinear(t *testing.T) {
	r := &Resolved{Type: format.ConversionLinear, Val: []float64{2, 3}}
	got, err := r.Apply(UintValue(4))
	require.NoError(t, err)
	require.Equal(t, FloatValue(14), got) // 2 + 3*4
}

func TestApplyRational(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		r := &Resolved{Type: format.ConversionRational, Val: []float64{0, 1, 0, 0, 0, 1}}
		got, err := r.Apply(FloatValue(5))
		require.NoError(t, err)
		require.Equal(t, FloatValue(5), got) // (0*25+5+0)/(0+0+1) = 5
	})

	t.Run("near zero denominator passes through", func(t *testing.T) {
		r := &Resolved{Type: format.ConversionRational, Val: []float64{1, 0, 0, 0, 0, 0}}
		raw := FloatValue(2)
		got, err := r.Apply(raw)
		require.NoError(t, err)
		require.Equal(t, raw, got)
	})
}

func TestApplyAlgebraic(t *testing.T) {
	r := &Resolved{Type: format.ConversionAlgebraic, AlgebraicFormula: "X*2+1"}
	got, err := r.Apply(FloatValue(3))
	require.NoError(t, err)
	require.Equal(t, FloatValue(7), got)
}

func TestApplyTableLookupInterp(t *testing.T) {
	r := &Resolved{Type: format.ConversionTableLookupInterp, Val: []float64{0, 0, 10, 100}}

	cases := []struct {
		raw  float64
		want float64
	}{
		{-5, 0},    // below first key clamps
		{0, 0},     // exact key
		{5, 50},    // interpolated midpoint
		{10, 100},  // exact key
		{100, 100}, // above last key clamps
	}

	for _, c := range cases {
		got, err := r.Apply(FloatValue(c.raw))
		require.NoError(t, err)
		require.Equal(t, FloatValue(c.want), got)
	}
}

func TestApplyTableLookupNoInterp(t *testing.T) {
	r := &Resolved{Type: format.ConversionTableLookupNoInterp, Val: []float64{0, 0, 10, 100}}

	got, err := r.Apply(FloatValue(3))
	require.NoError(t, err)
	require.Equal(t, FloatValue(0), got) // nearer to key 0 than key 10

	got, err = r.Apply(FloatValue(8))
	require.NoError(t, err)
	require.Equal(t, FloatValue(100), got) // nearer to key 10
}

func TestApplyRangeLookup(t *testing.T) {
	r := &Resolved{Type: format.ConversionRangeLookup, Val: []float64{0, 10, 1, 10, 20, 2, -1}}

	t.Run("integer raw inclusive upper bound", func(t *testing.T) {
		got, err := r.Apply(IntValue(10))
		require.NoError(t, err)
		require.Equal(t, FloatValue(1), got)
	})

	t.Run("float raw exclusive upper bound falls to next bracket", func(t *testing.T) {
		got, err := r.Apply(FloatValue(10))
		require.NoError(t, err)
		require.Equal(t, FloatValue(2), got)
	})

	t.Run("outside all brackets returns trailing default", func(t *testing.T) {
		got, err := r.Apply(FloatValue(1000))
		require.NoError(t, err)
		require.Equal(t, FloatValue(-1), got)
	})
}

func TestApplyValueToText(t *testing.T) {
	t.Run("matches plain text", func(t *testing.T) {
		r := &Resolved{
			Type:          format.ConversionValueToText,
			Val:           []float64{1, 2},
			ResolvedTexts: []string{"on", "off"},
		}
		got, err := r.Apply(UintValue(2))
		require.NoError(t, err)
		require.Equal(t, StringValue("off"), got)
	})

	t.Run("matches nested conversion", func(t *testing.T) {
		nested := &Resolved{Type: format.ConversionLinear, Val: []float64{1, 1}}
		r := &Resolved{
			Type:                format.ConversionValueToText,
			Val:                 []float64{1},
			ResolvedConversions: []*Resolved{nested},
		}
		got, err := r.Apply(UintValue(1))
		require.NoError(t, err)
		require.Equal(t, FloatValue(2), got) // nested linear: 1 + 1*1
	})

	t.Run("no match uses default text", func(t *testing.T) {
		r := &Resolved{Type: format.ConversionValueToText, Val: []float64{1}, DefaultText: "unmapped"}
		got, err := r.Apply(UintValue(99))
		require.NoError(t, err)
		require.Equal(t, StringValue("unmapped"), got)
	})

	t.Run("no match no default yields unknown", func(t *testing.T) {
		r := &Resolved{Type: format.ConversionValueToText, Val: []float64{1}}
		got, err := r.Apply(UintValue(99))
		require.NoError(t, err)
		require.Equal(t, UnknownValue, got)
	})

	t.Run("non numeric raw yields unknown", func(t *testing.T) {
		r := &Resolved{Type: format.ConversionValueToText, Val: []float64{1}}
		got, err := r.Apply(StringValue("x"))
		require.NoError(t, err)
		require.Equal(t, UnknownValue, got)
	})
}

func TestApplyRangeToText(t *testing.T) {
	r := &Resolved{
		Type:          format.ConversionRangeToText,
		Val:           []float64{0, 10, 10, 20},
		ResolvedTexts: []string{"low", "high"},
		DefaultText:   "out of range",
	}

	got, err := r.Apply(IntValue(5))
	require.NoError(t, err)
	require.Equal(t, StringValue("low"), got)

	got, err = r.Apply(IntValue(15))
	require.NoError(t, err)
	require.Equal(t, StringValue("high"), got)

	got, err = r.Apply(IntValue(1000))
	require.NoError(t, err)
	require.Equal(t, StringValue("out of range"), got)
}

func TestApplyTextToValue(t *testing.T) {
	r := &Resolved{
		Type:          format.ConversionTextToValue,
		ResolvedTexts: []string{"on", "off"},
		Val:           []float64{1, 0, -1},
	}

	got, err := r.Apply(StringValue("off"))
	require.NoError(t, err)
	require.Equal(t, FloatValue(0), got)

	got, err = r.Apply(StringValue("unknown-text"))
	require.NoError(t, err)
	require.Equal(t, FloatValue(-1), got) // trailing default

	raw := UintValue(3)
	got, err = r.Apply(raw)
	require.NoError(t, err)
	require.Equal(t, raw, got) // non-string passes through
}

func TestApplyTextToText(t *testing.T) {
	r := &Resolved{
		Type:          format.ConversionTextToText,
		ResolvedTexts: []string{"red", "rouge", "blue", "bleu", "other"},
	}

	got, err := r.Apply(StringValue("blue"))
	require.NoError(t, err)
	require.Equal(t, StringValue("bleu"), got)

	got, err = r.Apply(StringValue("green"))
	require.NoError(t, err)
	require.Equal(t, StringValue("other"), got) // trailing unpaired default
}

func TestApplyBitfieldText(t *testing.T) {
	bit0 := &Resolved{Name: "bit0", Type: format.ConversionIdentity}
	bit1 := &Resolved{Name: "bit1", Type: format.ConversionIdentity}

	r := &Resolved{
		Type:                format.ConversionBitfieldText,
		Val:                 []float64{math.Float64frombits(0x1), math.Float64frombits(0x2)},
		ResolvedConversions: []*Resolved{bit0, bit1},
	}

	got, err := r.Apply(UintValue(0x3))
	require.NoError(t, err)
	require.Equal(t, StringValue("bit0 = 1|bit1 = 2"), got)

	t.Run("non numeric raw yields unknown", func(t *testing.T) {
		got, err := r.Apply(StringValue("x"))
		require.NoError(t, err)
		require.Equal(t, UnknownValue, got)
	})
}
