package conversion

import (
	"math"

	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// epsilon guards the Rational denominator against near-zero division.
const epsilon = 1e-12

// Apply implements the per-kind semantics for each of the 12 conversion kinds.
func (r *Resolved) Apply(raw Value) (Value, error) {
	switch r.Type {
	case format.ConversionIdentity:
		return raw, nil
	case format.ConversionLinear:
		return r.applyLinear(raw), nil
	case format.ConversionRational:
		return r.applyRational(raw), nil
	case format.ConversionAlgebraic:
		return r.applyAlgebraic(raw)
	case format.ConversionTableLookupInterp:
		return r.applyTableLookup(raw, true), nil
	case format.ConversionTableLookupNoInterp:
		return r.applyTableLookup(raw, false), nil
	case format.ConversionRangeLookup:
		return r.applyRangeLookup(raw), nil
	case format.ConversionValueToText:
		return r.applyValueToText(raw)
	case format.ConversionRangeToText:
		return r.applyRangeToText(raw)
	case format.ConversionTextToValue:
		return r.applyTextToValue(raw)
	case format.ConversionTextToText:
		return r.applyTextToText(raw)
	case format.ConversionBitfieldText:
		return r.applyBitfieldText(raw)
	default:
		return raw, nil
	}
}

func (r *Resolved) applyLinear(raw Value) Value {
	f, ok := raw.AsFloat()
	if !ok || len(r.Val) < 2 {
		return raw
	}

	return FloatValue(r.Val[0] + r.Val[1]*f)
}

func (r *Resolved) applyRational(raw Value) Value {
	f, ok := raw.AsFloat()
	if !ok || len(r.Val) < 6 {
		return raw
	}

	v := r.Val
	num := v[0]*f*f + v[1]*f + v[2]
	den := v[3]*f*f + v[4]*f + v[5]
	if math.Abs(den) < epsilon {
		return raw
	}

	return FloatValue(num / den)
}

func (r *Resolved) applyAlgebraic(raw Value) (Value, error) {
	f, ok := raw.AsFloat()
	if !ok {
		return raw, nil
	}

	v, err := EvalAlgebraic(r.AlgebraicFormula, f)
	if err != nil {
		return Value{}, err
	}

	return FloatValue(v), nil
}

// applyTableLookup implements TableLookupInterp/NoInterp: val is
// [k0,v0,k1,v1,...]; raw <= k0 -> v0, raw >= kn-1 -> vn-1, else bracket and
// either linearly interpolate or pick the nearer neighbor.
func (r *Resolved) applyTableLookup(raw Value, interp bool) Value {
	f, ok := raw.AsFloat()
	n := len(r.Val) / 2
	if !ok || n == 0 {
		return raw
	}

	key := func(i int) float64 { return r.Val[2*i] }
	val := func(i int) float64 { return r.Val[2*i+1] }

	if f <= key(0) {
		return FloatValue(val(0))
	}
	if f >= key(n-1) {
		return FloatValue(val(n - 1))
	}

	for i := 0; i < n-1; i++ {
		k0, k1 := key(i), key(i+1)
		if f == k0 {
			return FloatValue(val(i))
		}
		if f > k0 && f < k1 {
			if !interp {
				if f-k0 <= k1-f {
					return FloatValue(val(i))
				}
				return FloatValue(val(i + 1))
			}

			v0, v1 := val(i), val(i+1)
			frac := (f - k0) / (k1 - k0)

			return FloatValue(v0 + frac*(v1-v0))
		}
		if f == k1 {
			return FloatValue(val(i + 1))
		}
	}

	return FloatValue(val(n - 1))
}

// applyRangeLookup implements RangeLookup: val is
// [min0,max0,phys0, min1,max1,phys1, ..., default]. Integer raw -> upper
// bound inclusive; float raw -> upper bound exclusive.
func (r *Resolved) applyRangeLookup(raw Value) Value {
	f, ok := raw.AsFloat()
	if !ok {
		return raw
	}

	isFloatRaw := raw.Kind == KindFloat

	n := (len(r.Val) - rangeTrailingDefaultWidth(r.Val)) / 3
	for i := 0; i < n; i++ {
		min, max, phys := r.Val[3*i], r.Val[3*i+1], r.Val[3*i+2]
		if inRange(f, min, max, isFloatRaw) {
			return FloatValue(phys)
		}
	}

	if rangeTrailingDefaultWidth(r.Val) == 1 {
		return FloatValue(r.Val[len(r.Val)-1])
	}

	return raw
}

// rangeTrailingDefaultWidth reports whether val[] carries a trailing scalar
// default after the last full (min,max,phys) triple.
func rangeTrailingDefaultWidth(val []float64) int {
	if len(val)%3 == 1 {
		return 1
	}

	return 0
}

func inRange(f, min, max float64, upperExclusive bool) bool {
	if f < min {
		return false
	}
	if upperExclusive {
		return f < max
	}

	return f <= max
}

// applyValueToText implements ValueToText: find i with val[i] ==
// raw, map to ref[i]'s resolved text (or nested conversion applied to raw);
// no match -> default conversion if present, else Unknown.
func (r *Resolved) applyValueToText(raw Value) (Value, error) {
	f, ok := raw.AsFloat()
	if !ok {
		return UnknownValue, nil
	}

	for i, v := range r.Val {
		if v == f {
			return r.textOrNested(i, raw)
		}
	}

	return r.defaultOrUnknown(raw)
}

// applyRangeToText implements RangeToText: val is
// [min0,max0,min1,max1,...]; find first bracket containing raw (same
// inclusive/exclusive rule as RangeLookup); map to the corresponding
// text/nested conversion, else default conversion, else Unknown.
func (r *Resolved) applyRangeToText(raw Value) (Value, error) {
	f, ok := raw.AsFloat()
	if !ok {
		return UnknownValue, nil
	}

	isFloatRaw := raw.Kind == KindFloat
	n := len(r.Val) / 2

	for i := 0; i < n; i++ {
		min, max := r.Val[2*i], r.Val[2*i+1]
		if inRange(f, min, max, isFloatRaw) {
			return r.textOrNested(i, raw)
		}
	}

	return r.defaultOrUnknown(raw)
}

// defaultOrUnknown returns the trailing default (nested conversion applied to
// raw, or plain default text) when present, else Unknown.
func (r *Resolved) defaultOrUnknown(raw Value) (Value, error) {
	if r.DefaultConversion != nil {
		return r.DefaultConversion.Apply(raw)
	}
	if r.DefaultText != "" {
		return StringValue(r.DefaultText), nil
	}

	return UnknownValue, nil
}

// applyTextToValue implements TextToValue: input must be a
// string; find the ref index whose resolved text equals input, return val[i];
// no match -> val[n] (the trailing default) if present.
func (r *Resolved) applyTextToValue(raw Value) (Value, error) {
	if !raw.IsString() {
		return raw, nil
	}

	for i, text := range r.ResolvedTexts {
		if text == raw.Str && i < len(r.Val) {
			return FloatValue(r.Val[i]), nil
		}
	}

	if len(r.Val) > len(r.ResolvedTexts) {
		return FloatValue(r.Val[len(r.ResolvedTexts)]), nil
	}

	return raw, nil
}

// applyTextToText implements TextToText: refs come in (key,value)
// pairs; an optional trailing unpaired ref is the default. Return the value
// text for the matching key, else the default, else the input unchanged.
func (r *Resolved) applyTextToText(raw Value) (Value, error) {
	if !raw.IsString() {
		return raw, nil
	}

	n := len(r.ResolvedTexts) / 2
	for i := 0; i < n; i++ {
		key, val := r.ResolvedTexts[2*i], r.ResolvedTexts[2*i+1]
		if key == raw.Str {
			return StringValue(val), nil
		}
	}

	if len(r.ResolvedTexts)%2 == 1 {
		return StringValue(r.ResolvedTexts[len(r.ResolvedTexts)-1]), nil
	}

	return raw, nil
}

// applyBitfieldText implements BitfieldText: raw must be an
// unsigned integer; for each ref, mask = val[i] bit-cast from f64 to u64,
// apply the nested conversion to raw & mask, prefix with "<name> = " when the
// nested conversion has a name, and concatenate parts with '|'.
func (r *Resolved) applyBitfieldText(raw Value) (Value, error) {
	u, ok := raw.AsUint()
	if !ok {
		return UnknownValue, nil
	}

	var parts []string
	for i, nested := range r.ResolvedConversions {
		if nested == nil || i >= len(r.Val) {
			continue
		}

		mask := math.Float64bits(r.Val[i])
		masked := UintValue(u & mask)

		v, err := nested.Apply(masked)
		if err != nil {
			return Value{}, err
		}

		text := v.String()
		if nested.Name != "" {
			text = nested.Name + " = " + text
		}
		parts = append(parts, text)
	}

	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += "|"
		}
		joined += p
	}

	return StringValue(joined), nil
}

// textOrNested resolves ref[i] of a ValueToText/RangeToText conversion: a
// plain TX text, or a nested conversion applied to raw.
func (r *Resolved) textOrNested(i int, raw Value) (Value, error) {
	if i < len(r.ResolvedConversions) && r.ResolvedConversions[i] != nil {
		return r.ResolvedConversions[i].Apply(raw)
	}
	if i < len(r.ResolvedTexts) && r.ResolvedTexts[i] != "" {
		return StringValue(r.ResolvedTexts[i]), nil
	}

	return UnknownValue, nil
}
