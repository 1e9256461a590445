package conversion

import (
	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// MaxChainDepth is the nested-conversion resolution depth cap.
const MaxChainDepth = 20

// Resolved is a fully self-contained conversion: nested TX refs are inlined as
// strings, nested CC refs are resolved recursively and boxed, matching the
// index's "owns copies, not borrows" contract.
type Resolved struct {
	Type     format.ConversionType
	Name     string
	Unit     string
	Comment  string
	Val      []float64
	RefCount int

	// ResolvedTexts[i] holds the text for ref[i] when it points at a TX block;
	// empty when ref[i] is null or points at a CC (see ResolvedConversions).
	ResolvedTexts []string

	// ResolvedConversions[i] holds the nested conversion for ref[i] when it
	// points at a CC block; nil otherwise.
	ResolvedConversions []*Resolved

	// AlgebraicFormula is populated for Algebraic conversions, resolved from
	// ref[0].
	AlgebraicFormula string

	// DefaultConversion is the trailing default ref for text-kind conversions
	// that permit one (ValueToText, RangeToText, TextToText), exposed
	// uniformly as a first-class field. TextToValue has no default ref; its
	// default is the trailing val entry. Set only when the default ref
	// points at a nested CC block; a plain-text default is carried in
	// DefaultText instead.
	DefaultConversion *Resolved

	// DefaultText is the trailing default ref's text when it points at a TX
	// block rather than a nested CC.
	DefaultText string

	HasPhysRange bool
	PhysMin      float64
	PhysMax      float64
}

// BlockSource is the minimal read surface the resolver needs from whatever
// owns the file bytes: the parser (in-memory) or the streaming index builder
// (range-reader backed). Both implementations live in their own packages to
// avoid this package depending on I/O.
type BlockSource interface {
	// ReadConversion returns the parsed CC block at address.
	ReadConversion(address uint64) (block.Conversion, error)
	// ReadText returns the trimmed text payload of the TX or MD block at address.
	ReadText(address uint64) (string, error)
}

// Resolve walks a CC block's ref[] and builds a self-contained Resolved value:
// classify each ref target by its block id, recurse into CC targets, track
// visited addresses for cycle detection, and cap recursion depth at
// MaxChainDepth.
func Resolve(address uint64, src BlockSource) (*Resolved, error) {
	return resolve(address, src, map[uint64]bool{}, 0)
}

func resolve(address uint64, src BlockSource, visited map[uint64]bool, depth int) (*Resolved, error) {
	if depth > MaxChainDepth {
		return nil, errs.NewConversionChainTooDeep(MaxChainDepth)
	}
	if visited[address] {
		return nil, errs.NewConversionChainCycle(address)
	}
	visited[address] = true
	defer delete(visited, address)

	cc, err := src.ReadConversion(address)
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Type:         cc.Type,
		Val:          cc.Val,
		RefCount:     int(cc.RefCount),
		HasPhysRange: cc.HasPhysRange,
		PhysMin:      cc.PhysMin,
		PhysMax:      cc.PhysMax,
	}

	if cc.Name != 0 {
		if name, err := src.ReadText(cc.Name); err == nil {
			r.Name = name
		}
	}
	if cc.Unit != 0 {
		if unit, err := src.ReadText(cc.Unit); err == nil {
			r.Unit = unit
		}
	}
	if cc.Comment != 0 {
		if comment, err := src.ReadText(cc.Comment); err == nil {
			r.Comment = comment
		}
	}

	r.ResolvedTexts = make([]string, len(cc.Ref))
	r.ResolvedConversions = make([]*Resolved, len(cc.Ref))

	for i, ref := range cc.Ref {
		if ref == 0 {
			continue
		}

		if text, err := src.ReadText(ref); err == nil {
			r.ResolvedTexts[i] = text
			continue
		}

		nested, err := resolve(ref, src, visited, depth+1)
		if err != nil {
			return nil, err
		}
		r.ResolvedConversions[i] = nested
	}

	if cc.Type == format.ConversionAlgebraic && len(cc.Ref) > 0 {
		r.AlgebraicFormula = r.ResolvedTexts[0]
	}

	// Default-conversion slot: the trailing, unpaired ref for text-kind
	// conversions, exposed uniformly rather than
	// hard-coded to RangeToText only.
	switch cc.Type {
	case format.ConversionRangeToText:
		if len(cc.Ref) > 0 && len(cc.Ref) > len(cc.Val)/2 {
			defaultFromRef(r, len(cc.Ref)-1)
		}
	case format.ConversionValueToText:
		if len(cc.Ref) > len(cc.Val) && len(cc.Ref) > 0 {
			defaultFromRef(r, len(cc.Ref)-1)
		}
	case format.ConversionTextToText:
		if len(cc.Ref)%2 == 1 {
			defaultFromRef(r, len(cc.Ref)-1)
		}
	case format.ConversionTextToValue:
		// handled value-side in apply.go via the trailing val entry.
	}

	return r, nil
}

// defaultFromRef fills r.DefaultConversion or r.DefaultText from whichever
// ref/text slot index i resolved to, so apply() can treat it uniformly as
// "the default" regardless of kind.
func defaultFromRef(r *Resolved, i int) {
	if i < 0 || i >= len(r.ResolvedConversions) {
		return
	}
	if nested := r.ResolvedConversions[i]; nested != nil {
		r.DefaultConversion = nested
		return
	}
	if text := r.ResolvedTexts[i]; text != "" {
		r.DefaultText = text
	}
}
