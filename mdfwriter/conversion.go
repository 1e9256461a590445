package mdfwriter

import (
	"slices"

	"github.com/reneherrero/mdf4-rs-sub000/block"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// AddValueToTextConversion builds a ValueToText CC block mapping
// each key in mapping to its text, with defaultText as the trailing default
// slot, and links ch's conversion field at it.
func (w *Writer) AddValueToTextConversion(cg *channelGroup, ch *channel, mapping map[float64]string, defaultText string) error {
	keys := make([]float64, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	id := ch.id + "_cc"
	texts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		texts = append(texts, mapping[k])
	}
	texts = append(texts, defaultText)

	refs := make([]uint64, len(texts))
	for i, t := range texts {
		textID := id + "_txt_" + itoa(i)
		off, err := w.writeText(textID, t)
		if err != nil {
			return err
		}
		refs[i] = uint64(off)
	}

	cc := block.Conversion{
		Type: format.ConversionValueToText,
		Ref:  refs,
		Val:  keys,
	}

	if _, err := w.appendBlock(id, cc.Bytes()); err != nil {
		return err
	}

	return w.linkBlockField(ch.id, 4, id)
}
