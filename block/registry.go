package block

// KnownIDs lists the four-character tags the registry can dispatch on.
var KnownIDs = map[string]bool{
	IDHeader:        true,
	IDDataGroup:     true,
	IDChannelGroup:  true,
	IDChannel:       true,
	IDConversion:    true,
	IDTextBlock:     true,
	IDMetadataBlock: true,
	IDSource:        true,
	IDDataBlock:     true,
	IDDataValues:    true,
	IDDataList:      true,
	IDSignalData:    true,
	IDDataZip:       true,
	IDAttachment:    true,
	IDEvent:         true,
}

// IsKnownID reports whether tag is one of the recognized block kinds. Unknown
// ids are skippable and non-fatal in a DL chain.
func IsKnownID(tag string) bool {
	return KnownIDs[tag]
}

// Any is a type-erased decoded block plus its originating header, produced by
// Dispatch for callers that only need to route on kind (e.g. the index's
// streaming builder walking an unknown link).
type Any struct {
	Header Header
	Value  any
}

// Dispatch parses the header at the start of buf and routes to the matching
// typed-block codec, returning the decoded value boxed in Any.Value.
func Dispatch(buf []byte) (Any, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return Any{}, err
	}

	switch h.ID {
	case IDHeader:
		v, err := FromBytesHD(buf)
		return Any{Header: h, Value: v}, err
	case IDDataGroup:
		v, err := FromBytesDG(buf)
		return Any{Header: h, Value: v}, err
	case IDChannelGroup:
		v, err := FromBytesCG(buf)
		return Any{Header: h, Value: v}, err
	case IDChannel:
		v, err := FromBytesCN(buf)
		return Any{Header: h, Value: v}, err
	case IDConversion:
		v, err := FromBytesCC(buf)
		return Any{Header: h, Value: v}, err
	case IDTextBlock:
		v, err := FromBytesTX(buf)
		return Any{Header: h, Value: v}, err
	case IDMetadataBlock:
		v, err := FromBytesMD(buf)
		return Any{Header: h, Value: v}, err
	case IDSource:
		v, err := FromBytesSI(buf)
		return Any{Header: h, Value: v}, err
	case IDDataBlock:
		v, err := FromBytesDT(buf)
		return Any{Header: h, Value: v}, err
	case IDDataValues:
		v, err := FromBytesDV(buf)
		return Any{Header: h, Value: v}, err
	case IDDataList:
		v, err := FromBytesDL(buf)
		return Any{Header: h, Value: v}, err
	case IDSignalData:
		v, err := FromBytesSD(buf)
		return Any{Header: h, Value: v}, err
	case IDDataZip:
		v, err := FromBytesDZ(buf)
		return Any{Header: h, Value: v}, err
	case IDAttachment:
		v, err := FromBytesAT(buf)
		return Any{Header: h, Value: v}, err
	case IDEvent:
		v, err := FromBytesEV(buf)
		return Any{Header: h, Value: v}, err
	default:
		// unknown id: return the bare header so a DL/chain walker can skip it.
		return Any{Header: h, Value: nil}, nil
	}
}
