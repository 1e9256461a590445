package mdfwriter

import (
	"math"

	"github.com/reneherrero/mdf4-rs-sub000/conversion"
	"github.com/reneherrero/mdf4-rs-sub000/endian"
	"github.com/reneherrero/mdf4-rs-sub000/errs"
	"github.com/reneherrero/mdf4-rs-sub000/format"
)

// encKind is the per-channel encoder variant.
type encKind uint8

const (
	encUint encKind = iota
	encInt
	encF32
	encF64
	encBytes
	encSkip
)

// valueEncoder splats one channel's value into a record buffer at a fixed
// byte offset, chosen once when the channel is added rather than re-dispatched
// on every record.
type valueEncoder struct {
	kind       encKind
	byteOffset int
	nbytes     int
}

func encoderFor(dt format.DataType, byteOffset int, bitCount uint32) valueEncoder {
	nbytes := int(bitCount) / 8
	switch {
	case dt.IsFloat() && nbytes == 4:
		return valueEncoder{kind: encF32, byteOffset: byteOffset, nbytes: 4}
	case dt.IsFloat():
		return valueEncoder{kind: encF64, byteOffset: byteOffset, nbytes: 8}
	case dt.IsSigned():
		return valueEncoder{kind: encInt, byteOffset: byteOffset, nbytes: nbytes}
	case dt.IsString() || dt.IsByteArray():
		return valueEncoder{kind: encBytes, byteOffset: byteOffset, nbytes: nbytes}
	default:
		return valueEncoder{kind: encUint, byteOffset: byteOffset, nbytes: nbytes}
	}
}

// splat writes v into record at the encoder's byte offset, little-endian.
func (e valueEncoder) splat(record []byte, v conversion.Value) error {
	if e.kind == encSkip {
		return nil
	}

	end := e.byteOffset + e.nbytes
	if err := endian.ValidateBufferSize(record, end, "mdfwriter.valueEncoder.splat"); err != nil {
		return err
	}

	switch e.kind {
	case encUint:
		u, ok := v.AsUint()
		if !ok {
			return errs.NewBlockSerialization("mdfwriter: value is not numeric for uint channel")
		}
		writeUintLE(record[e.byteOffset:end], u, e.nbytes)
	case encInt:
		i, ok := asInt(v)
		if !ok {
			return errs.NewBlockSerialization("mdfwriter: value is not numeric for int channel")
		}
		writeUintLE(record[e.byteOffset:end], uint64(i), e.nbytes)
	case encF32:
		f, ok := v.AsFloat()
		if !ok {
			return errs.NewBlockSerialization("mdfwriter: value is not numeric for float32 channel")
		}
		endian.LittleEndian.PutUint32(record[e.byteOffset:end], math.Float32bits(float32(f)))
	case encF64:
		f, ok := v.AsFloat()
		if !ok {
			return errs.NewBlockSerialization("mdfwriter: value is not numeric for float64 channel")
		}
		endian.LittleEndian.PutUint64(record[e.byteOffset:end], math.Float64bits(f))
	case encBytes:
		if v.Kind != conversion.KindString && v.Kind != conversion.KindBytes {
			return errs.NewBlockSerialization("mdfwriter: value is not string/bytes for fixed byte-array channel")
		}
		copyFixed(record[e.byteOffset:end], valueBytes(v))
	}

	return nil
}

func asInt(v conversion.Value) (int64, bool) {
	switch v.Kind {
	case conversion.KindInt:
		return v.Int, true
	case conversion.KindUint:
		return int64(v.Uint), true
	case conversion.KindFloat:
		return int64(v.Float), true
	default:
		return 0, false
	}
}

func valueBytes(v conversion.Value) []byte {
	if v.Kind == conversion.KindString {
		return []byte(v.Str)
	}

	return v.Bytes
}

func copyFixed(dst []byte, src []byte) {
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func writeUintLE(dst []byte, v uint64, nbytes int) {
	for i := 0; i < nbytes; i++ {
		dst[i] = byte(v >> (8 * i))
	}
}
