package loader

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nlpodyssey/gopickle/types"
)

// findNumpyClass resolves the globals a pickled numpy scalar refers to, so
// scores saved as numpy.float64 decode to plain numbers.
func findNumpyClass(module, name string) (interface{}, error) {
	switch module + "." + name {
	case "numpy.core.multiarray.scalar", "numpy._core.multiarray.scalar":
		return numpyScalar{}, nil
	case "numpy.dtype":
		return numpyDTypeClass{}, nil
	case "_codecs.encode":
		return codecsEncode{}, nil
	}
	return types.NewGenericClass(module, name), nil
}

// numpyDType is the subset of numpy.dtype needed to decode a scalar.
type numpyDType struct {
	code  string // e.g. "f8", "i4"
	order binary.ByteOrder
}

// PySetState reads the byte order from the dtype state tuple.
func (d *numpyDType) PySetState(state interface{}) error {
	t, ok := state.(*types.Tuple)
	if !ok || t.Len() < 2 {
		return fmt.Errorf("%w: dtype state %v", ErrMalformedMapping, state)
	}
	if s, _ := t.Get(1).(string); s == ">" {
		d.order = binary.BigEndian
	}
	return nil
}

type numpyDTypeClass struct{}

// Call builds dtype(code, align, copy).
func (numpyDTypeClass) Call(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: dtype without a type code", ErrMalformedMapping)
	}
	code, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: dtype code %v", ErrMalformedMapping, args[0])
	}
	return &numpyDType{code: code, order: binary.LittleEndian}, nil
}

type numpyScalar struct{}

// Call decodes scalar(dtype, raw bytes) into a Go number.
func (numpyScalar) Call(args ...interface{}) (interface{}, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: numpy scalar with %d arguments", ErrMalformedMapping, len(args))
	}
	dt, ok := args[0].(*numpyDType)
	if !ok {
		return nil, fmt.Errorf("%w: numpy scalar dtype %T", ErrMalformedMapping, args[0])
	}
	raw, ok := args[1].([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: numpy scalar payload %T", ErrMalformedMapping, args[1])
	}

	want := map[string]int{
		"f8": 8, "f4": 4, "i8": 8, "i4": 4, "i2": 2, "i1": 1,
		"u8": 8, "u4": 4, "u2": 2, "u1": 1,
	}
	n, known := want[dt.code]
	if !known {
		return nil, fmt.Errorf("%w: numpy dtype %q", ErrMalformedScore, dt.code)
	}
	if len(raw) != n {
		return nil, fmt.Errorf("%w: %s scalar has %d bytes", ErrMalformedMapping, dt.code, len(raw))
	}

	o := dt.order
	switch dt.code {
	case "f8":
		return math.Float64frombits(o.Uint64(raw)), nil
	case "f4":
		return float64(math.Float32frombits(o.Uint32(raw))), nil
	case "i8":
		return int64(o.Uint64(raw)), nil
	case "i4":
		return int64(int32(o.Uint32(raw))), nil
	case "i2":
		return int64(int16(o.Uint16(raw))), nil
	case "i1":
		return int64(int8(raw[0])), nil
	case "u8":
		return o.Uint64(raw), nil
	case "u4":
		return int64(o.Uint32(raw)), nil
	case "u2":
		return int64(o.Uint16(raw)), nil
	}
	return int64(raw[0]), nil
}

// codecsEncode handles _codecs.encode(text, "latin1"), which protocol 2
// pickles use to carry raw bytes.
type codecsEncode struct{}

func (codecsEncode) Call(args ...interface{}) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: encode without text", ErrMalformedMapping)
	}
	s, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: encode of %T", ErrMalformedMapping, args[0])
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, fmt.Errorf("%w: %q is not latin1", ErrMalformedMapping, r)
		}
		out = append(out, byte(r))
	}
	return out, nil
}
