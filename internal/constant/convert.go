package constant

import (
	"fmt"

	"mahdl/internal/types"
)

// Convert converts v to type t. Identical types pass through; an integer
// becomes a bit when it is 0 or 1 and a vector[n] when it is non-negative
// and its bit length is at most n. Nothing is ever truncated.
func Convert(t types.Type, v Value) (Value, error) {
	if t.IsUnknown() || IsUnknown(v) {
		return Unknown{}, nil
	}
	if v.Type() == t {
		return v, nil
	}
	i, ok := v.(Integer)
	if !ok {
		return Unknown{}, fmt.Errorf("%w: %s to %s", ErrIncompatible, v.Type(), t)
	}
	switch t.Kind {
	case types.KindBit:
		if b, ok := ToBool(i); ok {
			return Bit(b), nil
		}
		return Unknown{}, fmt.Errorf("%w: %s is not a bit value", ErrDoesNotFit, i)
	case types.KindVector:
		if i.V.Sign() < 0 || i.V.BitLen() > t.Size {
			return Unknown{}, fmt.Errorf("%w: %s in %s", ErrDoesNotFit, i, t)
		}
		return NewVector(t.Size, i.V), nil
	}
	return Unknown{}, fmt.Errorf("%w: %s to %s", ErrIncompatible, v.Type(), t)
}
