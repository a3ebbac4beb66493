package packet

import "fmt"

// Flag adapts a single unsigned byte to a bool: zero decodes to false, any
// non-zero byte decodes to true; encode always writes 0 or 1.
func Flag() Packet {
	return NewAdapter(UInt8(),
		func(inner any, ctx *Context) (any, error) {
			return inner.(int64) != 0, nil
		},
		func(outer any, ctx *Context) (any, error) {
			b, ok := outer.(bool)
			if !ok {
				return nil, wrapErr(KindObjType, fmt.Sprintf("Flag expects bool, got %T", outer), nil)
			}
			if b {
				return int64(1), nil
			}
			return int64(0), nil
		},
	)
}

// Enum adapts an integral inner packet to a closed or open set of named
// values via encDict/decDict (direct inverses of each other for a closed
// enum). An integer with no registered name decodes to itself unchanged —
// callers modeling a flag-set combine Enum with their own bitwise OR/AND
// logic on the raw integer, per spec.md §9's "surface the raw integer"
// guidance for enum-as-flag-set use.
func Enum(inner Packet, decDict map[int64]any, encDict map[any]int64) Packet {
	return NewAdapter(inner,
		func(rawVal any, ctx *Context) (any, error) {
			raw := rawVal.(int64)
			if name, ok := decDict[raw]; ok {
				return name, nil
			}
			return raw, nil
		},
		func(outer any, ctx *Context) (any, error) {
			if raw, ok := encDict[outer]; ok {
				return raw, nil
			}
			if raw, ok := outer.(int64); ok {
				return raw, nil
			}
			return nil, wrapErr(KindEncode, fmt.Sprintf("Enum: no registered raw value for %v", outer), nil)
		},
	)
}

// Mapping is a user-defined bijective dictionary over an inner packet's raw
// value. An unknown key is a decode/encode error unless allowDirect permits
// a pass-through of an already-valid underlying value (i.e. the caller
// supplied the raw wire value directly instead of a mapped key).
func Mapping(inner Packet, decDict map[any]any, encDict map[any]any, allowDirect bool) Packet {
	return NewAdapter(inner,
		func(rawVal any, ctx *Context) (any, error) {
			if mapped, ok := decDict[rawVal]; ok {
				return mapped, nil
			}
			if allowDirect {
				return rawVal, nil
			}
			return nil, DecodeErrorf("Mapping: no entry for raw value %v", rawVal)
		},
		func(outer any, ctx *Context) (any, error) {
			if raw, ok := encDict[outer]; ok {
				return raw, nil
			}
			if allowDirect {
				return outer, nil
			}
			return nil, EncodeErrorf("Mapping: no entry for key %v", outer)
		},
	)
}
