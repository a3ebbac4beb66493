package packet

import "fmt"

// Dynamic resolves its actual packet from context at encode, decode, and
// size time. A lookup failure inside packetExpr maps to the matching error
// kind for whichever operation triggered it.
type DynamicPacket struct {
	base
	packetExpr CtxParam[Packet]
}

// Dynamic builds a packet whose concrete implementation is chosen lazily
// from context.
func Dynamic(packetExpr CtxParam[Packet]) Packet {
	return &DynamicPacket{packetExpr: packetExpr}
}

func (p *DynamicPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	inner, err := Eval(p.packetExpr, ctx)
	if err != nil {
		return wrapErr(KindEncode, "dynamic packet resolution failed", err)
	}
	return inner.Encode(s, obj, ctx)
}

func (p *DynamicPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	inner, err := Eval(p.packetExpr, ctx)
	if err != nil {
		return nil, wrapErr(KindDecode, "dynamic packet resolution failed", err)
	}
	return inner.Decode(s, ctx)
}

func (p *DynamicPacket) Size(ctx *Context) (int, error) {
	ctx = ensureCtx(ctx)
	inner, err := Eval(p.packetExpr, ctx)
	if err != nil {
		return 0, NotSizeableErrorf("dynamic packet resolution failed: %v", err)
	}
	return inner.Size(ctx)
}

// condBranchKey is the metadata slot Conditional stores its chosen branch
// under, for introspection by anything inspecting the context after the
// fact.
const condBranchKey = "packet.condBranch"

// Conditional is Dynamic specialized to a boolean choice between two
// packets, with the chosen branch recorded on the context's metadata.
func Conditional(cond CtxParam[bool], thenPkt Packet, elsePkt Packet) Packet {
	if elsePkt == nil {
		elsePkt = NoOp
	}
	return Dynamic(func(ctx *Context) (Packet, error) {
		branch, err := Eval(cond, ctx)
		if err != nil {
			return nil, err
		}
		ctx.SetMetadata(condBranchKey, branch)
		if branch {
			return thenPkt, nil
		}
		return elsePkt, nil
	})
}

// Discriminated is a tagged union: a Struct of `tag` (tagField) and `value`
// (Dynamic, resolved by looking up the decoded/to-be-encoded tag in cases).
// Its logical value is the pair (tag, value), built with DiscriminatedValue.
// There is no master-field shortcut: callers always supply and receive the
// whole pair, even when only the payload matters.
type discriminatedValue struct {
	Tag   any
	Value any
}

func DiscriminatedValue(tag, value any) discriminatedValue {
	return discriminatedValue{Tag: tag, Value: value}
}

func Discriminated(tagField Packet, cases map[any]Packet) Packet {
	st := NewStruct(
		Rename(tagField, "tag"),
		Rename(Dynamic(func(ctx *Context) (Packet, error) {
			parent, err := ctx.Member("_")
			if err != nil {
				return nil, err
			}
			tagCtx, err := parent.Member("tag")
			if err != nil {
				return nil, err
			}
			tag, ok := tagCtx.Value()
			if !ok {
				return nil, fmt.Errorf("discriminated: tag not yet known")
			}
			pkt, ok := cases[tag]
			if !ok {
				return nil, fmt.Errorf("discriminated: no case registered for tag %v", tag)
			}
			return pkt, nil
		}), "value"),
	)
	return NewAdapter(st,
		func(inner any, ctx *Context) (any, error) {
			m := inner.(map[string]any)
			return DiscriminatedValue(m["tag"], m["value"]), nil
		},
		func(outer any, ctx *Context) (any, error) {
			dv, ok := outer.(discriminatedValue)
			if !ok {
				return nil, wrapErr(KindObjType, fmt.Sprintf("Discriminated expects a DiscriminatedValue, got %T", outer), nil)
			}
			return map[string]any{"tag": dv.Tag, "value": dv.Value}, nil
		},
	)
}
