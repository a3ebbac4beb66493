package packet

import "reflect"

// valuesEqual compares deduced/supplied values for Const/Deduced's
// conflict checks. reflect.DeepEqual (rather than ==) because a deduced
// value is commonly a []byte (a magic number, a checksum) which isn't
// comparable with Go's built-in equality.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// autoValue is the sentinel a caller supplies in place of an explicit value
// to mean "compute it from context" — the Go analogue of simply omitting a
// keyword argument in the captured reference implementation.
type autoValue struct{}

// Auto is passed as a field's value to request automatic computation by
// Const/Default/Deduced/Virtual instead of supplying an explicit value.
var Auto any = autoValue{}

func isAuto(v any) bool {
	_, ok := v.(autoValue)
	return ok
}

// Virtual produces no bytes: its value is entirely computed from context.
// Encode rejects an explicit, conflicting user value.
type VirtualPacket struct {
	base
	valueExpr CtxParam[any]
}

// Virtual builds a zero-byte packet whose value is computed by valueExpr.
func Virtual(valueExpr CtxParam[any]) Packet {
	return &VirtualPacket{valueExpr: valueExpr}
}

func (p *VirtualPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	computed, err := Eval(p.valueExpr, ctx)
	if err != nil {
		return err
	}
	if !isAuto(obj) && obj != nil && !valuesEqual(obj, computed) {
		return EncodeErrorf("Virtual: supplied value %v conflicts with computed value %v", obj, computed)
	}
	ctx.SetValue(computed)
	ctx.SetEncoded([]byte{})
	return nil
}

func (p *VirtualPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	computed, err := Eval(p.valueExpr, ctx)
	if err != nil {
		return nil, err
	}
	ctx.SetValue(computed)
	ctx.SetEncoded([]byte{})
	return computed, nil
}

func (p *VirtualPacket) Size(ctx *Context) (int, error) { return 0, nil }

// AutoPacket is the general base behind Const/Default/Deduced: a concrete
// wire packet whose logical value is ordinarily computed from context, with
// validation and override behavior configured per the three named variants.
type AutoPacket struct {
	base
	inner       Packet
	valueExpr   CtxParam[any]
	validateEnc bool
	validateDec bool
	overrideEnc bool

	postponed     bool
	postponeLevel int
}

func newAutoPacket(inner Packet, valueExpr CtxParam[any], validateEnc, validateDec, overrideEnc bool) *AutoPacket {
	return &AutoPacket{inner: inner, valueExpr: valueExpr, validateEnc: validateEnc, validateDec: validateDec, overrideEnc: overrideEnc}
}

// Const builds a field whose value is always the deduced one: the caller
// may pass Auto or the deduced value itself; anything else is an encode
// error, and decode verifies the wire value matches.
func Const(inner Packet, valueExpr CtxParam[any]) Packet {
	return newAutoPacket(inner, valueExpr, true, true, false)
}

// Default builds a field the caller may freely override; when the caller
// passes Auto, the deduced value is used. No validation in either
// direction — this resolves spec.md §9's Open Question in favor of the
// latest, AutoPacket-based revision.
func Default(inner Packet, valueExpr CtxParam[any]) Packet {
	return newAutoPacket(inner, valueExpr, false, false, true)
}

// Deduced builds a field whose encode value, if explicitly supplied, must
// match the deduced one; the decoded value is accepted as-is with no
// verification.
func Deduced(inner Packet, valueExpr CtxParam[any]) Packet {
	return newAutoPacket(inner, valueExpr, true, false, false)
}

func (p *AutoPacket) Name() string       { return p.inner.Name() }
func (p *AutoPacket) PostponeLevel() int {
	if p.postponed {
		return p.postponeLevel
	}
	return p.inner.PostponeLevel()
}

func (p *AutoPacket) setPostponeBehavior(level int) {
	p.postponed = true
	p.postponeLevel = level
	p.inner.setPostponeBehavior(level)
}

func (p *AutoPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)

	deduced, err := Eval(p.valueExpr, ctx)
	if err != nil {
		return err
	}

	value := deduced
	if !isAuto(obj) {
		if p.validateEnc && !valuesEqual(obj, deduced) {
			return EncodeErrorf("value %v does not match deduced value %v", obj, deduced)
		}
		if p.overrideEnc {
			value = obj
		}
	}

	ctx.SetValue(value)
	return p.inner.Encode(s, value, ctx)
}

func (p *AutoPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	value, err := p.inner.Decode(s, ctx)
	if err != nil {
		return nil, err
	}
	ctx.SetValue(value)

	if p.validateDec {
		runCheck := func() error {
			deduced, err := Eval(p.valueExpr, ctx)
			if err != nil {
				return err
			}
			if !valuesEqual(value, deduced) {
				return DecodeErrorf("decoded value %v does not match deduced value %v", value, deduced)
			}
			return nil
		}
		if p.postponed {
			if onFinish, ok := ctx.GetMetadata(onFinishKey); ok {
				onFinish.(*Event).Add(runCheck)
			} else if err := runCheck(); err != nil {
				return nil, err
			}
		} else if err := runCheck(); err != nil {
			return nil, err
		}
	}

	return value, nil
}

func (p *AutoPacket) Size(ctx *Context) (int, error) { return p.inner.Size(ctx) }

// Check is a validator over NoOp: it contributes zero bytes and asserts
// predicate(ctx) at both encode and decode, commonly postponed so the
// predicate can see the whole sibling set.
func Check(predicate func(ctx *Context) (bool, error), message string) Packet {
	return NewValidator(NoOp, func(_ any, ctx *Context) (bool, error) {
		return predicate(ctx)
	}, message)
}

// Padding emits n zero bytes on encode and discards n bytes on decode
// without interpreting their content, backing Padded/Aligned.
type PaddingPacket struct {
	base
	size CtxParam[int]
}

// NewPadding builds a padding-only packet of the given size.
func NewPadding(size CtxParam[int]) Packet {
	return &PaddingPacket{size: size}
}

func (p *PaddingPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)
	n, err := Eval(p.size, ctx)
	if err != nil {
		return err
	}
	if n < 0 {
		return EncodeErrorf("Padding: negative size %d", n)
	}
	buf := make([]byte, n)
	if err := s.Send(buf); err != nil {
		return wrapErr(KindStreamWrite, "padding write failed", err)
	}
	ctx.SetEncoded(buf)
	return nil
}

func (p *PaddingPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	n, err := Eval(p.size, ctx)
	if err != nil {
		return nil, err
	}
	buf, err := s.Recv(n, true)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "padding read failed", err)
	}
	ctx.SetEncoded(buf)
	ctx.SetValue(nil)
	return nil, nil
}

func (p *PaddingPacket) Size(ctx *Context) (int, error) {
	ctx = ensureCtx(ctx)
	return Eval(p.size, ctx)
}
