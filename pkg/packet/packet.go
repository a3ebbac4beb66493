// Package packet implements the core of a declarative binary packet
// framework: a composable algebra of packet combinators that encode and
// decode structured Go values to and from byte streams.
//
// A Packet is built by combining primitives (integers, bytes, strings) with
// structural combinators (Sequence/Struct, Array, SizePrefixed,
// CountPrefixed, Padded, Aligned, Conditional, Discriminated) and
// dependent-value helpers (Deduced, Const, Default, Check, Checksum,
// Virtual, Dynamic). The resulting value symmetrically encodes a logical
// value to a stream and decodes a logical value from a stream, with both
// directions sharing one description.
package packet

import (
	"github.com/marmos91/anf/pkg/stream"
)

// Stream re-exports the stream contract packets are encoded to and decoded
// from, so callers only need to import this package for the common case.
type Stream = stream.Stream

// Packet is the polymorphic description every combinator implements. Its
// method set is intentionally sealed to this package: new leaf packets are
// built by composing the constructors below (or via FromFuncs, the
// escape hatch for custom leaves), not by implementing this interface in a
// foreign package, so the algebra's invariants (name only via Rename,
// postpone level only via Postpone) can't be bypassed.
type Packet interface {
	// Name is the name exposed to an enclosing Sequence/Struct, or "" if
	// the packet hasn't been renamed.
	Name() string

	// PostponeLevel orders two-pass encoding within an enclosing Sequence;
	// 0 (the default) means "encode in declaration order with everyone
	// else at level 0".
	PostponeLevel() int

	// Encode writes obj to s. If ctx is nil a fresh root context is used.
	Encode(s Stream, obj any, ctx *Context) error

	// Decode reads a value from s. If ctx is nil a fresh root context is
	// used.
	Decode(s Stream, ctx *Context) (any, error)

	// Size returns the packet's encoded length in ctx, or a KindNotSizeable
	// error if it depends on data not yet known in ctx.
	Size(ctx *Context) (int, error)

	// the internal hook invoked when this packet is told to defer its
	// encoding (see Postpone). Most packets ignore this; validators and
	// AutoPacket-derived fields use it to queue their check onto on_finish
	// instead of running it inline.
	setPostponeBehavior(level int)
}

// EncodeToBytes encodes obj with p using an in-memory stream and returns the
// produced bytes.
func EncodeToBytes(p Packet, obj any) ([]byte, error) {
	s := stream.NewBytesStream(nil)
	if err := p.Encode(s, obj, nil); err != nil {
		return nil, err
	}
	return s.GetData(), nil
}

// DecodeFromBytes decodes a value out of data with p using an in-memory
// stream. When completely is true, any unread trailing bytes are a
// KindDecode error.
func DecodeFromBytes(p Packet, data []byte, completely bool) (any, error) {
	s := stream.NewBytesStream(data)
	v, err := p.Decode(s, nil)
	if err != nil {
		return nil, err
	}
	if completely && !s.AtEOF() {
		return nil, newErr(KindDecode, "unexpected trailing bytes remaining")
	}
	return v, nil
}

// ensureCtx returns ctx, or a fresh root Context if ctx is nil.
func ensureCtx(ctx *Context) *Context {
	if ctx == nil {
		return NewContext()
	}
	return ctx
}

// base is embedded by every leaf/wrapper packet to supply the default,
// unnamed/unpostponed identity; Renamed is the only type that overrides it.
type base struct{}

func (base) Name() string             { return "" }
func (base) PostponeLevel() int       { return 0 }
func (base) setPostponeBehavior(int)  {}

// postponable is implemented by packets whose behavior actually changes
// when postponed (validators, AutoPacket-derived dependent fields). Packet
// already exposes setPostponeBehavior directly; this alias just documents
// the intent at call sites.
type postponable interface {
	setPostponeBehavior(level int)
}

// Renamed is the only packet wrapper that carries a name and/or postpone
// level exposed to an enclosing Sequence/Struct. Every other combinator
// forwards Name()/PostponeLevel() to whatever it wraps (or returns the
// base defaults), so renaming only ever takes effect at the outermost
// Renamed wrapper around a packet tree.
type Renamed struct {
	inner         Packet
	name          string
	postponeLevel int
}

// Rename wraps p so that it exposes name to an enclosing Sequence/Struct.
// If p is already a *Renamed, its name is updated in place and the same
// wrapper is returned (renaming an already-renamed packet doesn't nest
// wrappers).
func Rename(p Packet, name string) Packet {
	if r, ok := p.(*Renamed); ok {
		r.name = name
		return r
	}
	return &Renamed{inner: p, name: name}
}

// Postpone wraps p with the given postpone level and notifies p's own
// postpone hook (so validators/AutoPacket fields actually change how they
// behave, not just how they sort).
func Postpone(p Packet, level int) Packet {
	p.setPostponeBehavior(level)
	if r, ok := p.(*Renamed); ok {
		r.postponeLevel = level
		return r
	}
	return &Renamed{inner: p, postponeLevel: level}
}

func (r *Renamed) Name() string       { return r.name }
func (r *Renamed) PostponeLevel() int { return r.postponeLevel }

func (r *Renamed) Encode(s Stream, obj any, ctx *Context) error {
	return r.inner.Encode(s, obj, ctx)
}

func (r *Renamed) Decode(s Stream, ctx *Context) (any, error) {
	return r.inner.Decode(s, ctx)
}

func (r *Renamed) Size(ctx *Context) (int, error) {
	return r.inner.Size(ctx)
}

func (r *Renamed) setPostponeBehavior(level int) {
	r.inner.setPostponeBehavior(level)
}

// sizeFromEncoded is the fallback Size implementation used by packets with
// no static size formula: if this context's field has already been
// encoded/decoded, its length is the answer; otherwise the size genuinely
// isn't knowable yet.
func sizeFromEncoded(ctx *Context) (int, error) {
	data, ok := ctx.Encoded()
	if !ok {
		return 0, NotSizeableErrorf("packet wasn't yet encoded, and size cannot be determined")
	}
	return len(data), nil
}

// FuncPacket adapts three plain functions into a Packet, for one-off leaves
// that don't warrant a named type.
type FuncPacket struct {
	base
	EncodeFn func(s Stream, obj any, ctx *Context) error
	DecodeFn func(s Stream, ctx *Context) (any, error)
	SizeFn   func(ctx *Context) (int, error)
}

// FromFuncs builds a Packet out of plain encode/decode/size functions. If
// sizeFn is nil, Size falls back to the encoded-length-so-far heuristic.
func FromFuncs(encodeFn func(Stream, any, *Context) error, decodeFn func(Stream, *Context) (any, error), sizeFn func(*Context) (int, error)) *FuncPacket {
	return &FuncPacket{EncodeFn: encodeFn, DecodeFn: decodeFn, SizeFn: sizeFn}
}

func (f *FuncPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)
	return f.EncodeFn(s, obj, ctx)
}

func (f *FuncPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	v, err := f.DecodeFn(s, ctx)
	if err != nil {
		return nil, err
	}
	ctx.SetValue(v)
	return v, nil
}

func (f *FuncPacket) Size(ctx *Context) (int, error) {
	ctx = ensureCtx(ctx)
	if f.SizeFn != nil {
		return f.SizeFn(ctx)
	}
	return sizeFromEncoded(ctx)
}

// NoOp is a packet that encodes and decodes nothing: zero bytes, size 0. It
// backs Check's underlying packet and Conditional's default else-branch.
var NoOp Packet = &noOpPacket{}

type noOpPacket struct{ base }

func (*noOpPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)
	if obj != nil {
		return EncodeErrorf("NoOp expects a nil value, got %T", obj)
	}
	ctx.SetEncoded([]byte{})
	return nil
}

func (*noOpPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	ctx.SetEncoded([]byte{})
	ctx.SetValue(nil)
	return nil, nil
}

func (*noOpPacket) Size(ctx *Context) (int, error) { return 0, nil }
