package packet

import (
	"fmt"

	"github.com/marmos91/anf/pkg/stream"
)

// genericLen measures the length of a value of one of the shapes
// CountPrefixed's count deduction operates over.
func genericLen(obj any) (int, error) {
	switch v := obj.(type) {
	case []byte:
		return len(v), nil
	case string:
		return len(v), nil
	case []any:
		return len(v), nil
	default:
		return 0, wrapErr(KindObjType, fmt.Sprintf("cannot measure length of %T", obj), nil)
	}
}

// SizePrefixed writes body into a size-deduced length prefix: on encode the
// body is scratch-encoded first (so its length is known), the size field is
// written, then the body bytes; on decode the size field is read first and
// exactly that many bytes are consumed into a bounded substream that body
// decodes from. It is hand-rolled rather than composed as a Struct, since a
// Struct field reads from the shared live stream and cannot bound its read.
type SizePrefixedPacket struct {
	base
	sizeField Packet
	body      Packet
}

// SizePrefixed builds a size-prefixed container: sizeField is any integral
// packet, body is the packet whose encoded length it records.
func SizePrefixed(sizeField Packet, body Packet) Packet {
	return &SizePrefixedPacket{sizeField: sizeField, body: body}
}

func (p *SizePrefixedPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	bodyCtx := ctx.Child("body")
	sizeCtx := ctx.Child("size")

	scratch := newBufferStream()
	if err := p.body.Encode(scratch, obj, bodyCtx); err != nil {
		return attributeField(err, "body")
	}
	bodyBytes := scratch.bytes()
	bodyCtx.SetEncoded(bodyBytes)

	sizeScratch := newBufferStream()
	if err := p.sizeField.Encode(sizeScratch, int64(len(bodyBytes)), sizeCtx); err != nil {
		return attributeField(err, "size")
	}
	sizeCtx.SetEncoded(sizeScratch.bytes())

	if err := s.Send(sizeScratch.bytes()); err != nil {
		return wrapErr(KindStreamWrite, "size-prefixed size write failed", err)
	}
	if err := s.Send(bodyBytes); err != nil {
		return wrapErr(KindStreamWrite, "size-prefixed body write failed", err)
	}
	ctx.SetEncoded(append(append([]byte{}, sizeScratch.bytes()...), bodyBytes...))
	return nil
}

func (p *SizePrefixedPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)

	sizeCtx := ctx.Child("size")
	sizeVal, err := p.sizeField.Decode(s, sizeCtx)
	if err != nil {
		return nil, attributeField(err, "size")
	}
	n, err := asInt(sizeVal)
	if err != nil {
		return nil, attributeField(err, "size")
	}

	raw, err := s.Recv(n, true)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "size-prefixed body read failed", err)
	}

	bodyCtx := ctx.Child("body")
	substream := stream.NewBytesStream(raw)
	v, err := p.body.Decode(substream, bodyCtx)
	if err != nil {
		return nil, attributeField(err, "body")
	}
	bodyCtx.SetEncoded(raw)

	sizeEncoded, _ := sizeCtx.Encoded()
	ctx.SetEncoded(append(append([]byte{}, sizeEncoded...), raw...))
	ctx.SetValue(v)
	return v, nil
}

func (p *SizePrefixedPacket) Size(ctx *Context) (int, error) {
	ctx = ensureCtx(ctx)
	bodyCtx := ctx.Child("body")
	bodySize, err := p.body.Size(bodyCtx)
	if err != nil {
		return 0, err
	}
	sizeCtx := ctx.Child("size")
	sizeSize, err := p.sizeField.Size(sizeCtx)
	if err != nil {
		return 0, err
	}
	return sizeSize + bodySize, nil
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, wrapErr(KindObjType, fmt.Sprintf("expected an integer size, got %T", v), nil)
	}
}

// CountPrefixed writes a count deduced from len(body value) ahead of a body
// packet whose own shape depends on that count (CountPrefixed(VarInt, Bytes)
// is the canonical instance).
// bodyBuilder receives a CtxParam referencing the (encode: already-known,
// decode: just-read) count and must return the actual body packet.
type CountPrefixedPacket struct {
	base
	countField  Packet
	bodyBuilder func(count CtxParam[int]) Packet
}

// CountPrefixed builds a count-prefixed container.
func CountPrefixed(countField Packet, bodyBuilder func(count CtxParam[int]) Packet) Packet {
	return &CountPrefixedPacket{countField: countField, bodyBuilder: bodyBuilder}
}

func (p *CountPrefixedPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	count, err := genericLen(obj)
	if err != nil {
		return err
	}

	countCtx := ctx.Child("count")
	if err := p.countField.Encode(s, int64(count), countCtx); err != nil {
		return attributeField(err, "count")
	}

	body := p.bodyBuilder(ConstParam(count))
	bodyCtx := ctx.Child("body")
	if err := body.Encode(s, obj, bodyCtx); err != nil {
		return attributeField(err, "body")
	}

	countEnc, _ := countCtx.Encoded()
	bodyEnc, _ := bodyCtx.Encoded()
	ctx.SetEncoded(append(append([]byte{}, countEnc...), bodyEnc...))
	return nil
}

func (p *CountPrefixedPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)

	countCtx := ctx.Child("count")
	countVal, err := p.countField.Decode(s, countCtx)
	if err != nil {
		return nil, attributeField(err, "count")
	}
	count, err := asInt(countVal)
	if err != nil {
		return nil, attributeField(err, "count")
	}

	body := p.bodyBuilder(ConstParam(count))
	bodyCtx := ctx.Child("body")
	v, err := body.Decode(s, bodyCtx)
	if err != nil {
		return nil, attributeField(err, "body")
	}

	countEnc, _ := countCtx.Encoded()
	bodyEnc, _ := bodyCtx.Encoded()
	ctx.SetEncoded(append(append([]byte{}, countEnc...), bodyEnc...))
	ctx.SetValue(v)
	return v, nil
}

func (p *CountPrefixedPacket) Size(ctx *Context) (int, error) {
	return sizeFromEncoded(ctx)
}

// Padded is a Struct of (data, pad_size Virtual, padding Padding), per
// spec.md §9 / SPEC_FULL.md E.4: the padding logic is itself composed out of
// Struct, Virtual and the shared Padding packet rather than hand-rolled.
func Padded(body Packet, size CtxParam[int]) Packet {
	return paddedLike(body, func(ctx *Context) (int, error) {
		dataCtx, err := ctx.Member("_")
		if err != nil {
			return 0, err
		}
		total, err := Eval(size, dataCtx)
		if err != nil {
			return 0, err
		}
		bodyLen, err := Eval(EncodedLen(Path{}.Up().Field("data")), ctx)
		if err != nil {
			return 0, err
		}
		if bodyLen > total {
			return 0, EncodeErrorf("Padded: body is %d bytes, exceeds field size %d", bodyLen, total)
		}
		return total - bodyLen, nil
	})
}

// Aligned pads body up to the next multiple of alignment(ctx).
func Aligned(body Packet, alignment CtxParam[int]) Packet {
	return paddedLike(body, func(ctx *Context) (int, error) {
		dataCtx, err := ctx.Member("_")
		if err != nil {
			return 0, err
		}
		align, err := Eval(alignment, dataCtx)
		if err != nil {
			return 0, err
		}
		if align <= 0 {
			return 0, EncodeErrorf("Aligned: alignment must be positive, got %d", align)
		}
		bodyLen, err := Eval(EncodedLen(Path{}.Up().Field("data")), ctx)
		if err != nil {
			return 0, err
		}
		rem := bodyLen % align
		if rem == 0 {
			return 0, nil
		}
		return align - rem, nil
	})
}

// paddedLike builds the Struct{data, pad_size, padding} composition shared
// by Padded and Aligned; padSize is evaluated in pad_size's own context
// (one level below the struct), so it reaches the sibling "data" field via
// "_".
func paddedLike(body Packet, padSize func(ctx *Context) (int, error)) Packet {
	st := NewStruct(
		Rename(body, "data"),
		Rename(Virtual(func(ctx *Context) (any, error) {
			n, err := padSize(ctx)
			if err != nil {
				return nil, err
			}
			return n, nil
		}), "pad_size"),
		Rename(NewPadding(PathParam[int](Path{}.Up().Field("pad_size"))), "padding"),
	)
	return NewAdapter(st,
		func(inner any, ctx *Context) (any, error) {
			return inner.(map[string]any)["data"], nil
		},
		func(outer any, ctx *Context) (any, error) {
			return map[string]any{
				"data":    outer,
				"pad_size": Auto,
				"padding":  nil,
			}, nil
		},
	)
}

// Transformed encodes inner into a scratch buffer and applies encFn to the
// resulting bytes before writing; on decode, it reads decSize(ctx) bytes (if
// given — otherwise to EOF) and applies decFn to them before handing the
// result to inner's own decode as a bounded substream.
//
// Resolves spec.md §9's Open Question: this implementation DOES invoke
// decFn/encFn (the captured reference source's failure to do so is called
// out there as a defect, not intended behavior).
type TransformedPacket struct {
	base
	inner   Packet
	decSize CtxParam[int] // nil means "read to EOF"
	decFn   func(raw []byte) ([]byte, error)
	encFn   func(raw []byte) ([]byte, error)
}

// Transformed builds a wrapper applying a byte-level transform (compression,
// encryption, ...) around inner's own wire bytes. decSize may be nil to mean
// "read to EOF before transforming".
func Transformed(inner Packet, decSize CtxParam[int], decFn, encFn func([]byte) ([]byte, error)) Packet {
	return &TransformedPacket{inner: inner, decSize: decSize, decFn: decFn, encFn: encFn}
}

func (p *TransformedPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	scratch := newBufferStream()
	if err := p.inner.Encode(scratch, obj, ctx); err != nil {
		return err
	}
	raw := scratch.bytes()

	out := raw
	if p.encFn != nil {
		v, err := p.encFn(raw)
		if err != nil {
			return wrapErr(KindEncode, "transform encode function failed", err)
		}
		out = v
	}
	if err := s.Send(out); err != nil {
		return wrapErr(KindStreamWrite, "transformed write failed", err)
	}
	ctx.SetEncoded(out)
	return nil
}

func (p *TransformedPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)

	var raw []byte
	var err error
	if p.decSize != nil {
		n, e := Eval(p.decSize, ctx)
		if e != nil {
			return nil, e
		}
		raw, err = s.Recv(n, true)
	} else {
		raw, err = s.Recv(0, false)
	}
	if err != nil {
		return nil, wrapErr(KindStreamRead, "transformed read failed", err)
	}
	transformed := raw
	if p.decFn != nil {
		v, err := p.decFn(raw)
		if err != nil {
			return nil, wrapErr(KindDecode, "transform decode function failed", err)
		}
		transformed = v
	}

	substream := stream.NewBytesStream(transformed)
	v, err := p.inner.Decode(substream, ctx)
	if err != nil {
		return nil, err
	}
	ctx.SetEncoded(raw)
	ctx.SetValue(v)
	return v, nil
}

func (p *TransformedPacket) Size(ctx *Context) (int, error) { return sizeFromEncoded(ctx) }
