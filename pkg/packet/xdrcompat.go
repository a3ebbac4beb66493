package packet

import (
	"bytes"

	xdr "github.com/rasky/go-xdr/xdr2"
)

// XDRStruct adapts a Go struct already wired for github.com/rasky/go-xdr
// (RFC 4506 XDR, the teacher's own wire codec) into a Packet: a single
// opaque field covering a whole struct whose layout is governed by XDR's
// struct-tag rules rather than this package's combinators. This is the
// escape hatch for interop with hand-written XDR types — e.g. dropping an
// already-annotated RPC payload struct into a Sequence without restating
// its layout as combinators.
//
// newValue must return a pointer to a fresh zero value of the target type;
// it's called once per Decode.
type XDRStructPacket struct {
	base
	newValue func() any
}

// XDRStruct builds an opaque field that marshals/unmarshals via
// github.com/rasky/go-xdr.
func XDRStruct(newValue func() any) Packet {
	return &XDRStructPacket{newValue: newValue}
}

func (p *XDRStructPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, obj); err != nil {
		return wrapErr(KindEncode, "xdr marshal failed", err)
	}
	if err := s.Send(buf.Bytes()); err != nil {
		return wrapErr(KindStreamWrite, "xdr struct write failed", err)
	}
	ctx.SetEncoded(buf.Bytes())
	return nil
}

func (p *XDRStructPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)

	raw, err := s.Recv(0, false)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "xdr struct read failed", err)
	}

	target := p.newValue()
	n, err := xdr.Unmarshal(bytes.NewReader(raw), target)
	if err != nil {
		return nil, wrapErr(KindDecode, "xdr unmarshal failed", err)
	}

	ctx.SetEncoded(raw[:n])
	ctx.SetValue(target)
	return target, nil
}

func (p *XDRStructPacket) Size(ctx *Context) (int, error) { return sizeFromEncoded(ctx) }
