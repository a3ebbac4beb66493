package packet

import "fmt"

// Bytes is a fixed-length raw byte field. length may depend on already-known
// context (a sibling's deduced size); use ConstParam to fix it statically.
type BytesPacket struct {
	base
	length CtxParam[int]
}

// Bytes builds a fixed-length byte-string packet.
func Bytes(length CtxParam[int]) Packet {
	return &BytesPacket{length: length}
}

// FixedBytes is the common case of Bytes with a compile-time-known length.
func FixedBytes(n int) Packet { return Bytes(ConstParam(n)) }

func (p *BytesPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	b, ok := obj.([]byte)
	if !ok {
		return wrapErr(KindObjType, fmt.Sprintf("Bytes expects []byte, got %T", obj), nil)
	}
	n, err := Eval(p.length, ctx)
	if err != nil {
		return err
	}
	if len(b) != n {
		return EncodeErrorf("Bytes expects %d bytes, got %d", n, len(b))
	}
	if err := s.Send(b); err != nil {
		return wrapErr(KindStreamWrite, "bytes write failed", err)
	}
	ctx.SetEncoded(b)
	return nil
}

func (p *BytesPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	n, err := Eval(p.length, ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.Recv(n, true)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "bytes read failed", err)
	}
	ctx.SetEncoded(b)
	ctx.SetValue(b)
	return b, nil
}

func (p *BytesPacket) Size(ctx *Context) (int, error) {
	ctx = ensureCtx(ctx)
	return Eval(p.length, ctx)
}

// GreedyBytes consumes every remaining byte on decode, and encodes any
// []byte value as-is (its size isn't known without already-encoded data).
type GreedyBytesPacket struct{ base }

// GreedyBytes builds a packet that reads to EOF on decode and writes
// whatever []byte it's given on encode.
func GreedyBytes() Packet { return &GreedyBytesPacket{} }

func (p *GreedyBytesPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)
	b, ok := obj.([]byte)
	if !ok {
		return wrapErr(KindObjType, fmt.Sprintf("GreedyBytes expects []byte, got %T", obj), nil)
	}
	if err := s.Send(b); err != nil {
		return wrapErr(KindStreamWrite, "greedy bytes write failed", err)
	}
	ctx.SetEncoded(b)
	return nil
}

func (p *GreedyBytesPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	b, err := s.Recv(0, false)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "greedy bytes read failed", err)
	}
	ctx.SetEncoded(b)
	ctx.SetValue(b)
	return b, nil
}

func (p *GreedyBytesPacket) Size(ctx *Context) (int, error) { return sizeFromEncoded(ctx) }
