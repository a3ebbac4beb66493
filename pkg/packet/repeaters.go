package packet

import "fmt"

// Array is a sequence of count(ctx) identical items. It is Sized only if its
// item packet is itself Sized (a fixed-width item times a known count).
type ArrayPacket struct {
	base
	item  Packet
	count CtxParam[int]
}

// Array builds a fixed-count repetition of item.
func Array(item Packet, count CtxParam[int]) Packet {
	return &ArrayPacket{item: item, count: count}
}

func (p *ArrayPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	items, ok := obj.([]any)
	if !ok {
		return wrapErr(KindObjType, fmt.Sprintf("Array expects []any, got %T", obj), nil)
	}
	count, err := Eval(p.count, ctx)
	if err != nil {
		return err
	}
	if len(items) != count {
		return EncodeErrorf("Array expects %d items, got %d", count, len(items))
	}

	var encoded []byte
	for i, item := range items {
		childCtx := ctx.Child(fmt.Sprintf("_%d", i))
		scratch := newBufferStream()
		if err := p.item.Encode(scratch, item, childCtx); err != nil {
			return attributeField(err, fmt.Sprintf("[%d]", i))
		}
		childCtx.SetEncoded(scratch.bytes())
		encoded = append(encoded, scratch.bytes()...)
	}
	if err := s.Send(encoded); err != nil {
		return wrapErr(KindStreamWrite, "array write failed", err)
	}
	ctx.SetEncoded(encoded)
	return nil
}

func (p *ArrayPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	count, err := Eval(p.count, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]any, count)
	var encoded []byte
	for i := 0; i < count; i++ {
		childCtx := ctx.Child(fmt.Sprintf("_%d", i))
		v, err := p.item.Decode(s, childCtx)
		if err != nil {
			return nil, attributeField(err, fmt.Sprintf("[%d]", i))
		}
		items[i] = v
		if data, ok := childCtx.Encoded(); ok {
			encoded = append(encoded, data...)
		}
	}
	ctx.SetEncoded(encoded)
	ctx.SetValue(items)
	return items, nil
}

func (p *ArrayPacket) Size(ctx *Context) (int, error) {
	ctx = ensureCtx(ctx)
	count, err := Eval(p.count, ctx)
	if err != nil {
		return 0, err
	}
	itemSize, err := p.item.Size(ctx)
	if err != nil {
		return 0, err
	}
	return itemSize * count, nil
}
