package packet

import (
	"bytes"
	"fmt"

	"github.com/marmos91/anf/pkg/textcodec"
)

// unitSize returns the minimum code-unit width of a registered encoding, so
// CString can recognize a terminating NUL of the right width (one byte for
// UTF-8/Windows-1252, two bytes for either UTF-16 variant).
func unitSize(name textcodec.Name) int {
	switch name {
	case textcodec.UTF16LE, textcodec.UTF16BE:
		return 2
	default:
		return 1
	}
}

// PaddedString encodes a string into a fixed-size byte region, null-padded
// to the right; decoding reads size bytes and strips trailing NULs before
// text-decoding.
type PaddedStringPacket struct {
	base
	size     CtxParam[int]
	encoding textcodec.Name
}

// PaddedString builds a fixed-size, null-padded string packet.
func PaddedString(size CtxParam[int], encoding textcodec.Name) Packet {
	return &PaddedStringPacket{size: size, encoding: encoding}
}

func (p *PaddedStringPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	str, ok := obj.(string)
	if !ok {
		return wrapErr(KindObjType, fmt.Sprintf("PaddedString expects string, got %T", obj), nil)
	}
	raw, err := textcodec.Encode(p.encoding, str)
	if err != nil {
		return wrapErr(KindEncode, "string encoding failed", err)
	}
	size, err := Eval(p.size, ctx)
	if err != nil {
		return err
	}
	if len(raw) > size {
		return EncodeErrorf("PaddedString: encoded text is %d bytes, exceeds field size %d", len(raw), size)
	}
	buf := make([]byte, size)
	copy(buf, raw)
	if err := s.Send(buf); err != nil {
		return wrapErr(KindStreamWrite, "padded string write failed", err)
	}
	ctx.SetEncoded(buf)
	return nil
}

func (p *PaddedStringPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	size, err := Eval(p.size, ctx)
	if err != nil {
		return nil, err
	}
	buf, err := s.Recv(size, true)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "padded string read failed", err)
	}
	ctx.SetEncoded(buf)

	trimmed := bytes.TrimRight(buf, "\x00")
	str, err := textcodec.Decode(p.encoding, trimmed)
	if err != nil {
		return nil, wrapErr(KindDecode, "string decoding failed", err)
	}
	ctx.SetValue(str)
	return str, nil
}

func (p *PaddedStringPacket) Size(ctx *Context) (int, error) {
	ctx = ensureCtx(ctx)
	return Eval(p.size, ctx)
}

// CString emits text followed by a single terminator (one NUL byte for
// single-byte encodings, two for UTF-16), and decodes incrementally until
// that terminator is found.
type CStringPacket struct {
	base
	encoding textcodec.Name
}

// CString builds a NUL-terminated string packet.
func CString(encoding textcodec.Name) Packet {
	return &CStringPacket{encoding: encoding}
}

func (p *CStringPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	str, ok := obj.(string)
	if !ok {
		return wrapErr(KindObjType, fmt.Sprintf("CString expects string, got %T", obj), nil)
	}
	raw, err := textcodec.Encode(p.encoding, str)
	if err != nil {
		return wrapErr(KindEncode, "string encoding failed", err)
	}
	term := make([]byte, unitSize(p.encoding))
	buf := append(append([]byte{}, raw...), term...)
	if err := s.Send(buf); err != nil {
		return wrapErr(KindStreamWrite, "cstring write failed", err)
	}
	ctx.SetEncoded(buf)
	return nil
}

func (p *CStringPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	unit := unitSize(p.encoding)
	term := make([]byte, unit)

	var buf []byte
	for {
		chunk, err := s.Recv(unit, true)
		if err != nil {
			return nil, wrapErr(KindStreamRead, "cstring read failed", err)
		}
		buf = append(buf, chunk...)
		if bytes.Equal(chunk, term) {
			break
		}
	}
	ctx.SetEncoded(buf)

	str, err := textcodec.Decode(p.encoding, buf[:len(buf)-unit])
	if err != nil {
		return nil, wrapErr(KindDecode, "string decoding failed", err)
	}
	ctx.SetValue(str)
	return str, nil
}

func (p *CStringPacket) Size(ctx *Context) (int, error) { return sizeFromEncoded(ctx) }

// GreedyString encodes/decodes the entire remaining stream as text.
type GreedyStringPacket struct {
	base
	encoding textcodec.Name
}

// GreedyString builds a packet that reads to EOF and text-decodes the
// result.
func GreedyString(encoding textcodec.Name) Packet {
	return &GreedyStringPacket{encoding: encoding}
}

func (p *GreedyStringPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	str, ok := obj.(string)
	if !ok {
		return wrapErr(KindObjType, fmt.Sprintf("GreedyString expects string, got %T", obj), nil)
	}
	raw, err := textcodec.Encode(p.encoding, str)
	if err != nil {
		return wrapErr(KindEncode, "string encoding failed", err)
	}
	if err := s.Send(raw); err != nil {
		return wrapErr(KindStreamWrite, "greedy string write failed", err)
	}
	ctx.SetEncoded(raw)
	return nil
}

func (p *GreedyStringPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	raw, err := s.Recv(0, false)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "greedy string read failed", err)
	}
	ctx.SetEncoded(raw)
	str, err := textcodec.Decode(p.encoding, raw)
	if err != nil {
		return nil, wrapErr(KindDecode, "string decoding failed", err)
	}
	ctx.SetValue(str)
	return str, nil
}

func (p *GreedyStringPacket) Size(ctx *Context) (int, error) { return sizeFromEncoded(ctx) }

// PascalString is a length-prefixed greedy string, where sizeField is any
// integral packet giving the byte length of the text that follows. The
// text<->bytes conversion happens in the outer Adapter, before CountPrefixed
// ever sees the value, so the count it deduces is the *encoded* byte length
// (which for UTF-16/Windows-1252 differs from len() of the Go string) rather
// than the pre-conversion string length.
func PascalString(sizeField Packet, encoding textcodec.Name) Packet {
	body := CountPrefixed(sizeField, func(lenParam CtxParam[int]) Packet {
		return Bytes(lenParam)
	})
	return NewAdapter(body,
		func(inner any, ctx *Context) (any, error) {
			str, err := textcodec.Decode(encoding, inner.([]byte))
			if err != nil {
				return nil, wrapErr(KindDecode, "string decoding failed", err)
			}
			return str, nil
		},
		func(outer any, ctx *Context) (any, error) {
			str, ok := outer.(string)
			if !ok {
				return nil, wrapErr(KindObjType, fmt.Sprintf("PascalString expects string, got %T", outer), nil)
			}
			raw, err := textcodec.Encode(encoding, str)
			if err != nil {
				return nil, wrapErr(KindEncode, "string encoding failed", err)
			}
			return raw, nil
		},
	)
}
