package packet

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ByteOrder selects the wire endianness of a fixed-width integral packet.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) impl() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// fixedInt is the shared implementation behind the Int8/16/32/64 and
// UInt8/16/32/64 constructors: a fixed-width two's-complement integer at a
// chosen endianness, exposed through the library as an int64 logical value.
type fixedInt struct {
	base
	width   int
	order   ByteOrder
	signed  bool
}

func newFixedInt(width int, order ByteOrder, signed bool) *fixedInt {
	return &fixedInt{width: width, order: order, signed: signed}
}

func (p *fixedInt) Size(ctx *Context) (int, error) { return p.width, nil }

func (p *fixedInt) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	v, err := p.asInt64(obj)
	if err != nil {
		return err
	}
	if err := p.rangeCheck(v); err != nil {
		return err
	}

	buf := make([]byte, p.width)
	switch p.width {
	case 1:
		buf[0] = byte(v)
	case 2:
		p.order.impl().PutUint16(buf, uint16(v))
	case 4:
		p.order.impl().PutUint32(buf, uint32(v))
	case 8:
		p.order.impl().PutUint64(buf, uint64(v))
	}
	if err := s.Send(buf); err != nil {
		return wrapErr(KindStreamWrite, "integral write failed", err)
	}
	ctx.SetEncoded(buf)
	return nil
}

func (p *fixedInt) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	buf, err := s.Recv(p.width, true)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "integral read failed", err)
	}

	var u uint64
	switch p.width {
	case 1:
		u = uint64(buf[0])
	case 2:
		u = uint64(p.order.impl().Uint16(buf))
	case 4:
		u = uint64(p.order.impl().Uint32(buf))
	case 8:
		u = p.order.impl().Uint64(buf)
	}

	var v int64
	if p.signed {
		switch p.width {
		case 1:
			v = int64(int8(u))
		case 2:
			v = int64(int16(u))
		case 4:
			v = int64(int32(u))
		case 8:
			v = int64(u)
		}
	} else {
		v = int64(u)
	}

	ctx.SetEncoded(buf)
	ctx.SetValue(v)
	return v, nil
}

func (p *fixedInt) asInt64(obj any) (int64, error) {
	switch v := obj.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	default:
		return 0, wrapErr(KindObjType, fmt.Sprintf("integral expects an integer value, got %T", obj), nil)
	}
}

func (p *fixedInt) rangeCheck(v int64) error {
	bits := uint(p.width * 8)
	if p.signed {
		lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
		if v < lo || v > hi {
			return EncodeErrorf("value %d out of range for signed %d-bit integral", v, bits)
		}
	} else {
		if v < 0 || (bits < 64 && v >= int64(1)<<bits) {
			return EncodeErrorf("value %d out of range for unsigned %d-bit integral", v, bits)
		}
	}
	return nil
}

// Int8/Int16/Int32/Int64 build signed fixed-width integral packets.
func Int8() Packet                    { return newFixedInt(1, LittleEndian, true) }
func Int16(order ByteOrder) Packet    { return newFixedInt(2, order, true) }
func Int32(order ByteOrder) Packet    { return newFixedInt(4, order, true) }
func Int64(order ByteOrder) Packet    { return newFixedInt(8, order, true) }

// UInt8/UInt16/UInt32/UInt64 build unsigned fixed-width integral packets.
func UInt8() Packet                 { return newFixedInt(1, LittleEndian, false) }
func UInt16(order ByteOrder) Packet { return newFixedInt(2, order, false) }
func UInt32(order ByteOrder) Packet { return newFixedInt(4, order, false) }
func UInt64(order ByteOrder) Packet { return newFixedInt(8, order, false) }

// BytesInt is an arbitrary-width (not restricted to 1/2/4/8) signed or
// unsigned big-endian or little-endian integer occupying exactly width bytes, used
// for odd-sized wire fields (e.g. a 12-byte counter) that fixedInt can't
// represent.
type BytesIntPacket struct {
	base
	width int
	order ByteOrder
	signed bool
}

// BytesInt builds a fixed-width integral packet of an arbitrary byte width.
func BytesInt(width int, order ByteOrder, signed bool) Packet {
	return &BytesIntPacket{width: width, order: order, signed: signed}
}

func (p *BytesIntPacket) Size(ctx *Context) (int, error) { return p.width, nil }

func (p *BytesIntPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	v, err := (&fixedInt{signed: p.signed}).asInt64(obj)
	if err != nil {
		return err
	}

	buf := make([]byte, p.width)
	x := v
	for i := p.width - 1; i >= 0; i-- {
		buf[i] = byte(x)
		x >>= 8
	}
	if p.order == LittleEndian {
		reverse(buf)
	}
	if err := s.Send(buf); err != nil {
		return wrapErr(KindStreamWrite, "bytes-int write failed", err)
	}
	ctx.SetEncoded(buf)
	return nil
}

func (p *BytesIntPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	buf, err := s.Recv(p.width, true)
	if err != nil {
		return nil, wrapErr(KindStreamRead, "bytes-int read failed", err)
	}

	be := make([]byte, p.width)
	copy(be, buf)
	if p.order == LittleEndian {
		reverse(be)
	}
	if len(be) > 8 {
		be = be[len(be)-8:]
	}
	padded := make([]byte, 8)
	copy(padded[8-len(be):], be)
	u := binary.BigEndian.Uint64(padded)

	var v int64
	if p.signed && p.width < 8 && buf[len(buf)-signByteIndex(p.order, p.width)]&0x80 != 0 {
		v = int64(u) - (int64(1) << uint(p.width*8))
	} else {
		v = int64(u)
	}

	ctx.SetEncoded(buf)
	ctx.SetValue(v)
	return v, nil
}

func signByteIndex(order ByteOrder, width int) int {
	if order == LittleEndian {
		return 1
	}
	return width
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// VarInt is a LEB128-style variable-length unsigned integer: seven payload
// bits per byte, high bit set on every byte but the last.
type VarIntPacket struct{ base }

// VarInt builds a little-endian-base-128 variable-length unsigned integer.
func VarInt() Packet { return &VarIntPacket{} }

func (p *VarIntPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	v, err := (&fixedInt{}).asInt64(obj)
	if err != nil {
		return err
	}
	if v < 0 {
		return EncodeErrorf("VarInt cannot encode a negative value %d", v)
	}

	u := uint64(v)
	var buf []byte
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if u == 0 {
			break
		}
	}
	if err := s.Send(buf); err != nil {
		return wrapErr(KindStreamWrite, "varint write failed", err)
	}
	ctx.SetEncoded(buf)
	return nil
}

func (p *VarIntPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	var buf []byte
	var u uint64
	shift := uint(0)
	for {
		b, err := s.Recv(1, true)
		if err != nil {
			return nil, wrapErr(KindStreamRead, "varint read failed", err)
		}
		buf = append(buf, b[0])
		u |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			break
		}
		shift += 7
		if shift > 63 {
			return nil, DecodeErrorf("varint exceeds 64 bits")
		}
	}
	ctx.SetEncoded(buf)
	v := int64(u)
	ctx.SetValue(v)
	return v, nil
}

func (p *VarIntPacket) Size(ctx *Context) (int, error) { return sizeFromEncoded(ctx) }

// ZigZag wraps a VarInt-shaped signed packet: it maps signed integers onto
// the unsigned domain (0,-1,1,-2,2,... -> 0,1,2,3,4,...) before delegating to
// a VarInt, so negative values cost the same as their magnitude rather than
// always occupying the maximum width.
func ZigZag() Packet {
	return NewAdapter(VarInt(),
		func(inner any, ctx *Context) (any, error) {
			u := inner.(int64)
			return int64(uint64(u)>>1) ^ -(u & 1), nil
		},
		func(outer any, ctx *Context) (any, error) {
			v, ok := outer.(int64)
			if !ok {
				if iv, ok2 := outer.(int); ok2 {
					v = int64(iv)
				} else {
					return nil, wrapErr(KindObjType, fmt.Sprintf("zigzag expects an integer, got %T", outer), nil)
				}
			}
			return int64(uint64(v)<<1) ^ (v >> 63), nil
		},
	)
}

// Float32/Float64 are IEEE-754 floating point packets at a chosen
// endianness.
func Float32(order ByteOrder) Packet {
	return NewAdapter(UInt32(order),
		func(inner any, ctx *Context) (any, error) {
			return math.Float32frombits(uint32(inner.(int64))), nil
		},
		func(outer any, ctx *Context) (any, error) {
			f, ok := outer.(float32)
			if !ok {
				if f64, ok2 := outer.(float64); ok2 {
					f = float32(f64)
				} else {
					return nil, wrapErr(KindObjType, fmt.Sprintf("Float32 expects a float, got %T", outer), nil)
				}
			}
			return int64(math.Float32bits(f)), nil
		},
	)
}

func Float64(order ByteOrder) Packet {
	return NewAdapter(UInt64(order),
		func(inner any, ctx *Context) (any, error) {
			return math.Float64frombits(uint64(inner.(int64))), nil
		},
		func(outer any, ctx *Context) (any, error) {
			f, ok := outer.(float64)
			if !ok {
				return nil, wrapErr(KindObjType, fmt.Sprintf("Float64 expects a float64, got %T", outer), nil)
			}
			return int64(math.Float64bits(f)), nil
		},
	)
}
