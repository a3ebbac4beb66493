package packet

import "fmt"

// field pairs a packet with the name it was declared under (possibly "",
// for a positional-only field in a Sequence that isn't exposed as a Struct
// member).
type field struct {
	name string
	pkt  Packet
}

// Sequence is the core structural combinator: an ordered list of fields,
// each decoded in declaration order but encoded in two passes ordered by
// PostponeLevel (stable within a level), so a field can reference a sibling
// that is only known once that sibling has itself been written (a
// forward-referencing checksum or size prefix).
//
// Sequence's logical value is a []any positional tuple; Struct (below)
// layers a map[string]any view on top via Adapter.
type Sequence struct {
	base
	fields []field
}

// NewSequence builds a Sequence out of fields in declaration order. A field
// built with Rename exposes its name to Member/Path lookups and to Struct;
// an unnamed field is still addressable positionally.
func NewSequence(fields ...Packet) *Sequence {
	named := make([]field, len(fields))
	for i, f := range fields {
		named[i] = field{name: f.Name(), pkt: f}
	}
	return &Sequence{fields: named}
}

func (sq *Sequence) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	values, err := sq.asSlice(obj)
	if err != nil {
		return err
	}
	if len(values) != len(sq.fields) {
		return EncodeErrorf("sequence expects %d values, got %d", len(sq.fields), len(values))
	}

	onFinish := &Event{}
	ctx.SetMetadata(onFinishKey, onFinish)
	defer ctx.DeleteMetadata(onFinishKey)

	order := sq.encodeOrder()

	// Pass 1: walk in postpone order, but buffer each field's stream writes
	// so the final output still lands in declaration order.
	written := make([][]byte, len(sq.fields))
	for _, idx := range order {
		f := sq.fields[idx]
		childCtx := sq.childCtx(ctx, f, idx)

		scratch := newBufferStream()
		if err := f.pkt.Encode(scratch, values[idx], childCtx); err != nil {
			return attributeField(err, fieldLabel(f, idx))
		}
		data := scratch.bytes()
		childCtx.SetEncoded(data)
		written[idx] = data
	}

	if err := onFinish.Fire(); err != nil {
		return err
	}

	for _, data := range written {
		if err := s.Send(data); err != nil {
			return wrapErr(KindStreamWrite, "sequence write failed", err)
		}
	}
	return nil
}

func (sq *Sequence) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)

	onFinish := &Event{}
	ctx.SetMetadata(onFinishKey, onFinish)
	defer ctx.DeleteMetadata(onFinishKey)

	values := make([]any, len(sq.fields))
	for idx, f := range sq.fields {
		childCtx := sq.childCtx(ctx, f, idx)

		v, err := f.pkt.Decode(s, childCtx)
		if err != nil {
			return nil, attributeField(err, fieldLabel(f, idx))
		}
		values[idx] = v
	}

	if err := onFinish.Fire(); err != nil {
		return nil, err
	}

	ctx.SetValue(values)
	return values, nil
}

func (sq *Sequence) Size(ctx *Context) (int, error) {
	ctx = ensureCtx(ctx)
	total := 0
	for idx, f := range sq.fields {
		childCtx := sq.childCtx(ctx, f, idx)
		n, err := f.pkt.Size(childCtx)
		if err != nil {
			return 0, attributeField(err, fieldLabel(f, idx))
		}
		total += n
	}
	return total, nil
}

// encodeOrder returns field indices sorted by PostponeLevel, stable within a
// level, per spec §4.2's two-pass encoding rule.
func (sq *Sequence) encodeOrder() []int {
	order := make([]int, len(sq.fields))
	for i := range order {
		order[i] = i
	}
	// simple stable insertion sort on PostponeLevel: field counts are small
	// and this keeps the ordering rule easy to audit against the spec text.
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && sq.fields[order[j-1]].pkt.PostponeLevel() > sq.fields[order[j]].pkt.PostponeLevel() {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
	return order
}

func (sq *Sequence) childCtx(ctx *Context, f field, idx int) *Context {
	name := f.name
	if name == "" {
		name = fmt.Sprintf("_%d", idx)
	}
	return ctx.Child(name)
}

func fieldLabel(f field, idx int) string {
	if f.name != "" {
		return f.name
	}
	return fmt.Sprintf("_%d", idx)
}

func attributeField(err error, name string) error {
	if pe, ok := err.(*Error); ok {
		return pe.WithField(name)
	}
	return err
}

func (sq *Sequence) asSlice(obj any) ([]any, error) {
	switch v := obj.(type) {
	case []any:
		return v, nil
	case nil:
		if len(sq.fields) == 0 {
			return nil, nil
		}
		return nil, EncodeErrorf("sequence expects %d values, got nil", len(sq.fields))
	default:
		return nil, wrapErr(KindObjType, fmt.Sprintf("sequence expects []any, got %T", obj), nil)
	}
}

// bufferStream is a tiny write-only Stream used internally by Sequence to
// capture each field's output before reassembling it in declaration order.
type bufferStream struct {
	data []byte
}

func newBufferStream() *bufferStream { return &bufferStream{} }

func (b *bufferStream) Send(data []byte) error {
	b.data = append(b.data, data...)
	return nil
}
func (b *bufferStream) Recv(int, bool) ([]byte, error)  { return nil, fmt.Errorf("bufferStream is write-only") }
func (b *bufferStream) RecvUntil([]byte) ([]byte, error) { return nil, fmt.Errorf("bufferStream is write-only") }
func (b *bufferStream) RecvLine() ([]byte, error)        { return nil, fmt.Errorf("bufferStream is write-only") }
func (b *bufferStream) Close() error                      { return nil }
func (b *bufferStream) WaitClosed() error                 { return nil }
func (b *bufferStream) bytes() []byte                     { return b.data }

// Struct layers a map[string]any view over a Sequence of named fields: the
// logical value becomes a map keyed by field name instead of a positional
// tuple. Every field passed to NewStruct must be named (built with Rename);
// an unnamed field is a configuration error caught at construction time via
// a panic, mirroring the teacher's fail-fast style for programmer errors in
// protocol table setup.
type Struct struct {
	*Adapter
	names []string
}

// NewStruct builds a Struct out of named fields in declaration order.
func NewStruct(fields ...Packet) *Struct {
	names := make([]string, len(fields))
	for i, f := range fields {
		if f.Name() == "" {
			panic(fmt.Sprintf("packet.NewStruct: field %d has no name; wrap it with Rename", i))
		}
		names[i] = f.Name()
	}

	seq := NewSequence(fields...)
	st := &Struct{names: names}
	st.Adapter = NewAdapter(seq,
		func(inner any, ctx *Context) (any, error) {
			values := inner.([]any)
			m := make(map[string]any, len(values))
			for i, name := range names {
				m[name] = values[i]
			}
			return m, nil
		},
		func(outer any, ctx *Context) (any, error) {
			m, ok := outer.(map[string]any)
			if !ok {
				return nil, wrapErr(KindObjType, fmt.Sprintf("struct expects map[string]any, got %T", outer), nil)
			}
			values := make([]any, len(names))
			for i, name := range names {
				v, ok := m[name]
				if !ok {
					return nil, EncodeErrorf("struct missing field %q", name)
				}
				values[i] = v
			}
			return values, nil
		},
	)
	return st
}
