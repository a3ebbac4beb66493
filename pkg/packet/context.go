package packet

import "fmt"

// Context is a node in the tree rooted at each top-level Encode/Decode call.
// It carries the per-field value, the exact byte slice that field
// contributed to the stream, named children in insertion order, and a
// scratch metadata map used by structural combinators (the on_finish
// event, Conditional's chosen branch, and similar bookkeeping).
//
// A Context tree exists only for the duration of a single Encode or Decode
// call; packets themselves outlive every context they are invoked with.
type Context struct {
	parent      *Context
	curName     string
	hasValue    bool
	value       any
	hasEncoded  bool
	encoded     []byte
	members     map[string]*Context
	memberOrder []string
	metadata    map[string]any
}

// NewContext returns a fresh root context with no parent.
func NewContext() *Context {
	return &Context{}
}

// Parent returns the enclosing context, or nil at the root.
func (c *Context) Parent() *Context {
	return c.parent
}

// Value returns the value stored on this context and whether one has been
// set yet. During encode it is set before the field's implementation runs;
// during decode it is set once the field has produced its result.
func (c *Context) Value() (any, bool) {
	return c.value, c.hasValue
}

// SetValue stores v as this context's current value.
func (c *Context) SetValue(v any) {
	c.value = v
	c.hasValue = true
}

// Encoded returns the exact bytes this field contributed to the stream, and
// whether they have been recorded yet.
func (c *Context) Encoded() ([]byte, bool) {
	return c.encoded, c.hasEncoded
}

// SetEncoded records the byte slice a field produced or consumed, and
// mirrors it onto the parent's view of this child so that siblings can
// inspect enc_partial-style state through the context tree alone.
func (c *Context) SetEncoded(data []byte) []byte {
	c.encoded = data
	c.hasEncoded = true
	return data
}

// Child creates (or returns, if already created) the uniquely-owned child
// context for the named field. Calls with the same name share one node, so
// Sequence and Array give unnamed fields a positional name ("_0", "_1", ...)
// to keep each field's node distinct.
func (c *Context) Child(name string) *Context {
	if c.members == nil {
		c.members = make(map[string]*Context)
	}
	child, ok := c.members[name]
	if !ok {
		child = &Context{parent: c, curName: name}
		c.members[name] = child
		c.memberOrder = append(c.memberOrder, name)
	}
	return child
}

// Member resolves a single path segment against this context. The empty
// string denotes self; "_" denotes the parent, and resolving it at the root
// is an error.
func (c *Context) Member(name string) (*Context, error) {
	switch name {
	case "":
		return c, nil
	case "_":
		if c.parent == nil {
			return nil, fmt.Errorf("context has no parent")
		}
		return c.parent, nil
	default:
		child, ok := c.members[name]
		if !ok {
			return nil, fmt.Errorf("no such field %q", name)
		}
		return child, nil
	}
}

// GetMetadata reads a scratch metadata entry, walking up to enclosing
// contexts if it isn't set locally. Every field a Sequence invokes runs
// against its own child context (see Child), never the Sequence's own — so
// without this walk, a postponed Validator or AutoPacket field could never
// find the on_finish Event its enclosing Sequence stashed on itself, and
// would always run its check inline instead of deferring it. Returns
// ok=false only once the walk reaches the root with no match.
func (c *Context) GetMetadata(key string) (any, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.metadata == nil {
			continue
		}
		if v, ok := cur.metadata[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// SetMetadata writes a scratch metadata entry.
func (c *Context) SetMetadata(key string, value any) {
	if c.metadata == nil {
		c.metadata = make(map[string]any)
	}
	c.metadata[key] = value
}

// DeleteMetadata removes a scratch metadata entry, if present.
func (c *Context) DeleteMetadata(key string) {
	delete(c.metadata, key)
}

// Event is a subscription list of zero-argument callbacks, fired in
// registration order by the owning Sequence once its walk completes. A
// callback that returns an error aborts the remaining callbacks and that
// error is attributed to the Sequence's completion step.
type Event struct {
	listeners []func() error
}

// Add appends a callback to the subscription list.
func (e *Event) Add(fn func() error) {
	e.listeners = append(e.listeners, fn)
}

// Fire invokes every subscribed callback in order, stopping at (and
// returning) the first error.
func (e *Event) Fire() error {
	for _, fn := range e.listeners {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

// CtxParam is either a constant value or a function of the current context,
// evaluated lazily wherever a field's behavior depends on its siblings.
type CtxParam[T any] func(ctx *Context) (T, error)

// ConstParam lifts a plain value into a context-independent CtxParam.
func ConstParam[T any](v T) CtxParam[T] {
	return func(*Context) (T, error) { return v, nil }
}

// Eval runs p against ctx. A nil ctx is treated as an empty root context.
func Eval[T any](p CtxParam[T], ctx *Context) (T, error) {
	if ctx == nil {
		ctx = NewContext()
	}
	return p(ctx)
}

// Path is an immutable, dotted reference to another context, resolved by
// walking parent/child links. It mirrors the embedded query-expression
// style of the combinator algebra: paths are pure descriptors, evaluation
// is a read-only tree walk.
type Path struct {
	segments []string
	encoded  bool
}

// This is the empty path: the context Eval is called against.
var This = Path{}

// Field extends the path with a named child.
func (p Path) Field(name string) Path {
	segments := make([]string, len(p.segments)+1)
	copy(segments, p.segments)
	segments[len(p.segments)] = name
	return Path{segments: segments, encoded: p.encoded}
}

// Up extends the path to the parent context ("_").
func (p Path) Up() Path {
	return p.Field("_")
}

// AsEncoded marks the path as referring to the target's encoded bytes
// rather than its logical value.
func (p Path) AsEncoded() Path {
	p.encoded = true
	return p
}

// resolve walks ctx according to the path's segments.
func (p Path) resolve(ctx *Context) (*Context, error) {
	cur := ctx
	if cur == nil {
		cur = NewContext()
	}
	for _, seg := range p.segments {
		next, err := cur.Member(seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Value resolves the path and reads either the target's value or its
// encoded bytes, depending on AsEncoded.
func (p Path) Value(ctx *Context) (any, error) {
	target, err := p.resolve(ctx)
	if err != nil {
		return nil, err
	}
	if p.encoded {
		data, ok := target.Encoded()
		if !ok {
			return nil, fmt.Errorf("field not yet encoded")
		}
		return data, nil
	}
	v, ok := target.Value()
	if !ok {
		return nil, fmt.Errorf("field not yet populated")
	}
	return v, nil
}

// PathParam builds a typed CtxParam out of a Path, type-asserting the
// resolved value to T.
func PathParam[T any](p Path) CtxParam[T] {
	return func(ctx *Context) (T, error) {
		var zero T
		v, err := p.Value(ctx)
		if err != nil {
			return zero, err
		}
		t, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("path %v: expected %T, got %T", p.segments, zero, v)
		}
		return t, nil
	}
}

// EncodedBytes resolves p and returns the target's recorded encoded slice,
// for dependent-value fields (checksums) that need a sibling's exact wire
// bytes.
func EncodedBytes(p Path) CtxParam[[]byte] {
	ep := p.AsEncoded()
	return func(ctx *Context) ([]byte, error) {
		v, err := ep.Value(ctx)
		if err != nil {
			return nil, err
		}
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("path %v: encoded value is %T, not []byte", p.segments, v)
		}
		return b, nil
	}
}

// EncodedLen resolves p and returns the byte length of the target's
// recorded encoded slice, for dependent-value fields (pad sizes, size
// prefixes) that need a sibling's wire length rather than its logical
// value's length.
func EncodedLen(p Path) CtxParam[int] {
	ep := p.AsEncoded()
	return func(ctx *Context) (int, error) {
		v, err := ep.Value(ctx)
		if err != nil {
			return 0, err
		}
		b, ok := v.([]byte)
		if !ok {
			return 0, fmt.Errorf("path %v: encoded value is %T, not []byte", p.segments, v)
		}
		return len(b), nil
	}
}

// PathLen is the common case of PathParam[int] derived from len() of a
// resolved []byte/string/slice value, mirroring the `len_` helper of the
// path expression language this is grounded on.
func PathLen(p Path) CtxParam[int] {
	return func(ctx *Context) (int, error) {
		v, err := p.Value(ctx)
		if err != nil {
			return 0, err
		}
		switch t := v.(type) {
		case []byte:
			return len(t), nil
		case string:
			return len(t), nil
		case []any:
			return len(t), nil
		default:
			return 0, fmt.Errorf("path %v: value of type %T has no length", p.segments, v)
		}
	}
}
