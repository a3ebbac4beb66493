package packet

// Adapter wraps an inner packet and transforms the value crossing the
// boundary: DecFunc turns the inner packet's decoded value into the outer
// logical value, EncFunc turns an outer logical value back into whatever the
// inner packet expects to encode. This is the one mechanism the rest of the
// library uses to change a packet's *type* without changing its *wire
// layout* (PascalString over a count-prefixed Bytes, Mapping over an
// integral, and so on).
type Adapter struct {
	base
	Inner   Packet
	DecFunc func(inner any, ctx *Context) (any, error)
	EncFunc func(outer any, ctx *Context) (any, error)
}

// NewAdapter builds an Adapter. Either function may be nil, meaning "pass
// the value through unchanged".
func NewAdapter(inner Packet, decFunc func(any, *Context) (any, error), encFunc func(any, *Context) (any, error)) *Adapter {
	return &Adapter{Inner: inner, DecFunc: decFunc, EncFunc: encFunc}
}

func (a *Adapter) Name() string       { return a.Inner.Name() }
func (a *Adapter) PostponeLevel() int { return a.Inner.PostponeLevel() }

func (a *Adapter) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	inner := obj
	if a.EncFunc != nil {
		v, err := a.EncFunc(obj, ctx)
		if err != nil {
			return wrapErr(KindEncode, "adapter encode transform failed", err)
		}
		inner = v
	}
	return a.Inner.Encode(s, inner, ctx)
}

func (a *Adapter) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	inner, err := a.Inner.Decode(s, ctx)
	if err != nil {
		return nil, err
	}
	outer := inner
	if a.DecFunc != nil {
		v, err := a.DecFunc(inner, ctx)
		if err != nil {
			return nil, wrapErr(KindDecode, "adapter decode transform failed", err)
		}
		outer = v
	}
	ctx.SetValue(outer)
	return outer, nil
}

func (a *Adapter) Size(ctx *Context) (int, error) {
	return a.Inner.Size(ctx)
}

func (a *Adapter) setPostponeBehavior(level int) {
	a.Inner.setPostponeBehavior(level)
}

// Validator wraps an inner packet with a predicate checked against the
// logical value on both encode and decode. By default the check runs inline
// (just before the inner packet's encode, just after its decode); Postpone-ing a
// Validator defers the check to the enclosing Sequence's on_finish event
// instead, so it can reference sibling fields that are only available once
// the whole structure has been walked.
//
// Deviates deliberately from the captured reference behavior: Predicate
// always runs against a value already stored via ctx.SetValue, in both
// encode and decode, rather than racing the value's own assignment.
type Validator struct {
	base
	Inner     Packet
	Predicate func(v any, ctx *Context) (bool, error)
	Message   string

	postponed     bool
	postponeLevel int
}

// NewValidator builds a Validator.
func NewValidator(inner Packet, predicate func(any, *Context) (bool, error), message string) *Validator {
	return &Validator{Inner: inner, Predicate: predicate, Message: message}
}

func (v *Validator) Name() string { return v.Inner.Name() }

func (v *Validator) PostponeLevel() int {
	if v.postponed {
		return v.postponeLevel
	}
	return v.Inner.PostponeLevel()
}

func (v *Validator) setPostponeBehavior(level int) {
	v.postponed = true
	v.postponeLevel = level
	v.Inner.setPostponeBehavior(level)
}

func (v *Validator) check(value any, ctx *Context) error {
	ok, err := v.Predicate(value, ctx)
	if err != nil {
		return wrapErr(KindInvalid, v.message(), err)
	}
	if !ok {
		return newErr(KindInvalid, v.message())
	}
	return nil
}

func (v *Validator) message() string {
	if v.Message != "" {
		return v.Message
	}
	return "validation predicate failed"
}

func (v *Validator) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	ctx.SetValue(obj)

	runCheck := func() error { return v.check(obj, ctx) }

	if v.postponed {
		if onFinish, ok := ctx.GetMetadata(onFinishKey); ok {
			onFinish.(*Event).Add(runCheck)
		} else if err := runCheck(); err != nil {
			return err
		}
	} else if err := runCheck(); err != nil {
		return err
	}

	return v.Inner.Encode(s, obj, ctx)
}

func (v *Validator) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	value, err := v.Inner.Decode(s, ctx)
	if err != nil {
		return nil, err
	}
	ctx.SetValue(value)

	runCheck := func() error { return v.check(value, ctx) }

	if v.postponed {
		if onFinish, ok := ctx.GetMetadata(onFinishKey); ok {
			onFinish.(*Event).Add(runCheck)
		} else if err := runCheck(); err != nil {
			return nil, err
		}
	} else if err := runCheck(); err != nil {
		return nil, err
	}

	return value, nil
}

func (v *Validator) Size(ctx *Context) (int, error) {
	return v.Inner.Size(ctx)
}

// onFinishKey names the metadata slot a Sequence stores its completion Event
// under, so postponed Validators (and other deferred checks) can subscribe
// to it without every combinator importing sequence.go's internals.
const onFinishKey = "packet.onFinish"
