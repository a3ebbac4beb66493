package packet

// Checksum behaves as a field whose value is derived by hashFn(dataExpr(ctx))
// rather than supplied by the caller: on encode it always writes that digest
// through inner as it is, with no further step applied to it (Auto is the
// conventional obj; any explicit obj is ignored, not checked against the
// digest); on decode it verifies the wire value via validateFn.
//
// Typically the field is declared after whatever dataExpr references (see
// spec.md §8 scenario 5: the checksum field follows the message field it
// covers), so no special postponement support is needed here — Sequence's
// own postpone-level ordering already lets a Checksum declared *before* its
// dependency be wrapped with Postpone to get the same effect.
type ChecksumPacket struct {
	base
	inner      Packet
	dataExpr   CtxParam[[]byte]
	hashFn     func(data []byte) any
	validateFn func(decoded any, computed any) (bool, error)
}

// Checksum builds a derived-value field: hashFn computes a digest from the
// bytes dataExpr resolves to, inner is the wire packet for the digest
// itself (commonly an integral or Bytes packet), and validateFn compares a
// decoded value against the freshly recomputed one.
func Checksum(inner Packet, dataExpr CtxParam[[]byte], hashFn func([]byte) any, validateFn func(decoded any, computed any) (bool, error)) Packet {
	return &ChecksumPacket{inner: inner, dataExpr: dataExpr, hashFn: hashFn, validateFn: validateFn}
}

func (p *ChecksumPacket) Name() string       { return p.inner.Name() }
func (p *ChecksumPacket) PostponeLevel() int { return p.inner.PostponeLevel() }

func (p *ChecksumPacket) Encode(s Stream, obj any, ctx *Context) error {
	ctx = ensureCtx(ctx)
	data, err := Eval(p.dataExpr, ctx)
	if err != nil {
		return err
	}
	computed := p.hashFn(data)
	ctx.SetValue(computed)
	return p.inner.Encode(s, computed, ctx)
}

func (p *ChecksumPacket) Decode(s Stream, ctx *Context) (any, error) {
	ctx = ensureCtx(ctx)
	decoded, err := p.inner.Decode(s, ctx)
	if err != nil {
		return nil, err
	}
	data, err := Eval(p.dataExpr, ctx)
	if err != nil {
		return nil, err
	}
	computed := p.hashFn(data)

	ok, err := p.validateFn(decoded, computed)
	if err != nil {
		return nil, wrapErr(KindDecode, "checksum validation failed", err)
	}
	if !ok {
		return nil, DecodeErrorf("checksum mismatch: got %v, expected %v", decoded, computed)
	}
	ctx.SetValue(decoded)
	return decoded, nil
}

func (p *ChecksumPacket) Size(ctx *Context) (int, error) { return p.inner.Size(ctx) }

func (p *ChecksumPacket) setPostponeBehavior(level int) {
	p.inner.setPostponeBehavior(level)
}

// Sum8 is a trivial hashFn: the sum of data bytes modulo 256, matching
// spec.md §8 scenario 5's `sum % 256` checksum.
func Sum8(data []byte) any {
	var total int64
	for _, b := range data {
		total += int64(b)
	}
	return total % 256
}

// EqualValidator is the common validateFn: the decoded value must equal the
// recomputed one.
func EqualValidator(decoded, computed any) (bool, error) {
	return valuesEqual(decoded, computed), nil
}
