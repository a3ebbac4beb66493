package stream

import "bytes"

// BytesStream is the in-memory stream variant behind Transformed's and
// SizePrefixed's bounded decode substreams and the convenience
// EncodeToBytes/DecodeFromBytes entry points.
type BytesStream struct {
	buf *bytes.Buffer
	pos int
	r   []byte
}

// NewBytesStream creates an in-memory stream. If initial is non-nil, it is
// the data available to read; writes always append to an internal buffer
// that GetData returns.
func NewBytesStream(initial []byte) *BytesStream {
	return &BytesStream{buf: new(bytes.Buffer), r: initial}
}

func (b *BytesStream) Send(data []byte) error {
	b.buf.Write(data)
	return nil
}

func (b *BytesStream) Recv(size int, exactly bool) ([]byte, error) {
	remaining := b.r[b.pos:]

	if size <= 0 {
		b.pos = len(b.r)
		out := make([]byte, len(remaining))
		copy(out, remaining)
		return out, nil
	}

	if size > len(remaining) {
		if exactly {
			return nil, readErr(errShortRead{want: size, got: len(remaining)})
		}
		size = len(remaining)
	}

	out := make([]byte, size)
	copy(out, remaining[:size])
	b.pos += size
	return out, nil
}

func (b *BytesStream) RecvUntil(delim []byte) ([]byte, error) {
	remaining := b.r[b.pos:]
	idx := bytes.Index(remaining, delim)
	if idx < 0 {
		return nil, readErr(errShortRead{want: -1, got: len(remaining)})
	}
	end := idx + len(delim)
	out := make([]byte, end)
	copy(out, remaining[:end])
	b.pos += end
	return out, nil
}

func (b *BytesStream) RecvLine() ([]byte, error) {
	return b.RecvUntil([]byte{'\n'})
}

func (b *BytesStream) Close() error       { return nil }
func (b *BytesStream) WaitClosed() error  { return nil }

// AtEOF reports whether every readable byte has been consumed.
func (b *BytesStream) AtEOF() bool {
	return b.pos >= len(b.r)
}

// Reset seeks the read cursor back to the start.
func (b *BytesStream) Reset() {
	b.pos = 0
}

// GetData returns every byte written to the stream so far.
func (b *BytesStream) GetData() []byte {
	return b.buf.Bytes()
}

type errShortRead struct {
	want, got int
}

func (e errShortRead) Error() string {
	if e.want < 0 {
		return "delimiter not found before EOF"
	}
	return "short read: wanted more bytes than were available"
}
