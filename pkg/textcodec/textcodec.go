// Package textcodec is a small registry of named text encodings backing
// every string packet's configurable encoding (UTF-8 by default). It wraps
// golang.org/x/text/encoding so string packets can take a plain encoding
// name instead of wiring a golang.org/x/text.Encoding by hand.
package textcodec

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/charmap"
)

// Name identifies a registered text encoding.
type Name string

const (
	UTF8         Name = "utf-8"
	UTF16LE      Name = "utf-16le"
	UTF16BE      Name = "utf-16be"
	Windows1252  Name = "windows-1252"
)

var registry = map[Name]encoding.Encoding{
	UTF8:        encoding.Nop,
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	Windows1252: charmap.Windows1252,
}

// Get resolves a registered encoding by name. An empty name resolves to
// UTF-8.
func Get(name Name) (encoding.Encoding, error) {
	if name == "" {
		name = UTF8
	}
	enc, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("textcodec: unknown encoding %q", name)
	}
	return enc, nil
}

// Encode transforms a Go string (UTF-8) into bytes of the named encoding.
func Encode(name Name, s string) ([]byte, error) {
	enc, err := Get(name)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("textcodec: encode to %q failed: %w", name, err)
	}
	return out, nil
}

// Decode transforms bytes of the named encoding into a Go string (UTF-8).
func Decode(name Name, b []byte) (string, error) {
	enc, err := Get(name)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("textcodec: decode from %q failed: %w", name, err)
	}
	return string(out), nil
}

// Register adds or overrides a named encoding, for host applications that
// need a codec this package doesn't ship by default.
func Register(name Name, enc encoding.Encoding) {
	registry[name] = enc
}
