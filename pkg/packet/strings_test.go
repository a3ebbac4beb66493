package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/marmos91/anf/pkg/textcodec"
	"github.com/stretchr/testify/require"
)

func TestPaddedStringNullPadsToSize(t *testing.T) {
	p := packet.PaddedString(packet.ConstParam(8), textcodec.UTF8)

	wire, err := packet.EncodeToBytes(p, "Hi!!!")
	require.NoError(t, err)
	require.Equal(t, []byte{'H', 'i', '!', '!', '!', 0, 0, 0}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, "Hi!!!", decoded)
}

func TestPaddedStringRejectsTextLargerThanSize(t *testing.T) {
	p := packet.PaddedString(packet.ConstParam(2), textcodec.UTF8)
	_, err := packet.EncodeToBytes(p, "too long")
	require.Error(t, err)
}

func TestCStringRoundTrip(t *testing.T) {
	p := packet.CString(textcodec.UTF8)

	wire, err := packet.EncodeToBytes(p, "abel")
	require.NoError(t, err)
	require.Equal(t, []byte{'a', 'b', 'e', 'l', 0x00}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, "abel", decoded)
}

func TestCStringUTF16UsesTwoByteTerminator(t *testing.T) {
	p := packet.CString(textcodec.UTF16LE)

	wire, err := packet.EncodeToBytes(p, "hi")
	require.NoError(t, err)
	require.Equal(t, []byte{'h', 0x00, 'i', 0x00, 0x00, 0x00}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, "hi", decoded)
}

func TestGreedyStringReadsToEOF(t *testing.T) {
	p := packet.GreedyString(textcodec.UTF8)
	decoded, err := packet.DecodeFromBytes(p, []byte("rest of the stream"), true)
	require.NoError(t, err)
	require.Equal(t, "rest of the stream", decoded)
}

func TestPascalStringMeasuresEncodedLength(t *testing.T) {
	p := packet.PascalString(packet.UInt8(), textcodec.UTF16LE)

	wire, err := packet.EncodeToBytes(p, "hi")
	require.NoError(t, err)
	// 2 chars * 2 bytes/unit = 4, not len("hi") == 2
	require.Equal(t, byte(4), wire[0])
	require.Len(t, wire, 1+4)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, "hi", decoded)
}
