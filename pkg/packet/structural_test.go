package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/stretchr/testify/require"
)

func TestCountPrefixedVector(t *testing.T) {
	p := packet.CountPrefixed(packet.VarInt(), func(n packet.CtxParam[int]) packet.Packet {
		return packet.Bytes(n)
	})

	body := []byte("Abel is the best!")
	wire, err := packet.EncodeToBytes(p, body)
	require.NoError(t, err)
	require.Equal(t, byte(0x11), wire[0])
	require.Len(t, wire, 1+len(body))
	require.Equal(t, body, wire[1:])

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, body, decoded)
}

func TestCountPrefixedRejectsMismatchedLength(t *testing.T) {
	p := packet.CountPrefixed(packet.VarInt(), func(n packet.CtxParam[int]) packet.Packet {
		return packet.Bytes(n)
	})

	wire := []byte{0x05, 'a', 'b'} // declares 5 bytes but only 2 follow
	_, err := packet.DecodeFromBytes(p, wire, true)
	require.Error(t, err)
}

func TestSizePrefixedConsumesExactlySize(t *testing.T) {
	p := packet.SizePrefixed(packet.UInt16(packet.BigEndian), packet.GreedyBytes())

	wire, err := packet.EncodeToBytes(p, []byte("payload"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x07}, wire[:2])

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), decoded)
}

func TestSizePrefixedLeavesTrailingBytesForOuterCaller(t *testing.T) {
	p := packet.SizePrefixed(packet.UInt16(packet.BigEndian), packet.GreedyBytes())

	wire, err := packet.EncodeToBytes(p, []byte("abc"))
	require.NoError(t, err)
	wire = append(wire, 0xff, 0xff) // trailing bytes outside this field's size

	decoded, err := packet.DecodeFromBytes(p, wire, false)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), decoded)
}

func TestPaddedPadsUpToFixedSize(t *testing.T) {
	p := packet.Padded(packet.FixedBytes(3), packet.ConstParam(6))

	wire, err := packet.EncodeToBytes(p, []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, []byte{'a', 'b', 'c', 0, 0, 0}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), decoded)
}

func TestPaddedRejectsBodyLargerThanSize(t *testing.T) {
	p := packet.Padded(packet.FixedBytes(5), packet.ConstParam(3))
	_, err := packet.EncodeToBytes(p, []byte("abcde"))
	require.Error(t, err)
}

func TestAlignedRoundsUpToAlignment(t *testing.T) {
	p := packet.Aligned(packet.FixedBytes(3), packet.ConstParam(4))

	wire, err := packet.EncodeToBytes(p, []byte("abc"))
	require.NoError(t, err)
	require.Len(t, wire, 4)
	require.Equal(t, []byte{'a', 'b', 'c', 0}, wire)
}

func TestAlignedNoPaddingWhenAlreadyAligned(t *testing.T) {
	p := packet.Aligned(packet.FixedBytes(4), packet.ConstParam(4))
	wire, err := packet.EncodeToBytes(p, []byte("abcd"))
	require.NoError(t, err)
	require.Equal(t, []byte("abcd"), wire)
}

func TestTransformedInvokesEncDecFunctions(t *testing.T) {
	upper := func(b []byte) ([]byte, error) {
		out := make([]byte, len(b))
		for i, c := range b {
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			out[i] = c
		}
		return out, nil
	}
	lower := func(b []byte) ([]byte, error) {
		out := make([]byte, len(b))
		for i, c := range b {
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			out[i] = c
		}
		return out, nil
	}

	p := packet.Transformed(packet.GreedyBytes(), nil, lower, upper)
	wire, err := packet.EncodeToBytes(p, []byte("abel"))
	require.NoError(t, err)
	require.Equal(t, []byte("ABEL"), wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, []byte("abel"), decoded)
}
