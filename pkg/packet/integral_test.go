package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/stretchr/testify/require"
)

func TestVarIntVectors(t *testing.T) {
	cases := []struct {
		value int64
		wire  []byte
	}{
		{0, []byte{0x00}},
		{300, []byte{0xac, 0x02}},
	}

	p := packet.VarInt()
	for _, c := range cases {
		wire, err := packet.EncodeToBytes(p, c.value)
		require.NoError(t, err)
		require.Equal(t, c.wire, wire)

		decoded, err := packet.DecodeFromBytes(p, c.wire, true)
		require.NoError(t, err)
		require.Equal(t, c.value, decoded)
	}
}

func TestZigZagThenVarIntVector(t *testing.T) {
	p := packet.ZigZag()
	wire, err := packet.EncodeToBytes(p, int64(12345678))
	require.NoError(t, err)
	require.Equal(t, []byte{0x9c, 0x85, 0xe3, 0x0b}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, int64(12345678), decoded)
}

func TestVarIntRejectsNegativeOnEncode(t *testing.T) {
	_, err := packet.EncodeToBytes(packet.VarInt(), int64(-1))
	require.Error(t, err)
}

func TestVarIntRejectsOverflowOnDecode(t *testing.T) {
	overflow := make([]byte, 10)
	for i := range overflow {
		overflow[i] = 0xff // ten continuation bytes pushes the shift past 63 bits
	}
	_, err := packet.DecodeFromBytes(packet.VarInt(), overflow, false)
	require.Error(t, err)
}

func TestFixedIntRoundTrip(t *testing.T) {
	p := packet.UInt32(packet.BigEndian)
	wire, err := packet.EncodeToBytes(p, int64(0x01e24001))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0xe2, 0x40, 0x01}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, int64(0x01e24001), decoded)
}

func TestFixedIntRangeCheck(t *testing.T) {
	_, err := packet.EncodeToBytes(packet.Int8(), int64(200))
	require.Error(t, err)
}

func TestBytesIntArbitraryWidth(t *testing.T) {
	p := packet.BytesInt(12, packet.BigEndian, false)
	wire, err := packet.EncodeToBytes(p, int64(123456))
	require.NoError(t, err)
	require.Len(t, wire, 12)
	require.Equal(t, byte(0x01), wire[9])
	require.Equal(t, byte(0xe2), wire[10])
	require.Equal(t, byte(0x40), wire[11])

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, int64(123456), decoded)
}

func TestZigZagRoundTrip(t *testing.T) {
	p := packet.ZigZag()
	for _, v := range []int64{0, -1, 1, -2, 2, 1000, -1000} {
		wire, err := packet.EncodeToBytes(p, v)
		require.NoError(t, err)
		decoded, err := packet.DecodeFromBytes(p, wire, true)
		require.NoError(t, err)
		require.Equal(t, v, decoded)
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	p := packet.Float32(packet.LittleEndian)
	wire, err := packet.EncodeToBytes(p, float32(3.5))
	require.NoError(t, err)
	require.Len(t, wire, 4)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, float32(3.5), decoded)
}
