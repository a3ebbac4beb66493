package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/stretchr/testify/require"
)

func TestArrayRoundTrip(t *testing.T) {
	p := packet.Array(packet.UInt8(), packet.ConstParam(3))

	wire, err := packet.EncodeToBytes(p, []any{int64(1), int64(2), int64(3)})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, decoded)
}

func TestArrayRejectsWrongCount(t *testing.T) {
	p := packet.Array(packet.UInt8(), packet.ConstParam(3))
	_, err := packet.EncodeToBytes(p, []any{int64(1), int64(2)})
	require.Error(t, err)
}

func TestArraySizeIsItemSizeTimesCount(t *testing.T) {
	p := packet.Array(packet.UInt16(packet.BigEndian), packet.ConstParam(4))
	n, err := p.Size(nil)
	require.NoError(t, err)
	require.Equal(t, 8, n)
}
