package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/stretchr/testify/require"
)

func TestFixedBytesRoundTrip(t *testing.T) {
	p := packet.FixedBytes(4)
	wire, err := packet.EncodeToBytes(p, []byte("abel"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x61, 0x62, 0x65, 0x6c}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, []byte("abel"), decoded)
}

func TestFixedBytesRejectsWrongLength(t *testing.T) {
	_, err := packet.EncodeToBytes(packet.FixedBytes(4), []byte("ab"))
	require.Error(t, err)
}

func TestGreedyBytesReadsToEOF(t *testing.T) {
	p := packet.GreedyBytes()
	wire := []byte{1, 2, 3, 4, 5}
	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, wire, decoded)
}
