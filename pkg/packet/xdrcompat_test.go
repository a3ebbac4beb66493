package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/stretchr/testify/require"
)

type xdrPing struct {
	Seq   uint32
	Label string
}

func TestXDRStructRoundTrip(t *testing.T) {
	p := packet.XDRStruct(func() any { return &xdrPing{} })

	wire, err := packet.EncodeToBytes(p, &xdrPing{Seq: 7, Label: "abel"})
	require.NoError(t, err)
	require.NotEmpty(t, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	got, ok := decoded.(*xdrPing)
	require.True(t, ok)
	require.Equal(t, uint32(7), got.Seq)
	require.Equal(t, "abel", got.Label)
}
