package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/marmos91/anf/pkg/textcodec"
	"github.com/stretchr/testify/require"
)

func TestConditionalPicksBranchByContext(t *testing.T) {
	flagField := packet.Rename(packet.UInt8(), "present")
	payload := packet.Rename(
		packet.Conditional(
			func(ctx *packet.Context) (bool, error) {
				present, err := packet.PathParam[int64](packet.Path{}.Up().Field("present"))(ctx)
				if err != nil {
					return false, err
				}
				return present != 0, nil
			},
			packet.UInt8(),
			nil,
		),
		"payload",
	)
	st := packet.NewStruct(flagField, payload)

	withPayload := map[string]any{"present": int64(1), "payload": int64(42)}
	wire, err := packet.EncodeToBytes(st, withPayload)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x2a}, wire)

	decoded, err := packet.DecodeFromBytes(st, wire, true)
	require.NoError(t, err)
	m := decoded.(map[string]any)
	require.Equal(t, int64(42), m["payload"])

	withoutPayload := map[string]any{"present": int64(0), "payload": nil}
	wire, err = packet.EncodeToBytes(st, withoutPayload)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, wire)
}

func TestDiscriminatedVector(t *testing.T) {
	cases := map[any]packet.Packet{
		int64(0): packet.NoOp,
		int64(1): packet.PaddedString(packet.ConstParam(8), textcodec.UTF8),
	}
	p := packet.Discriminated(packet.UInt8(), cases)

	wire, err := packet.EncodeToBytes(p, packet.DiscriminatedValue(int64(1), "Hi!!!"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x48, 0x69, 0x21, 0x21, 0x21, 0x00, 0x00, 0x00}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, packet.DiscriminatedValue(int64(1), "Hi!!!"), decoded)
}

func TestDiscriminatedRejectsUnknownTag(t *testing.T) {
	cases := map[any]packet.Packet{int64(0): packet.NoOp}
	p := packet.Discriminated(packet.UInt8(), cases)

	wire := []byte{0x09}
	_, err := packet.DecodeFromBytes(p, wire, false)
	require.Error(t, err)
}
