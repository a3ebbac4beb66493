package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/stretchr/testify/require"
)

func TestFlagRoundTrip(t *testing.T) {
	p := packet.Flag()

	wire, err := packet.EncodeToBytes(p, true)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, wire)

	wire, err = packet.EncodeToBytes(p, false)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, wire)

	decoded, err := packet.DecodeFromBytes(p, []byte{0x05}, true)
	require.NoError(t, err)
	require.Equal(t, true, decoded)
}

func TestFlagRejectsNonBoolOnEncode(t *testing.T) {
	_, err := packet.EncodeToBytes(packet.Flag(), int64(1))
	require.Error(t, err)
}

type color int64

const (
	colorRed color = iota
	colorGreen
)

func TestEnumDecodesRegisteredNames(t *testing.T) {
	decDict := map[int64]any{0: colorRed, 1: colorGreen}
	encDict := map[any]int64{colorRed: 0, colorGreen: 1}
	p := packet.Enum(packet.UInt8(), decDict, encDict)

	wire, err := packet.EncodeToBytes(p, colorGreen)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, wire)

	decoded, err := packet.DecodeFromBytes(p, []byte{0x00}, true)
	require.NoError(t, err)
	require.Equal(t, colorRed, decoded)
}

func TestEnumPassesThroughUnregisteredRawValue(t *testing.T) {
	decDict := map[int64]any{0: colorRed}
	encDict := map[any]int64{colorRed: 0}
	p := packet.Enum(packet.UInt8(), decDict, encDict)

	decoded, err := packet.DecodeFromBytes(p, []byte{0x09}, true)
	require.NoError(t, err)
	require.Equal(t, int64(9), decoded)

	wire, err := packet.EncodeToBytes(p, int64(9))
	require.NoError(t, err)
	require.Equal(t, []byte{0x09}, wire)
}

func TestMappingRejectsUnknownKeyWithoutAllowDirect(t *testing.T) {
	decDict := map[any]any{int64(1): "a"}
	encDict := map[any]any{"a": int64(1)}
	p := packet.Mapping(packet.UInt8(), decDict, encDict, false)

	_, err := packet.EncodeToBytes(p, "b")
	require.Error(t, err)

	_, err = packet.DecodeFromBytes(p, []byte{0x02}, true)
	require.Error(t, err)
}

func TestMappingAllowsDirectPassthrough(t *testing.T) {
	decDict := map[any]any{int64(1): "a"}
	encDict := map[any]any{"a": int64(1)}
	p := packet.Mapping(packet.UInt8(), decDict, encDict, true)

	wire, err := packet.EncodeToBytes(p, int64(9))
	require.NoError(t, err)
	require.Equal(t, []byte{0x09}, wire)

	decoded, err := packet.DecodeFromBytes(p, []byte{0x02}, true)
	require.NoError(t, err)
	require.Equal(t, int64(2), decoded)
}
