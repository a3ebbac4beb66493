package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/stretchr/testify/require"
)

func TestConstAcceptsAutoOrMatchingValue(t *testing.T) {
	p := packet.Const(packet.UInt8(), packet.ConstParam[any](int64(7)))

	wire, err := packet.EncodeToBytes(p, packet.Auto)
	require.NoError(t, err)
	require.Equal(t, []byte{0x07}, wire)

	wire, err = packet.EncodeToBytes(p, int64(7))
	require.NoError(t, err)
	require.Equal(t, []byte{0x07}, wire)
}

func TestConstRejectsConflictingValueOnEncode(t *testing.T) {
	p := packet.Const(packet.UInt8(), packet.ConstParam[any](int64(7)))
	_, err := packet.EncodeToBytes(p, int64(9))
	require.Error(t, err)
}

func TestConstRejectsMismatchedWireOnDecode(t *testing.T) {
	p := packet.Const(packet.UInt8(), packet.ConstParam[any](int64(7)))
	_, err := packet.DecodeFromBytes(p, []byte{0x09}, true)
	require.Error(t, err)
}

func TestDefaultAllowsOverrideWithNoValidation(t *testing.T) {
	p := packet.Default(packet.UInt8(), packet.ConstParam[any](int64(7)))

	wire, err := packet.EncodeToBytes(p, packet.Auto)
	require.NoError(t, err)
	require.Equal(t, []byte{0x07}, wire)

	wire, err = packet.EncodeToBytes(p, int64(42))
	require.NoError(t, err)
	require.Equal(t, []byte{0x2a}, wire)

	decoded, err := packet.DecodeFromBytes(p, []byte{0x99}, true)
	require.NoError(t, err)
	require.Equal(t, int64(0x99), decoded)
}

func TestDeducedValidatesOnlyOnEncode(t *testing.T) {
	p := packet.Deduced(packet.UInt8(), packet.ConstParam[any](int64(7)))

	wire, err := packet.EncodeToBytes(p, packet.Auto)
	require.NoError(t, err)
	require.Equal(t, []byte{0x07}, wire)

	_, err = packet.EncodeToBytes(p, int64(9))
	require.Error(t, err)

	decoded, err := packet.DecodeFromBytes(p, []byte{0x09}, true)
	require.NoError(t, err)
	require.Equal(t, int64(9), decoded)
}

func TestVirtualComputesWithoutConsumingBytes(t *testing.T) {
	p := packet.Virtual(packet.ConstParam[any](int64(42)))

	wire, err := packet.EncodeToBytes(p, packet.Auto)
	require.NoError(t, err)
	require.Empty(t, wire)

	decoded, err := packet.DecodeFromBytes(p, nil, true)
	require.NoError(t, err)
	require.Equal(t, int64(42), decoded)
}

func TestVirtualRejectsConflictingExplicitValue(t *testing.T) {
	p := packet.Virtual(packet.ConstParam[any](int64(42)))
	_, err := packet.EncodeToBytes(p, int64(1))
	require.Error(t, err)
}

func TestCheckPassesAndFailsPredicate(t *testing.T) {
	alwaysTrue := packet.Check(func(ctx *packet.Context) (bool, error) { return true, nil }, "never fails")
	_, err := packet.EncodeToBytes(alwaysTrue, nil)
	require.NoError(t, err)

	alwaysFalse := packet.Check(func(ctx *packet.Context) (bool, error) { return false, nil }, "always fails")
	_, err = packet.EncodeToBytes(alwaysFalse, nil)
	require.Error(t, err)
}

func TestNewPaddingEmitsZeroBytes(t *testing.T) {
	p := packet.NewPadding(packet.ConstParam(3))

	wire, err := packet.EncodeToBytes(p, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0}, wire)

	decoded, err := packet.DecodeFromBytes(p, []byte{0, 0, 0}, true)
	require.NoError(t, err)
	require.Nil(t, decoded)
}
