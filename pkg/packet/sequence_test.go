package packet_test

import (
	"testing"

	"github.com/marmos91/anf/pkg/packet"
	"github.com/stretchr/testify/require"
)

func TestSequenceDecodesInDeclarationOrder(t *testing.T) {
	p := packet.NewSequence(packet.UInt8(), packet.UInt16(packet.BigEndian), packet.UInt8())

	wire := []byte{0x01, 0x00, 0x02, 0x03}
	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, decoded)
}

// TestSequenceEncodesByPostponeLevel builds a checksum field declared
// *before* the data it covers (the reverse of checksum_test.go's scenario)
// and postpones it to level 1, forcing the two-pass encoder to compute the
// data field first so EncodedBytes can see it, while the final wire still
// lands in declaration order (checksum byte first). Decode still requires
// the checksum to follow its data in declaration order — this asymmetry
// only concerns the write order within a single Encode call.
func TestSequenceEncodesByPostponeLevel(t *testing.T) {
	csum := packet.Rename(
		packet.Postpone(
			packet.Checksum(
				packet.UInt8(),
				packet.EncodedBytes(packet.Path{}.Up().Field("data")),
				packet.Sum8,
				packet.EqualValidator,
			),
			1,
		),
		"csum",
	)
	data := packet.Rename(packet.FixedBytes(3), "data")

	st := packet.NewStruct(csum, data)

	wire, err := packet.EncodeToBytes(st, map[string]any{
		"csum": packet.Auto,
		"data": []byte{0x01, 0x02, 0x03},
	})
	require.NoError(t, err)
	// declaration order preserved: checksum byte first, then the 3 data bytes
	require.Equal(t, []byte{0x06, 0x01, 0x02, 0x03}, wire)
}

// TestPostponedValidatorSeesLaterDeclaredSibling covers the on_finish
// contract directly: a postponed Check declared *before* the sibling its
// predicate depends on must have its predicate deferred until the whole
// struct has been walked, not run inline against a sibling that isn't
// populated yet.
func TestPostponedValidatorSeesLaterDeclaredSibling(t *testing.T) {
	check := packet.Rename(
		packet.Postpone(
			packet.Check(func(ctx *packet.Context) (bool, error) {
				length, err := packet.PathParam[int64](packet.Path{}.Up().Field("length"))(ctx)
				if err != nil {
					return false, err
				}
				return length == 3, nil
			}, "length mismatch"),
			0,
		),
		"check",
	)
	length := packet.Rename(packet.UInt8(), "length")
	st := packet.NewStruct(check, length)

	wire, err := packet.EncodeToBytes(st, map[string]any{"check": nil, "length": int64(3)})
	require.NoError(t, err)
	require.Equal(t, []byte{0x03}, wire)

	_, err = packet.EncodeToBytes(st, map[string]any{"check": nil, "length": int64(4)})
	require.Error(t, err)

	decoded, err := packet.DecodeFromBytes(st, wire, true)
	require.NoError(t, err)
	m := decoded.(map[string]any)
	require.Equal(t, int64(3), m["length"])
}

func TestSequenceRejectsWrongArity(t *testing.T) {
	p := packet.NewSequence(packet.UInt8(), packet.UInt8())
	_, err := packet.EncodeToBytes(p, []any{int64(1)})
	require.Error(t, err)
}

func TestStructRoundTripsNamedFields(t *testing.T) {
	p := packet.NewStruct(
		packet.Rename(packet.UInt8(), "a"),
		packet.Rename(packet.UInt16(packet.BigEndian), "b"),
	)

	wire, err := packet.EncodeToBytes(p, map[string]any{"a": int64(9), "b": int64(300)})
	require.NoError(t, err)
	require.Equal(t, []byte{0x09, 0x01, 0x2c}, wire)

	decoded, err := packet.DecodeFromBytes(p, wire, true)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": int64(9), "b": int64(300)}, decoded)
}

func TestStructRejectsMissingField(t *testing.T) {
	p := packet.NewStruct(packet.Rename(packet.UInt8(), "a"))
	_, err := packet.EncodeToBytes(p, map[string]any{})
	require.Error(t, err)
}

func TestNewStructPanicsOnUnnamedField(t *testing.T) {
	require.Panics(t, func() {
		packet.NewStruct(packet.UInt8())
	})
}
