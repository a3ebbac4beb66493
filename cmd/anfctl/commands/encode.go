package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/marmos91/anf/examples/tlv"
	"github.com/marmos91/anf/pkg/packet"
	"github.com/spf13/cobra"
)

var (
	encodeKind    string
	encodePayload string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a sample tlv.Record and print its wire bytes as hex",
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind tlv.Kind
		switch encodeKind {
		case "text":
			kind = tlv.KindText
		case "blob":
			kind = tlv.KindBlob
		default:
			return fmt.Errorf("unknown --kind %q (want text or blob)", encodeKind)
		}

		record := tlv.Record{
			ID:      uuid.New(),
			Kind:    kind,
			Payload: []byte(encodePayload),
		}

		wire, err := packet.EncodeToBytes(tlv.Packet(), record)
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}

		fmt.Printf("id:      %s\n", record.ID)
		fmt.Printf("kind:    %s\n", record.Kind)
		fmt.Printf("payload: %q\n", record.Payload)
		fmt.Printf("wire:    %s\n", hex.EncodeToString(wire))
		return nil
	},
}

func init() {
	encodeCmd.Flags().StringVar(&encodeKind, "kind", "text", "record kind (text or blob)")
	encodeCmd.Flags().StringVar(&encodePayload, "payload", "hello", "payload to embed in the record")
}
