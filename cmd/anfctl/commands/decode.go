package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/marmos91/anf/examples/tlv"
	"github.com/marmos91/anf/pkg/packet"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>",
	Short: "Decode a hex-encoded wire blob back into a tlv.Record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wire, err := hex.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid hex input: %w", err)
		}

		decoded, err := packet.DecodeFromBytes(tlv.Packet(), wire, true)
		if err != nil {
			return fmt.Errorf("decoding record: %w", err)
		}

		record, ok := decoded.(tlv.Record)
		if !ok {
			return fmt.Errorf("decoded value is %T, not tlv.Record", decoded)
		}

		fmt.Printf("id:      %s\n", record.ID)
		fmt.Printf("kind:    %s\n", record.Kind)
		fmt.Printf("payload: %q\n", record.Payload)
		return nil
	},
}
