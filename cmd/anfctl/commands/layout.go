package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the field layout of the example tlv.Record packet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tlv.Record")
		fmt.Println("  id        16 bytes, fixed          -> uuid.UUID")
		fmt.Println("  kind      1 byte,  enum(uint8)      -> tlv.Kind (1=text, 2=blob)")
		fmt.Println("  body      4-byte big-endian size prefix, then zlib-compressed payload")
		fmt.Println("  checksum  1 byte, sum8 over body's compressed bytes, validated on decode")
	},
}
