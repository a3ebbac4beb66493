// Command anfctl is a small CLI demonstrating the anf packet library:
// inspecting, encoding, and decoding the worked examples/tlv record format.
package main

import (
	"os"

	"github.com/marmos91/anf/cmd/anfctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
