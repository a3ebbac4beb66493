// Package commands implements the anfctl CLI commands.
package commands

import (
	"fmt"

	"github.com/marmos91/anf/internal/logger"
	"github.com/marmos91/anf/pkg/config"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
)

var cfgFile string
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "anfctl",
	Short: "anfctl - inspect and exercise anf packet descriptions",
	Long: `anfctl is a small command-line demo of the anf packet library.

It builds the worked examples/tlv record format and lets you encode a
sample value to bytes, decode a hex blob back into a value, or print the
record's layout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		return logger.Init(logger.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		})
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: $XDG_CONFIG_HOME/anf/config.yaml)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(layoutCmd)
}
