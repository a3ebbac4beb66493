// Package config loads cmd/anfctl's configuration. The library in
// pkg/packet takes no global configuration of its own — packets are plain
// Go values — so this package exists purely for the CLI demo, following the
// teacher's pkg/config approach (viper + mapstructure + validator, env
// overrides) at a much smaller scale.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is cmd/anfctl's top-level configuration.
//
// Configuration sources, highest precedence first:
//  1. Environment variables (ANF_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// The CLI's --config flag only selects which configuration file is read;
// no flag overrides an individual setting.
type Config struct {
	// Logging controls cmd/anfctl's log output.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Codec configures the default text encoding string packets use when a
	// worked example or sample packet doesn't specify one explicitly.
	Codec CodecConfig `mapstructure:"codec" yaml:"codec"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// CodecConfig configures default text-encoding behavior.
type CodecConfig struct {
	DefaultEncoding string `mapstructure:"default_encoding" validate:"required" yaml:"default_encoding"`
}

// GetDefaultConfig returns the configuration used when no file is found.
func GetDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "INFO", Format: "text", Output: "stdout"},
		Codec:   CodecConfig{DefaultEncoding: "utf-8"},
	}
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	// Registering every key's default lets AutomaticEnv override it even
	// when no configuration file is found.
	d := GetDefaultConfig()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("codec.default_encoding", d.Codec.DefaultEncoding)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("ANF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(defaultConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func applyDefaults(cfg *Config) {
	d := GetDefaultConfig()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = d.Logging.Output
	}
	if cfg.Codec.DefaultEncoding == "" {
		cfg.Codec.DefaultEncoding = d.Codec.DefaultEncoding
	}
}

func validate(cfg *Config) error {
	return validator.New().Struct(cfg)
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "anf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".anf"
	}
	return filepath.Join(home, ".config", "anf")
}
