// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/viper"
)

type Config struct {
	FeePercent   uint64 `mapstructure:"fee_percent"`
	InitialPrice string `mapstructure:"initial_price"`
	StepSize     string `mapstructure:"step_size"`
	MaxSupply    string `mapstructure:"max_supply"`
	Authority    string `mapstructure:"authority"`
	FeeRecipient string `mapstructure:"fee_recipient"`
	Custody      string `mapstructure:"custody"`
	VenueAddress string `mapstructure:"venue_address"`
	JournalPath  string `mapstructure:"journal_path"`
	ExportDir    string `mapstructure:"export_dir"`
	LogFile      string `mapstructure:"log_file"`
	DebugLogging bool   `mapstructure:"debug_logging"`
}

// Defaults reproduce the canonical launch parameters: a 1e9-unit supply at
// 1e18 scale, a 0.0001533 starting price and 10M-unit curve steps.
const (
	DefaultFeePercent   = 1
	DefaultInitialPrice = "153300000000000"
	DefaultStepSize     = "10000000000000000000000000"
	DefaultMaxSupply    = "1000000000000000000000000000"
	DefaultJournalPath  = "data/launchpad.db"
	DefaultLogFile      = "launchpad.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"fee_percent":   DefaultFeePercent,
		"initial_price": DefaultInitialPrice,
		"step_size":     DefaultStepSize,
		"max_supply":    DefaultMaxSupply,
		"journal_path":  DefaultJournalPath,
		"log_file":      DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.FeePercent >= 100 {
		return errors.New("fee_percent must be below 100")
	}
	if cfg.Authority == "" {
		return errors.New("missing authority in configuration")
	}
	if cfg.FeeRecipient == "" {
		return errors.New("missing fee_recipient in configuration")
	}
	if cfg.Custody == "" {
		return errors.New("missing custody in configuration")
	}
	for _, field := range []struct{ name, value string }{
		{"initial_price", cfg.InitialPrice},
		{"step_size", cfg.StepSize},
		{"max_supply", cfg.MaxSupply},
	} {
		amount, err := ParseAmount(field.value)
		if err != nil {
			return errors.New("invalid " + field.name)
		}
		if amount.IsZero() {
			return errors.New(field.name + " must be positive")
		}
	}
	return nil
}

// ParseAmount parses a base-10 amount string into a uint256.
func ParseAmount(s string) (*uint256.Int, error) {
	return uint256.FromDecimal(strings.TrimSpace(s))
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.AutomaticEnv()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if journal := v.GetString("JOURNAL_PATH"); journal != "" {
		cfg.JournalPath = journal
	}
	if v.IsSet("DEBUG_LOGGING") {
		cfg.DebugLogging = v.GetBool("DEBUG_LOGGING")
	}
}
