// Package config is cmd/server's process bootstrap layer: listen
// address, log level, and the trading pairs to create at startup. None
// of this is part of the matching core — it exists purely so the server
// binary has somewhere to read its settings from.
package config

import (
	"fmt"
	"strings"

	"fenrir/internal/common"

	"github.com/spf13/viper"
)

// Config is the fully-resolved process configuration.
type Config struct {
	ListenAddress  string
	LogLevel       string
	InitialMarkets []common.TradingPair
}

// Load reads configuration from (in ascending priority) defaults, an
// optional config file at path, and FENRIR_-prefixed environment
// variables. An empty path skips the file read.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("fenrir")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("listen_address", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("initial_markets", []string{"BTC/USD", "ETH/USD"})

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
	}

	rawMarkets := v.GetStringSlice("initial_markets")
	markets := make([]common.TradingPair, 0, len(rawMarkets))
	for _, raw := range rawMarkets {
		pair, err := parsePair(raw)
		if err != nil {
			return Config{}, fmt.Errorf("initial_markets: %w", err)
		}
		markets = append(markets, pair)
	}

	return Config{
		ListenAddress:  v.GetString("listen_address"),
		LogLevel:       v.GetString("log_level"),
		InitialMarkets: markets,
	}, nil
}

// parsePair splits a "BASE/QUOTE" string, the config-file shorthand for
// a common.TradingPair.
func parsePair(s string) (common.TradingPair, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return common.TradingPair{}, fmt.Errorf("invalid trading pair %q, want BASE/QUOTE", s)
	}
	return common.TradingPair{Base: parts[0], Quote: parts[1]}, nil
}
