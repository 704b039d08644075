package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL      string
	Address     string
	PgDSN       string
	Out         string
	KafkaBroker string
	KafkaTopic  string
	LogLevel    string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SWAPCAP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("out", "./data/swaps.jsonl")
	v.SetDefault("kafka-topic", "swap-logs")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:      v.GetString("rpc"),
		Address:     v.GetString("address"),
		PgDSN:       v.GetString("pg-dsn"),
		Out:         v.GetString("out"),
		KafkaBroker: v.GetString("kafka-broker"),
		KafkaTopic:  v.GetString("kafka-topic"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}
