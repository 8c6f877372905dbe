package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Redis  RedisConfig
	Chain  ChainConfig
	Card   CardConfig
	Email  EmailConfig
	Sync   SyncConfig
	Server ServerConfig
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

// ChainConfig points the service at a Celo endpoint. An empty RPCURL selects
// the in-process dev backend instead of a live chain.
type ChainConfig struct {
	RPCURL          string `mapstructure:"rpc_url"`
	ContractAddress string `mapstructure:"contract_address"`
	CUSDAddress     string `mapstructure:"cusd_address"`
	OperatorKey     string `mapstructure:"operator_key"`
	ChainID         int64  `mapstructure:"chain_id"`
}

type CardConfig struct {
	FeeBasisPoints uint64 `mapstructure:"fee_basis_points"`
	VerifyAttempts int    `mapstructure:"verify_attempts"`
	VerifyDelaySec int64  `mapstructure:"verify_delay_sec"`
	SettleDelaySec int64  `mapstructure:"settle_delay_sec"`
	ExpiryDays     int64  `mapstructure:"expiry_days"`
}

type EmailConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	From    string `mapstructure:"from"`
}

type SyncConfig struct {
	IntervalSec int64 `mapstructure:"interval_sec"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("redis.addr", "redis:6379")
	v.SetDefault("chain.chain_id", 44787)
	v.SetDefault("card.fee_basis_points", 50)
	v.SetDefault("card.verify_attempts", 3)
	v.SetDefault("card.verify_delay_sec", 2)
	v.SetDefault("card.settle_delay_sec", 2)
	v.SetDefault("card.expiry_days", 30)
	v.SetDefault("email.base_url", "https://api.resend.com")
	v.SetDefault("email.from", "Unwrap <gifts@unwrap.cash>")
	v.SetDefault("sync.interval_sec", 10)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	_ = v.ReadInConfig()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicit env bindings
	bindings := map[string]string{
		"redis.addr":             "REDIS_ADDR",
		"redis.password":         "REDIS_PASSWORD",
		"chain.rpc_url":          "RPC_URL",
		"chain.contract_address": "UNWRAP_CONTRACT",
		"chain.cusd_address":     "CUSD_ADDRESS",
		"chain.operator_key":     "OPERATOR_KEY",
		"chain.chain_id":         "CHAIN_ID",
		"card.fee_basis_points":  "FEE_BASIS_POINTS",
		"card.verify_attempts":   "VERIFY_ATTEMPTS",
		"card.verify_delay_sec":  "VERIFY_DELAY_SEC",
		"card.settle_delay_sec":  "SETTLE_DELAY_SEC",
		"card.expiry_days":       "EXPIRY_DAYS",
		"email.api_key":          "EMAIL_API_KEY",
		"email.base_url":         "EMAIL_BASE_URL",
		"email.from":             "EMAIL_FROM",
		"sync.interval_sec":      "SYNC_INTERVAL_SEC",
		"server.port":            "PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, cfg.validate()
}

// DevMode reports whether the service runs against the in-process backend
// instead of a live chain.
func (c *Config) DevMode() bool { return c.Chain.RPCURL == "" }

func (c *Config) validate() error {
	if c.DevMode() {
		return nil
	}
	type req struct {
		val  string
		name string
	}
	for _, r := range []req{
		{c.Chain.ContractAddress, "UNWRAP_CONTRACT"},
		{c.Chain.CUSDAddress, "CUSD_ADDRESS"},
		{c.Chain.OperatorKey, "OPERATOR_KEY"},
	} {
		if r.val == "" {
			return fmt.Errorf("required config missing: %s", r.name)
		}
	}
	if c.Chain.ChainID == 0 {
		return fmt.Errorf("required config missing: CHAIN_ID")
	}
	return nil
}
