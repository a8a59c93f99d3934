package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config contains all configuration parameters for the application.
type Config struct {
	Port                string `envconfig:"PORT" default:"8080"`
	LedgerRPCURL        string `envconfig:"LEDGER_RPC_URL" required:"true"`
	GatewayURL          string `envconfig:"GATEWAY_URL" required:"true"`
	GatewayAdminToken   string `envconfig:"GATEWAY_ADMIN_TOKEN"`
	RedisAddr           string `envconfig:"REDIS_ADDR"`    // empty: in-memory snapshot store
	DatabaseURL         string `envconfig:"DATABASE_URL"`  // empty: usage event recording disabled
	MarkupPct           int64  `envconfig:"MARKUP_PCT" default:"0"`
	TxPollInterval      int    `envconfig:"TX_POLL_INTERVAL_MS" default:"500"`
	TxAwaitTimeout      int    `envconfig:"TX_AWAIT_TIMEOUT_SECONDS" default:"60"`
	PendingPollInterval int    `envconfig:"PENDING_POLL_INTERVAL_SECONDS" default:"15"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetLedgerRPCURL returns the ledger RPC base URL from configuration
func GetLedgerRPCURL() string {
	return Get().LedgerRPCURL
}

// GetGatewayURL returns the gateway base URL from configuration
func GetGatewayURL() string {
	return Get().GatewayURL
}

// GetMarkupPct returns the configured markup percentage
func GetMarkupPct() int64 {
	return Get().MarkupPct
}

// GetTxPollInterval returns the transaction status poll interval
func GetTxPollInterval() time.Duration {
	return time.Duration(Get().TxPollInterval) * time.Millisecond
}

// GetTxAwaitTimeout returns the default transaction finality timeout
func GetTxAwaitTimeout() time.Duration {
	return time.Duration(Get().TxAwaitTimeout) * time.Second
}

// GetPendingPollInterval returns the pending-sample refresh cadence
func GetPendingPollInterval() time.Duration {
	return time.Duration(Get().PendingPollInterval) * time.Second
}
