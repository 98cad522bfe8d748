// Package config loads the engine's environment-driven configuration,
// generalizing the teacher's requireEnv/getEnvOrDefault pair
// (cmd/engine/main.go) into a single Config struct.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL      string
	RedisURL         string
	SolanaRPCURL     string
	Port             string
	NativeMint       string
	APIAuthToken     string
	AllowedOrigins   string
	QuoteProviderURL string
	SignerURL        string

	BlockhashRefresh time.Duration
	NativePriceRefresh time.Duration
	RetryAttempts    int
	RetryBaseDelay   time.Duration
}

// Load reads required and optional environment variables, failing
// fast (like the teacher's requireEnv) when a required secret is
// missing.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RedisURL:            os.Getenv("REDIS_URL"),
		SolanaRPCURL:        getEnvOrDefault("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		Port:                getEnvOrDefault("PORT", "8080"),
		NativeMint:          getEnvOrDefault("NATIVE_MINT", "So11111111111111111111111111111111111111112"),
		APIAuthToken:        os.Getenv("API_AUTH_TOKEN"),
		AllowedOrigins:      getEnvOrDefault("ALLOWED_ORIGINS", "*"),
		QuoteProviderURL:    os.Getenv("QUOTE_PROVIDER_URL"),
		SignerURL:           os.Getenv("SIGNER_URL"),
		BlockhashRefresh:    5 * time.Second,
		NativePriceRefresh:  10 * time.Second,
		RetryAttempts:       5,
		RetryBaseDelay:      200 * time.Millisecond,
	}

	if cfg.DatabaseURL == "" {
		return nil, requiredErr("DATABASE_URL")
	}
	if cfg.RedisURL == "" {
		return nil, requiredErr("REDIS_URL")
	}
	return cfg, nil
}

func requiredErr(key string) error {
	return fmt.Errorf("missing required env var %s", key)
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
