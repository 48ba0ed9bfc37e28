// Package config loads gateway configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	svcerrors "github.com/landchain-labs/registry-gateway/internal/errors"
)

// Config holds everything the gateway needs to run. Values are read once at
// startup; there is no hot-reload.
type Config struct {
	// Neo N3 node
	RPCURL       string
	NetworkMagic uint32
	RPCTimeout   time.Duration

	// Land registry contract
	ContractHash string

	// Optional service signer for write operations (WIF encoded)
	SignerWIF string

	// HTTP server
	Port        string
	CORSOrigins []string

	// Rate limiting
	RateLimitRPS int
	RateBurst    int
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; environment variables win either way.
	_ = godotenv.Load()

	cfg := &Config{
		RPCURL:       strings.TrimSpace(os.Getenv("NEO_RPC_URL")),
		ContractHash: normalizeHash(os.Getenv("CONTRACT_REGISTRY_HASH")),
		SignerWIF:    strings.TrimSpace(os.Getenv("SIGNER_WIF")),
		Port:         strings.TrimSpace(os.Getenv("PORT")),
		RPCTimeout:   30 * time.Second,
		RateLimitRPS: 20,
		RateBurst:    40,
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if magicStr := strings.TrimSpace(os.Getenv("NEO_NETWORK_MAGIC")); magicStr != "" {
		magic, err := strconv.ParseUint(magicStr, 10, 32)
		if err != nil {
			return nil, svcerrors.Configuration(fmt.Sprintf("invalid NEO_NETWORK_MAGIC %q", magicStr))
		}
		cfg.NetworkMagic = uint32(magic)
	}

	if timeoutStr := strings.TrimSpace(os.Getenv("NEO_RPC_TIMEOUT")); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil || timeout <= 0 {
			return nil, svcerrors.Configuration(fmt.Sprintf("invalid NEO_RPC_TIMEOUT %q", timeoutStr))
		}
		cfg.RPCTimeout = timeout
	}

	if rpsStr := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rpsStr != "" {
		rps, err := strconv.Atoi(rpsStr)
		if err != nil || rps <= 0 {
			return nil, svcerrors.Configuration(fmt.Sprintf("invalid RATE_LIMIT_RPS %q", rpsStr))
		}
		cfg.RateLimitRPS = rps
		cfg.RateBurst = rps * 2
	}

	if burstStr := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burstStr != "" {
		burst, err := strconv.Atoi(burstStr)
		if err != nil || burst <= 0 {
			return nil, svcerrors.Configuration(fmt.Sprintf("invalid RATE_LIMIT_BURST %q", burstStr))
		}
		cfg.RateBurst = burst
	}

	cfg.CORSOrigins = splitAndTrimCSV(os.Getenv("CORS_ORIGINS"))
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, cfg.Validate()
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return svcerrors.Configuration("NEO_RPC_URL is required")
	}
	if c.ContractHash == "" {
		return svcerrors.Configuration("CONTRACT_REGISTRY_HASH is required")
	}
	return nil
}

func normalizeHash(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && strings.EqualFold(value[:2], "0x") {
		return value
	}
	if value == "" {
		return ""
	}
	return "0x" + value
}

func splitAndTrimCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
