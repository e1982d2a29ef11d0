// Package config provides configuration parsing and validation for bsend.
package config

import (
	"encoding/base64"
	"fmt"
	"time"
)

// KeySize is the required pre-shared AEAD key length, in bytes.
const KeySize = 32

// DefaultIdleTimeout is used when no --idle-timeout flag is given.
const DefaultIdleTimeout = 30 * time.Second

// Config holds one sender or receiver invocation's settings, parsed from
// CLI flags (this tool has no config file; its entire surface is two
// subcommands' flags).
type Config struct {
	Address     string
	Key         []byte
	LogLevel    string
	LogFormat   string
	IdleTimeout time.Duration
}

// DecodeKey parses a base64-encoded 32-byte key as accepted by --key.
func DecodeKey(b64key string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(b64key)
	if err != nil {
		return nil, fmt.Errorf("invalid key encoding: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must decode to %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

// Validate checks that c is usable for a session. address and key must
// already be populated by the caller.
func (c *Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}
	if len(c.Key) != KeySize {
		return fmt.Errorf("key must be %d bytes, got %d", KeySize, len(c.Key))
	}
	if c.IdleTimeout <= 0 {
		return fmt.Errorf("idle timeout must be positive, got %s", c.IdleTimeout)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}
	return nil
}
