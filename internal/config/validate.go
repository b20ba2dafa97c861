package config

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	if c.Game.LookaheadSize < 1 {
		return fmt.Errorf("game.lookahead_size must be >= 1 (got %d)", c.Game.LookaheadSize)
	}
	if c.Game.MaxPlayerCount < 1 {
		return fmt.Errorf("game.max_player_count must be >= 1 (got %d)", c.Game.MaxPlayerCount)
	}
	if c.Game.HistoryLimit < 0 {
		return fmt.Errorf("game.history_limit must be >= 0 (got %d)", c.Game.HistoryLimit)
	}

	return nil
}

func (s StoreConfig) validate() error {
	if strings.TrimSpace(s.BaseURL) == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if len(s.ProductIDs()) == 0 {
		return fmt.Errorf("product_ids must name at least one product")
	}
	if _, err := s.PublicKey(); err != nil {
		return fmt.Errorf("public_key_pem: %w", err)
	}
	return nil
}

// PublicKey parses the configured PEM block into the ECDSA key used to
// verify signed transactions from the store.
func (s StoreConfig) PublicKey() (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(s.PublicKeyPEM))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	ecKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("expected ECDSA public key, got %T", key)
	}

	return ecKey, nil
}
