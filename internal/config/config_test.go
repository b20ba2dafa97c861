package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPublicKeyPEM = `-----BEGIN PUBLIC KEY-----
MFkwEwYHKoZIzj0CAQYIKoZIzj0DAQcDQgAERX1VEtTiIB5036OuX37wBsk0wGIU
HmoAVveizGjCB3iTUuZ+HlIPOvETxed+FfJn6hR5GF0DjQLgUCDtLJuxHA==
-----END PUBLIC KEY-----`

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "partydeck.db"},
		Store: StoreConfig{
			BaseURL:       "https://store.example.com",
			PublicKeyPEM:  testPublicKeyPEM,
			ProductIDsRaw: "premium.monthly,premium.lifetime",
		},
		Game: GameConfig{LookaheadSize: 4, MaxPlayerCount: 12, HistoryLimit: 20},
		Log:  LogConfig{Level: "info", Format: "json"},
	}
}

func TestConfig_Validate_OK(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "  " },
			wantMsg: "database.path",
		},
		{
			name:    "empty store base url",
			mutate:  func(c *Config) { c.Store.BaseURL = "" },
			wantMsg: "base_url",
		},
		{
			name:    "no product ids",
			mutate:  func(c *Config) { c.Store.ProductIDsRaw = " , ," },
			wantMsg: "product_ids",
		},
		{
			name:    "garbage public key",
			mutate:  func(c *Config) { c.Store.PublicKeyPEM = "not a key" },
			wantMsg: "public_key_pem",
		},
		{
			name:    "zero lookahead",
			mutate:  func(c *Config) { c.Game.LookaheadSize = 0 },
			wantMsg: "lookahead_size",
		},
		{
			name:    "zero max players",
			mutate:  func(c *Config) { c.Game.MaxPlayerCount = 0 },
			wantMsg: "max_player_count",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestStoreConfig_ProductIDs(t *testing.T) {
	t.Parallel()

	s := StoreConfig{ProductIDsRaw: " premium.monthly , premium.yearly ,,premium.lifetime"}
	assert.Equal(t, []string{"premium.monthly", "premium.yearly", "premium.lifetime"}, s.ProductIDs())
}

func TestStoreConfig_PublicKey(t *testing.T) {
	t.Parallel()

	s := StoreConfig{PublicKeyPEM: testPublicKeyPEM}
	key, err := s.PublicKey()
	require.NoError(t, err)
	assert.Equal(t, "P-256", key.Curve.Params().Name)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_PATH", "test.db")
	t.Setenv("STORE_BASE_URL", "https://store.example.com")
	t.Setenv("STORE_PUBLIC_KEY_PEM", testPublicKeyPEM)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Game.LookaheadSize)
}
