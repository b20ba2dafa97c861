package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Store    StoreConfig    `yaml:"store"`
	Game     GameConfig     `yaml:"game"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds embedded SQLite settings.
type DatabaseConfig struct {
	Path        string        `yaml:"path"         env:"DATABASE_PATH"         env-default:"partydeck.db"`
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"DATABASE_BUSY_TIMEOUT" env-default:"5s"`
}

// StoreConfig holds remote entitlement/purchase source settings.
type StoreConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"STORE_BASE_URL"        env-required:"true"`
	PublicKeyPEM   string        `yaml:"public_key_pem"  env:"STORE_PUBLIC_KEY_PEM"  env-required:"true"`
	ProductIDsRaw  string        `yaml:"product_ids"     env:"STORE_PRODUCT_IDS"     env-default:"premium.monthly,premium.yearly,premium.lifetime"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"STORE_REQUEST_TIMEOUT" env-default:"15s"`
	RetryInterval  time.Duration `yaml:"retry_interval"  env:"STORE_RETRY_INTERVAL"  env-default:"30s"`
}

// GameConfig holds session/deck tunables.
type GameConfig struct {
	LookaheadSize  int `yaml:"lookahead_size"   env:"GAME_LOOKAHEAD_SIZE"   env-default:"4"`
	MaxPlayerCount int `yaml:"max_player_count" env:"GAME_MAX_PLAYER_COUNT" env-default:"12"`
	HistoryLimit   int `yaml:"history_limit"    env:"GAME_HISTORY_LIMIT"    env-default:"20"`

	// RatingUnlockCategory names the one premium category a user can unlock
	// by rating the app instead of purchasing. Empty disables the mechanic.
	RatingUnlockCategory string `yaml:"rating_unlock_category" env:"GAME_RATING_UNLOCK_CATEGORY" env-default:"Deep Talk"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ProductIDs returns the configured store product identifiers.
func (c StoreConfig) ProductIDs() []string {
	parts := strings.Split(c.ProductIDsRaw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
