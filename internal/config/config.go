package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Keys    KeysConfig    `mapstructure:"keys"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Log     LogConfig     `mapstructure:"log"`
}

// StorageConfig selects and configures the key-value backend
type StorageConfig struct {
	Driver          string `mapstructure:"driver"` // memory, sqlite, postgres, mysql, redis, mongo
	Path            string `mapstructure:"path"`   // SQLite file
	URL             string `mapstructure:"url"`    // PostgreSQL/MySQL DSN
	RedisAddr       string `mapstructure:"redis_addr"`
	RedisPassword   string `mapstructure:"redis_password"`
	RedisDB         int    `mapstructure:"redis_db"`
	RedisPrefix     string `mapstructure:"redis_prefix"`
	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
}

// KeysConfig names the storage keys of each persisted snapshot
type KeysConfig struct {
	Progress     string `mapstructure:"progress"`
	Achievements string `mapstructure:"achievements"`
	Stats        string `mapstructure:"stats"`
	Session      string `mapstructure:"session"`
}

// CatalogConfig points at an optional word-family catalog file
type CatalogConfig struct {
	Path string `mapstructure:"path"` // empty uses the embedded catalog
}

// AudioConfig configures pronunciation audio generation
type AudioConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Dir      string        `mapstructure:"dir"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional wordcards.{yaml,json,toml} file
// and environment variables, falling back to sensible defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("wordcards")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults only contain plain scalars, so decoding cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// Storage defaults
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "./wordcards.db")
	v.SetDefault("storage.url", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("storage.redis_prefix", "wordcards:")
	v.SetDefault("storage.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo_database", "wordcards")
	v.SetDefault("storage.mongo_collection", "kv_store")

	// Storage keys, matching the browser local-storage names
	v.SetDefault("keys.progress", "vocab-card-progress")
	v.SetDefault("keys.achievements", "vocab-card-achievements")
	v.SetDefault("keys.stats", "vocab-card-stats")
	v.SetDefault("keys.session", "vocab-card-session")

	v.SetDefault("catalog.path", "")

	v.SetDefault("audio.enabled", false)
	v.SetDefault("audio.dir", "./static/audio")
	v.SetDefault("audio.endpoint", "https://translate.google.com/translate_tts")
	v.SetDefault("audio.timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
