// Package config loads engine configuration from a config file or environment
// variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the engine's external endpoints and tuning knobs.
type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Store      StoreConfig      `mapstructure:"store"`
}

// GenerationConfig points at the plan generation service.
type GenerationConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BackendConfig points at the persistence backend.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// StoreConfig locates the sealed local key-value store.
type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from config.yaml in path, overridable by
// environment variables (generation.base_url -> GENERATION_BASE_URL). A
// missing config file is not an error; defaults and env vars apply.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("generation.base_url", "http://localhost:8000")
	v.SetDefault("generation.timeout", "45s")
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("store.dir", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
