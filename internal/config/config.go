// Package config loads engine configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full configuration tree.
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Registry RegistryConfig `mapstructure:"registry"`
}

// EngineConfig holds the rules constants.
type EngineConfig struct {
	MaxHandSize         int    `mapstructure:"max_hand_size"`
	MaxBattlefieldSize  int    `mapstructure:"max_battlefield_size"`
	MaxMana             int    `mapstructure:"max_mana"`
	DiscoverOptions     int    `mapstructure:"discover_options"`
	MaxDeathrattleDepth int    `mapstructure:"max_deathrattle_depth"`
	StartingHealth      int    `mapstructure:"starting_health"`
	RNGSeed             uint64 `mapstructure:"rng_seed"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RegistryConfig says where card definitions come from.
type RegistryConfig struct {
	Source      string `mapstructure:"source"`
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// Registry sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// EnvPrefix prefixes environment overrides, e.g. CARDENGINE_ENGINE_MAX_HAND_SIZE.
const EnvPrefix = "CARDENGINE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.max_hand_size", 9)
	v.SetDefault("engine.max_battlefield_size", 7)
	v.SetDefault("engine.max_mana", 10)
	v.SetDefault("engine.discover_options", 3)
	v.SetDefault("engine.max_deathrattle_depth", 8)
	v.SetDefault("engine.starting_health", 30)
	v.SetDefault("engine.rng_seed", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("registry.source", SourceFile)
	v.SetDefault("registry.path", "config/cards.yaml")
	v.SetDefault("registry.database_url", "")
}

// Load reads the configuration file at path, if it exists, applies environment
// overrides and validates the result. An empty path uses defaults and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isMissingFile(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	e := c.Engine
	switch {
	case e.MaxHandSize <= 0:
		return fmt.Errorf("engine.max_hand_size must be positive, got %d", e.MaxHandSize)
	case e.MaxBattlefieldSize <= 0:
		return fmt.Errorf("engine.max_battlefield_size must be positive, got %d", e.MaxBattlefieldSize)
	case e.MaxMana <= 0:
		return fmt.Errorf("engine.max_mana must be positive, got %d", e.MaxMana)
	case e.DiscoverOptions <= 0:
		return fmt.Errorf("engine.discover_options must be positive, got %d", e.DiscoverOptions)
	case e.MaxDeathrattleDepth <= 0:
		return fmt.Errorf("engine.max_deathrattle_depth must be positive, got %d", e.MaxDeathrattleDepth)
	case e.StartingHealth <= 0:
		return fmt.Errorf("engine.starting_health must be positive, got %d", e.StartingHealth)
	}
	switch c.Registry.Source {
	case SourceFile:
		if c.Registry.Path == "" {
			return fmt.Errorf("registry.path is required for the file source")
		}
	case SourcePostgres:
		if c.Registry.DatabaseURL == "" {
			return fmt.Errorf("registry.database_url is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown registry.source %q", c.Registry.Source)
	}
	return nil
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
