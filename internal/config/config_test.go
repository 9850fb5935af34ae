package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Engine.MaxHandSize)
	assert.Equal(t, 7, cfg.Engine.MaxBattlefieldSize)
	assert.Equal(t, 10, cfg.Engine.MaxMana)
	assert.Equal(t, 3, cfg.Engine.DiscoverOptions)
	assert.Equal(t, 8, cfg.Engine.MaxDeathrattleDepth)
	assert.Equal(t, 30, cfg.Engine.StartingHealth)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, SourceFile, cfg.Registry.Source)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  max_hand_size: 10
  rng_seed: 42
logging:
  format: json
`), 0o600))
	t.Setenv("CARDENGINE_ENGINE_MAX_DEATHRATTLE_DEPTH", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Engine.MaxHandSize)
	assert.Equal(t, uint64(42), cfg.Engine.RNGSeed)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 3, cfg.Engine.MaxDeathrattleDepth)
	assert.Equal(t, 7, cfg.Engine.MaxBattlefieldSize, "unset keys keep defaults")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Engine.MaxHandSize)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("CARDENGINE_REGISTRY_SOURCE", "postgres")
	_, err := Load("")
	assert.ErrorContains(t, err, "database_url")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Engine: EngineConfig{
				MaxHandSize:         9,
				MaxBattlefieldSize:  7,
				MaxMana:             10,
				DiscoverOptions:     3,
				MaxDeathrattleDepth: 8,
				StartingHealth:      30,
			},
			Registry: RegistryConfig{Source: SourceFile, Path: "cards.yaml"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"hand size", func(c *Config) { c.Engine.MaxHandSize = 0 }},
		{"battlefield size", func(c *Config) { c.Engine.MaxBattlefieldSize = -1 }},
		{"mana", func(c *Config) { c.Engine.MaxMana = 0 }},
		{"discover options", func(c *Config) { c.Engine.DiscoverOptions = 0 }},
		{"deathrattle depth", func(c *Config) { c.Engine.MaxDeathrattleDepth = 0 }},
		{"health", func(c *Config) { c.Engine.StartingHealth = 0 }},
		{"file without path", func(c *Config) { c.Registry.Path = "" }},
		{"unknown source", func(c *Config) { c.Registry.Source = "s3" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
