package config

import (
	"errors"
	"testing"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port  int    `env:"TEST_CFG_PORT" envDefault:"8080"`
	Index string `env:"TEST_CFG_INDEX" envDefault:"parts"`
	Debug bool   `env:"TEST_CFG_DEBUG" envDefault:"false"`
}

type validatedConfig struct {
	Port int `env:"PORT" envDefault:"8080"`
}

func (c *validatedConfig) Validate() error {
	if c.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "parts", cfg.Index)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_INDEX", "parts_v2")
	t.Setenv("TEST_CFG_DEBUG", "true")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "parts_v2", cfg.Index)
	assert.True(t, cfg.Debug)
}

func TestLoad_InvalidType(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadWithOptions_RunsValidate(t *testing.T) {
	var cfg validatedConfig
	err := LoadWithOptions(&cfg, env.Options{Environment: map[string]string{"PORT": "-1"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate config: port must be positive")
}

func TestLoadWithOptions_Prefix(t *testing.T) {
	var cfg validatedConfig
	err := LoadWithOptions(&cfg, env.Options{
		Prefix:      "CATALOG_",
		Environment: map[string]string{"CATALOG_PORT": "7000"},
	})

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
}
