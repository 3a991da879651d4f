package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Port    int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	Driver  string        `env:"TEST_CFG_DRIVER" envDefault:"memory"`
	Expiry  time.Duration `env:"TEST_CFG_EXPIRY" envDefault:"24h"`
	Brokers []string      `env:"TEST_CFG_BROKERS" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "memory", cfg.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Expiry)
	assert.Empty(t, cfg.Brokers)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_DRIVER", "redis")
	t.Setenv("TEST_CFG_BROKERS", "kafka-1:9092,kafka-2:9092")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "redis", cfg.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "not-a-number")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadFromMap_IgnoresProcessEnv(t *testing.T) {
	t.Setenv("TEST_CFG_DRIVER", "postgres")

	var cfg testConfig
	require.NoError(t, LoadFromMap(&cfg, map[string]string{"TEST_CFG_PORT": "7000"}))

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "memory", cfg.Driver)
}

func TestLoadWithOptions_Prefix(t *testing.T) {
	var cfg testConfig
	err := LoadWithOptions(&cfg, env.Options{
		Prefix:      "SHOP_",
		Environment: map[string]string{"SHOP_TEST_CFG_EXPIRY": "1h"},
	})

	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.Expiry)
}

func TestLoad_NonPointer(t *testing.T) {
	err := Load(testConfig{})
	assert.Error(t, err)
}
