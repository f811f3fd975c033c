package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/config"
)

type SchedulerTestConfig struct {
	SweepInterval time.Duration `env:"NOTIFY_SWEEP_INTERVAL" envDefault:"1m"`
	MaxAttempts   int           `env:"NOTIFY_MAX_ATTEMPTS" envDefault:"3"`
	Persist       bool          `env:"NOTIFY_PERSIST" envDefault:"true"`
}

type StoreTestConfig struct {
	RedisURL string `env:"NOTIFY_REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

type CacheTestConfig struct {
	Value string `env:"NOTIFY_CACHE_VALUE" envDefault:"initial"`
}

type RequiredTestConfig struct {
	Token string `env:"NOTIFY_API_TOKEN,required"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("NOTIFY_SWEEP_INTERVAL", "30s")
	t.Setenv("NOTIFY_MAX_ATTEMPTS", "5")
	t.Setenv("NOTIFY_PERSIST", "false")
	config.ResetCache()

	var cfg SchedulerTestConfig
	err := config.Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.False(t, cfg.Persist)
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("NOTIFY_REDIS_URL")
	config.ResetCache()

	var cfg StoreTestConfig
	err := config.Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_CachedPerType(t *testing.T) {
	t.Setenv("NOTIFY_CACHE_VALUE", "first")
	config.ResetCache()

	var first CacheTestConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	// A changed environment is invisible until the cache is reset.
	t.Setenv("NOTIFY_CACHE_VALUE", "second")
	var second CacheTestConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.ResetCache()
	var third CacheTestConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoad_RequiredMissing(t *testing.T) {
	os.Unsetenv("NOTIFY_API_TOKEN")
	config.ResetCache()

	var cfg RequiredTestConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	err := config.Load[SchedulerTestConfig](nil)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoad_PanicsOnFailure(t *testing.T) {
	os.Unsetenv("NOTIFY_API_TOKEN")
	config.ResetCache()

	assert.Panics(t, func() {
		var cfg RequiredTestConfig
		config.MustLoad(&cfg)
	})
}
