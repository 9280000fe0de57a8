package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notifkit/notifkit/pkg/config"
)

type feedConfig struct {
	BufferSize      int    `env:"TEST_FEED_BUFFER_SIZE" envDefault:"64"`
	MaxGroupStreams int    `env:"TEST_FEED_MAX_GROUP_STREAMS" envDefault:"128"`
	Service         string `env:"TEST_FEED_SERVICE"`
}

type requiredConfig struct {
	Token string `env:"TEST_REQUIRED_TOKEN,required"`
}

func TestLoadAppliesDefaults(t *testing.T) {
	config.ResetCache()

	var cfg feedConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 64, cfg.BufferSize)
	assert.Equal(t, 128, cfg.MaxGroupStreams)
	assert.Empty(t, cfg.Service)
}

func TestLoadReadsEnvironment(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_FEED_BUFFER_SIZE", "8")
	t.Setenv("TEST_FEED_SERVICE", "notifkit")

	var cfg feedConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 8, cfg.BufferSize)
	assert.Equal(t, "notifkit", cfg.Service)
}

func TestLoadCachesPerType(t *testing.T) {
	config.ResetCache()
	t.Setenv("TEST_FEED_BUFFER_SIZE", "8")

	var first feedConfig
	require.NoError(t, config.Load(&first))

	// Environment changes after the first load are not observed.
	t.Setenv("TEST_FEED_BUFFER_SIZE", "99")
	var second feedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, 8, second.BufferSize)

	// Until the cache is reset.
	config.ResetCache()
	var third feedConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, 99, third.BufferSize)
}

func TestLoadMissingRequiredVariableFails(t *testing.T) {
	config.ResetCache()

	var cfg requiredConfig
	err := config.Load(&cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadNilPointerFails(t *testing.T) {
	err := config.Load[feedConfig](nil)

	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestLoadEnvMissingFileFails(t *testing.T) {
	err := config.LoadEnv("testdata/does-not-exist.env")

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestMustLoadPanicsOnFailure(t *testing.T) {
	config.ResetCache()

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
