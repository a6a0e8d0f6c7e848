package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/config"
)

type appConfig struct {
	Name    string        `env:"CONFIG_TEST_NAME" envDefault:"dispatch"`
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Secret string `env:"CONFIG_TEST_SECRET,required"`
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("CONFIG_TEST_NAME", "first")

	var first appConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Name)
	assert.Equal(t, 5*time.Second, first.Timeout)

	t.Setenv("CONFIG_TEST_NAME", "second")

	var second appConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, first, second)
}

func TestMustLoadPanicsOnMissingRequired(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
