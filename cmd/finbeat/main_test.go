package main

import (
	"testing"

	"github.com/finbeat/finbeat/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	t.Cleanup(viper.Reset)

	t.Run("valid level and format", func(t *testing.T) {
		viper.Set("logging.level", "debug")
		viper.Set("logging.format", "json")
		require.NoError(t, setupLogging())
	})

	t.Run("unknown level is invalid configuration", func(t *testing.T) {
		viper.Set("logging.level", "loud")
		err := setupLogging()
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "loud")
	})
}
