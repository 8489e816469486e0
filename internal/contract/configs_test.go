package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:        25,
		Workers:      4,
		Precision:    1,
		Output:       "text",
		CacheBackend: "sqlite",
	}
}

// TestProcessAndValidate tests the full validation pipeline.
func TestProcessAndValidate(t *testing.T) {
	t.Run("valid input with defaults", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

		assert.Equal(t, 25, cfg.ResultLimit)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, schema.TextOut, cfg.Output)
		assert.Equal(t, DefaultYear, cfg.Year)
		assert.Equal(t, DefaultMinYear, cfg.MinYear)
		assert.Equal(t, DefaultMaxYear, cfg.MaxYear)
		assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
		assert.Equal(t, DefaultDataset, cfg.Dataset)
		assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
		assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
		assert.True(t, cfg.UseEmojis)
		assert.True(t, cfg.UseColors)
	})

	t.Run("limit bounds", func(t *testing.T) {
		for _, limit := range []int{0, -1, MaxResultLimit + 1} {
			input := validRawInput()
			input.Limit = limit
			assert.Error(t, ProcessAndValidate(&Config{}, input), "limit %d should fail", limit)
		}
	})

	t.Run("workers must be positive", func(t *testing.T) {
		input := validRawInput()
		input.Workers = 0
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("precision must be 1 or 2", func(t *testing.T) {
		for _, p := range []int{0, 3} {
			input := validRawInput()
			input.Precision = p
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		}
	})

	t.Run("invalid output mode", func(t *testing.T) {
		input := validRawInput()
		input.Output = "xml"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("output mode case insensitive", func(t *testing.T) {
		input := validRawInput()
		input.Output = "JSON"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.JSONOut, cfg.Output)
	})

	t.Run("year outside ACS range", func(t *testing.T) {
		input := validRawInput()
		input.Year = 2005
		assert.Error(t, ProcessAndValidate(&Config{}, input))

		input.Year = 2030
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("explicit year accepted", func(t *testing.T) {
		input := validRawInput()
		input.Year = 2019
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 2019, cfg.Year)
	})

	t.Run("invalid cache backend", func(t *testing.T) {
		input := validRawInput()
		input.CacheBackend = "redis"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("mysql cache needs connection string", func(t *testing.T) {
		input := validRawInput()
		input.CacheBackend = "mysql"
		assert.Error(t, ProcessAndValidate(&Config{}, input))

		input.CacheDBConnect = "user:pass@tcp(localhost:3306)/census"
		require.NoError(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("querylog backend optional", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validRawInput()))
		assert.Empty(t, cfg.QueryLogBackend)
	})

	t.Run("querylog backend validated when set", func(t *testing.T) {
		input := validRawInput()
		input.QueryLogBackend = "postgresql"
		assert.Error(t, ProcessAndValidate(&Config{}, input))

		input.QueryLogDBConnect = "host=localhost user=census dbname=census"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.PostgreSQLBackend, cfg.QueryLogBackend)
	})

	t.Run("cache ttl parsed", func(t *testing.T) {
		input := validRawInput()
		input.CacheTTL = "24h"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	})

	t.Run("zero cache ttl disables expiry", func(t *testing.T) {
		input := validRawInput()
		input.CacheTTL = "0"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, time.Duration(0), cfg.CacheTTL)
	})

	t.Run("invalid cache ttl rejected", func(t *testing.T) {
		input := validRawInput()
		input.CacheTTL = "soon"
		assert.Error(t, ProcessAndValidate(&Config{}, input))

		input.CacheTTL = "-1h"
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})

	t.Run("presentation toggles", func(t *testing.T) {
		input := validRawInput()
		input.Emoji = "no"
		input.Color = "off"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.False(t, cfg.UseEmojis)
		assert.False(t, cfg.UseColors)
	})

	t.Run("negative width rejected", func(t *testing.T) {
		input := validRawInput()
		input.Width = -10
		assert.Error(t, ProcessAndValidate(&Config{}, input))
	})
}

// TestParseBoolish tests yes/no flag interpretation.
func TestParseBoolish(t *testing.T) {
	assert.True(t, parseBoolish("yes", false))
	assert.True(t, parseBoolish("TRUE", false))
	assert.True(t, parseBoolish("1", false))
	assert.True(t, parseBoolish("on", false))
	assert.False(t, parseBoolish("no", true))
	assert.False(t, parseBoolish("False", true))
	assert.False(t, parseBoolish("0", true))
	assert.True(t, parseBoolish("", true))
	assert.False(t, parseBoolish("maybe", false))
}

// TestValidateDatabaseConnectionString tests backend connection requirements.
func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(h:3306)/db"))
}

// TestConfigClone tests config copying.
func TestConfigClone(t *testing.T) {
	cfg := &Config{Year: 2020, Workers: 8}
	clone := cfg.Clone()
	clone.Year = 2021
	assert.Equal(t, 2020, cfg.Year)
	assert.Equal(t, 2021, clone.Year)
	assert.Equal(t, 8, clone.Workers)
}
