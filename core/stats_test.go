package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// TestCalculateSummaryStatistics tests distributional statistics.
func TestCalculateSummaryStatistics(t *testing.T) {
	code := "B19013_001E"

	t.Run("odd count uses middle value", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "Low", code: "10"},
			{schema.NameField: "Mid", code: "20"},
			{schema.NameField: "High", code: "60"},
		}
		stats := CalculateSummaryStatistics(rows, code)
		require.NotNil(t, stats)
		assert.Equal(t, 30.0, stats.Mean)
		assert.Equal(t, 20.0, stats.Median)
		assert.Equal(t, 10.0, stats.Min)
		assert.Equal(t, 60.0, stats.Max)
		assert.Equal(t, 3, stats.Count)
		assert.Equal(t, "Low", stats.MinEntityName)
		assert.Equal(t, "High", stats.MaxEntityName)
	})

	t.Run("even count averages middle pair", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "A", code: 10.0},
			{schema.NameField: "B", code: 20.0},
			{schema.NameField: "C", code: 30.0},
			{schema.NameField: "D", code: 40.0},
		}
		stats := CalculateSummaryStatistics(rows, code)
		require.NotNil(t, stats)
		assert.Equal(t, 25.0, stats.Median)
	})

	t.Run("non-numeric rows skipped", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "Good", code: "100"},
			{schema.NameField: "Bad", code: "not a number"},
			{schema.NameField: "Nil", code: nil},
		}
		stats := CalculateSummaryStatistics(rows, code)
		require.NotNil(t, stats)
		assert.Equal(t, 1, stats.Count)
		assert.Equal(t, 100.0, stats.Mean)
	})

	t.Run("no usable values yields nil", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "Bad", code: "x"},
		}
		assert.Nil(t, CalculateSummaryStatistics(rows, code))
	})

	t.Run("empty row set yields nil", func(t *testing.T) {
		assert.Nil(t, CalculateSummaryStatistics(nil, code))
	})

	t.Run("first match wins on ties", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "First", code: 5.0},
			{schema.NameField: "Second", code: 5.0},
		}
		stats := CalculateSummaryStatistics(rows, code)
		require.NotNil(t, stats)
		assert.Equal(t, "First", stats.MinEntityName)
		assert.Equal(t, "First", stats.MaxEntityName)
	})

	t.Run("results rounded to two decimals", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "A", code: 10.0},
			{schema.NameField: "B", code: 20.0},
			{schema.NameField: "C", code: 25.0},
		}
		stats := CalculateSummaryStatistics(rows, code)
		require.NotNil(t, stats)
		assert.Equal(t, 18.33, stats.Mean)
	})

	t.Run("comma separated strings coerce", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "A", code: "1,234,567"},
		}
		stats := CalculateSummaryStatistics(rows, code)
		require.NotNil(t, stats)
		assert.Equal(t, 1234567.0, stats.Max)
	})
}
