package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// TestEnrichRows tests per-row derived metric computation.
func TestEnrichRows(t *testing.T) {
	desc := &schema.RequestDescriptor{
		Metrics: []schema.MetricKey{schema.PovertyPercentage},
		CodeByName: map[string]string{
			"population_in_poverty": "B17001_002E",
			"total_population":      "B01003_001E",
		},
	}

	t.Run("metric computed per row", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "A", "B17001_002E": "100", "B01003_001E": "1000"},
			{schema.NameField: "B", "B17001_002E": "300", "B01003_001E": "1000"},
		}
		enriched := EnrichRows(rows, desc)
		require.Len(t, enriched, 2)
		assert.InDelta(t, 10.0, enriched[0]["poverty_percentage"].(float64), 0.0001)
		assert.InDelta(t, 30.0, enriched[1]["poverty_percentage"].(float64), 0.0001)
	})

	t.Run("failed metric yields nil for that row only", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "Good", "B17001_002E": "100", "B01003_001E": "1000"},
			{schema.NameField: "ZeroDenom", "B17001_002E": "100", "B01003_001E": "0"},
			{schema.NameField: "Missing", "B01003_001E": "1000"},
		}
		enriched := EnrichRows(rows, desc)
		require.Len(t, enriched, 3)
		assert.NotNil(t, enriched[0]["poverty_percentage"])
		assert.Nil(t, enriched[1]["poverty_percentage"])
		assert.Nil(t, enriched[2]["poverty_percentage"])
	})

	t.Run("input rows not mutated", func(t *testing.T) {
		rows := []schema.Row{
			{schema.NameField: "A", "B17001_002E": "100", "B01003_001E": "1000"},
		}
		EnrichRows(rows, desc)
		assert.NotContains(t, rows[0], "poverty_percentage")
	})

	t.Run("no metrics returns rows unchanged", func(t *testing.T) {
		plain := &schema.RequestDescriptor{}
		rows := []schema.Row{{schema.NameField: "A"}}
		assert.Equal(t, rows, EnrichRows(rows, plain))
	})
}

// TestFetchYear tests the single-year transport round trip.
func TestFetchYear(t *testing.T) {
	desc := &schema.RequestDescriptor{
		VariableCodes: []string{"B01003_001E", schema.NameField},
		ForClause:     "state:*",
		InClauses:     map[string]string{},
	}

	t.Run("rows pass through transport", func(t *testing.T) {
		mockTransport := &contract.MockTransport{}
		mockTransport.On("Fetch", mock.Anything, 2022, desc.VariableCodes, "state:*", desc.InClauses).
			Return([]schema.Row{{schema.NameField: "Utah", "B01003_001E": "3300000"}}, nil)

		rows, err := FetchYear(context.Background(), mockTransport, desc, 2022)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Utah", rows[0].Name())
		mockTransport.AssertExpectations(t)
	})

	t.Run("transport errors propagate", func(t *testing.T) {
		mockTransport := &contract.MockTransport{}
		mockTransport.On("Fetch", mock.Anything, 2022, desc.VariableCodes, "state:*", desc.InClauses).
			Return(nil, assert.AnError)

		_, err := FetchYear(context.Background(), mockTransport, desc, 2022)
		assert.Error(t, err)
	})
}

// TestGetDemographicData tests the single-year resolution path.
func TestGetDemographicData(t *testing.T) {
	cfg := &contract.Config{Year: 2022}

	t.Run("resolves and fetches default year", func(t *testing.T) {
		mockTransport := &contract.MockTransport{}
		mockTransport.On("Fetch", mock.Anything, 2022, mock.Anything, "state:*", mock.Anything).
			Return([]schema.Row{{schema.NameField: "Idaho", "B01003_001E": "1900000"}}, nil)

		rows, desc, err := GetDemographicData(context.Background(), cfg, mockTransport, ResolveInput{
			GeographyLevel: "state",
			Variables:      []string{"total_population"},
		}, 0)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, schema.StateLevel, desc.Level)
		mockTransport.AssertExpectations(t)
	})

	t.Run("resolution errors surface before any fetch", func(t *testing.T) {
		mockTransport := &contract.MockTransport{}
		_, _, err := GetDemographicData(context.Background(), cfg, mockTransport, ResolveInput{
			GeographyLevel: "state",
		}, 0)
		assert.ErrorIs(t, err, ErrMissingParameter)
		mockTransport.AssertNotCalled(t, "Fetch")
	})

	t.Run("explicit year overrides config", func(t *testing.T) {
		mockTransport := &contract.MockTransport{}
		mockTransport.On("Fetch", mock.Anything, 2019, mock.Anything, "state:*", mock.Anything).
			Return([]schema.Row{}, nil)

		_, _, err := GetDemographicData(context.Background(), cfg, mockTransport, ResolveInput{
			GeographyLevel: "state",
			Variables:      []string{"total_population"},
		}, 2019)
		require.NoError(t, err)
		mockTransport.AssertExpectations(t)
	})
}
