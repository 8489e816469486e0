package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricCodes() map[string]string {
	codes := make(map[string]string, len(VariableMap))
	for name, code := range VariableMap {
		codes[name] = code
	}
	return codes
}

// TestDerivedMetricsRegistry checks registry integrity: every required
// variable must resolve through VariableMap.
func TestDerivedMetricsRegistry(t *testing.T) {
	for key, metric := range DerivedMetricsMap {
		t.Run(string(key), func(t *testing.T) {
			assert.NotEmpty(t, metric.Name)
			assert.NotNil(t, metric.Compute)
			for _, required := range metric.RequiredVariables {
				_, ok := VariableMap[required]
				assert.True(t, ok, "required variable %q not in VariableMap", required)
			}
		})
	}
}

// TestMetricComputations tests each derived metric calculation.
func TestMetricComputations(t *testing.T) {
	codes := metricCodes()

	t.Run("male female difference", func(t *testing.T) {
		row := Row{"B01001_002E": "520", "B01001_026E": "480"}
		got, err := DerivedMetricsMap[MaleFemaleDifference].Compute(row, codes)
		require.NoError(t, err)
		assert.Equal(t, 40.0, got)
	})

	t.Run("unemployment percentage", func(t *testing.T) {
		row := Row{"B23025_005E": "50", "B23025_004E": "950"}
		got, err := DerivedMetricsMap[UnemploymentPercentage].Compute(row, codes)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, got, 0.0001)
	})

	t.Run("owner occupied percentage", func(t *testing.T) {
		row := Row{"B25003_002E": "600", "B25001_001E": "1000"}
		got, err := DerivedMetricsMap[OwnerOccupiedPercentage].Compute(row, codes)
		require.NoError(t, err)
		assert.InDelta(t, 60.0, got, 0.0001)
	})

	t.Run("poverty percentage", func(t *testing.T) {
		row := Row{"B17001_002E": "150", "B01003_001E": "1000"}
		got, err := DerivedMetricsMap[PovertyPercentage].Compute(row, codes)
		require.NoError(t, err)
		assert.InDelta(t, 15.0, got, 0.0001)
	})

	t.Run("bachelors degree percentage", func(t *testing.T) {
		row := Row{"B15003_022E": "320", "B01003_001E": "1000"}
		got, err := DerivedMetricsMap[BachelorsDegreePercentage].Compute(row, codes)
		require.NoError(t, err)
		assert.InDelta(t, 32.0, got, 0.0001)
	})

	t.Run("housing vacancy rate", func(t *testing.T) {
		row := Row{"B25001_001E": "1000", "B25003_002E": "600", "B25003_003E": "300"}
		got, err := DerivedMetricsMap[HousingVacancyRate].Compute(row, codes)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, got, 0.0001)
	})
}

// TestMetricComputationErrors tests undefined-calculation handling.
func TestMetricComputationErrors(t *testing.T) {
	codes := metricCodes()

	t.Run("zero denominator errors", func(t *testing.T) {
		row := Row{"B17001_002E": "150", "B01003_001E": "0"}
		_, err := DerivedMetricsMap[PovertyPercentage].Compute(row, codes)
		assert.Error(t, err)
	})

	t.Run("negative denominator errors", func(t *testing.T) {
		row := Row{"B17001_002E": "150", "B01003_001E": "-5"}
		_, err := DerivedMetricsMap[PovertyPercentage].Compute(row, codes)
		assert.Error(t, err)
	})

	t.Run("missing field errors", func(t *testing.T) {
		row := Row{"B17001_002E": "150"}
		_, err := DerivedMetricsMap[PovertyPercentage].Compute(row, codes)
		assert.Error(t, err)
	})

	t.Run("non-numeric field errors", func(t *testing.T) {
		row := Row{"B17001_002E": "n/a", "B01003_001E": "1000"}
		_, err := DerivedMetricsMap[PovertyPercentage].Compute(row, codes)
		assert.Error(t, err)
	})

	t.Run("unresolved code errors", func(t *testing.T) {
		row := Row{"B17001_002E": "150", "B01003_001E": "1000"}
		_, err := DerivedMetricsMap[PovertyPercentage].Compute(row, map[string]string{})
		assert.Error(t, err)
	})
}

// TestMetricLabel tests label fallback behavior.
func TestMetricLabel(t *testing.T) {
	assert.Equal(t, "Poverty Rate (%)", MetricLabel(PovertyPercentage))
	assert.Equal(t, "mystery_metric", MetricLabel(MetricKey("mystery_metric")))
}
