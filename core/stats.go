package core

import (
	"sort"

	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// CalculateSummaryStatistics computes distributional statistics for one
// variable across a single-year row set. Rows whose value does not coerce are
// skipped. A nil result means no row had a usable value, which is a normal
// "not applicable" outcome rather than a fault.
func CalculateSummaryStatistics(rows []schema.Row, code string) *schema.SummaryStats {
	type observation struct {
		value float64
		name  string
	}
	var obs []observation
	for _, row := range rows {
		v, ok := schema.CoerceFloat(row[code])
		if !ok {
			continue
		}
		obs = append(obs, observation{value: v, name: row.Name()})
	}
	if len(obs) == 0 {
		return nil
	}

	minObs, maxObs := obs[0], obs[0]
	sum := 0.0
	for _, o := range obs {
		sum += o.value
		// First match wins on ties.
		if o.value < minObs.value {
			minObs = o
		}
		if o.value > maxObs.value {
			maxObs = o
		}
	}

	values := make([]float64, len(obs))
	for i, o := range obs {
		values[i] = o.value
	}
	sort.Float64s(values)

	median := values[len(values)/2]
	if len(values)%2 == 0 {
		median = (values[len(values)/2-1] + values[len(values)/2]) / 2
	}

	return &schema.SummaryStats{
		Mean:          schema.Round2(sum / float64(len(obs))),
		Median:        schema.Round2(median),
		Min:           schema.Round2(minObs.value),
		Max:           schema.Round2(maxObs.value),
		Count:         len(obs),
		MinEntityName: minObs.name,
		MaxEntityName: maxObs.name,
	}
}
