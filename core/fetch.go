package core

import (
	"context"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
	"github.com/Steve-the-map-Maker/census-ai-backend/schema"
)

// FetchYear obtains raw rows for a single year through the transport and
// applies derived-metric enrichment. Transport errors propagate to the caller:
// at this layer a failed fetch means the year is unavailable.
func FetchYear(ctx context.Context, transport contract.Transport, desc *schema.RequestDescriptor, year int) ([]schema.Row, error) {
	rows, err := transport.Fetch(ctx, year, desc.VariableCodes, desc.ForClause, desc.InClauses)
	if err != nil {
		return nil, err
	}
	return EnrichRows(rows, desc), nil
}

// EnrichRows computes each requested derived metric for every row, writing the
// result under the metric's key. A metric whose calculation fails on a row
// (zero denominator, missing field) yields nil for that row only; the row and
// the request survive.
func EnrichRows(rows []schema.Row, desc *schema.RequestDescriptor) []schema.Row {
	if len(desc.Metrics) == 0 {
		return rows
	}

	enriched := make([]schema.Row, 0, len(rows))
	for _, row := range rows {
		out := make(schema.Row, len(row)+len(desc.Metrics))
		for k, v := range row {
			out[k] = v
		}
		for _, key := range desc.Metrics {
			metric, ok := schema.DerivedMetricsMap[key]
			if !ok {
				continue
			}
			value, err := metric.Compute(row, desc.CodeByName)
			if err != nil {
				out[string(key)] = nil
				continue
			}
			out[string(key)] = value
		}
		enriched = append(enriched, out)
	}
	return enriched
}
