package observability

import (
	"context"
	"errors"
	"sort"

	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// ErrMetricsDisabled is returned when collecting from a provider without metrics.
var ErrMetricsDisabled = errors.New("metrics disabled")

// MetricSummary is a flattened view of one instrument across all attribute sets.
type MetricSummary struct {
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`

	// Value is the summed value for counters and the summed observations for
	// histograms.
	Value float64 `json:"value"`

	// Count is the number of histogram observations. Zero for sums.
	Count uint64 `json:"count,omitempty"`
}

// CollectMetrics reads the manual reader and returns summaries sorted by name.
func (p *Provider) CollectMetrics(ctx context.Context) ([]MetricSummary, error) {
	if p.reader == nil {
		return nil, ErrMetricsDisabled
	}

	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}
	return Summarize(rm), nil
}

// Summarize flattens collected resource metrics.
func Summarize(rm metricdata.ResourceMetrics) []MetricSummary {
	var out []MetricSummary
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			s := MetricSummary{Name: m.Name, Unit: m.Unit}
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					s.Value += float64(dp.Value)
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					s.Value += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					s.Value += dp.Sum
					s.Count += dp.Count
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					s.Value += float64(dp.Sum)
					s.Count += dp.Count
				}
			default:
				continue
			}
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
