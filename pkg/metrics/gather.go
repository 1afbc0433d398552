package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Value gathers from g and returns the counter or gauge value of the named
// metric whose labels include every pair in labels. Histograms report their
// sample count.
func Value(g prometheus.Gatherer, name string, labels map[string]string) (float64, error) {
	families, err := g.Gather()
	if err != nil {
		return 0, err
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			matched := 0
			for _, lp := range metric.GetLabel() {
				if v, ok := labels[lp.GetName()]; ok && v == lp.GetValue() {
					matched++
				}
			}
			if matched != len(labels) {
				continue
			}
			switch {
			case metric.GetCounter() != nil:
				return metric.GetCounter().GetValue(), nil
			case metric.GetGauge() != nil:
				return metric.GetGauge().GetValue(), nil
			case metric.GetHistogram() != nil:
				return float64(metric.GetHistogram().GetSampleCount()), nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s %v", ErrMetricNotFound, name, labels)
}
