package metrics

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Counters returns the current values of the imapresp counters from the default
// registry, keyed by name and labels, e.g.
// `imapresp_decode_total{kind="fetch",result="ok"}`.
func Counters() (map[string]float64, error) {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}
	r := map[string]float64{}
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), "imapresp_") || mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.Metric {
			r[counterKey(mf.GetName(), m.Label)] = m.GetCounter().GetValue()
		}
	}
	return r, nil
}

func counterKey(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	l := make([]string, len(labels))
	for i, lp := range labels {
		l[i] = fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
	}
	return name + "{" + strings.Join(l, ",") + "}"
}
