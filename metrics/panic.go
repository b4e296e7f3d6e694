package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricPanic = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "imapresp_panic_total",
		Help: "Number of unhandled panics while decoding, by package.",
	},
	[]string{
		"pkg",
	},
)

// PanicInc counts a panic that was not a decoding error, before it is passed on.
func PanicInc(pkg string) {
	metricPanic.WithLabelValues(pkg).Inc()
}
