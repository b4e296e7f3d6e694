// Package metrics has prometheus metric variables/functions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricDecode = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imapresp_decode_total",
			Help: "Decoded responses, by kind and result.",
		},
		[]string{
			"kind",   // response, fetch, search
			"result", // ok, error
		},
	)
	metricLiteralBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imapresp_literal_bytes_total",
			Help: "Bytes of literal data taken from response lines.",
		},
	)
	metricUTF7Fallback = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imapresp_utf7_fallback_total",
			Help: "Malformed modified UTF-7 shifted runs passed through literally while decoding.",
		},
	)
)

// DecodeResult counts a decode of kind, with result "ok" for a nil err and
// "error" otherwise.
func DecodeResult(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metricDecode.WithLabelValues(kind, result).Inc()
}

// LiteralBytesAdd counts n bytes of literal data.
func LiteralBytesAdd(n int) {
	metricLiteralBytes.Add(float64(n))
}

// UTF7FallbackInc counts a malformed shifted run in a modified UTF-7 name.
func UTF7FallbackInc() {
	metricUTF7Fallback.Inc()
}
