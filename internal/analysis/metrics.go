package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	tokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mypl_tokens_total",
			Help: "Count of tokens produced by the lexer",
		},
	)

	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mypl_analyses_total",
			Help: "Count of completed analyses by outcome",
		}, []string{"result"},
	)

	analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mypl_analysis_duration_seconds",
			Help:    "Latency of a single lex or lex+parse run",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
)

func init() {
	prometheus.MustRegister(tokensTotal, analysesTotal, analysisDuration)
}
