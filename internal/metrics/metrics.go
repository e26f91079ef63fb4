// Package metrics exposes Prometheus collectors for parse activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dgallion1/resumelang/internal/ast"
	"github.com/dgallion1/resumelang/internal/parser"
)

// Metrics records parser events. It satisfies parser.Observer.
type Metrics struct {
	parses        *prometheus.CounterVec
	parseDuration prometheus.Histogram
	imports       *prometheus.CounterVec
	nodes         *prometheus.CounterVec
}

var _ parser.Observer = (*Metrics)(nil)

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		parses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resumelang_parse_total",
				Help: "Total number of documents parsed",
			},
			[]string{"mode", "result"},
		),

		parseDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "resumelang_parse_duration_seconds",
				Help:    "Duration of top-level parses in seconds, imports included",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
			},
		),

		imports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resumelang_imports_total",
				Help: "Total number of @import directives resolved",
			},
			[]string{"result"},
		),

		nodes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resumelang_nodes_total",
				Help: "Total number of AST nodes produced, by type",
			},
			[]string{"type"},
		),
	}
}

// ParseFinished records a completed top-level parse.
func (m *Metrics) ParseFinished(mode parser.Mode, root *ast.Root, d time.Duration, err error) {
	m.parses.WithLabelValues(mode.String(), result(err)).Inc()
	m.parseDuration.Observe(d.Seconds())
	if root == nil {
		return
	}
	for typ, n := range root.Count() {
		m.nodes.WithLabelValues(string(typ)).Add(float64(n))
	}
}

// ImportResolved records one @import, successful or not.
func (m *Metrics) ImportResolved(_ string, err error) {
	m.imports.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
