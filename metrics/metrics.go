// Package metrics exposes solver outcomes as Prometheus metrics
package metrics

import (
	"io"

	"github.com/cottand/tsolve/solver"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var _ solver.Observer = (*Collector)(nil)

// Collector counts solver results. It registers its metrics on its own registry
// so several collectors can coexist, e.g. one per test
type Collector struct {
	registry    *prometheus.Registry
	variables   *prometheus.CounterVec
	constraints prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		variables: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsolve",
			Name:      "variables_total",
			Help:      "Type variables solved, by outcome and reason.",
		}, []string{"outcome", "reason"}),
		constraints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tsolve",
			Name:      "constraints_per_variable",
			Help:      "Number of constraints placed on each solved type variable.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
	}
	c.registry.MustRegister(c.variables, c.constraints)
	return c
}

func (c *Collector) Observe(r solver.Result, constraints int) {
	c.variables.WithLabelValues(r.Outcome.String(), r.Reason.String()).Inc()
	c.constraints.Observe(float64(constraints))
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteText writes every metric of the collector in the Prometheus text format
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "could not gather metrics")
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return errors.Wrapf(err, "could not write metric %s", family.GetName())
		}
	}
	return nil
}
