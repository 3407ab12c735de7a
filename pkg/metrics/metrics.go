// Package metrics holds the prometheus collectors shared by the drawdown
// pipelines and the sweep worker.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"wellflow/pkg/serrors"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// register registers c with reg and returns the collector already
// registered under the same descriptor, if any.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if !errors.As(err, &are) {
			return c, fmt.Errorf("could not register metrics: %w", err)
		}
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return c, fmt.Errorf("collector registered with another type: %w", err)
		}

		return existing, nil
	}

	return c, nil
}

// Solver records the duration and outcome of pipeline calls.
type Solver struct {
	duration *prometheus.HistogramVec
}

// NewSolver creates the solver collectors and registers them with reg.
func NewSolver(reg prometheus.Registerer) (*Solver, error) {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wellflow",
		Subsystem: "solver",
		Name:      "duration_seconds",
		Help:      "Duration of drawdown pipeline calls by pipeline and outcome.",
		Buckets:   DefaultBuckets,
	}, []string{"pipeline", "outcome"})

	duration, err := register(reg, duration)
	if err != nil {
		return nil, err
	}

	return &Solver{duration: duration}, nil
}

// Observe records one call of pipeline that took d and returned err.
func (s *Solver) Observe(pipeline string, err error, d time.Duration) {
	s.duration.WithLabelValues(pipeline, Outcome(err)).Observe(d.Seconds())
}

// Outcome maps err to a low cardinality label value.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}

	switch serrors.KindOf(err) {
	case serrors.ErrDomain:
		return "domain"
	case serrors.ErrInvalidArgument:
		return "invalid_argument"
	case serrors.ErrConvergence:
		return "convergence"
	default:
		return "error"
	}
}

// Job results.
const (
	JobCompleted = "completed"
	JobCancelled = "cancelled"
	JobRetried   = "retried"
)

// Jobs counts worked sweep jobs by result.
type Jobs struct {
	results *prometheus.CounterVec
}

// NewJobs creates the job collectors and registers them with reg.
func NewJobs(reg prometheus.Registerer) (*Jobs, error) {
	results, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellflow",
		Subsystem: "sweep",
		Name:      "jobs_total",
		Help:      "Number of worked sweep jobs by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	return &Jobs{results: results}, nil
}

// Inc counts one job with result. A nil Jobs ignores the call.
func (j *Jobs) Inc(result string) {
	if j == nil {
		return
	}
	j.results.WithLabelValues(result).Inc()
}
