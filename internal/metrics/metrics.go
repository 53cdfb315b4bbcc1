// Package metrics holds the prometheus collectors of the factorization
// kernel. Collectors are always updated; they are exported only once
// Register has been called.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var metrics = struct {
	evaluations     *prometheus.CounterVec
	bivariateRetry  *prometheus.CounterVec
	primeRestarts   *prometheus.CounterVec
	extensions      *prometheus.CounterVec
	lcCorrections   prometheus.Counter
	factorDuration  *prometheus.HistogramVec
	factorsReturned *prometheus.CounterVec
}{
	evaluations: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rings",
			Name:      "factor_evaluation_attempts",
			Help:      "Count of evaluation points tried by the bivariate and multivariate factorizers",
		},
		[]string{"domain", "result"},
	),
	bivariateRetry: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rings",
			Name:      "factor_bivariate_retries",
			Help:      "Count of rejected univariate images in bivariate factorization",
		},
		[]string{"domain"},
	),
	primeRestarts: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rings",
			Name:      "factor_prime_restarts",
			Help:      "Count of modular lifts restarted with a fresh prime",
		},
		[]string{"stage"},
	),
	extensions: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rings",
			Name:      "factor_extension_escalations",
			Help:      "Count of factorizations moved to an extension field",
		},
		[]string{"degree"},
	),
	lcCorrections: prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rings",
			Name:      "factor_lc_corrections",
			Help:      "Count of lifts that fell back to distributing the whole leading coefficient",
		},
	),
	factorDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rings",
			Name:      "factor_duration_seconds",
			Help:      "Time spent in a top-level factorization",
		},
		[]string{"domain", "result"},
	),
	factorsReturned: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rings",
			Name:      "factor_irreducible_factors",
			Help:      "Count of irreducible factors returned",
		},
		[]string{"domain"},
	),
}

var metricsRegister sync.Once

// Register adds the collectors to reg. Only the first call has an effect.
func Register(reg prometheus.Registerer) {
	metricsRegister.Do(func() {
		reg.MustRegister(metrics.evaluations)
		reg.MustRegister(metrics.bivariateRetry)
		reg.MustRegister(metrics.primeRestarts)
		reg.MustRegister(metrics.extensions)
		reg.MustRegister(metrics.lcCorrections)
		reg.MustRegister(metrics.factorDuration)
		reg.MustRegister(metrics.factorsReturned)
	})
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordEvaluation counts an evaluation point, accepted or not.
func RecordEvaluation(domain string, accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	metrics.evaluations.WithLabelValues(domain, result).Inc()
}

func RecordBivariateRetry(domain string) {
	metrics.bivariateRetry.WithLabelValues(domain).Inc()
}

func RecordPrimeRestart(stage string) {
	metrics.primeRestarts.WithLabelValues(stage).Inc()
}

func RecordExtension(degree string) {
	metrics.extensions.WithLabelValues(degree).Inc()
}

func RecordLCCorrection() {
	metrics.lcCorrections.Inc()
}

// RecordFactorization observes the duration since start and, on success,
// the number of factors found.
func RecordFactorization(domain string, start time.Time, factors int, err error) {
	metrics.factorDuration.WithLabelValues(domain, resultLabel(err)).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.factorsReturned.WithLabelValues(domain).Add(float64(factors))
	}
}
