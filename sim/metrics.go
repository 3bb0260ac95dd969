package sim

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Read outcomes
const (
	OutcomePassed	= "passed"
	OutcomeFiltered	= "filtered"
	OutcomeShort	= "short"
	OutcomeInvalid	= "invalid"
)

// Counters of a simulation run
type Metrics struct {
	Reads		*prometheus.CounterVec	// by outcome
	Miscalls	*prometheus.CounterVec	// by end
	Brightness	prometheus.Histogram
}

// Creates the metrics and registers them with reg, if not nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:	"simngs",
			Name:		"reads_total",
			Help:		"Number of input sequences, by outcome.",
		}, []string{"outcome"}),

		Miscalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:	"simngs",
			Name:		"miscalls_total",
			Help:		"Number of miscalled bases of the reads that passed the filter, by end.",
		}, []string{"end"}),

		Brightness: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:	"simngs",
			Name:		"brightness",
			Help:		"Brightness of the clusters (end 1).",
			Buckets:	prometheus.ExponentialBuckets(1, 2, 20),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Reads, m.Miscalls, m.Brightness)
	}

	return m
}

func (m *Metrics) read(outcome string) {
	m.Reads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) miscalls(end int, n int) {
	m.Miscalls.WithLabelValues(strconv.Itoa(end)).Add(float64(n))
}
