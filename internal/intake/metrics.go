package intake

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records extraction outcomes. A nil *Metrics records nothing.
type Metrics struct {
	pages      *prometheus.CounterVec
	duration   prometheus.Histogram
	batchPages prometheus.Histogram
}

// NewMetrics creates the intake collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		pages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extraction_pages_total",
				Help: "Pages sent to the extraction service, by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "extraction_page_duration_seconds",
			Help:    "Latency of a single page extraction call.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		}),
		batchPages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_batch_pages",
			Help:    "Number of pages per intake batch.",
			Buckets: prometheus.LinearBuckets(1, 5, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.pages, m.duration, m.batchPages} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observePage(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.pages.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeBatch(pages int) {
	if m == nil {
		return
	}
	m.batchPages.Observe(float64(pages))
}
