package metrics

import (
	"time"

	"github.com/kylycht/apex/model"
	"github.com/kylycht/apex/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WidgetMetrics holds the service's Prometheus collectors
type WidgetMetrics struct {
	// Settled rate fetches by outcome: ready, network, invalid_response
	FetchesTotal *prometheus.CounterVec
	// Duration of settled rate fetches
	FetchDuration *prometheus.HistogramVec
	// Currently mounted widget sessions
	MountedWidgets prometheus.Gauge
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *WidgetMetrics {
	factory := promauto.With(reg)

	return &WidgetMetrics{
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apex_rate_fetches_total",
				Help: "Exchange rate fetches by outcome",
			},
			[]string{"outcome"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apex_rate_fetch_duration_seconds",
				Help:    "Time taken by exchange rate fetches",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),

		MountedWidgets: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "apex_mounted_widgets",
				Help: "Widget sessions currently mounted",
			},
		),
	}
}

// ObserveFetch records one applied fetch.
// Its signature matches widget.FetchObserver.
func (m *WidgetMetrics) ObserveFetch(status model.FetchStatus, kind service.ErrorKind, elapsed time.Duration) {
	outcome := model.Ready.String()
	if status.Phase == model.Failed {
		outcome = kind.String()
	}

	m.FetchesTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// SetMounted records the number of mounted widgets
func (m *WidgetMetrics) SetMounted(n int) {
	m.MountedWidgets.Set(float64(n))
}
