package preprocessing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YuminosukeSato/featprep/pkg/errors"
)

// metrics は fit/transform の回数・所要時間・出力列数を記録する
// nil の場合は何もしない
type metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	columns  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "featprep",
			Name:      "operations_total",
			Help:      "Preprocessor operations by name and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "featprep",
			Name:      "operation_duration_seconds",
			Help:      "Preprocessor operation latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"operation"}),
		columns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "featprep",
			Name:      "output_columns",
			Help:      "Number of columns in the fitted output layout.",
		}),
	}

	var err error
	if m.calls, err = register(reg, m.calls); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.columns, err = register(reg, m.columns); err != nil {
		return nil, err
	}
	return m, nil
}

// register reuses an already registered collector so several Preprocessors
// can share one registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "failed to register metrics")
	}
	return c, nil
}

func (m *metrics) observe(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.calls.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *metrics) setColumns(n int) {
	if m == nil {
		return
	}
	m.columns.Set(float64(n))
}
