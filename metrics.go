package multistorage

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	ops  *prometheus.CounterVec
	blob *prometheus.GaugeVec
}

// WithMetrics registers operation counters and a blob size gauge with reg.
// Collectors already registered by another store are reused.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) {
		if reg == nil {
			return
		}
		s.metrics = &metrics{
			ops: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "multistorage_operations_total",
				Help: "Number of store operations by operation and result.",
			}, []string{"op", "result"})),
			blob: register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Name: "multistorage_blob_bytes",
				Help: "Size of the last blob written under each main key.",
			}, []string{"main_key"})),
		}
	}
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		// unusable registry; keep counting into the unregistered collector
	}
	return c
}

func (m *metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, ErrSerialization):
		result = "serialization_error"
	default:
		result = "error"
	}
	m.ops.WithLabelValues(op, result).Inc()
}

func (m *metrics) blobSize(mainKey string, n int) {
	if m == nil {
		return
	}
	m.blob.WithLabelValues(mainKey).Set(float64(n))
}
