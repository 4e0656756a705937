package testimplementations

import "github.com/prometheus/client_golang/prometheus"

// NoopMetricsRegisterer accepts every collector without exposing it anywhere.
type NoopMetricsRegisterer struct{}

var _ prometheus.Registerer = NoopMetricsRegisterer{}

func (NoopMetricsRegisterer) Register(collector prometheus.Collector) error {
	return nil
}

func (NoopMetricsRegisterer) MustRegister(collectors ...prometheus.Collector) {}

func (NoopMetricsRegisterer) Unregister(collector prometheus.Collector) bool {
	return true
}
