package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "phe"

// Scheme operation labels.
const (
	OpEncrypt = "encrypt"
	OpDecrypt = "decrypt"
	OpCombine = "combine"
)

// Metrics counts scheme operations and the outcome of homomorphic checks. A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	checks     *prometheus.CounterVec
}

// New creates the counters and registers them with reg. Collectors that are already registered with reg (e.g. by a
// previous session) are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheme",
			Name:      "operations_total",
			Help:      "number of scheme operations, by scheme and operation",
		},
		[]string{"scheme", "op"},
	)
	checks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "homomorphic",
			Name:      "checks_total",
			Help:      "number of homomorphic property checks, by scheme and result",
		},
		[]string{"scheme", "result"},
	)

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if checks, err = register(reg, checks); err != nil {
		return nil, err
	}
	return &Metrics{operations, checks}, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return c, nil
}

func (m *Metrics) ObserveOperation(scheme, op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(scheme, op).Inc()
}

func (m *Metrics) ObserveCheck(scheme string, verified bool) {
	if m == nil {
		return
	}
	result := "failed"
	if verified {
		result = "verified"
	}
	m.checks.WithLabelValues(scheme, result).Inc()
}
