package paillier

import (
	"crypto/rand"
	"io"

	"github.com/smartcontractkit/phe/internal/logger"
)

// Option configures a Scheme created via NewScheme.
type Option func(*options)

type options struct {
	rand io.Reader
	lggr logger.Logger
}

func newOptions(opts []Option) options {
	o := options{rand: rand.Reader, lggr: logger.NewNullLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRand sets the source of randomness for blinding factors. Defaults to crypto/rand.Reader.
func WithRand(rand io.Reader) Option {
	return func(o *options) {
		if rand != nil {
			o.rand = rand
		}
	}
}

// WithLogger sets the logger used for key derivation and homomorphic operations. Defaults to a logger discarding
// all output.
func WithLogger(lggr logger.Logger) Option {
	return func(o *options) {
		if lggr != nil {
			o.lggr = lggr
		}
	}
}
