package rsa

import "github.com/smartcontractkit/phe/internal/logger"

// Option configures a Scheme created via NewScheme.
type Option func(*options)

type options struct {
	lggr logger.Logger
}

func newOptions(opts []Option) options {
	o := options{lggr: logger.NewNullLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
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
