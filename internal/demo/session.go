package demo

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/smartcontractkit/phe/internal/bigint"
	"github.com/smartcontractkit/phe/internal/logger"
	"github.com/smartcontractkit/phe/internal/math"
	"github.com/smartcontractkit/phe/internal/metrics"
	"github.com/smartcontractkit/phe/paillier"
	"github.com/smartcontractkit/phe/rsa"
)

const (
	schemeRSA      = "rsa"
	schemePaillier = "paillier"
)

// ErrConfig is returned by NewSession if the configured key parameters are rejected.
var ErrConfig = errors.New("invalid session configuration")

type RSAConfig struct {
	P, Q, E bigint.Int
}

type PaillierConfig struct {
	P, Q bigint.Int
}

type Config struct {
	RSA      RSAConfig
	Paillier PaillierConfig

	// Source of randomness for Paillier blinding factors; crypto/rand.Reader if nil.
	Rand io.Reader

	// If set, non-prime or equal p and q are rejected before deriving any keys.
	ValidatePrimes bool
}

// DefaultConfig returns the key parameters the demo runs with unless configured otherwise.
func DefaultConfig() Config {
	return Config{
		RSA: RSAConfig{
			P: bigint.New(10000019),
			Q: bigint.New(10000079),
			E: bigint.New(10000103),
		},
		Paillier: PaillierConfig{
			P: bigint.New(10007),
			Q: bigint.New(10009),
		},
		Rand:           rand.Reader,
		ValidatePrimes: true,
	}
}

// Session runs the homomorphic checks of both schemes, using a fixed pair of keys.
type Session struct {
	rsa      *rsa.Scheme
	paillier *paillier.Scheme
	lggr     logger.Logger
	metrics  *metrics.Metrics
}

// NewSession derives the RSA and Paillier keys from cfg. Both lggr and m may be nil.
func NewSession(cfg Config, lggr logger.Logger, m *metrics.Metrics) (*Session, error) {
	if lggr == nil {
		lggr = logger.NewNullLogger()
	}

	if cfg.ValidatePrimes {
		if err := validatePrimes(schemeRSA, cfg.RSA.P, cfg.RSA.Q, rsa.MaxModulusBits); err != nil {
			return nil, err
		}
		if err := validatePrimes(schemePaillier, cfg.Paillier.P, cfg.Paillier.Q, paillier.MaxModulusBits); err != nil {
			return nil, err
		}
	}

	rsaScheme, err := rsa.NewScheme(cfg.RSA.P, cfg.RSA.Q, cfg.RSA.E, rsa.WithLogger(lggr))
	if err != nil {
		return nil, err
	}
	paillierScheme, err := paillier.NewScheme(cfg.Paillier.P, cfg.Paillier.Q,
		paillier.WithRand(cfg.Rand), paillier.WithLogger(lggr))
	if err != nil {
		return nil, err
	}

	lggr.Info("session ready", logger.Fields{
		"rsaModulus":      rsaScheme.PublicKey().N.String(),
		"paillierModulus": paillierScheme.PublicKey().N.String(),
	})
	return &Session{rsaScheme, paillierScheme, lggr, m}, nil
}

// validatePrimes checks the size of p*q before primality, so oversized parameters are rejected without testing them.
func validatePrimes(scheme string, p, q bigint.Int, maxBits int) error {
	n, err := bigint.Checked(func() bigint.Int { return p.Mul(q) })
	if err != nil || n.BitLen() > maxBits {
		return fmt.Errorf("%w: %s: modulus %s * %s exceeds %d bits", ErrConfig, scheme, p, q, maxBits)
	}
	for _, x := range []bigint.Int{p, q} {
		if !math.IsPrime(x) {
			return fmt.Errorf("%w: %s: %s is not prime", ErrConfig, scheme, x)
		}
	}
	if p.Equal(q) {
		return fmt.Errorf("%w: %s: p and q must be distinct", ErrConfig, scheme)
	}
	return nil
}

func (s *Session) RSA() *rsa.Scheme {
	return s.rsa
}

func (s *Session) Paillier() *paillier.Scheme {
	return s.paillier
}

// PaillierAddition encrypts each of the given signed decimal values, adds them homomorphically and checks that the
// decrypted result equals the sum of the values.
func (s *Session) PaillierAddition(values []string) (*AdditionReport, error) {
	report := &AdditionReport{}
	for _, text := range values {
		v, err := bigint.Parse(text)
		if err != nil {
			return nil, err
		}
		m, err := s.paillier.Encode(v)
		if err != nil {
			return nil, err
		}
		c, err := s.paillier.Encrypt(m)
		if err != nil {
			return nil, err
		}
		s.metrics.ObserveOperation(schemePaillier, metrics.OpEncrypt)

		report.Values = append(report.Values, v)
		report.Ciphertexts = append(report.Ciphertexts, c)
	}

	sum, err := s.paillier.Add(report.Ciphertexts...)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveOperation(schemePaillier, metrics.OpCombine)

	m, err := s.paillier.Decrypt(sum)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveOperation(schemePaillier, metrics.OpDecrypt)
	decrypted, err := s.paillier.Decode(m)
	if err != nil {
		return nil, err
	}

	expected, err := bigint.Checked(func() bigint.Int {
		total := bigint.Zero
		for _, v := range report.Values {
			total = total.Add(v)
		}
		return total
	})
	if err != nil {
		return nil, err
	}

	report.Sum = sum
	report.Decrypted = decrypted
	report.Expected = expected
	report.Verified = decrypted.Equal(expected)
	s.observeCheck(schemePaillier, report.Verified, logger.Fields{
		"count":     len(values),
		"decrypted": decrypted.String(),
		"expected":  expected.String(),
	})
	return report, nil
}

// RSAMultiplication encrypts a and b, multiplies the ciphertexts and checks that the decrypted result equals
// a * b mod n.
func (s *Session) RSAMultiplication(a, b string) (*MultiplicationReport, error) {
	operands := [2]bigint.Int{}
	ciphertexts := [2]bigint.Int{}
	for i, text := range []string{a, b} {
		v, err := bigint.Parse(text)
		if err != nil {
			return nil, err
		}
		c, err := s.rsa.Encrypt(v)
		if err != nil {
			return nil, err
		}
		s.metrics.ObserveOperation(schemeRSA, metrics.OpEncrypt)
		operands[i], ciphertexts[i] = v, c
	}

	product, err := s.rsa.Multiply(ciphertexts[:]...)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveOperation(schemeRSA, metrics.OpCombine)

	decrypted, err := s.rsa.Decrypt(product)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveOperation(schemeRSA, metrics.OpDecrypt)

	expected, err := math.MulMod(operands[0], operands[1], s.rsa.PublicKey().N)
	if err != nil {
		return nil, err
	}

	report := &MultiplicationReport{
		Operands:    operands,
		Ciphertexts: ciphertexts,
		Product:     product,
		Decrypted:   decrypted,
		Expected:    expected,
		Verified:    decrypted.Equal(expected),
	}
	s.observeCheck(schemeRSA, report.Verified, logger.Fields{
		"decrypted": decrypted.String(),
		"expected":  expected.String(),
	})
	return report, nil
}

func (s *Session) observeCheck(scheme string, verified bool, fields logger.Fields) {
	s.metrics.ObserveCheck(scheme, verified)
	fields["scheme"] = scheme
	fields["verified"] = verified
	if verified {
		s.lggr.Info("homomorphic property verified", fields)
	} else {
		s.lggr.Warn("homomorphic property violated", fields)
	}
}
