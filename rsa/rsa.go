// Package rsa implements textbook RSA over small, caller-provided primes, exposing its multiplicative homomorphism:
// the product of two ciphertexts decrypts to the product of the plaintexts (mod n).
//
// No padding is applied and nothing about this package is secure. It exists to demonstrate the homomorphic
// property.
package rsa

import (
	"errors"
	"fmt"

	"github.com/smartcontractkit/phe/internal/bigint"
	"github.com/smartcontractkit/phe/internal/logger"
	"github.com/smartcontractkit/phe/internal/math"
)

// ErrKeyGen is returned if no key pair can be derived from the given parameters.
var ErrKeyGen = errors.New("rsa: key generation failed")

// Moduli are limited to 128 bits, so that the product of two residues always fits into a bigint.Int.
const MaxModulusBits = 128

type PublicKey struct {
	N bigint.Int // modulus p*q
	E bigint.Int // public exponent
}

type PrivateKey struct {
	PublicKey
	D bigint.Int // private exponent, e^-1 mod (p-1)(q-1)
}

// Implement Stringer and GoStringer interfaces to ensure that the private exponent is never accidentally logged.
func (sk PrivateKey) String() string {
	return sk.GoString()
}

func (sk PrivateKey) GoString() string {
	return fmt.Sprintf("rsa.PrivateKey{N: %s, E: %s}", sk.N, sk.E)
}

// Encrypt returns m^e mod n. Values m >= n are reduced modulo n first, so they alias smaller plaintexts. Negative
// plaintexts are rejected with an error wrapping math.ErrDomain.
func (pk PublicKey) Encrypt(m bigint.Int) (bigint.Int, error) {
	if m.Sign() < 0 {
		return bigint.Int{}, fmt.Errorf("%w: negative plaintext %s", math.ErrDomain, m)
	}
	return math.ModPow(m, pk.E, pk.N)
}

// Multiply combines ciphertexts such that the result decrypts to the product of their plaintexts (mod n). Without
// arguments the result is 1, the encryption of 1.
func (pk PublicKey) Multiply(ciphertexts ...bigint.Int) (bigint.Int, error) {
	result := bigint.One
	for _, c := range ciphertexts {
		if c.Sign() < 0 {
			return bigint.Int{}, fmt.Errorf("%w: negative ciphertext %s", math.ErrDomain, c)
		}
		var err error
		if result, err = math.MulMod(result, c, pk.N); err != nil {
			return bigint.Int{}, err
		}
	}
	return result.Mod(pk.N), nil
}

// Decrypt returns c^d mod n.
func (sk PrivateKey) Decrypt(c bigint.Int) (bigint.Int, error) {
	if c.Sign() < 0 {
		return bigint.Int{}, fmt.Errorf("%w: negative ciphertext %s", math.ErrDomain, c)
	}
	return math.ModPow(c, sk.D, sk.N)
}

// Scheme holds an RSA key pair. It is immutable once created.
type Scheme struct {
	sk   PrivateKey
	lggr logger.Logger
}

// NewScheme derives a key pair from the primes p and q and the public exponent e: n = p*q, d = e^-1 mod (p-1)(q-1).
// Primality of p and q is not checked; the caller is responsible for passing primes. Any failure is reported as an
// error wrapping ErrKeyGen (and math.ErrNoInverse if e is not invertible).
func NewScheme(p, q, e bigint.Int, opts ...Option) (*Scheme, error) {
	o := newOptions(opts)

	if p.Cmp(bigint.One) <= 0 || q.Cmp(bigint.One) <= 0 {
		return nil, fmt.Errorf("%w: primes must be greater than 1, got p=%s q=%s", ErrKeyGen, p, q)
	}
	if e.Cmp(bigint.One) <= 0 {
		return nil, fmt.Errorf("%w: public exponent must be greater than 1, got %s", ErrKeyGen, e)
	}

	n, err := bigint.Checked(func() bigint.Int { return p.Mul(q) })
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGen, err)
	}
	if n.BitLen() > MaxModulusBits {
		return nil, fmt.Errorf("%w: modulus of %d bits exceeds %d bits", ErrKeyGen, n.BitLen(), MaxModulusBits)
	}

	phi := p.Sub(bigint.One).Mul(q.Sub(bigint.One))
	d, err := math.ModInverse(e, phi)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid public exponent: %w", ErrKeyGen, err)
	}

	o.lggr.Debug("derived RSA key pair", logger.Fields{"modulusBits": n.BitLen(), "e": e.String()})
	return &Scheme{PrivateKey{PublicKey{n, e}, d}, o.lggr}, nil
}

func (s *Scheme) PublicKey() PublicKey {
	return s.sk.PublicKey
}

func (s *Scheme) PrivateKey() PrivateKey {
	return s.sk
}

func (s *Scheme) Encrypt(m bigint.Int) (bigint.Int, error) {
	return s.sk.Encrypt(m)
}

func (s *Scheme) Decrypt(c bigint.Int) (bigint.Int, error) {
	return s.sk.Decrypt(c)
}

func (s *Scheme) Multiply(ciphertexts ...bigint.Int) (bigint.Int, error) {
	result, err := s.sk.Multiply(ciphertexts...)
	if err != nil {
		return bigint.Int{}, err
	}
	s.lggr.Trace("multiplied ciphertexts", logger.Fields{"count": len(ciphertexts), "result": result.String()})
	return result, nil
}
