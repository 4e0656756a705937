package math

import (
	"errors"
	"fmt"
	"io"

	"filippo.io/bigmod"
	"github.com/smartcontractkit/phe/internal/bigint"
)

// ErrSampling is returned if no suitable random value could be drawn from the provided source of randomness.
var ErrSampling = errors.New("failed to sample random value")

// Upper bound on rejected candidates in RandomCoprime. For a modulus n = p*q the probability to reject a uniformly
// drawn candidate is (p+q-1)/n, so hitting this bound indicates a broken random source rather than bad luck.
const maxSamplingAttempts = 1024

// SampleSize returns the number of bytes RandomInt reads from its source for a single draw modulo m. This is 128 bits
// (16 bytes) more than the size of the modulus.
func SampleSize(m *Modulus) int {
	return m.Size() + 16
}

// RandomInt returns a random value that is statistically close to uniformly distributed in {0, 1, ... m - 1}. The
// implementation reads exactly SampleSize(m) bytes from rand, and the same value is deterministically derived from the
// same input bytes.
func RandomInt(rand io.Reader, m *Modulus) (bigint.Int, error) {
	rngBytes := make([]byte, SampleSize(m))
	if _, err := io.ReadFull(rand, rngBytes); err != nil {
		return bigint.Int{}, fmt.Errorf("%w: failed to read randomness: %w", ErrSampling, err)
	}

	// Build a modulus that is larger than rngBytes (when interpreted as big-endian number).
	largeModBytes := make([]byte, len(rngBytes)+1)
	largeModBytes[0] = 1
	largeMod, err := bigmod.NewModulus(largeModBytes)
	if err != nil {
		return bigint.Int{}, err
	}

	// Convert the random bytes into a Nat (mod largeMod), the value fits and no modulus reduction is needed.
	t := bigmod.NewNat()
	if _, err := t.SetBytes(rngBytes, largeMod); err != nil {
		return bigint.Int{}, err
	}

	// Finally, reduce the value modulo m.
	v := bigmod.NewNat().ExpandFor(&m.value)
	v.Mod(t, &m.value)
	return bigint.FromBytes(v.Bytes(&m.value))
}

// RandomCoprime draws r uniformly from [1, m-1] subject to gcd(r, m) = 1, by rejection sampling: candidates that are
// zero or share a factor with m are discarded and redrawn.
func RandomCoprime(rand io.Reader, m *Modulus) (bigint.Int, error) {
	n := m.Int()
	for range maxSamplingAttempts {
		r, err := RandomInt(rand, m)
		if err != nil {
			return bigint.Int{}, err
		}
		if !r.IsZero() && GCD(r, n).IsOne() {
			return r, nil
		}
	}
	return bigint.Int{}, fmt.Errorf("%w: no value coprime to %s after %d draws", ErrSampling, n, maxSamplingAttempts)
}
