package math

import (
	"filippo.io/bigmod"

	"github.com/smartcontractkit/phe/internal/bigint"
)

// Witness bases for Miller-Rabin. The first thirteen are a deterministic witness set for every x below 3.3 * 10^24;
// above that the error probability is at most 4^-20.
var smallPrimes = []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71}

// IsPrime reports whether x is prime. Small factors are found by trial division; everything else runs Miller-Rabin
// over a bigmod modulus, so the cost grows with the bit length of x, not its value.
func IsPrime(x bigint.Int) bool {
	if x.Cmp(bigint.Two) < 0 {
		return false
	}
	for _, p := range smallPrimes {
		if x.Equal(bigint.NewUint64(p)) {
			return true
		}
		if x.Rem(bigint.NewUint64(p)).IsZero() {
			return false
		}
	}
	largest := bigint.NewUint64(smallPrimes[len(smallPrimes)-1])
	if x.Cmp(largest.Mul(largest)) < 0 {
		return true
	}

	m, err := NewModulus(x)
	if err != nil {
		return false
	}

	// x-1 = d * 2^s with d odd
	d, s := x.Sub(bigint.One), 0
	for !d.IsOdd() {
		d, s = d.Quo(bigint.Two), s+1
	}
	for _, p := range smallPrimes {
		if !millerRabinRound(m, p, d.Bytes(), s) {
			return false
		}
	}
	return true
}

// millerRabinRound reports whether x = d * 2^s + 1 passes one round with the given witness.
func millerRabinRound(m *Modulus, witness uint64, d []byte, s int) bool {
	a, err := bigmod.NewNat().SetBytes(bigint.NewUint64(witness).Bytes(), &m.value)
	if err != nil {
		return false
	}
	z := bigmod.NewNat().Exp(a, d, &m.value)
	if z.IsOne() == 1 || z.IsMinusOne(&m.value) == 1 {
		return true
	}
	for range s - 1 {
		z.Mul(z, &m.value)
		if z.IsMinusOne(&m.value) == 1 {
			return true
		}
		if z.IsOne() == 1 {
			return false
		}
	}
	return false
}
