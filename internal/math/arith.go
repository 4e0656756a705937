// Modular arithmetic over bigint.Int shared by the RSA and Paillier schemes. All functions are stateless and
// non-constant time. Intermediate products are bounded by modulus^2, so any modulus below 2^128 is safe; larger moduli
// may fail with an error wrapping bigint.ErrOverflow, but never produce a wrong result.

package math

import (
	"errors"
	"fmt"

	"github.com/smartcontractkit/phe/internal/bigint"
)

var (
	// ErrNoInverse is returned if a modular inverse is requested for a value that is not coprime to the modulus.
	ErrNoInverse = errors.New("modular inverse does not exist")

	// ErrDomain is returned if an operand is outside of the range an operation is defined for.
	ErrDomain = errors.New("operand out of domain")
)

// ModPow returns base^exponent mod modulus, computed by binary (square-and-multiply) exponentiation. The modulus must
// be positive and the exponent must be non-negative, otherwise an error wrapping ErrDomain is returned. Negative bases
// are reduced into [0, modulus) first. The result is in [0, modulus), so ModPow(x, 0, 1) is 0.
func ModPow(base, exponent, modulus bigint.Int) (bigint.Int, error) {
	if modulus.Sign() <= 0 {
		return bigint.Int{}, fmt.Errorf("%w: modulus %s must be positive", ErrDomain, modulus)
	}
	if exponent.Sign() < 0 {
		return bigint.Int{}, fmt.Errorf("%w: negative exponent %s", ErrDomain, exponent)
	}
	return bigint.Checked(func() bigint.Int { return modPow(base, exponent, modulus) })
}

func modPow(base, exponent, modulus bigint.Int) bigint.Int {
	if modulus.IsOne() {
		return bigint.Zero
	}

	result := bigint.One
	base = base.Mod(modulus)
	for i := 0; i < exponent.BitLen(); i++ {
		if exponent.Bit(i) == 1 {
			result = result.Mul(base).Mod(modulus)
		}
		base = base.Mul(base).Mod(modulus)
	}
	return result
}

// ModInverse returns x in [0, modulus) such that a*x = 1 (mod modulus), computed with the extended Euclidean algorithm.
// Returns an error wrapping ErrNoInverse if gcd(a, modulus) != 1, and an error wrapping ErrDomain if the modulus is
// not positive. Negative values of a are reduced into [0, modulus) first. For modulus 1 the result is 0.
func ModInverse(a, modulus bigint.Int) (bigint.Int, error) {
	if modulus.Sign() <= 0 {
		return bigint.Int{}, fmt.Errorf("%w: modulus %s must be positive", ErrDomain, modulus)
	}

	invertible := false
	inverse, err := bigint.Checked(func() bigint.Int {
		var x bigint.Int
		x, invertible = modInverse(a, modulus)
		return x
	})
	if err != nil {
		return bigint.Int{}, err
	}
	if !invertible {
		return bigint.Int{}, fmt.Errorf("%w: gcd(%s, %s) = %s", ErrNoInverse, a, modulus, GCD(a, modulus))
	}
	return inverse, nil
}

func modInverse(a, modulus bigint.Int) (bigint.Int, bool) {
	if modulus.IsOne() {
		return bigint.Zero, true
	}

	// Invariant: oldR = oldS*a (mod modulus) and r = s*a (mod modulus).
	oldR, r := a.Mod(modulus), modulus
	oldS, s := bigint.One, bigint.Zero
	for !r.IsZero() {
		q := oldR.Quo(r)
		oldR, r = r, oldR.Sub(q.Mul(r))
		oldS, s = s, oldS.Sub(q.Mul(s))
	}

	// oldR is now gcd(a, modulus)
	if !oldR.IsOne() {
		return bigint.Int{}, false
	}
	return oldS.Mod(modulus), true
}

// GCD returns the greatest common divisor of |a| and |b|, with GCD(a, 0) = |a|.
func GCD(a, b bigint.Int) bigint.Int {
	a, b = a.Abs(), b.Abs()
	if b.IsZero() {
		return a
	}
	return GCD(b, a.Rem(b))
}

// MulMod returns (a * b) mod modulus, in [0, modulus). The modulus must be positive.
func MulMod(a, b, modulus bigint.Int) (bigint.Int, error) {
	if modulus.Sign() <= 0 {
		return bigint.Int{}, fmt.Errorf("%w: modulus %s must be positive", ErrDomain, modulus)
	}
	return bigint.Checked(func() bigint.Int { return a.Mul(b).Mod(modulus) })
}
