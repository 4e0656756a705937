package paillier

import (
	"fmt"

	"github.com/smartcontractkit/phe/internal/bigint"
	"github.com/smartcontractkit/phe/internal/math"
)

// EncodeSigned maps v to v mod n in [0, n), so negative values -k become n - k.
func EncodeSigned(v, n bigint.Int) (bigint.Int, error) {
	if n.Sign() <= 0 {
		return bigint.Int{}, fmt.Errorf("%w: modulus %s must be positive", math.ErrDomain, n)
	}
	return v.Mod(n), nil
}

// DecodeSigned is the inverse of EncodeSigned on (-n/2, n/2]: values v > n/2 are mapped to v - n.
func DecodeSigned(v, n bigint.Int) (bigint.Int, error) {
	if n.Sign() <= 0 {
		return bigint.Int{}, fmt.Errorf("%w: modulus %s must be positive", math.ErrDomain, n)
	}
	if v.Sign() < 0 || v.Cmp(n) >= 0 {
		return bigint.Int{}, fmt.Errorf("%w: encoded value %s not in [0, %s)", math.ErrDomain, v, n)
	}
	if v.Cmp(n.Quo(bigint.Two)) > 0 {
		return v.Sub(n), nil
	}
	return v, nil
}
