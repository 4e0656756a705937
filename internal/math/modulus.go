package math

import (
	"fmt"

	"filippo.io/bigmod"
	"github.com/smartcontractkit/phe/internal/bigint"
)

// Modulus is a positive integer greater than one, prepared for use with the filippo.io/bigmod package. It is used to
// reduce random byte strings into [0, n) and is immutable after initialization.
type Modulus struct {
	value bigmod.Modulus
	n     bigint.Int
}

// NewModulus initializes a new modulus for the given value n, which must be greater than one.
func NewModulus(n bigint.Int) (*Modulus, error) {
	if n.Cmp(bigint.One) <= 0 {
		return nil, fmt.Errorf("%w: modulus %s must be greater than one", ErrDomain, n)
	}
	m, err := bigmod.NewModulus(n.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize modulus %s: %w", n, err)
	}
	return &Modulus{*m, n}, nil
}

// Non-constant time function, to be used for testing purposes and initialization only.
// Panics on invalid input; value must represent a natural number greater than one.
func MustNewModulus(value string) *Modulus {
	m, err := NewModulus(bigint.MustParse(value))
	if err != nil {
		panic("invalid modulus value: " + value + ", error: " + err.Error())
	}
	return m
}

func (m *Modulus) Equal(other *Modulus) bool {
	return m == other || m.n.Equal(other.n)
}

// Size returns the size of the modulus in bytes.
func (m *Modulus) Size() int {
	return (&m.value).Size()
}

// Int returns the value of the modulus.
func (m *Modulus) Int() bigint.Int {
	return m.n
}

func (m *Modulus) String() string {
	return m.n.String()
}
