package testhelpers

import (
	"io"
	"testing"

	"github.com/smartcontractkit/phe/internal/bigint"
	"github.com/smartcontractkit/phe/paillier"
	"github.com/smartcontractkit/phe/rsa"
	"github.com/stretchr/testify/require"
)

// Primes used throughout the tests, matching the defaults of the demo.
var (
	RSAPrimeP      = bigint.New(10000019)
	RSAPrimeQ      = bigint.New(10000079)
	RSAExponent    = bigint.New(10000103)
	PaillierPrimeP = bigint.New(10007)
	PaillierPrimeQ = bigint.New(10009)
)

func NewRSAScheme(t *testing.T) *rsa.Scheme {
	s, err := rsa.NewScheme(RSAPrimeP, RSAPrimeQ, RSAExponent)
	require.NoError(t, err)
	return s
}

func NewPaillierScheme(t *testing.T, rand io.Reader) *paillier.Scheme {
	s, err := paillier.NewScheme(PaillierPrimeP, PaillierPrimeQ, paillier.WithRand(rand))
	require.NoError(t, err)
	return s
}

// ParseAll parses the given decimal strings, failing the test on malformed input.
func ParseAll(t *testing.T, values ...string) []bigint.Int {
	result := make([]bigint.Int, len(values))
	for i, v := range values {
		x, err := bigint.Parse(v)
		require.NoError(t, err)
		result[i] = x
	}
	return result
}
