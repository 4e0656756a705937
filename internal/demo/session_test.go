package demo

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartcontractkit/phe/internal/bigint"
	"github.com/smartcontractkit/phe/internal/math"
	"github.com/smartcontractkit/phe/internal/metrics"
	"github.com/smartcontractkit/phe/internal/testimplementations/testhelpers"
	"github.com/smartcontractkit/phe/internal/testimplementations/unsaferand"
	"github.com/smartcontractkit/phe/paillier"
	"github.com/smartcontractkit/phe/rsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blindingFactors returns a random source that makes the default Paillier key use the given blinding factors.
func blindingFactors(rs ...uint64) io.Reader {
	m, _ := math.NewModulus(testhelpers.PaillierPrimeP.Mul(testhelpers.PaillierPrimeQ))
	return unsaferand.NewSequence(math.SampleSize(m), rs...)
}

func newSession(t *testing.T, rand io.Reader) *Session {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Rand = rand
	s, err := NewSession(cfg, nil, nil)
	require.NoError(t, err)
	return s
}

func TestPaillierAddition(t *testing.T) {
	s := newSession(t, blindingFactors(2, 3, 5))

	report, err := s.PaillierAddition([]string{"5", "-3", "10"})
	require.NoError(t, err)
	assert.Equal(t, testhelpers.ParseAll(t, "5", "-3", "10"), report.Values)
	assert.Equal(t, testhelpers.ParseAll(t, "4825407373826030", "6030045313844373", "5180132265356607"), report.Ciphertexts)
	assert.Equal(t, bigint.MustParse("1850349808936056"), report.Sum)
	assert.Equal(t, bigint.New(12), report.Decrypted)
	assert.Equal(t, bigint.New(12), report.Expected)
	assert.True(t, report.Verified)

	// the ciphertexts decrypt to the encoded inputs under an independently derived key
	independent := testhelpers.NewPaillierScheme(t, nil)
	for i, c := range report.Ciphertexts {
		m, err := independent.Decrypt(c)
		require.NoError(t, err)
		want, err := independent.Encode(report.Values[i])
		require.NoError(t, err)
		assert.Equal(t, want, m)
	}
}

func TestPaillierAdditionRandomBlinding(t *testing.T) {
	s := newSession(t, unsaferand.New(t.Name()))

	report, err := s.PaillierAddition([]string{"-100", "+42", "0007", "-1"})
	require.NoError(t, err)
	assert.Equal(t, bigint.New(-52), report.Decrypted)
	assert.True(t, report.Verified)
}

func TestPaillierAdditionEmpty(t *testing.T) {
	s := newSession(t, unsaferand.New(t.Name()))

	report, err := s.PaillierAddition(nil)
	require.NoError(t, err)
	assert.Equal(t, bigint.One, report.Sum)
	assert.True(t, report.Decrypted.IsZero())
	assert.True(t, report.Verified)
}

func TestPaillierAdditionWrapsAround(t *testing.T) {
	s := newSession(t, unsaferand.New(t.Name()))

	// 120000000 is beyond n/2 and decodes to 120000000 - n
	report, err := s.PaillierAddition([]string{"60000000", "60000000"})
	require.NoError(t, err)
	assert.Equal(t, bigint.New(120000000-100160063), report.Decrypted)
	assert.Equal(t, bigint.New(120000000), report.Expected)
	assert.False(t, report.Verified)
}

func TestPaillierAdditionMalformedInput(t *testing.T) {
	s := newSession(t, unsaferand.New(t.Name()))

	_, err := s.PaillierAddition([]string{"5", "five"})
	require.ErrorIs(t, err, bigint.ErrFormat)
}

func TestRSAMultiplication(t *testing.T) {
	s := newSession(t, nil)

	report, err := s.RSAMultiplication("7", "9")
	require.NoError(t, err)
	assert.Equal(t, [2]bigint.Int{bigint.New(7), bigint.New(9)}, report.Operands)
	assert.Equal(t, [2]bigint.Int{bigint.MustParse("47459279912193"), bigint.MustParse("28436377243342")}, report.Ciphertexts)
	assert.Equal(t, bigint.MustParse("62571942194467"), report.Product)
	assert.Equal(t, bigint.New(63), report.Decrypted)
	assert.Equal(t, bigint.New(63), report.Expected)
	assert.True(t, report.Verified)

	independent := testhelpers.NewRSAScheme(t)
	m, err := independent.Decrypt(report.Product)
	require.NoError(t, err)
	assert.Equal(t, bigint.New(63), m)
}

func TestRSAMultiplicationReducesModN(t *testing.T) {
	s := newSession(t, nil)

	// 12345678 * 87654321 exceeds n = 100000980001501
	report, err := s.RSAMultiplication("12345678", "87654321")
	require.NoError(t, err)
	assert.Equal(t, bigint.MustParse("82142222359628"), report.Expected)
	assert.Equal(t, report.Expected, report.Decrypted)
	assert.True(t, report.Verified)
}

func TestRSAMultiplicationErrors(t *testing.T) {
	s := newSession(t, nil)

	_, err := s.RSAMultiplication("-7", "9")
	require.ErrorIs(t, err, math.ErrDomain)

	_, err = s.RSAMultiplication("7", "")
	require.ErrorIs(t, err, bigint.ErrFormat)
}

func TestNewSessionValidatesPrimes(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"composite RSA prime", func(c *Config) { c.RSA.P = bigint.New(10001) }},
		{"composite Paillier prime", func(c *Config) { c.Paillier.Q = bigint.New(10011) }},
		{"equal RSA primes", func(c *Config) { c.RSA.Q = c.RSA.P }},
		{"equal Paillier primes", func(c *Config) { c.Paillier.P = c.Paillier.Q }},
		{"oversized RSA modulus", func(c *Config) { c.RSA.P = bigint.MustParse("170141183460469231731687303715884105727") }},
		{"oversized Paillier modulus", func(c *Config) { c.Paillier.P = bigint.MustParse("2305843009213693951") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			_, err := NewSession(cfg, nil, nil)
			require.ErrorIs(t, err, ErrConfig)

			// without validation only the scheme's own checks apply
			cfg.ValidatePrimes = false
			_, err = NewSession(cfg, nil, nil)
			require.NotErrorIs(t, err, ErrConfig)
		})
	}
}

func TestNewSessionLargePrimes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RSA.P = bigint.MustParse("18446744073709551557")
	cfg.RSA.Q = bigint.MustParse("2305843009213693951")

	reports := make(chan *MultiplicationReport, 1)
	go func() {
		s, err := NewSession(cfg, nil, nil)
		if !assert.NoError(t, err) {
			reports <- nil
			return
		}
		report, err := s.RSAMultiplication("12345678", "87654321")
		assert.NoError(t, err)
		reports <- report
	}()
	select {
	case report := <-reports:
		require.NotNil(t, report)
		assert.True(t, report.Verified)
		assert.Equal(t, bigint.New(12345678*87654321), report.Decrypted)
	case <-time.After(10 * time.Second):
		t.Fatal("NewSession did not return for 64-bit primes")
	}

	// a product that does not fit 256 bits is rejected before any primality test
	cfg.RSA.P = bigint.MustParse("57896044618658097711785492504343953926634992332820282019728792003956564819949")
	start := time.Now()
	_, err := NewSession(cfg, nil, nil)
	require.ErrorIs(t, err, ErrConfig)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewSessionKeyGenErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RSA.E = bigint.Two // (p-1)(q-1) is even
	_, err := NewSession(cfg, nil, nil)
	require.ErrorIs(t, err, rsa.ErrKeyGen)

	cfg = DefaultConfig()
	cfg.ValidatePrimes = false
	cfg.Paillier.P, cfg.Paillier.Q = bigint.New(3), bigint.New(7)
	_, err = NewSession(cfg, nil, nil)
	require.ErrorIs(t, err, paillier.ErrKeyGen)
}

func TestSessionMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Rand = unsaferand.New(t.Name())
	s, err := NewSession(cfg, nil, m)
	require.NoError(t, err)

	_, err = s.PaillierAddition([]string{"1", "2", "3"})
	require.NoError(t, err)
	_, err = s.PaillierAddition([]string{"60000000", "60000000"})
	require.NoError(t, err)
	_, err = s.RSAMultiplication("7", "9")
	require.NoError(t, err)

	expected := `
# HELP phe_homomorphic_checks_total number of homomorphic property checks, by scheme and result
# TYPE phe_homomorphic_checks_total counter
phe_homomorphic_checks_total{result="failed",scheme="paillier"} 1
phe_homomorphic_checks_total{result="verified",scheme="paillier"} 1
phe_homomorphic_checks_total{result="verified",scheme="rsa"} 1
# HELP phe_scheme_operations_total number of scheme operations, by scheme and operation
# TYPE phe_scheme_operations_total counter
phe_scheme_operations_total{op="combine",scheme="paillier"} 2
phe_scheme_operations_total{op="combine",scheme="rsa"} 1
phe_scheme_operations_total{op="decrypt",scheme="paillier"} 2
phe_scheme_operations_total{op="decrypt",scheme="rsa"} 1
phe_scheme_operations_total{op="encrypt",scheme="paillier"} 5
phe_scheme_operations_total{op="encrypt",scheme="rsa"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}
