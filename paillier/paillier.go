// Package paillier implements the Paillier cryptosystem with g = n + 1 over small, caller-provided primes. Paillier
// is additively homomorphic: the product of ciphertexts decrypts to the sum of the plaintexts (mod n).
//
// Plaintexts are residues mod n. Signed values are mapped into that range via EncodeSigned and DecodeSigned.
package paillier

import (
	"errors"
	"fmt"
	"io"

	"github.com/smartcontractkit/phe/internal/bigint"
	"github.com/smartcontractkit/phe/internal/logger"
	"github.com/smartcontractkit/phe/internal/math"
)

// ErrKeyGen is returned if no key pair can be derived from the given parameters.
var ErrKeyGen = errors.New("paillier: key generation failed")

// Ciphertexts live mod n^2 and the product of two of them must fit into a bigint.Int, so n is limited to 64 bits.
const MaxModulusBits = 64

type PublicKey struct {
	N  bigint.Int // modulus p*q
	G  bigint.Int // generator, n + 1
	N2 bigint.Int // n^2
}

type PrivateKey struct {
	PublicKey
	Lambda bigint.Int // (p-1)(q-1)
	Mu     bigint.Int // L(g^lambda mod n^2)^-1 mod n
}

// Implement Stringer and GoStringer interfaces to ensure that the private values are never accidentally logged.
func (sk PrivateKey) String() string {
	return sk.GoString()
}

func (sk PrivateKey) GoString() string {
	return fmt.Sprintf("paillier.PrivateKey{N: %s, G: %s}", sk.N, sk.G)
}

// EncryptWithNonce returns g^m * r^n mod n^2 for an encoded plaintext m in [0, n) and a blinding factor r in [1, n)
// that is coprime to n. Out of range values are rejected with an error wrapping math.ErrDomain.
func (pk PublicKey) EncryptWithNonce(m, r bigint.Int) (bigint.Int, error) {
	if m.Sign() < 0 || m.Cmp(pk.N) >= 0 {
		return bigint.Int{}, fmt.Errorf("%w: plaintext %s not in [0, %s)", math.ErrDomain, m, pk.N)
	}
	if r.Sign() <= 0 || r.Cmp(pk.N) >= 0 || !math.GCD(r, pk.N).IsOne() {
		return bigint.Int{}, fmt.Errorf("%w: blinding factor %s not a unit mod %s", math.ErrDomain, r, pk.N)
	}

	gm, err := math.ModPow(pk.G, m, pk.N2)
	if err != nil {
		return bigint.Int{}, err
	}
	rn, err := math.ModPow(r, pk.N, pk.N2)
	if err != nil {
		return bigint.Int{}, err
	}
	return math.MulMod(gm, rn, pk.N2)
}

// Add combines ciphertexts such that the result decrypts to the sum of their plaintexts (mod n). Without arguments
// the result is 1, an encryption of 0. For the degenerate modulus n = 1 the first ciphertext is returned unchanged.
func (pk PublicKey) Add(ciphertexts ...bigint.Int) (bigint.Int, error) {
	for _, c := range ciphertexts {
		if err := pk.checkCiphertext(c); err != nil {
			return bigint.Int{}, err
		}
	}
	if pk.N.IsOne() && len(ciphertexts) > 0 {
		return ciphertexts[0], nil
	}

	result := bigint.One
	for _, c := range ciphertexts {
		var err error
		if result, err = math.MulMod(result, c, pk.N2); err != nil {
			return bigint.Int{}, err
		}
	}
	return result, nil
}

// AddPlain returns c * g^k mod n^2, which decrypts to Dec(c) + k (mod n). Negative k is reduced modulo n.
func (pk PublicKey) AddPlain(c, k bigint.Int) (bigint.Int, error) {
	if err := pk.checkCiphertext(c); err != nil {
		return bigint.Int{}, err
	}
	gk, err := math.ModPow(pk.G, k.Mod(pk.N), pk.N2)
	if err != nil {
		return bigint.Int{}, err
	}
	return math.MulMod(c, gk, pk.N2)
}

// MulPlain returns c^k mod n^2, which decrypts to Dec(c) * k (mod n). Negative k is reduced modulo n.
func (pk PublicKey) MulPlain(c, k bigint.Int) (bigint.Int, error) {
	if err := pk.checkCiphertext(c); err != nil {
		return bigint.Int{}, err
	}
	return math.ModPow(c, k.Mod(pk.N), pk.N2)
}

func (pk PublicKey) checkCiphertext(c bigint.Int) error {
	if c.Sign() < 0 || c.Cmp(pk.N2) >= 0 {
		return fmt.Errorf("%w: ciphertext %s not in [0, %s)", math.ErrDomain, c, pk.N2)
	}
	return nil
}

// Decrypt returns L(c^lambda mod n^2) * mu mod n with L(x) = (x - 1) / n. The result is still in encoded form.
func (sk PrivateKey) Decrypt(c bigint.Int) (bigint.Int, error) {
	if err := sk.checkCiphertext(c); err != nil {
		return bigint.Int{}, err
	}
	u, err := math.ModPow(c, sk.Lambda, sk.N2)
	if err != nil {
		return bigint.Int{}, err
	}
	return math.MulMod(l(u, sk.N), sk.Mu, sk.N)
}

func l(x, n bigint.Int) bigint.Int {
	return x.Sub(bigint.One).Quo(n)
}

// Scheme holds a Paillier key pair and the source of randomness for blinding factors. It is immutable once created.
type Scheme struct {
	sk      PrivateKey
	modulus *math.Modulus // n, reused for every blinding factor
	rand    io.Reader
	lggr    logger.Logger
}

// NewScheme derives a key pair from the primes p and q: n = p*q, g = n + 1, lambda = (p-1)(q-1) and
// mu = L(g^lambda mod n^2)^-1 mod n. Primality of p and q is not checked; the caller is responsible for passing primes.
// Any failure is reported as an error wrapping ErrKeyGen.
func NewScheme(p, q bigint.Int, opts ...Option) (*Scheme, error) {
	o := newOptions(opts)

	if p.Cmp(bigint.One) <= 0 || q.Cmp(bigint.One) <= 0 {
		return nil, fmt.Errorf("%w: primes must be greater than 1, got p=%s q=%s", ErrKeyGen, p, q)
	}

	n, err := bigint.Checked(func() bigint.Int { return p.Mul(q) })
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGen, err)
	}
	if n.BitLen() > MaxModulusBits {
		return nil, fmt.Errorf("%w: modulus of %d bits exceeds %d bits", ErrKeyGen, n.BitLen(), MaxModulusBits)
	}

	modulus, err := math.NewModulus(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGen, err)
	}

	pk := PublicKey{N: n, G: n.Add(bigint.One), N2: n.Mul(n)}
	lambda := p.Sub(bigint.One).Mul(q.Sub(bigint.One))

	u, err := math.ModPow(pk.G, lambda, pk.N2)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGen, err)
	}
	mu, err := math.ModInverse(l(u, n), n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyGen, err)
	}

	o.lggr.Debug("derived Paillier key pair", logger.Fields{"modulusBits": n.BitLen()})
	return &Scheme{PrivateKey{pk, lambda, mu}, modulus, o.rand, o.lggr}, nil
}

func (s *Scheme) PublicKey() PublicKey {
	return s.sk.PublicKey
}

func (s *Scheme) PrivateKey() PrivateKey {
	return s.sk
}

// Encrypt encrypts the encoded plaintext m in [0, n) with a fresh blinding factor drawn from the scheme's source of
// randomness.
func (s *Scheme) Encrypt(m bigint.Int) (bigint.Int, error) {
	r, err := math.RandomCoprime(s.rand, s.modulus)
	if err != nil {
		return bigint.Int{}, err
	}
	return s.sk.EncryptWithNonce(m, r)
}

func (s *Scheme) EncryptWithNonce(m, r bigint.Int) (bigint.Int, error) {
	return s.sk.EncryptWithNonce(m, r)
}

func (s *Scheme) Decrypt(c bigint.Int) (bigint.Int, error) {
	return s.sk.Decrypt(c)
}

func (s *Scheme) Add(ciphertexts ...bigint.Int) (bigint.Int, error) {
	result, err := s.sk.Add(ciphertexts...)
	if err != nil {
		return bigint.Int{}, err
	}
	s.lggr.Trace("added ciphertexts", logger.Fields{"count": len(ciphertexts), "result": result.String()})
	return result, nil
}

func (s *Scheme) AddPlain(c, k bigint.Int) (bigint.Int, error) {
	return s.sk.AddPlain(c, k)
}

func (s *Scheme) MulPlain(c, k bigint.Int) (bigint.Int, error) {
	return s.sk.MulPlain(c, k)
}

// Encode maps a signed value into the plaintext space of the scheme, see EncodeSigned.
func (s *Scheme) Encode(v bigint.Int) (bigint.Int, error) {
	return EncodeSigned(v, s.sk.N)
}

// Decode maps a decrypted value back to a signed value, see DecodeSigned.
func (s *Scheme) Decode(v bigint.Int) (bigint.Int, error) {
	return DecodeSigned(v, s.sk.N)
}
