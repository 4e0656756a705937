// Fixed-width signed integer arithmetic on top of github.com/holiman/uint256. A value is a sign flag and a 256-bit
// magnitude, so the representable range is -(2^256-1) ... 2^256-1. Results that do not fit panic with an error
// wrapping ErrOverflow instead of wrapping around. Use Checked(...) to turn such panics into returned errors.

package bigint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

var (
	ErrFormat         = errors.New("invalid decimal integer")
	ErrOverflow       = errors.New("integer overflow")
	ErrDivisionByZero = errors.New("division by zero")
)

var (
	Zero = Int{}
	One  = NewUint64(1)
	Two  = NewUint64(2)
)

// Int is an immutable signed integer. The zero value represents 0. The representation is canonical (there is no
// negative zero), but prefer Cmp or Equal over == for comparisons.
type Int struct {
	neg bool
	abs uint256.Int
}

func newInt(neg bool, abs uint256.Int) Int {
	if abs.IsZero() {
		neg = false
	}
	return Int{neg, abs}
}

func New(v int64) Int {
	if v < 0 {
		// -(v+1) does not overflow for math.MinInt64
		return newInt(true, *uint256.NewInt(uint64(-(v+1)) + 1))
	}
	return newInt(false, *uint256.NewInt(uint64(v)))
}

func NewUint64(v uint64) Int {
	return newInt(false, *uint256.NewInt(v))
}

// FromBytes interprets b as an unsigned big-endian integer. Leading zero bytes are ignored.
func FromBytes(b []byte) (Int, error) {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	if len(b) > 32 {
		return Int{}, fmt.Errorf("%w: %d byte magnitude exceeds 256 bits", ErrOverflow, len(b))
	}
	var abs uint256.Int
	abs.SetBytes(b)
	return newInt(false, abs), nil
}

// x.Bytes() returns the minimal big-endian encoding of |x|. The sign is not encoded.
func (x Int) Bytes() []byte {
	return x.abs.Bytes()
}

func (x Int) Sign() int {
	switch {
	case x.abs.IsZero():
		return 0
	case x.neg:
		return -1
	default:
		return 1
	}
}

func (x Int) IsZero() bool { return x.abs.IsZero() }
func (x Int) IsOne() bool  { return !x.neg && x.abs.IsUint64() && x.abs.Uint64() == 1 }
func (x Int) IsOdd() bool  { return x.abs.Uint64()&1 == 1 }

// x.BitLen() returns the bit length of |x|.
func (x Int) BitLen() int { return x.abs.BitLen() }

// x.Bit(i) returns bit i of |x|, counting from the least significant bit.
func (x Int) Bit(i int) uint {
	if i < 0 || i >= 256 {
		return 0
	}
	var t uint256.Int
	t.Rsh(&x.abs, uint(i))
	return uint(t.Uint64() & 1)
}

// x.Uint64() returns x as uint64 and true, or 0 and false if x is negative or too large.
func (x Int) Uint64() (uint64, bool) {
	if x.neg || !x.abs.IsUint64() {
		return 0, false
	}
	return x.abs.Uint64(), true
}

// x.Cmp(y) returns -1, 0 or +1 depending on whether x < y, x == y or x > y.
func (x Int) Cmp(y Int) int {
	switch {
	case x.neg && !y.neg:
		return -1
	case !x.neg && y.neg:
		return 1
	}
	c := x.abs.Cmp(&y.abs)
	if x.neg {
		return -c
	}
	return c
}

func (x Int) Equal(y Int) bool { return x.Cmp(y) == 0 }

func (x Int) Neg() Int { return newInt(!x.neg, x.abs) }
func (x Int) Abs() Int { return newInt(false, x.abs) }

// x.Add(y) returns x + y. Panics with ErrOverflow if the magnitude of the result exceeds 256 bits.
func (x Int) Add(y Int) Int {
	var z uint256.Int
	if x.neg == y.neg {
		if _, overflow := z.AddOverflow(&x.abs, &y.abs); overflow {
			panic(overflow2("+", x, y))
		}
		return newInt(x.neg, z)
	}
	if x.abs.Cmp(&y.abs) >= 0 {
		z.Sub(&x.abs, &y.abs)
		return newInt(x.neg, z)
	}
	z.Sub(&y.abs, &x.abs)
	return newInt(y.neg, z)
}

// x.Sub(y) returns x - y. Panics with ErrOverflow if the magnitude of the result exceeds 256 bits.
func (x Int) Sub(y Int) Int {
	return x.Add(y.Neg())
}

// x.Mul(y) returns x * y. Panics with ErrOverflow if the magnitude of the result exceeds 256 bits.
func (x Int) Mul(y Int) Int {
	var z uint256.Int
	if _, overflow := z.MulOverflow(&x.abs, &y.abs); overflow {
		panic(overflow2("*", x, y))
	}
	return newInt(x.neg != y.neg, z)
}

// x.QuoRem(y) returns the quotient rounded towards zero and the remainder carrying the sign of x, such that
// x = q*y + r and |r| < |y|. Panics with ErrDivisionByZero if y is zero.
func (x Int) QuoRem(y Int) (q Int, r Int) {
	if y.abs.IsZero() {
		panic(fmt.Errorf("%w: %s / 0", ErrDivisionByZero, x))
	}
	var qa, ra uint256.Int
	qa.Div(&x.abs, &y.abs)
	ra.Mod(&x.abs, &y.abs)
	return newInt(x.neg != y.neg, qa), newInt(x.neg, ra)
}

// x.Quo(y) returns x / y rounded towards zero.
func (x Int) Quo(y Int) Int {
	q, _ := x.QuoRem(y)
	return q
}

// x.Rem(y) returns the remainder of x / y, carrying the sign of x.
func (x Int) Rem(y Int) Int {
	_, r := x.QuoRem(y)
	return r
}

// x.Mod(y) returns the Euclidean modulus of x and y, always in [0, |y|).
func (x Int) Mod(y Int) Int {
	r := x.Rem(y)
	if r.neg {
		r = r.Add(y.Abs())
	}
	return r
}

// x.String() returns the canonical decimal representation of x: an optional leading '-' followed by digits without
// leading zeros. Zero is represented as "0".
func (x Int) String() string {
	if x.neg {
		return "-" + x.abs.Dec()
	}
	return x.abs.Dec()
}

// Parse reads a decimal integer: an optional sign ('-' or '+') followed by at least one ASCII digit. Leading zeros are
// accepted. The result of Parse(x.String()) always equals x.
func Parse(text string) (Int, error) {
	digits, neg := text, false
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return Int{}, fmt.Errorf("%w: %q contains no digits", ErrFormat, text)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Int{}, fmt.Errorf("%w: %q contains non-digit character %q at offset %d",
				ErrFormat, text, digits[i], len(text)-len(digits)+i)
		}
	}

	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return Zero, nil
	}

	var abs uint256.Int
	if err := abs.SetFromDecimal(digits); err != nil {
		return Int{}, fmt.Errorf("%w: %q does not fit into 256 bits: %w", ErrFormat, text, ErrOverflow)
	}
	return newInt(neg, abs), nil
}

// MustParse is like Parse, but panics on invalid input. To be used for constants and in tests only.
func MustParse(text string) Int {
	x, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return x
}

// Checked evaluates f and converts an arithmetic panic (ErrOverflow, ErrDivisionByZero) raised within f into a
// returned error. The zero value is returned alongside the error. Any other panic is propagated.
func Checked(f func() Int) (result Int, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !(errors.Is(e, ErrOverflow) || errors.Is(e, ErrDivisionByZero)) {
				panic(r)
			}
			result, err = Int{}, e
		}
	}()
	return f(), nil
}

func overflow2(op string, x, y Int) error {
	return fmt.Errorf("%w: %s %s %s exceeds 256 bits", ErrOverflow, x, op, y)
}
