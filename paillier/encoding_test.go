package paillier

import (
	"testing"

	"github.com/smartcontractkit/phe/internal/bigint"
	"github.com/smartcontractkit/phe/internal/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSigned(t *testing.T) {
	n := bigint.New(100160063)
	tests := []struct {
		v, want int64
	}{
		{0, 0},
		{5, 5},
		{-3, 100160060},
		{-1, 100160062},
		{100160063, 0},
		{100160065, 2},
	}
	for _, tt := range tests {
		got, err := EncodeSigned(bigint.New(tt.v), n)
		require.NoError(t, err)
		assert.Equal(t, bigint.New(tt.want), got, "encode(%d)", tt.v)
	}
}

func TestDecodeSigned(t *testing.T) {
	n := bigint.New(100160063)
	tests := []struct {
		v, want int64
	}{
		{0, 0},
		{12, 12},
		{50080031, 50080031},
		{50080032, -50080031},
		{100160060, -3},
		{100160062, -1},
	}
	for _, tt := range tests {
		got, err := DecodeSigned(bigint.New(tt.v), n)
		require.NoError(t, err)
		assert.Equal(t, bigint.New(tt.want), got, "decode(%d)", tt.v)
	}
}

func TestEncodingBijection(t *testing.T) {
	for _, n := range []int64{1, 2, 10, 11, 143} {
		seen := map[string]bool{}
		// (-n/2, n/2]
		for v := -(n - 1) / 2; v <= n/2; v++ {
			encoded, err := EncodeSigned(bigint.New(v), bigint.New(n))
			require.NoError(t, err)
			require.True(t, encoded.Sign() >= 0 && encoded.Cmp(bigint.New(n)) < 0)
			seen[encoded.String()] = true

			decoded, err := DecodeSigned(encoded, bigint.New(n))
			require.NoError(t, err)
			require.Equal(t, bigint.New(v), decoded, "v = %d, n = %d", v, n)
		}
		assert.Len(t, seen, int(n))
	}
}

func TestEncodingErrors(t *testing.T) {
	n := bigint.New(143)

	_, err := DecodeSigned(n, n)
	require.ErrorIs(t, err, math.ErrDomain)
	_, err = DecodeSigned(bigint.New(-1), n)
	require.ErrorIs(t, err, math.ErrDomain)

	_, err = EncodeSigned(bigint.One, bigint.Zero)
	require.ErrorIs(t, err, math.ErrDomain)
	_, err = DecodeSigned(bigint.Zero, bigint.New(-143))
	require.ErrorIs(t, err, math.ErrDomain)
}
