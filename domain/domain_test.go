package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/internal/kfield"
)

func TestZp64Arithmetic(t *testing.T) {
	r := MustZp64(17)
	assert.Equal(t, uint64(16), r.FromInt64(-1))
	assert.Equal(t, uint64(0), r.FromInt64(-17))
	assert.Equal(t, uint64(3), r.Add(10, 10))
	assert.Equal(t, uint64(15), r.Sub(1, 3))
	assert.Equal(t, uint64(13), r.Mul(5, 6))
	for a := uint64(1); a < 17; a++ {
		assert.Equal(t, uint64(1), r.Mul(a, r.Inv(a)), "a=%d", a)
	}
	_, ok := r.Quo(3, 0)
	assert.False(t, ok)
	assert.Equal(t, int64(-1), r.Symmetric(16))
	assert.Equal(t, int64(8), r.Symmetric(8))
}

func TestZp64RejectsComposite(t *testing.T) {
	_, err := NewZp64(15)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidModulus, errgo.Cause(err))
}

func TestPrimePowerQuo(t *testing.T) {
	r, err := NewPrimePower(big.NewInt(3), 3)
	require.NoError(t, err)
	assert.False(t, r.IsField())
	assert.Equal(t, int64(27), r.Modulus().Int64())

	q, ok := r.Quo(big.NewInt(2), big.NewInt(5))
	require.True(t, ok)
	assert.Equal(t, int64(2), r.Mul(q, big.NewInt(5)).Int64())

	q, ok = r.Quo(big.NewInt(6), big.NewInt(3))
	require.True(t, ok)
	assert.Equal(t, int64(6), r.Mul(q, big.NewInt(3)).Int64())

	_, ok = r.Quo(big.NewInt(1), big.NewInt(3))
	assert.False(t, ok)
	assert.Equal(t, int64(-1), r.Symmetric(big.NewInt(26)).Int64())
}

func TestIntegersQuo(t *testing.T) {
	q, ok := Z.Quo(big.NewInt(-12), big.NewInt(4))
	require.True(t, ok)
	assert.Equal(t, int64(-3), q.Int64())
	_, ok = Z.Quo(big.NewInt(7), big.NewInt(2))
	assert.False(t, ok)
	assert.Equal(t, int64(6), Z.GCD(big.NewInt(-12), big.NewInt(18)).Int64())
}

func TestGaloisField(t *testing.T) {
	rnd := NewSeededRNG(1)
	gf, err := NewRandomGaloisField(2, 4, rnd)
	require.NoError(t, err)
	assert.Equal(t, int64(16), gf.Cardinality().Int64())
	for i := 0; i < 20; i++ {
		a := gf.Random(rnd)
		if gf.IsZero(a) {
			continue
		}
		inv, err := Inverse[kfield.Elem](gf, a)
		require.NoError(t, err)
		assert.True(t, gf.IsOne(gf.Mul(a, inv)))
		// Frobenius has order 4.
		assert.True(t, gf.Equal(a, Pow[kfield.Elem](gf, a, 16)))
	}
	two := gf.FromInt64(2)
	assert.True(t, gf.IsZero(two))
}

func TestPthRoot(t *testing.T) {
	rnd := NewSeededRNG(2)
	gf, err := NewRandomGaloisField(3, 2, rnd)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		a := gf.Random(rnd)
		root := PthRoot[kfield.Elem](gf, a)
		assert.True(t, gf.Equal(a, Pow[kfield.Elem](gf, root, 3)))
	}
}

func TestNextPrime(t *testing.T) {
	assert.Equal(t, uint64(2), NextPrime(0))
	assert.Equal(t, uint64(3), NextPrime(2))
	assert.Equal(t, uint64(11), NextPrime(7))
	assert.Equal(t, uint64(4194319), NextPrime(1<<22))
	assert.Equal(t, int64(101), NextBigPrime(big.NewInt(100)).Int64())
}

func TestSeededRNGIsReproducible(t *testing.T) {
	a, b := NewSeededRNG(42), NewSeededRNG(42)
	for i := 0; i < 8; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
	n := big.NewInt(1000)
	v := a.BigIntn(n)
	assert.True(t, v.Sign() >= 0 && v.Cmp(n) < 0)
}

func TestCheckSame(t *testing.T) {
	require.NoError(t, CheckSame[uint64](MustZp64(5), MustZp64(5)))
	err := CheckSame[uint64](MustZp64(5), MustZp64(7))
	require.Error(t, err)
	assert.Equal(t, ErrDomainMismatch, errgo.Cause(err))
}
