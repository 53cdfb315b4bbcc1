package factor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/kfield"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

func vars[E any](r domain.Ring[E], n int) []*mpoly.Poly[E] {
	vs := make([]*mpoly.Poly[E], n)
	for i := range vs {
		vs[i] = mpoly.Variable(r, n, mpoly.Lex, i)
	}
	return vs
}

func TestFactorDispatch(t *testing.T) {
	rnd := WithRNG(domain.NewSeededRNG(1))

	zv := vars[*big.Int](domain.Z, 2)
	fz := zv[0].Pow(2).Sub(zv[1].Pow(2)).Scale(big.NewInt(3))
	dz, err := Factor(fz, rnd)
	require.NoError(t, err)
	assert.Equal(t, 2, dz.Size())
	assert.Equal(t, int64(3), dz.Unit.Lc().Int64())
	assert.True(t, dz.MultiplyOut().Equal(fz))

	zp := domain.MustZp64(5)
	pv := vars[uint64](zp, 2)
	fp := pv[0].Pow(2).AddConstant(1).Mul(pv[1])
	dp, err := Factor(fp, rnd)
	require.NoError(t, err)
	// x^2 + 1 = (x + 2)(x + 3) mod 5
	assert.Equal(t, 3, dp.Size())
	assert.True(t, dp.MultiplyOut().Equal(fp))

	qv := vars[*big.Rat](domain.Q, 2)
	fq := qv[0].Mul(qv[1]).Scale(big.NewRat(2, 3)).Mul(qv[0].AddConstant(big.NewRat(1, 1)))
	dq, err := Factor(fq, rnd)
	require.NoError(t, err)
	assert.Equal(t, 3, dq.Size())
	assert.Equal(t, 0, dq.Unit.Lc().Cmp(big.NewRat(2, 3)))

	gf, err := domain.NewRandomGaloisField(3, 2, domain.NewSeededRNG(2))
	require.NoError(t, err)
	gv := vars[kfield.Elem](gf, 2)
	fg := gv[0].Pow(2).Sub(gv[1].Pow(2))
	dg, err := Factor(fg, rnd)
	require.NoError(t, err)
	assert.Equal(t, 2, dg.Size())
	assert.True(t, dg.MultiplyOut().Equal(fg))
}

func TestFactorUnsupported(t *testing.T) {
	r, err := domain.NewIntegersModulo(big.NewInt(12))
	require.NoError(t, err)
	_, err = Factor(vars[*big.Int](r, 1)[0])
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedRing, errgo.Cause(err))
}

func TestFactorSquareFree(t *testing.T) {
	v := vars[*big.Int](domain.Z, 2)
	x, y := v[0], v[1]
	f := x.AddConstant(big.NewInt(1)).Pow(3).Mul(y.Pow(2)).Scale(big.NewInt(-4))
	d := FactorSquareFree(f)
	assert.Equal(t, 2, d.Size())
	assert.True(t, d.MultiplyOut().Equal(f))
	assert.ElementsMatch(t, []int{2, 3}, d.Exponents)
}

func TestFactorUnivariate(t *testing.T) {
	u := upoly.FromInt64[*big.Int](domain.Z, -2, 0, 2)
	d, err := FactorUnivariate(u, WithRNG(domain.NewSeededRNG(3)))
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	assert.Equal(t, int64(2), d.Unit.Lc().Int64())
	assert.True(t, d.MultiplyOut().Equal(u))
}

func TestGCDAndDivide(t *testing.T) {
	v := vars[*big.Int](domain.Z, 2)
	x, y := v[0], v[1]
	a := x.Add(y).Mul(x.Sub(y))
	b := x.Add(y).Pow(2)
	assert.True(t, GCD(a, b).Equal(x.Add(y)))

	q, err := Divide(a, x.Add(y))
	require.NoError(t, err)
	assert.True(t, q.Equal(x.Sub(y)))

	_, err = Divide(a, b)
	require.Error(t, err)
	assert.Equal(t, ErrNotDivisible, errgo.Cause(err))

	_, err = Divide(a, a.ZeroLike())
	assert.Equal(t, ErrNotDivisible, errgo.Cause(err))
}
