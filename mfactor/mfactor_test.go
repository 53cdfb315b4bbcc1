package mfactor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/fieldext"
	"github.com/tueda/rings/internal/kfield"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

func zVars(n int) []*zpoly {
	vs := make([]*zpoly, n)
	for i := range vs {
		vs[i] = mpoly.Variable[*big.Int](domain.Z, n, mpoly.Lex, i)
	}
	return vs
}

func zpVars(p uint64, n int) (*domain.Zp64, []*mpoly.Poly[uint64]) {
	zp := domain.MustZp64(p)
	vs := make([]*mpoly.Poly[uint64], n)
	for i := range vs {
		vs[i] = mpoly.Variable[uint64](zp, n, mpoly.Lex, i)
	}
	return zp, vs
}

func zc(p *zpoly, c int64) *zpoly { return p.AddConstant(big.NewInt(c)) }

// exponentOf returns the multiplicity of h in d, or 0.
func exponentOf[E any](d *decomp.Decomposition[*mpoly.Poly[E]], h *mpoly.Poly[E]) int {
	n := h.PrimitivePart()
	for i, f := range d.Factors {
		if f.Equal(n) {
			return d.Exponents[i]
		}
	}
	return 0
}

func TestDummyVariableModulo17(t *testing.T) {
	_, v := zpVars(17, 2)
	x := v[0]
	f := x.AddConstant(1).Mul(x.AddConstant(2).Pow(2))

	d, err := FactorZp64(f, domain.NewSeededRNG(1))
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	assert.True(t, d.Unit.IsOne())
	assert.Equal(t, 1, exponentOf(d, x.AddConstant(1)))
	assert.Equal(t, 2, exponentOf(d, x.AddConstant(2)))
	assert.True(t, d.MultiplyOut().Equal(f))
}

func TestIntegerBivariate(t *testing.T) {
	v := zVars(2)
	x, y := v[0], v[1]
	f := zc(x.Mul(y), 1).Mul(x.Sub(y))
	rnd := domain.NewSeededRNG(2)

	d, err := FactorZ(f, rnd)
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	assert.Equal(t, 1, exponentOf(d, zc(x.Mul(y), 1)))
	assert.Equal(t, 1, exponentOf(d, x.Sub(y)))
	assert.True(t, d.Unit.IsConstant())
	assert.Equal(t, int64(1), new(big.Int).Abs(d.Unit.Lc()).Int64())
	assert.True(t, d.MultiplyOut().Equal(f))

	neg, err := FactorZ(f.Neg(), rnd)
	require.NoError(t, err)
	assert.Equal(t, -d.Unit.Lc().Sign(), neg.Unit.Lc().Sign())
	assert.True(t, neg.MultiplyOut().Equal(f.Neg()))
}

func TestCharacteristicTwoLeadingCoefficients(t *testing.T) {
	rnd := domain.NewSeededRNG(3)
	gf, err := domain.NewRandomGaloisField(2, 8, rnd)
	require.NoError(t, err)
	vs := make([]*mpoly.Poly[kfield.Elem], 3)
	for i := range vs {
		vs[i] = mpoly.Variable[kfield.Elem](gf, 3, mpoly.Lex, i)
	}
	x, y, z := vs[0], vs[1], vs[2]
	one := gf.One()
	a := y.Mul(x.Pow(3)).Add(x).Add(z)
	b := z.Mul(x).Add(y).AddConstant(one)
	f := a.Mul(b)

	d, err := FactorGaloisField(f, rnd)
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	assert.True(t, d.MultiplyOut().Equal(f))

	lcs := f.One()
	for _, h := range d.Factors {
		lcs = lcs.Mul(h.LcIn(0))
	}
	assert.True(t, lcs.PrimitivePart().Equal(f.LcIn(0).PrimitivePart()))
	assert.Equal(t, 1, exponentOf(d, a))
	assert.Equal(t, 1, exponentOf(d, b))
}

func TestSquareOfIrreducible(t *testing.T) {
	v := zVars(3)
	x, y, z := v[0], v[1], v[2]
	g := zc(x.Pow(2).Add(y.Mul(z)), 1)

	d, err := FactorZ(g.Pow(2), domain.NewSeededRNG(4))
	require.NoError(t, err)
	require.Equal(t, 1, d.Size())
	assert.Equal(t, 2, d.Exponents[0])
	assert.True(t, d.Factors[0].Equal(g))
	assert.True(t, d.Unit.IsOne())
}

func TestNewtonPolygonCertificate(t *testing.T) {
	_, v := zpVars(7, 2)
	x, y := v[0], v[1]
	f := x.Pow(5).Add(y.Pow(3)).Add(x.Mul(y)).AddConstant(1)
	assert.True(t, certainlyIrreducible(f))
	assert.False(t, certainlyIrreducible(x.Pow(2).Sub(y.Pow(2))))

	evaluations := counterTotal(t, "rings_factor_evaluation_attempts")
	retries := counterTotal(t, "rings_factor_bivariate_retries")
	d, err := FactorZp64(f, domain.NewSeededRNG(5))
	require.NoError(t, err)
	require.Equal(t, 1, d.Size())
	assert.True(t, d.Factors[0].Equal(f))
	assert.Equal(t, evaluations, counterTotal(t, "rings_factor_evaluation_attempts"))
	assert.Equal(t, retries, counterTotal(t, "rings_factor_bivariate_retries"))

	// Without the certificate the same driver evaluates.
	g := x.Add(y).AddConstant(1).Mul(x.Mul(y).AddConstant(2))
	d, err = FactorZp64(g, domain.NewSeededRNG(5))
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	assert.Greater(t, counterTotal(t, "rings_factor_evaluation_attempts"), evaluations)
}

func TestConvexHull(t *testing.T) {
	pts := []point{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {1, 1}, {1, 0}, {2, 2}}
	hull := convexHull(pts)
	assert.ElementsMatch(t, []point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, hull)
	assert.Len(t, convexHull([]point{{1, 1}, {1, 1}}), 1)
}

func TestIndecomposable(t *testing.T) {
	for _, tc := range []struct {
		np   []point
		want bool
	}{
		{[]point{{2, 0}, {0, 3}}, true},
		{[]point{{2, 0}, {0, 2}}, false},
		{[]point{{0, 0}, {5, 0}, {0, 3}}, true},
		{[]point{{0, 0}, {4, 0}, {0, 2}}, false},
		{[]point{{4, 0}, {0, 2}, {1, 1}}, true},
		{[]point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, false},
	} {
		assert.Equal(t, tc.want, indecomposable(tc.np), "%v", tc.np)
	}
}

func TestGCDFreeBasis(t *testing.T) {
	v := zVars(2)
	x, y := v[0], v[1]
	b := newGCDFreeBasis[*big.Int](2)
	b.add(zc(x, 1).Mul(y), 0, 1)
	b.add(zc(x, 1), 1, 2)

	require.Len(t, b.polys, 2)
	assert.True(t, b.polys[0].Equal(zc(x, 1)))
	assert.True(t, b.polys[1].Equal(y))
	assert.Equal(t, []int{1, 2}, b.exps[0])
	assert.Equal(t, []int{1, 0}, b.exps[1])
}

func TestVariableOrder(t *testing.T) {
	v := zVars(3)
	x, y, z := v[0], v[1], v[2]
	f := x.Mul(y.Pow(3)).Add(z).Add(x.Mul(z))
	perm := variableOrder(f)
	assert.Equal(t, 0, perm[1])
	assert.ElementsMatch(t, []int{0, 1, 2}, perm)
}

func TestIntegerTrivariateRoundTrip(t *testing.T) {
	v := zVars(3)
	x, y, z := v[0], v[1], v[2]
	a := y.Mul(x.Pow(2)).Add(z)
	b := zc(z.Mul(x).Add(y), 1)
	f := a.Mul(b).Scale(big.NewInt(-2))
	rnd := domain.NewSeededRNG(6)

	d, err := FactorZ(f, rnd)
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	assert.Equal(t, int64(-2), d.Unit.Lc().Int64())
	assert.True(t, d.MultiplyOut().Equal(f))
	for _, h := range d.Factors {
		dh, err := FactorZ(h, rnd)
		require.NoError(t, err)
		assert.True(t, dh.IsTrivial(), "%s", h)
		for v, deg := range h.Degrees() {
			assert.LessOrEqual(t, deg, f.Degree(v))
		}
	}
}

func TestPrimeFieldTrivariate(t *testing.T) {
	_, v := zpVars(101, 3)
	x, y, z := v[0], v[1], v[2]
	a := x.Mul(y).Add(z).AddConstant(1)
	b := x.Pow(2).Add(y.Mul(z)).AddConstant(2)
	c := x.Add(z.Pow(2))
	f := a.Mul(b).Mul(c.Pow(3))

	d, err := FactorZp64(f, domain.NewSeededRNG(7))
	require.NoError(t, err)
	require.Equal(t, 3, d.Size())
	assert.Equal(t, 1, exponentOf(d, a))
	assert.Equal(t, 1, exponentOf(d, b))
	assert.Equal(t, 3, exponentOf(d, c))
	assert.True(t, d.MultiplyOut().Equal(f))
}

func TestMultiplicitiesAgreeWithSquareFree(t *testing.T) {
	v := zVars(2)
	x, y := v[0], v[1]
	f := x.Sub(y).Pow(2).Mul(zc(x.Mul(y), 1).Pow(2)).Mul(zc(x, 3))
	rnd := domain.NewSeededRNG(8)

	d, err := FactorZ(f, rnd)
	require.NoError(t, err)
	sqf := mpoly.SquareFree(f)
	total := map[int]int{}
	for i, part := range sqf.Factors {
		pd, err := FactorZ(part, rnd)
		require.NoError(t, err)
		total[sqf.Exponents[i]] += pd.Size()
	}
	got := map[int]int{}
	for _, e := range d.Exponents {
		got[e]++
	}
	assert.Equal(t, total, got)
}

func TestBoundaryCases(t *testing.T) {
	v := zVars(2)
	rnd := domain.NewSeededRNG(9)

	zero, err := FactorZ(v[0].ZeroLike(), rnd)
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Size())
	assert.True(t, zero.Unit.IsZero())

	c, err := FactorZ(v[0].ConstantLike(big.NewInt(-6)), rnd)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, int64(-6), c.Unit.Lc().Int64())

	irr := zc(v[0].Pow(2).Add(v[1].Pow(3)), 1)
	d, err := FactorZ(irr, rnd)
	require.NoError(t, err)
	assert.True(t, d.IsTrivial())
	assert.True(t, d.Unit.IsOne())
	assert.True(t, d.Canonical().Equal(d.Canonical().Canonical()))
}

func TestRationals(t *testing.T) {
	vs := make([]*qpoly, 2)
	for i := range vs {
		vs[i] = mpoly.Variable[*big.Rat](domain.Q, 2, mpoly.Lex, i)
	}
	x, y := vs[0], vs[1]
	half := big.NewRat(1, 2)
	f := x.Scale(half).Add(y).Mul(x.AddConstant(big.NewRat(-3, 1)))

	d, err := FactorQ(f, domain.NewSeededRNG(10))
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	assert.Equal(t, 0, d.Unit.Lc().Cmp(half))
	assert.Equal(t, 1, exponentOf(d, x.Add(y.Scale(big.NewRat(2, 1)))))
	assert.True(t, d.MultiplyOut().Equal(f))
}

func TestNumberField(t *testing.T) {
	k, err := upoly.NewNumberField(upoly.FromInt64[*big.Rat](domain.Q, -2, 0, 1))
	require.NoError(t, err)
	x := mpoly.Variable[nfElem](k, 1, mpoly.Lex, 0)
	f := x.Pow(2).AddConstant(k.FromInt64(-2))

	d, err := FactorNumberField(f, domain.NewSeededRNG(11))
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	sqrt2 := k.Generator()
	assert.Equal(t, 1, exponentOf(d, x.AddConstant(k.Neg(sqrt2))))
	assert.Equal(t, 1, exponentOf(d, x.AddConstant(sqrt2)))
	assert.True(t, d.MultiplyOut().Equal(f))
}

func TestNumberFieldFactorFreeOfFirstVariable(t *testing.T) {
	k, err := upoly.NewNumberField(upoly.FromInt64[*big.Rat](domain.Q, -2, 0, 1))
	require.NoError(t, err)
	x := mpoly.Variable[nfElem](k, 2, mpoly.Lex, 0)
	y := mpoly.Variable[nfElem](k, 2, mpoly.Lex, 1)
	f := x.AddConstant(k.One()).Mul(y.Pow(2).AddConstant(k.FromInt64(-2)))

	d, err := FactorNumberField(f, domain.NewSeededRNG(15))
	require.NoError(t, err)
	require.Equal(t, 3, d.Size())
	sqrt2 := k.Generator()
	assert.Equal(t, 1, exponentOf(d, x.AddConstant(k.One())))
	assert.Equal(t, 1, exponentOf(d, y.AddConstant(k.Neg(sqrt2))))
	assert.Equal(t, 1, exponentOf(d, y.AddConstant(sqrt2)))
	assert.True(t, d.MultiplyOut().Equal(f))
}

func TestNormIsSquareFreeAfterShift(t *testing.T) {
	k, err := upoly.NewNumberField(upoly.FromInt64[*big.Rat](domain.Q, -2, 0, 1))
	require.NoError(t, err)
	x := mpoly.Variable[nfElem](k, 1, mpoly.Lex, 0)
	f := x.Pow(2).AddConstant(k.FromInt64(-2))
	q := mpoly.Variable[*big.Rat](domain.Q, 1, mpoly.Lex, 0)

	// N(x^2 - 2) = (x^2 - 2)^2
	assert.True(t, norm(k, f).Equal(q.Pow(2).AddConstant(big.NewRat(-2, 1)).Pow(2)))
	// x -> x - 2*sqrt(2) gives (x^2 - 2)(x^2 - 18)
	g := f.Shift(0, k.Mul(k.FromInt64(-2), k.Generator()))
	want := q.Pow(2).AddConstant(big.NewRat(-2, 1)).Mul(q.Pow(2).AddConstant(big.NewRat(-18, 1)))
	assert.True(t, norm(k, g).Equal(want))
}

func TestFactorInExtension(t *testing.T) {
	zp, v := zpVars(2, 2)
	x, y := v[0], v[1]
	a := x.Pow(2).Add(x.Mul(y)).AddConstant(1)
	b := x.Add(y.Pow(2)).Add(y).AddConstant(1)
	f := a.Mul(b)
	rnd := domain.NewSeededRNG(12)

	fs, err := factorInExtension(f, fieldext.Zp64(zp), rnd)
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.True(t, product(f, fs).Equal(f))
}

func TestBigPrimeField(t *testing.T) {
	p := domain.NextBigPrime(new(big.Int).Lsh(big.NewInt(1), 70))
	r, err := domain.NewIntegersModulo(p)
	require.NoError(t, err)
	x := mpoly.Variable[*big.Int](r, 2, mpoly.Lex, 0)
	y := mpoly.Variable[*big.Int](r, 2, mpoly.Lex, 1)
	f := x.Add(y).Mul(x.Sub(y).AddConstant(r.FromInt64(3)))

	d, err := FactorBigPrime(f, domain.NewSeededRNG(14))
	require.NoError(t, err)
	require.Equal(t, 2, d.Size())
	assert.True(t, d.MultiplyOut().Equal(f))
}

func TestUnsupportedRing(t *testing.T) {
	r, err := domain.NewIntegersModulo(big.NewInt(15))
	require.NoError(t, err)
	f := mpoly.Variable[*big.Int](r, 2, mpoly.Lex, 0)
	_, err = FactorBigPrime(f, domain.NewSeededRNG(15))
	require.Error(t, err)
	assert.Equal(t, ErrUnsupportedRing, errgo.Cause(err))
}
