package mpoly

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/kfield"
)

func zvars(n int) []*Poly[*big.Int] {
	vs := make([]*Poly[*big.Int], n)
	for i := range vs {
		vs[i] = Variable[*big.Int](domain.Z, n, Lex, i)
	}
	return vs
}

func zc(p *Poly[*big.Int], c int64) *Poly[*big.Int] {
	return p.ConstantLike(big.NewInt(c))
}

func TestArithmetic(t *testing.T) {
	v := zvars(2)
	x, y := v[0], v[1]
	p := x.Add(y).Mul(x.Sub(y))
	assert.True(t, p.Equal(x.Pow(2).Sub(y.Pow(2))))
	assert.Equal(t, 2, p.Size())
	assert.Equal(t, []int{2, 2}, p.Degrees())
	assert.True(t, p.Sub(p).IsZero())

	q, ok := p.DivideExact(x.Add(y))
	require.True(t, ok)
	assert.True(t, q.Equal(x.Sub(y)))
	_, ok = p.DivideExact(x.Add(zc(x, 1)))
	assert.False(t, ok)

	m, ok := x.Pow(3).Mul(y).DivideMonomial([]int{2, 1})
	require.True(t, ok)
	assert.True(t, m.Equal(x))
	_, ok = x.DivideMonomial([]int{0, 1})
	assert.False(t, ok)
}

func TestMismatchPanics(t *testing.T) {
	x := zvars(2)[0]
	w := zvars(3)[0]
	err := Check(x, w)
	require.Error(t, err)
	assert.Equal(t, ErrVariableMismatch, errgo.Cause(err))

	zp := Variable[*big.Int](mustModulo(t, 7), 2, Lex, 0)
	err = Check(x, zp)
	require.Error(t, err)
	assert.Equal(t, domain.ErrDomainMismatch, errgo.Cause(err))
	assert.Panics(t, func() { x.Add(w) })
}

func mustModulo(t *testing.T, m int64) *domain.IntegersModulo {
	r, err := domain.NewIntegersModulo(big.NewInt(m))
	require.NoError(t, err)
	return r
}

func TestEvaluateAndDerivative(t *testing.T) {
	v := zvars(3)
	x, y, z := v[0], v[1], v[2]
	p := x.Pow(2).Mul(y).Add(z.Mul(y)).Add(zc(x, 5))
	e := p.Evaluate(1, big.NewInt(2))
	assert.Equal(t, 3, e.NVars())
	assert.True(t, e.Equal(x.Pow(2).Mul(zc(x, 2)).Add(z.Mul(zc(x, 2))).Add(zc(x, 5))))
	assert.Equal(t, int64(5+8+6), p.EvaluateAt([]*big.Int{big.NewInt(2), big.NewInt(2), big.NewInt(3)}).Int64())

	d := p.Derivative(0)
	assert.True(t, d.Equal(x.Mul(y).Mul(zc(x, 2))))
	assert.True(t, x.Pow(3).SeriesCoefficient(0, 2).Equal(x.Mul(zc(x, 3))))

	// Taylor coefficients of p at x1 = 2 are the series coefficients of the
	// shifted polynomial.
	shifted := p.Shift(1, big.NewInt(2))
	assert.True(t, shifted.SeriesCoefficient(1, 0).Evaluate(1, big.NewInt(0)).Equal(e))
}

func TestUnivariateViews(t *testing.T) {
	v := zvars(3)
	x, y, z := v[0], v[1], v[2]
	p := x.Pow(2).Mul(y).Add(x.Mul(z)).Add(y.Pow(3))
	cs := p.AsUnivariate(0)
	require.Len(t, cs, 3)
	assert.True(t, cs[2].Equal(y))
	assert.True(t, cs[1].Equal(z))
	assert.True(t, cs[0].Equal(y.Pow(3)))
	assert.True(t, p.FromUnivariate(0, cs).Equal(p))
	assert.True(t, p.LcIn(0).Equal(y))

	perm := []int{2, 0, 1}
	back := p.RenameVariables(perm).RenameVariables(Inverse(perm))
	assert.True(t, back.Equal(p))
	assert.True(t, p.SwapVariables(0, 2).Degree(2) == 2)

	e := p.Evaluate(2, big.NewInt(0)).DropVariable(2)
	assert.Equal(t, 2, e.NVars())
	assert.True(t, e.InsertVariable(2).Equal(p.Evaluate(2, big.NewInt(0))))

	u := y.Pow(3).Add(y).ToUpoly(1)
	assert.Equal(t, 3, u.Degree())
	assert.True(t, p.FromUpoly(1, u).Equal(y.Pow(3).Add(y)))
}

func TestGCD(t *testing.T) {
	v := zvars(3)
	x, y, z := v[0], v[1], v[2]
	common := x.Add(y)
	a := common.Mul(x.Sub(y).Add(zc(x, 1))).Mul(zc(x, 3))
	b := common.Mul(x.Pow(2).Add(z)).Mul(zc(x, 6))
	g := GCD(a, b)
	assert.True(t, g.Equal(common.Mul(zc(x, 3))), "got %s", g)
	assert.True(t, Coprime(x.Add(y), x.Sub(y)))

	zp := domain.MustZp64(101)
	xs := Variable[uint64](zp, 2, Lex, 0)
	ys := Variable[uint64](zp, 2, Lex, 1)
	c := xs.Mul(ys).AddConstant(3)
	ga := GCD(c.Mul(xs.Add(ys)), c.Mul(xs.Sub(ys)).Scale(7))
	assert.True(t, ga.Equal(c.Scale(zp.Inv(1))), "got %s", ga)
}

func TestContentAlong(t *testing.T) {
	v := zvars(2)
	x, y := v[0], v[1]
	p := y.Add(zc(x, 1)).Mul(x.Pow(2).Add(y))
	c := ContentAlong(p.Mul(y.Add(zc(x, 1))), 0)
	assert.True(t, c.Equal(y.Add(zc(x, 1)).Pow(2)))
	assert.True(t, PrimitivePartAlong(p, 0).Equal(x.Pow(2).Add(y)))
}

func TestSquareFreeIntegers(t *testing.T) {
	v := zvars(3)
	x, y, z := v[0], v[1], v[2]
	a := x.Add(y.Mul(z))
	b := x.Mul(y).Sub(zc(x, 1))
	p := a.Pow(3).Mul(b.Pow(2)).Mul(z).Mul(zc(x, -6))
	d := SquareFree(p)
	assert.True(t, d.MultiplyOut().Equal(p))
	assert.Equal(t, 6, d.SumExponents())
	for _, f := range d.Factors {
		assert.True(t, IsSquareFree(f))
	}
	assert.False(t, IsSquareFree(p))
}

func TestSquareFreeCharacteristicThree(t *testing.T) {
	zp := domain.MustZp64(3)
	x := Variable[uint64](zp, 2, Lex, 0)
	y := Variable[uint64](zp, 2, Lex, 1)
	a := x.Add(y)
	b := x.Mul(y).AddConstant(1)
	p := a.Pow(3).Mul(b.Pow(2))
	d := SquareFree(p)
	assert.True(t, d.MultiplyOut().Equal(p))
	require.Equal(t, 2, d.Size())
	for i, f := range d.Factors {
		switch d.Exponents[i] {
		case 3:
			assert.True(t, f.Equal(a))
		case 2:
			assert.True(t, f.Equal(b))
		default:
			t.Fatalf("unexpected exponent %d", d.Exponents[i])
		}
	}
	assert.True(t, IsPthPower(a.Pow(3)))
	assert.True(t, PthRoot(a.Pow(3)).Equal(a))
}

func TestOrders(t *testing.T) {
	x := Variable[*big.Int](domain.Z, 2, GrLex, 0)
	y := Variable[*big.Int](domain.Z, 2, GrLex, 1)
	p := x.Add(y.Pow(2))
	assert.Equal(t, []int{0, 2}, p.Lt().Exp)
	assert.Equal(t, []int{1, 0}, p.LtIn(Lex).Exp)
	assert.Equal(t, []int{1, 0}, p.SetOrder(Lex).Lt().Exp)
	assert.Equal(t, -1, GrevLex.Compare([]int{1, 0, 1}, []int{0, 2, 0}))
}

func TestContentIn(t *testing.T) {
	v := zvars(2)
	x, y := v[0], v[1]
	one := big.NewInt(1)
	p := x.AddConstant(one).Mul(y.Mul(x).Add(y.Pow(2)))
	assert.True(t, ContentIn(p, 0).Equal(x.AddConstant(one)))
	assert.True(t, ContentIn(p, 1).Equal(y))

	m := x.MulTerm(Term[*big.Int]{Exp: []int{0, 1}, Coef: big.NewInt(3)})
	assert.True(t, m.Equal(x.Mul(y).Scale(big.NewInt(3))))
}

func zpvars(p uint64, n int) []*Poly[uint64] {
	zp := domain.MustZp64(p)
	vs := make([]*Poly[uint64], n)
	for i := range vs {
		vs[i] = Variable[uint64](zp, n, Lex, i)
	}
	return vs
}

func TestGCDDenseIntegers(t *testing.T) {
	v := zvars(3)
	x, y, z := v[0], v[1], v[2]
	a := x.Pow(2).Mul(y.Pow(2)).Mul(z).
		Add(x.Mul(y).Mul(z.Pow(2)).Scale(big.NewInt(3))).
		Add(y.Pow(3).Scale(big.NewInt(2))).
		Add(zc(x, 5))
	b := x.Pow(3).Mul(z.Pow(3)).
		Add(x.Mul(y.Pow(2)).Scale(big.NewInt(4))).
		Add(y.Mul(z.Pow(2)).Scale(big.NewInt(7))).
		Add(zc(x, 1))
	f := a.Mul(b)
	assert.True(t, GCD(f, f.Derivative(0)).IsOne())
	assert.True(t, IsSquareFree(f))

	c := x.Mul(z).Add(y.Pow(2)).Add(zc(x, 2))
	g := GCD(f.Mul(c), b.Mul(c).Mul(zc(x, 4)))
	assert.True(t, g.Equal(b.Mul(c)), "got %s", g)

	d := SquareFree(a.Pow(2).Mul(b))
	require.Equal(t, 2, d.Size())
	assert.True(t, d.MultiplyOut().Equal(a.Pow(2).Mul(b)))

	// graded inputs come back in their own order
	ga := GCD(f.Mul(c).SetOrder(GrevLex), c.Mul(a).SetOrder(GrevLex))
	assert.Same(t, GrevLex, ga.Order())
	assert.True(t, ga.Equal(a.Mul(c).SetOrder(GrevLex)), "got %s", ga)
}

func TestGCDRationals(t *testing.T) {
	x := Variable[*big.Rat](domain.Q, 3, Lex, 0)
	y := Variable[*big.Rat](domain.Q, 3, Lex, 1)
	z := Variable[*big.Rat](domain.Q, 3, Lex, 2)
	common := x.Scale(big.NewRat(1, 2)).Add(y.Mul(z))
	a := common.Mul(x.Sub(z.Scale(big.NewRat(1, 3))))
	b := common.Mul(y.Add(z).AddConstant(big.NewRat(5, 7)))
	g := GCD(a, b)
	assert.True(t, g.Equal(x.Add(y.Mul(z).Scale(big.NewRat(2, 1)))), "got %s", g)
}

func TestGCDSmallPrimeFields(t *testing.T) {
	v := zpvars(3, 3)
	x, y, z := v[0], v[1], v[2]
	a := x.Pow(2).Mul(y).Add(z.Pow(2)).AddConstant(1)
	b := x.Mul(z.Pow(2)).Add(y).AddConstant(2)
	c := x.Mul(y).Mul(z).Add(x).Add(y).AddConstant(1)
	g := GCD(a.Mul(c).Mul(b.Pow(2)), b.Mul(c.Pow(2)).Scale(2))
	assert.True(t, g.Equal(b.Mul(c)), "got %s", g)
	assert.True(t, Coprime(a, b))

	w := zpvars(2, 4)
	a2 := w[0].Pow(2).Mul(w[1]).Mul(w[3]).Add(w[2]).AddConstant(1)
	b2 := w[0].Mul(w[2]).Mul(w[3]).Add(w[1]).AddConstant(1)
	c2 := w[0].Mul(w[1].Add(w[2])).Add(w[3])
	f := a2.Mul(b2).Mul(c2)
	assert.True(t, GCD(f, a2.Mul(c2.Pow(2))).Equal(a2.Mul(c2)))
	assert.True(t, IsSquareFree(f))
	d := SquareFree(f.Mul(c2))
	assert.True(t, d.MultiplyOut().Equal(f.Mul(c2)))
	assert.Equal(t, 3, d.SumExponents())
}

func TestGCDGaloisField(t *testing.T) {
	gf, err := domain.NewRandomGaloisField(2, 2, domain.NewSeededRNG(5))
	require.NoError(t, err)
	x := Variable[kfield.Elem](gf, 3, Lex, 0)
	y := Variable[kfield.Elem](gf, 3, Lex, 1)
	z := Variable[kfield.Elem](gf, 3, Lex, 2)
	t1 := gf.Field().Generator()
	a := x.Add(y.Pow(2))
	b := x.Mul(z).Add(y)
	c := x.Mul(y).Add(z.Scale(t1)).AddConstant(gf.One())
	g := GCD(a.Mul(c).Mul(z.Pow(3)), b.Mul(c).Mul(z.Add(y)))
	assert.True(t, g.Equal(c), "got %s", g)
}
