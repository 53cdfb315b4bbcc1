package hensel

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/mpoly"
	"github.com/tueda/rings/upoly"
)

func zpVars(p uint64, n int) (*domain.Zp64, []*mpoly.Poly[uint64]) {
	zp := domain.MustZp64(p)
	vs := make([]*mpoly.Poly[uint64], n)
	for i := range vs {
		vs[i] = mpoly.Variable[uint64](zp, n, mpoly.Lex, i)
	}
	return zp, vs
}

func TestEvaluation(t *testing.T) {
	zp, v := zpVars(101, 3)
	x, y, z := v[0], v[1], v[2]
	ev := NewEvaluation[uint64](zp, 3, mpoly.Lex, []uint64{2, 3})
	p := x.Mul(y.Pow(2)).Add(z).AddConstant(1)

	assert.True(t, ev.EvaluateFrom(p, 1).Equal(x.Scale(4).AddConstant(4)))
	assert.True(t, ev.EvaluateFromExcept(p, 1, 2).Equal(x.Scale(4).Add(z).AddConstant(1)))

	lin := ev.LinearPower(1, 2)
	assert.True(t, lin.Equal(y.AddConstant(zp.Neg(2)).Pow(2)))

	// x*y^2 = x*((y-2)^2 + 4(y-2) + 4)
	assert.True(t, ev.TaylorCoefficient(p, 1, 1).Equal(x.Scale(4)))
	assert.True(t, ev.TaylorCoefficient(p, 1, 2).Equal(x))
	assert.True(t, ev.TaylorCoefficient(p, 1, 3).IsZero())

	img := ev.ModImage(p, 1, 2)
	assert.True(t, img.Equal(x.Scale(4).Mul(y.AddConstant(zp.Neg(2))).Add(x.Scale(4)).Add(z).AddConstant(1)))
	assert.True(t, ev.ModImage(p, 1, 3).Equal(p))

	dropped := ev.DropVariable(1)
	assert.Equal(t, []uint64{3}, dropped.Values())
	swapped := ev.RenameVariables([]int{0, 2, 1})
	assert.Equal(t, []uint64{3, 2}, swapped.Values())
}

func TestBezoutOverField(t *testing.T) {
	zp := domain.MustZp64(7)
	a := upoly.FromInt64[uint64](zp, 1, 0, 1)
	b := upoly.FromInt64[uint64](zp, 3, 1)
	s, tt, err := Bezout(a, b)
	require.NoError(t, err)
	assert.True(t, s.Mul(a).Add(tt.Mul(b)).IsOne())
	assert.Less(t, s.Degree(), b.Degree())

	_, _, err = Bezout(a.Mul(b), b)
	require.Error(t, err)
	assert.Equal(t, ErrNotCoprime, errgo.Cause(err))
}

func TestBezoutOverPrimePower(t *testing.T) {
	r, err := domain.NewPrimePower(big.NewInt(5), 6)
	require.NoError(t, err)
	a := upoly.FromInt64[*big.Int](r, 2, 3, 1)
	b := upoly.FromInt64[*big.Int](r, 4, 1)
	s, tt, err := Bezout(a, b)
	require.NoError(t, err)
	assert.True(t, s.Mul(a).Add(tt.Mul(b)).IsOne(), "%s * a + %s * b", s, tt)

	_, err = InverseMod(a, upoly.FromInt64[*big.Int](r, 1, 5))
	require.Error(t, err)
	assert.Equal(t, ErrNotInvertible, errgo.Cause(err))
}

func TestLiftMonic(t *testing.T) {
	zp, v := zpVars(101, 3)
	x, y, z := v[0], v[1], v[2]
	f1 := x.Add(y.Mul(z)).AddConstant(1)
	f2 := x.Pow(2).Add(z).Add(y).AddConstant(3)
	base := f1.Mul(f2)
	ev := NewEvaluation[uint64](zp, 3, mpoly.Lex, []uint64{2, 3})

	images := []*mpoly.Poly[uint64]{ev.EvaluateFrom(f1, 1), ev.EvaluateFrom(f2, 1)}
	lifted, err := LiftAutomaticLC(base, images, ev)
	require.NoError(t, err)
	require.Len(t, lifted, 2)
	assert.True(t, lifted[0].Equal(f1), "got %s", lifted[0])
	assert.True(t, lifted[1].Equal(f2), "got %s", lifted[1])
	for i, f := range lifted {
		assert.True(t, ev.EvaluateFrom(f, 1).Equal(images[i]))
	}
}

func TestLiftPairWithLeadingCoefficient(t *testing.T) {
	zp, v := zpVars(101, 3)
	x, y, z := v[0], v[1], v[2]
	f1 := y.Mul(x).Add(z)
	f2 := x.Add(y).Add(z).AddConstant(1)
	base := f1.Mul(f2)
	ev := NewEvaluation[uint64](zp, 3, mpoly.Lex, []uint64{2, 3})

	a, b, err := LiftPair(base, ev.EvaluateFrom(f1, 1), ev.EvaluateFrom(f2, 1), f1.LcIn(0), ev)
	require.NoError(t, err)
	assert.True(t, a.Mul(b).Equal(base))
	assert.True(t, a.Equal(f1), "got %s", a)
	assert.True(t, b.Equal(f2), "got %s", b)

	// Without the split of the leading coefficient it is imposed on both
	// factors and divided out again.
	a, b, err = LiftPair(base, ev.EvaluateFrom(f1, 1), ev.EvaluateFrom(f2, 1), nil, ev)
	require.NoError(t, err)
	assert.True(t, a.Mul(b).Equal(base))
	assert.True(t, a.Divides(f1) && f1.Divides(a), "got %s", a)
	assert.True(t, b.Divides(f2) && f2.Divides(b), "got %s", b)

	_, _, err = LiftPair(base, ev.EvaluateFrom(f1, 1), ev.EvaluateFrom(f2, 1), z, ev)
	require.Error(t, err)
	assert.Equal(t, ErrNotLifted, errgo.Cause(err))
}

func TestLiftPairDense(t *testing.T) {
	zp, v := zpVars(1009, 4)
	x, y, z, w := v[0], v[1], v[2], v[3]
	f1 := x.Pow(3).Add(y.Pow(2).Mul(z)).Add(x.Mul(w).Mul(z)).AddConstant(7)
	f2 := x.Pow(2).Mul(z.AddConstant(1)).Add(y.Mul(w).Pow(2)).Add(x.Mul(y)).AddConstant(2)
	base := f1.Mul(f2)
	ev := NewEvaluation[uint64](zp, 4, mpoly.Lex, []uint64{5, 8, 13})

	a, b, err := LiftPair(base, ev.EvaluateFrom(f1, 1), ev.EvaluateFrom(f2, 1), f1.LcIn(0), ev)
	require.NoError(t, err)
	assert.True(t, a.Equal(f1), "got %s", a)
	assert.True(t, b.Equal(f2), "got %s", b)

	lifted, err := LiftAutomaticLC(base, []*mpoly.Poly[uint64]{ev.EvaluateFrom(f1, 1), ev.EvaluateFrom(f2, 1)}, ev)
	require.NoError(t, err)
	require.Len(t, lifted, 2)
	assert.True(t, product(lifted).Equal(base))
	assert.True(t, lifted[1].Divides(f2) && f2.Divides(lifted[1]), "got %s", lifted[1])
}

func TestCorrectKeepsErrorExact(t *testing.T) {
	_, v := zpVars(101, 3)
	x, y, z := v[0], v[1], v[2]
	us := []*mpoly.Poly[uint64]{x.AddConstant(1), x.Add(z), x.Pow(2).Add(y)}
	target := x.Mul(y).Add(z).AddConstant(3).Mul(x.Pow(3))
	e := target.Sub(product(us))
	ds := []*mpoly.Poly[uint64]{x.Add(y), x.ZeroLike(), z.AddConstant(4)}
	lp := y.AddConstant(2)

	e = correct(us, ds, lp, e)
	assert.True(t, e.Equal(target.Sub(product(us))), "got %s", e)
	assert.True(t, us[1].Equal(x.Add(z)))
	assert.True(t, us[2].Equal(x.Pow(2).Add(y).Add(z.AddConstant(4).Mul(lp))))
}

func TestLiftFromBivariate(t *testing.T) {
	zp, v := zpVars(1009, 4)
	x, y, z, w := v[0], v[1], v[2], v[3]
	f1 := y.Mul(x).Add(z.Mul(w)).AddConstant(5)
	f2 := x.Pow(2).Add(y.Mul(w)).Add(z)
	f3 := z.Mul(x).Add(y).AddConstant(1)
	base := f1.Mul(f2).Mul(f3)
	ev := NewEvaluation[uint64](zp, 4, mpoly.Lex, []uint64{7, 3, 11})

	fs := []*mpoly.Poly[uint64]{f1, f2, f3}
	bivariate := make([]*mpoly.Poly[uint64], len(fs))
	lcs := make([]*mpoly.Poly[uint64], len(fs))
	for i, f := range fs {
		bivariate[i] = ev.EvaluateFrom(f, 2)
		lcs[i] = f.LcIn(0)
	}
	lifted, err := Lift(base, bivariate, lcs, ev, nil, 2)
	require.NoError(t, err)
	for i, f := range lifted {
		assert.True(t, f.Equal(fs[i]), "factor %d: got %s", i, f)
	}

	// Wrong leading coefficients cannot lift.
	lcs[0], lcs[2] = lcs[2], lcs[0]
	_, err = Lift(base, bivariate, lcs, ev, nil, 2)
	require.Error(t, err)
}

func TestLiftOverPrimePower(t *testing.T) {
	r, err := domain.NewPrimePower(big.NewInt(5), 6)
	require.NoError(t, err)
	x := mpoly.Variable[*big.Int](r, 2, mpoly.Lex, 0)
	y := mpoly.Variable[*big.Int](r, 2, mpoly.Lex, 1)
	c := func(v int64) *mpoly.Poly[*big.Int] { return x.ConstantLike(r.FromInt64(v)) }
	f1 := x.Add(y.Mul(c(3))).Sub(c(2))
	f2 := x.Sub(y).Add(c(5)).Add(y.Pow(2).Mul(c(40)))
	base := f1.Mul(f2)
	ev := NewEvaluation[*big.Int](r, 2, mpoly.Lex, []*big.Int{big.NewInt(1)})

	lifted, err := LiftAutomaticLC(base, []*mpoly.Poly[*big.Int]{ev.EvaluateFrom(f1, 1), ev.EvaluateFrom(f2, 1)}, ev)
	require.NoError(t, err)
	assert.True(t, lifted[0].Equal(f1), "got %s", lifted[0])
	assert.True(t, lifted[1].Equal(f2), "got %s", lifted[1])
}

func TestLiftBivariateDense(t *testing.T) {
	zp, v := zpVars(7, 2)
	x, y := v[0], v[1]
	f1 := x.Pow(2).Add(y).AddConstant(1)
	f2 := x.Add(y.Pow(2)).AddConstant(2)
	base := f1.Mul(f2)
	images := []*mpoly.Poly[uint64]{f1.Evaluate(1, 0), f2.Evaluate(1, 0)}
	lifted, err := LiftBivariateDense(base, images, 3)
	require.NoError(t, err)
	require.Len(t, lifted, 3)
	assert.True(t, lifted[0].IsOne())
	assert.True(t, lifted[1].Equal(f1), "got %s", lifted[1])
	assert.True(t, lifted[2].Equal(f2), "got %s", lifted[2])

	// A leading coefficient in x_1 stays with the auxiliary factor.
	g1 := y.AddConstant(1).Mul(x).AddConstant(1)
	g2 := x.Add(y).AddConstant(3)
	base = g1.Mul(g2)
	m1, _ := g1.Evaluate(1, 0).Monic()
	lifted, err = LiftBivariateDense(base, []*mpoly.Poly[uint64]{m1, g2.Evaluate(1, 0)}, 5)
	require.NoError(t, err)
	prod := Truncate(lifted[0].Mul(lifted[1]).Mul(lifted[2]), 1, 5)
	assert.True(t, prod.Equal(Truncate(base, 1, 5)))
	assert.True(t, lifted[0].Equal(y.AddConstant(1)))
	_ = zp
}
