package upoly

import (
	"math/big"
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/kfield"
)

func Test(t *testing.T) { gc.TestingT(t) }

type UpolySuite struct {
	rnd *domain.RNG
}

var _ = gc.Suite(&UpolySuite{})

func (s *UpolySuite) SetUpTest(c *gc.C) {
	s.rnd = domain.NewSeededRNG(7)
}

func zpoly(cs ...int64) *Poly[*big.Int] {
	return FromInt64[*big.Int](domain.Z, cs...)
}

func (s *UpolySuite) TestDivRem(c *gc.C) {
	zp := domain.MustZp64(17)
	a := FromInt64[uint64](zp, 1, 2, 3, 4, 5)
	b := FromInt64[uint64](zp, 3, 0, 2)
	q, r, ok := a.DivRem(b)
	c.Assert(ok, gc.Equals, true)
	c.Assert(q.Mul(b).Add(r).Equal(a), gc.Equals, true)
	c.Assert(r.Degree() < b.Degree(), gc.Equals, true)

	_, _, ok = zpoly(1, 0, 1).DivRem(zpoly(1, 2))
	c.Assert(ok, gc.Equals, false)
	zq, ok := zpoly(-1, 0, 1).DivideExact(zpoly(1, 1))
	c.Assert(ok, gc.Equals, true)
	c.Assert(zq.Equal(zpoly(-1, 1)), gc.Equals, true)
}

func (s *UpolySuite) TestGCDIntegers(c *gc.C) {
	common := zpoly(3, 0, 2)
	a := common.Mul(zpoly(1, 1)).Scale(big.NewInt(6))
	b := common.Mul(zpoly(-5, 0, 0, 1)).Scale(big.NewInt(4))
	g := GCD(a, b)
	c.Assert(g.Equal(common.Scale(big.NewInt(2))), gc.Equals, true)
}

func (s *UpolySuite) TestXGCD(c *gc.C) {
	zp := domain.MustZp64(101)
	a := FromInt64[uint64](zp, 1, 0, 0, 1)
	b := FromInt64[uint64](zp, 2, 1, 1)
	g, u, v, err := XGCD(a, b)
	c.Assert(err, gc.IsNil)
	c.Assert(u.Mul(a).Add(v.Mul(b)).Equal(g), gc.Equals, true)
	c.Assert(g.IsMonic(), gc.Equals, true)
}

func (s *UpolySuite) TestSquareFreeCharacteristicZero(c *gc.C) {
	f := zpoly(1, 1).Pow(3).Mul(zpoly(-2, 0, 1).Pow(2)).Mul(zpoly(5, 3)).Scale(big.NewInt(-4))
	d := SquareFree(f)
	c.Assert(d.MultiplyOut().Equal(f), gc.Equals, true)
	c.Assert(d.Size(), gc.Equals, 3)
	for i, g := range d.Factors {
		c.Assert(IsSquareFree(g), gc.Equals, true)
		switch d.Exponents[i] {
		case 3:
			c.Assert(g.Equal(zpoly(1, 1)), gc.Equals, true)
		case 2:
			c.Assert(g.Equal(zpoly(-2, 0, 1)), gc.Equals, true)
		}
	}
}

func (s *UpolySuite) TestSquareFreePthPower(c *gc.C) {
	zp := domain.MustZp64(3)
	// (x+1)^3 (x+2)^4 = (x^3+1)(x+2)^4
	f := FromInt64[uint64](zp, 1, 1).Pow(3).Mul(FromInt64[uint64](zp, 2, 1).Pow(4))
	d := SquareFree(f)
	c.Assert(d.MultiplyOut().Equal(f), gc.Equals, true)
	c.Assert(d.SumExponents(), gc.Equals, 7)
}

func (s *UpolySuite) TestFactorFinite(c *gc.C) {
	zp := domain.MustZp64(17)
	f := FromInt64[uint64](zp, 3, 0, 0, 1).
		Mul(FromInt64[uint64](zp, 1, 1).Pow(2)).
		Mul(FromInt64[uint64](zp, 3, 0, 1)).
		Scale(5)
	d := FactorFinite(f, s.rnd)
	c.Assert(d.MultiplyOut().Equal(f), gc.Equals, true)
	for _, g := range d.Factors {
		c.Assert(FactorFinite(g, s.rnd).IsTrivial(), gc.Equals, true)
		c.Assert(g.IsMonic(), gc.Equals, true)
	}
}

func (s *UpolySuite) TestFactorCharacteristicTwoExtension(c *gc.C) {
	gf, err := domain.NewRandomGaloisField(2, 3, s.rnd)
	c.Assert(err, gc.IsNil)
	f := X[kfield.Elem](gf)
	for i := 0; i < 5; i++ {
		root := Constant[kfield.Elem](gf, gf.Random(s.rnd))
		f = f.Mul(X[kfield.Elem](gf).Sub(root))
	}
	f = f.Add(f.One())
	d := FactorFinite(f, s.rnd)
	c.Assert(d.MultiplyOut().Equal(f), gc.Equals, true)
	for _, g := range d.Factors {
		c.Assert(FactorFinite(g, s.rnd).IsTrivial(), gc.Equals, true)
	}
}

func (s *UpolySuite) TestFactorZ(c *gc.C) {
	f := zpoly(1, 0, 1).Mul(zpoly(-2, 1).Pow(2)).Mul(zpoly(1, 3)).Scale(big.NewInt(-2))
	d := FactorZ(f)
	c.Assert(d.MultiplyOut().Equal(f), gc.Equals, true)
	c.Assert(d.Size(), gc.Equals, 3)
	c.Assert(d.Unit.Equal(zpoly(-2)), gc.Equals, true)
}

func (s *UpolySuite) TestFactorZRecombination(c *gc.C) {
	// x^4+1 splits modulo every prime.
	f := zpoly(1, 0, 0, 0, 1)
	d := FactorZ(f)
	c.Assert(d.IsTrivial(), gc.Equals, true)

	g := f.Mul(zpoly(-1, 0, 0, 0, 0, 0, 1))
	d = FactorZ(g)
	c.Assert(d.MultiplyOut().Equal(g), gc.Equals, true)
	// x^6-1 = (x-1)(x+1)(x^2+x+1)(x^2-x+1)
	c.Assert(d.Size(), gc.Equals, 5)
}

func (s *UpolySuite) TestFactorQ(c *gc.C) {
	f := New[*big.Rat](domain.Q, big.NewRat(-1, 4), big.NewRat(0, 1), big.NewRat(1, 1))
	d := FactorQ(f)
	c.Assert(d.MultiplyOut().Equal(f), gc.Equals, true)
	c.Assert(d.Size(), gc.Equals, 2)
	for _, g := range d.Factors {
		c.Assert(g.IsMonic(), gc.Equals, true)
	}
}

func (s *UpolySuite) TestNumberFieldInverse(c *gc.C) {
	k, err := NewNumberField(ToRational(zpoly(-2, 0, 1)))
	c.Assert(err, gc.IsNil)
	alpha := k.Generator()
	c.Assert(k.Mul(alpha, alpha).Equal(k.FromInt64(2)), gc.Equals, true)
	a := k.Add(alpha, k.FromInt64(3))
	inv, ok := k.Inv(a)
	c.Assert(ok, gc.Equals, true)
	c.Assert(k.IsOne(k.Mul(a, inv)), gc.Equals, true)

	_, err = NewNumberField(ToRational(zpoly(-1, 0, 1)))
	c.Assert(err, gc.NotNil)
}

func (s *UpolySuite) TestHenselLiftZ(c *gc.C) {
	f := zpoly(-1, 0, 3).Mul(zpoly(2, 1)).Mul(zpoly(7, 0, 1))
	zp := domain.MustZp64(5)
	img := Map[*big.Int, uint64](f, zp, zp.FromBig)
	monic, _ := img.Monic()
	facts := FactorSquareFreeFinite(monic, s.rnd)
	lifted := HenselLiftZ(f, facts, zp, 6)
	m := new(big.Int).Exp(big.NewInt(5), big.NewInt(6), nil)
	prod := Constant(f.Ring, f.Lc())
	for _, g := range lifted {
		prod = prod.Mul(g)
	}
	c.Assert(ReduceMod(prod, m).Equal(ReduceMod(f, m)), gc.Equals, true)
}
