package decomp_test

import (
	"math/big"
	"strings"
	"testing"

	gc "gopkg.in/check.v1"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/upoly"
)

func Test(t *testing.T) { gc.TestingT(t) }

type DecompSuite struct{}

var _ = gc.Suite(&DecompSuite{})

type zp = *upoly.Poly[*big.Int]

func zpoly(cs ...int64) zp {
	return upoly.FromInt64[*big.Int](domain.Z, cs...)
}

func (s *DecompSuite) TestAddFactor(c *gc.C) {
	d := decomp.New(zpoly(1))
	d.AddFactor(zpoly(1, 1), 1).AddFactor(zpoly(5), 2).AddFactor(zpoly(1, 1), 2)
	c.Assert(d.Size(), gc.Equals, 1)
	c.Assert(d.Exponents, gc.DeepEquals, []int{3})
	c.Assert(d.Unit.Equal(zpoly(25)), gc.Equals, true)
	c.Assert(d.SumExponents(), gc.Equals, 3)
	c.Assert(d.IsTrivial(), gc.Equals, false)
	c.Assert(decomp.Single(zpoly(1, 1)).IsTrivial(), gc.Equals, true)
}

func (s *DecompSuite) TestOf(c *gc.C) {
	_, err := decomp.Of(zpoly(1), []zp{zpoly(1, 1)}, nil)
	c.Assert(errgo.Cause(err), gc.Equals, decomp.ErrMalformedDecomposition)
	_, err = decomp.Of(zpoly(1), []zp{zpoly(1, 1)}, []int{0})
	c.Assert(errgo.Cause(err), gc.Equals, decomp.ErrMalformedDecomposition)
	d, err := decomp.Of(zpoly(2), []zp{zpoly(1, 1), zpoly(0, 1)}, []int{1, 2})
	c.Assert(err, gc.IsNil)
	c.Assert(d.MultiplyOut().Equal(zpoly(0, 0, 2, 2)), gc.Equals, true)
	c.Assert(d.MultiplyIgnoringExponents().Equal(zpoly(0, 2, 2)), gc.Equals, true)
	c.Assert(d.SquareFreePart().Equal(zpoly(0, 1, 1)), gc.Equals, true)
}

func (s *DecompSuite) TestCanonical(c *gc.C) {
	d := decomp.New(zpoly(3))
	d.AddFactor(zpoly(-2, -2), 1).AddFactor(zpoly(-1, 1), 2)
	want := d.MultiplyOut()

	can := d.Canonical()
	c.Assert(can.Unit.Equal(zpoly(-6)), gc.Equals, true)
	c.Assert(can.Factors[0].Equal(zpoly(-1, 1)), gc.Equals, true)
	c.Assert(can.Factors[1].Equal(zpoly(1, 1)), gc.Equals, true)
	c.Assert(can.Exponents, gc.DeepEquals, []int{2, 1})
	c.Assert(can.MultiplyOut().Equal(want), gc.Equals, true)
	c.Assert(strings.HasPrefix(can.String(), "-6 * ("), gc.Equals, true)

	other := decomp.New(zpoly(-6))
	other.AddFactor(zpoly(1, 1), 1).AddFactor(zpoly(-1, 1), 2)
	c.Assert(other.Equal(d), gc.Equals, true)
	other.AddFactor(zpoly(1, 1), 1)
	c.Assert(other.Equal(d), gc.Equals, false)
}

func (s *DecompSuite) TestRaiseAndLc(c *gc.C) {
	d := decomp.New(zpoly(-1))
	d.AddFactor(zpoly(1, 2), 1)
	c.Assert(d.Lc().Equal(zpoly(-2)), gc.Equals, true)

	sq := d.Clone().RaiseExponents(2)
	c.Assert(sq.Unit.Equal(zpoly(1)), gc.Equals, true)
	c.Assert(sq.Exponents, gc.DeepEquals, []int{2})
	c.Assert(d.Exponents, gc.DeepEquals, []int{1})

	c.Assert(d.SetLcFrom(zpoly(3, 6)), gc.Equals, true)
	c.Assert(d.Unit.Equal(zpoly(3)), gc.Equals, true)
	c.Assert(d.SetLcFrom(zpoly(1, 3)), gc.Equals, false)
}

func (s *DecompSuite) TestMap(c *gc.C) {
	zp5 := domain.MustZp64(5)
	d := decomp.New(zpoly(7))
	d.AddFactor(zpoly(5, 1), 2)
	m := decomp.Map(d, func(p zp) *upoly.Poly[uint64] {
		return upoly.Map(p, zp5, func(x *big.Int) uint64 { return zp5.FromBig(x) })
	})
	c.Assert(m.Unit.Equal(upoly.FromInt64[uint64](zp5, 2)), gc.Equals, true)
	c.Assert(m.Factors[0].Equal(upoly.FromInt64[uint64](zp5, 0, 1)), gc.Equals, true)
	c.Assert(m.Exponents, gc.DeepEquals, []int{2})
}
