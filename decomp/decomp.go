// Package decomp holds factor decompositions: a unit together with a list of
// non-constant factors and their multiplicities.
package decomp

import (
	"sort"
	"strconv"
	"strings"

	"gopkg.in/errgo.v1"
)

// ErrMalformedDecomposition is returned when factors and exponents do not
// pair up.
var ErrMalformedDecomposition = errgo.New("malformed decomposition")

// Polynomial is what a decomposition needs from its elements. P is the
// implementing type itself.
type Polynomial[P any] interface {
	Clone() P
	IsZero() bool
	IsConstant() bool
	IsOne() bool
	Equal(o P) bool
	Compare(o P) int
	Mul(o P) P
	DivideExact(o P) (P, bool)
	// One returns the constant one of the same ring and shape.
	One() P
	// LcPoly returns the leading coefficient as a constant polynomial.
	LcPoly() P
	// Normalize splits p = unit * normalized with normalized monic over a
	// field and primitive with positive leading coefficient over Z.
	Normalize() (normalized P, unit P)
	String() string
}

// Decomposition is unit * prod(Factors[i]^Exponents[i]). Factors are never
// constant.
type Decomposition[P Polynomial[P]] struct {
	Unit      P
	Factors   []P
	Exponents []int
}

// New returns an empty decomposition with the given unit.
func New[P Polynomial[P]](unit P) *Decomposition[P] {
	return &Decomposition[P]{Unit: unit.Clone()}
}

// Of builds a decomposition from parallel lists.
func Of[P Polynomial[P]](unit P, factors []P, exponents []int) (*Decomposition[P], error) {
	if len(factors) != len(exponents) {
		return nil, errgo.WithCausef(nil, ErrMalformedDecomposition,
			"%d factors, %d exponents", len(factors), len(exponents))
	}
	d := New(unit)
	for i, f := range factors {
		if exponents[i] <= 0 {
			return nil, errgo.WithCausef(nil, ErrMalformedDecomposition,
				"exponent %d of factor %s", exponents[i], f)
		}
		d.AddFactor(f, exponents[i])
	}
	return d, nil
}

// Single returns the decomposition of an irreducible polynomial.
func Single[P Polynomial[P]](f P) *Decomposition[P] {
	d := New(f.One())
	d.AddFactor(f, 1)
	return d
}

// Size is the number of distinct non-constant factors.
func (d *Decomposition[P]) Size() int { return len(d.Factors) }

// IsTrivial reports whether the decomposition is a single factor with
// exponent one.
func (d *Decomposition[P]) IsTrivial() bool {
	return len(d.Factors) == 1 && d.Exponents[0] == 1
}

// AddUnit multiplies the unit by u.
func (d *Decomposition[P]) AddUnit(u P) *Decomposition[P] {
	d.Unit = d.Unit.Mul(u)
	return d
}

// AddFactor records f^e. Constants fold into the unit, and a factor equal
// to one already present has its exponent increased.
func (d *Decomposition[P]) AddFactor(f P, e int) *Decomposition[P] {
	if f.IsConstant() {
		for i := 0; i < e; i++ {
			d.Unit = d.Unit.Mul(f)
		}
		return d
	}
	for i, g := range d.Factors {
		if g.Equal(f) {
			d.Exponents[i] += e
			return d
		}
	}
	d.Factors = append(d.Factors, f.Clone())
	d.Exponents = append(d.Exponents, e)
	return d
}

// AddAll merges o into d.
func (d *Decomposition[P]) AddAll(o *Decomposition[P]) *Decomposition[P] {
	d.AddUnit(o.Unit)
	for i, f := range o.Factors {
		d.AddFactor(f, o.Exponents[i])
	}
	return d
}

// RaiseExponents multiplies every exponent by k and raises the unit to k.
func (d *Decomposition[P]) RaiseExponents(k int) *Decomposition[P] {
	u := d.Unit.One()
	for i := 0; i < k; i++ {
		u = u.Mul(d.Unit)
	}
	d.Unit = u
	for i := range d.Exponents {
		d.Exponents[i] *= k
	}
	return d
}

// SumExponents returns the total multiplicity.
func (d *Decomposition[P]) SumExponents() int {
	s := 0
	for _, e := range d.Exponents {
		s += e
	}
	return s
}

// MultiplyOut returns the product of unit and factors with multiplicities.
func (d *Decomposition[P]) MultiplyOut() P {
	return d.multiply(false)
}

// MultiplyIgnoringExponents returns unit times the product of the factors
// each taken once.
func (d *Decomposition[P]) MultiplyIgnoringExponents() P {
	return d.multiply(true)
}

// SquareFreePart is the product of the distinct factors without the unit.
func (d *Decomposition[P]) SquareFreePart() P {
	acc := d.Unit.One()
	for _, f := range d.Factors {
		acc = acc.Mul(f)
	}
	return acc
}

func (d *Decomposition[P]) multiply(ignoreExponents bool) P {
	acc := d.Unit.Clone()
	for i, f := range d.Factors {
		e := d.Exponents[i]
		if ignoreExponents {
			e = 1
		}
		for j := 0; j < e; j++ {
			acc = acc.Mul(f)
		}
	}
	return acc
}

// Lc returns the leading coefficient of the product.
func (d *Decomposition[P]) Lc() P {
	acc := d.Unit.LcPoly()
	for i, f := range d.Factors {
		lc := f.LcPoly()
		for j := 0; j < d.Exponents[i]; j++ {
			acc = acc.Mul(lc)
		}
	}
	return acc
}

// SetLcFrom adjusts the unit so that the product has the leading
// coefficient of p. It reports false when the quotient is not exact.
func (d *Decomposition[P]) SetLcFrom(p P) bool {
	lc := d.Unit.One()
	for i, f := range d.Factors {
		l := f.LcPoly()
		for j := 0; j < d.Exponents[i]; j++ {
			lc = lc.Mul(l)
		}
	}
	u, ok := p.LcPoly().DivideExact(lc)
	if !ok {
		return false
	}
	d.Unit = u
	return true
}

// Clone returns a deep copy.
func (d *Decomposition[P]) Clone() *Decomposition[P] {
	c := New(d.Unit)
	for i, f := range d.Factors {
		c.Factors = append(c.Factors, f.Clone())
		c.Exponents = append(c.Exponents, d.Exponents[i])
	}
	return c
}

// Canonical returns a copy with every factor normalized, removed content
// folded into the unit and factors sorted.
func (d *Decomposition[P]) Canonical() *Decomposition[P] {
	c := New(d.Unit)
	for i, f := range d.Factors {
		n, u := f.Normalize()
		for j := 0; j < d.Exponents[i]; j++ {
			c.Unit = c.Unit.Mul(u)
		}
		c.AddFactor(n, d.Exponents[i])
	}
	idx := make([]int, len(c.Factors))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if cmp := c.Factors[idx[a]].Compare(c.Factors[idx[b]]); cmp != 0 {
			return cmp < 0
		}
		return c.Exponents[idx[a]] < c.Exponents[idx[b]]
	})
	factors := make([]P, len(idx))
	exps := make([]int, len(idx))
	for i, j := range idx {
		factors[i], exps[i] = c.Factors[j], c.Exponents[j]
	}
	c.Factors, c.Exponents = factors, exps
	return c
}

// Equal compares canonical forms.
func (d *Decomposition[P]) Equal(o *Decomposition[P]) bool {
	a, b := d.Canonical(), o.Canonical()
	if len(a.Factors) != len(b.Factors) || !a.Unit.Equal(b.Unit) {
		return false
	}
	for i := range a.Factors {
		if a.Exponents[i] != b.Exponents[i] || !a.Factors[i].Equal(b.Factors[i]) {
			return false
		}
	}
	return true
}

// Map applies fn to the unit and every factor. fn is expected to be a ring
// homomorphism or a change of variables; constants produced by fn are
// folded into the unit.
func Map[P Polynomial[P], Q Polynomial[Q]](d *Decomposition[P], fn func(P) Q) *Decomposition[Q] {
	out := New(fn(d.Unit))
	for i, f := range d.Factors {
		out.AddFactor(fn(f), d.Exponents[i])
	}
	return out
}

func (d *Decomposition[P]) String() string {
	var b strings.Builder
	b.WriteString(d.Unit.String())
	for i, f := range d.Factors {
		b.WriteString(" * (")
		b.WriteString(f.String())
		b.WriteString(")")
		if d.Exponents[i] != 1 {
			b.WriteString("^")
			b.WriteString(strconv.Itoa(d.Exponents[i]))
		}
	}
	return b.String()
}
