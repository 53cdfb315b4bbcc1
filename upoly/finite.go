package upoly

import (
	"math/big"

	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/domain"
)

// FactorSquareFreeFinite factors a monic square-free polynomial over a
// finite field into monic irreducibles by distinct-degree factorization
// followed by Cantor-Zassenhaus equal-degree splitting.
func FactorSquareFreeFinite[E any](f *Poly[E], rnd *domain.RNG) []*Poly[E] {
	if f.Degree() < 1 {
		return nil
	}
	if f.Degree() == 1 {
		return []*Poly[E]{f.Clone()}
	}
	var out []*Poly[E]
	for _, dd := range distinctDegree(f) {
		out = append(out, equalDegree(dd.poly, dd.degree, rnd)...)
	}
	return out
}

type ddfPart[E any] struct {
	poly   *Poly[E]
	degree int
}

func distinctDegree[E any](f *Poly[E]) []ddfPart[E] {
	r := f.Ring
	q := r.Cardinality()
	x := X(r)
	h := x.Clone()
	var out []ddfPart[E]
	for i := 1; 2*i <= f.Degree(); i++ {
		h = h.PowMod(q, f)
		g := GCD(h.Sub(x), f)
		if g.Degree() > 0 {
			out = append(out, ddfPart[E]{poly: g, degree: i})
			f = mustDivide(f, g)
			h = h.Rem(f)
		}
	}
	if f.Degree() > 0 {
		out = append(out, ddfPart[E]{poly: f, degree: f.Degree()})
	}
	return out
}

func equalDegree[E any](f *Poly[E], d int, rnd *domain.RNG) []*Poly[E] {
	if f.Degree() == d {
		return []*Poly[E]{f}
	}
	r := f.Ring
	q := r.Cardinality()
	odd := q.Bit(0) == 1
	var exp *big.Int
	if odd {
		// (q^d - 1) / 2
		exp = new(big.Int).Exp(q, big.NewInt(int64(d)), nil)
		exp.Sub(exp, big.NewInt(1))
		exp.Rsh(exp, 1)
	}
	for {
		a := randomPoly(r, f.Degree(), rnd)
		if a.Degree() < 1 {
			continue
		}
		var b *Poly[E]
		if odd {
			b = a.PowMod(exp, f).Sub(a.One())
		} else {
			b = traceMap(a, f, d)
		}
		g := GCD(b, f)
		if g.Degree() > 0 && g.Degree() < f.Degree() {
			return append(equalDegree(g, d, rnd), equalDegree(mustDivide(f, g), d, rnd)...)
		}
	}
}

// traceMap returns a + a^2 + a^4 + ... + a^(2^(m*d-1)) mod f for a field of
// cardinality 2^m.
func traceMap[E any](a, f *Poly[E], d int) *Poly[E] {
	m := a.Ring.Cardinality().BitLen() - 1
	two := big.NewInt(2)
	acc := a.Rem(f)
	t := acc
	for i := 1; i < m*d; i++ {
		t = t.PowMod(two, f)
		acc = acc.Add(t)
	}
	return acc
}

func randomPoly[E any](r domain.Ring[E], n int, rnd *domain.RNG) *Poly[E] {
	cs := make([]E, n)
	for i := range cs {
		cs[i] = r.Random(rnd)
	}
	return New(r, cs...)
}

// FactorFinite returns the irreducible factorization of f over a finite
// field. The unit is the leading coefficient.
func FactorFinite[E any](f *Poly[E], rnd *domain.RNG) *decomp.Decomposition[*Poly[E]] {
	if f.IsConstant() {
		return decomp.New(f)
	}
	sqf := SquareFree(f)
	out := decomp.New(Constant(f.Ring, f.Lc()))
	for i, g := range sqf.Factors {
		for _, h := range FactorSquareFreeFinite(g, rnd) {
			out.AddFactor(h, sqf.Exponents[i])
		}
	}
	return out
}
