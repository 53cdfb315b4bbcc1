package upoly

import (
	"math/big"

	log "github.com/sirupsen/logrus"

	"github.com/tueda/rings/decomp"
	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/combinat"
)

// goodPrimeTrials is how many good primes are tried before keeping the one
// with the fewest modular factors.
const goodPrimeTrials = 3

// FactorZ returns the irreducible factorization of f over Z. The unit is
// the signed content.
func FactorZ(f *Poly[*big.Int]) *decomp.Decomposition[*Poly[*big.Int]] {
	if f.IsConstant() {
		return decomp.New(f)
	}
	sqf := SquareFree(f)
	out := decomp.New(sqf.Unit)
	for i, g := range sqf.Factors {
		for _, h := range FactorSquareFreeZ(g) {
			out.AddFactor(h, sqf.Exponents[i])
		}
	}
	return out
}

// FactorQ factors over Q by clearing denominators.
func FactorQ(f *Poly[*big.Rat]) *decomp.Decomposition[*Poly[*big.Rat]] {
	if f.IsConstant() {
		return decomp.New(f)
	}
	z, den := ClearDenominators(f)
	fz := FactorZ(z)
	out := decomp.New(Constant[*big.Rat](domain.Q, new(big.Rat).SetFrac(fz.Unit.Lc(), den)))
	for i, g := range fz.Factors {
		h, unit := ToRational(g).Normalize()
		out.AddUnit(unit.Pow(fz.Exponents[i]))
		out.AddFactor(h, fz.Exponents[i])
	}
	return out
}

// ClearDenominators returns the integer polynomial den*f and den.
func ClearDenominators(f *Poly[*big.Rat]) (*Poly[*big.Int], *big.Int) {
	den := big.NewInt(1)
	for _, c := range f.Coeffs {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, den, d)
		den.Mul(den, new(big.Int).Quo(d, g))
	}
	z := Map[*big.Rat, *big.Int](f, domain.Z, func(c *big.Rat) *big.Int {
		v := new(big.Int).Mul(c.Num(), den)
		return v.Quo(v, c.Denom())
	})
	return z, den
}

// ToRational maps an integer polynomial into Q[x].
func ToRational(f *Poly[*big.Int]) *Poly[*big.Rat] {
	return Map[*big.Int, *big.Rat](f, domain.Q, domain.Q.FromBig)
}

// FactorSquareFreeZ factors a primitive square-free polynomial with
// positive leading coefficient by Zassenhaus' algorithm.
func FactorSquareFreeZ(f *Poly[*big.Int]) []*Poly[*big.Int] {
	if f.Degree() < 1 {
		return nil
	}
	var out []*Poly[*big.Int]
	if f.Cc().Sign() == 0 {
		x := X[*big.Int](domain.Z)
		out = append(out, x)
		f = mustDivide(f, x)
		if f.Degree() < 1 {
			return out
		}
	}
	if f.Degree() == 1 {
		return append(out, f)
	}

	zp, modular := chooseGoodPrime(f)
	if len(modular) == 1 {
		return append(out, f)
	}
	p := new(big.Int).SetUint64(zp.Modulus())
	bound := new(big.Int).Mul(MignotteBound(f), new(big.Int).Abs(f.Lc()))
	bound.Lsh(bound, 1)
	k, modulus := 1, new(big.Int).Set(p)
	for modulus.Cmp(bound) <= 0 {
		modulus.Mul(modulus, p)
		k++
	}
	lifted := HenselLiftZ(f, modular, zp, k)
	return append(out, recombineZ(f, lifted, modulus)...)
}

func chooseGoodPrime(f *Poly[*big.Int]) (*domain.Zp64, []*Poly[uint64]) {
	var (
		best      *domain.Zp64
		bestFacts []*Poly[uint64]
	)
	rnd := domain.Default()
	p := uint64(2)
	for found := 0; found < goodPrimeTrials; {
		p = domain.NextPrime(p)
		zp := domain.MustZp64(p)
		if zp.FromBig(f.Lc()) == 0 {
			continue
		}
		img := Map[*big.Int, uint64](f, zp, zp.FromBig)
		if !IsSquareFree(img) {
			continue
		}
		monic, _ := img.Monic()
		facts := FactorSquareFreeFinite(monic, rnd)
		found++
		if best == nil || len(facts) < len(bestFacts) {
			best, bestFacts = zp, facts
		}
		if len(bestFacts) == 1 {
			break
		}
	}
	log.Debugf("upoly: prime %d gives %d modular factors", best.Modulus(), len(bestFacts))
	return best, bestFacts
}

// MignotteBound bounds the coefficients of any factor of f:
// 2^deg(f) * ||f||_2.
func MignotteBound(f *Poly[*big.Int]) *big.Int {
	sum := new(big.Int)
	for _, c := range f.Coeffs {
		sum.Add(sum, new(big.Int).Mul(c, c))
	}
	norm := new(big.Int).Sqrt(sum)
	norm.Add(norm, big.NewInt(1))
	return norm.Lsh(norm, uint(f.Degree()))
}

// HenselLiftZ lifts f = lc(f) * prod(factors) mod p to monic factors
// modulo p^k with f = lc(f) * prod(lifted) mod p^k. p must not divide
// lc(f) and the modular factors must be pairwise coprime.
func HenselLiftZ(f *Poly[*big.Int], factors []*Poly[uint64], zp *domain.Zp64, k int) []*Poly[*big.Int] {
	p := new(big.Int).SetUint64(zp.Modulus())
	modulus := new(big.Int).Exp(p, big.NewInt(int64(k)), nil)
	return liftTree(ReduceMod(f, modulus), factors, zp, modulus)
}

func liftTree(f *Poly[*big.Int], factors []*Poly[uint64], zp *domain.Zp64, modulus *big.Int) []*Poly[*big.Int] {
	if len(factors) == 1 {
		inv := new(big.Int).ModInverse(f.Lc(), modulus)
		return []*Poly[*big.Int]{ReduceMod(f.Scale(inv), modulus)}
	}
	half := len(factors) / 2
	lcp := zp.FromBig(f.Lc())
	g0 := Constant[uint64](zp, lcp)
	for _, a := range factors[:half] {
		g0 = g0.Mul(a)
	}
	h0 := factors[half].One()
	for _, b := range factors[half:] {
		h0 = h0.Mul(b)
	}
	s0, t0, err := Bezout(g0, h0)
	if err != nil {
		panic(err)
	}
	g, h, s, t := toZ(g0), toZ(h0), toZ(s0), toZ(t0)
	p := new(big.Int).SetUint64(zp.Modulus())
	for m := new(big.Int).Set(p); m.Cmp(modulus) < 0; {
		m2 := new(big.Int).Mul(m, m)
		if m2.Cmp(modulus) > 0 {
			m2.Set(modulus)
		}
		g, h, s, t = henselStep(f, g, h, s, t, m2)
		m = m2
	}
	return append(liftTree(g, factors[:half], zp, modulus), liftTree(h, factors[half:], zp, modulus)...)
}

// henselStep is the quadratic Hensel step: given f = g*h and s*g + t*h = 1
// modulo m with h monic, it returns the same relations modulo m2.
func henselStep(f, g, h, s, t *Poly[*big.Int], m2 *big.Int) (*Poly[*big.Int], *Poly[*big.Int], *Poly[*big.Int], *Poly[*big.Int]) {
	e := ReduceMod(f.Sub(g.Mul(h)), m2)
	q, r, _ := ReduceMod(s.Mul(e), m2).DivRem(h)
	gs := ReduceMod(g.Add(t.Mul(e)).Add(q.Mul(g)), m2)
	hs := ReduceMod(h.Add(r), m2)
	b := ReduceMod(s.Mul(gs).Add(t.Mul(hs)).Sub(gs.One()), m2)
	c, d, _ := ReduceMod(s.Mul(b), m2).DivRem(hs)
	ss := ReduceMod(s.Sub(d), m2)
	ts := ReduceMod(t.Sub(t.Mul(b)).Sub(c.Mul(gs)), m2)
	return gs, hs, ss, ts
}

func toZ(p *Poly[uint64]) *Poly[*big.Int] {
	return Map[uint64, *big.Int](p, domain.Z, func(c uint64) *big.Int {
		return new(big.Int).SetUint64(c)
	})
}

// ReduceMod maps every coefficient into [0, m).
func ReduceMod(p *Poly[*big.Int], m *big.Int) *Poly[*big.Int] {
	return Map[*big.Int, *big.Int](p, p.Ring, func(c *big.Int) *big.Int {
		return new(big.Int).Mod(c, m)
	})
}

// Symmetric maps every coefficient into (-m/2, m/2].
func Symmetric(p *Poly[*big.Int], m *big.Int) *Poly[*big.Int] {
	half := new(big.Int).Rsh(m, 1)
	return Map[*big.Int, *big.Int](p, p.Ring, func(c *big.Int) *big.Int {
		v := new(big.Int).Mod(c, m)
		if v.Cmp(half) > 0 {
			v.Sub(v, m)
		}
		return v
	})
}

// recombineZ searches subsets of the lifted factors whose product, scaled
// by the leading coefficient and reduced symmetrically, divides f.
func recombineZ(f *Poly[*big.Int], lifted []*Poly[*big.Int], modulus *big.Int) []*Poly[*big.Int] {
	var out []*Poly[*big.Int]
	rest := lifted
	for s := 1; 2*s <= len(rest); s++ {
		it := combinat.New(len(rest), s)
		for it.Next() {
			idx := it.Indices()
			cand := Constant(f.Ring, f.Lc())
			for _, i := range idx {
				cand = ReduceMod(cand.Mul(rest[i]), modulus)
			}
			cand = Symmetric(cand, modulus).PrimitivePart()
			q, ok := f.DivideExact(cand)
			if !ok {
				continue
			}
			out = append(out, cand)
			f = q
			rest = combinat.Remove(rest, idx)
			if 2*s > len(rest) {
				break
			}
			it = combinat.New(len(rest), s)
		}
	}
	if f.Degree() > 0 {
		out = append(out, f.PrimitivePart())
	}
	return out
}
