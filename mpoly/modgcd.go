package mpoly

import (
	"math/big"

	log "github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
	"github.com/tueda/rings/internal/fieldext"
	"github.com/tueda/rings/internal/kfield"
	"github.com/tueda/rings/upoly"
)

// errOutOfPoints is returned when a finite field has too few elements to
// interpolate a GCD.
var errOutOfPoints = errgo.New("evaluation points exhausted")

const (
	// modularPrimeStart is the bound above which the primes of the
	// integer GCD are taken.
	modularPrimeStart = 1 << 61

	// minExtensionBits is the size in bits of the smallest extension a
	// small field moves to when it runs out of evaluation points.
	minExtensionBits = 10

	// maxGCDExtensions bounds the extension degrees tried.
	maxGCDExtensions = 4
)

// modularGCD computes the GCD of two nonconstant polynomials by reduction
// to word-size prime fields over Z and Q and by dense evaluation and
// interpolation over fields. It reports false for rings it does not
// handle, which are left to the pseudo-remainder sequence.
func modularGCD[E any](a, b *Poly[E]) (*Poly[E], bool) {
	la, lb := a.SetOrder(Lex), b.SetOrder(Lex)
	var (
		g   *Poly[E]
		err error
	)
	switch any(a.ring).(type) {
	case *domain.Integers:
		var h *Poly[*big.Int]
		h, err = integerGCD(any(la).(*Poly[*big.Int]), any(lb).(*Poly[*big.Int]))
		g, _ = any(h).(*Poly[E])
	case *domain.Rationals:
		var h *Poly[*big.Rat]
		h, err = rationalGCD(any(la).(*Poly[*big.Rat]), any(lb).(*Poly[*big.Rat]))
		g, _ = any(h).(*Poly[E])
	default:
		if !a.ring.IsField() {
			return nil, false
		}
		g, err = fieldGCD(la, lb)
	}
	if err != nil {
		log.Debugf("mpoly: modular gcd over %s failed: %v", a.ring, err)
		return nil, false
	}
	return g.SetOrder(a.order).unitNormal(), true
}

// fieldGCD returns the monic GCD of a and b in lex order over a field. A
// finite field too small to supply evaluation points is extended.
func fieldGCD[E any](a, b *Poly[E]) (*Poly[E], error) {
	g, err := brown(a, b, newPoints(a.ring))
	if errgo.Cause(err) != errOutOfPoints {
		return g, err
	}
	extend, ok := fieldext.For(a.ring)
	if !ok {
		return nil, err
	}
	return gcdInExtension(a, b, extend)
}

// gcdInExtension computes the GCD of a and b over an extension with at
// least 2^minExtensionBits elements and maps it back. The monic GCD of
// polynomials over a field does not depend on the extension.
func gcdInExtension[E any](a, b *Poly[E], extend fieldext.Extender[E]) (*Poly[E], error) {
	bits := a.ring.Cardinality().BitLen() - 1
	degree := 2
	for bits*degree < minExtensionBits {
		degree++
	}
	rnd := domain.NewSeededRNG(int64(degree))
	lastErr := errOutOfPoints
	for i := 0; i < maxGCDExtensions; i, degree = i+1, degree+1 {
		e, err := extend(degree, rnd)
		if err != nil {
			return nil, err
		}
		log.Debugf("mpoly: gcd over %s", e.Field)
		gk, err := brown(MapCoefficients(a, e.Field, e.To), MapCoefficients(b, e.Field, e.To), newPoints[kfield.Elem](e.Field))
		if errgo.Cause(err) == errOutOfPoints {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}
		var bad bool
		g := MapCoefficients(gk, a.ring, func(c kfield.Elem) E {
			v, ok := e.Back(c)
			bad = bad || !ok
			return v
		})
		if bad {
			return nil, errgo.Newf("mpoly: gcd %s is not defined over %s", gk, a.ring)
		}
		return g, nil
	}
	return nil, errgo.WithCausef(lastErr, errOutOfPoints, "no extension of %s up to degree %d", a.ring, degree-1)
}

// points enumerates the elements of a field in a fixed order.
type points[E any] struct {
	ring domain.Ring[E]
	card *big.Int
	gf   *kfield.Field
}

func newPoints[E any](r domain.Ring[E]) points[E] {
	p := points[E]{ring: r, card: r.Cardinality()}
	if g, ok := any(r).(*domain.GaloisField); ok {
		p.gf = g.Field()
	}
	return p
}

// at returns the i-th element, or false past the end of a finite field.
func (p points[E]) at(i int64) (E, bool) {
	if p.card != nil && p.card.IsInt64() && i >= p.card.Int64() {
		var zero E
		return zero, false
	}
	if p.gf != nil {
		coords := make([]uint64, 0, p.gf.K)
		for n := uint64(i); n > 0; n /= p.gf.P {
			coords = append(coords, n%p.gf.P)
		}
		return any(p.gf.FromCoordinates(coords)).(E), true
	}
	return p.ring.FromInt64(i), true
}

// brown returns the monic GCD of a and b over a field, both in lex order.
// The last variable either depends on is eliminated by evaluation at
// successive points; the images are scaled to a common leading coefficient
// and interpolated until the candidate divides both inputs.
func brown[E any](a, b *Poly[E], pts points[E]) (*Poly[E], error) {
	switch {
	case a.IsZero():
		return b.unitNormal(), nil
	case b.IsZero():
		return a.unitNormal(), nil
	case a.IsConstant() || b.IsConstant():
		return a.One(), nil
	}
	ua, ub := a.UsedVariables(), b.UsedVariables()
	v, used := -1, 0
	for i := a.nvars - 1; i >= 0; i-- {
		if ua[i] || ub[i] {
			if v < 0 {
				v = i
			}
			used++
		}
	}
	if used == 1 {
		return a.FromUpoly(v, upoly.GCD(a.ToUpoly(v), b.ToUpoly(v))).unitNormal(), nil
	}
	if !ua[v] || !ub[v] {
		// the GCD is free of x_v and divides every coefficient in x_v.
		f, g := a, b
		if !ua[v] {
			f, g = b, a
		}
		var err error
		for _, c := range f.AsUnivariate(v) {
			if c.IsZero() {
				continue
			}
			if g, err = brown(g, c, pts); err != nil || g.IsOne() {
				return g, err
			}
		}
		return g, nil
	}

	r := a.ring
	ca, cb := univariateContent(a, v), univariateContent(b, v)
	cg := upoly.GCD(ca, cb)
	a1, b1 := divideUnivariate(a, v, ca), divideUnivariate(b, v, cb)
	gamma := upoly.GCD(leadingIn(a1, v), leadingIn(b1, v))
	need := min(a1.Degree(v), b1.Degree(v)) + gamma.Degree() + 1
	x := upoly.X(r)

	var (
		h    *Poly[E]
		m    *upoly.Poly[E]
		lead []int
		n    int
	)
	for i := int64(0); ; i++ {
		pt, ok := pts.at(i)
		if !ok {
			return nil, errgo.WithCausef(nil, errOutOfPoints, "x_%d over %s", v, r)
		}
		gpt := gamma.Evaluate(pt)
		if r.IsZero(gpt) {
			continue
		}
		gi, err := brown(a1.Evaluate(v, pt), b1.Evaluate(v, pt), pts)
		if err != nil {
			return nil, err
		}
		if gi.IsConstant() {
			return a.FromUpoly(v, cg).unitNormal(), nil
		}
		e := gi.Lt().Exp
		if h != nil {
			switch c := lexCompare(e, lead); {
			case c > 0:
				continue
			case c < 0:
				h = nil
			}
		}
		gi = gi.Scale(gpt)
		linear := x.Sub(upoly.Constant(r, pt))
		if h == nil {
			h, m, lead, n = gi, linear, e, 1
		} else {
			if diff := gi.Sub(h.Evaluate(v, pt)); !diff.IsZero() {
				inv, _ := r.Quo(r.One(), m.Evaluate(pt))
				h = h.Add(diff.Mul(a.FromUpoly(v, m.Scale(inv))))
			}
			m = m.Mul(linear)
			n++
		}
		if n < need {
			continue
		}
		g := divideUnivariate(h, v, univariateContent(h, v))
		if a1.Divides(g) && b1.Divides(g) {
			return g.Mul(a.FromUpoly(v, cg)).unitNormal(), nil
		}
	}
}

// univariateContent returns the GCD over F[x_v] of the coefficients of p
// viewed as a polynomial in the other variables.
func univariateContent[E any](p *Poly[E], v int) *upoly.Poly[E] {
	g := upoly.Zero(p.ring)
	for _, c := range coefficientsIn(p, v) {
		g = upoly.GCD(g, c.ToUpoly(v))
		if g.IsConstant() {
			break
		}
	}
	return g
}

// divideUnivariate divides p by a polynomial c in x_v that divides it.
func divideUnivariate[E any](p *Poly[E], v int, c *upoly.Poly[E]) *Poly[E] {
	if c.IsConstant() {
		q, _ := p.DivideScalar(c.Lc())
		return q
	}
	q, ok := p.DivideExact(p.FromUpoly(v, c))
	if !ok {
		panic("mpoly: content does not divide " + p.String())
	}
	return q
}

// leadingIn returns the leading coefficient of p over F[x_v], for p in
// lex order with x_v its last variable.
func leadingIn[E any](p *Poly[E], v int) *upoly.Poly[E] {
	first := p.terms[0].Exp
	cs := make([]E, first[v]+1)
	for i := range cs {
		cs[i] = p.ring.Zero()
	}
	for _, t := range p.terms {
		if !sameExcept(t.Exp, first, v) {
			break
		}
		cs[t.Exp[v]] = t.Coef
	}
	return upoly.New(p.ring, cs...)
}

func sameExcept(a, b []int, v int) bool {
	for i := range a {
		if i != v && a[i] != b[i] {
			return false
		}
	}
	return true
}

// integerGCD computes the GCD over Z from images over word-size primes,
// combined by Chinese remaindering. A candidate is tried whenever a new
// prime leaves it unchanged.
func integerGCD(a, b *Poly[*big.Int]) (*Poly[*big.Int], error) {
	ca, cb := a.Content(), b.Content()
	c := new(big.Int).GCD(nil, nil, ca, cb)
	a, _ = a.DivideScalar(ca)
	b, _ = b.DivideScalar(cb)
	gamma := new(big.Int).GCD(nil, nil, a.Lc(), b.Lc())

	var (
		h    *Poly[*big.Int]
		m    *big.Int
		lead []int
	)
	for p := uint64(modularPrimeStart); ; {
		p = domain.NextPrime(p)
		zp := domain.MustZp64(p)
		if zp.FromBig(a.Lc()) == 0 || zp.FromBig(b.Lc()) == 0 {
			continue
		}
		gp, err := fieldGCD(MapCoefficients(a, zp, zp.FromBig), MapCoefficients(b, zp, zp.FromBig))
		if err != nil {
			return nil, err
		}
		if gp.IsConstant() {
			return a.ConstantLike(c), nil
		}
		e := gp.Lt().Exp
		if h != nil {
			switch cmp := lexCompare(e, lead); {
			case cmp > 0:
				continue
			case cmp < 0:
				h = nil
			}
		}
		gp = gp.Scale(zp.FromBig(gamma))
		var next *Poly[*big.Int]
		if h == nil {
			next = MapCoefficients(gp, a.ring, func(x uint64) *big.Int { return big.NewInt(zp.Symmetric(x)) })
			m, lead = new(big.Int).SetUint64(p), e
		} else {
			next = combineCRT(h, m, gp, zp)
			m = new(big.Int).Mul(m, new(big.Int).SetUint64(p))
		}
		stable := h == nil || next.Equal(h)
		h = next
		if !stable {
			continue
		}
		g := h.PrimitivePart()
		if a.Divides(g) && b.Divides(g) {
			return g.Scale(c), nil
		}
	}
}

// combineCRT returns the polynomial congruent to h modulo m and to g modulo
// p, with coefficients in the symmetric range modulo m*p.
func combineCRT(h *Poly[*big.Int], m *big.Int, g *Poly[uint64], zp *domain.Zp64) *Poly[*big.Int] {
	mp := new(big.Int).Mul(m, new(big.Int).SetUint64(zp.Modulus()))
	half := new(big.Int).Rsh(mp, 1)
	mInv := zp.Inv(zp.FromBig(m))
	rest := make(map[string]bool, len(g.terms))
	gs := make(map[string]uint64, len(g.terms))
	for _, t := range g.terms {
		k := expKey(t.Exp)
		gs[k], rest[k] = t.Coef, true
	}
	terms := make([]Term[*big.Int], 0, len(h.terms)+len(g.terms))
	lift := func(exp []int, hv *big.Int, gv uint64) {
		d := zp.Mul(zp.Sub(gv, zp.FromBig(hv)), mInv)
		x := new(big.Int).SetUint64(d)
		x.Mul(x, m).Add(x, hv).Mod(x, mp)
		if x.Cmp(half) > 0 {
			x.Sub(x, mp)
		}
		if x.Sign() != 0 {
			terms = append(terms, Term[*big.Int]{Exp: exp, Coef: x})
		}
	}
	for _, t := range h.terms {
		k := expKey(t.Exp)
		delete(rest, k)
		lift(t.Exp, t.Coef, gs[k])
	}
	zero := new(big.Int)
	for _, t := range g.terms {
		if rest[expKey(t.Exp)] {
			lift(t.Exp, zero, t.Coef)
		}
	}
	return FromTerms(h.ring, h.nvars, h.order, terms)
}

// rationalGCD clears denominators and takes the GCD over Z.
func rationalGCD(a, b *Poly[*big.Rat]) (*Poly[*big.Rat], error) {
	g, err := integerGCD(clearDenominators(a), clearDenominators(b))
	if err != nil {
		return nil, err
	}
	return MapCoefficients(g, a.ring, func(c *big.Int) *big.Rat { return new(big.Rat).SetInt(c) }), nil
}

// clearDenominators returns the integer multiple of p by the LCM of the
// denominators of its coefficients.
func clearDenominators(p *Poly[*big.Rat]) *Poly[*big.Int] {
	l := big.NewInt(1)
	for _, t := range p.terms {
		d := t.Coef.Denom()
		l.Mul(l, d).Quo(l, new(big.Int).GCD(nil, nil, l, d))
	}
	return MapCoefficients(p, domain.Z, func(c *big.Rat) *big.Int {
		x := new(big.Int).Mul(c.Num(), l)
		return x.Quo(x, c.Denom())
	})
}
