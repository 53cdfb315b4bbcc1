package mpoly

// GCD returns the normalized greatest common divisor of a and b. Over Z,
// Q and fields the GCD is computed by modular methods; other rings use a
// recursive primitive pseudo-remainder sequence in the highest common
// variable.
func GCD[E any](a, b *Poly[E]) *Poly[E] {
	a.check(b)
	switch {
	case a.IsZero():
		return b.unitNormal()
	case b.IsZero():
		return a.unitNormal()
	case a.IsConstant() || b.IsConstant():
		return a.ConstantLike(a.ring.GCD(a.Content(), b.Content()))
	}
	if g, ok := modularGCD(a, b); ok {
		return g
	}
	return prsGCD(a, b)
}

// prsGCD is the pseudo-remainder GCD of two nonconstant polynomials.
func prsGCD[E any](a, b *Poly[E]) *Poly[E] {
	ua, ub := a.UsedVariables(), b.UsedVariables()
	v := -1
	for i := a.nvars - 1; i >= 0; i-- {
		if ua[i] && ub[i] {
			v = i
			break
		}
	}
	if v < 0 {
		// a and b live in disjoint sets of variables.
		return GCD(ContentAll(a), ContentAll(b))
	}
	ca, cb := ContentAlong(a, v), ContentAlong(b, v)
	pa, _ := a.DivideExact(ca)
	pb, _ := b.DivideExact(cb)
	g0 := GCD(ca, cb)
	if pa.Degree(v) < pb.Degree(v) {
		pa, pb = pb, pa
	}
	for !pb.IsZero() {
		rem := pseudoRem(pa, pb, v)
		pa = pb
		if rem.IsZero() {
			pb = rem
		} else {
			pb = PrimitivePartAlong(rem, v)
		}
	}
	return PrimitivePartAlong(pa, v).PrimitivePart().Mul(g0)
}

// unitNormal divides out the leading unit: monic over fields, positive
// leading coefficient otherwise.
func (p *Poly[E]) unitNormal() *Poly[E] {
	if p.IsZero() {
		return p.Clone()
	}
	if p.ring.IsField() {
		m, _ := p.Monic()
		return m
	}
	if p.ring.Signum(p.Lc()) < 0 {
		return p.Neg()
	}
	return p.Clone()
}

// GCDAll returns the GCD of all polynomials.
func GCDAll[E any](ps ...*Poly[E]) *Poly[E] {
	g := ps[0].ZeroLike()
	for _, p := range ps {
		g = GCD(g, p)
		if g.IsOne() {
			break
		}
	}
	return g
}

// ContentAll reduces p to the GCD of its coefficients as a constant.
func ContentAll[E any](p *Poly[E]) *Poly[E] {
	return p.ConstantLike(p.Content())
}

// ContentAlong returns the GCD of the coefficients of p viewed as a
// univariate polynomial in x_v.
func ContentAlong[E any](p *Poly[E], v int) *Poly[E] {
	var cs []*Poly[E]
	for _, c := range p.AsUnivariate(v) {
		if !c.IsZero() {
			cs = append(cs, c)
		}
	}
	if len(cs) == 0 {
		return p.ZeroLike()
	}
	return GCDAll(cs...)
}

// ContentIn returns the content of p in R[x_v]: the GCD of the
// coefficients of p viewed as a polynomial in the other variables.
func ContentIn[E any](p *Poly[E], v int) *Poly[E] {
	if p.IsZero() {
		return p.ZeroLike()
	}
	return GCDAll(coefficientsIn(p, v)...)
}

// coefficientsIn splits p into polynomials in x_v, one per monomial in the
// other variables.
func coefficientsIn[E any](p *Poly[E], v int) []*Poly[E] {
	index := make(map[string]int)
	var groups [][]Term[E]
	for _, t := range p.terms {
		key := make([]int, len(t.Exp))
		copy(key, t.Exp)
		key[v] = 0
		k := expKey(key)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		exp := make([]int, len(t.Exp))
		exp[v] = t.Exp[v]
		groups[i] = append(groups[i], Term[E]{Exp: exp, Coef: t.Coef})
	}
	cs := make([]*Poly[E], len(groups))
	for i, g := range groups {
		cs[i] = FromTerms(p.ring, p.nvars, p.order, g)
	}
	return cs
}

// PrimitivePartAlong divides out ContentAlong(p, v).
func PrimitivePartAlong[E any](p *Poly[E], v int) *Poly[E] {
	if p.IsZero() {
		return p.Clone()
	}
	q, ok := p.DivideExact(ContentAlong(p, v))
	if !ok {
		panic("mpoly: content does not divide " + p.String())
	}
	return q
}

// pseudoRem returns a multiple of a reduced modulo b in x_v.
func pseudoRem[E any](a, b *Poly[E], v int) *Poly[E] {
	lcb := b.LcIn(v)
	db := b.Degree(v)
	one := a.ring.One()
	rem := a
	for !rem.IsZero() && rem.Degree(v) >= db {
		dr := rem.Degree(v)
		exp := make([]int, a.nvars)
		exp[v] = dr - db
		rem = rem.Mul(lcb).Sub(b.Mul(rem.LcIn(v)).MulMonomial(exp, one))
	}
	return rem
}

// Coprime reports whether a and b have constant GCD.
func Coprime[E any](a, b *Poly[E]) bool {
	return GCD(a, b).IsConstant()
}
