// Package upoly implements dense univariate polynomials over the rings of
// package domain: arithmetic, division, GCD, square-free decomposition and
// factorization over finite fields, the integers and the rationals, plus the
// simple algebraic number fields Q[t]/(m(t)).
package upoly

import (
	"fmt"
	"math/big"
	"strings"

	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
)

var (
	// ErrNotDivisible is returned by exact division when a remainder is
	// left or a leading coefficient is not invertible.
	ErrNotDivisible = errgo.New("not divisible")

	// ErrNotCoprime is returned by the extended Euclidean algorithm when the
	// operands share a factor.
	ErrNotCoprime = errgo.New("polynomials are not coprime")
)

// Poly is a dense polynomial, coefficients low to high. The coefficient
// slice never ends with a zero; the zero polynomial has no coefficients.
type Poly[E any] struct {
	Ring   domain.Ring[E]
	Coeffs []E
}

// New returns the polynomial with the given coefficients, low to high.
func New[E any](r domain.Ring[E], coeffs ...E) *Poly[E] {
	p := &Poly[E]{Ring: r, Coeffs: append([]E(nil), coeffs...)}
	return p.trim()
}

// FromInt64 builds a polynomial from small integer coefficients, low to high.
func FromInt64[E any](r domain.Ring[E], coeffs ...int64) *Poly[E] {
	cs := make([]E, len(coeffs))
	for i, c := range coeffs {
		cs[i] = r.FromInt64(c)
	}
	return (&Poly[E]{Ring: r, Coeffs: cs}).trim()
}

// Zero returns the zero polynomial.
func Zero[E any](r domain.Ring[E]) *Poly[E] {
	return &Poly[E]{Ring: r}
}

// Constant returns the constant polynomial c.
func Constant[E any](r domain.Ring[E], c E) *Poly[E] {
	return New(r, c)
}

// Monomial returns c*x^d.
func Monomial[E any](r domain.Ring[E], c E, d int) *Poly[E] {
	if r.IsZero(c) {
		return Zero(r)
	}
	cs := make([]E, d+1)
	for i := 0; i < d; i++ {
		cs[i] = r.Zero()
	}
	cs[d] = c
	return &Poly[E]{Ring: r, Coeffs: cs}
}

// X returns the polynomial x.
func X[E any](r domain.Ring[E]) *Poly[E] {
	return Monomial(r, r.One(), 1)
}

func (p *Poly[E]) trim() *Poly[E] {
	n := len(p.Coeffs)
	for n > 0 && p.Ring.IsZero(p.Coeffs[n-1]) {
		n--
	}
	p.Coeffs = p.Coeffs[:n]
	return p
}

func (p *Poly[E]) check(o *Poly[E]) {
	if !domain.Same(p.Ring, o.Ring) {
		panic(errgo.WithCausef(nil, domain.ErrDomainMismatch, "%s vs %s", p.Ring, o.Ring))
	}
}

// Degree returns the degree, -1 for the zero polynomial.
func (p *Poly[E]) Degree() int { return len(p.Coeffs) - 1 }

func (p *Poly[E]) IsZero() bool     { return len(p.Coeffs) == 0 }
func (p *Poly[E]) IsConstant() bool { return len(p.Coeffs) <= 1 }
func (p *Poly[E]) IsOne() bool      { return len(p.Coeffs) == 1 && p.Ring.IsOne(p.Coeffs[0]) }

// IsMonic reports whether the leading coefficient is one.
func (p *Poly[E]) IsMonic() bool { return !p.IsZero() && p.Ring.IsOne(p.Lc()) }

// Coef returns the coefficient of x^i.
func (p *Poly[E]) Coef(i int) E {
	if i < 0 || i >= len(p.Coeffs) {
		return p.Ring.Zero()
	}
	return p.Coeffs[i]
}

// Lc returns the leading coefficient, zero for the zero polynomial.
func (p *Poly[E]) Lc() E { return p.Coef(p.Degree()) }

// Cc returns the constant coefficient.
func (p *Poly[E]) Cc() E { return p.Coef(0) }

// Clone returns a copy. Coefficients are immutable and shared.
func (p *Poly[E]) Clone() *Poly[E] {
	return &Poly[E]{Ring: p.Ring, Coeffs: append([]E(nil), p.Coeffs...)}
}

// One returns the constant one over the same ring.
func (p *Poly[E]) One() *Poly[E] { return Constant(p.Ring, p.Ring.One()) }

// ZeroLike returns zero over the same ring.
func (p *Poly[E]) ZeroLike() *Poly[E] { return Zero(p.Ring) }

// ConstantLike returns c over the same ring.
func (p *Poly[E]) ConstantLike(c E) *Poly[E] { return Constant(p.Ring, c) }

// LcPoly returns the leading coefficient as a constant polynomial.
func (p *Poly[E]) LcPoly() *Poly[E] { return Constant(p.Ring, p.Lc()) }

func (p *Poly[E]) Equal(o *Poly[E]) bool {
	if len(p.Coeffs) != len(o.Coeffs) {
		return false
	}
	for i := range p.Coeffs {
		if !p.Ring.Equal(p.Coeffs[i], o.Coeffs[i]) {
			return false
		}
	}
	return true
}

// Compare orders by degree, then by coefficients from the top.
func (p *Poly[E]) Compare(o *Poly[E]) int {
	if d := p.Degree() - o.Degree(); d != 0 {
		if d < 0 {
			return -1
		}
		return 1
	}
	for i := p.Degree(); i >= 0; i-- {
		if c := p.Ring.Compare(p.Coeffs[i], o.Coeffs[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (p *Poly[E]) Add(o *Poly[E]) *Poly[E] {
	p.check(o)
	r := p.Ring
	n := max(len(p.Coeffs), len(o.Coeffs))
	cs := make([]E, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(p.Coeffs):
			cs[i] = o.Coeffs[i]
		case i >= len(o.Coeffs):
			cs[i] = p.Coeffs[i]
		default:
			cs[i] = r.Add(p.Coeffs[i], o.Coeffs[i])
		}
	}
	return (&Poly[E]{Ring: r, Coeffs: cs}).trim()
}

func (p *Poly[E]) Sub(o *Poly[E]) *Poly[E] {
	return p.Add(o.Neg())
}

func (p *Poly[E]) Neg() *Poly[E] {
	cs := make([]E, len(p.Coeffs))
	for i, c := range p.Coeffs {
		cs[i] = p.Ring.Neg(c)
	}
	return &Poly[E]{Ring: p.Ring, Coeffs: cs}
}

func (p *Poly[E]) Mul(o *Poly[E]) *Poly[E] {
	p.check(o)
	r := p.Ring
	if p.IsZero() || o.IsZero() {
		return Zero(r)
	}
	cs := make([]E, len(p.Coeffs)+len(o.Coeffs)-1)
	for i := range cs {
		cs[i] = r.Zero()
	}
	for i, a := range p.Coeffs {
		if r.IsZero(a) {
			continue
		}
		for j, b := range o.Coeffs {
			cs[i+j] = r.Add(cs[i+j], r.Mul(a, b))
		}
	}
	return (&Poly[E]{Ring: r, Coeffs: cs}).trim()
}

// Scale multiplies every coefficient by c.
func (p *Poly[E]) Scale(c E) *Poly[E] {
	cs := make([]E, len(p.Coeffs))
	for i, a := range p.Coeffs {
		cs[i] = p.Ring.Mul(a, c)
	}
	return (&Poly[E]{Ring: p.Ring, Coeffs: cs}).trim()
}

// DivideScalar divides every coefficient by c exactly.
func (p *Poly[E]) DivideScalar(c E) (*Poly[E], bool) {
	cs := make([]E, len(p.Coeffs))
	for i, a := range p.Coeffs {
		q, ok := p.Ring.Quo(a, c)
		if !ok {
			return nil, false
		}
		cs[i] = q
	}
	return (&Poly[E]{Ring: p.Ring, Coeffs: cs}).trim(), true
}

// ShiftLeft multiplies by x^k.
func (p *Poly[E]) ShiftLeft(k int) *Poly[E] {
	if p.IsZero() {
		return p.Clone()
	}
	cs := make([]E, k, len(p.Coeffs)+k)
	for i := range cs {
		cs[i] = p.Ring.Zero()
	}
	return &Poly[E]{Ring: p.Ring, Coeffs: append(cs, p.Coeffs...)}
}

// Truncate drops all terms of degree >= n.
func (p *Poly[E]) Truncate(n int) *Poly[E] {
	if n >= len(p.Coeffs) {
		return p.Clone()
	}
	return New(p.Ring, p.Coeffs[:n]...)
}

// Pow returns p^e.
func (p *Poly[E]) Pow(e int) *Poly[E] {
	result := p.One()
	base := p
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		e >>= 1
		if e > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// DivRem divides by b. Over rings that are not fields it fails when a
// leading coefficient of the running remainder is not divisible by lc(b).
func (p *Poly[E]) DivRem(b *Poly[E]) (q, rem *Poly[E], ok bool) {
	p.check(b)
	r := p.Ring
	if b.IsZero() {
		panic("upoly: division by zero polynomial")
	}
	if p.Degree() < b.Degree() {
		return Zero(r), p.Clone(), true
	}
	rc := append([]E(nil), p.Coeffs...)
	qc := make([]E, p.Degree()-b.Degree()+1)
	for i := range qc {
		qc[i] = r.Zero()
	}
	lc := b.Lc()
	db := b.Degree()
	for i := len(rc) - 1; i >= db; i-- {
		if r.IsZero(rc[i]) {
			continue
		}
		c, ok := r.Quo(rc[i], lc)
		if !ok {
			return nil, nil, false
		}
		qc[i-db] = c
		for j := 0; j <= db; j++ {
			rc[i-db+j] = r.Sub(rc[i-db+j], r.Mul(c, b.Coeffs[j]))
		}
	}
	q = (&Poly[E]{Ring: r, Coeffs: qc}).trim()
	rem = (&Poly[E]{Ring: r, Coeffs: rc[:db]}).trim()
	return q, rem, true
}

// Rem returns p mod b. It panics when the division is not defined.
func (p *Poly[E]) Rem(b *Poly[E]) *Poly[E] {
	_, rem, ok := p.DivRem(b)
	if !ok {
		panic(errgo.WithCausef(nil, ErrNotDivisible, "leading coefficient of %s", b))
	}
	return rem
}

// DivideExact returns p/b when b divides p.
func (p *Poly[E]) DivideExact(b *Poly[E]) (*Poly[E], bool) {
	q, rem, ok := p.DivRem(b)
	if !ok || !rem.IsZero() {
		return nil, false
	}
	return q, true
}

// PseudoRem returns lc(b)^(deg p - deg b + 1) * p mod b, computed without
// divisions.
func (p *Poly[E]) PseudoRem(b *Poly[E]) *Poly[E] {
	r := p.Ring
	rem := p.Clone()
	lc := b.Lc()
	db := b.Degree()
	k := p.Degree() - db + 1
	for !rem.IsZero() && rem.Degree() >= db {
		shift := rem.Degree() - db
		t := Monomial(r, rem.Lc(), shift).Mul(b)
		rem = rem.Scale(lc).Sub(t)
		k--
	}
	if k > 0 {
		rem = rem.Scale(domain.Pow(r, lc, uint64(k)))
	}
	return rem
}

// Monic divides by the leading coefficient.
func (p *Poly[E]) Monic() (*Poly[E], bool) {
	if p.IsZero() {
		return p.Clone(), true
	}
	return p.DivideScalar(p.Lc())
}

// Derivative returns dp/dx.
func (p *Poly[E]) Derivative() *Poly[E] {
	if p.Degree() < 1 {
		return Zero(p.Ring)
	}
	cs := make([]E, len(p.Coeffs)-1)
	for i := 1; i < len(p.Coeffs); i++ {
		cs[i-1] = p.Ring.Mul(p.Coeffs[i], p.Ring.FromInt64(int64(i)))
	}
	return (&Poly[E]{Ring: p.Ring, Coeffs: cs}).trim()
}

// Evaluate returns p(x) by Horner's rule.
func (p *Poly[E]) Evaluate(x E) E {
	r := p.Ring
	acc := r.Zero()
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		acc = r.Add(r.Mul(acc, x), p.Coeffs[i])
	}
	return acc
}

// Compose returns p(g).
func (p *Poly[E]) Compose(g *Poly[E]) *Poly[E] {
	acc := Zero(p.Ring)
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(g).Add(Constant(p.Ring, p.Coeffs[i]))
	}
	return acc
}

// PowMod returns p^e mod m over a field.
func (p *Poly[E]) PowMod(e *big.Int, m *Poly[E]) *Poly[E] {
	result := p.One().Rem(m)
	base := p.Rem(m)
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = result.Mul(result).Rem(m)
		if e.Bit(i) == 1 {
			result = result.Mul(base).Rem(m)
		}
	}
	return result
}

// Map applies a coefficient map into another ring.
func Map[E, F any](p *Poly[E], r domain.Ring[F], fn func(E) F) *Poly[F] {
	cs := make([]F, len(p.Coeffs))
	for i, c := range p.Coeffs {
		cs[i] = fn(c)
	}
	return (&Poly[F]{Ring: r, Coeffs: cs}).trim()
}

// Normalize returns the monic (fields) or primitive with positive leading
// coefficient (other rings) associate of p together with the removed unit.
func (p *Poly[E]) Normalize() (*Poly[E], *Poly[E]) {
	r := p.Ring
	if p.IsZero() {
		return p.Clone(), p.One()
	}
	if r.IsField() {
		m, _ := p.Monic()
		return m, p.LcPoly()
	}
	c := p.Content()
	if r.Signum(p.Lc()) < 0 {
		c = r.Neg(c)
	}
	pp, ok := p.DivideScalar(c)
	if !ok {
		return p.Clone(), p.One()
	}
	return pp, Constant(r, c)
}

func (p *Poly[E]) String() string {
	if p.IsZero() {
		return "0"
	}
	var parts []string
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		c := p.Coeffs[i]
		if p.Ring.IsZero(c) {
			continue
		}
		cs := p.Ring.Format(c)
		switch {
		case i == 0:
			parts = append(parts, cs)
		case p.Ring.IsOne(c):
			parts = append(parts, xPow(i))
		default:
			parts = append(parts, fmt.Sprintf("(%s)*%s", cs, xPow(i)))
		}
	}
	return strings.Join(parts, "+")
}

func xPow(i int) string {
	if i == 1 {
		return "x"
	}
	return fmt.Sprintf("x^%d", i)
}
