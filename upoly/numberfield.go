package upoly

import (
	"fmt"
	"math/big"

	"gopkg.in/errgo.v1"

	"github.com/tueda/rings/domain"
)

// NumberField is Q(alpha) = Q[t]/(m(t)) for an irreducible monic m. Elements
// are rational polynomials of degree below deg m.
type NumberField struct {
	min *Poly[*big.Rat]
}

// NewNumberField returns Q[t]/(m). m must be irreducible over Q; it is made
// monic.
func NewNumberField(m *Poly[*big.Rat]) (*NumberField, error) {
	if m.Degree() < 1 {
		return nil, errgo.Newf("upoly: minimal polynomial %s has no roots", m)
	}
	if !FactorQ(m).IsTrivial() {
		return nil, errgo.Newf("upoly: minimal polynomial %s is reducible", m)
	}
	monic, _ := m.Monic()
	return &NumberField{min: monic}, nil
}

// MinimalPolynomial returns m.
func (k *NumberField) MinimalPolynomial() *Poly[*big.Rat] { return k.min }

// Degree returns [Q(alpha):Q].
func (k *NumberField) Degree() int { return k.min.Degree() }

// Generator returns alpha.
func (k *NumberField) Generator() *Poly[*big.Rat] {
	return k.reduce(X[*big.Rat](domain.Q))
}

// FromRational embeds a rational.
func (k *NumberField) FromRational(c *big.Rat) *Poly[*big.Rat] {
	return Constant[*big.Rat](domain.Q, c)
}

func (k *NumberField) reduce(p *Poly[*big.Rat]) *Poly[*big.Rat] {
	if p.Degree() < k.min.Degree() {
		return p
	}
	return p.Rem(k.min)
}

func (k *NumberField) Zero() *Poly[*big.Rat] { return Zero[*big.Rat](domain.Q) }
func (k *NumberField) One() *Poly[*big.Rat]  { return Constant[*big.Rat](domain.Q, big.NewRat(1, 1)) }

func (k *NumberField) FromInt64(v int64) *Poly[*big.Rat] {
	return Constant[*big.Rat](domain.Q, big.NewRat(v, 1))
}

func (k *NumberField) FromBig(v *big.Int) *Poly[*big.Rat] {
	return Constant[*big.Rat](domain.Q, new(big.Rat).SetInt(v))
}

func (k *NumberField) IsZero(a *Poly[*big.Rat]) bool          { return a.IsZero() }
func (k *NumberField) IsOne(a *Poly[*big.Rat]) bool           { return a.IsOne() }
func (k *NumberField) Equal(a, b *Poly[*big.Rat]) bool        { return a.Equal(b) }
func (k *NumberField) Compare(a, b *Poly[*big.Rat]) int       { return a.Compare(b) }
func (k *NumberField) Add(a, b *Poly[*big.Rat]) *Poly[*big.Rat] { return a.Add(b) }
func (k *NumberField) Sub(a, b *Poly[*big.Rat]) *Poly[*big.Rat] { return a.Sub(b) }
func (k *NumberField) Neg(a *Poly[*big.Rat]) *Poly[*big.Rat]  { return a.Neg() }
func (k *NumberField) Mul(a, b *Poly[*big.Rat]) *Poly[*big.Rat] { return k.reduce(a.Mul(b)) }
func (k *NumberField) IsField() bool                          { return true }
func (k *NumberField) Characteristic() *big.Int               { return new(big.Int) }
func (k *NumberField) Cardinality() *big.Int                  { return nil }
func (k *NumberField) Format(a *Poly[*big.Rat]) string        { return "(" + a.String() + ")" }

// Signum is the sign of the leading rational coefficient.
func (k *NumberField) Signum(a *Poly[*big.Rat]) int {
	if a.IsZero() {
		return 0
	}
	return a.Lc().Sign()
}

// Inv returns 1/a via the extended Euclidean algorithm against m.
func (k *NumberField) Inv(a *Poly[*big.Rat]) (*Poly[*big.Rat], bool) {
	if a.IsZero() {
		return nil, false
	}
	_, s, _, err := XGCD(a, k.min)
	if err != nil {
		return nil, false
	}
	return k.reduce(s), true
}

func (k *NumberField) Quo(a, b *Poly[*big.Rat]) (*Poly[*big.Rat], bool) {
	inv, ok := k.Inv(b)
	if !ok {
		return nil, false
	}
	return k.Mul(a, inv), true
}

func (k *NumberField) GCD(a, b *Poly[*big.Rat]) *Poly[*big.Rat] {
	if a.IsZero() && b.IsZero() {
		return k.Zero()
	}
	return k.One()
}

// Random returns an element with small integer coordinates.
func (k *NumberField) Random(rnd *domain.RNG) *Poly[*big.Rat] {
	cs := make([]*big.Rat, k.Degree())
	for i := range cs {
		cs[i] = big.NewRat(int64(rnd.Intn(17))-8, 1)
	}
	return New[*big.Rat](domain.Q, cs...)
}

func (k *NumberField) String() string {
	return fmt.Sprintf("Q[t]/(%s)", k.min)
}
