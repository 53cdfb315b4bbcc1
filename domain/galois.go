package domain

import (
	"math/big"

	"github.com/tueda/rings/internal/kfield"
)

// GaloisField is GF(p^k) with kfield.Elem elements.
type GaloisField struct {
	f    *kfield.Field
	card *big.Int
}

// NewGaloisField wraps a kfield descriptor.
func NewGaloisField(f *kfield.Field) *GaloisField {
	return &GaloisField{f: f, card: f.Order()}
}

// NewRandomGaloisField returns GF(p^k) with a random irreducible modulus.
func NewRandomGaloisField(p uint64, k int, rnd *RNG) (*GaloisField, error) {
	f, err := kfield.NewRandom(p, k, rnd)
	if err != nil {
		return nil, err
	}
	return NewGaloisField(f), nil
}

// Field returns the underlying descriptor.
func (r *GaloisField) Field() *kfield.Field { return r.f }

// Degree returns k.
func (r *GaloisField) Degree() int { return r.f.K }

func (r *GaloisField) Zero() kfield.Elem { return r.f.Zero() }
func (r *GaloisField) One() kfield.Elem  { return r.f.One() }

func (r *GaloisField) FromInt64(v int64) kfield.Elem {
	return r.FromBig(big.NewInt(v))
}

func (r *GaloisField) FromBig(v *big.Int) kfield.Elem {
	m := new(big.Int).Mod(v, new(big.Int).SetUint64(r.f.P))
	return r.f.EmbedF(m.Uint64())
}

func (r *GaloisField) IsZero(a kfield.Elem) bool      { return r.f.IsZero(a) }
func (r *GaloisField) IsOne(a kfield.Elem) bool       { return r.f.IsOne(a) }
func (r *GaloisField) Equal(a, b kfield.Elem) bool    { return r.f.Equal(a, b) }
func (r *GaloisField) Compare(a, b kfield.Elem) int   { return r.f.Compare(a, b) }
func (r *GaloisField) Add(a, b kfield.Elem) kfield.Elem { return r.f.Add(a, b) }
func (r *GaloisField) Sub(a, b kfield.Elem) kfield.Elem { return r.f.Sub(a, b) }
func (r *GaloisField) Neg(a kfield.Elem) kfield.Elem  { return r.f.Neg(a) }
func (r *GaloisField) Mul(a, b kfield.Elem) kfield.Elem { return r.f.Mul(a, b) }
func (r *GaloisField) Signum(a kfield.Elem) int       { return boolSign(!r.f.IsZero(a)) }
func (r *GaloisField) IsField() bool                  { return true }
func (r *GaloisField) Format(a kfield.Elem) string    { return r.f.Format(a) }
func (r *GaloisField) String() string                 { return r.f.String() }

func (r *GaloisField) Characteristic() *big.Int {
	return new(big.Int).SetUint64(r.f.P)
}

func (r *GaloisField) Cardinality() *big.Int {
	return new(big.Int).Set(r.card)
}

func (r *GaloisField) Random(rnd *RNG) kfield.Elem {
	return r.f.RandomElement(rnd)
}

func (r *GaloisField) Quo(a, b kfield.Elem) (kfield.Elem, bool) {
	if r.f.IsZero(b) {
		return kfield.Elem{}, false
	}
	return r.f.Mul(a, r.f.Inv(b)), true
}

func (r *GaloisField) GCD(a, b kfield.Elem) kfield.Elem {
	if r.f.IsZero(a) && r.f.IsZero(b) {
		return r.f.Zero()
	}
	return r.f.One()
}
