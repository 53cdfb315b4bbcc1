package domain

import (
	"math/big"
)

// Integers is the ring Z with *big.Int elements.
type Integers struct{}

// Rationals is the field Q with *big.Rat elements.
type Rationals struct{}

var (
	// Z is the shared instance of the integers.
	Z = &Integers{}
	// Q is the shared instance of the rationals.
	Q = &Rationals{}
)

func (r *Integers) Zero() *big.Int                { return new(big.Int) }
func (r *Integers) One() *big.Int                 { return big.NewInt(1) }
func (r *Integers) FromInt64(v int64) *big.Int    { return big.NewInt(v) }
func (r *Integers) FromBig(v *big.Int) *big.Int   { return new(big.Int).Set(v) }
func (r *Integers) IsZero(a *big.Int) bool        { return a.Sign() == 0 }
func (r *Integers) IsOne(a *big.Int) bool         { return a.IsInt64() && a.Int64() == 1 }
func (r *Integers) Equal(a, b *big.Int) bool      { return a.Cmp(b) == 0 }
func (r *Integers) Compare(a, b *big.Int) int     { return a.Cmp(b) }
func (r *Integers) Add(a, b *big.Int) *big.Int    { return new(big.Int).Add(a, b) }
func (r *Integers) Sub(a, b *big.Int) *big.Int    { return new(big.Int).Sub(a, b) }
func (r *Integers) Neg(a *big.Int) *big.Int       { return new(big.Int).Neg(a) }
func (r *Integers) Mul(a, b *big.Int) *big.Int    { return new(big.Int).Mul(a, b) }
func (r *Integers) Signum(a *big.Int) int         { return a.Sign() }
func (r *Integers) IsField() bool                 { return false }
func (r *Integers) Characteristic() *big.Int      { return new(big.Int) }
func (r *Integers) Cardinality() *big.Int         { return nil }
func (r *Integers) Format(a *big.Int) string      { return a.String() }
func (r *Integers) String() string                { return "Z" }
func (r *Integers) GCD(a, b *big.Int) *big.Int    { return new(big.Int).GCD(nil, nil, a, b) }

// Random returns a small integer in [-2^15, 2^15).
func (r *Integers) Random(rnd *RNG) *big.Int {
	return big.NewInt(int64(rnd.Intn(1<<16)) - 1<<15)
}

func (r *Integers) Quo(a, b *big.Int) (*big.Int, bool) {
	if b.Sign() == 0 {
		return nil, false
	}
	q, m := new(big.Int).QuoRem(a, b, new(big.Int))
	if m.Sign() != 0 {
		return nil, false
	}
	return q, true
}

func (r *Rationals) Zero() *big.Rat               { return new(big.Rat) }
func (r *Rationals) One() *big.Rat                { return big.NewRat(1, 1) }
func (r *Rationals) FromInt64(v int64) *big.Rat   { return big.NewRat(v, 1) }
func (r *Rationals) FromBig(v *big.Int) *big.Rat  { return new(big.Rat).SetInt(v) }
func (r *Rationals) IsZero(a *big.Rat) bool       { return a.Sign() == 0 }
func (r *Rationals) IsOne(a *big.Rat) bool        { return a.IsInt() && a.Num().IsInt64() && a.Num().Int64() == 1 }
func (r *Rationals) Equal(a, b *big.Rat) bool     { return a.Cmp(b) == 0 }
func (r *Rationals) Compare(a, b *big.Rat) int    { return a.Cmp(b) }
func (r *Rationals) Add(a, b *big.Rat) *big.Rat   { return new(big.Rat).Add(a, b) }
func (r *Rationals) Sub(a, b *big.Rat) *big.Rat   { return new(big.Rat).Sub(a, b) }
func (r *Rationals) Neg(a *big.Rat) *big.Rat      { return new(big.Rat).Neg(a) }
func (r *Rationals) Mul(a, b *big.Rat) *big.Rat   { return new(big.Rat).Mul(a, b) }
func (r *Rationals) Signum(a *big.Rat) int        { return a.Sign() }
func (r *Rationals) IsField() bool                { return true }
func (r *Rationals) Characteristic() *big.Int     { return new(big.Int) }
func (r *Rationals) Cardinality() *big.Int        { return nil }
func (r *Rationals) Format(a *big.Rat) string     { return a.RatString() }
func (r *Rationals) String() string               { return "Q" }

// Random returns a small integer-valued rational.
func (r *Rationals) Random(rnd *RNG) *big.Rat {
	return new(big.Rat).SetInt(Z.Random(rnd))
}

func (r *Rationals) Quo(a, b *big.Rat) (*big.Rat, bool) {
	if b.Sign() == 0 {
		return nil, false
	}
	return new(big.Rat).Quo(a, b), true
}

func (r *Rationals) GCD(a, b *big.Rat) *big.Rat {
	if a.Sign() == 0 && b.Sign() == 0 {
		return new(big.Rat)
	}
	return big.NewRat(1, 1)
}
