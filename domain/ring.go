// Package domain provides the coefficient rings used by the polynomial
// packages: prime fields with a machine-word modulus, integers modulo an
// arbitrary (prime or prime power) modulus, the integers, the rationals and
// finite extension fields GF(p^k).
//
// Elements are values: no Ring method mutates its arguments, so elements may
// be shared freely between polynomials.
package domain

import (
	"math/big"

	"gopkg.in/errgo.v1"
)

var (
	// ErrDomainMismatch is the cause of the panic raised when two operands
	// of a binary polynomial operation live in different rings.
	ErrDomainMismatch = errgo.New("domain mismatch")

	// ErrNotInvertible is returned when a division by a non-unit is
	// requested.
	ErrNotInvertible = errgo.New("element is not invertible")

	// ErrInvalidModulus is returned for moduli the rings cannot represent.
	ErrInvalidModulus = errgo.New("invalid modulus")
)

// Ring is the capability set every coefficient domain provides.
type Ring[E any] interface {
	Zero() E
	One() E
	FromInt64(v int64) E
	FromBig(v *big.Int) E

	IsZero(a E) bool
	IsOne(a E) bool
	Equal(a, b E) bool
	// Compare is a total order on the representation. It only has to be
	// consistent; it carries no arithmetic meaning in finite rings.
	Compare(a, b E) int

	Add(a, b E) E
	Sub(a, b E) E
	Neg(a E) E
	Mul(a, b E) E
	// Quo returns a/b when b divides a exactly.
	Quo(a, b E) (E, bool)
	// GCD returns a greatest common divisor. Fields return One unless
	// both arguments are zero.
	GCD(a, b E) E
	Signum(a E) int

	IsField() bool
	Characteristic() *big.Int
	// Cardinality is nil for infinite rings.
	Cardinality() *big.Int

	Random(rnd *RNG) E
	Format(a E) string
	String() string
}

// PrimePowerRing is Z/p^k for k > 1: not a field, but every computation can
// be seeded in the residue field Z/p and lifted p-adically.
type PrimePowerRing[E any] interface {
	Ring[E]
	ResidueField() Ring[E]
	// ToResidue reduces a modulo p. The result is also a valid element of
	// the prime power ring.
	ToResidue(a E) E
}

// IsFinite reports whether r has finitely many elements.
func IsFinite[E any](r Ring[E]) bool {
	return r.Cardinality() != nil
}

// IsFiniteField reports whether r is a finite field.
func IsFiniteField[E any](r Ring[E]) bool {
	return r.IsField() && r.Cardinality() != nil
}

// Same reports whether two rings are the same domain.
func Same[E any](a, b Ring[E]) bool {
	if any(a) == any(b) {
		return true
	}
	return a.String() == b.String()
}

// CheckSame returns an error caused by ErrDomainMismatch when a and b differ.
func CheckSame[E any](a, b Ring[E]) error {
	if !Same(a, b) {
		return errgo.WithCausef(nil, ErrDomainMismatch, "%s vs %s", a, b)
	}
	return nil
}

// Pow returns a^e.
func Pow[E any](r Ring[E], a E, e uint64) E {
	result := r.One()
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = r.Mul(result, base)
		}
		e >>= 1
		if e > 0 {
			base = r.Mul(base, base)
		}
	}
	return result
}

// PowBig returns a^e for a non-negative e.
func PowBig[E any](r Ring[E], a E, e *big.Int) E {
	result := r.One()
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = r.Mul(result, result)
		if e.Bit(i) == 1 {
			result = r.Mul(result, a)
		}
	}
	return result
}

// Inverse returns 1/a, or ErrNotInvertible.
func Inverse[E any](r Ring[E], a E) (E, error) {
	inv, ok := r.Quo(r.One(), a)
	if !ok {
		return inv, errgo.WithCausef(nil, ErrNotInvertible, "%s in %s", r.Format(a), r)
	}
	return inv, nil
}

// PthRoot returns the p-th root of a in a finite field of characteristic p,
// that is a^(q/p) where q is the cardinality.
func PthRoot[E any](r Ring[E], a E) E {
	q := r.Cardinality()
	e := new(big.Int).Quo(q, r.Characteristic())
	return PowBig(r, a, e)
}

// Sum adds all elements of xs.
func Sum[E any](r Ring[E], xs ...E) E {
	acc := r.Zero()
	for _, x := range xs {
		acc = r.Add(acc, x)
	}
	return acc
}

// Product multiplies all elements of xs.
func Product[E any](r Ring[E], xs ...E) E {
	acc := r.One()
	for _, x := range xs {
		acc = r.Mul(acc, x)
	}
	return acc
}
