package domain

import (
	"fmt"
	"math/big"

	"gopkg.in/errgo.v1"
)

// IntegersModulo is Z/m for an arbitrary modulus. When m is a prime power
// p^k the ring remembers p and k; it is a field only for k == 1.
type IntegersModulo struct {
	m     *big.Int
	half  *big.Int
	prime *big.Int
	exp   int
	field bool
}

// NewIntegersModulo returns Z/m. m must be at least 2.
func NewIntegersModulo(m *big.Int) (*IntegersModulo, error) {
	if m.Cmp(big.NewInt(2)) < 0 {
		return nil, errgo.WithCausef(nil, ErrInvalidModulus, "modulus %s", m)
	}
	r := &IntegersModulo{m: new(big.Int).Set(m), half: new(big.Int).Rsh(m, 1)}
	if m.ProbablyPrime(32) {
		r.prime, r.exp, r.field = r.m, 1, true
	}
	return r, nil
}

// NewPrimePower returns Z/p^k. p must be prime.
func NewPrimePower(p *big.Int, k int) (*IntegersModulo, error) {
	if k < 1 || !p.ProbablyPrime(32) {
		return nil, errgo.WithCausef(nil, ErrInvalidModulus, "%s^%d", p, k)
	}
	m := new(big.Int).Exp(p, big.NewInt(int64(k)), nil)
	return &IntegersModulo{
		m:     m,
		half:  new(big.Int).Rsh(m, 1),
		prime: new(big.Int).Set(p),
		exp:   k,
		field: k == 1,
	}, nil
}

// Modulus returns m.
func (r *IntegersModulo) Modulus() *big.Int { return r.m }

// Prime returns p when the modulus is a known prime power, nil otherwise.
func (r *IntegersModulo) Prime() *big.Int { return r.prime }

// Exponent returns k for a modulus p^k.
func (r *IntegersModulo) Exponent() int { return r.exp }

// ResidueField returns Z/p for a prime power modulus, and r itself when r
// is a field.
func (r *IntegersModulo) ResidueField() Ring[*big.Int] {
	if r.field || r.prime == nil {
		return r
	}
	f, _ := NewIntegersModulo(r.prime)
	return f
}

// ToResidue reduces a modulo p.
func (r *IntegersModulo) ToResidue(a *big.Int) *big.Int {
	if r.prime == nil {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Mod(a, r.prime)
}

func (r *IntegersModulo) reduce(v *big.Int) *big.Int {
	return v.Mod(v, r.m)
}

func (r *IntegersModulo) Zero() *big.Int { return new(big.Int) }
func (r *IntegersModulo) One() *big.Int  { return big.NewInt(1) }

func (r *IntegersModulo) FromInt64(v int64) *big.Int { return r.reduce(big.NewInt(v)) }
func (r *IntegersModulo) FromBig(v *big.Int) *big.Int {
	return r.reduce(new(big.Int).Set(v))
}

func (r *IntegersModulo) IsZero(a *big.Int) bool      { return a.Sign() == 0 }
func (r *IntegersModulo) IsOne(a *big.Int) bool       { return a.IsInt64() && a.Int64() == 1 }
func (r *IntegersModulo) Equal(a, b *big.Int) bool    { return a.Cmp(b) == 0 }
func (r *IntegersModulo) Compare(a, b *big.Int) int   { return a.Cmp(b) }
func (r *IntegersModulo) Signum(a *big.Int) int       { return boolSign(a.Sign() != 0) }
func (r *IntegersModulo) IsField() bool               { return r.field }
func (r *IntegersModulo) Characteristic() *big.Int    { return new(big.Int).Set(r.m) }
func (r *IntegersModulo) Cardinality() *big.Int       { return new(big.Int).Set(r.m) }
func (r *IntegersModulo) Random(rnd *RNG) *big.Int    { return rnd.BigIntn(r.m) }
func (r *IntegersModulo) Format(a *big.Int) string    { return a.String() }
func (r *IntegersModulo) String() string              { return fmt.Sprintf("Z/%s", r.m) }
func (r *IntegersModulo) Add(a, b *big.Int) *big.Int  { return r.reduce(new(big.Int).Add(a, b)) }
func (r *IntegersModulo) Sub(a, b *big.Int) *big.Int  { return r.reduce(new(big.Int).Sub(a, b)) }
func (r *IntegersModulo) Neg(a *big.Int) *big.Int     { return r.reduce(new(big.Int).Neg(a)) }
func (r *IntegersModulo) Mul(a, b *big.Int) *big.Int  { return r.reduce(new(big.Int).Mul(a, b)) }
func (r *IntegersModulo) Symmetric(a *big.Int) *big.Int {
	if a.Cmp(r.half) > 0 {
		return new(big.Int).Sub(a, r.m)
	}
	return new(big.Int).Set(a)
}

// Quo succeeds when b is a unit. Over Z/p^k a non-unit b may still divide
// a; that case is handled by dividing out the common power of p.
func (r *IntegersModulo) Quo(a, b *big.Int) (*big.Int, bool) {
	if b.Sign() == 0 {
		return nil, false
	}
	if inv := new(big.Int).ModInverse(b, r.m); inv != nil {
		return r.Mul(a, inv), true
	}
	if r.prime == nil || a.Sign() == 0 {
		if a.Sign() == 0 {
			return new(big.Int), true
		}
		return nil, false
	}
	// b = p^j * u; a must be divisible by p^j.
	bb, aa := new(big.Int).Set(b), new(big.Int).Set(a)
	rem := new(big.Int)
	for {
		q, m := new(big.Int).QuoRem(bb, r.prime, rem)
		if m.Sign() != 0 {
			break
		}
		q2, m2 := new(big.Int).QuoRem(aa, r.prime, new(big.Int))
		if m2.Sign() != 0 {
			return nil, false
		}
		bb, aa = q, q2
	}
	inv := new(big.Int).ModInverse(bb, r.m)
	if inv == nil {
		return nil, false
	}
	return r.Mul(aa, inv), true
}

func (r *IntegersModulo) GCD(a, b *big.Int) *big.Int {
	if a.Sign() == 0 && b.Sign() == 0 {
		return new(big.Int)
	}
	if r.field {
		return big.NewInt(1)
	}
	g := new(big.Int).GCD(nil, nil, a, b)
	return g.GCD(nil, nil, g, r.m)
}
