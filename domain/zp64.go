package domain

import (
	"fmt"
	"math/big"
	"math/bits"
	"strconv"

	"github.com/tuneinsight/lattigo/v4/ring"
	"gopkg.in/errgo.v1"
)

// MaxZp64Modulus bounds the moduli accepted by Zp64.
const MaxZp64Modulus = uint64(1) << 62

// Zp64 is the prime field Z/p for a word-sized prime p. Elements are
// uint64 values in [0, p).
type Zp64 struct {
	p uint64
}

// NewZp64 returns the field Z/p. p must be a prime below MaxZp64Modulus.
func NewZp64(p uint64) (*Zp64, error) {
	if p < 2 || p >= MaxZp64Modulus {
		return nil, errgo.WithCausef(nil, ErrInvalidModulus, "modulus %d out of range", p)
	}
	if !ring.IsPrime(p) {
		return nil, errgo.WithCausef(nil, ErrInvalidModulus, "modulus %d is not prime", p)
	}
	return &Zp64{p: p}, nil
}

// MustZp64 is NewZp64 for constant moduli.
func MustZp64(p uint64) *Zp64 {
	r, err := NewZp64(p)
	if err != nil {
		panic(err)
	}
	return r
}

// Modulus returns p.
func (r *Zp64) Modulus() uint64 { return r.p }

func (r *Zp64) Zero() uint64 { return 0 }
func (r *Zp64) One() uint64  { return 1 }

func (r *Zp64) FromInt64(v int64) uint64 {
	if v >= 0 {
		return uint64(v) % r.p
	}
	m := uint64(-(v + 1)) % r.p
	return r.p - 1 - m
}

func (r *Zp64) FromBig(v *big.Int) uint64 {
	m := new(big.Int).Mod(v, new(big.Int).SetUint64(r.p))
	return m.Uint64()
}

func (r *Zp64) IsZero(a uint64) bool     { return a == 0 }
func (r *Zp64) IsOne(a uint64) bool      { return a == 1 }
func (r *Zp64) Equal(a, b uint64) bool   { return a == b }
func (r *Zp64) Signum(a uint64) int      { return boolSign(a != 0) }
func (r *Zp64) IsField() bool            { return true }
func (r *Zp64) Format(a uint64) string   { return strconv.FormatUint(a, 10) }
func (r *Zp64) String() string           { return fmt.Sprintf("Z/%d", r.p) }
func (r *Zp64) Random(rnd *RNG) uint64   { return rnd.Uint64n(r.p) }
func (r *Zp64) Characteristic() *big.Int { return new(big.Int).SetUint64(r.p) }
func (r *Zp64) Cardinality() *big.Int    { return new(big.Int).SetUint64(r.p) }

func (r *Zp64) Compare(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *Zp64) Add(a, b uint64) uint64 {
	s := a + b
	if s >= r.p {
		s -= r.p
	}
	return s
}

func (r *Zp64) Sub(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + r.p - b
}

func (r *Zp64) Neg(a uint64) uint64 {
	if a == 0 {
		return 0
	}
	return r.p - a
}

func (r *Zp64) Mul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, r.p)
	return rem
}

// Inv returns 1/a. a must be non-zero.
func (r *Zp64) Inv(a uint64) uint64 {
	if a == 0 {
		panic("domain: inverse of zero in " + r.String())
	}
	return ring.ModExp(a, r.p-2, r.p)
}

func (r *Zp64) Quo(a, b uint64) (uint64, bool) {
	if b == 0 {
		return 0, false
	}
	return r.Mul(a, r.Inv(b)), true
}

func (r *Zp64) GCD(a, b uint64) uint64 {
	if a == 0 && b == 0 {
		return 0
	}
	return 1
}

// Symmetric returns the representative of a in (-p/2, p/2].
func (r *Zp64) Symmetric(a uint64) int64 {
	if a > r.p/2 {
		return -int64(r.p - a)
	}
	return int64(a)
}

func boolSign(nonzero bool) int {
	if nonzero {
		return 1
	}
	return 0
}
