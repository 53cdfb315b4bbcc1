// Package kfield implements the finite field GF(p^k) = F_p[t]/(chi(t)) over a
// power basis, for word-sized primes p. It provides irreducible modulus
// search, element arithmetic and linear algebra over F_p used to move
// elements between a field and its subfields.
package kfield

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"math/bits"
	"strings"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// Field describes GF(p^k). Chi is monic irreducible of degree K, low to high.
type Field struct {
	P   uint64
	K   int
	Chi []uint64
}

// Elem is a field element given by its K coordinates in the power basis.
// Elements are never mutated once built.
type Elem struct {
	Limb []uint64
}

// New constructs a field descriptor. chi must be monic irreducible of degree k.
func New(p uint64, k int, chi []uint64) (*Field, error) {
	if p < 2 {
		return nil, fmt.Errorf("kfield: p must be at least 2")
	}
	if k <= 0 {
		return nil, fmt.Errorf("kfield: degree must be positive")
	}
	if len(chi) != k+1 {
		return nil, fmt.Errorf("kfield: modulus must have degree %d", k)
	}
	norm := make([]uint64, len(chi))
	for i := range chi {
		norm[i] = chi[i] % p
	}
	if norm[k] != 1 {
		return nil, fmt.Errorf("kfield: modulus must be monic")
	}
	if !isIrreducible(p, norm) {
		return nil, fmt.Errorf("kfield: modulus is reducible")
	}
	return &Field{P: p, K: k, Chi: norm}, nil
}

// NewRandom builds GF(p^k) with a random irreducible modulus.
func NewRandom(p uint64, k int, rnd io.Reader) (*Field, error) {
	chi, err := FindIrreducible(p, k, rnd)
	if err != nil {
		return nil, err
	}
	return &Field{P: p, K: k, Chi: chi}, nil
}

// FindIrreducible samples monic irreducible polynomials of degree k over F_p.
func FindIrreducible(p uint64, k int, rnd io.Reader) ([]uint64, error) {
	if p < 2 || k <= 0 {
		return nil, fmt.Errorf("kfield: invalid p or degree")
	}
	if k == 1 {
		return []uint64{0, 1}, nil
	}
	const maxTries = 1 << 16
	for try := 0; try < maxTries; try++ {
		chi := make([]uint64, k+1)
		chi[k] = 1
		chi[0] = 1 + randU64(rnd)%(p-1)
		for i := 1; i < k; i++ {
			chi[i] = randU64(rnd) % p
		}
		if isIrreducible(p, chi) {
			return chi, nil
		}
	}
	return nil, errors.New("kfield: failed to find irreducible polynomial")
}

// Order returns p^k.
func (f *Field) Order() *big.Int {
	return new(big.Int).Exp(new(big.Int).SetUint64(f.P), big.NewInt(int64(f.K)), nil)
}

func (f *Field) Zero() Elem {
	return Elem{Limb: make([]uint64, f.K)}
}

func (f *Field) One() Elem {
	return f.EmbedF(1)
}

// Generator returns the class of t.
func (f *Field) Generator() Elem {
	if f.K == 1 {
		return f.EmbedF(f.P - f.Chi[0])
	}
	e := f.Zero()
	e.Limb[1] = 1
	return e
}

// EmbedF maps an F_p element into the field.
func (f *Field) EmbedF(x uint64) Elem {
	e := f.Zero()
	e.Limb[0] = x % f.P
	return e
}

// FromCoordinates builds an element from power-basis coordinates, reducing
// longer inputs modulo chi.
func (f *Field) FromCoordinates(coords []uint64) Elem {
	if len(coords) <= f.K {
		e := f.Zero()
		for i, c := range coords {
			e.Limb[i] = c % f.P
		}
		return e
	}
	return f.reduce(coords)
}

// Coordinates returns a copy of the power-basis coordinates of e.
func (f *Field) Coordinates(e Elem) []uint64 {
	out := make([]uint64, f.K)
	copy(out, e.Limb)
	return out
}

// IsBase reports whether e lies in the prime field.
func (f *Field) IsBase(e Elem) bool {
	for _, c := range e.Limb[1:] {
		if c != 0 {
			return false
		}
	}
	return true
}

func (f *Field) IsZero(e Elem) bool {
	for _, c := range e.Limb {
		if c != 0 {
			return false
		}
	}
	return true
}

func (f *Field) IsOne(e Elem) bool {
	return e.Limb[0] == 1 && f.IsBase(e)
}

func (f *Field) Equal(a, b Elem) bool {
	for i := range a.Limb {
		if a.Limb[i] != b.Limb[i] {
			return false
		}
	}
	return true
}

// Compare orders elements by their coordinates, highest first.
func (f *Field) Compare(a, b Elem) int {
	for i := f.K - 1; i >= 0; i-- {
		switch {
		case a.Limb[i] < b.Limb[i]:
			return -1
		case a.Limb[i] > b.Limb[i]:
			return 1
		}
	}
	return 0
}

func (f *Field) Add(a, b Elem) Elem {
	out := f.Zero()
	for i := 0; i < f.K; i++ {
		out.Limb[i] = modAdd(a.Limb[i], b.Limb[i], f.P)
	}
	return out
}

func (f *Field) Sub(a, b Elem) Elem {
	out := f.Zero()
	for i := 0; i < f.K; i++ {
		out.Limb[i] = modSub(a.Limb[i], b.Limb[i], f.P)
	}
	return out
}

func (f *Field) Neg(a Elem) Elem {
	out := f.Zero()
	for i := 0; i < f.K; i++ {
		out.Limb[i] = modSub(0, a.Limb[i], f.P)
	}
	return out
}

// Mul multiplies schoolbook style and reduces modulo chi.
func (f *Field) Mul(a, b Elem) Elem {
	tmp := make([]uint64, 2*f.K-1)
	for i, ai := range a.Limb {
		if ai == 0 {
			continue
		}
		for j, bj := range b.Limb {
			if bj == 0 {
				continue
			}
			tmp[i+j] = modAdd(tmp[i+j], modMul(ai, bj, f.P), f.P)
		}
	}
	return f.reduce(tmp)
}

func (f *Field) reduce(tmp []uint64) Elem {
	tmp = append([]uint64(nil), tmp...)
	for k := len(tmp) - 1; k >= f.K; k-- {
		c := tmp[k] % f.P
		if c == 0 {
			continue
		}
		tmp[k] = 0
		m := k - f.K
		for j := 0; j < f.K; j++ {
			tmp[m+j] = modSub(tmp[m+j], modMul(c, f.Chi[j], f.P), f.P)
		}
	}
	out := f.Zero()
	for i := 0; i < f.K && i < len(tmp); i++ {
		out.Limb[i] = tmp[i] % f.P
	}
	return out
}

// Pow returns base^exp by square-and-multiply.
func (f *Field) Pow(base Elem, exp *big.Int) Elem {
	result := f.One()
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result = f.Mul(result, result)
		if exp.Bit(i) == 1 {
			result = f.Mul(result, base)
		}
	}
	return result
}

// Inv returns 1/a. It panics on zero.
func (f *Field) Inv(a Elem) Elem {
	if f.IsZero(a) {
		panic("kfield: inverse of zero element")
	}
	if f.K == 1 {
		return f.EmbedF(modInv(a.Limb[0], f.P))
	}
	exp := f.Order()
	exp.Sub(exp, big.NewInt(2))
	return f.Pow(a, exp)
}

// RandomElement samples a uniform element.
func (f *Field) RandomElement(r io.Reader) Elem {
	e := f.Zero()
	for i := range e.Limb {
		e.Limb[i] = randU64(r) % f.P
	}
	return e
}

// EvalPoly evaluates an F_p-coefficient polynomial (low to high) at e.
func (f *Field) EvalPoly(coeff []uint64, e Elem) Elem {
	acc := f.Zero()
	for i := len(coeff) - 1; i >= 0; i-- {
		acc = f.Add(f.Mul(acc, e), f.EmbedF(coeff[i]))
	}
	return acc
}

// Express writes target as an F_p-linear combination of basis, or reports
// false when target is not in their span.
func (f *Field) Express(target Elem, basis []Elem) ([]uint64, bool) {
	n := len(basis)
	// rows are coordinates, columns the basis vectors plus the target.
	m := make([][]uint64, f.K)
	for r := 0; r < f.K; r++ {
		m[r] = make([]uint64, n+1)
		for c := 0; c < n; c++ {
			m[r][c] = basis[c].Limb[r]
		}
		m[r][n] = target.Limb[r]
	}
	pivots := make([]int, 0, n)
	row := 0
	for col := 0; col < n && row < f.K; col++ {
		sel := -1
		for r := row; r < f.K; r++ {
			if m[r][col] != 0 {
				sel = r
				break
			}
		}
		if sel < 0 {
			continue
		}
		m[row], m[sel] = m[sel], m[row]
		inv := modInv(m[row][col], f.P)
		for c := col; c <= n; c++ {
			m[row][c] = modMul(m[row][c], inv, f.P)
		}
		for r := 0; r < f.K; r++ {
			if r == row || m[r][col] == 0 {
				continue
			}
			factor := m[r][col]
			for c := col; c <= n; c++ {
				m[r][c] = modSub(m[r][c], modMul(factor, m[row][c], f.P), f.P)
			}
		}
		pivots = append(pivots, col)
		row++
	}
	for r := row; r < f.K; r++ {
		if m[r][n] != 0 {
			return nil, false
		}
	}
	out := make([]uint64, n)
	for r, col := range pivots {
		out[col] = m[r][n]
	}
	return out, true
}

// Format renders e as a polynomial in t.
func (f *Field) Format(e Elem) string {
	var parts []string
	for i := f.K - 1; i >= 0; i-- {
		c := e.Limb[i]
		if c == 0 {
			continue
		}
		switch {
		case i == 0:
			parts = append(parts, fmt.Sprint(c))
		case c == 1:
			parts = append(parts, monomial(i))
		default:
			parts = append(parts, fmt.Sprintf("%d*%s", c, monomial(i)))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "+")
}

func (f *Field) String() string {
	return fmt.Sprintf("GF(%d^%d)[%v]", f.P, f.K, f.Chi)
}

func monomial(i int) string {
	if i == 1 {
		return "t"
	}
	return fmt.Sprintf("t^%d", i)
}

func randU64(r io.Reader) uint64 {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		panic(err)
	}
	return uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16 | uint64(buf[3])<<24 |
		uint64(buf[4])<<32 | uint64(buf[5])<<40 | uint64(buf[6])<<48 | uint64(buf[7])<<56
}

func modAdd(a, b, q uint64) uint64 {
	sum := a + b
	if sum >= q || sum < a {
		sum -= q
	}
	return sum
}

func modSub(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}

func modMul(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi, lo, q)
	return rem
}

func modInv(a, q uint64) uint64 {
	if a%q == 0 {
		panic("kfield: inverse of zero")
	}
	return ring.ModExp(a, q-2, q)
}
