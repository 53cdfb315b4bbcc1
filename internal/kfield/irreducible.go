package kfield

// Dense F_p polynomials, low to high, used only by the irreducibility test.
type fpoly []uint64

func fpTrim(p fpoly) fpoly {
	i := len(p) - 1
	for i > 0 && p[i] == 0 {
		i--
	}
	if i < 0 {
		return fpoly{0}
	}
	return p[:i+1]
}

func fpIsZero(p fpoly) bool {
	return len(p) == 1 && p[0] == 0
}

func fpSub(a, b fpoly, q uint64) fpoly {
	n := max(len(a), len(b))
	out := make(fpoly, n)
	for i := 0; i < n; i++ {
		var ai, bi uint64
		if i < len(a) {
			ai = a[i]
		}
		if i < len(b) {
			bi = b[i]
		}
		out[i] = modSub(ai, bi, q)
	}
	return fpTrim(out)
}

func fpMul(a, b fpoly, q uint64) fpoly {
	out := make(fpoly, len(a)+len(b)-1)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		for j, bj := range b {
			out[i+j] = modAdd(out[i+j], modMul(ai, bj, q), q)
		}
	}
	return fpTrim(out)
}

func fpRem(a, b fpoly, q uint64) fpoly {
	a = fpTrim(append(fpoly(nil), a...))
	b = fpTrim(b)
	if len(a) < len(b) {
		return a
	}
	inv := modInv(b[len(b)-1], q)
	for i := len(a) - 1; i >= len(b)-1; i-- {
		c := modMul(a[i], inv, q)
		if c == 0 {
			continue
		}
		off := i - (len(b) - 1)
		for j, bj := range b {
			a[off+j] = modSub(a[off+j], modMul(c, bj, q), q)
		}
	}
	if len(b) == 1 {
		return fpoly{0}
	}
	return fpTrim(a[:len(b)-1])
}

func fpGCD(a, b fpoly, q uint64) fpoly {
	a, b = fpTrim(a), fpTrim(b)
	for !fpIsZero(b) {
		a, b = b, fpRem(a, b, q)
	}
	return a
}

func fpPowMod(base fpoly, exp uint64, mod fpoly, q uint64) fpoly {
	result := fpoly{1}
	b := fpRem(base, mod, q)
	for exp > 0 {
		if exp&1 == 1 {
			result = fpRem(fpMul(result, b, q), mod, q)
		}
		exp >>= 1
		if exp > 0 {
			b = fpRem(fpMul(b, b, q), mod, q)
		}
	}
	return result
}

// isIrreducible is the Ben-Or test: f of degree n is irreducible iff
// gcd(x^(q^i) - x, f) = 1 for i <= n/2 and x^(q^n) = x mod f.
func isIrreducible(q uint64, f []uint64) bool {
	g := fpTrim(append(fpoly(nil), f...))
	n := len(g) - 1
	if n < 1 {
		return false
	}
	if n == 1 {
		return true
	}
	x := fpoly{0, 1}
	xp := x
	for i := 1; i <= n/2; i++ {
		xp = fpPowMod(xp, q, g, q)
		d := fpGCD(fpSub(xp, x, q), g, q)
		if len(d) > 1 {
			return false
		}
	}
	xp = x
	for i := 0; i < n; i++ {
		xp = fpPowMod(xp, q, g, q)
	}
	return fpIsZero(fpSub(xp, x, q))
}
