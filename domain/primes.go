package domain

import (
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// NextPrime returns the smallest prime strictly greater than n.
func NextPrime(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	c := n + 1
	if c&1 == 0 && c != 2 {
		c++
	}
	for !ring.IsPrime(c) {
		c += 2
	}
	return c
}

// NextBigPrime returns the smallest probable prime strictly greater than n.
func NextBigPrime(n *big.Int) *big.Int {
	if n.IsUint64() && n.Uint64() < MaxZp64Modulus {
		return new(big.Int).SetUint64(NextPrime(n.Uint64()))
	}
	c := new(big.Int).Add(n, big.NewInt(1))
	if c.Bit(0) == 0 {
		c.Add(c, big.NewInt(1))
	}
	for !c.ProbablyPrime(32) {
		c.Add(c, big.NewInt(2))
	}
	return c
}
