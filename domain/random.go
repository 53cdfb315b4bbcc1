package domain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"sync"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/sha3"
)

// RNG is a mutex protected random source backed by a lattigo PRNG. It is an
// io.Reader so it can feed crypto/rand.Int and the kfield samplers.
type RNG struct {
	mu   sync.Mutex
	prng utils.PRNG
}

var (
	defaultOnce sync.Once
	defaultRNG  *RNG
)

// Default returns the process-wide random source.
func Default() *RNG {
	defaultOnce.Do(func() {
		prng, err := utils.NewPRNG()
		if err != nil {
			panic(fmt.Errorf("domain: prng: %w", err))
		}
		defaultRNG = &RNG{prng: prng}
	})
	return defaultRNG
}

// NewSeededRNG returns a reproducible source. The PRNG key is derived from
// seed with SHAKE256.
func NewSeededRNG(seed int64) *RNG {
	var in [8]byte
	binary.LittleEndian.PutUint64(in[:], uint64(seed))
	h := sha3.NewShake256()
	h.Write([]byte("rings/rng"))
	h.Write(in[:])
	key := make([]byte, 32)
	if _, err := h.Read(key); err != nil {
		panic(fmt.Errorf("domain: shake: %w", err))
	}
	prng, err := utils.NewKeyedPRNG(key)
	if err != nil {
		panic(fmt.Errorf("domain: keyed prng: %w", err))
	}
	return &RNG{prng: prng}
}

// Read fills buf with random bytes.
func (r *RNG) Read(buf []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prng.Read(buf)
}

// Uint64 returns a uniform 64-bit value.
func (r *RNG) Uint64() uint64 {
	var buf [8]byte
	if _, err := r.Read(buf[:]); err != nil {
		panic(fmt.Errorf("domain: rng: %w", err))
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// Uint64n returns a uniform value in [0, n). n must be positive.
func (r *RNG) Uint64n(n uint64) uint64 {
	if n == 0 {
		panic("domain: Uint64n with n == 0")
	}
	if n&(n-1) == 0 {
		return r.Uint64() & (n - 1)
	}
	limit := ^uint64(0) - (^uint64(0) % n)
	for {
		v := r.Uint64()
		if v < limit {
			return v % n
		}
	}
}

// Intn returns a uniform value in [0, n).
func (r *RNG) Intn(n int) int {
	return int(r.Uint64n(uint64(n)))
}

// BigIntn returns a uniform value in [0, n).
func (r *RNG) BigIntn(n *big.Int) *big.Int {
	v, err := rand.Int(r, n)
	if err != nil {
		panic(fmt.Errorf("domain: rng: %w", err))
	}
	return v
}
