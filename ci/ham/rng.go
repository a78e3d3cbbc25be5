package ham

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Subsystem names for random integral generation. Each draws from its own
// stream so changing how one table is filled never shifts the other.
const (
	SubsystemOneBody = "one-body"
	SubsystemTwoBody = "two-body"
)

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
// Derived seed: seed XOR fnv1a64(subsystem).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{seed: seed, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the cached RNG for the named subsystem. Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// Random returns a real Hamiltonian over nbasis orbitals with symmetric
// one-body integrals and two-body integrals carrying the full 8-fold
// permutational symmetry. The same seed always yields the same table.
// Panics if nbasis <= 0.
func Random(nbasis int, seed int64) *Hamiltonian {
	if nbasis <= 0 {
		panic(fmt.Sprintf("ham: Random: nbasis must be > 0, got %d", nbasis))
	}
	rng := NewPartitionedRNG(seed)
	oneRNG := rng.ForSubsystem(SubsystemOneBody)
	twoRNG := rng.ForSubsystem(SubsystemTwoBody)
	n := nbasis

	one := make([]float64, n*n)
	for p := 0; p < n; p++ {
		for q := 0; q <= p; q++ {
			val := 2*oneRNG.Float64() - 1
			if p == q {
				val -= 2
			}
			one[p*n+q] = val
			one[q*n+p] = val
		}
	}

	eri := make([]float64, n*n*n*n)
	for p := 0; p < n; p++ {
		for q := 0; q <= p; q++ {
			for r := 0; r < n; r++ {
				for s := 0; s <= r; s++ {
					if p*(p+1)/2+q < r*(r+1)/2+s {
						continue
					}
					setChemist(eri, n, p, q, r, s, twoRNG.Float64()-0.5)
				}
			}
		}
	}
	ham, err := FromChemist(0.5*float64(n), n, one, eri)
	if err != nil {
		panic(err)
	}
	return ham
}

// setChemist writes (pq|rs) and its seven symmetry partners.
func setChemist(eri []float64, n, p, q, r, s int, val float64) {
	at := func(a, b, c, d int) int { return ((a*n+b)*n+c)*n + d }
	for _, idx := range [...]int{
		at(p, q, r, s), at(q, p, r, s), at(p, q, s, r), at(q, p, s, r),
		at(r, s, p, q), at(s, r, p, q), at(r, s, q, p), at(s, r, q, p),
	} {
		eri[idx] = val
	}
}
