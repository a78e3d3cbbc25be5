// Package ham holds the integral table consumed by the ci operator: a core
// energy, one-body integrals h(p,q) and two-body integrals <pq|rs> in
// physicist notation, plus the reduced tables the seniority-zero row builder
// reads.
//
// Layout: one-body h(p,q) at p*n+q; two-body <pq|rs> at ((p*n+q)*n+r)*n+s.
// Integrals are assumed real, so <pq|rs> = <rs|pq> = <qp|sr>.
package ham

import (
	"errors"
	"fmt"
)

var (
	// ErrShape is returned when integral arrays do not match nbasis.
	ErrShape = errors.New("ham: integral array has wrong size")
	// ErrFormat is returned for malformed FCIDUMP input.
	ErrFormat = errors.New("ham: malformed FCIDUMP")
)

// Hamiltonian is an immutable integral table. It is safe for concurrent reads.
type Hamiltonian struct {
	ecore  float64
	nbasis int
	oneMO  []float64 // n*n one-body integrals
	twoMO  []float64 // n^4 two-body integrals, physicist notation
	h      []float64 // h[p] = h(p,p)
	v      []float64 // v[p*n+q] = <pp|qq>
	w      []float64 // w[p*n+q] = 2<pq|pq> - <pq|qp>
}

// New builds a Hamiltonian from physicist-notation integrals. The slices are
// retained, not copied.
func New(ecore float64, nbasis int, oneMO, twoMO []float64) (*Hamiltonian, error) {
	n2 := nbasis * nbasis
	if nbasis <= 0 || len(oneMO) != n2 || len(twoMO) != n2*n2 {
		return nil, fmt.Errorf("New(nbasis=%d, len(one)=%d, len(two)=%d): %w",
			nbasis, len(oneMO), len(twoMO), ErrShape)
	}
	ham := &Hamiltonian{ecore: ecore, nbasis: nbasis, oneMO: oneMO, twoMO: twoMO}
	ham.reducePairs()
	return ham, nil
}

// FromChemist builds a Hamiltonian from chemist-notation two-body integrals
// (pq|rs) = <pr|qs>.
func FromChemist(ecore float64, nbasis int, oneMO, eri []float64) (*Hamiltonian, error) {
	n := nbasis
	if n <= 0 || len(eri) != n*n*n*n {
		return nil, fmt.Errorf("FromChemist(nbasis=%d, len(eri)=%d): %w", nbasis, len(eri), ErrShape)
	}
	two := make([]float64, len(eri))
	for p := 0; p < n; p++ {
		for q := 0; q < n; q++ {
			for r := 0; r < n; r++ {
				for s := 0; s < n; s++ {
					two[((p*n+q)*n+r)*n+s] = eri[((p*n+r)*n+q)*n+s]
				}
			}
		}
	}
	return New(ecore, nbasis, oneMO, two)
}

func (ham *Hamiltonian) reducePairs() {
	n := ham.nbasis
	ham.h = make([]float64, n)
	ham.v = make([]float64, n*n)
	ham.w = make([]float64, n*n)
	for p := 0; p < n; p++ {
		ham.h[p] = ham.oneMO[p*n+p]
		for q := 0; q < n; q++ {
			ham.v[p*n+q] = ham.Two(p, p, q, q)
			ham.w[p*n+q] = 2*ham.Two(p, q, p, q) - ham.Two(p, q, q, p)
		}
	}
}

func (ham *Hamiltonian) ECore() float64 { return ham.ecore }
func (ham *Hamiltonian) NBasis() int    { return ham.nbasis }

// OneMO returns the flat one-body table. Callers must not modify it.
func (ham *Hamiltonian) OneMO() []float64 { return ham.oneMO }

// TwoMO returns the flat two-body table. Callers must not modify it.
func (ham *Hamiltonian) TwoMO() []float64 { return ham.twoMO }

func (ham *Hamiltonian) PairH() []float64 { return ham.h }
func (ham *Hamiltonian) PairV() []float64 { return ham.v }
func (ham *Hamiltonian) PairW() []float64 { return ham.w }

// One returns h(p,q).
func (ham *Hamiltonian) One(p, q int) float64 {
	return ham.oneMO[p*ham.nbasis+q]
}

// Two returns <pq|rs>.
func (ham *Hamiltonian) Two(p, q, r, s int) float64 {
	n := ham.nbasis
	return ham.twoMO[((p*n+q)*n+r)*n+s]
}

// Generalized expands a spatial-orbital Hamiltonian into 2n spin orbitals,
// up-spin orbitals first (p -> p, p-bar -> n+p). Integrals that couple
// different spins vanish.
func (ham *Hamiltonian) Generalized() *Hamiltonian {
	n := ham.nbasis
	g := 2 * n
	one := make([]float64, g*g)
	two := make([]float64, g*g*g*g)
	for P := 0; P < g; P++ {
		for Q := 0; Q < g; Q++ {
			if P/n == Q/n {
				one[P*g+Q] = ham.One(P%n, Q%n)
			}
		}
	}
	for P := 0; P < g; P++ {
		for Q := 0; Q < g; Q++ {
			for R := 0; R < g; R++ {
				if P/n != R/n {
					continue
				}
				for S := 0; S < g; S++ {
					if Q/n != S/n {
						continue
					}
					two[((P*g+Q)*g+R)*g+S] = ham.Two(P%n, Q%n, R%n, S%n)
				}
			}
		}
	}
	gen := &Hamiltonian{ecore: ham.ecore, nbasis: g, oneMO: one, twoMO: two}
	gen.reducePairs()
	return gen
}
