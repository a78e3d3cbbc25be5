package ci

import "github.com/inference-sim/sparseci/ci/det"

// Basis is an ordered determinant enumeration. Implementations must be safe
// for concurrent reads once handed to NewSparseOp.
type Basis interface {
	// Encoding selects the row builder: seniority-zero, two-channel or single-channel.
	Encoding() det.Encoding

	// Len returns the number of determinants.
	Len() int

	// NBasis returns the orbitals per channel (spatial orbitals for the
	// seniority-zero and two-channel encodings, spin orbitals otherwise).
	NBasis() int

	// NWord returns the words per channel. Two-channel determinants are
	// 2*NWord() words long, up-channel first.
	NWord() int

	// NOccUp and NOccDn return the occupations per channel. Seniority-zero
	// bases report the pair count for both; single-channel bases report 0 down.
	NOccUp() int
	NOccDn() int

	// DetAt returns a read-only view of determinant i.
	DetAt(i int) []uint64

	// CopyDet copies determinant i into d.
	CopyDet(i int, d []uint64)

	// IndexDet returns the position of d, or -1 if d is not enumerated.
	IndexDet(d []uint64) int
}

// Integrals is a real one- and two-body integral table.
//
// OneMO holds h(p,q) at p*n+q. TwoMO holds <pq|rs> (physicist notation) at
// ((p*n+q)*n+r)*n+s. Both are read-only.
type Integrals interface {
	ECore() float64
	NBasis() int
	OneMO() []float64
	TwoMO() []float64
}

// PairIntegrals adds the reduced tables read by the seniority-zero builder:
// PairH[p] = h(p,p), PairV[p*n+q] = <pp|qq>, PairW[p*n+q] = 2<pq|pq> - <pq|qp>.
type PairIntegrals interface {
	Integrals
	PairH() []float64
	PairV() []float64
	PairW() []float64
}
