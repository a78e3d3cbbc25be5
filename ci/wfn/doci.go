package wfn

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/inference-sim/sparseci/ci/det"
)

// DOCIWfn enumerates seniority-zero determinants: nocc electron pairs over
// nbasis spatial orbitals, stored as one occupation word set per determinant.
type DOCIWfn struct {
	detStore
	nbasis int // spatial orbitals
	nocc   int // occupied pairs
}

// NewDOCIWfn returns an empty seniority-zero enumeration.
func NewDOCIWfn(nbasis, nocc int) (*DOCIWfn, error) {
	if nocc <= 0 || nocc > nbasis {
		return nil, fmt.Errorf("NewDOCIWfn(%d, %d): %w", nbasis, nocc, ErrBadOccupation)
	}
	return &DOCIWfn{detStore: newDetStore(det.NWord(nbasis)), nbasis: nbasis, nocc: nocc}, nil
}

func (w *DOCIWfn) Encoding() det.Encoding { return det.SeniorityZero }
func (w *DOCIWfn) NBasis() int            { return w.nbasis }
func (w *DOCIWfn) NWord() int             { return w.nword }
func (w *DOCIWfn) NOccUp() int            { return w.nocc }
func (w *DOCIWfn) NOccDn() int            { return w.nocc }

// AddHartreeFockDet adds the determinant with the lowest nocc orbitals occupied.
func (w *DOCIWfn) AddHartreeFockDet() int {
	idx := 0
	channelExcitations(w.nbasis, w.nocc, 0, func(d []uint64) { idx = w.add(d) })
	return idx
}

// AddAllDets adds every seniority-zero determinant.
func (w *DOCIWfn) AddAllDets() {
	w.Reserve(combin.Binomial(w.nbasis, w.nocc))
	channelAll(w.nbasis, w.nocc, func(d []uint64) { w.add(d) })
}

// AddExcitedDets adds every determinant exactly exc pair excitations away
// from the Hartree-Fock determinant.
func (w *DOCIWfn) AddExcitedDets(exc int) error {
	if exc < 0 || exc > maxExcitation(w.nbasis, w.nocc) {
		return fmt.Errorf("DOCIWfn.AddExcitedDets(%d): %w", exc, ErrBadExcitation)
	}
	channelExcitations(w.nbasis, w.nocc, exc, func(d []uint64) { w.add(d) })
	return nil
}

// AddDet adds d and returns its position.
func (w *DOCIWfn) AddDet(d []uint64) (int, error) {
	if len(d) != w.nword || det.Popcount(d) != w.nocc || !fitsBasis(d, w.nbasis) {
		return -1, fmt.Errorf("DOCIWfn.AddDet: %w", ErrBadDeterminant)
	}
	return w.add(d), nil
}

// fitsBasis reports whether no orbital at or above nbasis is occupied.
func fitsBasis(d []uint64, nbasis int) bool {
	occs := det.Orbitals(d)
	return len(occs) == 0 || occs[len(occs)-1] < nbasis
}
