package wfn

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/inference-sim/sparseci/ci/det"
)

// GenCIWfn enumerates generalized determinants: nocc electrons over nbasis
// spin orbitals in a single occupation channel.
type GenCIWfn struct {
	detStore
	nbasis int // spin orbitals
	nocc   int
}

// NewGenCIWfn returns an empty single-channel enumeration.
func NewGenCIWfn(nbasis, nocc int) (*GenCIWfn, error) {
	if nocc <= 0 || nocc > nbasis {
		return nil, fmt.Errorf("NewGenCIWfn(%d, %d): %w", nbasis, nocc, ErrBadOccupation)
	}
	return &GenCIWfn{detStore: newDetStore(det.NWord(nbasis)), nbasis: nbasis, nocc: nocc}, nil
}

func (w *GenCIWfn) Encoding() det.Encoding { return det.SingleChannel }
func (w *GenCIWfn) NBasis() int            { return w.nbasis }
func (w *GenCIWfn) NWord() int             { return w.nword }
func (w *GenCIWfn) NOccUp() int            { return w.nocc }
func (w *GenCIWfn) NOccDn() int            { return 0 }

// AddHartreeFockDet adds the determinant with the lowest nocc spin orbitals occupied.
func (w *GenCIWfn) AddHartreeFockDet() int {
	idx := 0
	channelExcitations(w.nbasis, w.nocc, 0, func(d []uint64) { idx = w.add(d) })
	return idx
}

// AddAllDets adds every nocc-electron determinant.
func (w *GenCIWfn) AddAllDets() {
	w.Reserve(combin.Binomial(w.nbasis, w.nocc))
	channelAll(w.nbasis, w.nocc, func(d []uint64) { w.add(d) })
}

// AddExcitedDets adds every determinant exactly exc excitations away from
// the Hartree-Fock determinant.
func (w *GenCIWfn) AddExcitedDets(exc int) error {
	if exc < 0 || exc > maxExcitation(w.nbasis, w.nocc) {
		return fmt.Errorf("GenCIWfn.AddExcitedDets(%d): %w", exc, ErrBadExcitation)
	}
	channelExcitations(w.nbasis, w.nocc, exc, func(d []uint64) { w.add(d) })
	return nil
}

// AddDet adds d and returns its position.
func (w *GenCIWfn) AddDet(d []uint64) (int, error) {
	if len(d) != w.nword || det.Popcount(d) != w.nocc || !fitsBasis(d, w.nbasis) {
		return -1, fmt.Errorf("GenCIWfn.AddDet: %w", ErrBadDeterminant)
	}
	return w.add(d), nil
}
