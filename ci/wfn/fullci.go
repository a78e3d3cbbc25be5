package wfn

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/inference-sim/sparseci/ci/det"
)

// FullCIWfn enumerates two-channel determinants: noccUp up-spin and noccDn
// down-spin electrons over nbasis spatial orbitals. Each determinant stores
// the up-channel words followed by the down-channel words.
type FullCIWfn struct {
	detStore
	nbasis int // spatial orbitals
	noccUp int
	noccDn int
}

// NewFullCIWfn returns an empty two-channel enumeration.
func NewFullCIWfn(nbasis, noccUp, noccDn int) (*FullCIWfn, error) {
	if noccUp <= 0 || noccUp > nbasis || noccDn < 0 || noccDn > nbasis {
		return nil, fmt.Errorf("NewFullCIWfn(%d, %d, %d): %w", nbasis, noccUp, noccDn, ErrBadOccupation)
	}
	return &FullCIWfn{
		detStore: newDetStore(2 * det.NWord(nbasis)),
		nbasis:   nbasis,
		noccUp:   noccUp,
		noccDn:   noccDn,
	}, nil
}

func (w *FullCIWfn) Encoding() det.Encoding { return det.TwoChannel }
func (w *FullCIWfn) NBasis() int            { return w.nbasis }
func (w *FullCIWfn) NWord() int             { return w.nword / 2 }
func (w *FullCIWfn) NOccUp() int            { return w.noccUp }
func (w *FullCIWfn) NOccDn() int            { return w.noccDn }

// AddHartreeFockDet adds the determinant with the lowest orbitals of each
// channel occupied.
func (w *FullCIWfn) AddHartreeFockDet() int {
	idx := 0
	w.pairChannels(0, 0, func(d []uint64) { idx = w.add(d) })
	return idx
}

// AddAllDets adds every two-channel determinant.
func (w *FullCIWfn) AddAllDets() {
	w.Reserve(combin.Binomial(w.nbasis, w.noccUp) * combin.Binomial(w.nbasis, w.noccDn))
	nword := w.NWord()
	d := make([]uint64, 2*nword)
	channelAll(w.nbasis, w.noccUp, func(up []uint64) {
		copy(d[:nword], up)
		channelAll(w.nbasis, w.noccDn, func(dn []uint64) {
			copy(d[nword:], dn)
			w.add(d)
		})
	})
}

// AddExcitedDets adds every determinant whose up- and down-channel
// excitation levels sum to exc.
func (w *FullCIWfn) AddExcitedDets(exc int) error {
	maxUp := maxExcitation(w.nbasis, w.noccUp)
	maxDn := maxExcitation(w.nbasis, w.noccDn)
	if exc < 0 || exc > maxUp+maxDn {
		return fmt.Errorf("FullCIWfn.AddExcitedDets(%d): %w", exc, ErrBadExcitation)
	}
	for eUp := 0; eUp <= exc; eUp++ {
		eDn := exc - eUp
		if eUp > maxUp || eDn > maxDn {
			continue
		}
		w.pairChannels(eUp, eDn, func(d []uint64) { w.add(d) })
	}
	return nil
}

// AddDet adds d and returns its position.
func (w *FullCIWfn) AddDet(d []uint64) (int, error) {
	nword := w.NWord()
	if len(d) != w.nword ||
		det.Popcount(d[:nword]) != w.noccUp || det.Popcount(d[nword:]) != w.noccDn ||
		!fitsBasis(d[:nword], w.nbasis) || !fitsBasis(d[nword:], w.nbasis) {
		return -1, fmt.Errorf("FullCIWfn.AddDet: %w", ErrBadDeterminant)
	}
	return w.add(d), nil
}

func (w *FullCIWfn) pairChannels(eUp, eDn int, fn func(d []uint64)) {
	nword := w.NWord()
	d := make([]uint64, 2*nword)
	channelExcitations(w.nbasis, w.noccUp, eUp, func(up []uint64) {
		copy(d[:nword], up)
		channelExcitations(w.nbasis, w.noccDn, eDn, func(dn []uint64) {
			copy(d[nword:], dn)
			fn(d)
		})
	})
}
