package cmd

import (
	"errors"
	"fmt"

	"github.com/inference-sim/sparseci/ci"
	"github.com/inference-sim/sparseci/ci/ham"
	"github.com/inference-sim/sparseci/ci/wfn"
)

const (
	kindDOCI   = "doci"
	kindFullCI = "fullci"
	kindGenCI  = "genci"
)

// enumerable is a basis the CLI can populate.
type enumerable interface {
	ci.Basis
	AddHartreeFockDet() int
	AddAllDets()
	AddExcitedDets(exc int) error
}

// newBasis builds the basis named by wf over h's orbitals and returns it with
// the integrals it must be paired with. genci works on the spin-orbital
// expansion of h.
func newBasis(h *ham.Hamiltonian, wf WavefunctionConfig) (enumerable, ci.Integrals, error) {
	var (
		basis enumerable
		ints  ci.Integrals = h
		err   error
	)
	switch wf.Kind {
	case kindDOCI:
		basis, err = wfn.NewDOCIWfn(h.NBasis(), wf.NOccUp)
	case kindFullCI:
		basis, err = wfn.NewFullCIWfn(h.NBasis(), wf.NOccUp, wf.NOccDn)
	case kindGenCI:
		gen := h.Generalized()
		basis, err = wfn.NewGenCIWfn(gen.NBasis(), wf.NOccUp+wf.NOccDn)
		ints = gen
	default:
		return nil, nil, fmt.Errorf("unknown wavefunction kind %q", wf.Kind)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := populate(basis, wf.Excitation); err != nil {
		return nil, nil, err
	}
	return basis, ints, nil
}

// populate adds every determinant, or the reference and all excitation levels
// up to exc.
func populate(basis enumerable, exc int) error {
	if exc < 0 {
		basis.AddAllDets()
		return nil
	}
	basis.AddHartreeFockDet()
	for e := 1; e <= exc; e++ {
		err := basis.AddExcitedDets(e)
		if errors.Is(err, wfn.ErrBadExcitation) {
			break
		}
		if err != nil {
			return err
		}
	}
	return nil
}
