// Package wfn provides the basis enumerations consumed by the ci operator:
// DOCIWfn (seniority-zero), FullCIWfn (two-channel) and GenCIWfn
// (generalized single-channel). Each holds an ordered, duplicate-free list of
// determinants and a hash index from determinant to position.
//
// Enumerations are built single-threaded (AddAllDets, AddExcitedDets, AddDet)
// and are then safe for concurrent reads by any number of goroutines.
package wfn

import (
	"errors"
	"strings"
	"unsafe"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/inference-sim/sparseci/ci/det"
)

var (
	// ErrBadOccupation is returned for occupation numbers outside [1, nbasis].
	ErrBadOccupation = errors.New("wfn: invalid occupation numbers")
	// ErrBadExcitation is returned for excitation levels the basis cannot reach.
	ErrBadExcitation = errors.New("wfn: invalid excitation level")
	// ErrBadDeterminant is returned when a determinant has the wrong length or
	// particle count for the enumeration.
	ErrBadDeterminant = errors.New("wfn: invalid determinant")
)

// detStore is the determinant list plus index shared by all enumerations.
type detStore struct {
	nword int            // words per stored determinant
	dets  []uint64       // flattened determinants, nword words each
	index map[string]int // raw determinant bytes -> position
}

func newDetStore(nword int) detStore {
	return detStore{nword: nword, index: make(map[string]int)}
}

// Len returns the number of determinants.
func (s *detStore) Len() int {
	return len(s.dets) / s.nword
}

// DetAt returns a read-only view of determinant i.
func (s *detStore) DetAt(i int) []uint64 {
	return s.dets[i*s.nword : (i+1)*s.nword : (i+1)*s.nword]
}

// CopyDet copies determinant i into d.
func (s *detStore) CopyDet(i int, d []uint64) {
	copy(d, s.DetAt(i))
}

// IndexDet returns the position of d, or -1 when d is not in the enumeration.
func (s *detStore) IndexDet(d []uint64) int {
	if len(d) != s.nword {
		return -1
	}
	if i, ok := s.index[detKey(d)]; ok {
		return i
	}
	return -1
}

// Reserve grows the backing storage to hold n determinants.
func (s *detStore) Reserve(n int) {
	if need := n * s.nword; need > cap(s.dets) {
		grown := make([]uint64, len(s.dets), need)
		copy(grown, s.dets)
		s.dets = grown
	}
}

// add appends d unless it is already present and returns its position.
func (s *detStore) add(d []uint64) int {
	if i := s.IndexDet(d); i >= 0 {
		return i
	}
	i := s.Len()
	s.dets = append(s.dets, d...)
	s.index[strings.Clone(detKey(d))] = i
	return i
}

// detKey views the determinant words as a string without copying. The result
// must not outlive d unless cloned.
func detKey(d []uint64) string {
	if len(d) == 0 {
		return ""
	}
	return unsafe.String((*byte)(unsafe.Pointer(unsafe.SliceData(d))), len(d)*8)
}

// channelExcitations calls fn with every determinant obtained from the
// lowest-nocc reference of an nbasis channel by moving exactly e particles
// into vacant orbitals. The determinant passed to fn is reused between calls.
func channelExcitations(nbasis, nocc, e int, fn func(d []uint64)) {
	nvir := nbasis - nocc
	d := make([]uint64, det.NWord(nbasis))
	holes := combin.NewCombinationGenerator(nocc, e)
	hole := make([]int, e)
	part := make([]int, e)
	for holes.Next() {
		holes.Combination(hole)
		parts := combin.NewCombinationGenerator(nvir, e)
		for parts.Next() {
			parts.Combination(part)
			clear(d)
			for p := 0; p < nocc; p++ {
				det.Set(d, p)
			}
			for k := 0; k < e; k++ {
				det.Excite(d, hole[k], nocc+part[k])
			}
			fn(d)
		}
	}
}

// channelAll calls fn with every nocc-particle determinant over nbasis orbitals.
func channelAll(nbasis, nocc int, fn func(d []uint64)) {
	d := make([]uint64, det.NWord(nbasis))
	gen := combin.NewCombinationGenerator(nbasis, nocc)
	occs := make([]int, nocc)
	for gen.Next() {
		gen.Combination(occs)
		clear(d)
		for _, p := range occs {
			det.Set(d, p)
		}
		fn(d)
	}
}

// maxExcitation is the highest excitation level reachable in one channel.
func maxExcitation(nbasis, nocc int) int {
	return min(nocc, nbasis-nocc)
}
