// Package det implements the bit-string determinant primitives shared by the
// basis enumerations (ci/wfn) and the operator row builders (ci).
//
// A determinant is a slice of 64-bit words; orbital p is bit p%64 of word p/64.
// Two-channel determinants store the up-channel words followed by the
// down-channel words, each channel NWord(nbasis) words long.
//
// The functions here sit on the operator assembly hot path and do not validate
// their arguments: callers guarantee orbital indices are below the channel's
// basis size and that buffers are large enough.
package det

import "math/bits"

// Encoding identifies how a basis packs particle occupations into determinants.
type Encoding int

const (
	// SeniorityZero packs spin-paired occupations: one word set per spatial
	// orbital, both spin channels implied co-occupied.
	SeniorityZero Encoding = iota
	// TwoChannel stores separate up and down occupation words.
	TwoChannel
	// SingleChannel stores generalized spin-orbital occupations in one word set.
	SingleChannel
)

var encodingNames = map[Encoding]string{
	SeniorityZero: "seniority-zero",
	TwoChannel:    "two-channel",
	SingleChannel: "single-channel",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return "unknown"
}

// WordBits is the number of orbitals held by one determinant word.
const WordBits = 64

// NWord returns the number of words needed to hold nbasis orbitals.
func NWord(nbasis int) int {
	return (nbasis + WordBits - 1) / WordBits
}

// Occupied reports whether orbital p is set in d.
func Occupied(d []uint64, p int) bool {
	return d[p/WordBits]&(1<<uint(p%WordBits)) != 0
}

// Set marks orbital p occupied.
func Set(d []uint64, p int) {
	d[p/WordBits] |= 1 << uint(p%WordBits)
}

// Clear marks orbital p vacant.
func Clear(d []uint64, p int) {
	d[p/WordBits] &^= 1 << uint(p%WordBits)
}

// Excite vacates orbital i and occupies orbital a. Excite(d, a, i) undoes it.
func Excite(d []uint64, i, a int) {
	Clear(d, i)
	Set(d, a)
}

// Popcount returns the number of occupied orbitals in d.
func Popcount(d []uint64) int {
	n := 0
	for _, w := range d {
		n += bits.OnesCount64(w)
	}
	return n
}

// FillOccs writes the occupied orbital indices of d to occs in ascending
// order and returns how many were written.
func FillOccs(d []uint64, occs []int) int {
	j := 0
	for i, w := range d {
		for w != 0 {
			occs[j] = i*WordBits + bits.TrailingZeros64(w)
			w &= w - 1
			j++
		}
	}
	return j
}

// FillVirs writes the vacant orbital indices below nbasis to virs in
// ascending order and returns how many were written.
func FillVirs(d []uint64, nbasis int, virs []int) int {
	j := 0
	nword := NWord(nbasis)
	for i := 0; i < nword; i++ {
		w := ^d[i]
		if i == nword-1 && nbasis%WordBits != 0 {
			w &= (1 << uint(nbasis%WordBits)) - 1
		}
		for w != 0 {
			virs[j] = i*WordBits + bits.TrailingZeros64(w)
			w &= w - 1
			j++
		}
	}
	return j
}

// Orbitals returns the occupied orbital indices of d as a new slice.
func Orbitals(d []uint64) []int {
	occs := make([]int, Popcount(d))
	FillOccs(d, occs)
	return occs
}

// FromOrbitals builds an nword-long determinant with the given orbitals set.
func FromOrbitals(nword int, occs []int) []uint64 {
	d := make([]uint64, nword)
	for _, p := range occs {
		Set(d, p)
	}
	return d
}

// countBetween returns the number of occupied orbitals strictly between
// orbitals lo and hi (lo < hi).
func countBetween(d []uint64, lo, hi int) int {
	jw, jb := lo/WordBits, lo%WordBits
	kw, kb := hi/WordBits, hi%WordBits
	n := 0
	for l := jw; l <= kw; l++ {
		mask := ^uint64(0)
		if l == kw {
			mask = (1 << uint(kb)) - 1
		}
		if l == jw {
			// bits above lo only; jb+1 == 64 yields an empty mask
			if jb+1 < WordBits {
				mask &= ^((1 << uint(jb+1)) - 1)
			} else {
				mask = 0
			}
		}
		n += bits.OnesCount64(d[l] & mask)
	}
	return n
}

// PhaseSingle returns the fermionic sign of the substitution i -> a applied
// to d, which must be the pre-substitution determinant.
func PhaseSingle(d []uint64, i, a int) int {
	lo, hi := i, a
	if lo > hi {
		lo, hi = hi, lo
	}
	if countBetween(d, lo, hi)%2 == 1 {
		return -1
	}
	return 1
}

// PhaseDouble returns the fermionic sign of the paired substitution
// (i1 -> a1, i2 -> a2) applied to the pre-substitution determinant d.
// Requires i1 < i2 and a1 < a2.
func PhaseDouble(d []uint64, i1, i2, a1, a2 int) int {
	n := 0
	lo, hi := i1, a1
	if lo > hi {
		lo, hi = hi, lo
	}
	n += countBetween(d, lo, hi)
	lo, hi = i2, a2
	if lo > hi {
		lo, hi = hi, lo
	}
	n += countBetween(d, lo, hi)
	// the second substitution moved an orbital across the first one's range
	if i2 < a1 || i1 > a2 {
		n++
	}
	if n%2 == 1 {
		return -1
	}
	return 1
}
