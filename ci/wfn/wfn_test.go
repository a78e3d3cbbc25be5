package wfn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/inference-sim/sparseci/ci/det"
)

var dociCases = []struct{ nbasis, nocc int }{
	{16, 8}, {64, 1}, {40, 4}, {65, 1}, {65, 3}, {129, 2},
}

func TestNewDOCIWfn_InvalidOccupation_ReturnsError(t *testing.T) {
	_, err := NewDOCIWfn(10, 11)
	assert.ErrorIs(t, err, ErrBadOccupation)
	_, err = NewDOCIWfn(10, 0)
	assert.ErrorIs(t, err, ErrBadOccupation)
}

func TestDOCIWfn_AddAllDets_CountAndPopulation(t *testing.T) {
	for _, tc := range dociCases {
		w, err := NewDOCIWfn(tc.nbasis, tc.nocc)
		require.NoError(t, err)
		w.AddAllDets()
		assert.Equal(t, combin.Binomial(tc.nbasis, tc.nocc), w.Len())
		for i := 0; i < w.Len(); i++ {
			require.Equal(t, tc.nocc, det.Popcount(w.DetAt(i)))
		}
	}
}

func TestDOCIWfn_AddExcitedDets_CumulativeCount(t *testing.T) {
	for _, tc := range dociCases {
		w, err := NewDOCIWfn(tc.nbasis, tc.nocc)
		require.NoError(t, err)
		nvir := tc.nbasis - tc.nocc
		assert.ErrorIs(t, w.AddExcitedDets(-1), ErrBadExcitation)
		assert.ErrorIs(t, w.AddExcitedDets(min(tc.nocc, nvir)+1), ErrBadExcitation)
		length := 0
		for e := 0; e <= min(tc.nocc, nvir); e++ {
			length += combin.Binomial(tc.nocc, e) * combin.Binomial(nvir, e)
			require.NoError(t, w.AddExcitedDets(e))
			assert.Equal(t, length, w.Len())
		}
		assert.Equal(t, combin.Binomial(tc.nbasis, tc.nocc), w.Len())
	}
}

func TestDOCIWfn_IndexDet_RoundTrip(t *testing.T) {
	w, err := NewDOCIWfn(70, 3)
	require.NoError(t, err)
	w.AddAllDets()
	buf := make([]uint64, w.NWord())
	for i := 0; i < w.Len(); i += 97 {
		w.CopyDet(i, buf)
		assert.Equal(t, i, w.IndexDet(buf))
	}
	assert.Equal(t, -1, w.IndexDet(make([]uint64, w.NWord())))
	assert.Equal(t, -1, w.IndexDet([]uint64{7}), "wrong length is never found")
}

func TestDOCIWfn_AddDet_DeduplicatesAndValidates(t *testing.T) {
	w, err := NewDOCIWfn(6, 2)
	require.NoError(t, err)
	hf := w.AddHartreeFockDet()
	assert.Equal(t, 0, hf)
	idx, err := w.AddDet([]uint64{0b11})
	require.NoError(t, err)
	assert.Equal(t, hf, idx)
	assert.Equal(t, 1, w.Len())

	_, err = w.AddDet([]uint64{0b111})
	assert.ErrorIs(t, err, ErrBadDeterminant)
	_, err = w.AddDet([]uint64{1<<6 | 1})
	assert.ErrorIs(t, err, ErrBadDeterminant, "orbital outside the basis")
}

func TestFullCIWfn_AddAllDets_ProductOfChannels(t *testing.T) {
	w, err := NewFullCIWfn(5, 3, 2)
	require.NoError(t, err)
	w.AddAllDets()
	assert.Equal(t, combin.Binomial(5, 3)*combin.Binomial(5, 2), w.Len())
	nword := w.NWord()
	for i := 0; i < w.Len(); i++ {
		d := w.DetAt(i)
		require.Len(t, d, 2*nword)
		assert.Equal(t, 3, det.Popcount(d[:nword]))
		assert.Equal(t, 2, det.Popcount(d[nword:]))
		assert.Equal(t, i, w.IndexDet(d))
	}
}

func TestFullCIWfn_AddExcitedDets_CoversAllDets(t *testing.T) {
	w, err := NewFullCIWfn(5, 2, 2)
	require.NoError(t, err)
	for e := 0; e <= 4; e++ {
		require.NoError(t, w.AddExcitedDets(e))
	}
	assert.Equal(t, combin.Binomial(5, 2)*combin.Binomial(5, 2), w.Len())
	assert.ErrorIs(t, w.AddExcitedDets(5), ErrBadExcitation)
}

func TestFullCIWfn_NoDownElectrons(t *testing.T) {
	w, err := NewFullCIWfn(4, 1, 0)
	require.NoError(t, err)
	w.AddAllDets()
	assert.Equal(t, 4, w.Len())
	assert.Equal(t, 0, w.NOccDn())
}

func TestGenCIWfn_HartreeFockThenSingles(t *testing.T) {
	w, err := NewGenCIWfn(8, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, w.AddHartreeFockDet())
	assert.Equal(t, []int{0, 1, 2}, det.Orbitals(w.DetAt(0)))
	require.NoError(t, w.AddExcitedDets(1))
	assert.Equal(t, 1+3*5, w.Len())
	assert.Equal(t, det.SingleChannel, w.Encoding())
	assert.Equal(t, 0, w.NOccDn())
}

func TestGenCIWfn_InvalidInputs(t *testing.T) {
	_, err := NewGenCIWfn(4, 5)
	assert.ErrorIs(t, err, ErrBadOccupation)
	w, err := NewGenCIWfn(4, 2)
	require.NoError(t, err)
	_, err = w.AddDet([]uint64{0b1})
	assert.ErrorIs(t, err, ErrBadDeterminant)
}
