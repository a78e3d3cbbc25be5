package ci

import "github.com/inference-sim/sparseci/ci/det"

// dociRow builds rows over seniority-zero determinants. A pair substitution
// k -> l moves both electrons of spatial orbital k; the up and down channel
// signs are equal, so the element carries no phase.
type dociRow struct {
	rowContext
	n       int
	h, v, w []float64
	occs    []int
	virs    []int
}

func newDOCIRow(ham PairIntegrals, rows, cols Basis, ncol int, self bool) *dociRow {
	n := rows.NBasis()
	return &dociRow{
		rowContext: newRowContext(rows, cols, ncol, self, rows.NWord()),
		n:          n,
		h:          ham.PairH(),
		v:          ham.PairV(),
		w:          ham.PairW(),
		occs:       make([]int, n),
		virs:       make([]int, n),
	}
}

func (b *dociRow) addRow(op *SparseOp, idet int) {
	n, d := b.n, b.det
	b.rows.CopyDet(idet, d)
	occs := b.occs[:det.FillOccs(d, b.occs)]
	virs := b.virs[:det.FillVirs(d, n, b.virs)]

	var coulomb, pair float64
	for i, k := range occs {
		coulomb += b.v[k*(n+1)]
		pair += b.h[k]
		for _, l := range occs[i+1:] {
			pair += b.w[k*n+l]
		}
		for _, l := range virs {
			excite(d, k, l, func() {
				if jdet, ok := b.lookup(d); ok {
					op.push(b.v[k*n+l], jdet)
				}
			})
		}
	}
	if jdet, ok := b.diagonal(idet); ok {
		op.push(coulomb+2*pair, jdet)
	}
	op.closeRow()
}
