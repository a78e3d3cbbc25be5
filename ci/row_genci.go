package ci

import "github.com/inference-sim/sparseci/ci/det"

// genCIRow builds rows over single-channel determinants of generalized spin
// orbitals: singles and doubles within one occupation set.
type genCIRow struct {
	rowContext
	mo   moTables
	occs []int
	virs []int
}

func newGenCIRow(ham Integrals, rows, cols Basis, ncol int, self bool) *genCIRow {
	n := rows.NBasis()
	return &genCIRow{
		rowContext: newRowContext(rows, cols, ncol, self, rows.NWord()),
		mo:         newMOTables(ham),
		occs:       make([]int, n),
		virs:       make([]int, n),
	}
}

func (b *genCIRow) addRow(op *SparseOp, idet int) {
	mo, d := b.mo, b.det
	ref := b.rows.DetAt(idet)
	copy(d, ref)
	occs := b.occs[:det.FillOccs(ref, b.occs)]
	virs := b.virs[:det.FillVirs(ref, mo.n, b.virs)]

	var diag float64
	for i, ii := range occs {
		diag += mo.h(ii, ii)
		for _, kk := range occs[i+1:] {
			diag += mo.v(ii, kk, ii, kk) - mo.v(ii, kk, kk, ii)
		}
		for j, jj := range virs {
			excite(d, ii, jj, func() {
				if jdet, ok := b.lookup(d); ok {
					val := mo.h(ii, jj)
					for _, kk := range occs {
						val += mo.v(ii, kk, jj, kk) - mo.v(ii, kk, kk, jj)
					}
					op.push(float64(det.PhaseSingle(ref, ii, jj))*val, jdet)
				}
				for _, kk := range occs[i+1:] {
					for _, ll := range virs[j+1:] {
						excite(d, kk, ll, func() {
							if jdet, ok := b.lookup(d); ok {
								val := mo.v(ii, kk, jj, ll) - mo.v(ii, kk, ll, jj)
								op.push(float64(det.PhaseDouble(ref, ii, kk, jj, ll))*val, jdet)
							}
						})
					}
				}
			})
		}
	}
	if jdet, ok := b.diagonal(idet); ok {
		op.push(diag, jdet)
	}
	op.closeRow()
}
