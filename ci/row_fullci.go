package ci

import "github.com/inference-sim/sparseci/ci/det"

// fullCIRow builds rows over two-channel determinants. Substitutions are
// labelled by how many electrons move in each channel: 1-0, 0-1, 1-1, 2-0
// and 0-2. Opposite-spin pairs contribute no exchange.
type fullCIRow struct {
	rowContext
	mo     moTables
	nword  int
	occsUp []int
	occsDn []int
	virsUp []int
	virsDn []int
}

func newFullCIRow(ham Integrals, rows, cols Basis, ncol int, self bool) *fullCIRow {
	n, nword := rows.NBasis(), rows.NWord()
	return &fullCIRow{
		rowContext: newRowContext(rows, cols, ncol, self, 2*nword),
		mo:         newMOTables(ham),
		nword:      nword,
		occsUp:     make([]int, n),
		occsDn:     make([]int, n),
		virsUp:     make([]int, n),
		virsDn:     make([]int, n),
	}
}

func (b *fullCIRow) addRow(op *SparseOp, idet int) {
	mo, d := b.mo, b.det
	ref := b.rows.DetAt(idet)
	copy(d, ref)
	refUp, refDn := ref[:b.nword], ref[b.nword:]
	up, dn := d[:b.nword], d[b.nword:]
	occsUp := b.occsUp[:det.FillOccs(refUp, b.occsUp)]
	occsDn := b.occsDn[:det.FillOccs(refDn, b.occsDn)]
	virsUp := b.virsUp[:det.FillVirs(refUp, mo.n, b.virsUp)]
	virsDn := b.virsDn[:det.FillVirs(refDn, mo.n, b.virsDn)]

	var diag float64
	for i, ii := range occsUp {
		diag += mo.h(ii, ii)
		for _, kk := range occsUp[i+1:] {
			diag += mo.v(ii, kk, ii, kk) - mo.v(ii, kk, kk, ii)
		}
		for _, kk := range occsDn {
			diag += mo.v(ii, kk, ii, kk)
		}
		for j, jj := range virsUp {
			signUp := float64(det.PhaseSingle(refUp, ii, jj))
			excite(up, ii, jj, func() {
				// 1-0
				if jdet, ok := b.lookup(d); ok {
					val := mo.h(ii, jj)
					for _, kk := range occsUp {
						val += mo.v(ii, kk, jj, kk) - mo.v(ii, kk, kk, jj)
					}
					for _, kk := range occsDn {
						val += mo.v(ii, kk, jj, kk)
					}
					op.push(signUp*val, jdet)
				}
				// 1-1
				for _, kk := range occsDn {
					for _, ll := range virsDn {
						excite(dn, kk, ll, func() {
							if jdet, ok := b.lookup(d); ok {
								sign := signUp * float64(det.PhaseSingle(refDn, kk, ll))
								op.push(sign*mo.v(ii, kk, jj, ll), jdet)
							}
						})
					}
				}
				// 2-0
				for _, kk := range occsUp[i+1:] {
					for _, ll := range virsUp[j+1:] {
						excite(up, kk, ll, func() {
							if jdet, ok := b.lookup(d); ok {
								val := mo.v(ii, kk, jj, ll) - mo.v(ii, kk, ll, jj)
								op.push(float64(det.PhaseDouble(refUp, ii, kk, jj, ll))*val, jdet)
							}
						})
					}
				}
			})
		}
	}

	for i, ii := range occsDn {
		diag += mo.h(ii, ii)
		for _, kk := range occsDn[i+1:] {
			diag += mo.v(ii, kk, ii, kk) - mo.v(ii, kk, kk, ii)
		}
		for j, jj := range virsDn {
			excite(dn, ii, jj, func() {
				// 0-1
				if jdet, ok := b.lookup(d); ok {
					val := mo.h(ii, jj)
					for _, kk := range occsUp {
						val += mo.v(ii, kk, jj, kk)
					}
					for _, kk := range occsDn {
						val += mo.v(ii, kk, jj, kk) - mo.v(ii, kk, kk, jj)
					}
					op.push(float64(det.PhaseSingle(refDn, ii, jj))*val, jdet)
				}
				// 0-2
				for _, kk := range occsDn[i+1:] {
					for _, ll := range virsDn[j+1:] {
						excite(dn, kk, ll, func() {
							if jdet, ok := b.lookup(d); ok {
								val := mo.v(ii, kk, jj, ll) - mo.v(ii, kk, ll, jj)
								op.push(float64(det.PhaseDouble(refDn, ii, kk, jj, ll))*val, jdet)
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
