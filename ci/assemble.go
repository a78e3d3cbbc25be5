package ci

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// NewSparseOp assembles the operator of ham over the determinants of wfn.
//
// Rows follow wfn; columns follow the basis given by WithColumnBasis, or wfn
// itself. WithRows/WithCols select the leading sub-block. A substituted
// determinant that is absent from the column basis or lies at or beyond the
// column cutoff is dropped from its row.
//
// Rows are split into contiguous chunks, one goroutine per chunk, each
// building a private partial operator. The partials are then merged in chunk
// order, so the result does not depend on the thread count.
func NewSparseOp(ham Integrals, wfn Basis, opts ...Option) (*SparseOp, error) {
	o := gatherOptions(opts)
	cols, self := o.colBasis, o.colBasis == nil
	if self {
		cols = wfn
	}
	nrow, ncol := o.rows, o.cols
	if nrow < 0 {
		nrow = wfn.Len()
	}
	if ncol < 0 {
		ncol = cols.Len()
	}
	if nrow > wfn.Len() || ncol > cols.Len() {
		return nil, fmt.Errorf("NewSparseOp: %dx%d block of %dx%d basis: %w",
			nrow, ncol, wfn.Len(), cols.Len(), ErrBadShape)
	}
	newBuilder, err := builderFactory(ham, wfn, cols, ncol, self)
	if err != nil {
		return nil, fmt.Errorf("NewSparseOp: %w", err)
	}

	op := &SparseOp{
		nrow:    nrow,
		ncol:    ncol,
		ecore:   ham.ECore(),
		threads: o.threads,
	}
	nthread, err := op.nthreads()
	if err != nil {
		return nil, fmt.Errorf("NewSparseOp: %w", err)
	}
	logrus.Debugf("NewSparseOp: %s basis, %dx%d block, %d threads", wfn.Encoding(), nrow, ncol, nthread)

	parts := make([]*SparseOp, nthread)
	var g errgroup.Group
	for t := 0; t < nthread; t++ {
		start, end := partition(nrow, nthread, t)
		part := newPartial(end-start, ncol)
		parts[t] = part
		g.Go(func() error {
			b := newBuilder()
			for i := start; i < end; i++ {
				b.addRow(part, i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("NewSparseOp: %w", err)
	}
	op.condense(parts)
	logrus.Debugf("NewSparseOp: assembled %d nonzeros", op.Size())
	return op, nil
}

// partition returns the row range of chunk t when nrow rows are split into
// nthread chunks of ceil(nrow/nthread) rows. Trailing chunks may be empty.
func partition(nrow, nthread, t int) (start, end int) {
	size := nrow / nthread
	if nrow%nthread != 0 {
		size++
	}
	start = min(t*size, nrow)
	end = min(start+size, nrow)
	return start, end
}

// condense concatenates parts into op in order, shifting each part's row
// offsets by the elements already merged. Each part is released once copied.
func (op *SparseOp) condense(parts []*SparseOp) {
	nnz := 0
	for _, p := range parts {
		nnz += p.Size()
	}
	op.data = make([]float64, 0, nnz)
	op.indices = make([]int, 0, nnz)
	op.indptr = append(make([]int, 0, op.nrow+1), 0)
	for t, p := range parts {
		offset := len(op.indices)
		op.data = append(op.data, p.data...)
		op.indices = append(op.indices, p.indices...)
		for _, end := range p.indptr[1:] {
			op.indptr = append(op.indptr, end+offset)
		}
		logrus.Debugf("NewSparseOp: chunk %d merged %d rows, %d nonzeros", t, p.nrow, p.Size())
		parts[t] = nil
	}
}
