package ci

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Matvec returns y = A x. x has Cols() elements; y has Rows().
func (op *SparseOp) Matvec(x []float64) ([]float64, error) {
	y := make([]float64, op.nrow)
	if err := op.MatvecTo(x, y); err != nil {
		return nil, err
	}
	return y, nil
}

// MatvecTo writes A x into y, which must have Rows() elements.
func (op *SparseOp) MatvecTo(x, y []float64) error {
	if len(x) != op.ncol || len(y) != op.nrow {
		return fmt.Errorf("MatvecTo: len(x) = %d, len(y) = %d on %dx%d operator: %w",
			len(x), len(y), op.nrow, op.ncol, ErrDimensionMismatch)
	}
	return op.rowBlocks(func(start, end int) {
		for i := start; i < end; i++ {
			var val float64
			for k := op.indptr[i]; k < op.indptr[i+1]; k++ {
				val += op.data[k] * x[op.indices[k]]
			}
			y[i] = val
		}
	})
}

// MatvecCepa0 applies the CEPA0 residual map -(A - A[ref,ref] I) x.
//
// Row ref keeps its off-diagonal elements and replaces the diagonal with
// -x[ref]. Every other row shifts its diagonal by A[ref,ref] and skips
// column ref.
func (op *SparseOp) MatvecCepa0(x []float64, ref int) ([]float64, error) {
	if err := op.checkRef("MatvecCepa0", ref); err != nil {
		return nil, err
	}
	if len(x) != op.ncol {
		return nil, fmt.Errorf("MatvecCepa0: len(x) = %d, want %d: %w", len(x), op.ncol, ErrDimensionMismatch)
	}
	href := op.element(ref, ref)
	y := make([]float64, op.nrow)
	err := op.rowBlocks(func(start, end int) {
		for i := start; i < end; i++ {
			var val float64
			for k := op.indptr[i]; k < op.indptr[i+1]; k++ {
				j := op.indices[k]
				switch {
				case i == ref && j == ref:
					val -= x[j]
				case i == ref:
					val += op.data[k] * x[j]
				case j == i:
					val += (op.data[k] - href) * x[j]
				case j != ref:
					val += op.data[k] * x[j]
				}
			}
			y[i] = -val
		}
	})
	if err != nil {
		return nil, err
	}
	return y, nil
}

// RmatvecCepa0 applies the transpose of the MatvecCepa0 map. x has Rows()
// elements; the result has Cols(), with the reference component pinned to
// x[ref].
//
// Rows scatter into arbitrary output columns, so this kernel runs on the
// calling goroutine.
func (op *SparseOp) RmatvecCepa0(x []float64, ref int) ([]float64, error) {
	if err := op.checkRef("RmatvecCepa0", ref); err != nil {
		return nil, err
	}
	if len(x) != op.nrow {
		return nil, fmt.Errorf("RmatvecCepa0: len(x) = %d, want %d: %w", len(x), op.nrow, ErrDimensionMismatch)
	}
	href := op.element(ref, ref)
	y := make([]float64, op.ncol)
	for i := 0; i < op.nrow; i++ {
		for k := op.indptr[i]; k < op.indptr[i+1]; k++ {
			j := op.indices[k]
			if j == i {
				y[j] += (href - op.data[k]) * x[i]
			} else {
				y[j] -= op.data[k] * x[i]
			}
		}
	}
	y[ref] = x[ref]
	return y, nil
}

// RhsCepa0 returns the CEPA0 right-hand side: row ref restricted to the
// square block, b[j] = A[ref,j] for stored j < Rows().
func (op *SparseOp) RhsCepa0(ref int) ([]float64, error) {
	if err := op.checkRef("RhsCepa0", ref); err != nil {
		return nil, err
	}
	b := make([]float64, op.nrow)
	for k := op.indptr[ref]; k < op.indptr[ref+1]; k++ {
		j := op.indices[k]
		if j >= op.nrow {
			break
		}
		b[j] = op.data[k]
	}
	return b, nil
}

// checkRef requires ref to index both a row and a column.
func (op *SparseOp) checkRef(name string, ref int) error {
	if ref < 0 || ref >= op.nrow || ref >= op.ncol {
		return fmt.Errorf("%s: ref %d outside %dx%d operator: %w", name, ref, op.nrow, op.ncol, ErrOutOfRange)
	}
	return nil
}

// rowBlocks runs fn over the row partition, one goroutine per non-empty chunk.
func (op *SparseOp) rowBlocks(fn func(start, end int)) error {
	nthread, err := op.nthreads()
	if err != nil {
		return err
	}
	var g errgroup.Group
	for t := 0; t < nthread; t++ {
		start, end := partition(op.nrow, nthread, t)
		if start == end {
			continue
		}
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	return g.Wait()
}
