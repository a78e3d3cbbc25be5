package ci

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// SparseOp is a real operator matrix in compressed sparse row form.
//
// Row i occupies data[indptr[i]:indptr[i+1]] with matching column indices in
// indices, sorted ascending and unique. The core energy is carried alongside
// and never folded into the stored elements.
type SparseOp struct {
	nrow  int
	ncol  int
	ecore float64

	data    []float64
	indices []int
	indptr  []int

	threads func() int
}

var _ mat.Matrix = (*SparseOp)(nil)

// newPartial returns an empty accumulator for nrow rows of width ncol.
func newPartial(nrow, ncol int) *SparseOp {
	return &SparseOp{
		nrow:   nrow,
		ncol:   ncol,
		indptr: append(make([]int, 0, nrow+1), 0),
	}
}

// push appends one element to the open row.
func (op *SparseOp) push(val float64, col int) {
	op.data = append(op.data, val)
	op.indices = append(op.indices, col)
}

// closeRow sorts the open row by column and records its end offset.
func (op *SparseOp) closeRow() {
	start := op.indptr[len(op.indptr)-1]
	sort.Stable(rowSorter{data: op.data[start:], indices: op.indices[start:]})
	op.indptr = append(op.indptr, len(op.indices))
}

// rowSorter co-sorts a row's values and column indices by column.
type rowSorter struct {
	data    []float64
	indices []int
}

func (r rowSorter) Len() int           { return len(r.indices) }
func (r rowSorter) Less(i, j int) bool { return r.indices[i] < r.indices[j] }
func (r rowSorter) Swap(i, j int) {
	r.data[i], r.data[j] = r.data[j], r.data[i]
	r.indices[i], r.indices[j] = r.indices[j], r.indices[i]
}

// NewSparseOpFromCSR wraps externally built CSR arrays after checking the
// container invariants. The slices are retained, not copied. Only the thread
// options apply.
func NewSparseOpFromCSR(nrow, ncol int, ecore float64, data []float64, indices, indptr []int, opts ...Option) (*SparseOp, error) {
	o := gatherOptions(opts)
	op := &SparseOp{
		nrow:    nrow,
		ncol:    ncol,
		ecore:   ecore,
		data:    data,
		indices: indices,
		indptr:  indptr,
		threads: o.threads,
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return op, nil
}

// Validate re-checks the CSR invariants and reports the first violation.
func (op *SparseOp) Validate() error {
	if op.nrow < 0 || op.ncol < 0 {
		return fmt.Errorf("shape (%d, %d): %w", op.nrow, op.ncol, ErrInvalidCSR)
	}
	if len(op.indptr) != op.nrow+1 {
		return fmt.Errorf("len(indptr) = %d, want %d: %w", len(op.indptr), op.nrow+1, ErrInvalidCSR)
	}
	if len(op.data) != len(op.indices) {
		return fmt.Errorf("len(data) = %d, len(indices) = %d: %w", len(op.data), len(op.indices), ErrInvalidCSR)
	}
	if op.indptr[0] != 0 {
		return fmt.Errorf("indptr[0] = %d: %w", op.indptr[0], ErrInvalidCSR)
	}
	if op.indptr[op.nrow] != len(op.indices) {
		return fmt.Errorf("indptr[%d] = %d, nnz = %d: %w", op.nrow, op.indptr[op.nrow], len(op.indices), ErrInvalidCSR)
	}
	for i := 0; i < op.nrow; i++ {
		lo, hi := op.indptr[i], op.indptr[i+1]
		if hi < lo || hi > len(op.indices) {
			return fmt.Errorf("indptr decreases or overruns at row %d: %w", i, ErrInvalidCSR)
		}
		for k := lo; k < hi; k++ {
			c := op.indices[k]
			if c < 0 || c >= op.ncol {
				return fmt.Errorf("row %d: column %d outside [0, %d): %w", i, c, op.ncol, ErrInvalidCSR)
			}
			if k > lo && c <= op.indices[k-1] {
				return fmt.Errorf("row %d: columns not strictly increasing at %d: %w", i, c, ErrInvalidCSR)
			}
		}
	}
	return nil
}

func (op *SparseOp) Rows() int      { return op.nrow }
func (op *SparseOp) Cols() int      { return op.ncol }
func (op *SparseOp) ECore() float64 { return op.ecore }

// Shape returns (Rows, Cols).
func (op *SparseOp) Shape() (int, int) { return op.nrow, op.ncol }

// Size returns the number of stored elements.
func (op *SparseOp) Size() int { return len(op.indices) }

// Data, Indices and Indptr expose the CSR arrays without copying.
// Callers must not modify them.
func (op *SparseOp) Data() []float64 { return op.data }
func (op *SparseOp) Indices() []int  { return op.indices }
func (op *SparseOp) Indptr() []int   { return op.indptr }

// GetElement returns element (i, j), or 0 if it is not stored.
func (op *SparseOp) GetElement(i, j int) (float64, error) {
	if i < 0 || i >= op.nrow || j < 0 || j >= op.ncol {
		return 0, fmt.Errorf("GetElement(%d, %d) on %dx%d operator: %w", i, j, op.nrow, op.ncol, ErrOutOfRange)
	}
	return op.element(i, j), nil
}

// element scans row i linearly; rows are short.
func (op *SparseOp) element(i, j int) float64 {
	for k := op.indptr[i]; k < op.indptr[i+1]; k++ {
		if op.indices[k] == j {
			return op.data[k]
		}
	}
	return 0
}

// Dims implements mat.Matrix.
func (op *SparseOp) Dims() (r, c int) { return op.nrow, op.ncol }

// At implements mat.Matrix. It panics on out-of-range indices as gonum matrices do.
func (op *SparseOp) At(i, j int) float64 {
	if i < 0 || i >= op.nrow {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= op.ncol {
		panic(mat.ErrColAccess)
	}
	return op.element(i, j)
}

// T implements mat.Matrix.
func (op *SparseOp) T() mat.Matrix { return mat.Transpose{Matrix: op} }

// ToDense expands the operator into a dense matrix. gonum has no zero-width
// dense matrices, so an operator with a zero dimension yields an empty
// *mat.Dense whose Dims are (0, 0); use Shape for the operator's own size.
func (op *SparseOp) ToDense() *mat.Dense {
	if op.nrow == 0 || op.ncol == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(op.nrow, op.ncol, nil)
	for i := 0; i < op.nrow; i++ {
		for k := op.indptr[i]; k < op.indptr[i+1]; k++ {
			d.Set(i, op.indices[k], op.data[k])
		}
	}
	return d
}

// nthreads resolves the thread count for one call.
func (op *SparseOp) nthreads() (int, error) {
	fn := op.threads
	if fn == nil {
		fn = DefaultThreads
	}
	n := fn()
	if n < 1 {
		return 0, fmt.Errorf("thread provider returned %d: %w", n, ErrThreadCount)
	}
	return n, nil
}
