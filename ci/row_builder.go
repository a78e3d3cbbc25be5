package ci

import (
	"fmt"

	"github.com/inference-sim/sparseci/ci/det"
)

// rowBuilder appends the elements of one operator row to op and closes it.
// Each builder owns scratch buffers and is used by one goroutine.
type rowBuilder interface {
	addRow(op *SparseOp, idet int)
}

// rowContext holds what every builder variant shares: the bases, the column
// cutoff and the working determinant.
type rowContext struct {
	rows Basis
	cols Basis
	ncol int
	self bool // no separate column basis: the diagonal column is the row index

	det []uint64
}

func newRowContext(rows, cols Basis, ncol int, self bool, detLen int) rowContext {
	return rowContext{
		rows: rows,
		cols: cols,
		ncol: ncol,
		self: self,
		det:  make([]uint64, detLen),
	}
}

// lookup returns the column of d, with ok=false when d is not in the column
// basis or falls outside the column block.
func (c *rowContext) lookup(d []uint64) (int, bool) {
	j := c.cols.IndexDet(d)
	return j, j >= 0 && j < c.ncol
}

// diagonal returns the column of the row determinant itself.
func (c *rowContext) diagonal(idet int) (int, bool) {
	if c.self {
		return idet, idet < c.ncol
	}
	return c.lookup(c.det)
}

// excite applies the substitution i -> a to d for the duration of fn.
func excite(d []uint64, i, a int, fn func()) {
	det.Excite(d, i, a)
	defer det.Excite(d, a, i)
	fn()
}

// moTables indexes the flat one- and two-body tables.
type moTables struct {
	n   int
	one []float64
	two []float64
}

func newMOTables(ham Integrals) moTables {
	return moTables{n: ham.NBasis(), one: ham.OneMO(), two: ham.TwoMO()}
}

func (t moTables) h(p, q int) float64 { return t.one[p*t.n+q] }

// v returns <pq|rs>.
func (t moTables) v(p, q, r, s int) float64 { return t.two[((p*t.n+q)*t.n+r)*t.n+s] }

// builderFactory checks that ham, rows and cols describe the same orbital
// space and returns a constructor for the matching row builder. self reports
// that cols is the row basis itself.
func builderFactory(ham Integrals, rows, cols Basis, ncol int, self bool) (func() rowBuilder, error) {
	if !self {
		if err := compatibleBases(rows, cols); err != nil {
			return nil, err
		}
	}
	if ham.NBasis() != rows.NBasis() {
		return nil, fmt.Errorf("integrals span %d orbitals, basis spans %d: %w",
			ham.NBasis(), rows.NBasis(), ErrBasisMismatch)
	}
	switch rows.Encoding() {
	case det.SeniorityZero:
		pairs, ok := ham.(PairIntegrals)
		if !ok {
			return nil, fmt.Errorf("%s basis needs pair integrals, got %T: %w",
				det.SeniorityZero, ham, ErrUnsupportedBasis)
		}
		return func() rowBuilder { return newDOCIRow(pairs, rows, cols, ncol, self) }, nil
	case det.TwoChannel:
		return func() rowBuilder { return newFullCIRow(ham, rows, cols, ncol, self) }, nil
	case det.SingleChannel:
		return func() rowBuilder { return newGenCIRow(ham, rows, cols, ncol, self) }, nil
	default:
		return nil, fmt.Errorf("encoding %s: %w", rows.Encoding(), ErrUnsupportedBasis)
	}
}

func compatibleBases(rows, cols Basis) error {
	if rows.Encoding() != cols.Encoding() ||
		rows.NBasis() != cols.NBasis() ||
		rows.NWord() != cols.NWord() ||
		rows.NOccUp() != cols.NOccUp() ||
		rows.NOccDn() != cols.NOccDn() {
		return fmt.Errorf("row basis %s(%d; %d, %d) vs column basis %s(%d; %d, %d): %w",
			rows.Encoding(), rows.NBasis(), rows.NOccUp(), rows.NOccDn(),
			cols.Encoding(), cols.NBasis(), cols.NOccUp(), cols.NOccDn(), ErrBasisMismatch)
	}
	return nil
}
