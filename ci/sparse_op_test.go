package ci

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/sparseci/ci/internal/testutil"
)

// workedExample is the 2x2 operator [[1, 0.5], [0.5, 2]].
func workedExample(t *testing.T, opts ...Option) *SparseOp {
	t.Helper()
	op, err := NewSparseOpFromCSR(2, 2, 0.25,
		[]float64{1, 0.5, 0.5, 2}, []int{0, 1, 0, 1}, []int{0, 2, 4}, opts...)
	require.NoError(t, err)
	return op
}

func TestSparseOp_WorkedExample_Elements(t *testing.T) {
	op := workedExample(t)

	r, c := op.Shape()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 4, op.Size())
	assert.Equal(t, 0.25, op.ECore())

	got, err := op.GetElement(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)
	got, err = op.GetElement(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestSparseOp_GetElement_AbsentIsZero(t *testing.T) {
	// GIVEN a 2x3 operator with row 0 = {0: 1.5, 2: -1} and an empty row 1
	op, err := NewSparseOpFromCSR(2, 3, 0, []float64{1.5, -1}, []int{0, 2}, []int{0, 2, 2})
	require.NoError(t, err)

	// THEN every (i, j) matches a brute-force scan of the stored row
	want := [][]float64{{1.5, 0, -1}, {0, 0, 0}}
	for i := range want {
		for j := range want[i] {
			got, err := op.GetElement(i, j)
			require.NoError(t, err)
			assert.Equal(t, want[i][j], got, "(%d, %d)", i, j)
		}
	}
}

func TestSparseOp_GetElement_OutOfRange(t *testing.T) {
	op := workedExample(t)
	for _, ij := range [][2]int{{-1, 0}, {2, 0}, {0, -1}, {0, 2}} {
		_, err := op.GetElement(ij[0], ij[1])
		assert.ErrorIs(t, err, ErrOutOfRange, "(%d, %d)", ij[0], ij[1])
	}
}

func TestSparseOp_CloseRow_SortsByColumn(t *testing.T) {
	op := newPartial(2, 6)
	op.push(3, 5)
	op.push(1, 1)
	op.push(2, 3)
	op.closeRow()
	op.push(9, 4)
	op.push(8, 0)
	op.closeRow()

	assert.Equal(t, []int{1, 3, 5, 0, 4}, op.indices)
	assert.Equal(t, []float64{1, 2, 3, 8, 9}, op.data)
	assert.Equal(t, []int{0, 3, 5}, op.indptr)
}

func TestNewSparseOpFromCSR_RejectsBrokenInvariants(t *testing.T) {
	tests := []struct {
		name    string
		nrow    int
		ncol    int
		data    []float64
		indices []int
		indptr  []int
	}{
		{"short indptr", 2, 2, []float64{1}, []int{0}, []int{0, 1}},
		{"nonzero first offset", 1, 2, []float64{1}, []int{0}, []int{1, 1}},
		{"last offset != nnz", 1, 2, []float64{1, 2}, []int{0, 1}, []int{0, 1}},
		{"data/indices length", 1, 2, []float64{1}, []int{0, 1}, []int{0, 2}},
		{"decreasing offsets", 2, 2, []float64{1, 2}, []int{0, 1}, []int{0, 2, 1}},
		{"column >= ncol", 1, 2, []float64{1}, []int{2}, []int{0, 1}},
		{"negative column", 1, 2, []float64{1}, []int{-1}, []int{0, 1}},
		{"unsorted row", 1, 3, []float64{1, 2}, []int{2, 0}, []int{0, 2}},
		{"duplicate column", 1, 3, []float64{1, 2}, []int{1, 1}, []int{0, 2}},
		{"negative shape", -1, 2, nil, nil, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSparseOpFromCSR(tt.nrow, tt.ncol, 0, tt.data, tt.indices, tt.indptr)
			assert.ErrorIs(t, err, ErrInvalidCSR)
		})
	}
}

func TestSparseOp_MatrixInterface(t *testing.T) {
	data, indices, indptr := testutil.RandomCSR(5, 7, 0.4, 11)
	op, err := NewSparseOpFromCSR(5, 7, 0, data, indices, indptr)
	require.NoError(t, err)

	d := op.ToDense()
	for i := 0; i < 5; i++ {
		for j := 0; j < 7; j++ {
			assert.Equal(t, d.At(i, j), op.At(i, j))
			assert.Equal(t, op.At(i, j), op.T().At(j, i))
		}
	}
	assert.PanicsWithValue(t, mat.ErrRowAccess, func() { op.At(5, 0) })
	assert.PanicsWithValue(t, mat.ErrColAccess, func() { op.At(0, 7) })
}

func TestSparseOp_ToDense_ZeroDimension(t *testing.T) {
	for _, shape := range [][2]int{{0, 0}, {0, 5}, {3, 0}} {
		nrow, ncol := shape[0], shape[1]
		op, err := NewSparseOpFromCSR(nrow, ncol, 0, nil, nil, make([]int, nrow+1))
		require.NoError(t, err)

		// the dense form collapses to 0x0; the operator keeps its shape
		d := op.ToDense()
		assert.True(t, d.IsEmpty(), "%dx%d", nrow, ncol)
		r, c := d.Dims()
		assert.Equal(t, [2]int{0, 0}, [2]int{r, c})
		r, c = op.Shape()
		assert.Equal(t, shape, [2]int{r, c})
	}
}

func TestSparseOp_ThreadProvider(t *testing.T) {
	calls := 0
	op := workedExample(t, WithThreadCounter(func() int { calls++; return 3 }))
	_, err := op.Matvec([]float64{1, 1})
	require.NoError(t, err)
	_, err = op.MatvecCepa0([]float64{1, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "provider is consulted once per call")

	bad := workedExample(t, WithThreads(0))
	_, err = bad.Matvec([]float64{1, 1})
	assert.ErrorIs(t, err, ErrThreadCount)
}

func TestDefaultThreads_Env(t *testing.T) {
	t.Setenv(ThreadsEnv, "5")
	assert.Equal(t, 5, DefaultThreads())
	t.Setenv(ThreadsEnv, "zero")
	assert.GreaterOrEqual(t, DefaultThreads(), 1)
	t.Setenv(ThreadsEnv, "-2")
	assert.GreaterOrEqual(t, DefaultThreads(), 1)
}
