package ci

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_TilesRows(t *testing.T) {
	for _, nrow := range []int{0, 1, 2, 7, 16, 100} {
		for _, nthread := range []int{1, 2, 3, 8, 33} {
			t.Run(fmt.Sprintf("nrow=%d/threads=%d", nrow, nthread), func(t *testing.T) {
				next := 0
				for i := 0; i < nthread; i++ {
					start, end := partition(nrow, nthread, i)
					require.Equal(t, next, start, "gap or overlap before chunk %d", i)
					require.LessOrEqual(t, start, end)
					next = end
				}
				assert.Equal(t, nrow, next)
			})
		}
	}
}

func TestCondense_OffsetsRowsInChunkOrder(t *testing.T) {
	a := newPartial(2, 4)
	a.push(1, 0)
	a.closeRow()
	a.push(2, 1)
	a.push(3, 3)
	a.closeRow()
	empty := newPartial(0, 4)
	b := newPartial(1, 4)
	b.push(4, 2)
	b.closeRow()

	op := &SparseOp{nrow: 3, ncol: 4}
	parts := []*SparseOp{a, empty, b}
	op.condense(parts)

	assert.Equal(t, []float64{1, 2, 3, 4}, op.data)
	assert.Equal(t, []int{0, 1, 3, 2}, op.indices)
	assert.Equal(t, []int{0, 1, 3, 4}, op.indptr)
	assert.Equal(t, []*SparseOp{nil, nil, nil}, parts, "parts are released after merging")
	require.NoError(t, op.Validate())
}

func TestExcite_RestoresOnPanic(t *testing.T) {
	d := []uint64{0b0011}
	assert.Panics(t, func() {
		excite(d, 1, 3, func() {
			assert.Equal(t, uint64(0b1001), d[0])
			panic("boom")
		})
	})
	assert.Equal(t, uint64(0b0011), d[0])
}
