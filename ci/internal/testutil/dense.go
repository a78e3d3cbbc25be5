package testutil

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// DenseMatvec computes a x through gonum's dense kernels. Zero-sized
// operands, which gonum vectors cannot hold, give a zero result of length r.
func DenseMatvec(a mat.Matrix, x []float64) []float64 {
	r, _ := a.Dims()
	if r == 0 || len(x) == 0 {
		return make([]float64, r)
	}
	y := mat.NewVecDense(r, nil)
	y.MulVec(a, mat.NewVecDense(len(x), x))
	return y.RawVector().Data
}

// RandomVector returns n values uniform in [-1, 1).
func RandomVector(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = 2*rng.Float64() - 1
	}
	return x
}

// RandomCSR returns CSR arrays for an nrow x ncol matrix in which each
// element is stored with probability density.
func RandomCSR(nrow, ncol int, density float64, seed int64) (data []float64, indices, indptr []int) {
	rng := rand.New(rand.NewSource(seed))
	indptr = make([]int, 1, nrow+1)
	for i := 0; i < nrow; i++ {
		var cols []int
		for j := 0; j < ncol; j++ {
			if rng.Float64() < density {
				cols = append(cols, j)
			}
		}
		for _, j := range cols {
			data = append(data, 2*rng.Float64()-1)
			indices = append(indices, j)
		}
		indptr = append(indptr, len(indices))
	}
	return data, indices, indptr
}
