// Package ci assembles and applies the sparse matrix representation of an
// electronic-structure Hamiltonian in a basis of determinants.
//
// # Reading Guide
//
// Start with these files:
//   - sparse_op.go: SparseOp, the compressed row-sparse container and its accessors
//   - assemble.go: NewSparseOp, the fork/join assembly coordinator and ordered merge
//   - row_builder.go: the per-row matrix element generator contract; the three
//     encodings live in row_doci.go, row_fullci.go and row_genci.go
//   - apply.go: Matvec and the CEPA0 kernels used by amplitude solvers
//
// # Key Interfaces
//
// The package consumes two contracts and owns no implementation of either:
//   - Basis: an ordered determinant enumeration with hash lookup (ci/wfn)
//   - Integrals / PairIntegrals: core energy, one- and two-body integrals (ci/ham)
//
// Bit-level determinant primitives (occupied/vacant listing, substitution,
// permutation signs) live in ci/det.
//
// # Concurrency
//
// Assembly and the forward kernels split rows into contiguous chunks and run
// one goroutine per chunk; goroutines are spawned per call and joined before
// the call returns. The CEPA0 transpose kernel is serial. A SparseOp is
// immutable once constructed and safe for concurrent use.
package ci
