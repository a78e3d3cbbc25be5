package ci

import (
	"os"
	"runtime"
	"strconv"
)

// ThreadsEnv overrides the default thread count when set to a positive integer.
const ThreadsEnv = "SPARSECI_NUM_THREADS"

// DefaultThreads is the default thread count provider: ThreadsEnv when it
// holds a positive integer, otherwise runtime.GOMAXPROCS(0).
func DefaultThreads() int {
	if s := os.Getenv(ThreadsEnv); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return runtime.GOMAXPROCS(0)
}

// Option configures NewSparseOp and NewSparseOpFromCSR.
type Option func(*options)

type options struct {
	threads  func() int // thread count provider, resolved once per call
	rows     int        // < 0: row basis size
	cols     int        // < 0: column basis size
	colBasis Basis      // nil: row basis
}

func defaultOptions() options {
	return options{threads: DefaultThreads, rows: -1, cols: -1}
}

func gatherOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithThreads fixes the thread count for assembly and every application call.
func WithThreads(n int) Option {
	return func(o *options) { o.threads = func() int { return n } }
}

// WithThreadCounter installs a thread count provider, consulted once per call.
func WithThreadCounter(fn func() int) Option {
	return func(o *options) { o.threads = fn }
}

// WithRows limits the operator to the first n row-basis determinants.
// A negative n selects the whole basis.
func WithRows(n int) Option {
	return func(o *options) { o.rows = n }
}

// WithCols limits the operator to the first n column-basis determinants.
// A negative n selects the whole basis.
func WithCols(n int) Option {
	return func(o *options) { o.cols = n }
}

// WithColumnBasis looks up substituted determinants in b instead of the row
// basis. b must share the row basis's encoding, orbitals and occupations.
func WithColumnBasis(b Basis) Option {
	return func(o *options) { o.colBasis = b }
}
