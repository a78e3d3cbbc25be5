// Package testutil provides shared test infrastructure for the ci packages:
// floating-point assertions, dense reference arithmetic and seeded inputs.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
// Differences below relTol in absolute terms always pass, so values that
// should cancel to zero compare cleanly.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if !within(want, got, relTol) {
		diff := math.Abs(want - got)
		t.Errorf("%s: got %v, want %v (diff=%v)", name, got, want, diff)
	}
}

// AssertSlicesClose compares two slices elementwise with AssertFloat64Equal's
// tolerance rule and reports at most the first few mismatches.
func AssertSlicesClose(t *testing.T, name string, want, got []float64, relTol float64) {
	t.Helper()
	if len(want) != len(got) {
		t.Errorf("%s: len %d, want %d", name, len(got), len(want))
		return
	}
	bad := 0
	for i := range want {
		if within(want[i], got[i], relTol) {
			continue
		}
		if bad++; bad > 5 {
			t.Errorf("%s: further mismatches suppressed", name)
			return
		}
		t.Errorf("%s[%d]: got %v, want %v", name, i, got[i], want[i])
	}
}

func within(want, got, relTol float64) bool {
	diff := math.Abs(want - got)
	if diff <= relTol {
		return true
	}
	return diff/math.Max(math.Abs(want), math.Abs(got)) <= relTol
}
