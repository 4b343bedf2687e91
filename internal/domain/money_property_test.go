package domain

import (
	"testing"

	"pgregory.net/rapid"
)

// TestProperty_MulBasisPointsRounding verifies that MulBasisPoints is within
// half a cent of the exact product, i.e. |result*10000 - cents*bps| <= 5000,
// and never rounds down on an exact half.
func TestProperty_MulBasisPointsRounding(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cents := rapid.Int64Range(0, 1_000_000_00).Draw(t, "cents")
		bps := rapid.Int64Range(0, 20000).Draw(t, "bps")

		got := MulBasisPoints(cents, bps)
		exact := cents * bps

		diff := got*10000 - exact
		if diff < -5000+1 || diff > 5000 {
			t.Fatalf("MulBasisPoints(%d, %d) = %d, off by %d ten-thousandths", cents, bps, got, diff)
		}
	})
}

// TestProperty_DollarsCentsRoundTrip verifies that any whole-cent amount
// survives a cents → dollars → cents round trip.
func TestProperty_DollarsCentsRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cents := rapid.Int64Range(-1_000_000_00, 1_000_000_00).Draw(t, "cents")

		back, err := DollarsToCents(CentsToDollars(cents))
		if err != nil {
			t.Fatalf("round trip of %d failed: %v", cents, err)
		}
		if back != cents {
			t.Fatalf("round trip of %d returned %d", cents, back)
		}
	})
}
