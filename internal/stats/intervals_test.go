package stats

import (
	"math"
	"testing"

	"github.com/ddsjoberg/gt/domain/summary"
)

// TestClopperPearson_ZeroSuccesses verifies the lower bound pins to 0
func TestClopperPearson_ZeroSuccesses(t *testing.T) {
	for _, n := range []int{1, 5, 10, 100} {
		low, high := ClopperPearson(0, n, 0.95)
		if low != 0 {
			t.Errorf("ClopperPearson(0, %d): low = %v, want 0", n, low)
		}
		if high <= 0 || high >= 100 {
			t.Errorf("ClopperPearson(0, %d): high = %v, want in (0, 100)", n, high)
		}
	}
}

// TestClopperPearson_AllSuccesses verifies the upper bound pins to 100
func TestClopperPearson_AllSuccesses(t *testing.T) {
	for _, n := range []int{1, 5, 10, 100} {
		low, high := ClopperPearson(n, n, 0.95)
		if high != 100 {
			t.Errorf("ClopperPearson(%d, %d): high = %v, want 100", n, n, high)
		}
		if low <= 0 || low >= 100 {
			t.Errorf("ClopperPearson(%d, %d): low = %v, want in (0, 100)", n, n, low)
		}
	}
}

// TestClopperPearson_BracketsPointEstimate verifies the interval
// contains the observed proportion
func TestClopperPearson_BracketsPointEstimate(t *testing.T) {
	cases := []struct{ s, n int }{{1, 10}, {3, 10}, {5, 10}, {7, 20}, {49, 50}}
	for _, c := range cases {
		low, high := ClopperPearson(c.s, c.n, 0.95)
		pct := 100 * float64(c.s) / float64(c.n)
		if !(low < pct && pct < high) {
			t.Errorf("ClopperPearson(%d, %d) = (%v, %v) does not bracket %v", c.s, c.n, low, high, pct)
		}
	}
}

// TestClopperPearson_KnownValue checks against the textbook interval
// for 3 successes out of 10: approximately (6.67%, 65.25%)
func TestClopperPearson_KnownValue(t *testing.T) {
	low, high := ClopperPearson(3, 10, 0.95)
	if math.Abs(low-6.6740) > 0.05 {
		t.Errorf("low = %v, want about 6.67", low)
	}
	if math.Abs(high-65.2452) > 0.05 {
		t.Errorf("high = %v, want about 65.25", high)
	}
}

// TestClopperPearson_DefaultConfidence verifies 0 means 95%
func TestClopperPearson_DefaultConfidence(t *testing.T) {
	lowDefault, highDefault := ClopperPearson(3, 10, 0)
	low95, high95 := ClopperPearson(3, 10, 0.95)
	if lowDefault != low95 || highDefault != high95 {
		t.Errorf("Default confidence differs from 0.95: (%v, %v) vs (%v, %v)", lowDefault, highDefault, low95, high95)
	}
}

// TestClopperPearson_InvalidInput verifies NA for degenerate inputs
func TestClopperPearson_InvalidInput(t *testing.T) {
	cases := []struct{ s, n int }{{0, 0}, {-1, 10}, {11, 10}}
	for _, c := range cases {
		low, high := ClopperPearson(c.s, c.n, 0.95)
		if !summary.IsNA(low) || !summary.IsNA(high) {
			t.Errorf("ClopperPearson(%d, %d) = (%v, %v), want NA", c.s, c.n, low, high)
		}
	}
}

// TestOddsRatioCI_ExactRatio verifies the 3-vs-7 of 10 scenario:
// OR = (7/3)/(3/7) = 49/9
func TestOddsRatioCI_ExactRatio(t *testing.T) {
	or, low, high := OddsRatioCI(7, 10, 3, 10, 0.95)
	want := 49.0 / 9.0
	if math.Abs(or-want) > 1e-12 {
		t.Errorf("or = %v, want %v", or, want)
	}
	if summary.IsNA(low) || summary.IsNA(high) {
		t.Fatalf("Expected finite interval, got (%v, %v)", low, high)
	}
	if !(low < or && or < high) {
		t.Errorf("Interval (%v, %v) does not bracket %v", low, high, or)
	}
	if math.IsInf(low, 0) || math.IsInf(high, 0) {
		t.Errorf("Expected finite bounds, got (%v, %v)", low, high)
	}
}

// TestOddsRatioCI_ZeroCellsUndefined verifies the interval is NA
// whenever any cross-tabulation cell is zero
func TestOddsRatioCI_ZeroCellsUndefined(t *testing.T) {
	cases := []struct {
		name           string
		ea, ta, eb, tb int
		orDefined      bool
	}{
		{"zero events in comparison arm", 0, 10, 3, 10, true},
		{"zero events in reference arm", 7, 10, 0, 10, false},
		{"all events in comparison arm", 10, 10, 3, 10, false},
		{"all events in reference arm", 7, 10, 10, 10, false},
	}
	for _, c := range cases {
		or, low, high := OddsRatioCI(c.ea, c.ta, c.eb, c.tb, 0.95)
		if !summary.IsNA(low) || !summary.IsNA(high) {
			t.Errorf("%s: interval = (%v, %v), want NA", c.name, low, high)
		}
		if c.orDefined && summary.IsNA(or) {
			t.Errorf("%s: or = NA, want defined", c.name)
		}
		if !c.orDefined && !summary.IsNA(or) {
			t.Errorf("%s: or = %v, want NA", c.name, or)
		}
	}
}

// TestOddsRatioCI_SymmetricArms verifies OR = 1 with identical arms
func TestOddsRatioCI_SymmetricArms(t *testing.T) {
	or, low, high := OddsRatioCI(5, 10, 5, 10, 0.95)
	if math.Abs(or-1) > 1e-12 {
		t.Errorf("or = %v, want 1", or)
	}
	if !(low < 1 && 1 < high) {
		t.Errorf("Interval (%v, %v) should bracket 1", low, high)
	}
}

// TestFQuantile_AgainstMedian sanity-checks the F quantile helper:
// the F(d, d) distribution has median 1
func TestFQuantile_AgainstMedian(t *testing.T) {
	for _, d := range []float64{2, 10, 40} {
		q := fQuantile(0.5, d, d)
		if math.Abs(q-1) > 1e-9 {
			t.Errorf("fQuantile(0.5, %v, %v) = %v, want 1", d, d, q)
		}
	}
}
