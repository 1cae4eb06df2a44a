package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ddsjoberg/gt/domain/summary"
)

// DefaultConfidence is the two-sided confidence level used when the
// caller passes 0.
const DefaultConfidence = 0.95

// fQuantile computes the p-quantile of the F distribution with d1 and
// d2 degrees of freedom through its Beta representation:
// if X ~ Beta(d1/2, d2/2) then (d2/d1)*(X/(1-X)) ~ F(d1, d2).
func fQuantile(p, d1, d2 float64) float64 {
	x := distuv.Beta{Alpha: d1 / 2, Beta: d2 / 2}.Quantile(p)
	if x >= 1 {
		return math.Inf(1)
	}
	return (d2 * x) / (d1 * (1 - x))
}

// ClopperPearson computes the exact two-sided binomial confidence
// interval for successes out of total, on the percentage scale.
// successes == 0 pins the lower bound to 0; successes == total pins
// the upper bound to 100.
func ClopperPearson(successes, total int, confidence float64) (low, high float64) {
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	if total <= 0 || successes < 0 || successes > total {
		return summary.NA(), summary.NA()
	}

	alpha := 1 - confidence
	s := float64(successes)
	f := float64(total - successes)

	if successes == 0 {
		low = 0
	} else {
		// low = (1 + (n-s+1) / (s * F[alpha/2; 2s, 2(n-s+1)]))^-1
		q := fQuantile(alpha/2, 2*s, 2*(f+1))
		low = 100 * s * q / (f + 1 + s*q)
	}

	if successes == total {
		high = 100
	} else {
		// high = (1 + (n-s) / ((s+1) * F[1-alpha/2; 2(s+1), 2(n-s)]))^-1
		q := fQuantile(1-alpha/2, 2*(s+1), 2*f)
		high = 100 * (s + 1) * q / (f + (s+1)*q)
	}
	return low, high
}

// OddsRatioCI computes the odds ratio between two arms and its
// log-scale Wald interval. The ratio is NA when the reference arm's
// odds are undefined; the interval is NA when any of the four
// cross-tabulation cells is zero, since the variance estimate sums the
// cells' reciprocals.
func OddsRatioCI(eventsA, totalA, eventsB, totalB int, confidence float64) (or, low, high float64) {
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	a := float64(eventsA)
	b := float64(totalA - eventsA)
	c := float64(eventsB)
	d := float64(totalB - eventsB)

	if c == 0 || b == 0 || d == 0 {
		// Zero in an odds denominator or in the reference arm's
		// events: the ratio has no value.
		return summary.NA(), summary.NA(), summary.NA()
	}
	or = (a / b) / (c / d)

	if a == 0 || b == 0 || c == 0 || d == 0 {
		return or, summary.NA(), summary.NA()
	}

	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	se := math.Sqrt(1/a + 1/b + 1/c + 1/d)
	low = math.Exp(math.Log(or) - z*se)
	high = math.Exp(math.Log(or) + z*se)
	return or, low, high
}
