// Package fiscal computes derived financial metrics: category totals,
// per-capita values, the four-indicator fiscal health score, peer
// comparison rows. All ratings come from fixed threshold tables.
package fiscal

// Band is one rating threshold: a value at or above Min earns Rating.
// Bands are checked best-to-worst, so lower bounds are inclusive.
type Band struct {
	Rating string
	Min    float64
}

var operatingMarginBands = []Band{
	{"Excellent", 0.05},
	{"Good", 0.0},
	{"Fair", -0.05},
}

var fundBalanceBands = []Band{
	{"Excellent", 0.25},
	{"Good", 0.15},
	{"Fair", 0.08},
}

var pensionFundedBands = []Band{
	{"Excellent", 0.80},
	{"Good", 0.60},
	{"Fair", 0.40},
}

func rate(value float64, bands []Band, worst string) string {
	for _, b := range bands {
		if value >= b.Min {
			return b.Rating
		}
	}
	return worst
}

// RateOperatingMargin rates a surplus/deficit fraction of revenue.
func RateOperatingMargin(v float64) string {
	return rate(v, operatingMarginBands, "Poor")
}

// RateFundBalanceRatio rates unassigned fund balance as a fraction of
// expenditures.
func RateFundBalanceRatio(v float64) string {
	return rate(v, fundBalanceBands, "Poor")
}

// RatePensionFundedRatio rates a funded ratio expressed as a fraction
// (0.85, not 85).
func RatePensionFundedRatio(v float64) string {
	return rate(v, pensionFundedBands, "Poor")
}

// RateDebtPerCapita rates dollars of debt per resident. Unlike the other
// indicators the scale is inverted, with inclusive upper bounds.
func RateDebtPerCapita(v float64) string {
	switch {
	case v <= 1000:
		return "Low"
	case v <= 2500:
		return "Moderate"
	case v <= 5000:
		return "High"
	default:
		return "Very High"
	}
}
