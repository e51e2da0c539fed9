package fiscal

import (
	"math"

	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/registry"
)

// CategoryTotal sums the per-row totals of a financial breakdown.
func CategoryTotal(items []model.LineItem) float64 {
	var total float64
	for _, li := range items {
		total += li.Total
	}
	return total
}

// UnassignedGeneralFund returns the general fund column of the unassigned
// fund balance classification, or zero when the row is absent.
func UnassignedGeneralFund(items []model.LineItem) float64 {
	for _, li := range items {
		if li.Category == registry.UnassignedFundBalanceCode {
			return li.GeneralFund
		}
	}
	return 0
}

// OperatingMargin returns (revenue - expenditure) / revenue as a fraction.
// Undefined when revenue is not positive.
func OperatingMargin(totalRevenue, totalExpenditure float64) (float64, bool) {
	if totalRevenue <= 0 {
		return 0, false
	}
	return (totalRevenue - totalExpenditure) / totalRevenue, true
}

// FundBalanceRatio returns unassigned fund balance / total expenditure as a
// fraction. Undefined when expenditure is not positive.
func FundBalanceRatio(unassigned, totalExpenditure float64) (float64, bool) {
	if totalExpenditure <= 0 {
		return 0, false
	}
	return unassigned / totalExpenditure, true
}

// DebtPerCapita returns total debt divided by population. Undefined when
// population is not positive.
func DebtPerCapita(totalDebt float64, population int64) (float64, bool) {
	if population <= 0 {
		return 0, false
	}
	return totalDebt / float64(population), true
}

// MinPositiveFundedRatio returns the lowest positive funded ratio across
// pension systems, in the percent units the dataset stores (85.5 = 85.5%).
// It reports false when no system has a positive ratio under 100: fully
// funded or unreported plans produce no pension indicator.
func MinPositiveFundedRatio(systems map[string]model.PensionSystem) (float64, bool) {
	lowest := 100.0
	for _, sys := range systems {
		if sys.FundedRatio > 0 && sys.FundedRatio < lowest {
			lowest = sys.FundedRatio
		}
	}
	if lowest >= 100 {
		return 0, false
	}
	return lowest, true
}

// round2 rounds to two decimal places for display values.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
