package model

// LineItem is one financial category with its per-fund breakdown. Total is
// recomputed from the fund columns, never trusted from source data.
type LineItem struct {
	Category        string  `json:"Category"`
	CategoryName    string  `json:"CategoryName"`
	GeneralFund     float64 `json:"GeneralFund"`
	SpecialRevenue  float64 `json:"SpecialRevenue"`
	CapitalProjects float64 `json:"CapitalProjects"`
	DebtService     float64 `json:"DebtService"`
	Enterprise      float64 `json:"Enterprise"`
	Trust           float64 `json:"Trust"`
	Fiduciary       float64 `json:"Fiduciary"`
	DebtPrincipal   float64 `json:"DebtPrincipal"`
	Total           float64 `json:"Total"`
}

// FundSum returns the sum of the eight fund columns.
func (li LineItem) FundSum() float64 {
	return li.GeneralFund + li.SpecialRevenue + li.CapitalProjects +
		li.DebtService + li.Enterprise + li.Trust + li.Fiduciary + li.DebtPrincipal
}

// DebtRecord is the per-instrument debt breakdown for one entity. An entity
// with no debt row gets a zero-valued record, not an error.
type DebtRecord struct {
	GOBondsBeginning           float64 `json:"GOBonds_Beginning"`
	GOBondsAdditions           float64 `json:"GOBonds_Additions"`
	GOBondsRetirements         float64 `json:"GOBonds_Retirements"`
	RevenueBondsBeginning      float64 `json:"RevenueBonds_Beginning"`
	RevenueBondsAdditions      float64 `json:"RevenueBonds_Additions"`
	RevenueBondsRetirements    float64 `json:"RevenueBonds_Retirements"`
	AltRevenueBondsBeginning   float64 `json:"AltRevenueBonds_Beginning"`
	AltRevenueBondsAdditions   float64 `json:"AltRevenueBonds_Additions"`
	AltRevenueBondsRetirements float64 `json:"AltRevenueBonds_Retirements"`
	ContractualBeginning       float64 `json:"Contractual_Beginning"`
	ContractualAdditions       float64 `json:"Contractual_Additions"`
	ContractualRetirements     float64 `json:"Contractual_Retirements"`
	OtherDebtBeginning         float64 `json:"OtherDebt_Beginning"`
	OtherDebtAdditions         float64 `json:"OtherDebt_Additions"`
	OtherDebtRetirements       float64 `json:"OtherDebt_Retirements"`
	TotalDebtEndingLongTerm    float64 `json:"TotalDebt_Ending_LongTerm"`
	TotalDebtEndingShortTerm   float64 `json:"TotalDebt_Ending_ShortTerm"`
}

// TotalDebt is ending long-term plus ending short-term debt.
func (d DebtRecord) TotalDebt() float64 {
	return d.TotalDebtEndingLongTerm + d.TotalDebtEndingShortTerm
}

// PensionSystem is the reported position of one pension system. FundedRatio
// is stored in percent units (e.g. 85.5 means 85.5%).
type PensionSystem struct {
	MeasurementDate *string `json:"measurement_date"`
	TotalLiability  float64 `json:"total_liability"`
	PlanAssets      float64 `json:"plan_assets"`
	NetPosition     float64 `json:"net_position"`
	FundedRatio     float64 `json:"funded_ratio"`
}

// ComparisonRow is one entity's column in a side-by-side comparison.
// Unknown population and EAV coerce to zero here: comparison is an
// aggregate view, and its per-capita columns are zero when population is
// missing or zero.
type ComparisonRow struct {
	Code                 string  `json:"code"`
	Name                 string  `json:"name"`
	Type                 string  `json:"type"`
	County               string  `json:"county"`
	Population           int64   `json:"population"`
	EAV                  float64 `json:"eav"`
	TotalRevenue         float64 `json:"total_revenue"`
	TotalExpenditure     float64 `json:"total_expenditure"`
	RevenuePerCapita     float64 `json:"revenue_per_capita"`
	ExpenditurePerCapita float64 `json:"expenditure_per_capita"`
}

// HealthMetric is one scored fiscal health indicator.
type HealthMetric struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Rating string  `json:"rating"`
}

// HealthRawValues carries the inputs behind the health metrics so callers
// can audit the arithmetic. Population coerces to zero when unknown; the
// per-capita indicator is simply omitted in that case.
type HealthRawValues struct {
	TotalRevenue          float64 `json:"total_revenue"`
	TotalExpenditure      float64 `json:"total_expenditure"`
	UnassignedFundBalance float64 `json:"unassigned_fund_balance"`
	TotalDebt             float64 `json:"total_debt"`
	Population            int64   `json:"population"`
}
