// Package model defines the typed records and response envelopes for the
// Illinois local government fiscal dataset. JSON field names follow the
// established wire contract of the upstream API, including the
// "EquitalizedAssessedValue" spelling it shipped with.
package model

// EntitySummary is a single search hit.
type EntitySummary struct {
	Code       string `json:"Code"`
	UnitName   string `json:"UnitName"`
	EntityType string `json:"EntityType"`
	County     string `json:"County"`
}

// EntityDetail is the full entity record: the unit master row left-joined
// with the statistics row. Pointer fields are null when the statistics row
// is absent; "unknown" is never coerced to zero here.
type EntityDetail struct {
	Code              string   `json:"Code"`
	UnitName          string   `json:"UnitName"`
	EntityType        string   `json:"EntityType"`
	County            string   `json:"County"`
	CEOFName          *string  `json:"CEOFName"`
	CEOLName          *string  `json:"CEOLName"`
	CEOTitle          *string  `json:"CEOTitle"`
	CFOFName          *string  `json:"CFOFName"`
	CFOLName          *string  `json:"CFOLName"`
	CFOTitle          *string  `json:"CFOTitle"`
	Population        *int64   `json:"Population"`
	EAV               *float64 `json:"EquitalizedAssessedValue"`
	FullTimeEmployees *int64   `json:"FullTimeEmployees"`
	PartTimeEmployees *int64   `json:"PartTimeEmployees"`
	HomeRule          *string  `json:"HomeRule"`
	Utilities         *string  `json:"Utilities"`
	TIFDistrict       *string  `json:"TIF_District"`
	AccountingMethod  *string  `json:"AccountingMethod"`
	HasDebt           *string  `json:"HasDebt"`
	HasBondedDebt     *string  `json:"HasBondedDebt"`
}

// CountyEntity is a row in a county entity listing.
type CountyEntity struct {
	Code       string   `json:"Code"`
	UnitName   string   `json:"UnitName"`
	EntityType string   `json:"EntityType"`
	Population *int64   `json:"Population"`
	EAV        *float64 `json:"EquitalizedAssessedValue"`
}

// PeerEntity is a population-similar entity returned by the peer search.
type PeerEntity struct {
	Code                 string   `json:"Code"`
	UnitName             string   `json:"UnitName"`
	EntityType           string   `json:"EntityType"`
	County               string   `json:"County"`
	Population           *int64   `json:"Population"`
	EAV                  *float64 `json:"EquitalizedAssessedValue"`
	PopulationDifference int64    `json:"PopulationDifference"`
}

// RankedEntity is a row in a metric ranking. Rank uses standard RANK
// semantics: tied values share a rank and the next rank skips.
type RankedEntity struct {
	Code        string  `json:"Code"`
	UnitName    string  `json:"UnitName"`
	EntityType  string  `json:"EntityType"`
	County      string  `json:"County"`
	MetricValue float64 `json:"MetricValue"`
	Rank        int     `json:"Rank"`
}

// CountySummary aggregates all entities of one county. Summed statistics
// coerce nulls to zero; they are aggregates, not descriptive fields.
type CountySummary struct {
	County                 string  `json:"County"`
	EntityCount            int     `json:"EntityCount"`
	EntityTypeCount        int     `json:"EntityTypeCount"`
	TotalPopulation        int64   `json:"TotalPopulation"`
	TotalEAV               float64 `json:"TotalEAV"`
	TotalFullTimeEmployees int64   `json:"TotalFullTimeEmployees"`
	TotalPartTimeEmployees int64   `json:"TotalPartTimeEmployees"`
	HomeRuleCount          int     `json:"HomeRuleCount"`
	EntitiesWithDebt       int     `json:"EntitiesWithDebt"`
}
