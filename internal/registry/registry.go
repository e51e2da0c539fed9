// Package registry holds the static code tables of the Illinois comptroller
// dataset: financial category codes, fund balance classifications, and the
// numeric entity type codes embedded in unit codes.
package registry

import "strings"

// revenueCategories maps revenue category codes to display names.
var revenueCategories = map[string]string{
	"201t": "Property Taxes",
	"202t": "Personal Property Replacement Tax",
	"203t": "Sales Tax",
	"204t": "Other Taxes",
	"205t": "Special Assessments",
	"211t": "Licenses and Permits",
	"212t": "Fines and Forfeitures",
	"213t": "Interest Earnings",
	"214t": "Rental Income",
	"215t": "Intergovernmental Revenue",
	"225t": "Charges for Services",
	"226t": "Contributions and Donations",
	"231t": "Bond/Loan Proceeds",
	"233t": "Interfund Transfers In",
	"234t": "Other Revenue",
	"235t": "User Fees",
	"236t": "Miscellaneous Revenue",
}

// expenditureCategories maps expenditure category codes to display names.
var expenditureCategories = map[string]string{
	"251t": "General Government",
	"252t": "Public Safety",
	"253t": "Highways and Streets",
	"254t": "Sanitation",
	"255t": "Health and Welfare",
	"256t": "Culture and Recreation",
	"257t": "Conservation and Development",
	"258t": "Education",
	"259t": "Other Expenditures",
	"260t": "Capital Outlay",
	"271t": "Debt Service - Principal",
	"272t": "Debt Service - Interest",
	"275t": "Interfund Transfers Out",
	"280t": "Contingency",
}

// fundBalanceCategories maps GASB 54 fund balance classification codes to
// display names.
var fundBalanceCategories = map[string]string{
	"302t": "Nonspendable",
	"303t": "Restricted",
	"304t": "Committed",
	"305t": "Assigned",
	"307t": "Unassigned",
	"308t": "Total Fund Balance",
}

// UnassignedFundBalanceCode is the classification whose general fund column
// feeds the fund balance ratio.
const UnassignedFundBalanceCode = "307t"

// entityTypes maps the numeric type code carried in the third segment of a
// unit code to its government type name.
var entityTypes = map[int]string{
	0:  "County",
	1:  "Township",
	3:  "Airport Authority",
	4:  "Cemetery District",
	5:  "Drainage District",
	6:  "Fire Protection District",
	7:  "Forest Preserve District",
	8:  "Hospital District",
	9:  "Exposition and Auditorium Authority",
	10: "Public Library District",
	11: "Mosquito Abatement District",
	12: "Park District",
	13: "Public Health District",
	14: "River Conservancy District",
	15: "Road District",
	16: "Sanitary District",
	17: "Soil and Water Conservation District",
	18: "Street Lighting District",
	19: "Water Service District",
	20: "Conservation District",
	22: "Surface Water District",
	23: "Mass Transit District",
	24: "Multi-Township Assessment District",
	25: "Port District",
	27: "Rescue Squad District",
	28: "Special Recreation",
	29: "Electric Agency",
	30: "City",
	31: "Town",
	32: "Village",
	33: "Public Building Commission",
	37: "Public Water District",
	38: "Water Commission",
	39: "Solid Waste Agency",
	40: "Water Reclamation District",
	41: "Water Authority",
	45: "Natural Gas Agency",
	46: "Planning Agency",
	50: "Museum District",
	51: "School District",
	53: "Community College",
	54: "Housing Authority",
	55: "Joint Action Water Agency",
}

// fundTypes maps the two-letter fund column codes to display names.
var fundTypes = map[string]string{
	"GN": "General Fund",
	"SR": "Special Revenue Fund",
	"CP": "Capital Projects Fund",
	"DS": "Debt Service Fund",
	"EP": "Enterprise/Proprietary Fund",
	"TS": "Trust Fund",
	"FD": "Fiduciary Fund",
	"DP": "Debt Principal Fund",
	"OT": "Other Funds",
}

// illinoisCounties is the 102-county validation list, keyed lowercase.
var illinoisCounties = map[string]struct{}{}

func init() {
	for _, c := range []string{
		"Adams", "Alexander", "Bond", "Boone", "Brown", "Bureau", "Calhoun",
		"Carroll", "Cass", "Champaign", "Christian", "Clark", "Clay", "Clinton",
		"Coles", "Cook", "Crawford", "Cumberland", "Dekalb", "Dewitt", "Douglas",
		"Dupage", "Edgar", "Edwards", "Effingham", "Fayette", "Ford", "Franklin",
		"Fulton", "Gallatin", "Greene", "Grundy", "Hamilton", "Hancock", "Hardin",
		"Henderson", "Henry", "Iroquois", "Jackson", "Jasper", "Jefferson", "Jersey",
		"Jo Daviess", "Johnson", "Kane", "Kankakee", "Kendall", "Knox", "Lake",
		"Lasalle", "Lawrence", "Lee", "Livingston", "Logan", "Macon", "Macoupin",
		"Madison", "Marion", "Marshall", "Mason", "Massac", "Mcdonough", "Mchenry",
		"Mclean", "Menard", "Mercer", "Monroe", "Montgomery", "Morgan", "Moultrie",
		"Ogle", "Peoria", "Perry", "Piatt", "Pike", "Pope", "Pulaski", "Putnam",
		"Randolph", "Richland", "Rock Island", "Saline", "Sangamon", "Schuyler",
		"Scott", "Shelby", "St. Clair", "Stark", "Stephenson", "Tazewell", "Union",
		"Vermilion", "Wabash", "Warren", "Washington", "Wayne", "White", "Whiteside",
		"Will", "Williamson", "Winnebago", "Woodford",
	} {
		illinoisCounties[strings.ToLower(c)] = struct{}{}
	}
}

// FundTypeName returns the display name for a fund column code, falling
// back to the code itself.
func FundTypeName(code string) string {
	if name, ok := fundTypes[code]; ok {
		return name
	}
	return code
}

// IsIllinoisCounty reports whether name matches an Illinois county,
// case-insensitively.
func IsIllinoisCounty(name string) bool {
	_, ok := illinoisCounties[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// RevenueCategoryName returns the display name for a revenue category code,
// falling back to the code itself when unmapped.
func RevenueCategoryName(code string) string {
	if name, ok := revenueCategories[code]; ok {
		return name
	}
	return code
}

// ExpenditureCategoryName returns the display name for an expenditure
// category code, falling back to the code itself.
func ExpenditureCategoryName(code string) string {
	if name, ok := expenditureCategories[code]; ok {
		return name
	}
	return code
}

// FundBalanceCategoryName returns the display name for a fund balance
// classification code, falling back to the code itself.
func FundBalanceCategoryName(code string) string {
	if name, ok := fundBalanceCategories[code]; ok {
		return name
	}
	return code
}

// EntityTypeName returns the government type name for a numeric type code.
// Unknown codes return ("", false).
func EntityTypeName(code int) (string, bool) {
	name, ok := entityTypes[code]
	return name, ok
}

// EntityTypeNames returns a copy of the full type-code table, for callers
// that enumerate it.
func EntityTypeNames() map[int]string {
	out := make(map[int]string, len(entityTypes))
	for k, v := range entityTypes {
		out[k] = v
	}
	return out
}
