package loader

import "github.com/prairiedata/fiscal-cli/internal/store"

// tableDefs is the loadable schema. Column order matches the store DDL but
// input files may order columns freely: matching is by header name.
var tableDefs = map[string]tableDef{
	"entities": {
		spec: store.TableSpec{
			Name: "entities",
			Columns: []string{
				"code", "unit_name", "entity_type", "county",
				"ceo_fname", "ceo_lname", "ceo_title",
				"cfo_fname", "cfo_lname", "cfo_title",
			},
			ConflictKeys: []string{"code"},
		},
		kinds: kinds(kindText, 10),
	},
	"entity_stats": {
		spec: store.TableSpec{
			Name: "entity_stats",
			Columns: []string{
				"code", "population", "eav", "full_time_emp", "part_time_emp",
				"home_rule", "utilities", "tif_district", "accounting_method",
				"has_debt", "has_bonded_debt",
			},
			ConflictKeys: []string{"code"},
		},
		kinds: []colKind{
			kindText, kindInt, kindReal, kindInt, kindInt,
			kindText, kindText, kindText, kindText,
			kindText, kindText,
		},
	},
	"revenues":      categoryTable("revenues"),
	"expenditures":  categoryTable("expenditures"),
	"fund_balances": categoryTable("fund_balances"),
	"indebtedness": {
		spec: store.TableSpec{
			Name: "indebtedness",
			Columns: []string{
				"code",
				"go_beginning", "go_additions", "go_retirements",
				"rev_beginning", "rev_additions", "rev_retirements",
				"alt_beginning", "alt_additions", "alt_retirements",
				"contract_beginning", "contract_additions", "contract_retirements",
				"other_beginning", "other_additions", "other_retirements",
				"ending_long_term", "ending_short_term",
			},
			ConflictKeys: []string{"code"},
		},
		kinds: append([]colKind{kindText}, kinds(kindReal, 17)...),
	},
	"pensions": {
		spec: store.TableSpec{
			Name: "pensions",
			Columns: []string{
				"code",
				"imrf_measurement_date", "imrf_total_liability", "imrf_plan_assets", "imrf_net_position", "imrf_funded_ratio",
				"police_measurement_date", "police_total_liability", "police_plan_assets", "police_net_position", "police_funded_ratio",
				"fire_measurement_date", "fire_total_liability", "fire_plan_assets", "fire_net_position", "fire_funded_ratio",
				"opeb_measurement_date", "opeb_total_liability", "opeb_plan_assets", "opeb_net_position", "opeb_funded_ratio",
			},
			ConflictKeys: []string{"code"},
		},
		kinds: pensionKinds(),
	},
}

// categoryTable covers the three fund-type breakdown tables, which share a
// shape: one row per entity and category with eight fund amounts.
func categoryTable(name string) tableDef {
	return tableDef{
		spec: store.TableSpec{
			Name:         name,
			Columns:      []string{"code", "category", "gn", "sr", "cp", "ds", "ep", "ts", "fd", "dp"},
			ConflictKeys: []string{"code", "category"},
		},
		kinds: append([]colKind{kindText, kindText}, kinds(kindReal, 8)...),
	}
}

func kinds(k colKind, n int) []colKind {
	out := make([]colKind, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func pensionKinds() []colKind {
	out := []colKind{kindText}
	for range 4 {
		out = append(out, kindText, kindReal, kindReal, kindReal, kindReal)
	}
	return out
}
