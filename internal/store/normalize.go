package store

import (
	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/registry"
)

// lineKind selects which category table names a line item's code.
type lineKind int

const (
	kindRevenue lineKind = iota
	kindExpenditure
	kindFundBalance
)

// finishLineItems fills in CategoryName and recomputes Total from the fund
// columns. Both backends run their rows through here so the output shape
// does not depend on which backend answered.
func finishLineItems(items []model.LineItem, kind lineKind) []model.LineItem {
	for i := range items {
		switch kind {
		case kindRevenue:
			items[i].CategoryName = registry.RevenueCategoryName(items[i].Category)
		case kindExpenditure:
			items[i].CategoryName = registry.ExpenditureCategoryName(items[i].Category)
		case kindFundBalance:
			items[i].CategoryName = registry.FundBalanceCategoryName(items[i].Category)
		}
		items[i].Total = items[i].FundSum()
	}
	return items
}

// assignRanks numbers rows already sorted by metric value using standard
// RANK semantics: tied values share a rank and the following rank skips.
// SQLite has no RANK() window guarantee worth relying on here, so its rows
// come through this instead; the output matches Postgres RANK() OVER.
func assignRanks(rows []model.RankedEntity) []model.RankedEntity {
	for i := range rows {
		if i > 0 && rows[i].MetricValue == rows[i-1].MetricValue {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}
	return rows
}
