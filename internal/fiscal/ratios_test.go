package fiscal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prairiedata/fiscal-cli/internal/model"
)

func TestCategoryTotal(t *testing.T) {
	items := []model.LineItem{
		{Total: 100.5},
		{Total: 200.25},
	}
	assert.Equal(t, 300.75, CategoryTotal(items))
	assert.Equal(t, 0.0, CategoryTotal(nil))
}

func TestUnassignedGeneralFund(t *testing.T) {
	items := []model.LineItem{
		{Category: "303t", GeneralFund: 50},
		{Category: "307t", GeneralFund: 250, SpecialRevenue: 99},
		{Category: "308t", GeneralFund: 900},
	}
	// Only the general fund column of the unassigned classification counts.
	assert.Equal(t, 250.0, UnassignedGeneralFund(items))
	assert.Equal(t, 0.0, UnassignedGeneralFund(nil))
}

func TestOperatingMargin(t *testing.T) {
	m, ok := OperatingMargin(100, 90)
	assert.True(t, ok)
	assert.InDelta(t, 0.10, m, 1e-9)

	// Deficit entity.
	m, ok = OperatingMargin(100, 120)
	assert.True(t, ok)
	assert.InDelta(t, -0.20, m, 1e-9)

	// Undefined without positive revenue.
	_, ok = OperatingMargin(0, 50)
	assert.False(t, ok)
	_, ok = OperatingMargin(-10, 50)
	assert.False(t, ok)
}

func TestFundBalanceRatio(t *testing.T) {
	r, ok := FundBalanceRatio(25, 100)
	assert.True(t, ok)
	assert.InDelta(t, 0.25, r, 1e-9)

	_, ok = FundBalanceRatio(25, 0)
	assert.False(t, ok)
}

func TestDebtPerCapita(t *testing.T) {
	d, ok := DebtPerCapita(50000, 100)
	assert.True(t, ok)
	assert.Equal(t, 500.0, d)

	_, ok = DebtPerCapita(50000, 0)
	assert.False(t, ok)
	_, ok = DebtPerCapita(50000, -1)
	assert.False(t, ok)
}

func TestMinPositiveFundedRatio(t *testing.T) {
	systems := map[string]model.PensionSystem{
		"IMRF":   {FundedRatio: 85.5},
		"Police": {FundedRatio: 42.1},
		"Fire":   {FundedRatio: 0}, // unreported, ignored
	}
	lowest, ok := MinPositiveFundedRatio(systems)
	assert.True(t, ok)
	assert.Equal(t, 42.1, lowest)

	// Fully funded or unreported plans yield no indicator.
	_, ok = MinPositiveFundedRatio(map[string]model.PensionSystem{
		"IMRF": {FundedRatio: 105.0},
	})
	assert.False(t, ok)

	_, ok = MinPositiveFundedRatio(nil)
	assert.False(t, ok)
}
