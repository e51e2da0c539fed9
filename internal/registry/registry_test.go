package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevenueCategoryName(t *testing.T) {
	assert.Equal(t, "Property Taxes", RevenueCategoryName("201t"))
	assert.Equal(t, "Miscellaneous Revenue", RevenueCategoryName("236t"))
	// Unmapped codes pass through untouched.
	assert.Equal(t, "999t", RevenueCategoryName("999t"))
}

func TestExpenditureCategoryName(t *testing.T) {
	assert.Equal(t, "General Government", ExpenditureCategoryName("251t"))
	assert.Equal(t, "Debt Service - Interest", ExpenditureCategoryName("272t"))
	assert.Equal(t, "123t", ExpenditureCategoryName("123t"))
}

func TestFundBalanceCategoryName(t *testing.T) {
	assert.Equal(t, "Unassigned", FundBalanceCategoryName(UnassignedFundBalanceCode))
	assert.Equal(t, "Total Fund Balance", FundBalanceCategoryName("308t"))
	assert.Equal(t, "300t", FundBalanceCategoryName("300t"))
}

func TestEntityTypeName(t *testing.T) {
	name, ok := EntityTypeName(30)
	assert.True(t, ok)
	assert.Equal(t, "City", name)

	name, ok = EntityTypeName(51)
	assert.True(t, ok)
	assert.Equal(t, "School District", name)

	_, ok = EntityTypeName(2)
	assert.False(t, ok)
}

func TestFundTypeName(t *testing.T) {
	assert.Equal(t, "General Fund", FundTypeName("GN"))
	assert.Equal(t, "Debt Principal Fund", FundTypeName("DP"))
	assert.Equal(t, "XX", FundTypeName("XX"))
}

func TestIsIllinoisCounty(t *testing.T) {
	assert.True(t, IsIllinoisCounty("Cook"))
	assert.True(t, IsIllinoisCounty("cook"))
	assert.True(t, IsIllinoisCounty("  DUPAGE "))
	assert.True(t, IsIllinoisCounty("St. Clair"))
	assert.False(t, IsIllinoisCounty("Dade"))
}

func TestEntityTypeNamesIsACopy(t *testing.T) {
	m := EntityTypeNames()
	m[30] = "mutated"

	name, _ := EntityTypeName(30)
	assert.Equal(t, "City", name)
}
