package fiscal

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prairiedata/fiscal-cli/internal/model"
)

func compareStub() *stubStore {
	return &stubStore{
		entities: map[string]*model.EntityDetail{
			"016/020/30": {
				Code: "016/020/30", UnitName: "Chicago", EntityType: "City", County: "Cook",
				Population: int64p(100000), EAV: float64p(5_000_000_000),
			},
			"016/040/32": {
				Code: "016/040/32", UnitName: "Oak Park", EntityType: "Village", County: "Cook",
				Population: int64p(52000), EAV: float64p(2_400_000_000),
			},
			"016/999/32": {
				Code: "016/999/32", UnitName: "Nullville", EntityType: "Village", County: "Cook",
			},
		},
		revenues: map[string][]model.LineItem{
			"016/020/30": {{Total: 1_000_000}},
			"016/040/32": {{Total: 260_000}},
		},
		expenditures: map[string][]model.LineItem{
			"016/020/30": {{Total: 900_000}},
			"016/040/32": {{Total: 250_000}},
		},
	}
}

func TestCompare_PreservesInputOrder(t *testing.T) {
	rows, err := Compare(context.Background(), compareStub(),
		[]string{"016/040/32", "016/020/30"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Oak Park", rows[0].Name)
	assert.Equal(t, "Chicago", rows[1].Name)
}

func TestCompare_PerCapitaValues(t *testing.T) {
	rows, err := Compare(context.Background(), compareStub(), []string{"016/020/30", "016/040/32"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 10.0, rows[0].RevenuePerCapita)
	assert.Equal(t, 9.0, rows[0].ExpenditurePerCapita)
	assert.Equal(t, 5.0, rows[1].RevenuePerCapita)
}

func TestCompare_DropsUnresolvedCodes(t *testing.T) {
	rows, err := Compare(context.Background(), compareStub(),
		[]string{"016/020/30", "999/999/99", "016/040/32"})
	require.NoError(t, err)

	// Unknown code vanishes; the rest keep their relative order.
	require.Len(t, rows, 2)
	assert.Equal(t, "Chicago", rows[0].Name)
	assert.Equal(t, "Oak Park", rows[1].Name)
}

func TestCompare_ZeroPopulationEntity(t *testing.T) {
	rows, err := Compare(context.Background(), compareStub(), []string{"016/999/32"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// No population means zeroed per-capita columns, not an error.
	assert.Equal(t, int64(0), rows[0].Population)
	assert.Equal(t, 0.0, rows[0].RevenuePerCapita)
	assert.Equal(t, 0.0, rows[0].ExpenditurePerCapita)
}

func TestCompare_BackendErrorPropagates(t *testing.T) {
	st := compareStub()
	st.err = eris.New("backend unavailable")

	_, err := Compare(context.Background(), st, []string{"016/020/30", "016/040/32"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")
}
