package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/prairiedata/fiscal-cli/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func writeXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadFile_EntitiesCSV(t *testing.T) {
	st := newTestStore(t)
	l := New(st)

	path := writeCSV(t,
		"code,unit_name,county,ceo_fname",
		"016/050/32,Skokie,Cook,George",
		"016/020/30,Chicago,Cook,",
	)

	res, err := l.LoadFile(context.Background(), "entities", path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Rows)
	assert.Zero(t, res.Skipped)

	e, err := st.GetEntity(context.Background(), "016/050/32")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Skokie", e.UnitName)
	// No entity_type column in the file: derived from the code's third segment.
	assert.Equal(t, "Village", e.EntityType)
	require.NotNil(t, e.CEOFName)
	assert.Equal(t, "George", *e.CEOFName)

	chi, err := st.GetEntity(context.Background(), "016/020/30")
	require.NoError(t, err)
	require.NotNil(t, chi)
	assert.Equal(t, "City", chi.EntityType)
	assert.Nil(t, chi.CEOFName)
}

func TestLoadFile_StatsCSV_NullsAndCommas(t *testing.T) {
	st := newTestStore(t)
	l := New(st)

	_, err := l.LoadFile(context.Background(), "entities", writeCSV(t,
		"code,unit_name,county",
		"016/050/32,Skokie,Cook",
	))
	require.NoError(t, err)

	res, err := l.LoadFile(context.Background(), "entity_stats", writeCSV(t,
		"code,population,eav,home_rule",
		`016/050/32,"64,000","3,100,000,000.50",Y`,
	))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Rows)

	e, err := st.GetEntity(context.Background(), "016/050/32")
	require.NoError(t, err)
	require.NotNil(t, e.Population)
	assert.Equal(t, int64(64000), *e.Population)
	require.NotNil(t, e.EAV)
	assert.InDelta(t, 3_100_000_000.50, *e.EAV, 0.001)
	assert.Nil(t, e.FullTimeEmployees)
}

func TestLoadFile_RevenuesXLSX(t *testing.T) {
	st := newTestStore(t)
	l := New(st)

	path := writeXLSX(t, [][]string{
		{"code", "category", "gn", "sr"},
		{"016/050/32", "201t", "100.5", "50"},
		{"016/050/32", "205t", "", "25"},
	})

	res, err := l.LoadFile(context.Background(), "revenues", path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Rows)

	items, err := st.GetRevenues(context.Background(), "016/050/32")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "201t", items[0].Category)
	assert.InDelta(t, 150.5, items[0].Total, 0.001)
}

func TestLoadFile_SkipsMalformedRows(t *testing.T) {
	st := newTestStore(t)
	l := New(st)

	res, err := l.LoadFile(context.Background(), "entity_stats", writeCSV(t,
		"code,population",
		"016/050/32,not-a-number",
		"016/040/32,52000",
		",1000",
	))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Rows)
	assert.Equal(t, 2, res.Skipped)
}

func TestLoadFile_UpsertReplacesRow(t *testing.T) {
	st := newTestStore(t)
	l := New(st)

	_, err := l.LoadFile(context.Background(), "entities", writeCSV(t,
		"code,unit_name,county",
		"016/050/32,Skokee,Cook",
	))
	require.NoError(t, err)

	_, err = l.LoadFile(context.Background(), "entities", writeCSV(t,
		"code,unit_name,county",
		"016/050/32,Skokie,Cook",
	))
	require.NoError(t, err)

	e, err := st.GetEntity(context.Background(), "016/050/32")
	require.NoError(t, err)
	assert.Equal(t, "Skokie", e.UnitName)
}

func TestLoadFile_UnknownTable(t *testing.T) {
	l := New(newTestStore(t))

	_, err := l.LoadFile(context.Background(), "budgets", "whatever.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown table "budgets"`)
}

func TestLoadFile_MissingCodeColumn(t *testing.T) {
	l := New(newTestStore(t))

	_, err := l.LoadFile(context.Background(), "entities", writeCSV(t,
		"unit_name,county",
		"Skokie,Cook",
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing required column "code"`)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	l := New(newTestStore(t))

	_, err := l.LoadFile(context.Background(), "entities", "data.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestTables(t *testing.T) {
	names := Tables()
	assert.Len(t, names, 7)
	assert.Contains(t, names, "entities")
	assert.Contains(t, names, "pensions")
}
