// Package loader ingests comptroller data files (CSV or XLSX) into the
// store through the bulk load path. Files are header-driven: columns are
// matched by name, extra columns are ignored, and empty cells load as NULL.
package loader

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/prairiedata/fiscal-cli/internal/registry"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

const batchSize = 5000

// Result reports one completed load.
type Result struct {
	Table   string
	Rows    int64
	Skipped int
}

// Loader parses data files and writes them through a Store.
type Loader struct {
	store store.Store
}

// New returns a Loader over st.
func New(st store.Store) *Loader {
	return &Loader{store: st}
}

// Tables lists the loadable table names.
func Tables() []string {
	names := make([]string, 0, len(tableDefs))
	for name := range tableDefs {
		names = append(names, name)
	}
	return names
}

// LoadFile ingests one file into the named table. The format is picked by
// file extension: .csv or .xlsx.
func (l *Loader) LoadFile(ctx context.Context, table, path string) (*Result, error) {
	def, ok := tableDefs[table]
	if !ok {
		return nil, eris.Errorf("loader: unknown table %q", table)
	}

	var (
		header []string
		rows   [][]string
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		header, rows, err = readCSV(path)
	case ".xlsx":
		header, rows, err = readXLSX(path)
	default:
		return nil, eris.Errorf("loader: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return l.loadRows(ctx, table, def, header, rows)
}

func (l *Loader) loadRows(ctx context.Context, table string, def tableDef, header []string, rows [][]string) (*Result, error) {
	colIdx := mapColumns(header)
	if _, ok := colIdx["code"]; !ok {
		return nil, eris.Errorf("loader: %s file missing required column \"code\"", table)
	}

	res := &Result{Table: table}
	batch := make([][]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.store.BulkLoad(ctx, def.spec, batch)
		if err != nil {
			return eris.Wrapf(err, "loader: load %s batch", table)
		}
		res.Rows += n
		batch = batch[:0]
		return nil
	}

	for _, rec := range rows {
		row, err := def.buildRow(rec, colIdx)
		if err != nil {
			zap.L().Warn("loader: skipping row",
				zap.String("table", table),
				zap.String("code", getCol(rec, colIdx, "code")),
				zap.Error(err),
			)
			res.Skipped++
			continue
		}
		batch = append(batch, row)

		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if err := flush(); err != nil {
		return res, err
	}

	return res, nil
}

// tableDef binds a store table to the typed conversion of its columns.
type tableDef struct {
	spec  store.TableSpec
	kinds []colKind
}

type colKind int

const (
	kindText colKind = iota
	kindInt
	kindReal
)

// buildRow converts one record into load arguments, matching columns by
// name. Empty cells become NULL.
func (d tableDef) buildRow(rec []string, colIdx map[string]int) ([]any, error) {
	row := make([]any, len(d.spec.Columns))
	for i, col := range d.spec.Columns {
		raw := strings.TrimSpace(getCol(rec, colIdx, col))

		if raw == "" {
			if d.spec.Name == "entities" && col == "entity_type" {
				// Entity files often omit the type name; the third code
				// segment carries the numeric type.
				row[i] = deriveEntityType(getCol(rec, colIdx, "code"))
				continue
			}
			row[i] = nil
			continue
		}

		switch d.kinds[i] {
		case kindInt:
			n, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
			if err != nil {
				return nil, eris.Wrapf(err, "column %s", col)
			}
			row[i] = n
		case kindReal:
			f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil {
				return nil, eris.Wrapf(err, "column %s", col)
			}
			row[i] = f
		default:
			row[i] = raw
		}
	}

	code, _ := row[0].(string)
	if code == "" {
		return nil, eris.New("empty code")
	}
	return row, nil
}

// deriveEntityType resolves the type name from the third segment of an
// entity code. Unknown segments load as NULL rather than failing the row.
func deriveEntityType(code string) any {
	parts := strings.Split(code, "/")
	if len(parts) != 3 {
		return nil
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil
	}
	name, ok := registry.EntityTypeName(n)
	if !ok {
		return nil
	}
	return name
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "loader: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, eris.Wrap(err, "loader: read csv header")
	}

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, eris.Wrap(err, "loader: read csv row")
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "loader: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, nil, eris.New("loader: xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil, eris.New("loader: xlsx sheet is empty")
	}

	header := rowToStrings(sheet.Rows[0])
	rows := make([][]string, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		rows = append(rows, rowToStrings(row))
	}
	return header, rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name, returning empty string if absent.
func getCol(rec []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[strings.ToLower(name)]
	if !ok || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
