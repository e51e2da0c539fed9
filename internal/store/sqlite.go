package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/prairiedata/fiscal-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS entities (
	code        TEXT PRIMARY KEY,
	unit_name   TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	county      TEXT NOT NULL,
	ceo_fname   TEXT,
	ceo_lname   TEXT,
	ceo_title   TEXT,
	cfo_fname   TEXT,
	cfo_lname   TEXT,
	cfo_title   TEXT
);

CREATE TABLE IF NOT EXISTS entity_stats (
	code              TEXT PRIMARY KEY REFERENCES entities(code),
	population        INTEGER,
	eav               REAL,
	full_time_emp     INTEGER,
	part_time_emp     INTEGER,
	home_rule         TEXT,
	utilities         TEXT,
	tif_district      TEXT,
	accounting_method TEXT,
	has_debt          TEXT,
	has_bonded_debt   TEXT
);

CREATE TABLE IF NOT EXISTS revenues (
	code     TEXT NOT NULL,
	category TEXT NOT NULL,
	gn REAL, sr REAL, cp REAL, ds REAL, ep REAL, ts REAL, fd REAL, dp REAL,
	PRIMARY KEY (code, category)
);

CREATE TABLE IF NOT EXISTS expenditures (
	code     TEXT NOT NULL,
	category TEXT NOT NULL,
	gn REAL, sr REAL, cp REAL, ds REAL, ep REAL, ts REAL, fd REAL, dp REAL,
	PRIMARY KEY (code, category)
);

CREATE TABLE IF NOT EXISTS fund_balances (
	code     TEXT NOT NULL,
	category TEXT NOT NULL,
	gn REAL, sr REAL, cp REAL, ds REAL, ep REAL, ts REAL, fd REAL, dp REAL,
	PRIMARY KEY (code, category)
);

CREATE TABLE IF NOT EXISTS indebtedness (
	code                TEXT PRIMARY KEY,
	go_beginning        REAL, go_additions       REAL, go_retirements       REAL,
	rev_beginning       REAL, rev_additions      REAL, rev_retirements      REAL,
	alt_beginning       REAL, alt_additions      REAL, alt_retirements      REAL,
	contract_beginning  REAL, contract_additions REAL, contract_retirements REAL,
	other_beginning     REAL, other_additions    REAL, other_retirements    REAL,
	ending_long_term    REAL,
	ending_short_term   REAL
);

CREATE TABLE IF NOT EXISTS pensions (
	code TEXT PRIMARY KEY,
	imrf_measurement_date   TEXT, imrf_total_liability   REAL, imrf_plan_assets   REAL, imrf_net_position   REAL, imrf_funded_ratio   REAL,
	police_measurement_date TEXT, police_total_liability REAL, police_plan_assets REAL, police_net_position REAL, police_funded_ratio REAL,
	fire_measurement_date   TEXT, fire_total_liability   REAL, fire_plan_assets   REAL, fire_net_position   REAL, fire_funded_ratio   REAL,
	opeb_measurement_date   TEXT, opeb_total_liability   REAL, opeb_plan_assets   REAL, opeb_net_position   REAL, opeb_funded_ratio   REAL
);

CREATE INDEX IF NOT EXISTS idx_entities_unit_name ON entities(unit_name);
CREATE INDEX IF NOT EXISTS idx_entities_county ON entities(county);
CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type);
CREATE INDEX IF NOT EXISTS idx_entity_stats_population ON entity_stats(population);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Driver() string { return "sqlite" }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SearchEntities(ctx context.Context, term string, limit int) ([]model.EntitySummary, error) {
	pattern := "%" + term + "%"
	prefix := term + "%"

	rows, err := s.db.QueryContext(ctx,
		`SELECT code, unit_name, entity_type, county
		 FROM entities
		 WHERE LOWER(unit_name) LIKE LOWER(?) OR LOWER(county) LIKE LOWER(?)
		 ORDER BY
			CASE
				WHEN LOWER(unit_name) = LOWER(?) THEN 0
				WHEN LOWER(unit_name) LIKE LOWER(?) THEN 1
				ELSE 2
			END,
			unit_name, code
		 LIMIT ?`,
		pattern, pattern, term, prefix, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search entities")
	}
	defer rows.Close()

	var out []model.EntitySummary
	for rows.Next() {
		var e model.EntitySummary
		if err := rows.Scan(&e.Code, &e.UnitName, &e.EntityType, &e.County); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan search row")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: search iterate")
}

func (s *SQLiteStore) GetEntity(ctx context.Context, code string) (*model.EntityDetail, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT e.code, e.unit_name, e.entity_type, e.county,
			e.ceo_fname, e.ceo_lname, e.ceo_title,
			e.cfo_fname, e.cfo_lname, e.cfo_title,
			s.population, s.eav, s.full_time_emp, s.part_time_emp,
			s.home_rule, s.utilities, s.tif_district, s.accounting_method,
			s.has_debt, s.has_bonded_debt
		 FROM entities e
		 LEFT JOIN entity_stats s ON e.code = s.code
		 WHERE e.code = ?`,
		code,
	)

	var d model.EntityDetail
	err := row.Scan(
		&d.Code, &d.UnitName, &d.EntityType, &d.County,
		&d.CEOFName, &d.CEOLName, &d.CEOTitle,
		&d.CFOFName, &d.CFOLName, &d.CFOTitle,
		&d.Population, &d.EAV, &d.FullTimeEmployees, &d.PartTimeEmployees,
		&d.HomeRule, &d.Utilities, &d.TIFDistrict, &d.AccountingMethod,
		&d.HasDebt, &d.HasBondedDebt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get entity %s", code)
	}
	return &d, nil
}

const sqliteLineItemQuery = `
SELECT category,
	COALESCE(gn, 0), COALESCE(sr, 0), COALESCE(cp, 0), COALESCE(ds, 0),
	COALESCE(ep, 0), COALESCE(ts, 0), COALESCE(fd, 0), COALESCE(dp, 0)
FROM %s
WHERE code = ?
ORDER BY category`

func (s *SQLiteStore) queryLineItems(ctx context.Context, table, code string, kind lineKind) ([]model.LineItem, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(sqliteLineItemQuery, table), code)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query %s for %s", table, code)
	}
	defer rows.Close()

	var items []model.LineItem
	for rows.Next() {
		var li model.LineItem
		err := rows.Scan(&li.Category,
			&li.GeneralFund, &li.SpecialRevenue, &li.CapitalProjects, &li.DebtService,
			&li.Enterprise, &li.Trust, &li.Fiduciary, &li.DebtPrincipal,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s row", table)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "sqlite: %s iterate", table)
	}
	return finishLineItems(items, kind), nil
}

func (s *SQLiteStore) GetRevenues(ctx context.Context, code string) ([]model.LineItem, error) {
	return s.queryLineItems(ctx, "revenues", code, kindRevenue)
}

func (s *SQLiteStore) GetExpenditures(ctx context.Context, code string) ([]model.LineItem, error) {
	return s.queryLineItems(ctx, "expenditures", code, kindExpenditure)
}

func (s *SQLiteStore) GetFundBalances(ctx context.Context, code string) ([]model.LineItem, error) {
	return s.queryLineItems(ctx, "fund_balances", code, kindFundBalance)
}

func (s *SQLiteStore) GetDebt(ctx context.Context, code string) (model.DebtRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(go_beginning, 0), COALESCE(go_additions, 0), COALESCE(go_retirements, 0),
			COALESCE(rev_beginning, 0), COALESCE(rev_additions, 0), COALESCE(rev_retirements, 0),
			COALESCE(alt_beginning, 0), COALESCE(alt_additions, 0), COALESCE(alt_retirements, 0),
			COALESCE(contract_beginning, 0), COALESCE(contract_additions, 0), COALESCE(contract_retirements, 0),
			COALESCE(other_beginning, 0), COALESCE(other_additions, 0), COALESCE(other_retirements, 0),
			COALESCE(ending_long_term, 0), COALESCE(ending_short_term, 0)
		 FROM indebtedness
		 WHERE code = ?`,
		code,
	)

	var d model.DebtRecord
	err := row.Scan(
		&d.GOBondsBeginning, &d.GOBondsAdditions, &d.GOBondsRetirements,
		&d.RevenueBondsBeginning, &d.RevenueBondsAdditions, &d.RevenueBondsRetirements,
		&d.AltRevenueBondsBeginning, &d.AltRevenueBondsAdditions, &d.AltRevenueBondsRetirements,
		&d.ContractualBeginning, &d.ContractualAdditions, &d.ContractualRetirements,
		&d.OtherDebtBeginning, &d.OtherDebtAdditions, &d.OtherDebtRetirements,
		&d.TotalDebtEndingLongTerm, &d.TotalDebtEndingShortTerm,
	)
	if err == sql.ErrNoRows {
		// No debt row means no debt, not an error.
		return model.DebtRecord{}, nil
	}
	if err != nil {
		return model.DebtRecord{}, eris.Wrapf(err, "sqlite: get debt %s", code)
	}
	return d, nil
}

func (s *SQLiteStore) GetPensions(ctx context.Context, code string) (map[string]model.PensionSystem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT
			imrf_measurement_date, COALESCE(imrf_total_liability, 0), COALESCE(imrf_plan_assets, 0), COALESCE(imrf_net_position, 0), COALESCE(imrf_funded_ratio, 0),
			police_measurement_date, COALESCE(police_total_liability, 0), COALESCE(police_plan_assets, 0), COALESCE(police_net_position, 0), COALESCE(police_funded_ratio, 0),
			fire_measurement_date, COALESCE(fire_total_liability, 0), COALESCE(fire_plan_assets, 0), COALESCE(fire_net_position, 0), COALESCE(fire_funded_ratio, 0),
			opeb_measurement_date, COALESCE(opeb_total_liability, 0), COALESCE(opeb_plan_assets, 0), COALESCE(opeb_net_position, 0), COALESCE(opeb_funded_ratio, 0)
		 FROM pensions
		 WHERE code = ?`,
		code,
	)
	systems, err := scanPensionRow(row)
	if err == sql.ErrNoRows {
		return map[string]model.PensionSystem{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get pensions %s", code)
	}
	return systems, nil
}

func (s *SQLiteStore) GetEntitiesByCounty(ctx context.Context, county, entityType string) ([]model.CountyEntity, error) {
	query := `SELECT e.code, e.unit_name, e.entity_type, s.population, s.eav
		 FROM entities e
		 LEFT JOIN entity_stats s ON e.code = s.code
		 WHERE LOWER(e.county) = LOWER(?)`
	args := []any{county}

	if entityType != "" {
		query += ` AND LOWER(e.entity_type) = LOWER(?)`
		args = append(args, entityType)
	}
	query += ` ORDER BY (s.population IS NULL), s.population DESC, e.code`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: entities by county %s", county)
	}
	defer rows.Close()

	var out []model.CountyEntity
	for rows.Next() {
		var e model.CountyEntity
		if err := rows.Scan(&e.Code, &e.UnitName, &e.EntityType, &e.Population, &e.EAV); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan county entity")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: county entities iterate")
}

func (s *SQLiteStore) GetPeerEntities(ctx context.Context, q PeerQuery) ([]model.PeerEntity, error) {
	typeFilter := ""
	if q.SameType {
		typeFilter = " AND e.entity_type = t.entity_type"
	}

	// A target with unknown population matches no peers: BETWEEN against
	// NULL bounds is never true.
	query := `WITH target AS (
		SELECT e.code, e.entity_type, s.population
		FROM entities e
		LEFT JOIN entity_stats s ON e.code = s.code
		WHERE e.code = ?
	)
	SELECT e.code, e.unit_name, e.entity_type, e.county,
		s.population, s.eav,
		ABS(s.population - t.population) AS population_difference
	FROM entities e
	LEFT JOIN entity_stats s ON e.code = s.code
	CROSS JOIN target t
	WHERE e.code != ?
		AND s.population IS NOT NULL
		AND s.population BETWEEN t.population * (1 - ?) AND t.population * (1 + ?)` +
		typeFilter + `
	ORDER BY population_difference, e.code
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, q.Code, q.Code, q.RangePct, q.RangePct, q.Limit)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: peers of %s", q.Code)
	}
	defer rows.Close()

	var out []model.PeerEntity
	for rows.Next() {
		var p model.PeerEntity
		err := rows.Scan(&p.Code, &p.UnitName, &p.EntityType, &p.County,
			&p.Population, &p.EAV, &p.PopulationDifference)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan peer row")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: peers iterate")
}

func (s *SQLiteStore) RankEntities(ctx context.Context, q RankQuery) ([]model.RankedEntity, error) {
	expr, ok := rankMetricExprs[q.Metric]
	if !ok {
		return nil, eris.Errorf("sqlite: unknown rank metric %q", q.Metric)
	}

	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}

	var filters []string
	var args []any
	if q.EntityType != "" {
		filters = append(filters, "LOWER(e.entity_type) = LOWER(?)")
		args = append(args, q.EntityType)
	}
	if q.County != "" {
		filters = append(filters, "LOWER(e.county) = LOWER(?)")
		args = append(args, q.County)
	}
	where := ""
	if len(filters) > 0 {
		where = " AND " + strings.Join(filters, " AND ")
	}

	query := fmt.Sprintf(
		`SELECT e.code, e.unit_name, e.entity_type, e.county, %s AS metric_value
		 FROM entities e
		 LEFT JOIN entity_stats s ON e.code = s.code
		 WHERE %s IS NOT NULL%s
		 ORDER BY metric_value %s, e.code
		 LIMIT ?`,
		expr, expr, where, dir,
	)
	args = append(args, q.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: rank by %s", q.Metric)
	}
	defer rows.Close()

	var out []model.RankedEntity
	for rows.Next() {
		var r model.RankedEntity
		if err := rows.Scan(&r.Code, &r.UnitName, &r.EntityType, &r.County, &r.MetricValue); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan rank row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: rank iterate")
	}
	// SQLite rows carry no rank numbers; assign them here with the same tie
	// semantics as the Postgres window function.
	return assignRanks(out), nil
}

func (s *SQLiteStore) GetCountySummary(ctx context.Context, county string) (*model.CountySummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT e.county,
			COUNT(DISTINCT e.code),
			COUNT(DISTINCT e.entity_type),
			COALESCE(SUM(s.population), 0),
			COALESCE(SUM(s.eav), 0),
			COALESCE(SUM(s.full_time_emp), 0),
			COALESCE(SUM(s.part_time_emp), 0),
			SUM(CASE WHEN s.home_rule = 'Y' THEN 1 ELSE 0 END),
			SUM(CASE WHEN s.has_debt = 'Y' THEN 1 ELSE 0 END)
		 FROM entities e
		 LEFT JOIN entity_stats s ON e.code = s.code
		 WHERE LOWER(e.county) = LOWER(?)
		 GROUP BY e.county`,
		county,
	)

	var cs model.CountySummary
	err := row.Scan(&cs.County, &cs.EntityCount, &cs.EntityTypeCount,
		&cs.TotalPopulation, &cs.TotalEAV,
		&cs.TotalFullTimeEmployees, &cs.TotalPartTimeEmployees,
		&cs.HomeRuleCount, &cs.EntitiesWithDebt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: county summary %s", county)
	}
	return &cs, nil
}

func (s *SQLiteStore) BulkLoad(ctx context.Context, spec TableSpec, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: bulk load begin tx")
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(spec.Columns)), ", ")
	insert := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		spec.Name, strings.Join(spec.Columns, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: prepare bulk insert %s", spec.Name)
	}
	defer stmt.Close()

	var n int64
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: bulk insert into %s", spec.Name)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: bulk load commit")
	}
	return n, nil
}

type scannable interface {
	Scan(dest ...any) error
}

// scanPensionRow builds the pension system map from the fixed four-system
// row layout. Systems with zero reported liability are omitted.
func scanPensionRow(row scannable) (map[string]model.PensionSystem, error) {
	var imrf, police, fire, opeb model.PensionSystem
	err := row.Scan(
		&imrf.MeasurementDate, &imrf.TotalLiability, &imrf.PlanAssets, &imrf.NetPosition, &imrf.FundedRatio,
		&police.MeasurementDate, &police.TotalLiability, &police.PlanAssets, &police.NetPosition, &police.FundedRatio,
		&fire.MeasurementDate, &fire.TotalLiability, &fire.PlanAssets, &fire.NetPosition, &fire.FundedRatio,
		&opeb.MeasurementDate, &opeb.TotalLiability, &opeb.PlanAssets, &opeb.NetPosition, &opeb.FundedRatio,
	)
	if err != nil {
		return nil, err
	}

	systems := make(map[string]model.PensionSystem)
	for name, sys := range map[string]model.PensionSystem{
		"IMRF": imrf, "Police": police, "Fire": fire, "OPEB": opeb,
	} {
		if sys.TotalLiability > 0 {
			systems[name] = sys
		}
	}
	return systems, nil
}
