package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/prairiedata/fiscal-cli/internal/db"
	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/resilience"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	pgSearchEntities = `SELECT code, unit_name, entity_type, county
		FROM entities
		WHERE unit_name ILIKE $1 OR county ILIKE $1
		ORDER BY
			CASE
				WHEN LOWER(unit_name) = LOWER($2) THEN 0
				WHEN unit_name ILIKE $3 THEN 1
				ELSE 2
			END,
			unit_name, code
		LIMIT $4`

	pgGetEntity = `SELECT e.code, e.unit_name, e.entity_type, e.county,
			e.ceo_fname, e.ceo_lname, e.ceo_title,
			e.cfo_fname, e.cfo_lname, e.cfo_title,
			s.population, s.eav, s.full_time_emp, s.part_time_emp,
			s.home_rule, s.utilities, s.tif_district, s.accounting_method,
			s.has_debt, s.has_bonded_debt
		FROM entities e
		LEFT JOIN entity_stats s ON e.code = s.code
		WHERE e.code = $1`

	pgGetDebt = `SELECT
			COALESCE(go_beginning, 0), COALESCE(go_additions, 0), COALESCE(go_retirements, 0),
			COALESCE(rev_beginning, 0), COALESCE(rev_additions, 0), COALESCE(rev_retirements, 0),
			COALESCE(alt_beginning, 0), COALESCE(alt_additions, 0), COALESCE(alt_retirements, 0),
			COALESCE(contract_beginning, 0), COALESCE(contract_additions, 0), COALESCE(contract_retirements, 0),
			COALESCE(other_beginning, 0), COALESCE(other_additions, 0), COALESCE(other_retirements, 0),
			COALESCE(ending_long_term, 0), COALESCE(ending_short_term, 0)
		FROM indebtedness
		WHERE code = $1`

	pgGetPensions = `SELECT
			imrf_measurement_date, COALESCE(imrf_total_liability, 0), COALESCE(imrf_plan_assets, 0), COALESCE(imrf_net_position, 0), COALESCE(imrf_funded_ratio, 0),
			police_measurement_date, COALESCE(police_total_liability, 0), COALESCE(police_plan_assets, 0), COALESCE(police_net_position, 0), COALESCE(police_funded_ratio, 0),
			fire_measurement_date, COALESCE(fire_total_liability, 0), COALESCE(fire_plan_assets, 0), COALESCE(fire_net_position, 0), COALESCE(fire_funded_ratio, 0),
			opeb_measurement_date, COALESCE(opeb_total_liability, 0), COALESCE(opeb_plan_assets, 0), COALESCE(opeb_net_position, 0), COALESCE(opeb_funded_ratio, 0)
		FROM pensions
		WHERE code = $1`

	pgGetCountySummary = `SELECT e.county,
			COUNT(DISTINCT e.code),
			COUNT(DISTINCT e.entity_type),
			COALESCE(SUM(s.population), 0),
			COALESCE(SUM(s.eav), 0),
			COALESCE(SUM(s.full_time_emp), 0),
			COALESCE(SUM(s.part_time_emp), 0),
			COUNT(*) FILTER (WHERE s.home_rule = 'Y'),
			COUNT(*) FILTER (WHERE s.has_debt = 'Y')
		FROM entities e
		LEFT JOIN entity_stats s ON e.code = s.code
		WHERE LOWER(e.county) = LOWER($1)
		GROUP BY e.county`
)

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the per-entity lookups the facade issues most.
var preparedStatements = map[string]string{
	"get_entity":         pgGetEntity,
	"get_debt":           pgGetDebt,
	"get_pensions":       pgGetPensions,
	"get_county_summary": pgGetCountySummary,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	// The server may still be coming up when we are; retry transient
	// connection failures before giving up.
	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.OnRetry = resilience.RetryLogger("postgres", "connect")
	if err := resilience.Do(ctx, retryCfg, func(ctx context.Context) error {
		return pool.Ping(ctx)
	}); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use it to substitute a
// pgxmock pool.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need direct
// query access (e.g., the dataset loader's COPY path).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
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
	population        BIGINT,
	eav               DOUBLE PRECISION,
	full_time_emp     BIGINT,
	part_time_emp     BIGINT,
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
	gn DOUBLE PRECISION, sr DOUBLE PRECISION, cp DOUBLE PRECISION, ds DOUBLE PRECISION,
	ep DOUBLE PRECISION, ts DOUBLE PRECISION, fd DOUBLE PRECISION, dp DOUBLE PRECISION,
	PRIMARY KEY (code, category)
);

CREATE TABLE IF NOT EXISTS expenditures (
	code     TEXT NOT NULL,
	category TEXT NOT NULL,
	gn DOUBLE PRECISION, sr DOUBLE PRECISION, cp DOUBLE PRECISION, ds DOUBLE PRECISION,
	ep DOUBLE PRECISION, ts DOUBLE PRECISION, fd DOUBLE PRECISION, dp DOUBLE PRECISION,
	PRIMARY KEY (code, category)
);

CREATE TABLE IF NOT EXISTS fund_balances (
	code     TEXT NOT NULL,
	category TEXT NOT NULL,
	gn DOUBLE PRECISION, sr DOUBLE PRECISION, cp DOUBLE PRECISION, ds DOUBLE PRECISION,
	ep DOUBLE PRECISION, ts DOUBLE PRECISION, fd DOUBLE PRECISION, dp DOUBLE PRECISION,
	PRIMARY KEY (code, category)
);

CREATE TABLE IF NOT EXISTS indebtedness (
	code                 TEXT PRIMARY KEY,
	go_beginning         DOUBLE PRECISION, go_additions       DOUBLE PRECISION, go_retirements       DOUBLE PRECISION,
	rev_beginning        DOUBLE PRECISION, rev_additions      DOUBLE PRECISION, rev_retirements      DOUBLE PRECISION,
	alt_beginning        DOUBLE PRECISION, alt_additions      DOUBLE PRECISION, alt_retirements      DOUBLE PRECISION,
	contract_beginning   DOUBLE PRECISION, contract_additions DOUBLE PRECISION, contract_retirements DOUBLE PRECISION,
	other_beginning      DOUBLE PRECISION, other_additions    DOUBLE PRECISION, other_retirements    DOUBLE PRECISION,
	ending_long_term     DOUBLE PRECISION,
	ending_short_term    DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS pensions (
	code TEXT PRIMARY KEY,
	imrf_measurement_date   TEXT, imrf_total_liability   DOUBLE PRECISION, imrf_plan_assets   DOUBLE PRECISION, imrf_net_position   DOUBLE PRECISION, imrf_funded_ratio   DOUBLE PRECISION,
	police_measurement_date TEXT, police_total_liability DOUBLE PRECISION, police_plan_assets DOUBLE PRECISION, police_net_position DOUBLE PRECISION, police_funded_ratio DOUBLE PRECISION,
	fire_measurement_date   TEXT, fire_total_liability   DOUBLE PRECISION, fire_plan_assets   DOUBLE PRECISION, fire_net_position   DOUBLE PRECISION, fire_funded_ratio   DOUBLE PRECISION,
	opeb_measurement_date   TEXT, opeb_total_liability   DOUBLE PRECISION, opeb_plan_assets   DOUBLE PRECISION, opeb_net_position   DOUBLE PRECISION, opeb_funded_ratio   DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_entities_unit_name ON entities(unit_name);
CREATE INDEX IF NOT EXISTS idx_entities_county ON entities(LOWER(county));
CREATE INDEX IF NOT EXISTS idx_entities_type ON entities(entity_type);
CREATE INDEX IF NOT EXISTS idx_entity_stats_population ON entity_stats(population);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Driver() string { return "postgres" }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SearchEntities(ctx context.Context, term string, limit int) ([]model.EntitySummary, error) {
	pattern := "%" + term + "%"
	prefix := term + "%"

	rows, err := s.pool.Query(ctx, pgSearchEntities, pattern, term, prefix, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search entities")
	}
	defer rows.Close()

	var out []model.EntitySummary
	for rows.Next() {
		var e model.EntitySummary
		if err := rows.Scan(&e.Code, &e.UnitName, &e.EntityType, &e.County); err != nil {
			return nil, eris.Wrap(err, "postgres: scan search row")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: search iterate")
}

func (s *PostgresStore) GetEntity(ctx context.Context, code string) (*model.EntityDetail, error) {
	row := s.pool.QueryRow(ctx, pgGetEntity, code)

	var d model.EntityDetail
	err := row.Scan(
		&d.Code, &d.UnitName, &d.EntityType, &d.County,
		&d.CEOFName, &d.CEOLName, &d.CEOTitle,
		&d.CFOFName, &d.CFOLName, &d.CFOTitle,
		&d.Population, &d.EAV, &d.FullTimeEmployees, &d.PartTimeEmployees,
		&d.HomeRule, &d.Utilities, &d.TIFDistrict, &d.AccountingMethod,
		&d.HasDebt, &d.HasBondedDebt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get entity %s", code)
	}
	return &d, nil
}

const pgLineItemQuery = `SELECT category,
	COALESCE(gn, 0), COALESCE(sr, 0), COALESCE(cp, 0), COALESCE(ds, 0),
	COALESCE(ep, 0), COALESCE(ts, 0), COALESCE(fd, 0), COALESCE(dp, 0)
FROM %s
WHERE code = $1
ORDER BY category`

func (s *PostgresStore) queryLineItems(ctx context.Context, table, code string, kind lineKind) ([]model.LineItem, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(pgLineItemQuery, table), code)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query %s for %s", table, code)
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
			return nil, eris.Wrapf(err, "postgres: scan %s row", table)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "postgres: %s iterate", table)
	}
	return finishLineItems(items, kind), nil
}

func (s *PostgresStore) GetRevenues(ctx context.Context, code string) ([]model.LineItem, error) {
	return s.queryLineItems(ctx, "revenues", code, kindRevenue)
}

func (s *PostgresStore) GetExpenditures(ctx context.Context, code string) ([]model.LineItem, error) {
	return s.queryLineItems(ctx, "expenditures", code, kindExpenditure)
}

func (s *PostgresStore) GetFundBalances(ctx context.Context, code string) ([]model.LineItem, error) {
	return s.queryLineItems(ctx, "fund_balances", code, kindFundBalance)
}

func (s *PostgresStore) GetDebt(ctx context.Context, code string) (model.DebtRecord, error) {
	row := s.pool.QueryRow(ctx, pgGetDebt, code)

	var d model.DebtRecord
	err := row.Scan(
		&d.GOBondsBeginning, &d.GOBondsAdditions, &d.GOBondsRetirements,
		&d.RevenueBondsBeginning, &d.RevenueBondsAdditions, &d.RevenueBondsRetirements,
		&d.AltRevenueBondsBeginning, &d.AltRevenueBondsAdditions, &d.AltRevenueBondsRetirements,
		&d.ContractualBeginning, &d.ContractualAdditions, &d.ContractualRetirements,
		&d.OtherDebtBeginning, &d.OtherDebtAdditions, &d.OtherDebtRetirements,
		&d.TotalDebtEndingLongTerm, &d.TotalDebtEndingShortTerm,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DebtRecord{}, nil
	}
	if err != nil {
		return model.DebtRecord{}, eris.Wrapf(err, "postgres: get debt %s", code)
	}
	return d, nil
}

func (s *PostgresStore) GetPensions(ctx context.Context, code string) (map[string]model.PensionSystem, error) {
	row := s.pool.QueryRow(ctx, pgGetPensions, code)
	systems, err := scanPensionRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return map[string]model.PensionSystem{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get pensions %s", code)
	}
	return systems, nil
}

func (s *PostgresStore) GetEntitiesByCounty(ctx context.Context, county, entityType string) ([]model.CountyEntity, error) {
	query := `SELECT e.code, e.unit_name, e.entity_type, s.population, s.eav
		FROM entities e
		LEFT JOIN entity_stats s ON e.code = s.code
		WHERE LOWER(e.county) = LOWER($1)`
	args := []any{county}

	if entityType != "" {
		query += ` AND LOWER(e.entity_type) = LOWER($2)`
		args = append(args, entityType)
	}
	query += ` ORDER BY s.population DESC NULLS LAST, e.code`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: entities by county %s", county)
	}
	defer rows.Close()

	var out []model.CountyEntity
	for rows.Next() {
		var e model.CountyEntity
		if err := rows.Scan(&e.Code, &e.UnitName, &e.EntityType, &e.Population, &e.EAV); err != nil {
			return nil, eris.Wrap(err, "postgres: scan county entity")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: county entities iterate")
}

func (s *PostgresStore) GetPeerEntities(ctx context.Context, q PeerQuery) ([]model.PeerEntity, error) {
	typeFilter := ""
	if q.SameType {
		typeFilter = " AND e.entity_type = t.entity_type"
	}

	query := `WITH target AS (
		SELECT e.code, e.entity_type, s.population
		FROM entities e
		LEFT JOIN entity_stats s ON e.code = s.code
		WHERE e.code = $1
	)
	SELECT e.code, e.unit_name, e.entity_type, e.county,
		s.population, s.eav,
		ABS(s.population - t.population) AS population_difference
	FROM entities e
	LEFT JOIN entity_stats s ON e.code = s.code
	CROSS JOIN target t
	WHERE e.code != $1
		AND s.population IS NOT NULL
		AND s.population BETWEEN t.population * (1 - $2) AND t.population * (1 + $2)` +
		typeFilter + `
	ORDER BY population_difference, e.code
	LIMIT $3`

	rows, err := s.pool.Query(ctx, query, q.Code, q.RangePct, q.Limit)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: peers of %s", q.Code)
	}
	defer rows.Close()

	var out []model.PeerEntity
	for rows.Next() {
		var p model.PeerEntity
		err := rows.Scan(&p.Code, &p.UnitName, &p.EntityType, &p.County,
			&p.Population, &p.EAV, &p.PopulationDifference)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan peer row")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "postgres: peers iterate")
}

func (s *PostgresStore) RankEntities(ctx context.Context, q RankQuery) ([]model.RankedEntity, error) {
	expr, ok := rankMetricExprs[q.Metric]
	if !ok {
		return nil, eris.Errorf("postgres: unknown rank metric %q", q.Metric)
	}

	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}

	var filters []string
	var args []any
	if q.EntityType != "" {
		args = append(args, q.EntityType)
		filters = append(filters, fmt.Sprintf("LOWER(e.entity_type) = LOWER($%d)", len(args)))
	}
	if q.County != "" {
		args = append(args, q.County)
		filters = append(filters, fmt.Sprintf("LOWER(e.county) = LOWER($%d)", len(args)))
	}
	where := ""
	if len(filters) > 0 {
		where = " AND " + strings.Join(filters, " AND ")
	}
	args = append(args, q.Limit)

	query := fmt.Sprintf(
		`SELECT e.code, e.unit_name, e.entity_type, e.county,
			%s AS metric_value,
			RANK() OVER (ORDER BY %s %s) AS rank
		 FROM entities e
		 LEFT JOIN entity_stats s ON e.code = s.code
		 WHERE %s IS NOT NULL%s
		 ORDER BY metric_value %s, e.code
		 LIMIT $%d`,
		expr, expr, dir, expr, where, dir, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: rank by %s", q.Metric)
	}
	defer rows.Close()

	var out []model.RankedEntity
	for rows.Next() {
		var r model.RankedEntity
		if err := rows.Scan(&r.Code, &r.UnitName, &r.EntityType, &r.County, &r.MetricValue, &r.Rank); err != nil {
			return nil, eris.Wrap(err, "postgres: scan rank row")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: rank iterate")
}

func (s *PostgresStore) GetCountySummary(ctx context.Context, county string) (*model.CountySummary, error) {
	row := s.pool.QueryRow(ctx, pgGetCountySummary, county)

	var cs model.CountySummary
	err := row.Scan(&cs.County, &cs.EntityCount, &cs.EntityTypeCount,
		&cs.TotalPopulation, &cs.TotalEAV,
		&cs.TotalFullTimeEmployees, &cs.TotalPartTimeEmployees,
		&cs.HomeRuleCount, &cs.EntitiesWithDebt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: county summary %s", county)
	}
	return &cs, nil
}

func (s *PostgresStore) BulkLoad(ctx context.Context, spec TableSpec, rows [][]any) (int64, error) {
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        spec.Name,
		Columns:      spec.Columns,
		ConflictKeys: spec.ConflictKeys,
	}, rows)
}
