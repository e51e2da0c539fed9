// Package store provides the query adapter over the two interchangeable
// backends holding the comptroller dataset: a desktop SQLite file and a
// PostgreSQL warehouse. Both implementations return identical normalized
// rows for the same data.
package store

import (
	"context"

	"github.com/prairiedata/fiscal-cli/internal/model"
)

// PeerQuery specifies a population-similarity search around one entity.
type PeerQuery struct {
	Code     string  `json:"code"`
	RangePct float64 `json:"range_pct"` // 0.25 = ±25% of target population
	SameType bool    `json:"same_type"`
	Limit    int     `json:"limit"`
}

// RankQuery specifies a metric ranking. Metric must be one of the keys of
// rankMetricExprs; callers never supply SQL.
type RankQuery struct {
	Metric     string `json:"metric"`
	EntityType string `json:"entity_type,omitempty"`
	County     string `json:"county,omitempty"`
	Descending bool   `json:"descending"`
	Limit      int    `json:"limit"`
}

// TableSpec names a target table for bulk loading.
type TableSpec struct {
	Name         string
	Columns      []string
	ConflictKeys []string
}

// Store defines the query interface both backends implement. Lookups for a
// single absent row return (nil, nil) rather than an error; GetDebt returns
// a zero-valued record when the entity has no debt row.
type Store interface {
	SearchEntities(ctx context.Context, term string, limit int) ([]model.EntitySummary, error)
	GetEntity(ctx context.Context, code string) (*model.EntityDetail, error)
	GetRevenues(ctx context.Context, code string) ([]model.LineItem, error)
	GetExpenditures(ctx context.Context, code string) ([]model.LineItem, error)
	GetFundBalances(ctx context.Context, code string) ([]model.LineItem, error)
	GetDebt(ctx context.Context, code string) (model.DebtRecord, error)
	GetPensions(ctx context.Context, code string) (map[string]model.PensionSystem, error)
	GetEntitiesByCounty(ctx context.Context, county, entityType string) ([]model.CountyEntity, error)
	GetPeerEntities(ctx context.Context, q PeerQuery) ([]model.PeerEntity, error)
	RankEntities(ctx context.Context, q RankQuery) ([]model.RankedEntity, error)
	GetCountySummary(ctx context.Context, county string) (*model.CountySummary, error)

	// Bulk load path used by the dataset loader.
	BulkLoad(ctx context.Context, spec TableSpec, rows [][]any) (int64, error)

	// Lifecycle
	Driver() string
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// rankMetricExprs maps logical metric names onto SQL expressions over the
// entities/entity_stats join (aliases e and s). Rankable metrics are fixed
// here; request text never reaches the ORDER BY clause.
var rankMetricExprs = map[string]string{
	"population": "s.population",
	"eav":        "s.eav",
	"employees":  "COALESCE(s.full_time_emp, 0) + COALESCE(s.part_time_emp, 0)",
}

// RankMetrics returns the logical metric names accepted by RankEntities.
func RankMetrics() []string {
	return []string{"eav", "employees", "population"}
}

// ValidRankMetric reports whether metric is rankable.
func ValidRankMetric(metric string) bool {
	_, ok := rankMetricExprs[metric]
	return ok
}
