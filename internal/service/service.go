// Package service is the validating facade over the store and the fiscal
// engine. Every operation returns an envelope value; validation failures,
// missing entities, and backend errors all come back as payloads, never as
// raw errors.
package service

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/prairiedata/fiscal-cli/internal/fiscal"
	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Service wraps a Store with input validation and uniform envelopes.
type Service struct {
	store  store.Store
	scorer *fiscal.HealthScorer
}

// New returns a Service over st.
func New(st store.Store) *Service {
	return &Service{
		store:  st,
		scorer: fiscal.NewHealthScorer(st),
	}
}

// Health reports liveness and which backend is answering queries.
func (s *Service) Health(ctx context.Context) model.HealthResponse {
	return model.HealthResponse{
		Status:           "healthy",
		DataSource:       s.store.Driver(),
		ConnectionTested: s.store.Ping(ctx) == nil,
		Version:          Version,
		Timestamp:        time.Now().Format(time.RFC3339),
	}
}

// SearchEntities finds entities whose name or county matches term.
func (s *Service) SearchEntities(ctx context.Context, term string, limit int) model.Response {
	if len(term) < minSearchLen {
		return model.ValidationError("Please provide at least 2 characters to search.")
	}

	entities, err := s.store.SearchEntities(ctx, term, clampLimit(limit))
	if err != nil {
		return s.backendFail("search entities", err)
	}
	if len(entities) == 0 {
		return model.NotFound("No entities found matching '" + term + "'")
	}

	return model.SearchResult{
		Envelope: model.OK(),
		Count:    len(entities),
		Entities: entities,
	}
}

// GetEntity returns the full record for one entity code.
func (s *Service) GetEntity(ctx context.Context, code string) model.Response {
	if !validCode(code) {
		return invalidCode(code)
	}

	entity, err := s.store.GetEntity(ctx, code)
	if err != nil {
		return s.backendFail("get entity", err)
	}
	if entity == nil {
		return entityNotFound(code)
	}

	return model.EntityResult{Envelope: model.OK(), Entity: *entity}
}

// GetRevenues returns the revenue breakdown for one entity.
func (s *Service) GetRevenues(ctx context.Context, code string) model.Response {
	if !validCode(code) {
		return invalidCode(code)
	}

	items, err := s.store.GetRevenues(ctx, code)
	if err != nil {
		return s.backendFail("get revenues", err)
	}

	return model.RevenueResult{
		Envelope:     model.OK(),
		Code:         code,
		TotalRevenue: fiscal.CategoryTotal(items),
		ByCategory:   nonNil(items),
	}
}

// GetExpenditures returns the expenditure breakdown for one entity.
func (s *Service) GetExpenditures(ctx context.Context, code string) model.Response {
	if !validCode(code) {
		return invalidCode(code)
	}

	items, err := s.store.GetExpenditures(ctx, code)
	if err != nil {
		return s.backendFail("get expenditures", err)
	}

	return model.ExpenditureResult{
		Envelope:         model.OK(),
		Code:             code,
		TotalExpenditure: fiscal.CategoryTotal(items),
		ByCategory:       nonNil(items),
	}
}

// GetFundBalances returns the fund balance classifications for one entity.
func (s *Service) GetFundBalances(ctx context.Context, code string) model.Response {
	if !validCode(code) {
		return invalidCode(code)
	}

	items, err := s.store.GetFundBalances(ctx, code)
	if err != nil {
		return s.backendFail("get fund balances", err)
	}

	return model.FundBalanceResult{
		Envelope:     model.OK(),
		Code:         code,
		FundBalances: nonNil(items),
	}
}

// GetDebt returns the debt detail for one entity. Entities with no debt row
// report zeroes.
func (s *Service) GetDebt(ctx context.Context, code string) model.Response {
	if !validCode(code) {
		return invalidCode(code)
	}

	debt, err := s.store.GetDebt(ctx, code)
	if err != nil {
		return s.backendFail("get debt", err)
	}

	return model.DebtResult{
		Envelope:  model.OK(),
		Code:      code,
		TotalDebt: debt.TotalDebt(),
		Details:   debt,
	}
}

// GetPensions returns the reported pension systems for one entity.
func (s *Service) GetPensions(ctx context.Context, code string) model.Response {
	if !validCode(code) {
		return invalidCode(code)
	}

	systems, err := s.store.GetPensions(ctx, code)
	if err != nil {
		return s.backendFail("get pensions", err)
	}
	if systems == nil {
		systems = map[string]model.PensionSystem{}
	}

	return model.PensionResult{
		Envelope:       model.OK(),
		Code:           code,
		PensionSystems: systems,
	}
}

// GetCountyEntities lists the entities of a county, optionally filtered by
// entity type.
func (s *Service) GetCountyEntities(ctx context.Context, county, entityType string) model.Response {
	entities, err := s.store.GetEntitiesByCounty(ctx, county, entityType)
	if err != nil {
		return s.backendFail("county entities", err)
	}

	var filter *string
	if entityType != "" {
		filter = &entityType
	}
	return model.CountyEntitiesResult{
		Envelope:         model.OK(),
		County:           county,
		EntityTypeFilter: filter,
		Count:            len(entities),
		Entities:         nonNil(entities),
	}
}

// GetCountySummary aggregates all entities of a county.
func (s *Service) GetCountySummary(ctx context.Context, county string) model.Response {
	summary, err := s.store.GetCountySummary(ctx, county)
	if err != nil {
		return s.backendFail("county summary", err)
	}
	if summary == nil {
		return model.NotFound("County '" + county + "' not found")
	}

	return model.CountySummaryResult{Envelope: model.OK(), Summary: *summary}
}

// GetPeers finds similarly sized entities of the same type. A rangePct of
// zero uses the default ±25% window.
func (s *Service) GetPeers(ctx context.Context, code string, rangePct float64, limit int) model.Response {
	if !validCode(code) {
		return invalidCode(code)
	}
	if rangePct <= 0 {
		rangePct = defaultPeerRange
	}

	peers, err := s.store.GetPeerEntities(ctx, store.PeerQuery{
		Code:     code,
		RangePct: rangePct,
		SameType: true,
		Limit:    clampLimit(limit),
	})
	if err != nil {
		return s.backendFail("peer entities", err)
	}

	return model.PeerResult{
		Envelope:  model.OK(),
		PeerCount: len(peers),
		Peers:     nonNil(peers),
	}
}

// RankEntities ranks entities by a fixed metric. Order is "top" (highest
// first, the default) or "bottom".
func (s *Service) RankEntities(ctx context.Context, metric, entityType, county, order string, limit int) model.Response {
	if !store.ValidRankMetric(metric) {
		return model.ValidationError("Unknown metric '" + metric + "'. Available: eav, employees, population.")
	}
	if order == "" {
		order = "top"
	}
	if order != "top" && order != "bottom" {
		return model.ValidationError("Order must be 'top' or 'bottom'.")
	}

	ranked, err := s.store.RankEntities(ctx, store.RankQuery{
		Metric:     metric,
		EntityType: entityType,
		County:     county,
		Descending: order == "top",
		Limit:      clampLimit(limit),
	})
	if err != nil {
		return s.backendFail("rank entities", err)
	}

	filters := model.RankFilters{}
	if entityType != "" {
		filters.EntityType = &entityType
	}
	if county != "" {
		filters.County = &county
	}
	return model.RankResult{
		Envelope: model.OK(),
		Metric:   metric,
		Order:    order,
		Filters:  filters,
		Count:    len(ranked),
		Rankings: nonNil(ranked),
	}
}

// CompareEntities builds a side-by-side comparison of 2–10 entity codes.
// Codes that do not resolve are dropped from the output.
func (s *Service) CompareEntities(ctx context.Context, codes []string) model.Response {
	cleaned := cleanCodes(codes)
	if len(cleaned) < minCompareCodes {
		return model.ValidationError("Please provide at least 2 entity codes separated by commas.")
	}
	if len(cleaned) > maxCompareCodes {
		return model.ValidationError("Maximum 10 entities can be compared at once.")
	}

	rows, err := fiscal.Compare(ctx, s.store, cleaned)
	if err != nil {
		return s.backendFail("compare entities", err)
	}

	return model.CompareResult{
		Envelope:    model.OK(),
		EntityCount: len(rows),
		Comparison:  nonNil(rows),
	}
}

// HealthScore computes the four-indicator fiscal health assessment.
func (s *Service) HealthScore(ctx context.Context, code string) model.Response {
	if !validCode(code) {
		return invalidCode(code)
	}

	res, err := s.scorer.Score(ctx, code)
	if eris.Is(err, fiscal.ErrEntityNotFound) {
		return entityNotFound(code)
	}
	if err != nil {
		return s.backendFail("health score", err)
	}

	return model.HealthScoreResult{
		Envelope:   model.OK(),
		EntityCode: res.EntityCode,
		EntityName: res.EntityName,
		Metrics:    res.Metrics,
		RawValues:  res.RawValues,
	}
}

// backendFail logs the underlying error and converts it into a generic
// error envelope. Backend faults never propagate past the facade.
func (s *Service) backendFail(op string, err error) model.Envelope {
	zap.L().Error("service: backend failure",
		zap.String("operation", op),
		zap.String("driver", s.store.Driver()),
		zap.Error(err),
	)
	return model.BackendError(err.Error())
}

func entityNotFound(code string) model.Envelope {
	return model.NotFound("Entity with code '" + code + "' not found")
}

func invalidCode(code string) model.Envelope {
	return model.ValidationError("Invalid entity code '" + code + "'. Expected three segments like '016/020/30'.")
}

// nonNil keeps empty lists marshaling as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
