package fiscal

import (
	"context"

	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

// stubStore is a fixture-backed Store for scorer tests. An unset code
// behaves exactly like the real adapters: nil entity, empty breakdowns,
// zero debt, no pensions. Setting err fails every lookup.
type stubStore struct {
	entities     map[string]*model.EntityDetail
	revenues     map[string][]model.LineItem
	expenditures map[string][]model.LineItem
	fundBalances map[string][]model.LineItem
	debts        map[string]model.DebtRecord
	pensions     map[string]map[string]model.PensionSystem
	err          error
}

func (s *stubStore) GetEntity(_ context.Context, code string) (*model.EntityDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entities[code], nil
}

func (s *stubStore) GetRevenues(_ context.Context, code string) ([]model.LineItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.revenues[code], nil
}

func (s *stubStore) GetExpenditures(_ context.Context, code string) ([]model.LineItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.expenditures[code], nil
}

func (s *stubStore) GetFundBalances(_ context.Context, code string) ([]model.LineItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.fundBalances[code], nil
}

func (s *stubStore) GetDebt(_ context.Context, code string) (model.DebtRecord, error) {
	if s.err != nil {
		return model.DebtRecord{}, s.err
	}
	return s.debts[code], nil
}

func (s *stubStore) GetPensions(_ context.Context, code string) (map[string]model.PensionSystem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pensions[code], nil
}

func (s *stubStore) SearchEntities(context.Context, string, int) ([]model.EntitySummary, error) {
	return nil, nil
}

func (s *stubStore) GetEntitiesByCounty(context.Context, string, string) ([]model.CountyEntity, error) {
	return nil, nil
}

func (s *stubStore) GetPeerEntities(context.Context, store.PeerQuery) ([]model.PeerEntity, error) {
	return nil, nil
}

func (s *stubStore) RankEntities(context.Context, store.RankQuery) ([]model.RankedEntity, error) {
	return nil, nil
}

func (s *stubStore) GetCountySummary(context.Context, string) (*model.CountySummary, error) {
	return nil, nil
}

func (s *stubStore) BulkLoad(context.Context, store.TableSpec, [][]any) (int64, error) {
	return 0, nil
}

func (s *stubStore) Driver() string                { return "stub" }
func (s *stubStore) Ping(context.Context) error    { return nil }
func (s *stubStore) Migrate(context.Context) error { return nil }
func (s *stubStore) Close() error                  { return nil }

func int64p(v int64) *int64       { return &v }
func float64p(v float64) *float64 { return &v }
