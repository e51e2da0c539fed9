package fiscal

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

// ErrEntityNotFound is returned by Score when the entity code does not
// resolve. It is the only terminal condition: missing financial sub-data
// defaults to zero or empty instead.
var ErrEntityNotFound = eris.New("fiscal: entity not found")

// HealthResult is a computed fiscal health assessment.
type HealthResult struct {
	EntityCode string
	EntityName string
	Metrics    map[string]model.HealthMetric
	RawValues  model.HealthRawValues
}

// HealthScorer computes the four-indicator fiscal health score from the
// backing store.
type HealthScorer struct {
	store store.Store
}

// NewHealthScorer returns a scorer reading from st.
func NewHealthScorer(st store.Store) *HealthScorer {
	return &HealthScorer{store: st}
}

// Score fetches everything the indicators need and rates each one whose
// preconditions hold: operating margin needs positive revenue, fund balance
// ratio positive expenditure, debt per capita positive population, and the
// pension indicator at least one underfunded system.
func (h *HealthScorer) Score(ctx context.Context, code string) (*HealthResult, error) {
	entity, err := h.store.GetEntity(ctx, code)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrEntityNotFound
	}

	var (
		revenues, expenditures, fundBalances []model.LineItem
		debt                                 model.DebtRecord
		pensions                             map[string]model.PensionSystem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		revenues, err = h.store.GetRevenues(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		expenditures, err = h.store.GetExpenditures(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		fundBalances, err = h.store.GetFundBalances(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		debt, err = h.store.GetDebt(gctx, code)
		return err
	})
	g.Go(func() (err error) {
		pensions, err = h.store.GetPensions(gctx, code)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw := model.HealthRawValues{
		TotalRevenue:          CategoryTotal(revenues),
		TotalExpenditure:      CategoryTotal(expenditures),
		UnassignedFundBalance: UnassignedGeneralFund(fundBalances),
		TotalDebt:             debt.TotalDebt(),
	}
	if entity.Population != nil {
		raw.Population = *entity.Population
	}

	metrics := make(map[string]model.HealthMetric)

	if margin, ok := OperatingMargin(raw.TotalRevenue, raw.TotalExpenditure); ok {
		metrics["operating_margin"] = model.HealthMetric{
			Value:  round2(margin * 100),
			Unit:   "percent",
			Rating: RateOperatingMargin(margin),
		}
	}

	if ratio, ok := FundBalanceRatio(raw.UnassignedFundBalance, raw.TotalExpenditure); ok {
		metrics["fund_balance_ratio"] = model.HealthMetric{
			Value:  round2(ratio * 100),
			Unit:   "percent",
			Rating: RateFundBalanceRatio(ratio),
		}
	}

	if dpc, ok := DebtPerCapita(raw.TotalDebt, raw.Population); ok {
		metrics["debt_per_capita"] = model.HealthMetric{
			Value:  round2(dpc),
			Unit:   "dollars",
			Rating: RateDebtPerCapita(dpc),
		}
	}

	if lowest, ok := MinPositiveFundedRatio(pensions); ok {
		metrics["pension_funded_ratio"] = model.HealthMetric{
			Value:  round2(lowest),
			Unit:   "percent",
			Rating: RatePensionFundedRatio(lowest / 100),
		}
	}

	return &HealthResult{
		EntityCode: code,
		EntityName: entity.UnitName,
		Metrics:    metrics,
		RawValues:  raw,
	}, nil
}
