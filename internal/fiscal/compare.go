package fiscal

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

// compareConcurrency bounds the parallel per-entity fetches during Compare.
const compareConcurrency = 4

// Compare builds side-by-side comparison rows for the given entity codes.
// Codes that do not resolve are silently dropped; surviving rows keep the
// input order regardless of fetch completion order.
func Compare(ctx context.Context, st store.Store, codes []string) ([]model.ComparisonRow, error) {
	slots := make([]*model.ComparisonRow, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(compareConcurrency)
	for i, code := range codes {
		g.Go(func() error {
			entity, err := st.GetEntity(gctx, code)
			if err != nil {
				return err
			}
			if entity == nil {
				return nil
			}

			revenues, err := st.GetRevenues(gctx, code)
			if err != nil {
				return err
			}
			expenditures, err := st.GetExpenditures(gctx, code)
			if err != nil {
				return err
			}

			row := model.ComparisonRow{
				Code:             code,
				Name:             entity.UnitName,
				Type:             entity.EntityType,
				County:           entity.County,
				TotalRevenue:     CategoryTotal(revenues),
				TotalExpenditure: CategoryTotal(expenditures),
			}
			if entity.Population != nil {
				row.Population = *entity.Population
			}
			if entity.EAV != nil {
				row.EAV = *entity.EAV
			}
			if row.Population > 0 {
				row.RevenuePerCapita = round2(row.TotalRevenue / float64(row.Population))
				row.ExpenditurePerCapita = round2(row.TotalExpenditure / float64(row.Population))
			}
			slots[i] = &row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]model.ComparisonRow, 0, len(codes))
	for _, r := range slots {
		if r != nil {
			rows = append(rows, *r)
		}
	}
	return rows, nil
}
