package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/prairiedata/fiscal-cli/internal/service"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "fiscal.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initService opens the store, runs migrations, and wraps it in the query
// facade. The caller must invoke the returned closer.
func initService(ctx context.Context) (*service.Service, func(), error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, err
	}
	return service.New(st), func() { st.Close() }, nil //nolint:errcheck
}
