// Package api exposes the service over HTTP. Routes mirror the envelope
// contract: every body carries a status field and failures map onto 400,
// 404, or 500 via the envelope kind.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/prairiedata/fiscal-cli/internal/service"
)

// Options tunes the router middleware.
type Options struct {
	// RateLimit is sustained requests per second across all clients.
	// Zero disables rate limiting.
	RateLimit float64
	// RateBurst is the burst allowance on top of RateLimit.
	RateBurst int
}

// NewRouter builds the full route tree over svc.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	if opts.RateLimit > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst)))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/entities", func(r chi.Router) {
			r.Get("/search", h.searchEntities)
			r.Get("/rank", h.rankEntities)
			r.Get("/compare", h.compareEntities)

			// Entity codes are three slash-separated segments, so they map
			// onto three URL params.
			r.Route("/{county}/{unit}/{etype}", func(r chi.Router) {
				r.Get("/", h.getEntity)
				r.Get("/revenues", h.getRevenues)
				r.Get("/expenditures", h.getExpenditures)
				r.Get("/fund-balances", h.getFundBalances)
				r.Get("/debt", h.getDebt)
				r.Get("/pensions", h.getPensions)
				r.Get("/peers", h.getPeers)
				r.Get("/health-score", h.healthScore)
			})
		})

		r.Route("/counties/{county}", func(r chi.Router) {
			r.Get("/entities", h.countyEntities)
			r.Get("/summary", h.countySummary)
		})
	})

	return r
}
