package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/prairiedata/fiscal-cli/internal/model"
	"github.com/prairiedata/fiscal-cli/internal/service"
)

type handler struct {
	svc *service.Service
}

// respond writes a payload at the HTTP status its envelope maps to.
func respond(w http.ResponseWriter, resp model.Response) {
	respondStatus(w, resp, resp.Env().HTTPStatus())
}

func respondStatus(w http.ResponseWriter, body any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

// entityCode reassembles the three-segment code from the URL params.
func entityCode(r *http.Request) string {
	return chi.URLParam(r, "county") + "/" + chi.URLParam(r, "unit") + "/" + chi.URLParam(r, "etype")
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func queryFloat(r *http.Request, key string) float64 {
	f, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return 0
	}
	return f
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	respondStatus(w, h.svc.Health(r.Context()), http.StatusOK)
}

// searchEntities answers GET /entities/search?q=&limit=. An empty result is
// a not_found body at HTTP 200: the query itself succeeded.
func (h *handler) searchEntities(w http.ResponseWriter, r *http.Request) {
	resp := h.svc.SearchEntities(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit"))
	if resp.Env().Status == model.StatusNotFound {
		respondStatus(w, resp, http.StatusOK)
		return
	}
	respond(w, resp)
}

func (h *handler) getEntity(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetEntity(r.Context(), entityCode(r)))
}

func (h *handler) getRevenues(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetRevenues(r.Context(), entityCode(r)))
}

func (h *handler) getExpenditures(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetExpenditures(r.Context(), entityCode(r)))
}

func (h *handler) getFundBalances(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetFundBalances(r.Context(), entityCode(r)))
}

func (h *handler) getDebt(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetDebt(r.Context(), entityCode(r)))
}

func (h *handler) getPensions(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetPensions(r.Context(), entityCode(r)))
}

func (h *handler) getPeers(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetPeers(r.Context(), entityCode(r), queryFloat(r, "range"), queryInt(r, "limit")))
}

func (h *handler) healthScore(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.HealthScore(r.Context(), entityCode(r)))
}

func (h *handler) rankEntities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respond(w, h.svc.RankEntities(r.Context(),
		q.Get("metric"), q.Get("entity_type"), q.Get("county"), q.Get("order"), queryInt(r, "limit")))
}

func (h *handler) compareEntities(w http.ResponseWriter, r *http.Request) {
	codes := strings.Split(r.URL.Query().Get("codes"), ",")
	respond(w, h.svc.CompareEntities(r.Context(), codes))
}

func (h *handler) countyEntities(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetCountyEntities(r.Context(),
		chi.URLParam(r, "county"), r.URL.Query().Get("entity_type")))
}

func (h *handler) countySummary(w http.ResponseWriter, r *http.Request) {
	respond(w, h.svc.GetCountySummary(r.Context(), chi.URLParam(r, "county")))
}
