package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prairiedata/fiscal-cli/internal/service"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(ctx))

	_, err = st.BulkLoad(ctx, store.TableSpec{
		Name: "entities",
		Columns: []string{
			"code", "unit_name", "entity_type", "county",
			"ceo_fname", "ceo_lname", "ceo_title", "cfo_fname", "cfo_lname", "cfo_title",
		},
		ConflictKeys: []string{"code"},
	}, [][]any{
		{"016/050/32", "Skokie", "Village", "Cook", nil, nil, nil, nil, nil, nil},
		{"016/040/32", "Oak Park", "Village", "Cook", nil, nil, nil, nil, nil, nil},
	})
	require.NoError(t, err)

	_, err = st.BulkLoad(ctx, store.TableSpec{
		Name: "entity_stats",
		Columns: []string{
			"code", "population", "eav", "full_time_emp", "part_time_emp",
			"home_rule", "utilities", "tif_district", "accounting_method",
			"has_debt", "has_bonded_debt",
		},
		ConflictKeys: []string{"code"},
	}, [][]any{
		{"016/050/32", int64(64000), 3_100_000_000.0, int64(600), int64(110), "Y", "N", "Y", "Accrual", "Y", "Y"},
		{"016/040/32", int64(52000), 2_400_000_000.0, int64(480), int64(90), "Y", "N", "Y", "Accrual", "Y", "Y"},
	})
	require.NoError(t, err)

	return NewRouter(service.New(st), opts)
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return rec, body
}

func TestRouter_Health(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "sqlite", body["data_source"])
	assert.Equal(t, true, body["connection_tested"])
	assert.Equal(t, "1.0.0", body["version"])
}

func TestRouter_Search(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/entities/search?q=Skokie")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.EqualValues(t, 1, body["count"])
}

func TestRouter_Search_TooShort(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/entities/search?q=S")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Please provide at least 2 characters to search.", body["error_message"])
}

func TestRouter_Search_NoMatchIsHTTP200(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/entities/search?q=Atlantis")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "not_found", body["status"])
	assert.Equal(t, "No entities found matching 'Atlantis'", body["message"])
}

func TestRouter_GetEntity(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/entities/016/050/32/")
	assert.Equal(t, http.StatusOK, rec.Code)
	entity, ok := body["entity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Skokie", entity["UnitName"])
	assert.EqualValues(t, 64000, entity["Population"])
}

func TestRouter_GetEntity_NotFound(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/entities/999/999/99/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", body["status"])
	assert.Equal(t, "Entity with code '999/999/99' not found", body["message"])
}

func TestRouter_Revenues_Empty(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/entities/016/050/32/revenues")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["total_revenue"])
	cats, ok := body["by_category"].([]any)
	require.True(t, ok, "by_category must be a list, not null")
	assert.Empty(t, cats)
}

func TestRouter_Compare_Validation(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/entities/compare?codes=016/050/32")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide at least 2 entity codes separated by commas.", body["error_message"])
}

func TestRouter_Rank(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/entities/rank?metric=population&county=Cook")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "population", body["metric"])
	assert.Equal(t, "top", body["order"])
	rankings, ok := body["rankings"].([]any)
	require.True(t, ok)
	require.Len(t, rankings, 2)
	first, ok := rankings[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Skokie", first["UnitName"])
}

func TestRouter_CountySummary_NotFound(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec, body := get(t, h, "/api/v1/counties/Narnia/summary")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "County 'Narnia' not found", body["message"])
}

func TestRouter_RequestIDHeader(t *testing.T) {
	h := newTestRouter(t, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestRouter_RateLimit(t *testing.T) {
	h := newTestRouter(t, Options{RateLimit: 1, RateBurst: 2})

	codes := make([]int, 0, 4)
	for range 4 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Contains(t, codes, http.StatusTooManyRequests)
}
