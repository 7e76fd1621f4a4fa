package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/carrier-sales-service/internal/catalog"
	"github.com/PratikDhanave/carrier-sales-service/internal/config"
	"github.com/PratikDhanave/carrier-sales-service/internal/dashboard"
	"github.com/PratikDhanave/carrier-sales-service/internal/models"
	"github.com/PratikDhanave/carrier-sales-service/internal/store"
)

const testToken = "test-token-123"

func newTestRouter(t *testing.T, token string, st store.EventStore) *gin.Engine {
	t.Helper()
	page, err := dashboard.NewPage(dashboard.PageConfig{})
	if err != nil {
		t.Fatalf("new page: %v", err)
	}
	return NewRouter(config.Config{IngestToken: token}, Deps{
		Store:   st,
		Catalog: catalog.Default(),
		Page:    page,
	})
}

func do(r http.Handler, method, path string, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
}

func TestHealthAndReady(t *testing.T) {
	r := newTestRouter(t, "", store.NewMemoryStore(nil))
	for _, path := range []string{"/health", "/ready"} {
		if w := do(r, http.MethodGet, path, "", nil); w.Code != http.StatusOK {
			t.Fatalf("%s expected 200 got %d", path, w.Code)
		}
	}
}

func TestReadyReportsStoreFailure(t *testing.T) {
	r := newTestRouter(t, "", brokenStore{store.NewMemoryStore(nil)})
	if w := do(r, http.MethodGet, "/ready", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", w.Code)
	}
}

func TestLoadSearch(t *testing.T) {
	r := newTestRouter(t, "", store.NewMemoryStore(nil))

	w := do(r, http.MethodGet, "/v1/loads/search?origin=chicago", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp models.DataResponse[models.Load]
	decodeBody(t, w, &resp)
	if len(resp.Data) != 1 || resp.Data[0].LoadID != "L-1001" {
		t.Fatalf("expected only L-1001, got %+v", resp.Data)
	}

	w = do(r, http.MethodGet, "/v1/loads/search?equipment_type=reefer&min_rate=1000", "", nil)
	decodeBody(t, w, &resp)
	if len(resp.Data) != 1 || resp.Data[0].LoadID != "L-1002" {
		t.Fatalf("expected only L-1002, got %+v", resp.Data)
	}

	w = do(r, http.MethodGet, "/v1/loads/search?origin=nowhere", "", nil)
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty data array, got %s", w.Body.String())
	}
}

func TestLoadSearchRejectsBadMinRate(t *testing.T) {
	r := newTestRouter(t, "", store.NewMemoryStore(nil))
	if w := do(r, http.MethodGet, "/v1/loads/search?min_rate=cheap", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestOutcomeRejectedBeforePersistence(t *testing.T) {
	st := store.NewMemoryStore(nil)
	r := newTestRouter(t, testToken, st)

	for _, headers := range []map[string]string{nil, bearer("wrong"), {"X-API-Key": "wrong"}} {
		w := do(r, http.MethodPost, "/data/outcome", `{"call_outcome":"Success"}`, headers)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d", w.Code)
		}
	}

	n, err := st.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected nothing stored, got %d", n)
	}
}

func TestOutcomeNormalizesAndStores(t *testing.T) {
	st := store.NewMemoryStore(nil)
	r := newTestRouter(t, testToken, st)

	body := `{
		"call_date": "2025-09-23",
		"base_price": "$1,900",
		"final_price": "1,750",
		"load_origin": "Chicago, IL",
		"load_destination": "Dallas, TX",
		"call_outcome": "Success",
		"call_duration": 212.7,
		"sentiment": "positive",
		"mc_number": "MC 123456",
		"carrier_name": "Acme Freight"
	}`
	w := do(r, http.MethodPost, "/data/outcome", body, bearer(testToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var out models.OutcomeResponse
	decodeBody(t, w, &out)
	if !out.OK || out.ID != 1 || out.Stored != 1 {
		t.Fatalf("unexpected response %+v", out)
	}

	w = do(r, http.MethodPost, "/data/outcome", `{"call_outcome":"No MC"}`, map[string]string{"X-API-Key": testToken})
	decodeBody(t, w, &out)
	if out.ID != 2 || out.Stored != 2 {
		t.Fatalf("unexpected response %+v", out)
	}

	w = do(r, http.MethodGet, "/data/events", "", nil)
	var list models.DataResponse[models.EventRecord]
	decodeBody(t, w, &list)
	if len(list.Data) != 2 || list.Data[0].ID != 2 || list.Data[1].ID != 1 {
		t.Fatalf("expected newest first, got %+v", list.Data)
	}
	first := list.Data[1]
	if first.BasePrice == nil || *first.BasePrice != 1900 || first.FinalPrice == nil || *first.FinalPrice != 1750 {
		t.Fatalf("unexpected prices %v / %v", first.BasePrice, first.FinalPrice)
	}
	if first.CallDuration == nil || *first.CallDuration != 212 {
		t.Fatalf("expected truncated duration 212, got %v", first.CallDuration)
	}
	if first.IsNegotiated == nil || !*first.IsNegotiated {
		t.Fatalf("expected inferred negotiation, got %v", first.IsNegotiated)
	}
	if first.CarrierSentiment == nil || *first.CarrierSentiment != "positive" {
		t.Fatalf("expected sentiment alias stored, got %v", first.CarrierSentiment)
	}
	if first.MCNumber == nil || *first.MCNumber != "123456" {
		t.Fatalf("expected mc number 123456, got %v", first.MCNumber)
	}
	if list.Data[0].IsNegotiated != nil {
		t.Fatalf("expected absent negotiation without prices, got %v", *list.Data[0].IsNegotiated)
	}
}

func TestOutcomeWithoutConfiguredToken(t *testing.T) {
	r := newTestRouter(t, "", store.NewMemoryStore(nil))
	if w := do(r, http.MethodPost, "/data/outcome", `{}`, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200 in no-auth mode, got %d", w.Code)
	}
}

func TestOutcomeBadJSON(t *testing.T) {
	r := newTestRouter(t, "", store.NewMemoryStore(nil))
	if w := do(r, http.MethodPost, "/data/outcome", `{"base_price":`, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestOutcomeStoreFailure(t *testing.T) {
	r := newTestRouter(t, "", brokenStore{store.NewMemoryStore(nil)})
	w := do(r, http.MethodPost, "/data/outcome", `{"call_outcome":"Success"}`, nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestEventsPaging(t *testing.T) {
	st := store.NewMemoryStore(nil)
	for i := 0; i < 3; i++ {
		if _, err := st.Insert(context.Background(), models.EventRecord{}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	r := newTestRouter(t, "", st)

	w := do(r, http.MethodGet, "/data/events?limit=1&offset=1", "", nil)
	var list models.DataResponse[models.EventRecord]
	decodeBody(t, w, &list)
	if len(list.Data) != 1 || list.Data[0].ID != 2 {
		t.Fatalf("expected record 2, got %+v", list.Data)
	}

	for _, q := range []string{"limit=0", "limit=abc", "offset=-1"} {
		if w := do(r, http.MethodGet, "/data/events?"+q, "", nil); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", q, w.Code)
		}
	}
}

func TestDashboardMetrics(t *testing.T) {
	st := store.NewMemoryStore(nil)
	r := newTestRouter(t, "", st)

	w := do(r, http.MethodGet, "/dashboard/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var m dashboard.Metrics
	decodeBody(t, w, &m)
	if m.Total != 0 || m.Outcomes["Unsuccessful"] != 0 || len(m.Outcomes) != 3 || len(m.Sentiments) != 3 {
		t.Fatalf("unexpected empty metrics %+v", m)
	}

	for _, body := range []string{
		`{"call_outcome":"Success","base_price":1800,"final_price":1600,"carrier_sentiment":"Positive"}`,
		`{"call_outcome":"Unsuccessful","base_price":1800,"final_price":1800,"carrier_sentiment":"negative"}`,
	} {
		do(r, http.MethodPost, "/data/outcome", body, nil)
	}

	w = do(r, http.MethodGet, "/dashboard/metrics", "", nil)
	decodeBody(t, w, &m)
	if m.Total != 2 || m.Outcomes["Success"] != 1 || m.Outcomes["Unsuccessful"] != 1 {
		t.Fatalf("unexpected outcomes %+v", m)
	}
	if m.Sentiments["Negative"] != 1 || m.NegotiationRate != 0.5 || m.AvgFinalPrice != 1700 {
		t.Fatalf("unexpected metrics %+v", m)
	}
	if !strings.Contains(w.Body.String(), `"total_calls":2`) {
		t.Fatalf("expected total_calls key, got %s", w.Body.String())
	}
}

func TestDashboardMetricsStoreFailure(t *testing.T) {
	r := newTestRouter(t, "", brokenStore{store.NewMemoryStore(nil)})
	if w := do(r, http.MethodGet, "/dashboard/metrics", "", nil); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestDashboardPage(t *testing.T) {
	r := newTestRouter(t, "", store.NewMemoryStore(nil))
	w := do(r, http.MethodGet, "/dashboard", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Carrier Sales Dashboard") {
		t.Fatalf("expected dashboard title in page")
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	r := newTestRouter(t, "", store.NewMemoryStore(nil))
	do(r, http.MethodGet, "/health", "", nil)
	w := do(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "api_requests_total") {
		t.Fatalf("expected prometheus exposition, got %d", w.Code)
	}
}

// brokenStore fails every call that would touch the database.
type brokenStore struct{ *store.MemoryStore }

var errDown = errors.New("connection refused")

func (brokenStore) Insert(ctx context.Context, rec models.EventRecord) (models.EventRecord, error) {
	return models.EventRecord{}, errDown
}

func (brokenStore) Count(ctx context.Context) (int64, error) { return 0, errDown }

func (brokenStore) Ping(ctx context.Context) error { return errDown }
