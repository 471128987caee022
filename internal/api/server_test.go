package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fxping/ratehub/internal/currency"
	"github.com/fxping/ratehub/internal/domain"
	"github.com/fxping/ratehub/internal/rates"
)

func testSnapshot() *domain.RateSnapshot {
	return &domain.RateSnapshot{
		BaseCode:      "USD",
		LastUpdateUTC: "Wed, 15 Nov 2023 00:00:01 +0000",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"EUR": decimal.RequireFromString("0.92"),
			"GBP": decimal.RequireFromString("0.8"),
			"JPY": decimal.RequireFromString("149.5"),
			"XDR": decimal.RequireFromString("0.75"),
		},
	}
}

func newTestRouter(t *testing.T, withData bool) http.Handler {
	t.Helper()
	store := rates.NewStore()
	if withData {
		store.Set(testSnapshot())
	}
	return NewRouter(NewHandler(store, currency.Default()), nil, nil)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGetRatesBeforeFirstRefresh(t *testing.T) {
	router := newTestRouter(t, false)

	w := do(router, http.MethodGet, "/rates")

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Exchange rate data is not yet available." {
		t.Errorf("error = %q", body["error"])
	}
}

func TestGetRates(t *testing.T) {
	router := newTestRouter(t, true)

	w := do(router, http.MethodGet, "/rates")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	snap, err := rates.ParsePayload(w.Body.Bytes(), testSnapshot().FetchedAt)
	if err != nil {
		t.Fatalf("response is not a valid rates payload: %v", err)
	}
	if snap.BaseCode != "USD" || len(snap.Rates) != 5 {
		t.Errorf("snapshot = %s with %d rates", snap.BaseCode, len(snap.Rates))
	}
	if !strings.Contains(w.Body.String(), `"EUR":0.92`) {
		t.Errorf("rates should be JSON numbers: %s", w.Body.String())
	}
}

func TestGetTable(t *testing.T) {
	router := newTestRouter(t, true)

	w := do(router, http.MethodGet, "/api/v1/table?base=eur&amount=10&sort=code&order=desc")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp tableResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Base != "EUR" {
		t.Errorf("base = %q, want EUR", resp.Base)
	}
	if len(resp.Header) != 7 {
		t.Errorf("header = %v", resp.Header)
	}
	// XDR is excluded by the default catalog.
	codes := make([]string, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		codes = append(codes, row[0])
	}
	if strings.Join(codes, ",") != "USD,JPY,GBP,EUR" {
		t.Errorf("codes = %v, want USD,JPY,GBP,EUR", codes)
	}
	if resp.Rows[3][4] != "10.00" {
		t.Errorf("EUR converted amount = %q, want 10.00", resp.Rows[3][4])
	}
}

func TestGetTableNoData(t *testing.T) {
	router := newTestRouter(t, false)

	if w := do(router, http.MethodGet, "/api/v1/table"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestExportTable(t *testing.T) {
	router := newTestRouter(t, true)

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"csv", "text/csv; charset=utf-8", "Currency Code,Currency,Location"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "PK"},
		{"pdf", "application/pdf", "%PDF-"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			w := do(router, http.MethodGet, "/api/v1/export/"+tt.format)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if got := w.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			want := `attachment; filename="exchange_rates.` + tt.format + `"`
			if got := w.Header().Get("Content-Disposition"); got != want {
				t.Errorf("Content-Disposition = %q, want %q", got, want)
			}
			if !strings.HasPrefix(w.Body.String(), tt.prefix) {
				t.Errorf("body does not start with %q", tt.prefix)
			}
		})
	}
}

func TestExportUnknownFormat(t *testing.T) {
	router := newTestRouter(t, true)

	if w := do(router, http.MethodGet, "/api/v1/export/docx"); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListCurrencies(t *testing.T) {
	router := newTestRouter(t, false)

	w := do(router, http.MethodGet, "/api/v1/currencies")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var metas []domain.CurrencyMeta
	if err := json.Unmarshal(w.Body.Bytes(), &metas); err != nil {
		t.Fatal(err)
	}
	if len(metas) < 100 {
		t.Errorf("currencies = %d, want the full catalog", len(metas))
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, false)

	w := do(router, http.MethodGet, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"hasData":false`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	lim, err := NewLimiter("2-M")
	if err != nil {
		t.Fatal(err)
	}
	store := rates.NewStore()
	router := NewRouter(NewHandler(store, currency.Default()), lim, nil)

	for i := range 2 {
		if w := do(router, http.MethodGet, "/healthz"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}
	if w := do(router, http.MethodGet, "/healthz"); w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
}

func TestCORS(t *testing.T) {
	store := rates.NewStore()
	store.Set(testSnapshot())
	handler := NewHandler(store, currency.Default())

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"any origin", []string{"*"}, "http://localhost:5173", "*"},
		{"listed origin", []string{"https://rates.example.com"}, "https://rates.example.com", "https://rates.example.com"},
		{"unlisted origin", []string{"https://rates.example.com"}, "http://localhost:5173", ""},
		{"disabled", nil, "http://localhost:5173", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(handler, nil, tt.origins)
			req := httptest.NewRequest(http.MethodGet, "/rates", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(NewHandler(rates.NewStore(), currency.Default()), nil, []string{"*"})

	req := httptest.NewRequest(http.MethodOptions, "/rates", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != http.MethodGet {
		t.Errorf("Access-Control-Allow-Methods = %q, want GET", got)
	}
}

func TestNewLimiterInvalidRate(t *testing.T) {
	if _, err := NewLimiter("lots"); err == nil {
		t.Error("expected error for malformed rate")
	}
}

func TestViewFromQuery(t *testing.T) {
	q := url.Values{
		"base":       {"gbp"},
		"filter":     {"u$s1d"},
		"compare":    {">"},
		"threshold":  {"1.5"},
		"prioritize": {"true"},
		"order":      {"DESC"},
		"sort":       {"location"},
	}
	v := ViewFromQuery(q)

	if v.Base != "GBP" || v.Filter != "USD" || v.Compare != domain.CompareGreaterThan {
		t.Errorf("view = %+v", v)
	}
	if v.Sort != domain.SortByLocation || v.Order != domain.Desc || !v.Prioritize {
		t.Errorf("view = %+v", v)
	}
	if v.Amount != "1" || v.Margin != "0" {
		t.Errorf("defaults not kept: %+v", v)
	}
}
