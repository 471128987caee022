package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/fxping/ratehub/internal/converter"
	"github.com/fxping/ratehub/internal/domain"
	"github.com/fxping/ratehub/internal/export"
	"github.com/fxping/ratehub/internal/rates"
	"github.com/fxping/ratehub/internal/table"
)

const msgNoData = "Exchange rate data is not yet available."

// RateSource provides the latest snapshot.
type RateSource interface {
	Latest() (*domain.RateSnapshot, error)
}

// Catalog is the currency metadata the API serves and derives tables with.
type Catalog interface {
	table.Catalog
	All() []domain.CurrencyMeta
}

// Handler provides the rates proxy and table endpoints.
type Handler struct {
	rates   RateSource
	catalog Catalog
}

// NewHandler creates a new API handler.
func NewHandler(rates RateSource, catalog Catalog) *Handler {
	return &Handler{rates: rates, catalog: catalog}
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "hasData": false}
	if snap, err := h.rates.Latest(); err == nil {
		resp["hasData"] = true
		resp["lastUpdateUtc"] = snap.LastUpdateUTC
		resp["fetchedAt"] = snap.FetchedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRates handles GET /rates. It serves the latest snapshot in the upstream JSON shape.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.latest(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rates.PayloadFrom(snap))
}

// ListCurrencies handles GET /api/v1/currencies.
func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.All())
}

type tableResponse struct {
	View          domain.ViewState `json:"view"`
	Base          string           `json:"base"`
	LastUpdateUTC string           `json:"lastUpdateUtc"`
	Header        []string         `json:"header"`
	Rows          [][]string       `json:"rows"`
}

// GetTable handles GET /api/v1/table.
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.latest(w)
	if !ok {
		return
	}
	view := ViewFromQuery(r.URL.Query())
	t := table.Derive(snap, view, h.catalog)

	writeJSON(w, http.StatusOK, tableResponse{
		View:          view,
		Base:          t.Base,
		LastUpdateUTC: t.LastUpdateUTC,
		Header:        t.Header(),
		Rows:          t.Records(),
	})
}

// ExportTable handles GET /api/v1/export/{format}.
func (h *Handler) ExportTable(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, http.StatusNotFound, "unsupported export format, expected csv, xlsx or pdf")
		return
	}

	snap, ok := h.latest(w)
	if !ok {
		return
	}
	t := table.Derive(snap, ViewFromQuery(r.URL.Query()), h.catalog)

	var buf bytes.Buffer
	if err := export.Encode(&buf, format, t.Export()); err != nil {
		slog.Error("failed to encode export", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write export body", "format", format, "error", err)
	}
}

// latest writes a 503 and returns false while no snapshot is available.
func (h *Handler) latest(w http.ResponseWriter) (*domain.RateSnapshot, bool) {
	snap, err := h.rates.Latest()
	if err != nil {
		if errors.Is(err, rates.ErrNoSnapshot) {
			writeError(w, http.StatusServiceUnavailable, msgNoData)
			return nil, false
		}
		slog.Error("failed to load snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return snap, true
}

// ViewFromQuery builds a view from query parameters, defaulting every absent field.
func ViewFromQuery(q url.Values) domain.ViewState {
	v := domain.DefaultViewState()
	if base := strings.ToUpper(strings.TrimSpace(q.Get("base"))); base != "" {
		v.Base = base
	}
	if q.Has("amount") {
		v.Amount = q.Get("amount")
	}
	if q.Has("margin") {
		v.Margin = q.Get("margin")
	}
	v.Sort = domain.ParseSortKey(q.Get("sort"))
	v.Order = domain.ParseDirection(q.Get("order"))
	v.Filter = converter.SanitizeFilter(q.Get("filter"))
	v.Compare = domain.ParseComparison(q.Get("compare"))
	v.Threshold = q.Get("threshold")
	v.Prioritize, _ = strconv.ParseBool(q.Get("prioritize"))
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
