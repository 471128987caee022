package api

import (
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/ulule/limiter/v3"
)

// NewServer creates an HTTP server with all routes configured. lim may be nil to disable rate
// limiting, and an empty origins list disables CORS.
func NewServer(port string, handler *Handler, lim *limiter.Limiter, origins []string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handler, lim, origins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter registers every route on a new mux.
func NewRouter(handler *Handler, lim *limiter.Limiter, origins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Health)
	mux.HandleFunc("GET /rates", handler.GetRates)
	mux.HandleFunc("GET /api/v1/currencies", handler.ListCurrencies)
	mux.HandleFunc("GET /api/v1/table", handler.GetTable)
	mux.HandleFunc("GET /api/v1/export/{format}", handler.ExportTable)

	var h http.Handler = mux
	if lim != nil {
		h = rateLimit(lim, h)
	}
	if len(origins) > 0 {
		h = withCORS(origins, h)
	}
	return h
}

// withCORS lets browser front-ends on the given origins read the API. "*" allows any origin.
func withCORS(origins []string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{
			"Content-Disposition",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
		},
		MaxAge: 600,
	}).Handler(next)
}
