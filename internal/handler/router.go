package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterConfig collects what the router serves
type RouterConfig struct {
	Map           *MapHandler
	Views         *ViewHandler
	Events        http.Handler
	AllowedOrigin string
	Logger        *zap.Logger
}

// NewRouter builds the HTTP routes with middleware applied
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Recover(logger), CORS(origin), Logger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"servermap"}`))
	})

	// Filtered map endpoints
	r.Route("/api/filtered-map", func(r chi.Router) {
		r.Post("/url", cfg.Map.BuildURL)
		r.Post("/parse", cfg.Map.ParseAddress)
		r.Post("/unknown", cfg.Map.HasUnknownNode)
	})
	r.Post("/api/buckets/start", cfg.Map.BucketStart)

	// View endpoints
	r.Route("/api/views", func(r chi.Router) {
		r.Get("/", cfg.Views.ListViews)
		r.Post("/", cfg.Views.CreateView)
		r.Get("/{id}", cfg.Views.GetView)
		r.Delete("/{id}", cfg.Views.DeleteView)
		r.Post("/{id}/filters", cfg.Views.ApplyFilter)
	})

	// Import/export endpoints
	r.Get("/api/export/{format}", cfg.Views.Export)
	r.Post("/api/import/{format}", cfg.Views.Import)

	// SSE events endpoint
	if cfg.Events != nil {
		r.Method(http.MethodGet, "/events", cfg.Events)
	}

	return r
}
