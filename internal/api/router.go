package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/services"
	"github.com/prometheus/client_golang/prometheus"
)

// MetadataSource assembles the global metadata document served to clients
type MetadataSource interface {
	GlobalMetadata(ctx context.Context) (models.GlobalMetadata, error)
}

// Server holds the HTTP server dependencies
type Server struct {
	db       services.DatabaseManager
	metadata MetadataSource
	origins  []string
	router   chi.Router
	metrics  *metrics
}

// New creates a new API server
func New(db services.DatabaseManager, metadata MetadataSource, allowedOrigins []string) *Server {
	s := &Server{
		db:       db,
		metadata: metadata,
		origins:  allowedOrigins,
		router:   chi.NewRouter(),
		metrics:  newMetrics(prometheus.NewRegistry()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Api-Key"},
		MaxAge:         300,
	}))
	s.router.Use(s.metrics.middleware)
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Search
		r.Get("/items", s.handleSearchItems)

		// Firearms
		r.Get("/firearms", s.handleGetFirearms)
		r.Get("/firearms/by-type", s.handleGetFirearmsByType)

		// Armor
		r.Get("/armor", s.handleGetArmor)
		r.Get("/armor/by-class", s.handleGetArmorByClass)
		r.Get("/armor/body", s.handleGetBodyArmor)
		r.Get("/armor/body/by-class", s.handleGetBodyArmorByClass)

		// Ammo
		r.Get("/ammo", s.handleGetAmmo)
		r.Get("/ammo/by-caliber", s.handleGetAmmoByCaliber)

		// Everything else
		r.Get("/medical", s.handleGetMedical)
		r.Get("/medical/by-type", s.handleGetMedicalByType)
		r.Get("/throwables", s.handleGetThrowables)
		r.Get("/melee", s.handleGetMelee)

		// Global metadata document
		r.Get("/metadata", s.handleGetMetadata)
	})

	s.router.Handle("/metrics", s.metrics.handler())

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondList[T any](w http.ResponseWriter, items []T) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":       items,
		"total_count": len(items),
	})
}

// await blocks on an asynchronous catalog call until its handler runs or
// the request is cancelled
func await[T any](r *http.Request, call func(ctx context.Context, handler func(T))) (T, bool) {
	result := make(chan T, 1)
	call(r.Context(), func(v T) { result <- v })

	select {
	case v := <-result:
		return v, true
	case <-r.Context().Done():
		var zero T
		return zero, false
	}
}
