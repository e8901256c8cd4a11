package router

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leca/dt-restcountries/internal/api"
	"github.com/leca/dt-restcountries/internal/config"
	"github.com/leca/dt-restcountries/internal/database"
	"github.com/leca/dt-restcountries/internal/handler"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	DB      database.Database
	Config  *config.Config
	Metrics *api.Metrics
	Router  chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(db database.Database, cfg *config.Config) *Server {
	s := &Server{DB: db, Config: cfg, Metrics: api.NewMetrics()}

	h := &handler.Handler{DB: db}

	r := chi.NewRouter()

	// CORS runs first so preflight OPTIONS never reach the handlers.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.Metrics.Middleware)

	r.Get("/health", s.Health)
	r.Handle("/metrics", s.Metrics.Handler())

	// Public API surface mirrored from restcountries.
	r.Route("/v3.1", func(r chi.Router) {
		r.Get("/all", h.ListAll)
		r.Get("/alpha/{code}", h.GetByCode)
	})

	// Twin control plane.
	r.Put("/_twin/countries", h.ReplaceCountries)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.NotFound(w)
	})

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.Printf("Health: failed to encode response: %v", err)
	}
}
