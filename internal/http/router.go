package http

import (
	"net/http"

	"wefarm/internal/auth"
	"wefarm/internal/catalog"
	"wefarm/internal/config"
	"wefarm/internal/experience"
	"wefarm/internal/history"
	"wefarm/internal/http/handler"
	mw "wefarm/internal/http/middleware"
	"wefarm/internal/tracking"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewRouter(cfg config.Config, db *gorm.DB, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Bearer auth guards the mutating API when the identity service's shared
	// secret is configured. user_id in requests is still authoritative; the
	// token only proves the caller passed the external identity collaborator.
	var guard func(http.Handler) http.Handler
	if cfg.JWTSecret != "" {
		guard = auth.RequireAuth(auth.NewJWT(cfg.JWTSecret))
	}
	protect := func(r chi.Router) {
		if guard != nil {
			r.Use(guard)
		}
	}

	ph := &handler.PlantHandler{Lookup: &catalog.Lookup{DB: db}, Log: log}
	r.Route("/plants", func(r chi.Router) {
		r.Get("/", ph.List)
		r.Get("/{id}", ph.Detail)
	})

	th := &handler.TrackingHandler{Registry: &tracking.Registry{DB: db}, Log: log}
	r.Route("/tracking", func(r chi.Router) {
		protect(r)
		r.Post("/", th.Create)
		r.Get("/", th.List)
		r.Put("/", th.Update)
	})

	hh := &handler.HistoryHandler{Reconciler: &history.Reconciler{DB: db}, Log: log}
	r.Route("/history", func(r chi.Router) {
		protect(r)
		r.Post("/", hh.Sync)
		r.Get("/", hh.Query)
	})

	eh := &handler.ExperienceHandler{Svc: &experience.Service{DB: db}, Log: log}
	r.Route("/experiences", func(r chi.Router) {
		protect(r)
		r.Post("/", eh.Publish)
		r.Get("/", eh.List)
		r.Put("/{id}", eh.Update)
		r.Delete("/{id}", eh.Delete)
	})

	return r
}
