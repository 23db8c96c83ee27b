package internal

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/http"
	"time"

	"melp-api/internal/auth"
	"melp-api/internal/config"
	"melp-api/internal/handlers"
	"melp-api/internal/logging"
	"melp-api/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

//go:embed openapi
var openapiFS embed.FS

// Server is the application context shared by every handler.
type Server struct {
	DB          *sql.DB
	Pool        *pgxpool.Pool
	Router      *chi.Mux
	Restaurants repository.RestaurantRepository
	JWTManager  *auth.JWTManager
	Metrics     *Metrics
	Log         *logrus.Logger

	cfg *config.Config
}

// Open connects to the database named by cfg and builds the Server.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Server, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// pgxpool backs the bulk importer
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create pgxpool: %w", err)
	}

	return NewServer(cfg, db, pool, log), nil
}

// NewServer wires the routes around an already opened database. pool may
// be nil, in which case the import endpoint is not mounted.
func NewServer(cfg *config.Config, db *sql.DB, pool *pgxpool.Pool, log *logrus.Logger) *Server {
	s := &Server{
		DB:          db,
		Pool:        pool,
		Router:      chi.NewRouter(),
		Restaurants: repository.NewRestaurantRepository(db),
		JWTManager:  auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry),
		Metrics:     NewMetrics(),
		Log:         log,
		cfg:         cfg,
	}

	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(logging.Middleware(log))
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", s.dbPing)
	s.mountDocs(s.Router)

	s.Router.Route("/restaurants", func(r chi.Router) {
		r.Get("/", s.listRestaurants)
		r.With(s.requireEditor).Post("/", s.createRestaurant)
		r.Get("/statistics", s.restaurantStatistics)
		r.Get("/{id}", s.getRestaurant)
		r.With(s.requireEditor).Put("/{id}", s.updateRestaurant)
		r.With(s.requireEditor).Delete("/{id}", s.deleteRestaurant)
	})

	if pool != nil {
		imports := handlers.NewImportsHandler(pool, cfg.ImportMaxBytes, cfg.ImportMapping, log)
		s.Router.With(s.requireEditor).Post("/imports/excel", imports.UploadExcel)
	}

	return s
}

// Close releases the database handles.
func (s *Server) Close() error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// requireEditor guards write routes when auth is enabled.
func (s *Server) requireEditor(next http.Handler) http.Handler {
	if !s.cfg.AuthRequired {
		return next
	}
	return auth.AuthMiddleware(s.JWTManager)(auth.MustRole(auth.RoleEditor)(next))
}

func (s *Server) dbPing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		s.Log.WithError(err).Warn("database ping failed")
		http.Error(w, "db: unavailable", http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("db: ok")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// mountDocs serves the OpenAPI spec and Swagger UI
func (s *Server) mountDocs(mux *chi.Mux) {
	if !s.cfg.EnableSwagger {
		return
	}

	mux.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := openapiFS.ReadFile("openapi/openapi.yaml")
		if err != nil {
			http.Error(w, "Failed to read OpenAPI spec", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		if _, err := w.Write(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<!doctype html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Melp - Restaurant Info</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5.9.0/swagger-ui-bundle.js"></script>
    <script>
        window.onload = function() {
            window.ui = SwaggerUIBundle({
                url: '/openapi.yaml',
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [SwaggerUIBundle.presets.apis],
                tryItOutEnabled: true
            });
        };
    </script>
</body>
</html>`))
	})
}
