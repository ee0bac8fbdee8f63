package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mindwell/apiserver/config"
	"github.com/mindwell/apiserver/internal/auth"
	"github.com/mindwell/apiserver/internal/db"
	"github.com/mindwell/apiserver/internal/handlers"
	"github.com/mindwell/apiserver/internal/inference"
	"github.com/mindwell/apiserver/internal/services"
	"github.com/mindwell/apiserver/internal/store"
	"github.com/mindwell/apiserver/internal/uploads"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
}

// New constructs a Server with basic middleware and defaults. It fails
// when JWT_SECRET is unset: sessions must never fall back to a baked-in
// signing key.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	uploadStore, err := uploads.NewStore(cfg.Inference.UploadDir)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	tipRepo := store.NewTipRepository(dbConn)
	moodRepo := store.NewMoodRepository(dbConn)
	journalRepo := store.NewJournalRepository(dbConn)

	userService := services.NewUserService(userRepo)
	tipService := services.NewTipService(tipRepo)
	moodService := services.NewMoodService(moodRepo)
	journalService := services.NewJournalService(journalRepo)

	googleVerifier := auth.NewGoogleVerifier(cfg.Google.ClientID)
	runner := inference.NewRunner(cfg.Inference.PythonBin, cfg.Inference.ScriptsDir, cfg.Inference.Timeout)
	production := cfg.IsProduction()

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(cfg.Inference.Timeout+30*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, googleVerifier, jwtSecret)
		})
		r.Route("/daily-tip", func(r chi.Router) {
			handlers.TipRouter(r, tipService)
		})
		r.Route("/daily-journal", func(r chi.Router) {
			handlers.JournalRouter(r, journalService)
		})
		handlers.AssessmentRouter(r, runner, production)
		handlers.MoodRouter(r, moodService, runner, uploadStore, production)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	// WriteTimeout must outlast the inference timeout or the response
	// is cut off mid-prediction.
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Inference.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
