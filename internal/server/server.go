// Package server exposes generation and the exercise catalog over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/verte-zerg/tuitoeic/internal/catalog"
	"github.com/verte-zerg/tuitoeic/internal/logger"
	"github.com/verte-zerg/tuitoeic/internal/model"
)

// Generator produces Part 7 exercises and Part 5 sentence questions.
type Generator interface {
	GenerateExercise(ctx context.Context, hint string) (model.Exercise, error)
	GenerateSentence(ctx context.Context, hint string) (model.SentenceQuestion, error)
}

// Deps are the collaborators shared by every handler.
type Deps struct {
	Gen     Generator
	Catalog catalog.Store
	Log     *logger.Logger
}

// Options configure the router.
type Options struct {
	AllowedOrigins []string
	// RequestTimeout bounds each request. Zero disables the limit.
	RequestTimeout time.Duration
}

// NewRouter wires every route.
func NewRouter(deps Deps, opts Options) http.Handler {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(accessLogMiddleware(deps.Log))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/api", func(ar chi.Router) {
		ar.Post("/part7", GeneratePart7Handler(deps))
		ar.Get("/part7", ListPart7Handler(deps))
		ar.Get("/part7/{key}", GetPart7Handler(deps))
		ar.Post("/quiz", QuizHandler(deps))
	})
	return r
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
