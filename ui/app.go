package ui

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"nsfgstats/adapters/nsfg"
	"nsfgstats/internal/report"
)

// App serves a computed report and the underlying frequency tables
type App struct {
	router *chi.Mux
	groups *nsfg.Groups
	report *report.Report
	log    logrus.FieldLogger
}

// NewApp creates the HTTP application for one loaded dataset
func NewApp(groups *nsfg.Groups, rep *report.Report, log logrus.FieldLogger) *App {
	app := &App{
		router: chi.NewRouter(),
		groups: groups,
		report: rep,
		log:    log.WithField("component", "ui"),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(a.requestLogger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleReportHTML)
	a.router.Get("/report.md", a.handleReportMarkdown)
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/report", a.handleReportJSON)
		r.Get("/hist/{group}/{variable}", a.handleHist)
		r.Get("/modes/{group}/{variable}", a.handleModes)
		r.Get("/effect/{variable}", a.handleEffect)
	})
}

// ServeHTTP lets the app be mounted or exercised with httptest
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Start serves on addr until ctx is cancelled
func (a *App) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", addr).Info("starting report server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.log.Info("shutting down report server")
		return server.Shutdown(shutdownCtx)
	}
}

func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"elapsed":    time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request served")
	})
}
