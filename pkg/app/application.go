package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tenniscourts/pkg/config"
	apperrors "tenniscourts/pkg/errors"
	httputil "tenniscourts/pkg/http"
	"tenniscourts/pkg/metrics"
	"tenniscourts/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

const MetricsPath = "/metrics"

type Middleware = func(http.Handler) http.Handler

type stopper struct {
	name string
	stop func()
}

type Application struct {
	cfg      *config.Config
	metrics  *metrics.Metrics
	router   *httprouter.Router
	server   *http.Server
	stoppers []stopper
}

// NewApplication creates the router. m may be nil when metrics are disabled.
func NewApplication(cfg *config.Config, m *metrics.Metrics) *Application {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = httputil.WriteError(w, apperrors.NotFound("Route"))
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = httputil.WriteError(w, apperrors.New("METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed))
	})

	a := &Application{
		cfg:     cfg,
		metrics: m,
		router:  router,
	}
	if m != nil {
		router.Handler(http.MethodGet, MetricsPath, m.Handler())
		cfg.Log.Info("Metrics endpoint enabled", "path", MetricsPath)
	}
	return a
}

// Route registers h behind the route's own middlewares, which run inside
// the global stack in the order given.
func (a *Application) Route(method, path string, h httprouter.Handle, mws ...Middleware) {
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(w, r, httprouter.ParamsFromContext(r.Context()))
	})
	chain := append([]Middleware{middleware.Metrics(a.metrics, path)}, mws...)
	a.router.Handler(method, path, middleware.Chain(handler, chain...))
}

// OnShutdown registers a background worker to stop, in registration order,
// once the server has drained.
func (a *Application) OnShutdown(name string, stop func()) {
	a.stoppers = append(a.stoppers, stopper{name: name, stop: stop})
}

// Handler returns the router wrapped in the global middleware stack.
func (a *Application) Handler() http.Handler {
	return middleware.Chain(a.router,
		middleware.Recovery(a.cfg.Log),
		middleware.RequestLogging(a.cfg.Log),
		middleware.CORS(a.cfg.AllowedOrigins),
		middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize)),
		middleware.ContentTypeValidation(a.cfg.Log),
		middleware.RequestTimeout(a.cfg.RequestTimeout),
	)
}

func (a *Application) setAppServer() {
	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      a.Handler(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	a.setAppServer()
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.stopWorkers()
		a.cfg.GracefulShutdown()
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

func (a *Application) stopWorkers() {
	a.cfg.Log.Info("Stopping background workers...")
	for _, s := range a.stoppers {
		s.stop()
		a.cfg.Log.Debug("Worker stopped", "worker", s.name)
	}
	a.cfg.Log.Info("Background workers stopped")
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.stopWorkers()
	a.cfg.GracefulShutdown()
	a.cfg.Log.Info("Server stopped gracefully")
}
