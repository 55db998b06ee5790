package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relabs-tech/todoapp/core/api"
	"github.com/relabs-tech/todoapp/core/logger"
)

// ServiceInfo is reported by /public/info
var ServiceInfo = api.Info{
	Service:      "todo-app-service",
	VersionMajor: 1,
	VersionMinor: 0,
	VersionRev:   0,
}

const healthTimeout = 5 * time.Second

func (b *Backend) handleServiceRoutes() {
	logger.Default().Debugln("  handle info route: /public/info GET,POST")
	b.router.HandleFunc("/public/info", func(w http.ResponseWriter, r *http.Request) {
		b.succeed(w, r, ServiceInfo)
	}).Methods(http.MethodOptions, http.MethodGet, http.MethodPost)

	b.handleVersion()

	logger.Default().Debugln("  handle health route: /health GET")
	b.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := b.store.DB().PingContext(ctx); err != nil {
			logger.FromContext(ctx).WithError(err).Errorln("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("unavailable\n"))
			return
		}
		w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	logger.Default().Debugln("  handle metrics route: /metrics GET")
	b.router.Handle("/metrics", promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	b.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Debugln("no route for", r.Method, r.URL.Path)
		writeEnvelope(w, http.StatusNotFound, api.Envelope{Err: api.ErrNotFound})
	})
	b.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusMethodNotAllowed, api.Envelope{Err: api.ErrMethodNotAllowed})
	})
}
