package backend

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/relabs-tech/todoapp/core/access"
	"github.com/relabs-tech/todoapp/core/events"
	"github.com/relabs-tech/todoapp/core/kss"
	"github.com/relabs-tech/todoapp/core/logger"
	"github.com/relabs-tech/todoapp/core/schema"
	"github.com/relabs-tech/todoapp/core/store"
)

//go:embed schemas
var schemasFS embed.FS

const schemaBase = "https://todoapp.relabs.tech/schemas/"

// DefaultNotificationMaxAttempts is the number of attempts to publish a notification
// if the Builder does not specify one
const DefaultNotificationMaxAttempts = 3

// Backend is the todo app REST backend
type Backend struct {
	store     *store.Store
	auth      access.AuthService
	validator *schema.Validator
	outbox    *events.Outbox
	kss       kss.Driver
	router    *mux.Router
	registry  *prometheus.Registry
	metrics   *metrics
	cors      bool
	siteURL   string
}

// Builder is a builder helper for the Backend
type Builder struct {
	// Store is the entity store. This is mandatory.
	Store *store.Store
	// AuthService resolves API keys to users. This is mandatory.
	AuthService access.AuthService
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// KSS stores compiled user code outside of the database. This is optional,
	// without it artifacts are stored in the database.
	KSS kss.Driver
	// Publisher receives change notifications for every created entity. This is
	// optional, without a publisher no notifications are recorded.
	Publisher events.Publisher
	// NotificationMaxAttempts is the number of attempts to publish a notification.
	// Defaults to DefaultNotificationMaxAttempts.
	NotificationMaxAttempts int
	// Registry collects the backend's metrics, which are served on /metrics. This is
	// optional, a new registry is created if it is missing.
	Registry *prometheus.Registry
	// CORS enables CORS headers for browser clients
	CORS bool
	// SiteExternalURL is the origin of the web frontend. With CORS enabled it is
	// the only allowed origin, if it is empty all origins are allowed.
	SiteExternalURL string
}

// New realizes the actual backend. It creates the sql relations (if they
// do not exist) and adds actual routes to router
func New(bb *Builder) *Backend {
	if bb.Store == nil {
		panic("Store is missing")
	}
	if bb.AuthService == nil {
		panic("AuthService is missing")
	}
	if bb.Router == nil {
		panic("Router is missing")
	}

	schemas, err := fs.Sub(schemasFS, "schemas")
	if err != nil {
		panic(err)
	}
	validator, err := schema.NewValidatorFromFS(schemas)
	if err != nil {
		panic(fmt.Errorf("invalid request schemas: %w", err))
	}

	registry := bb.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	maxAttempts := bb.NotificationMaxAttempts
	if maxAttempts == 0 {
		maxAttempts = DefaultNotificationMaxAttempts
	}

	b := &Backend{
		store:     bb.Store,
		auth:      bb.AuthService,
		validator: validator,
		outbox:    events.NewOutbox(bb.Store.DB(), bb.Publisher, maxAttempts, registry),
		kss:       bb.KSS,
		router:    bb.Router,
		registry:  registry,
		metrics:   newMetrics(registry),
		cors:      bb.CORS,
		siteURL:   strings.TrimSuffix(bb.SiteExternalURL, "/"),
	}

	if err := b.Migrate(context.Background()); err != nil {
		panic(fmt.Errorf("cannot migrate database: %w", err))
	}

	b.handleRoutes()
	return b
}

// Migrate creates all tables which do not exist yet
func (b *Backend) Migrate(ctx context.Context) error {
	if err := b.store.Migrate(ctx); err != nil {
		return err
	}
	return b.outbox.Migrate(ctx)
}

// RunNotifications relays change notifications until ctx is done. It
// returns immediately if the backend has no publisher.
func (b *Backend) RunNotifications(ctx context.Context) {
	b.outbox.Run(ctx)
}

// ProcessNotifications publishes all pending notifications
func (b *Backend) ProcessNotifications(ctx context.Context) (int, error) {
	return b.outbox.ProcessNotifications(ctx)
}

// handleRoutes adds all routes and middleware to the router
func (b *Backend) handleRoutes() {
	logger.Default().Debugln("backend: HandleRoutes")

	logger.AddRequestID(b.router)
	b.handleRecovery()
	b.handleMetrics()
	b.handleCompression()
	if b.cors {
		b.handleCORS()
	}

	b.handleGoalRoutes()
	b.handleGoalTemplateRoutes()
	b.handleNamedEntityRoutes()
	b.handleExternalEventRoutes()
	b.handleCodeRoutes()

	b.handleServiceRoutes()
}
