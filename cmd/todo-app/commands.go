package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/todoapp/core/access"
	"github.com/relabs-tech/todoapp/core/backend"
	"github.com/relabs-tech/todoapp/core/events"
	"github.com/relabs-tech/todoapp/core/kss"
	"github.com/relabs-tech/todoapp/core/logger"
	"github.com/relabs-tech/todoapp/core/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the API until SIGINT or SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return service.serve(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create all tables which do not exist yet and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.migrate(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), backend.Version)
	},
}

func (s *Service) serve(ctx context.Context) error {
	rlog := logger.Default()

	if s.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required")
	}

	db, err := s.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var auth access.AuthService = access.NewHTTPAuthService(s.AuthServiceURL)
	if s.AuthCacheTTL > 0 {
		auth = access.NewUserCache(auth, s.AuthCacheTTL)
	}

	var publisher events.Publisher
	if brokers := s.kafkaBrokers(); len(brokers) > 0 {
		kafka := events.NewKafkaPublisher(brokers, s.KafkaTopic)
		defer kafka.Close()
		publisher = kafka
		rlog.Infoln("publish notifications to kafka topic", s.KafkaTopic)
	}

	kssDriver, err := kss.New(ctx, s.kssConfiguration())
	if err != nil {
		return fmt.Errorf("cannot create kss driver: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.DB, "todoapp"),
	)

	router := mux.NewRouter()
	b := backend.New(&backend.Builder{
		Store:                   store.New(db),
		AuthService:             auth,
		Router:                  router,
		KSS:                     kssDriver,
		Publisher:               publisher,
		NotificationMaxAttempts: s.NotificationMaxAttempts,
		Registry:                registry,
		CORS:                    s.CORS,
		SiteExternalURL:         s.SiteExternalURL,
	})

	go b.RunNotifications(ctx)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(s.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		rlog.Infoln("listen on port", s.Port, "version", backend.Version)
		errs <- server.ListenAndServe()
	}()

	select {
	case err = <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	rlog.Infoln("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Service) migrate(ctx context.Context) error {
	db, err := s.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = store.New(db).Migrate(ctx); err != nil {
		return err
	}
	if err = events.NewOutbox(db, nil, 1, nil).Migrate(ctx); err != nil {
		return err
	}
	logger.Default().Infoln("database is up to date")
	return nil
}
