package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/aleph-zero/tinysql/api"
	"github.com/aleph-zero/tinysql/engine"
	"github.com/aleph-zero/tinysql/service/metastore"
	"github.com/aleph-zero/tinysql/service/query"
	"github.com/aleph-zero/tinysql/service/storage"
	"github.com/aleph-zero/tinysql/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/riandyrn/otelchi"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	serviceName    = "tinysql"
	serviceVersion = "0.0.1"
)

/* *** Server Config *** */

type Config struct {
	Address           string
	Port              uint16
	MetastoreConfig   *metastore.Config
	StorageConfig     *storage.Config
	LogConfig         telemetry.LogConfig
	TelemetryEndpoint string
}

type Option func(*Config)

func NewConfig(options ...Option) *Config {
	cfg := &Config{
		MetastoreConfig: metastore.NewConfig(),
		StorageConfig:   storage.NewConfig(),
	}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func WithAddress(address string) Option {
	return func(c *Config) {
		c.Address = address
	}
}

func WithPort(port uint16) Option {
	return func(c *Config) {
		c.Port = port
	}
}

func WithMetastoreConfig(metastoreConfig *metastore.Config) Option {
	return func(c *Config) {
		c.MetastoreConfig = metastoreConfig
	}
}

func WithStorageConfig(storageConfig *storage.Config) Option {
	return func(c *Config) {
		c.StorageConfig = storageConfig
	}
}

func WithLogConfig(logConfig telemetry.LogConfig) Option {
	return func(c *Config) {
		c.LogConfig = logConfig
	}
}

func WithTelemetryEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.TelemetryEndpoint = endpoint
	}
}

func Bootstrap(config *Config) error {
	ctx := context.Background()
	logger := telemetry.NewLogger(serviceName, config.LogConfig)
	logger.InfoContext(ctx, "Bootstrapping server...", "address", config.Address, "port", config.Port)

	/* *** Initialize Opentelemetry *** */
	shutdown, err := telemetry.New(serviceName, serviceVersion, config.TelemetryEndpoint)
	if err != nil {
		logger.ErrorContext(ctx, "Error initializing telemetry", "err", err)
		shutdown = func() {}
	}
	defer shutdown()

	/* *** Initialize services *** */
	metaSvc := metastore.NewService(config.MetastoreConfig)
	if err := metaSvc.Open(); err != nil {
		logger.ErrorContext(ctx, "Error opening metastore", "err", err)
		return err
	}

	storageSvc, err := storage.NewService(config.StorageConfig)
	if err != nil {
		logger.ErrorContext(ctx, "Error creating storage service", "err", err)
		return err
	}

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Address, config.Port),
		Handler: NewRouter(logger, metaSvc, storageSvc, query.NewService(metaSvc, storageSvc)),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "Error starting server", "err", err)
		}
		logger.InfoContext(ctx, "Server stopped accepting connections")
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-sig

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorContext(ctx, "Error shutting down server", "err", err)
		return err
	}
	logger.InfoContext(ctx, "Server shutdown complete")
	return nil
}

// NewRouter wires the API handlers behind the logging and tracing middleware.
func NewRouter(logger *httplog.Logger, metaSvc metastore.Service, storageSvc storage.Service, querySvc query.Service) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Heartbeat("/heartbeat"))
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))
	router.Use(middleware.RequestID)
	router.Use(render.SetContentType(render.ContentTypeJSON))
	router.Use(httplog.RequestLogger(logger))
	router.Use(contextLogger(logger))

	{
		handler := api.NewQueryHandler(querySvc)
		router.Get("/sql", handler.Query)
	}
	{
		handler := api.NewCatalogHandler(metaSvc, storageSvc)
		router.Route("/catalog", func(r chi.Router) {
			r.Get("/", handler.List)
			r.Put("/table", handler.Create)
			r.Get("/{table}/{column}", handler.Column)
		})
	}
	return router
}

// contextLogger hands the server logger to the engine, tagged with the request id.
func contextLogger(logger *httplog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.Logger.With("requestId", middleware.GetReqID(r.Context()))
			next.ServeHTTP(w, r.WithContext(engine.WithLogger(r.Context(), l)))
		})
	}
}
