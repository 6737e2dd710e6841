package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/audit"
	httpapi "github.com/aussiebroadwan/verity/internal/kyc/http"
	"github.com/aussiebroadwan/verity/internal/kyc/lock"
	"github.com/aussiebroadwan/verity/internal/kyc/metrics"
	"github.com/aussiebroadwan/verity/internal/kyc/service"
	"github.com/aussiebroadwan/verity/internal/kyc/store/drivers/sqlite"
	"github.com/aussiebroadwan/verity/pkg/cryptox"
	"github.com/aussiebroadwan/verity/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application wires the KYC service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       *sqlite.Store
	rdb      *redis.Client // nil without REDIS_URL
	locker   lock.Locker
	audit    audit.Publisher
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	sessionService      *service.SessionService
	invitationService   *service.InvitationService
	housekeepingService *service.HousekeepingService

	shutdownTracing func(context.Context) error

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialised.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}
	ctx := context.Background()

	shutdownTracing, err := InitTracing(ctx, cfg.OTelEndpoint, BuildVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.shutdownTracing = shutdownTracing

	secret, err := cryptox.LoadOrGenerateSecret(cfg.SecretFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server secret: %w", err)
	}

	if err := app.initDatabase(secret); err != nil {
		return nil, err
	}
	if err := app.initInfrastructure(ctx); err != nil {
		app.closeAll()
		return nil, err
	}
	if err := app.initServices(secret); err != nil {
		app.closeAll()
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		app.closeAll()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("kyc service starting", "addr", app.cfg.Addr, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			app.closeAll()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, then releases every backing resource.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down kyc service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.shutdownTracing(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if err := app.closeAll(); err != nil {
		return err
	}

	app.logger.Info("kyc service stopped")
	return nil
}

// closeAll releases the audit sink, redis and the database. Only the
// database error is returned.
func (app *Application) closeAll() error {
	if app.audit != nil {
		if err := app.audit.Close(); err != nil {
			app.logger.Error("error closing audit publisher", "error", err)
		}
	}
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the store with at-rest sealing and applies migrations.
func (app *Application) initDatabase(secret []byte) error {
	key, err := cryptox.DeriveKey(secret, "verity/seal", 32)
	if err != nil {
		return fmt.Errorf("failed to derive sealing key: %w", err)
	}
	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return fmt.Errorf("failed to create sealer: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn, sqlite.WithSealer(sealer))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initInfrastructure picks the lock backend, the audit sink and the metrics
// registry. Redis and Kafka are optional; without them a single replica uses
// in-process locks and logs its audit trail.
func (app *Application) initInfrastructure(ctx context.Context) error {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)

	if app.cfg.RedisURL != "" {
		opts, err := redis.ParseURL(app.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		app.rdb = redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := app.rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("failed to reach redis: %w", err)
		}
		app.locker = lock.NewRedis(app.rdb, app.cfg.LockTTL)
		app.logger.Info("session locks backed by redis")
	} else {
		app.locker = lock.NewLocal()
		app.logger.Info("session locks are in-process, run a single replica")
	}

	if len(app.cfg.KafkaBrokers) > 0 {
		pub, err := audit.NewKafkaPublisher(app.cfg.KafkaBrokers, app.cfg.KafkaAuditTopic)
		if err != nil {
			return err
		}
		app.audit = pub
		app.logger.Info("audit events published to kafka", "topic", app.cfg.KafkaAuditTopic)
	} else {
		app.audit = audit.NewLogPublisher(app.logger)
	}

	return nil
}

func (app *Application) initServices(secret []byte) error {
	providers, err := InitProviders(app.cfg, app.db, secret, app.metrics, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}

	app.invitationService = &service.InvitationService{
		Store:   app.db,
		Audit:   app.audit,
		Metrics: app.metrics,
		TTL:     app.cfg.InvitationTTL,
	}
	app.sessionService = &service.SessionService{
		Store:       app.db,
		Providers:   providers,
		Invitations: app.invitationService,
		Locker:      app.locker,
		Policy: service.StaticPolicy{
			GPSRequired:     app.cfg.RequireGPS,
			GPSOptionalOrgs: app.cfg.GPSOptionalOrgs,
		},
		Audit:        app.audit,
		Metrics:      app.metrics,
		AutoDecision: app.cfg.AutoDecision,
		PhoneRegion:  app.cfg.PhoneRegion,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

func (app *Application) initHTTP() error {
	keys, verifier, err := InitOrgKeys(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize organization keys: %w", err)
	}

	router := httpapi.NewRouter(keys, verifier, BuildVersion, app.db, app.logger)
	router.SessionService = app.sessionService
	router.InvitationService = app.invitationService
	router.PublicBaseURL = app.cfg.PublicBaseURL
	router.MetricsHandler = promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{Registry: app.registry})

	if app.rdb != nil {
		router.ReadinessChecks.Lock = func(ctx context.Context) error {
			return app.rdb.Ping(ctx).Err()
		}
	}
	if kp, ok := app.audit.(*audit.KafkaPublisher); ok {
		router.ReadinessChecks.Audit = kp.Ping
	}

	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
