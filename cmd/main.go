package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senyabanana/rentr-service/internal/db"
	"github.com/senyabanana/rentr-service/internal/events"
	"github.com/senyabanana/rentr-service/internal/handlers"
	"github.com/senyabanana/rentr-service/internal/logger"
	"github.com/senyabanana/rentr-service/internal/metrics"
	"github.com/senyabanana/rentr-service/internal/middleware"
	"github.com/senyabanana/rentr-service/internal/repository"
	"github.com/senyabanana/rentr-service/internal/router"
	"github.com/senyabanana/rentr-service/internal/router/config"
	"github.com/senyabanana/rentr-service/internal/seed"
	"github.com/senyabanana/rentr-service/internal/services"
	"github.com/senyabanana/rentr-service/internal/utils"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	appLogger := logger.New(cfg.LogLevel)
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// storage - выбранные хранилища и функция освобождения их ресурсов.
type storage struct {
	jobs        repository.JobRepository
	contractors repository.ContractorRepository
	close       func()
}

func run(ctx context.Context, cfg config.Config, appLogger *slog.Logger) error {
	store, err := openStorage(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer store.close()

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		publisher = amqpPublisher
		appLogger.Info("publishing job events", "exchange", cfg.AMQPExchange)
	}
	defer publisher.Close()

	m := metrics.New()

	jobService := services.NewJobService(store.jobs, store.contractors,
		services.WithPublisher(publisher),
		services.WithMetrics(m),
		services.WithLogger(appLogger),
		services.WithPolicy(services.Policy{
			EditOpenOnly:       cfg.EditPolicy == config.PolicyOpenOnly,
			DeleteOpenOnly:     cfg.DeletePolicy == config.PolicyOpenOnly,
			UniqueApplications: cfg.UniqueApplications,
		}),
	)
	contractorService := services.NewContractorService(store.contractors)

	if cfg.SeedDemoData {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if err := seed.Run(ctx, jobService, store.contractors, rng, appLogger); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	jobHandler := handlers.NewJobHandler(jobService, appLogger, cfg.RequestTimeout)
	contractorHandler := handlers.NewContractorHandler(contractorService, appLogger, cfg.RequestTimeout)

	trustedProxies, err := utils.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	routes := router.InitRoutes(jobHandler, contractorHandler, m,
		middleware.Recover(appLogger),
		middleware.RequestID(),
		middleware.Logging(appLogger, m),
		middleware.CORS(cfg.CORSOrigins),
		middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, middleware.WithTrustedProxies(trustedProxies)).Middleware(),
	)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           routes,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLogger.Info("server is listening", "address", cfg.ServerAddress, "storage", cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		appLogger.Info("shutting down server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStorage(ctx context.Context, cfg config.Config, appLogger *slog.Logger) (*storage, error) {
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		if err := runDBMigration(cfg.MigrationURL, cfg.PostgresConn, appLogger); err != nil {
			return nil, err
		}
		dbPool, err := db.InitDb(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		return &storage{
			jobs:        repository.NewPostgresJobRepository(dbPool),
			contractors: repository.NewPostgresContractorRepository(dbPool),
			close:       dbPool.Close,
		}, nil

	case config.BackendRedis:
		client, err := db.InitRedis(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("error initializing redis: %w", err)
		}
		return &storage{
			jobs:        repository.NewRedisJobRepository(client),
			contractors: repository.NewMemoryContractorRepository(),
			close:       func() { _ = client.Close() },
		}, nil

	default:
		return &storage{
			jobs:        repository.NewMemoryJobRepository(),
			contractors: repository.NewMemoryContractorRepository(),
			close:       func() {},
		}, nil
	}
}

func runDBMigration(migrationURL string, dbSource string, appLogger *slog.Logger) error {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		return fmt.Errorf("cannot create a new migrate instance: %w", err)
	}
	defer migration.Close()

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}
	appLogger.Info("db migrated successfully")
	return nil
}
