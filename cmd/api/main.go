package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	"github.com/BruksfildServices01/service-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/service-scheduler/internal/db"
	domainQueue "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/infra/redisstore"
	infraRepo "github.com/BruksfildServices01/service-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/service-scheduler/internal/routes"
	"github.com/BruksfildServices01/service-scheduler/internal/telemetry"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
	"github.com/BruksfildServices01/service-scheduler/internal/usecase/maintenance"
)

const serviceName = "service-scheduler"

func main() {
	cfg := config.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, serviceName, cfg, log)

	// ======================================================
	// INFRA
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return err
	}

	rdb, err := redisstore.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var counter domainQueue.Counter
	switch cfg.QueueCounter {
	case config.CounterPostgres:
		counter = infraRepo.NewPostgresCounter(db)
	default:
		counter = redisstore.NewCounter(rdb)
	}
	log.Info("queue counter", slog.String("backend", cfg.QueueCounter))

	dispatcher := audit.NewDispatcher(audit.New(db), log)

	// ======================================================
	// MAINTENANCE
	// ======================================================
	runner := maintenance.NewRunner(redisstore.NewLocker(rdb), log)
	if cfg.CronEnabled {
		if err := registerJobs(runner, db, rdb, cfg, log); err != nil {
			return err
		}
		runner.Start()
	}

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:      db,
		Redis:   rdb,
		Config:  cfg,
		Log:     log,
		Audit:   dispatcher,
		Counter: counter,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      otelhttp.NewHandler(r, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	// ======================================================
	// SHUTDOWN
	// ======================================================
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", slog.Any("error", err))
	}
	runner.Stop(shutdownCtx)
	dispatcher.Close(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown", slog.Any("error", err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

func registerJobs(
	runner *maintenance.Runner,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *slog.Logger,
) error {

	outbox := infraRepo.NewOutboxGormRepository(db)

	purge := maintenance.NewPurgeTickets(
		infraRepo.NewTicketGormRepository(db),
		outbox,
		cfg.TicketRetentionDays,
		timezone.Location(cfg.OperationalTZ),
		time.Now,
		log,
	)
	stale := maintenance.NewStaleDesks(infraRepo.NewDeskGormRepository(db), cfg.DeskStaleAfter, time.Now, log)
	relay := maintenance.NewOutboxRelay(outbox, redisstore.NewPublisher(rdb), time.Now, log)

	jobs := []struct {
		spec string
		name string
		ttl  time.Duration
		job  maintenance.Job
	}{
		{"0 15 3 * * *", "purge_tickets", 10 * time.Minute, purge},
		{"0 */10 * * * *", "stale_desks", 5 * time.Minute, stale},
		{"*/2 * * * * *", "outbox_relay", 30 * time.Second, relay},
	}
	for _, j := range jobs {
		if err := runner.Add(j.spec, j.name, j.ttl, j.job); err != nil {
			return err
		}
	}
	return nil
}
