package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/cmlabs-hris/hris-activity-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-activity-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-activity-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-activity-go/internal/repository/postgresql"
	activityService "github.com/cmlabs-hris/hris-activity-go/internal/service/activity"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	clk, err := clock.New(cfg.Slot.Timezone)
	if err != nil {
		return err
	}

	db, err := database.NewPostgreSQLDB(context.Background(), database.PoolConfig{
		DSN:      cfg.DatabaseURL(),
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
		Logger:   logger.With(slog.String("component", "pgx")),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	hub := sse.NewHub()

	activityRepo := postgresql.NewActivityRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	txManager := postgresql.NewTxManager(db)

	activitySvc := activityService.NewActivityService(txManager, activityRepo, employeeRepo, clk, cfg.Slot.WorkWindow, hub)

	scheduler := cron.NewScheduler(logger)
	cron.NewSlotJobs(clk, cfg.Slot.WorkWindow, hub).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Logger: logger, AllowedOrigins: cfg.App.CORSOrigins},
		jwtService,
		appHTTP.NewActivityHandler(activitySvc),
		appHTTP.NewStreamHandler(hub, jwtService),
	)

	// Cancelling the base context on shutdown ends open event streams.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.App.Port),
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running",
			"addr", server.Addr,
			"timezone", clk.Timezone(),
			"work_window", cfg.Slot.WorkWindow.String(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
