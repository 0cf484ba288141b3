package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmanzanog/stockbook/internal/application"
	"github.com/jmanzanog/stockbook/internal/domain"
	"github.com/jmanzanog/stockbook/internal/infrastructure/config"
	"github.com/jmanzanog/stockbook/internal/infrastructure/marketdata"
	"github.com/jmanzanog/stockbook/internal/infrastructure/marketdata/yfinance"
	"github.com/jmanzanog/stockbook/internal/infrastructure/persistence/sqldb"
	httpHandler "github.com/jmanzanog/stockbook/internal/interfaces/http"
	"github.com/joho/godotenv"
)

// setupLogger configures and returns a structured logger with source information
func setupLogger(level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLevel(level),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initializeDatabase opens the configured database, checks it is reachable and runs migrations
func initializeDatabase(cfg *config.Config) (*sqldb.DB, error) {
	db, err := sqldb.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// createQuoteProvider returns nil when no market data service is configured
func createQuoteProvider(cfg *config.Config) marketdata.QuoteProvider {
	if !cfg.MonitorEnabled() {
		return nil
	}
	return yfinance.NewClientWithBaseURL(cfg.MarketData.URL)
}

func newServices(newUnitOfWork domain.UnitOfWorkFactory, quotes marketdata.QuoteProvider) httpHandler.Services {
	return httpHandler.Services{
		Stocks:       application.NewStockService(newUnitOfWork, domain.NewSectorIndustryCatalog()),
		Portfolios:   application.NewPortfolioService(newUnitOfWork),
		Transactions: application.NewTransactionService(newUnitOfWork),
		Targets:      application.NewTargetService(newUnitOfWork),
		Balances:     application.NewBalanceService(newUnitOfWork),
		Journal:      application.NewJournalService(newUnitOfWork),
		Quotes:       quotes,
	}
}

// buildServer creates and configures the HTTP server with all routes and handlers
func buildServer(cfg *config.Config, services httpHandler.Services) *http.Server {
	router := gin.Default()
	handler := httpHandler.NewHandler(services)
	httpHandler.SetupRoutes(router, handler)

	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// App wraps the application components for easier testing
type App struct {
	Server        *http.Server
	Monitor       *application.TargetMonitor
	DB            *sqldb.DB
	CancelContext context.CancelFunc
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if a.Monitor != nil {
		a.Monitor.Stop()
	}
	a.CancelContext()

	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close error: %w", err))
		}
	}
	return errors.Join(errs...)
}

// run contains the main application logic without os.Exit calls
func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(cfg.Log.Level)

	db, err := initializeDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database initialization failed: %w", err)
	}
	slog.Info("Database ready", "driver", cfg.Database.Driver)

	quotes := createQuoteProvider(cfg)
	services := newServices(db.NewUnitOfWork, quotes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := &App{
		Server:        buildServer(cfg, services),
		DB:            db,
		CancelContext: cancel,
	}

	if quotes != nil {
		app.Monitor = application.NewTargetMonitor(services.Targets, quotes, cfg.MarketData.TargetCheckInterval)
		go app.Monitor.Start(ctx)
	} else {
		slog.Info("Target monitor disabled, MARKET_DATA_URL is not set")
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", app.Server.Addr)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		_ = db.Close()
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
