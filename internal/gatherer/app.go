// Package gatherer initializes and runs the sharing-code gatherer service:
// it wires the database, the queue producer, the Steam API client and the
// sync engine together, starts the HTTP surface, and handles graceful
// shutdown.
package gatherer

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	stdsync "sync"
	"syscall"

	"github.com/matchforge/gatherer/internal/gatherer/config"
	"github.com/matchforge/gatherer/internal/gatherer/httpapi"
	"github.com/matchforge/gatherer/internal/gatherer/queue"
	"github.com/matchforge/gatherer/internal/gatherer/repositories/repomanager"
	"github.com/matchforge/gatherer/internal/gatherer/services"
	syncengine "github.com/matchforge/gatherer/internal/gatherer/sync"
	"github.com/matchforge/gatherer/internal/gatherer/valve"
	"github.com/matchforge/gatherer/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	producer *queue.AMQPProducer
	engine   *syncengine.Engine
	server   *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	producer, err := queue.NewAMQPProducer(cfg.AMQPURI, cfg.AMQPQueue, logger)
	if err != nil {
		return nil, fmt.Errorf("queue init error: %w", err)
	}

	apiClient := valve.NewClient(cfg.SteamAPIKey, logger,
		valve.WithRetries(cfg.APIRetryAttempts, cfg.APIRetryBackoff))

	engine := syncengine.NewEngine(db, repos, apiClient, producer, logger)

	us := services.NewUserService(db, repos, apiClient, logger)
	ms := services.NewMaintenanceService(db, repos, producer, logger)

	server := httpapi.NewServer(cfg.EndpointAddrHTTP, us, ms, engine, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		producer: producer,
		engine:   engine,
		server:   server,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting gatherer")

	app.initSignalHandler(cancelFunc)

	var wg stdsync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server failed", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	// Let detached drains finish before dropping connections.
	app.engine.Wait()

	if err := app.producer.Close(); err != nil {
		app.logger.Error(ctx, "closing producer", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err)
	}
}
