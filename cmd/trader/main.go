package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/xyVar/KLDAFinTech/internal/bootstrap"
	"github.com/xyVar/KLDAFinTech/pkg/config"
	"github.com/xyVar/KLDAFinTech/pkg/logger"
	"github.com/xyVar/KLDAFinTech/pkg/questdb"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer l.Sync()

	questdbClient, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		l.Error(err, logger.NewField("action", "questdb_connect"))
		os.Exit(1)
	}
	defer questdbClient.Close()

	if err := questdbClient.Ping(ctx); err != nil {
		l.Error(err, logger.NewField("action", "questdb_ping"))
		os.Exit(1)
	}

	b := &bootstrap.Bootstrap{}
	app, err := b.Init(bootstrap.BootstrapConfig{
		QuestDB: questdbClient,
		Logger:  l,
		Config:  cfg,
	})
	if err != nil {
		l.Error(err, logger.NewField("action", "bootstrap"))
		os.Exit(1)
	}

	if err := app.Usecase.Trading.LoadOpenPositions(ctx); err != nil {
		l.Error(err, logger.NewField("action", "load_open_positions"))
		os.Exit(1)
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = app.Usecase.Trading.Run(ctx)
	}()

	l.Info("trader started",
		logger.NewField("app", cfg.App.Name),
		logger.NewField("environment", cfg.App.Environment),
		logger.NewField("initial_capital", cfg.Trading.InitialCapital),
		logger.NewField("max_positions", cfg.Trading.MaxPositions))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down trader")
	cancel()
	wg.Wait()

	state := app.Usecase.Trading.AccountState()
	l.Info("trader stopped",
		logger.NewField("balance", state.Balance),
		logger.NewField("realized_pnl", state.RealizedPnL),
		logger.NewField("open_positions", state.OpenPositions),
		logger.NewField("closed_positions", state.ClosedPositions),
		logger.NewField("win_rate", state.WinRate))
}
