package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/xyVar/KLDAFinTech/internal/bootstrap"
	"github.com/xyVar/KLDAFinTech/internal/consumer"
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

	tickConsumer := consumer.NewTickConsumer(cfg.FeedKafka, l, app.Usecase.Ingest)

	wg := sync.WaitGroup{}
	wg.Add(3)
	go func() {
		defer wg.Done()
		tickConsumer.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		tickConsumer.Subscribe(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = app.Usecase.Flusher.Run(ctx)
	}()

	l.Info("ingest service started",
		logger.NewField("app", cfg.App.Name),
		logger.NewField("environment", cfg.App.Environment),
		logger.NewField("symbols", len(app.Registry.Symbols())))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down ingest service")
	cancel()
	if err := tickConsumer.Stop(); err != nil {
		l.Error(err, logger.NewField("action", "consumer_stop"))
	}
	wg.Wait()

	stats := app.Usecase.Flusher.Stats()
	l.Info("ingest service stopped",
		logger.NewField("flushed_ticks", stats.FlushedTicks),
		logger.NewField("dropped_ticks", stats.DroppedTicks))
}
