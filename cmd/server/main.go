package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"golang.org/x/sync/errgroup"

	"github.com/benbeisheim/legalchess-backend/internal/config"
	"github.com/benbeisheim/legalchess-backend/internal/controller"
	"github.com/benbeisheim/legalchess-backend/internal/service"
	"github.com/benbeisheim/legalchess-backend/internal/storage"
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	log.SetLevel(cfg.LogLevel)

	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer store.Close()

	// Initialize services
	gameManager := service.NewGameManager(store, cfg.Clock)
	gameService := service.NewGameService(gameManager, cfg.MaxPerftDepth)

	app := controller.NewApp(gameService, cfg.AllowOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gameManager.Run(ctx, cfg.MatchInterval)
	})
	g.Go(func() error {
		log.WithField("addr", cfg.Addr).Info("listening")
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return app.ShutdownWithTimeout(cfg.ShutdownDeadline)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("server stopped")
	}
}
