package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbolis/quick-form/app"
	"github.com/mbolis/quick-form/builder"
	"github.com/mbolis/quick-form/config"
	"github.com/mbolis/quick-form/httpx"
	"github.com/mbolis/quick-form/i18n"
	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/routes"
	"github.com/mbolis/quick-form/storage"
	"github.com/mbolis/quick-form/store"
	"github.com/mbolis/quick-form/view"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, err := storage.Open(ctx, cfg.Storage, storage.Options{
		MongoDatabase: cfg.MongoDatabase,
		RedisPrefix:   cfg.RedisPrefix,
	})
	if err != nil {
		log.Fatal("main.storage.open:", err)
	}

	forms, err := store.Open(ctx, blobs)
	if err != nil {
		blobs.Close()
		log.Fatal("main.store.open:", err)
	}
	defer forms.Close()

	localizer, err := i18n.New(cfg.Lang)
	if err != nil {
		log.Fatal("main.i18n:", err)
	}
	renderer, err := view.NewRenderer(localizer)
	if err != nil {
		log.Fatal("main.view:", err)
	}

	sessions := builder.NewRegistry(forms, cfg.SessionTTL)
	defer sessions.Close()

	app := app.App{
		Store:        forms,
		Sessions:     sessions,
		Renderer:     renderer,
		BearerServer: httpx.NewBearerServer(cfg),
		Config:       cfg,
	}

	handler := routes.Wire(app)

	err = runServer(ctx, cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Error("main.server:", err)
	}
}

func runServer(ctx context.Context, cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("main.server.shutdown: %s", err)
		}
	}()

	log.Infof("Listening on %s (public address %s)", cfg.Url(), cfg.PublicURL())
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-idle
	}
	return err
}
