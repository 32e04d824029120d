package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kevintang/slate-gateway/internal/config"
	"github.com/kevintang/slate-gateway/internal/handler"
	"github.com/kevintang/slate-gateway/internal/service/backend"
	"github.com/kevintang/slate-gateway/internal/service/chat"
	"github.com/kevintang/slate-gateway/internal/service/place"
	"github.com/kevintang/slate-gateway/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	backendClient := backend.NewClient(cfg.Backend)
	log.Printf("chat backend: %s", backendClient.BaseURL())

	var speechSvc *speech.Service
	var synth chat.Synthesizer
	if cfg.Speech.Enabled {
		speechSvc = speech.NewService(cfg.Speech)
		synth = speechSvc
		log.Println("speech service initialized successfully")
	} else {
		log.Println("speech credentials not configured, replies will be text-only")
	}

	registry := chat.NewRegistry(backendClient, synth, cfg.Chat.BotSenderLabel)
	placeSvc := place.NewService(cfg.Backend, registry)

	router := handler.NewRouter(registry, placeSvc, speechSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Slate gateway listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
