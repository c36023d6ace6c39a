package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mau.fi/whatsmeow/types/events"

	"papelariabot/internal/config"
	"papelariabot/internal/infrastructure"
	httpiface "papelariabot/internal/interfaces/http"
	"papelariabot/internal/usecases"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using process environment")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("refusing to start misconfigured", "err", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Error("invalid shop timezone", "tz", cfg.TimeZone, "err", err)
		os.Exit(1)
	}

	catalog, err := usecases.LoadCatalogCSV(cfg.CatalogPath, cfg.DefaultLeadTime)
	if err != nil {
		log.Error("invalid service catalog", "path", cfg.CatalogPath, "err", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error("cannot create data dir", "dir", cfg.DataDir, "err", err)
		os.Exit(1)
	}

	waClient, err := infrastructure.NewWhatsAppClient(filepath.Join(cfg.DataDir, "device.db"), log)
	if err != nil {
		log.Error("failed to initialize whatsapp client", "err", err)
		os.Exit(1)
	}

	uploads, err := infrastructure.NewUploadStore(cfg.UploadDir, filepath.Join(cfg.DataDir, "uploads.db"), log)
	if err != nil {
		log.Error("failed to initialize upload store", "err", err)
		os.Exit(1)
	}
	defer uploads.Close()

	access := usecases.NewAccessFilter(cfg.BlockedSenders)
	sessions := infrastructure.NewSessionStore(cfg.SessionTTL)
	responder := infrastructure.NewInferenceClient(cfg.InferenceURL, cfg.InferenceToken, cfg.InferenceTimeout, log)
	scheduler := infrastructure.NewNotificationScheduler(waClient.SendText, func(senderID string) bool {
		return !access.Blocked(senderID)
	}, log)

	engine := usecases.NewDispatchEngine(usecases.EngineDeps{
		Messenger: waClient,
		Responder: responder,
		Uploader:  uploads,
		Notifier:  scheduler,
		Sessions:  sessions,
		Access:    access,
		Catalog:   catalog,
		Log:       log,
	}, loc, cfg.TypingDelay, cfg.DefaultLeadTime)

	waClient.AddHandler(func(evt interface{}) {
		if v, ok := evt.(*events.Message); ok {
			engine.HandleMessage(waClient.ParseMessage(v))
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go scheduler.Run(ctx)
	go sessions.Run(ctx.Done(), 30*time.Minute)

	if err := waClient.Connect(); err != nil {
		log.Error("whatsapp connect failed", "err", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	httpiface.SetupRoutes(r, waClient)
	srv := &http.Server{Addr: "0.0.0.0:" + cfg.Port, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			os.Exit(1)
		}
	}()

	log.Info("papelariabot started", "port", cfg.Port, "services", catalog.Size())

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
	waClient.Disconnect()
}
