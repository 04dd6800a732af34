package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		_, _ = os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log, err := NewLogger(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	msgs, err := LoadMessages()
	if err != nil {
		log.Fatal("failed to load messages", zap.Error(err))
	}

	storage, err := NewStorage(ctx, cfg.DatabaseURL, cfg.DefaultLanguage, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer storage.Close()

	bot, err := NewBot(cfg, storage, msgs, log)
	if err != nil {
		log.Fatal("failed to create bot", zap.Error(err))
	}

	go startWebServer(cfg.HTTPAddr, log)

	sweeper := NewSweeper(storage, bot, msgs, log)
	go StartScheduler(ctx, sweeper, cfg.SweepInterval, log)

	bot.HandleUpdates(ctx)
}

// startWebServer поднимает служебный HTTP-эндпоинт здоровья
func startWebServer(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	log.Info("starting web server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("web server error", zap.Error(err))
	}
}
