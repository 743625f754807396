package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"abchub/internal/audio"
	"abchub/internal/background"
	"abchub/internal/catalog"
	"abchub/internal/config"
	"abchub/internal/handlers"
	"abchub/internal/logging"
	"abchub/internal/mirror"
	"abchub/internal/repository"
	"abchub/internal/security"
	"abchub/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the record store medium (sqlite, postgres, mysql or memory)
	medium, closeMedium, err := repository.OpenMedium(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeMedium()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}

	store := repository.NewStore(medium, logger)
	remote := mirror.New(cfg.Mirror, logger)

	// Workers outlive the signal context so Close can drain the queue
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	tasks := background.New(cfg.MirrorWorkers, cfg.MirrorQueue, cfg.Mirror.Timeout, logger)
	tasks.Start(workerCtx)

	var mailer service.Mailer
	emailService, err := service.NewEmailService(ctx, cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, logger)
	if err != nil {
		logger.Warn("email service unavailable", zap.Error(err))
	} else {
		mailer = emailService
	}

	speech := audio.NewTTSService(cfg.AudioDir, cfg.TTSURL, logger)
	if cfg.AudioWarm {
		for _, letter := range alphabet() {
			_, _ = tasks.Submit("audio.warm", func(ctx context.Context) error {
				_, err := speech.Warm(ctx, []string{letter})
				return err
			})
		}
	}

	// Initialize services
	profiles := service.NewProfileService(store, remote, tasks, cat, logger)
	router := handlers.NewRouter(handlers.Deps{
		Profiles:    profiles,
		Sessions:    service.NewSessionService(store, remote, tasks, cat, mailer, logger),
		Stories:     service.NewStoryService(store, remote, tasks, profiles, logger),
		Friends:     service.NewFriendService(store, remote, tasks, profiles, mailer, logger),
		Backups:     service.NewBackupService(store, logger),
		Remote:      remote,
		Catalog:     cat,
		Speech:      speech,
		JoinLimiter: security.NewRateLimiter(ctx, cfg.JoinRateLimit, cfg.JoinRateWindow),
		Logger:      logger,
	})

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr), zap.Bool("mirror", cfg.Mirror.Configured()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	// Drain queued mirror calls before the medium closes
	tasks.Close()
	logger.Info("server stopped")
}

// alphabet lists the letter prompts of the alphabet game
func alphabet() []string {
	letters := make([]string, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		letters = append(letters, string(c))
	}
	return letters
}
