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

	"pushup-tracker/internal/config"
	"pushup-tracker/internal/notify"
	"pushup-tracker/internal/repository"
	"pushup-tracker/internal/router"
	"pushup-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("PUSHUP_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	entryRepo := repository.NewEntryRepository(db)

	statsSvc := service.NewStatsService(userRepo, entryRepo)

	notifier, err := notify.NewFromConfig(cfg.Telegram)
	if err != nil {
		log.Printf("telegram disabled: %v", err)
		notifier = notify.Noop()
	}
	activitySvc := service.NewActivityService(userRepo, entryRepo, statsSvc, notifier)

	backupSvc := service.NewBackupService(db, cfg.Database.Path, cfg.Backup)
	if err := backupSvc.Start(); err != nil {
		log.Fatalf("backup: %v", err)
	}
	defer backupSvc.Stop()

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router.Setup(cfg, activitySvc, statsSvc, entryRepo),
	}

	go func() {
		log.Printf("Push-up challenge server running at %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}
