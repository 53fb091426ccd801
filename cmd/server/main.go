package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"counselhub/internal/auth"
	"counselhub/internal/config"
	"counselhub/internal/db"
	"counselhub/internal/email"
	"counselhub/internal/jobs"
	"counselhub/internal/metrics"
	"counselhub/internal/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	if cfg.SeedDevData {
		if err := database.SeedCounselorCategories(ctx); err != nil {
			log.Fatalf("Failed to seed counselor categories: %v", err)
		}
		log.Println("Counselor categories seeded")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryMinutes)*time.Minute)
	notifier := email.NewNotifier(cfg)
	metrics.Init(database)

	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, tokens, notifier); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// Background rescan of sessions the detector never saw
	sweeper := jobs.NewCrisisSweeper(database, notifier,
		time.Duration(cfg.SweepIntervalMinutes)*time.Minute, cfg.SweepBatchSize)
	go sweeper.Start(ctx)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
