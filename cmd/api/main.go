package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/habitflow/habitflow-engine/internal/adapters/cache"
	adapterHTTP "github.com/habitflow/habitflow-engine/internal/adapters/handler/http"
	"github.com/habitflow/habitflow-engine/internal/adapters/repository"
	"github.com/habitflow/habitflow-engine/internal/core/domain"
	"github.com/habitflow/habitflow-engine/internal/core/services"
	"github.com/habitflow/habitflow-engine/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	_ = godotenv.Load()

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	serverPort := getEnv("PORT", "8080")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	log.Println("Connecting to database...")

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		log.Fatalf("Critical: Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Println("Database connected successfully.")

	habitRepo := repository.NewPostgresHabitRepository(db)
	progressRepo := repository.NewPostgresProgressRepository(db)
	streakRepo := repository.NewPostgresStreakRepository(db)

	rdb, err := cache.NewRedisClient(
		getEnv("REDIS_HOST", "localhost"),
		getEnv("REDIS_PORT", "6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Printf("Redis unavailable, running without cache and rate limiting: %v", err)
		rdb = nil
	}

	var habitPort domain.HabitRepository = habitRepo
	if rdb != nil {
		habitPort = repository.NewCachedHabitRepository(habitRepo, rdb)
	}

	habits := services.NewHabitService(habitPort, streakRepo)

	streakSvc := services.NewStreakService(habitRepo, progressRepo, streakRepo)
	worker := workers.NewStreakWorker(streakSvc)

	progressSvc := services.NewProgressService(progressRepo, habitRepo, worker)
	coachingSvc := services.NewCoachingService(habitRepo, progressRepo, streakRepo)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker.Start(workerCtx)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		HabitHandler:    adapterHTTP.NewHabitHandler(habits),
		ProgressHandler: adapterHTTP.NewProgressHandler(progressSvc),
		StreakHandler:   adapterHTTP.NewStreakHandler(streakSvc),
		CoachingHandler: adapterHTTP.NewCoachingHandler(coachingSvc),
		ExportHandler:   adapterHTTP.NewExportHandler(habits, progressSvc, streakSvc),
		DB:              db,
		Redis:           rdb,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("HabitFlow Engine running on http://localhost:%s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
