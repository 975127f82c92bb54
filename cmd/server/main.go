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
	"dsa_tracker/internal/api"
	"dsa_tracker/internal/app/service"
	"dsa_tracker/internal/common/security"
	"dsa_tracker/internal/domain/repository"
	"dsa_tracker/internal/platform/cache"
	"dsa_tracker/internal/platform/config"
	"dsa_tracker/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	topicRepo := repository.NewPgTopicRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	progressRepo := repository.NewPgProgressRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	catalogService := service.NewCatalogService(topicRepo, problemRepo, database.DB)
	summaryCache := cache.NewRedisSummaryCache(cache.RDB, config.AppConfig.SummaryCacheTTL)
	progressService := service.NewProgressService(topicRepo, problemRepo, progressRepo, userRepo, summaryCache)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, catalogService, progressService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
