package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surveyflow/internal/app"
	"surveyflow/internal/config"
)

// @title Surveyflow API
// @version 1.0
// @description Themed survey sessions with conditional questions and saved progress
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	log.Printf("Persistence backend: %s", cfg.PersistenceBackend)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to start:", err)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: a.Router(),
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Host auth: username=%s", cfg.HostUsername)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/catalogs")
		log.Println("  GET  /v1/catalogs/{catalogId}/progress")
		log.Println("  POST /v1/catalogs/{catalogId}/sessions")
		log.Println("  GET  /v1/sessions/{sessionId}")
		log.Println("  PUT  /v1/sessions/{sessionId}/answers/{questionId}")
		log.Println("  POST /v1/sessions/{sessionId}/theme")
		log.Println("  POST /v1/sessions/{sessionId}/advance")
		log.Println("  WS   /v1/ws/sessions/{sessionId}")
		log.Println("  WS   /v1/ws/catalogs/{catalogId}/host")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
