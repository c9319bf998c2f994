package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/slotbook/backend/internal/config"
	"github.com/slotbook/backend/internal/database"
	"github.com/slotbook/backend/internal/jobs"
	"github.com/slotbook/backend/internal/routes"
	"github.com/slotbook/backend/internal/services/payment"
	"github.com/slotbook/backend/internal/services/payment/providers/sandbox"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// The sandbox processor approves everything; production swaps in a real
	// gateway behind the same interface
	paymentService := payment.NewPaymentService(db, sandbox.NewSandboxProcessor())

	scheduler := gocron.NewScheduler(time.UTC)
	if err := jobs.NewCommissionSummaryJob(db).Register(scheduler); err != nil {
		log.Fatalf("Failed to register commission summary job: %v", err)
	}
	scheduler.StartAsync()

	router := routes.SetupRouter(cfg, db, paymentService)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
