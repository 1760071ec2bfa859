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

	"github.com/draftloom/orchestrator/config"
	"github.com/draftloom/orchestrator/internal/agent"
	"github.com/draftloom/orchestrator/internal/blackboard"
	"github.com/draftloom/orchestrator/internal/events"
	"github.com/draftloom/orchestrator/internal/service"
	transport "github.com/draftloom/orchestrator/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting orchestrator...")
	log.Printf("External HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Internal HTTP Port: %d", cfg.InternalPort)

	// Backend selection happens once, here. Callers see the same Store
	// interface either way.
	var store blackboard.Store
	if cfg.DatabaseURL != "" {
		log.Printf("Store: sqlite (%s)", cfg.DatabaseURL)
		s, err := blackboard.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		store = s
	} else {
		log.Printf("Store: ephemeral in-memory")
		store = blackboard.NewMemoryStore()
	}
	defer store.Close()

	// Initialize the safety gate policy
	ctx := context.Background()
	safety, err := agent.NewSafety(ctx, agent.DefaultGoalPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize safety policy: %v", err)
	}

	planner := agent.NewPlanner(cfg.PlannerCostUsd, cfg.PlanTTLSeconds)
	bus := events.NewBus()

	svc := service.New(store, bus, []agent.Capability{safety, planner}, cfg)

	externalServer := transport.NewExternalServer(svc, cfg)
	internalServer := transport.NewInternalServer(svc, cfg)

	// Start external server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := externalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start external server: %v", err)
		}
	}()

	// Start internal server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.InternalPort)
		if err := internalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start internal server: %v", err)
		}
	}()

	log.Printf("External API started on port %d", cfg.HTTPPort)
	log.Printf("Internal API started on port %d", cfg.InternalPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down orchestrator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := externalServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown external server gracefully: %v", err)
	}
	if err := internalServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown internal server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
