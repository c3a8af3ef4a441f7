package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/eckslots/internal/buildinfo"
	"github.com/xelth-com/eckslots/internal/config"
	"github.com/xelth-com/eckslots/internal/handlers"
	"github.com/xelth-com/eckslots/internal/inventory"
	"github.com/xelth-com/eckslots/internal/services/printer"
	"github.com/xelth-com/eckslots/internal/storage"
	"github.com/xelth-com/eckslots/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("📦 %s", buildinfo.Get().String())

	// 2. Open the storage backend and load the inventory
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	svc, backend, err := storage.OpenService(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Backend, err)
	}

	// 3. Live updates for lane map screens
	hub := websocket.NewHub()
	go hub.Run(ctx)
	svc.OnChange(func(ev inventory.Event) {
		if err := hub.Publish(ev.Lane, ev); err != nil {
			log.Printf("⚠️ WebSocket: failed to publish %s: %v", ev.Operation, err)
		}
	})

	// 4. Set up HTTP router
	labels := printer.DefaultLabelConfig()
	labels.InstanceSuffix = cfg.Labels.InstanceSuffix
	router := handlers.NewRouter(svc, handlers.Options{
		Hub:        hub,
		Labels:     labels,
		Backend:    backend.Name,
		InstanceID: cfg.InstanceID,
	})

	// 5. Start server with graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("🚀 Server (%s, %s storage) starting on port %s\n", cfg.NodeEnv, backend.Name, cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := <-shutdown
	log.Printf("⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	stop()

	// Close storage (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing storage backend...")
	if err := backend.Close(); err != nil {
		log.Printf("Storage close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
