/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the zone engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, then the optional YAML config file
  2. Initialize SQLite store
  3. Create registry, preload the reference zones
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: zones.db)
           Use ":memory:" for in-memory database
  -config  YAML config file; flag values act as defaults it overrides

CONFIG FILE:
  port: 8080
  db: ./data/zones.db
  preload: true

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/zones.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run from a config file
  ./server -config=./server.yaml

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - factory/zones.go: Preloaded reference zones
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meridian/zone-engine/api"
	"github.com/meridian/zone-engine/factory"
	"github.com/meridian/zone-engine/registry"
	"github.com/meridian/zone-engine/store/sqlite"
)

// config is the YAML config file shape. Zero values fall back to the
// corresponding flag.
type config struct {
	Port    int    `yaml:"port"`
	DB      string `yaml:"db"`
	Preload *bool  `yaml:"preload"`
}

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "zones.db", "SQLite database path")
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	preload := true
	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if cfg.Port != 0 {
			*port = cfg.Port
		}
		if cfg.DB != "" {
			*dbPath = cfg.DB
		}
		if cfg.Preload != nil {
			preload = *cfg.Preload
		}
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize registry
	reg := registry.New(store)

	// Preload reference zones
	if preload {
		zones, err := factory.BuildAll()
		if err != nil {
			log.Fatalf("Failed to build reference zones: %v", err)
		}
		for _, z := range zones {
			if err := reg.Register(context.Background(), z); err != nil {
				log.Fatalf("Failed to register zone %s: %v", z.ID(), err)
			}
		}
		log.Printf("Preloaded %d reference zones", len(zones))
	}

	// Create router
	router := api.NewRouter(api.NewHandler(reg))

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func loadConfig(path string) (*config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}
