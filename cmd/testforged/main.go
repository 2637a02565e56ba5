// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command testforged starts a standalone Testforge API server.
//
// Usage:
//
//	go run ./cmd/testforged
//	go run ./cmd/testforged -port 9090
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/testforge/health
//
//	# Generate tests from endpoint descriptors
//	curl -X POST http://localhost:8080/v1/testforge/generate \
//	  -H "Content-Type: application/json" \
//	  -d '{"endpoints": [{"path": "/api/orders", "method": "POST"}]}'
//
//	# Prometheus metrics
//	curl http://localhost:8080/metrics
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/testforge-ai/testforge/pkg/logging"
	"github.com/testforge-ai/testforge/services/api"
	"github.com/testforge-ai/testforge/services/oracle"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	model := flag.String("model", "gpt-4o-mini", "LLM model to use")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	// Set Gin mode
	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	level := logging.LevelInfo
	if *debug {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:   level,
		Service: "testforged",
	})
	defer logger.Close()

	client, err := oracle.NewOpenAIClient(*model, 0, logger.Slog())
	if err != nil {
		log.Fatalf("Failed to create OpenAI client: %v", err)
	}

	registry := prometheus.NewRegistry()
	metrics := api.NewMetrics(registry)

	// Create service with default config
	cfg := api.DefaultServiceConfig()
	svc := api.NewService(cfg, client, metrics, logger.Slog())

	// Create handlers
	handlers := api.NewHandlers(svc)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	if *debug {
		router.Use(gin.Logger())
	}

	// Register routes
	v1 := router.Group("/v1")
	api.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	printBanner(*port)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\nShutting down Testforge server...")
		os.Exit(0)
	}()

	// Start server
	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Starting Testforge server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func printBanner(port int) {
	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                      TESTFORGE API SERVER                         ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Contract-validated LLM test generation over HTTP.                ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/testforge/health              │  ║
║  │                                                             │  ║
║  │ # Generate from endpoint descriptors                        │  ║
║  │ curl -X POST http://localhost:%d/v1/testforge/generate \  │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"endpoints": [...]}'                                 │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── POST /v1/testforge/generate                                  ║
║  ├── GET  /v1/testforge/health, /v1/testforge/ready               ║
║  └── GET  /metrics (Prometheus)                                   ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, port, port)
}
