// Copyright (C) 2026 Testforge Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/testforge-ai/testforge/pkg/logging"
	"github.com/testforge-ai/testforge/services/api"
	"github.com/testforge-ai/testforge/services/discovery"
	"github.com/testforge-ai/testforge/services/engine"
	"github.com/testforge-ai/testforge/services/oracle"
	"github.com/testforge-ai/testforge/services/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "testforge",
		Short: "A CLI that generates contract-validated unit tests for Java projects",
		Long: `Testforge scans a Maven project, extracts behavioral facts from its
source, and drives an LLM through a validate-and-repair loop until every
generated test satisfies the project's structural contract.`,
	}

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate validated tests for every eligible source unit",
		Long: `Scans the project (or loads endpoint descriptors), builds the contract
model, and runs the generation loop. Accepted artifacts are written under the
output directory mirroring the source package layout; units that exhaust their
attempts land in quarantine for manual review.`,
		Run: runGenerate,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Print the facts extracted from the project without generating",
		Run:   runAnalyze,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the generation API server",
		Long:  `Serves the generation loop over HTTP. Equivalent to running the testforged binary.`,
		Run:   runServe,
	}

	projectDir    string
	endpointsFile string
	modelName     string
	temperature   float32
	maxAttempts   int
	outDir        string
	quarantineDir string
	skipKinds     []string
	debugMode     bool
	servePort     int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", ".", "Maven project directory (pom.xml is located by walking up)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	generateCmd.Flags().StringVar(&endpointsFile, "endpoints", "", "JSON file of endpoint descriptors (skips source scanning)")
	generateCmd.Flags().StringVar(&modelName, "model", "gpt-4o-mini", "LLM model to use")
	generateCmd.Flags().Float32Var(&temperature, "temperature", 0, "Sampling temperature")
	generateCmd.Flags().IntVar(&maxAttempts, "max-attempts", 3, "Maximum generation attempts per unit")
	generateCmd.Flags().StringVar(&outDir, "out", "generated_tests", "Directory for accepted artifacts")
	generateCmd.Flags().StringVar(&quarantineDir, "quarantine", "quarantine", "Directory for exhausted artifacts")
	generateCmd.Flags().StringSliceVar(&skipKinds, "skip", []string{"model", "service"}, "Component kinds to skip (controller|service|repository|model)")

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&modelName, "model", "gpt-4o-mini", "LLM model to use")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger() *logging.Logger {
	level := logging.LevelInfo
	if debugMode {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{
		Level:   level,
		Service: "testforge",
	})
}

func parseKinds(names []string) []engine.ComponentKind {
	kinds := make([]engine.ComponentKind, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "controller":
			kinds = append(kinds, engine.KindController)
		case "service":
			kinds = append(kinds, engine.KindService)
		case "repository":
			kinds = append(kinds, engine.KindRepository)
		case "model":
			kinds = append(kinds, engine.KindModel)
		default:
			log.Fatalf("Unknown component kind %q (expected controller|service|repository|model)", name)
		}
	}
	return kinds
}

// discoverUnits loads units either from an endpoint descriptor file or by
// scanning the Maven project rooted at (or above) projectDir.
func discoverUnits(logger *logging.Logger) []engine.SourceUnit {
	if endpointsFile != "" {
		descriptors, err := discovery.LoadEndpoints(endpointsFile)
		if err != nil {
			log.Fatalf("Error loading endpoint descriptors: %v", err)
		}
		units := make([]engine.SourceUnit, 0, len(descriptors))
		for _, d := range descriptors {
			units = append(units, d.ToSourceUnit())
		}
		return units
	}

	root, err := discovery.DetectRoot(projectDir)
	if err != nil {
		log.Fatalf("Error locating project root: %v", err)
	}
	scanner := discovery.NewScanner(root, logger.Slog())
	units, err := scanner.Scan()
	if err != nil {
		log.Fatalf("Error scanning project: %v", err)
	}
	return units
}

func runGenerate(cmd *cobra.Command, args []string) {
	logger := newLogger()
	defer logger.Close()

	units := discoverUnits(logger)
	if len(units) == 0 {
		log.Fatal("No source units found; nothing to generate")
	}
	fmt.Printf("Discovered %d source unit(s)\n", len(units))

	client, err := oracle.NewOpenAIClient(modelName, temperature, logger.Slog())
	if err != nil {
		log.Fatalf("Error creating OpenAI client: %v", err)
	}

	cfg := engine.NewConfig(
		engine.WithModel(modelName),
		engine.WithTemperature(temperature),
		engine.WithMaxAttempts(maxAttempts),
		engine.WithSkipKinds(parseKinds(skipKinds)...),
	)

	artifacts := store.NewFileStore(outDir, logger.Slog())
	quarantine := store.NewFileQuarantine(quarantineDir, logger.Slog())

	eng := engine.New(cfg, client, artifacts, quarantine, logger.Slog())
	eng.OnResult = func(result engine.UnitResult) {
		switch result.Outcome {
		case engine.OutcomeAccepted:
			fmt.Printf("  ✓ %s (attempt %d)\n", result.Unit.ID(), result.Final.Index)
		case engine.OutcomeExhausted:
			fmt.Printf("  ✗ %s exhausted after %d attempt(s), quarantined\n", result.Unit.ID(), result.Final.Index)
		case engine.OutcomeAborted:
			fmt.Printf("  ! %s aborted: %v\n", result.Unit.ID(), result.Err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := eng.Run(ctx, units)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	fmt.Printf("\nRun %s complete: %d accepted, %d exhausted, %d failed (of %d)\n",
		summary.RunID, summary.Accepted, summary.Exhausted, summary.Failed, summary.Total())
	fmt.Printf("Accepted artifacts: %s\n", artifacts.Root())
	if summary.Exhausted > 0 {
		fmt.Printf("Quarantined artifacts: %s\n", quarantineDir)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) {
	logger := newLogger()
	defer logger.Close()

	units := discoverUnits(logger)
	fmt.Printf("Discovered %d source unit(s):\n", len(units))
	for _, u := range units {
		fmt.Printf("  %-40s %s\n", u.ID(), u.Kind)
	}

	facts := engine.NewAnalyzer(logger.Slog()).Extract(units)

	fmt.Println("\nExtracted facts:")
	if facts.Collaborator != nil {
		fmt.Printf("  collaborator: %s %s\n", facts.Collaborator.Type, facts.Collaborator.VarName)
	}
	if facts.Guard != nil {
		fmt.Printf("  numeric guard ceiling: %v\n", facts.Guard.Ceiling)
	}
	if facts.Enum != nil {
		fmt.Printf("  enum usage: %s.%s (package %s)\n", facts.Enum.Enum, facts.Enum.Constant, facts.Enum.Package)
	}
	if len(facts.DoubleMembers) > 0 {
		fmt.Printf("  double members: %s\n", strings.Join(facts.DoubleMembers, ", "))
	}
	if len(facts.Entities) > 0 {
		fmt.Printf("  entities: %s\n", strings.Join(facts.Entities, ", "))
	}
	// Map iteration order is random; sort for stable output.
	names := make([]string, 0, len(facts.EnumDecls))
	for name := range facts.EnumDecls {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  enum %s { %s }\n", name, strings.Join(facts.EnumDecls[name], ", "))
	}
	if facts.UsesBigDecimal {
		fmt.Println("  monetary type: BigDecimal")
	}
}

func runServe(cmd *cobra.Command, args []string) {
	logger := newLogger()
	defer logger.Close()

	if debugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := oracle.NewOpenAIClient(modelName, 0, logger.Slog())
	if err != nil {
		log.Fatalf("Error creating OpenAI client: %v", err)
	}

	registry := prometheus.NewRegistry()
	svc := api.NewService(api.DefaultServiceConfig(), client, api.NewMetrics(registry), logger.Slog())
	handlers := api.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	v1 := router.Group("/v1")
	api.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	addr := fmt.Sprintf(":%d", servePort)
	log.Printf("Starting Testforge server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
