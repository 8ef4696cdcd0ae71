package main

import (
	"context"
	"flag"
	"log"
	"os"

	"genesis-backend/internal/config"
	"genesis-backend/internal/generator"
	"genesis-backend/internal/render"
	"genesis-backend/internal/sandbox"
	"genesis-backend/internal/tools"
	"genesis-backend/pkg/logger"

	"github.com/mark3labs/mcp-go/server"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// stdout carries the protocol
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, nil); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	logger.SetOutput(os.Stderr)

	// Without credentials the server still compiles and renders.
	var gen tools.Generator
	if err := cfg.Validate(); err != nil {
		logger.Warnf("Generation disabled: %v", err)
	} else if g, err := generator.New(context.Background(), cfg); err != nil {
		logger.Warnf("Generation disabled: %v", err)
	} else {
		gen = g
	}

	pipeline := render.NewPipeline(sandbox.NewExecutor(cfg.Sandbox.Timeout))

	s := server.NewMCPServer(
		"Genesis Component Server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	tools.NewToolset(gen, pipeline).Register(s)

	if err := server.ServeStdio(s); err != nil {
		logger.Fatalf("MCP server error: %v", err)
	}
}
