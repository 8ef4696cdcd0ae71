package main

import (
	"fmt"
	"os"
	"time"

	"genesis-backend/internal/client"
	"genesis-backend/internal/model"
	"genesis-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	serverURL        string
	backendName      string
	verbose          bool
	handshakeTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Generate and preview landing page components",
	Long: `A command line client for the genesis backend.

Prompts are sent over the realtime channel when the server completes the
handshake in time, and over the HTTP API otherwise. Every component that
comes back is rendered to HTML locally.

Quick Start:
  genesis chat                          # interactive session
  genesis generate "a pricing section"  # one prompt, HTML on stdout
  genesis render hero.tsx               # render a local snippet
  genesis export <session-id>           # dump a stored conversation as YAML`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		return logger.Init(level, "text", nil)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Base URL of the genesis backend")
	rootCmd.PersistentFlags().StringVarP(&backendName, "model", "m", string(model.DeepSeek), `Backend to generate with ("deepseek" or "gemini")`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&handshakeTimeout, "handshake-timeout", client.DefaultHandshakeTimeout, "How long to wait for the realtime channel")

	rootCmd.AddCommand(chatCmd, generateCmd, renderCmd, exportCmd)
}

func newClient() (*client.Client, error) {
	backend, err := model.ParseBackend(backendName)
	if err != nil {
		return nil, err
	}
	return client.New(client.Options{
		BaseURL:          serverURL,
		HandshakeTimeout: handshakeTimeout,
		Backend:          backend,
	}), nil
}
