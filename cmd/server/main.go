package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gyazo-mcp-server/internal/config"
	"gyazo-mcp-server/internal/gyazo"
	"gyazo-mcp-server/internal/mcp"
	"gyazo-mcp-server/internal/tools"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Stdout carries the protocol; all logging goes to stderr.
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	client := gyazo.NewClient(cfg.APIBaseURL, cfg.UploadBaseURL, cfg.AccessToken, logger)
	handler := tools.NewHandler(client, cfg.TimeoutSec, logger)

	logger.Info("Starting Gyazo MCP server on stdio")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := mcp.NewStdioServer(os.Stdin, os.Stdout, logger)
	server.Start(ctx)

	go func() {
		for request := range server.ReadChannel() {
			response := handler.HandleRequest(request)
			// Notifications produce no response.
			if response != nil {
				server.WriteChannel() <- *response
			}
		}
		server.Close()
	}()

	server.Wait()
}
