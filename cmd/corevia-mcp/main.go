package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/corevia/corevia/internal/config"
	coreviamcp "github.com/corevia/corevia/internal/mcp"
	"github.com/corevia/corevia/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (direct database mode)")
	remote := flag.String("remote", "", "base URL of a running corevia server (remote mode, e.g. http://corevia:80)")
	user := flag.String("user", "", "user ID to scope queries to (direct mode only)")
	flag.Parse()

	// Logs go to stderr: stdout carries the MCP stdio transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds coreviamcp.DataSource

	if *remote != "" {
		ds = coreviamcp.NewHTTPClient(*remote)
		log.Info("corevia-mcp starting", "version", Version, "mode", "remote", "url", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("corevia-mcp starting", "version", Version, "mode", "direct")
	}

	s := coreviamcp.New(ds, Version, log)

	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return coreviamcp.WithUserID(ctx, *user)
	}))
	if err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
