package main

import (
	"context"
	"errors"
	"log"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"taskman/internal/di"
	"taskman/internal/infrastructure/config"
)

func main() {
	fs := pflag.NewFlagSet("taskmand", pflag.ContinueOnError)
	config.ServerFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	path, _ := fs.GetString("config")
	if path == "" {
		path = defaultConfigPath()
	}

	cfg, err := config.LoadServer(path, fs)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.New(os.Stderr, "taskmand ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := di.InitializeServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize server: %v", err)
	}
	defer cleanup()

	logger.Printf("listening on %s (database %s)", cfg.Addr, redact(cfg.DatabaseURL))
	if err := srv.Run(ctx); err != nil {
		logger.Printf("Server error: %v", err)
		cleanup()
		os.Exit(1)
	}
	logger.Println("stopped")
}

// defaultConfigPath is the client's config file, whose server section
// configures the backend. It may not exist.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "taskman", "config.yml")
}

// redact hides the password in a database URL for logging
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
