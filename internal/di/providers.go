package di

import (
	"context"
	"fmt"
	"log"
	"strings"

	"taskman/internal/application/tasksync"
	"taskman/internal/domain/repository"
	"taskman/internal/infrastructure/api"
	"taskman/internal/infrastructure/config"
	"taskman/internal/infrastructure/persistence/memory"
	"taskman/internal/infrastructure/persistence/sqlstore"
	"taskman/internal/server"
)

// memoryURL selects the in-process store
const memoryURL = "memory://"

// Container holds all client dependencies
type Container struct {
	// Config
	Config *config.Config

	// Transport
	Client *api.Client

	// Controller
	Controller *tasksync.Controller
}

// TaskStore is a task repository that can report its health
type TaskStore interface {
	repository.TaskRepository
	server.Pinger
}

// Provider functions

func ProvideLogger() *log.Logger {
	return log.Default()
}

// ProvideTaskStore opens the store named by the database URL and applies
// the schema.
func ProvideTaskStore(ctx context.Context, cfg config.ServerConfig) (TaskStore, func(), error) {
	if strings.HasPrefix(cfg.DatabaseURL, memoryURL) {
		return memory.NewTaskRepository(), func() {}, nil
	}

	db, dialect, err := sqlstore.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	repo := sqlstore.NewTaskRepository(db, dialect)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}
	return repo, cleanup, nil
}

func ProvideTaskRepository(store TaskStore) repository.TaskRepository {
	return store
}

func ProvidePinger(store TaskStore) server.Pinger {
	return store
}
