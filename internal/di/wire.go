//go:build wireinject
// +build wireinject

package di

import (
	"context"
	"log"

	"github.com/google/wire"

	"taskman/internal/application/tasksync"
	"taskman/internal/application/usecase/task"
	"taskman/internal/domain/service"
	"taskman/internal/infrastructure/api"
	"taskman/internal/infrastructure/config"
	"taskman/internal/server"
)

// InitializeContainer sets up the client dependencies
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(
		// Transport
		api.NewClient,
		wire.Bind(new(tasksync.TaskAPI), new(*api.Client)),

		// Controller
		ProvideLogger,
		tasksync.NewController,

		// Wire the container
		wire.Struct(new(Container), "*"),
	)
	return nil, nil
}

// InitializeServer sets up the backend. The cleanup function closes the
// database.
func InitializeServer(ctx context.Context, cfg config.ServerConfig, logger *log.Logger) (*server.Server, func(), error) {
	wire.Build(
		// Storage
		ProvideTaskStore,
		ProvideTaskRepository,
		ProvidePinger,

		// Domain Services
		service.NewTaskService,

		// Use Cases - Task
		task.NewListTasksUseCase,
		task.NewGetTaskUseCase,
		task.NewCreateTaskUseCase,
		task.NewUpdateTaskUseCase,
		task.NewDeleteTaskUseCase,
		task.NewReorderTasksUseCase,

		// HTTP
		server.NewTaskHandler,
		server.NewServer,
	)
	return nil, nil, nil
}
