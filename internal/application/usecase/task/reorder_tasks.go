package task

import (
	"context"

	"taskman/internal/application/dto"
	"taskman/internal/domain/repository"
	"taskman/internal/domain/service"
)

// ReorderTasksUseCase rewrites every task position from an ordered ID list
type ReorderTasksUseCase struct {
	taskRepo    repository.TaskRepository
	taskService *service.TaskService
}

// NewReorderTasksUseCase creates a new ReorderTasksUseCase
func NewReorderTasksUseCase(
	taskRepo repository.TaskRepository,
	taskService *service.TaskService,
) *ReorderTasksUseCase {
	return &ReorderTasksUseCase{
		taskRepo:    taskRepo,
		taskService: taskService,
	}
}

// Execute validates the order and returns the tasks with positions 1..N
func (uc *ReorderTasksUseCase) Execute(ctx context.Context, req dto.ReorderRequest) ([]dto.TaskDTO, error) {
	if err := uc.taskService.ValidateReorder(ctx, req.TaskIDs); err != nil {
		return nil, err
	}

	tasks, err := uc.taskRepo.Reorder(ctx, req.TaskIDs)
	if err != nil {
		return nil, err
	}

	return dto.TasksToDTOs(tasks), nil
}
