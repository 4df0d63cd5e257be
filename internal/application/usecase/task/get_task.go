package task

import (
	"context"

	"taskman/internal/application/dto"
	"taskman/internal/domain/repository"
)

// GetTaskUseCase handles fetching a single task
type GetTaskUseCase struct {
	taskRepo repository.TaskRepository
}

// NewGetTaskUseCase creates a new GetTaskUseCase
func NewGetTaskUseCase(taskRepo repository.TaskRepository) *GetTaskUseCase {
	return &GetTaskUseCase{
		taskRepo: taskRepo,
	}
}

// Execute returns the task with the given ID
func (uc *GetTaskUseCase) Execute(ctx context.Context, id string) (dto.TaskDTO, error) {
	task, err := uc.taskRepo.FindByID(ctx, id)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	return dto.TaskToDTO(task), nil
}
