package task

import (
	"context"

	"taskman/internal/application/dto"
	"taskman/internal/domain/service"
)

// CreateTaskUseCase handles creating a task at the end of the list
type CreateTaskUseCase struct {
	taskService *service.TaskService
}

// NewCreateTaskUseCase creates a new CreateTaskUseCase
func NewCreateTaskUseCase(taskService *service.TaskService) *CreateTaskUseCase {
	return &CreateTaskUseCase{
		taskService: taskService,
	}
}

// Execute validates the request and stores the new task
func (uc *CreateTaskUseCase) Execute(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskDTO, error) {
	task, err := uc.taskService.CreateTask(ctx, req.Title, req.Description, req.Deadline)
	if err != nil {
		return dto.TaskDTO{}, err
	}
	return dto.TaskToDTO(task), nil
}
