package task

import (
	"context"

	"taskman/internal/application/dto"
	"taskman/internal/domain/entity"
	"taskman/internal/domain/repository"
)

// UpdateTaskUseCase applies a partial update to a task
type UpdateTaskUseCase struct {
	taskRepo repository.TaskRepository
}

// NewUpdateTaskUseCase creates a new UpdateTaskUseCase
func NewUpdateTaskUseCase(taskRepo repository.TaskRepository) *UpdateTaskUseCase {
	return &UpdateTaskUseCase{
		taskRepo: taskRepo,
	}
}

// Execute applies the fields present in req. Absent fields are left untouched.
func (uc *UpdateTaskUseCase) Execute(ctx context.Context, id string, req dto.UpdateTaskRequest) (dto.TaskDTO, error) {
	task, err := uc.taskRepo.FindByID(ctx, id)
	if err != nil {
		return dto.TaskDTO{}, err
	}

	if req.IsEmpty() {
		return dto.TaskToDTO(task), nil
	}

	if req.Title.Set {
		if req.Title.Value == nil {
			return dto.TaskDTO{}, entity.NewValidationError("title", entity.MsgTitleRequired)
		}
		if err := task.UpdateTitle(*req.Title.Value); err != nil {
			return dto.TaskDTO{}, err
		}
	}

	if req.Description.Set {
		if err := task.UpdateDescription(req.Description.Value); err != nil {
			return dto.TaskDTO{}, err
		}
	}

	if req.IsComplete.Set {
		if req.IsComplete.Value == nil {
			return dto.TaskDTO{}, entity.NewValidationError("is_complete", entity.MsgCompletionRequired)
		}
		task.SetComplete(*req.IsComplete.Value)
	}

	if req.Position.Set {
		if req.Position.Value == nil || *req.Position.Value < 1 {
			return dto.TaskDTO{}, entity.NewValidationError("position", "Position must be a positive integer")
		}
		task.MoveTo(*req.Position.Value)
	}

	if req.Deadline.Set {
		task.SetDeadline(req.Deadline.Value)
	}

	if err := uc.taskRepo.Save(ctx, task); err != nil {
		return dto.TaskDTO{}, err
	}

	return dto.TaskToDTO(task), nil
}
