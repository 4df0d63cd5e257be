// Package tasksync keeps the client's task list in step with the backend
// using optimistic updates.
package tasksync

import (
	"context"
	"errors"

	"taskman/internal/application/dto"
	"taskman/internal/domain/entity"
)

// TaskAPI is the backend contract the controller drives
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]dto.TaskDTO, error)
	GetTask(ctx context.Context, id string) (dto.TaskDTO, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskDTO, error)
	UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (dto.TaskDTO, error)
	DeleteTask(ctx context.Context, id string) error
	ReorderTasks(ctx context.Context, ids []string) ([]dto.TaskDTO, error)
}

// transportError is implemented by errors for requests that never got a
// response, such as api.Error.
type transportError interface {
	Transport() bool
}

func isNotFound(err error) bool {
	return errors.Is(err, entity.ErrTaskNotFound)
}

func isTransport(err error) bool {
	var te transportError
	if errors.As(err, &te) && te.Transport() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// validationMessage returns the server's first validation message
func validationMessage(err error) (string, bool) {
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		return "", false
	}
	if verr.Msg == "" {
		return entity.MsgGenericValidation, true
	}
	return verr.Msg, true
}
