package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskman/internal/domain/entity"
	"taskman/internal/domain/repository"
)

// ErrPositionUnavailable is returned when create keeps losing the position race
var ErrPositionUnavailable = errors.New("conflict: unable to assign position")

const defaultCreateAttempts = 3

// TaskService provides domain operations that span more than one task
type TaskService struct {
	taskRepo repository.TaskRepository
	newID    func() string
	attempts int
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		newID:    uuid.NewString,
		attempts: defaultCreateAttempts,
	}
}

// CreateTask appends a new task after the current last position.
// Position collisions from concurrent inserts are retried.
func (s *TaskService) CreateTask(
	ctx context.Context,
	title string,
	description *string,
	deadline *time.Time,
) (*entity.Task, error) {
	for attempt := 0; attempt < s.attempts; attempt++ {
		maxPos, err := s.taskRepo.MaxPosition(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read max position: %w", err)
		}

		task, err := entity.NewTask(s.newID(), title, description, deadline, maxPos+1)
		if err != nil {
			return nil, err
		}

		err = s.taskRepo.Insert(ctx, task)
		if err == nil {
			return task, nil
		}
		if !errors.Is(err, repository.ErrPositionConflict) {
			return nil, fmt.Errorf("failed to insert task: %w", err)
		}
	}

	return nil, ErrPositionUnavailable
}

// ValidateReorder checks that ids is a permutation of every stored task
func (s *TaskService) ValidateReorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return entity.ErrEmptyReorder
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return entity.ErrDuplicateTaskIDs
		}
		seen[id] = struct{}{}
	}

	total, err := s.taskRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tasks: %w", err)
	}
	if total != len(ids) {
		return entity.ErrIncompleteReorder
	}

	return nil
}
