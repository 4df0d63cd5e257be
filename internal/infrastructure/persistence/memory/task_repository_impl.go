package memory

import (
	"context"
	"sort"
	"sync"

	"taskman/internal/domain/entity"
	"taskman/internal/domain/repository"
	"taskman/internal/infrastructure/persistence/mapper"
)

// TaskRepository keeps tasks in process memory
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*entity.Task
}

// NewTaskRepository creates an empty in-memory repository
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[string]*entity.Task),
	}
}

// Ping fails only when ctx is done
func (r *TaskRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// FindAll retrieves all tasks ordered by position
func (r *TaskRepository) FindAll(ctx context.Context) ([]*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		result = append(result, mapper.CloneTask(task))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Position() < result[j].Position()
	})
	return result, nil
}

// FindByID retrieves a task by its ID
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, entity.ErrTaskNotFound
	}
	return mapper.CloneTask(task), nil
}

// Count returns the number of stored tasks
func (r *TaskRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks), nil
}

// MaxPosition returns the highest position in use
func (r *TaskRepository) MaxPosition(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	maxPos := 0
	for _, task := range r.tasks {
		if task.Position() > maxPos {
			maxPos = task.Position()
		}
	}
	return maxPos, nil
}

// Insert persists a new task
func (r *TaskRepository) Insert(ctx context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID()]; exists {
		return entity.ErrTaskAlreadyExists
	}
	if r.positionTakenLocked(task.Position(), task.ID()) {
		return repository.ErrPositionConflict
	}
	r.tasks[task.ID()] = mapper.CloneTask(task)
	return nil
}

// Save persists changes to an existing task
func (r *TaskRepository) Save(ctx context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID()]; !exists {
		return entity.ErrTaskNotFound
	}
	if r.positionTakenLocked(task.Position(), task.ID()) {
		return repository.ErrPositionConflict
	}
	r.tasks[task.ID()] = mapper.CloneTask(task)
	return nil
}

// Delete removes a task and shifts every later task up one slot so
// positions stay 1..N
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed, exists := r.tasks[id]
	if !exists {
		return entity.ErrTaskNotFound
	}
	delete(r.tasks, id)

	for key, task := range r.tasks {
		if task.Position() > removed.Position() {
			shifted := mapper.CloneTask(task)
			shifted.MoveTo(task.Position() - 1)
			r.tasks[key] = shifted
		}
	}
	return nil
}

// Reorder assigns positions 1..N following ids
func (r *TaskRepository) Reorder(ctx context.Context, ids []string) ([]*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := make([]*entity.Task, 0, len(ids))
	for _, id := range ids {
		task, ok := r.tasks[id]
		if !ok {
			return nil, entity.ErrUnknownTaskIDs
		}
		staged = append(staged, mapper.CloneTask(task))
	}

	// Two passes so every reordered task is touched, matching the SQL store.
	for i, task := range staged {
		task.MoveTo(-(i + 1))
	}
	for i, task := range staged {
		task.MoveTo(i + 1)
	}

	result := make([]*entity.Task, 0, len(staged))
	for _, task := range staged {
		r.tasks[task.ID()] = task
		result = append(result, mapper.CloneTask(task))
	}
	return result, nil
}

func (r *TaskRepository) positionTakenLocked(position int, exceptID string) bool {
	for id, task := range r.tasks {
		if id != exceptID && task.Position() == position {
			return true
		}
	}
	return false
}
