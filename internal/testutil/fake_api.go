// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"taskman/internal/application/dto"
	taskuc "taskman/internal/application/usecase/task"
	"taskman/internal/domain/service"
	"taskman/internal/infrastructure/persistence/memory"
)

// Operation names recorded by FakeAPI.
const (
	OpList    = "list"
	OpGet     = "get"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReorder = "reorder"
)

var (
	// ErrNetwork simulates a request that never reached the server.
	ErrNetwork error = transportError{}
	// ErrServer simulates a 5xx response.
	ErrServer = errors.New("internal server error")
)

type transportError struct{}

func (transportError) Error() string   { return "connection refused" }
func (transportError) Transport() bool { return true }

// Call is one recorded request
type Call struct {
	Op     string
	ID     string
	Update dto.UpdateTaskRequest
	IDs    []string
}

// FakeAPI is an in-process task backend built on the real use cases
// over the memory repository.
type FakeAPI struct {
	list    *taskuc.ListTasksUseCase
	get     *taskuc.GetTaskUseCase
	create  *taskuc.CreateTaskUseCase
	update  *taskuc.UpdateTaskUseCase
	remove  *taskuc.DeleteTaskUseCase
	reorder *taskuc.ReorderTasksUseCase

	mu    sync.Mutex
	calls []Call
	errs  map[string][]error
	holds map[string]chan struct{}
}

// NewFakeAPI creates an empty backend
func NewFakeAPI() *FakeAPI {
	repo := memory.NewTaskRepository()
	svc := service.NewTaskService(repo)
	return &FakeAPI{
		list:    taskuc.NewListTasksUseCase(repo),
		get:     taskuc.NewGetTaskUseCase(repo),
		create:  taskuc.NewCreateTaskUseCase(svc),
		update:  taskuc.NewUpdateTaskUseCase(repo),
		remove:  taskuc.NewDeleteTaskUseCase(repo),
		reorder: taskuc.NewReorderTasksUseCase(repo, svc),
		errs:    make(map[string][]error),
		holds:   make(map[string]chan struct{}),
	}
}

// Seed creates tasks directly, bypassing call recording
func (f *FakeAPI) Seed(titles ...string) []dto.TaskDTO {
	out := make([]dto.TaskDTO, 0, len(titles))
	for _, title := range titles {
		task, err := f.create.Execute(context.Background(), dto.CreateTaskRequest{Title: title})
		if err != nil {
			panic(err)
		}
		out = append(out, task)
	}
	return out
}

// FailNext makes the next call of op return err. Queued errors are
// consumed in order.
func (f *FakeAPI) FailNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = append(f.errs[op], err)
}

// Hold blocks every subsequent call of op until the returned release
// function is called.
func (f *FakeAPI) Hold(op string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[op] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.holds[op] == ch {
				delete(f.holds, op)
			}
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns the recorded requests
func (f *FakeAPI) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many calls of op were made
func (f *FakeAPI) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Stored returns the backend state without recording a call
func (f *FakeAPI) Stored() []dto.TaskDTO {
	tasks, err := f.list.Execute(context.Background())
	if err != nil {
		panic(err)
	}
	return tasks
}

func (f *FakeAPI) enter(ctx context.Context, call Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	hold := f.holds[call.Op]
	var injected error
	if queue := f.errs[call.Op]; len(queue) > 0 {
		injected = queue[0]
		f.errs[call.Op] = queue[1:]
	}
	f.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return injected
}

// ListTasks implements tasksync.TaskAPI.
func (f *FakeAPI) ListTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	if err := f.enter(ctx, Call{Op: OpList}); err != nil {
		return nil, err
	}
	return f.list.Execute(ctx)
}

// GetTask implements tasksync.TaskAPI.
func (f *FakeAPI) GetTask(ctx context.Context, id string) (dto.TaskDTO, error) {
	if err := f.enter(ctx, Call{Op: OpGet, ID: id}); err != nil {
		return dto.TaskDTO{}, err
	}
	return f.get.Execute(ctx, id)
}

// CreateTask implements tasksync.TaskAPI.
func (f *FakeAPI) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskDTO, error) {
	if err := f.enter(ctx, Call{Op: OpCreate}); err != nil {
		return dto.TaskDTO{}, err
	}
	return f.create.Execute(ctx, req)
}

// UpdateTask implements tasksync.TaskAPI.
func (f *FakeAPI) UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (dto.TaskDTO, error) {
	if err := f.enter(ctx, Call{Op: OpUpdate, ID: id, Update: req}); err != nil {
		return dto.TaskDTO{}, err
	}
	return f.update.Execute(ctx, id, req)
}

// DeleteTask implements tasksync.TaskAPI.
func (f *FakeAPI) DeleteTask(ctx context.Context, id string) error {
	if err := f.enter(ctx, Call{Op: OpDelete, ID: id}); err != nil {
		return err
	}
	return f.remove.Execute(ctx, id)
}

// ReorderTasks implements tasksync.TaskAPI.
func (f *FakeAPI) ReorderTasks(ctx context.Context, ids []string) ([]dto.TaskDTO, error) {
	recorded := append([]string(nil), ids...)
	if err := f.enter(ctx, Call{Op: OpReorder, IDs: recorded}); err != nil {
		return nil, err
	}
	return f.reorder.Execute(ctx, dto.ReorderRequest{TaskIDs: ids})
}
