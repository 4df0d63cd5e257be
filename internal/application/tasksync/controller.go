package tasksync

import (
	"context"
	"log"
	"sync"

	"taskman/internal/application/confirm"
	"taskman/internal/application/dto"
	"taskman/internal/application/state"
)

// Op is the network half of an action whose local half already ran
type Op func(ctx context.Context) error

func noop(context.Context) error { return nil }

// Snapshot is a consistent view of the controller state
type Snapshot struct {
	Tasks      state.TaskCollection
	Notice     Notice
	Loading    bool
	Loaded     bool
	LoadError  string
	Reordering bool
}

// toggleTrack follows the in-flight toggles of one task so that a stale
// response never overwrites a newer optimistic value.
type toggleTrack struct {
	latest       uint64
	inflight     int
	want         bool
	confirmed    bool
	confirmedSeq uint64
	latestDone   bool
}

// Controller owns the task collection and mediates every mutation
// between the user and the backend.
type Controller struct {
	api    TaskAPI
	logger *log.Logger

	mu         sync.Mutex
	tasks      state.TaskCollection
	notice     Notice
	loading    bool
	loaded     bool
	loadErr    string
	reordering bool
	toggleSeq  uint64
	toggles    map[string]*toggleTrack
	changes    chan Snapshot
}

// NewController creates a controller with an empty collection
func NewController(api TaskAPI, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		api:     api,
		logger:  logger,
		toggles: make(map[string]*toggleTrack),
		changes: make(chan Snapshot, 1),
	}
}

// Changes delivers the latest snapshot after every state change. Unread
// snapshots are replaced by newer ones.
func (c *Controller) Changes() <-chan Snapshot {
	return c.changes
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Notice returns the pending user message
func (c *Controller) Notice() Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

// DismissNotice clears the pending user message
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice.Empty() {
		return
	}
	c.notice = Notice{}
	c.publishLocked()
}

// LoadError returns the blocking load error, if any
func (c *Controller) LoadError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Load fetches the full list. On failure the list is reported as
// unavailable and the previous collection is kept out of view.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.publishLocked()
	c.mu.Unlock()

	list, err := c.api.ListTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.logger.Printf("load tasks failed: %v", err)
		c.loadErr = MsgLoadFailed
		c.publishLocked()
		return &ActionError{Action: ActionLoad, Message: MsgLoadFailed, Err: err}
	}

	c.tasks = state.NewTaskCollection(list)
	c.reapplyPendingLocked()
	c.loaded = true
	c.loadErr = ""
	c.publishLocked()
	return nil
}

// Get fetches one task without touching the collection
func (c *Controller) Get(ctx context.Context, id string) (dto.TaskDTO, error) {
	return c.api.GetTask(ctx, id)
}

// Toggle sets is_complete on a task and waits for the server
func (c *Controller) Toggle(ctx context.Context, id string, value bool) error {
	op, err := c.StartToggle(id, value)
	if err != nil {
		return err
	}
	return op(ctx)
}

// StartToggle applies the toggle locally and returns the server call
func (c *Controller) StartToggle(id string, value bool) (Op, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, prev, err := ApplyToggle(c.tasks, id, value)
	if err != nil {
		return nil, err
	}

	c.toggleSeq++
	seq := c.toggleSeq
	track, ok := c.toggles[id]
	if !ok {
		track = &toggleTrack{confirmed: prev}
		c.toggles[id] = track
	}
	track.latest = seq
	track.inflight++
	track.want = value
	track.latestDone = false

	c.tasks = next
	c.notice = Notice{}
	c.publishLocked()

	return func(ctx context.Context) error {
		result, err := c.api.UpdateTask(ctx, id, dto.UpdateTaskRequest{IsComplete: dto.Some(value)})
		return c.finishToggle(id, seq, result, err)
	}, nil
}

func (c *Controller) finishToggle(id string, seq uint64, result dto.TaskDTO, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	track := c.toggles[id]
	if track == nil {
		return err
	}
	track.inflight--
	if track.inflight == 0 {
		delete(c.toggles, id)
	}

	if err == nil && seq > track.confirmedSeq {
		track.confirmed = result.IsComplete
		track.confirmedSeq = seq
	}

	var actionErr error
	switch {
	case seq == track.latest:
		track.latestDone = true
		c.tasks = ResolveToggle(c.tasks, id, track.confirmed, result, err)
		if err != nil {
			c.logger.Printf("toggle %s failed: %v", id, err)
			msg := MsgToggleFailed
			if isNotFound(err) {
				msg = MsgTaskGone
			}
			c.notice = Notice{Action: ActionToggle, TaskID: id, Message: msg}
			actionErr = &ActionError{Action: ActionToggle, Message: msg, Err: err}
		}
	case track.latestDone:
		// An older request settled after the newest one; show what the
		// server now holds.
		c.tasks = setComplete(c.tasks, id, track.confirmed)
	default:
		// Superseded by a newer toggle that is still in flight.
		if err != nil {
			c.logger.Printf("superseded toggle %s failed: %v", id, err)
		}
	}

	c.publishLocked()
	return actionErr
}

// Reorder moves a task between indices and waits for the server
func (c *Controller) Reorder(ctx context.Context, from, to int) error {
	op, err := c.StartReorder(from, to)
	if err != nil {
		return err
	}
	return op(ctx)
}

// StartReorder applies the move locally and returns the server call. A
// reorder requested while another is in flight is refused with
// ErrReorderInProgress.
func (c *Controller) StartReorder(from, to int) (Op, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reordering {
		return nil, ErrReorderInProgress
	}
	next, moved, err := ApplyReorder(c.tasks, from, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		return noop, nil
	}
	return c.beginReorderLocked(next), nil
}

// Arrange moves the given tasks to the top of the list in that order and
// waits for the server. The remaining tasks follow in their current order.
func (c *Controller) Arrange(ctx context.Context, ids []string) error {
	c.mu.Lock()
	if c.reordering {
		c.mu.Unlock()
		return ErrReorderInProgress
	}
	next, err := c.tasks.Arrange(ids)
	if err != nil {
		c.mu.Unlock()
		return ErrUnknownTask
	}
	op := c.beginReorderLocked(next)
	c.mu.Unlock()

	return op(ctx)
}

func (c *Controller) beginReorderLocked(next state.TaskCollection) Op {
	snapshot := c.tasks
	ids := next.IDs()
	c.tasks = next
	c.reordering = true
	c.notice = Notice{}
	c.publishLocked()

	return func(ctx context.Context) error {
		result, err := c.api.ReorderTasks(ctx, ids)
		return c.finishReorder(snapshot, result, err)
	}
}

// MoveTo moves the task with the given id to a 1-based position
func (c *Controller) MoveTo(ctx context.Context, id string, position int) error {
	c.mu.Lock()
	from := c.tasks.IndexOf(id)
	n := c.tasks.Len()
	c.mu.Unlock()

	if from < 0 {
		return ErrUnknownTask
	}
	to := position - 1
	if to < 0 {
		to = 0
	}
	if to >= n {
		to = n - 1
	}
	return c.Reorder(ctx, from, to)
}

func (c *Controller) finishReorder(snapshot state.TaskCollection, result []dto.TaskDTO, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tasks = ResolveReorder(snapshot, c.tasks, result, err)
	c.reapplyPendingLocked()
	c.reordering = false

	var actionErr error
	if err != nil {
		c.logger.Printf("reorder failed: %v", err)
		c.notice = Notice{Action: ActionReorder, Message: MsgReorderFailed}
		actionErr = &ActionError{Action: ActionReorder, Message: MsgReorderFailed, Err: err}
	}
	c.publishLocked()
	return actionErr
}

// Create validates the draft, creates the task and appends the server's
// copy. Nothing is inserted before the server answers.
func (c *Controller) Create(ctx context.Context, d Draft) (dto.TaskDTO, error) {
	req, err := d.CreateRequest()
	if err != nil {
		msg, _ := validationMessage(err)
		return dto.TaskDTO{}, &ActionError{Action: ActionCreate, Message: msg, Err: err}
	}

	created, err := c.api.CreateTask(ctx, req)
	if err != nil {
		c.logger.Printf("create task failed: %v", err)
		return dto.TaskDTO{}, &ActionError{Action: ActionCreate, Message: createFailureMessage(err), Err: err}
	}

	c.mu.Lock()
	c.tasks = ApplyCreate(c.tasks, created)
	c.publishLocked()
	c.mu.Unlock()

	return created, nil
}

func createFailureMessage(err error) string {
	if msg, ok := validationMessage(err); ok {
		return msg
	}
	if isTransport(err) {
		return MsgNetworkError
	}
	return MsgCreateFailed
}

// Edit sends the fields of d that differ from loaded. When nothing
// differs no request is made and changed is false.
func (c *Controller) Edit(ctx context.Context, loaded dto.TaskDTO, d Draft) (task dto.TaskDTO, changed bool, err error) {
	req, err := Changes(loaded, d)
	if err != nil {
		msg, _ := validationMessage(err)
		return loaded, false, &ActionError{Action: ActionEdit, Message: msg, Err: err}
	}
	if req.IsEmpty() {
		return loaded, false, nil
	}

	updated, err := c.api.UpdateTask(ctx, loaded.ID, req)
	if err != nil {
		c.logger.Printf("update task %s failed: %v", loaded.ID, err)
		return loaded, false, &ActionError{Action: ActionEdit, Message: editFailureMessage(err), Err: err}
	}

	c.mu.Lock()
	c.tasks = MergeServerTask(c.tasks, updated)
	c.publishLocked()
	c.mu.Unlock()

	return updated, true, nil
}

func editFailureMessage(err error) string {
	if isNotFound(err) {
		return MsgTaskGone
	}
	if msg, ok := validationMessage(err); ok {
		return msg
	}
	return MsgSaveFailed
}

// Delete removes a task. Only a Request issued by a confirmed dialog is
// accepted. A task that is already gone counts as deleted.
func (c *Controller) Delete(ctx context.Context, req confirm.Request) error {
	if !req.Valid() {
		return ErrNotConfirmed
	}
	id := req.Target().ID

	err := c.api.DeleteTask(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()

	next, removed := ResolveDelete(c.tasks, id, err)
	if !removed {
		c.logger.Printf("delete task %s failed: %v", id, err)
		return &ActionError{Action: ActionDelete, Message: MsgDeleteFailed, Err: err}
	}
	c.tasks = next
	c.publishLocked()
	return nil
}

func (c *Controller) reapplyPendingLocked() {
	for id, track := range c.toggles {
		if !track.latestDone {
			c.tasks = setComplete(c.tasks, id, track.want)
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Tasks:      c.tasks,
		Notice:     c.notice,
		Loading:    c.loading,
		Loaded:     c.loaded,
		LoadError:  c.loadErr,
		Reordering: c.reordering,
	}
}

func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	select {
	case <-c.changes:
	default:
	}
	c.changes <- snap
}
