package library

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskKind names the action a task performs.
type TaskKind string

const (
	TaskRefresh TaskKind = "refresh"
	TaskUpload  TaskKind = "upload"
	TaskUpdate  TaskKind = "update"
	TaskDelete  TaskKind = "delete"
)

// exclusive kinds allow one task in flight at a time.
var exclusive = map[TaskKind]bool{
	TaskUpload: true,
	TaskUpdate: true,
	TaskDelete: true,
}

// Task is one in-flight action. Its context ends when the task ends, when it
// is cancelled, or when the owning Tasks is closed.
type Task struct {
	ID      uuid.UUID
	Kind    TaskKind
	Started time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

func (t *Task) Context() context.Context {
	return t.ctx
}

// Tasks tracks the in-flight actions of one view.
type Tasks struct {
	logger *slog.Logger
	life   context.Context
	stop   context.CancelFunc

	mu     sync.Mutex
	active map[uuid.UUID]*Task
}

func NewTasks(logger *slog.Logger) *Tasks {
	life, stop := context.WithCancel(context.Background())
	return &Tasks{
		logger: logger.With("system", "tasks"),
		life:   life,
		stop:   stop,
		active: make(map[uuid.UUID]*Task),
	}
}

// Begin registers a task of kind derived from ctx. Exclusive kinds return
// ErrBusy while another task of the same kind is running.
func (t *Tasks) Begin(ctx context.Context, kind TaskKind) (*Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.life.Err() != nil {
		return nil, ErrClosed
	}
	if exclusive[kind] && t.busy(kind) {
		return nil, ErrBusy
	}

	taskCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(t.life, cancel)

	task := &Task{
		ID:      uuid.New(),
		Kind:    kind,
		Started: time.Now(),
		ctx:     taskCtx,
		cancel: func() {
			stop()
			cancel()
		},
	}
	t.active[task.ID] = task

	t.logger.Debug("task started", "id", task.ID, "kind", kind)
	return task, nil
}

// End releases task and its context.
func (t *Tasks) End(task *Task) {
	t.mu.Lock()
	delete(t.active, task.ID)
	t.mu.Unlock()

	task.cancel()
	t.logger.Debug("task finished", "id", task.ID, "kind", task.Kind, "elapsed", time.Since(task.Started))
}

// Busy reports whether a task of kind is running.
func (t *Tasks) Busy(kind TaskKind) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy(kind)
}

// Len returns the number of running tasks.
func (t *Tasks) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// Close cancels every running task and rejects new ones.
func (t *Tasks) Close() {
	t.stop()
}

func (t *Tasks) busy(kind TaskKind) bool {
	for _, task := range t.active {
		if task.Kind == kind {
			return true
		}
	}
	return false
}
