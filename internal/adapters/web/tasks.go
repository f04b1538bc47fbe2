package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ── Text-generation task store ────────────────────────────────────────────────

type taskKind string

const (
	taskKindReminder taskKind = "reminder"
	taskKindAnalysis taskKind = "analysis"
)

type taskState string

const (
	taskLoading   taskState = "loading"
	taskDone      taskState = "done"
	taskCancelled taskState = "cancelled"
)

const taskTTL = 15 * time.Minute

// taskView is the JSON shape of a task. Result is set only in state done.
type taskView struct {
	ID         string     `json:"id"`
	DebtorID   string     `json:"debtorId"`
	Kind       taskKind   `json:"kind"`
	State      taskState  `json:"state"`
	Result     any        `json:"result,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

type task struct {
	view   taskView
	cancel context.CancelFunc
}

// taskStore tracks in-flight and finished generation requests. At most one
// task per debtor and kind is loading at any time; a loading task reaches
// exactly one terminal state.
type taskStore struct {
	mu       sync.Mutex
	tasks    map[string]*task
	inflight map[string]string // debtorID/kind → task id
	now      func() time.Time
}

func newTaskStore() *taskStore {
	return &taskStore{
		tasks:    make(map[string]*task),
		inflight: make(map[string]string),
		now:      time.Now,
	}
}

func inflightKey(debtorID string, kind taskKind) string {
	return debtorID + "/" + string(kind)
}

// start launches run in its own goroutine unless a task for the same debtor and
// kind is still loading, in which case that task is returned with ok=false.
func (s *taskStore) start(debtorID string, kind taskKind, run func(ctx context.Context) any) (taskView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := inflightKey(debtorID, kind)
	if id, busy := s.inflight[key]; busy {
		return s.tasks[id].view, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{
		view: taskView{
			ID:        uuid.NewString(),
			DebtorID:  debtorID,
			Kind:      kind,
			State:     taskLoading,
			StartedAt: s.now(),
		},
		cancel: cancel,
	}
	s.tasks[t.view.ID] = t
	s.inflight[key] = t.view.ID

	id := t.view.ID
	go func() {
		result := run(ctx)
		s.finish(id, taskDone, result)
	}()
	return t.view, true
}

// finish moves a loading task into a terminal state. Later calls are no-ops.
func (s *taskStore) finish(id string, state taskState, result any) (taskView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return taskView{}, false
	}
	if t.view.State != taskLoading {
		return t.view, true
	}
	now := s.now()
	t.view.State = state
	t.view.FinishedAt = &now
	if state == taskDone {
		t.view.Result = result
	}
	t.cancel()
	delete(s.inflight, inflightKey(t.view.DebtorID, t.view.Kind))
	return t.view, true
}

func (s *taskStore) cancel(id string) (taskView, bool) {
	return s.finish(id, taskCancelled, nil)
}

func (s *taskStore) get(id string) (taskView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || s.expired(t) {
		return taskView{}, false
	}
	return t.view, true
}

func (s *taskStore) expired(t *task) bool {
	return t.view.FinishedAt != nil && s.now().Sub(*t.view.FinishedAt) > taskTTL
}

func (s *taskStore) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tasks {
		if s.expired(t) {
			delete(s.tasks, id)
		}
	}
}

// startPurge starts a background goroutine that evicts expired tasks every 5 minutes.
func (s *taskStore) startPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.purge()
			}
		}
	}()
}
