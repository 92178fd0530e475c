package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jask/tasklite/internal/database"
	"github.com/jask/tasklite/internal/logging"
	"github.com/jask/tasklite/internal/storage"
	"github.com/jask/tasklite/internal/validate"
)

// ErrEmptyText reports a task text that is blank after trimming.
var ErrEmptyText = errors.New("task text is empty")

// Store holds one account's task collection in memory and mirrors every
// mutation to the durable store as a whole record. The issued-id counter is
// persisted separately from the collection so a failed collection write can
// never cause id reuse.
type Store struct {
	store   *storage.Store
	log     logging.Logger
	now     func() time.Time
	account storage.AccountID
	tasks   []Task
	lastID  int64
}

func NewStore(store *storage.Store, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{store: store, log: log, now: database.Now}
}

// Bind switches the store to the given account, reloading its collection
// and counter from durable storage and discarding whatever was in memory.
// The anonymous scope is a valid account here.
func (s *Store) Bind(ctx context.Context, id storage.AccountID) error {
	s.account = id
	s.tasks = nil
	s.lastID = 0

	var tasks []Task
	if _, err := s.store.ReadJSON(ctx, storage.TasksKey(id), &tasks); err != nil {
		return err
	}
	var counter int64
	if _, err := s.store.ReadJSON(ctx, storage.CounterKey(id), &counter); err != nil {
		return err
	}
	// A lost or malformed counter must not let ids regress below what the
	// collection already holds.
	for _, t := range tasks {
		if t.ID > counter {
			counter = t.ID
		}
	}
	s.tasks = tasks
	s.lastID = counter
	return nil
}

// Account returns the scope the store is currently bound to.
func (s *Store) Account() storage.AccountID { return s.account }

// Add validates text, issues the next id, and prepends the new task so the
// collection stays newest-first.
func (s *Store) Add(ctx context.Context, text string) (Task, error) {
	trimmed, ok := validate.TaskText(text)
	if !ok {
		return Task{}, ErrEmptyText
	}

	id := s.lastID + 1
	if err := s.store.WriteJSON(ctx, storage.CounterKey(s.account), id); err != nil {
		return Task{}, err
	}
	s.lastID = id

	now := s.now()
	t := Task{ID: id, Text: trimmed, Completed: false, CreatedAt: now, UpdatedAt: now}
	s.tasks = append([]Task{t}, s.tasks...)
	if err := s.persist(ctx); err != nil {
		return t, err
	}
	return t, nil
}

// Toggle flips the completed flag. An absent id is a no-op, not an error.
func (s *Store) Toggle(ctx context.Context, id int64) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.tasks[i].UpdatedAt = s.now()
			return s.persist(ctx)
		}
	}
	return nil
}

// Edit replaces the task text. Equal text is a no-op so the timestamp does
// not get a spurious bump.
func (s *Store) Edit(ctx context.Context, id int64, newText string) error {
	trimmed, ok := validate.TaskText(newText)
	if !ok {
		return ErrEmptyText
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			if s.tasks[i].Text == trimmed {
				return nil
			}
			s.tasks[i].Text = trimmed
			s.tasks[i].UpdatedAt = s.now()
			return s.persist(ctx)
		}
	}
	return nil
}

// Delete removes the task if present. The counter is untouched; ids are
// never reused.
func (s *Store) Delete(ctx context.Context, id int64) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// All returns a newest-first snapshot copy of the collection.
func (s *Store) All() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// ClearAll removes every task. Callers are expected to have confirmed with
// the user first.
func (s *Store) ClearAll(ctx context.Context) error {
	s.tasks = nil
	return s.persist(ctx)
}

// ExportSnapshot serializes the current collection as pretty-printed JSON.
// It has no side effects on store state.
func (s *Store) ExportSnapshot() (string, error) {
	tasks := s.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	raw, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// persist writes the whole in-memory collection; never a partial update.
func (s *Store) persist(ctx context.Context) error {
	tasks := s.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	return s.store.WriteJSON(ctx, storage.TasksKey(s.account), tasks)
}
