package auth

import (
	"context"

	"github.com/jask/tasklite/internal/logging"
	"github.com/jask/tasklite/internal/storage"
)

// SessionManager holds the single active identity, if any, and mirrors it to
// the currentUser record so it survives restarts.
type SessionManager struct {
	store   *storage.Store
	log     logging.Logger
	current *Projection
}

func NewSessionManager(store *storage.Store, log logging.Logger) *SessionManager {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &SessionManager{store: store, log: log}
}

// Restore reads the persisted projection and, if present and well-formed,
// establishes it as the active session. Anything else, including a store
// read fault, fails open to logged out.
func (m *SessionManager) Restore(ctx context.Context) (Projection, bool) {
	var p Projection
	ok, err := m.store.ReadJSON(ctx, storage.CurrentUserKey(), &p)
	if err != nil {
		m.log.Warn(ctx, "session restore failed open", "err", err.Error())
		return Projection{}, false
	}
	if !ok || p.ID == "" || p.Email == "" {
		return Projection{}, false
	}
	m.current = &p
	return p, true
}

// Establish sets the active session, replacing any existing one, and
// persists the projection. The in-memory session is set even when the write
// fails; the failure is surfaced so the caller can warn that it may not
// survive a restart.
func (m *SessionManager) Establish(ctx context.Context, p Projection) error {
	m.current = &p
	return m.store.WriteJSON(ctx, storage.CurrentUserKey(), p)
}

// Clear removes the active session and its persisted projection.
func (m *SessionManager) Clear(ctx context.Context) error {
	m.current = nil
	return m.store.Delete(ctx, storage.CurrentUserKey())
}

// Current returns the active projection, if any.
func (m *SessionManager) Current() (Projection, bool) {
	if m.current == nil {
		return Projection{}, false
	}
	return *m.current, true
}

// ActiveAccount returns the storage scope of the active identity, or the
// anonymous scope when nobody is signed in.
func (m *SessionManager) ActiveAccount() storage.AccountID {
	if m.current == nil {
		return storage.Anonymous
	}
	return m.current.AccountID()
}
