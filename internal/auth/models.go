// Package auth owns registered accounts and the active session.
package auth

import (
	"time"

	"github.com/jask/tasklite/internal/storage"
)

// Account is a registered identity. Accounts are immutable once created and
// are never deleted.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Projection is the reduced, non-secret view of an Account used for the
// session record and for display.
type Projection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AccountID returns the storage scope for this identity.
func (p Projection) AccountID() storage.AccountID { return storage.AccountID(p.ID) }

func project(a Account) Projection {
	return Projection{ID: a.ID, Name: a.Name, Email: a.Email}
}
