package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jask/tasklite/internal/database"
	"github.com/jask/tasklite/internal/logging"
	"github.com/jask/tasklite/internal/storage"
)

var (
	// ErrDuplicateEmail reports that the email is already registered.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrInvalidCredentials reports a failed login. Unknown email and wrong
	// password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountStore owns the durable set of registered accounts, persisted as a
// whole under the users record.
type AccountStore struct {
	store *storage.Store
	log   logging.Logger
	now   func() time.Time
	newID func() string
}

func NewAccountStore(store *storage.Store, log logging.Logger) *AccountStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &AccountStore{
		store: store,
		log:   log,
		now:   database.Now,
		newID: uuid.NewString,
	}
}

// Register creates an account for a fresh email and returns its projection.
// Email comparison is exact-string; no normalization is performed.
func (s *AccountStore) Register(ctx context.Context, name, email, password string) (Projection, error) {
	accounts, err := s.load(ctx)
	if err != nil {
		return Projection{}, err
	}
	for _, a := range accounts {
		if a.Email == email {
			return Projection{}, ErrDuplicateEmail
		}
	}

	account := Account{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: HashPassword(password),
		CreatedAt:    s.now(),
	}
	accounts = append(accounts, account)
	if err := s.store.WriteJSON(ctx, storage.UsersKey(), accounts); err != nil {
		return Projection{}, err
	}
	s.log.Info(ctx, "account registered", "id", account.ID)
	return project(account), nil
}

// Authenticate looks up the account by exact email and verifies the
// password hash.
func (s *AccountStore) Authenticate(ctx context.Context, email, password string) (Projection, error) {
	accounts, err := s.load(ctx)
	if err != nil {
		return Projection{}, err
	}
	hash := HashPassword(password)
	for _, a := range accounts {
		if a.Email == email {
			if a.PasswordHash != hash {
				break
			}
			return project(a), nil
		}
	}
	return Projection{}, ErrInvalidCredentials
}

// load reads the full account set. A missing or malformed users record reads
// as an empty set; only a real store fault is returned as an error.
func (s *AccountStore) load(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if _, err := s.store.ReadJSON(ctx, storage.UsersKey(), &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}
