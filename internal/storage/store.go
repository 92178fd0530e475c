// Package storage is the durable key-value record store. Records are whole
// JSON documents written and replaced as a unit; callers never perform
// field-level partial updates.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jask/tasklite/internal/logging"
)

// Failure reports that the durable store could not be read or written.
type Failure struct {
	Op  string
	Key Key
	Err error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("storage %s %q: %v", f.Op, f.Key, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Store persists records in the sqlite records table.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

func New(db *sql.DB, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{db: db, log: log}
}

// Get returns the raw record value, reporting whether it exists.
func (s *Store) Get(ctx context.Context, key Key) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &Failure{Op: "read", Key: key, Err: err}
	}
	return value, true, nil
}

// Put writes the record, replacing any previous value.
func (s *Store) Put(ctx context.Context, key Key, value string) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO records(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=CURRENT_TIMESTAMP;
	`, string(key), value)
	if err != nil {
		return &Failure{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Delete removes the record if present.
func (s *Store) Delete(ctx context.Context, key Key) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, string(key))
	if err != nil {
		return &Failure{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// ReadJSON decodes the record at key into dest. A missing record and an
// unparseable record both report ok=false: malformed data is logged and
// treated as absent, never as a fault.
func (s *Store) ReadJSON(ctx context.Context, key Key, dest any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.log.Warn(ctx, "discarding malformed record", "key", string(key), "err", err.Error())
		return false, nil
	}
	return true, nil
}

// WriteJSON encodes v and writes it as the record at key.
func (s *Store) WriteJSON(ctx context.Context, key Key, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &Failure{Op: "encode", Key: key, Err: err}
	}
	return s.Put(ctx, key, string(raw))
}
