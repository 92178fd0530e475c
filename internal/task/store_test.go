package task

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/tasklite/internal/database"
	"github.com/jask/tasklite/internal/logging"
	"github.com/jask/tasklite/internal/storage"
)

func newTestRecords(t *testing.T) *storage.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.New(db, logging.NewNopLogger())
}

func newBoundStore(t *testing.T, records *storage.Store, id storage.AccountID) *Store {
	t.Helper()
	s := NewStore(records, nil)
	require.NoError(t, s.Bind(context.Background(), id))
	return s
}

func TestAddNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newBoundStore(t, newTestRecords(t), "u1")

	a, err := s.Add(ctx, "A")
	require.NoError(t, err)
	b, err := s.Add(ctx, "B")
	require.NoError(t, err)

	all := s.All()
	require.Len(t, all, 2)
	require.Equal(t, b.ID, all[0].ID)
	require.Equal(t, a.ID, all[1].ID)
}

func TestAddTrimsAndRejectsBlank(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newBoundStore(t, newTestRecords(t), "u1")

	added, err := s.Add(ctx, "  buy milk  ")
	require.NoError(t, err)
	require.Equal(t, "buy milk", added.Text)
	require.False(t, added.Completed)
	require.Equal(t, added.CreatedAt, added.UpdatedAt)

	_, err = s.Add(ctx, "   ")
	require.ErrorIs(t, err, ErrEmptyText)
	require.Len(t, s.All(), 1)
}

func TestIDsNeverReused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newBoundStore(t, newTestRecords(t), "u1")

	first, err := s.Add(ctx, "buy milk")
	require.NoError(t, err)
	require.Equal(t, int64(1), first.ID)

	require.NoError(t, s.Toggle(ctx, first.ID))
	require.True(t, s.All()[0].Completed)

	require.NoError(t, s.Delete(ctx, first.ID))
	require.Empty(t, s.All())

	second, err := s.Add(ctx, "walk dog")
	require.NoError(t, err)
	require.Equal(t, int64(2), second.ID)
}

func TestCounterSurvivesRebindAndClearAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	records := newTestRecords(t)
	s := newBoundStore(t, records, "u1")

	var issued []int64
	for _, text := range []string{"a", "b", "c"} {
		tk, err := s.Add(ctx, text)
		require.NoError(t, err)
		issued = append(issued, tk.ID)
	}
	require.NoError(t, s.ClearAll(ctx))
	require.Empty(t, s.All())

	// reload from durable storage
	fresh := newBoundStore(t, records, "u1")
	next, err := fresh.Add(ctx, "d")
	require.NoError(t, err)
	for _, id := range issued {
		require.Greater(t, next.ID, id)
	}
}

func TestCounterNeverRegressesBelowExistingIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	records := newTestRecords(t)
	s := newBoundStore(t, records, "u1")

	_, err := s.Add(ctx, "a")
	require.NoError(t, err)
	_, err = s.Add(ctx, "b")
	require.NoError(t, err)

	// a lost counter record must not cause id reuse
	require.NoError(t, records.Delete(ctx, storage.CounterKey("u1")))
	fresh := newBoundStore(t, records, "u1")
	next, err := fresh.Add(ctx, "c")
	require.NoError(t, err)
	require.Equal(t, int64(3), next.ID)
}

func TestToggleAndDeleteAbsentAreNoOps(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newBoundStore(t, newTestRecords(t), "u1")

	_, err := s.Add(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, s.Toggle(ctx, 99))
	require.NoError(t, s.Delete(ctx, 99))
	require.NoError(t, s.Edit(ctx, 99, "still fine"))
	require.Len(t, s.All(), 1)
	require.False(t, s.All()[0].Completed)
}

func TestEditSkipsTimestampBumpOnEqualText(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newBoundStore(t, newTestRecords(t), "u1")

	added, err := s.Add(ctx, "buy milk")
	require.NoError(t, err)

	require.NoError(t, s.Edit(ctx, added.ID, "buy milk"))
	require.Equal(t, added.UpdatedAt, s.All()[0].UpdatedAt)

	_, err = s.Add(ctx, "x")
	require.NoError(t, err)
	require.ErrorIs(t, s.Edit(ctx, added.ID, "  "), ErrEmptyText)

	require.NoError(t, s.Edit(ctx, added.ID, "buy oat milk"))
	require.Equal(t, "buy oat milk", s.All()[1].Text)
}

func TestRebindIsolatesAccounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	records := newTestRecords(t)
	s := newBoundStore(t, records, "x")

	_, err := s.Add(ctx, "for x")
	require.NoError(t, err)

	require.NoError(t, s.Bind(ctx, "y"))
	require.Empty(t, s.All())
	_, err = s.Add(ctx, "for y")
	require.NoError(t, err)

	require.NoError(t, s.Bind(ctx, "x"))
	all := s.All()
	require.Len(t, all, 1)
	require.Equal(t, "for x", all[0].Text)
}

func TestAnonymousScopeIsDisjoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	records := newTestRecords(t)

	anon := newBoundStore(t, records, storage.Anonymous)
	_, err := anon.Add(ctx, "no account")
	require.NoError(t, err)

	user := newBoundStore(t, records, "u1")
	require.Empty(t, user.All())
}

func TestExportSnapshotRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newBoundStore(t, newTestRecords(t), "u1")

	_, err := s.Add(ctx, "a")
	require.NoError(t, err)
	_, err = s.Add(ctx, "b")
	require.NoError(t, err)

	snap, err := s.ExportSnapshot()
	require.NoError(t, err)

	var parsed []Task
	require.NoError(t, json.Unmarshal([]byte(snap), &parsed))
	require.Equal(t, s.All(), parsed)

	// export has no side effects
	require.Len(t, s.All(), 2)
}

func TestExportSnapshotEmptyCollection(t *testing.T) {
	t.Parallel()
	s := newBoundStore(t, newTestRecords(t), "u1")

	snap, err := s.ExportSnapshot()
	require.NoError(t, err)
	require.JSONEq(t, `[]`, snap)
}

func TestAllReturnsSnapshotCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newBoundStore(t, newTestRecords(t), "u1")

	_, err := s.Add(ctx, "a")
	require.NoError(t, err)

	snapshot := s.All()
	snapshot[0].Text = "mutated"
	require.Equal(t, "a", s.All()[0].Text)
}
