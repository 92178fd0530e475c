package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/tasklite/internal/auth"
	"github.com/jask/tasklite/internal/config"
	"github.com/jask/tasklite/internal/database"
	"github.com/jask/tasklite/internal/logging"
	"github.com/jask/tasklite/internal/pageflow"
	"github.com/jask/tasklite/internal/storage"
	"github.com/jask/tasklite/internal/task"
)

func newTestApp(t *testing.T) (*App, *storage.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	records := storage.New(db, logging.NewNopLogger())
	stores := Stores{
		Accounts: auth.NewAccountStore(records, nil),
		Sessions: auth.NewSessionManager(records, nil),
		Tasks:    task.NewStore(records, nil),
	}
	cfg := config.Config{
		Export: config.ExportConfig{Dir: t.TempDir()},
		UI: config.UIConfig{
			DateFormat:    "02/01/2006",
			FadeDelayMs:   1,
			SignupDelayMs: 1,
			LoginDelayMs:  1,
			RedirectMs:    1,
			SplashMs:      1,
			ToastMs:       1,
		},
	}
	return New(context.Background(), cfg, logging.NewNopLogger(), stores), records
}

// runCmd pumps a command and every message it produces back through Update
// until the app goes quiet, standing in for the bubbletea event loop.
func runCmd(a *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(a, c)
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}
	_, next := a.Update(msg)
	runCmd(a, next)
}

func press(a *App, k tea.KeyMsg) {
	_, cmd := a.Update(k)
	runCmd(a, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func TestStartupLandsOnLanding(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)

	runCmd(a, a.Init())
	require.Equal(t, pageflow.PageLanding, a.pages.Current())
}

func TestStartupRestoresSessionToDashboard(t *testing.T) {
	t.Parallel()
	a, records := newTestApp(t)

	ctx := context.Background()
	require.NoError(t, records.WriteJSON(ctx, storage.CurrentUserKey(),
		auth.Projection{ID: "u1", Name: "Ann", Email: "ann@x.com"}))

	runCmd(a, a.Init())
	require.Equal(t, pageflow.PageDashboard, a.pages.Current())
	require.Equal(t, storage.AccountID("u1"), a.stores.Tasks.Account())
}

func TestSignupFlowReachesDashboard(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	runCmd(a, a.Init())

	press(a, runes("s"))
	require.Equal(t, pageflow.PageSignup, a.pages.Current())

	a.signupInputs[fieldName].SetValue("Ann")
	a.signupInputs[fieldEmail].SetValue("ann@x.com")
	a.signupInputs[fieldPassword].SetValue("secret1")
	a.signupInputs[fieldConfirm].SetValue("secret1")
	press(a, enter())

	require.Equal(t, pageflow.PageDashboard, a.pages.Current())
	cur, ok := a.stores.Sessions.Current()
	require.True(t, ok)
	require.Equal(t, "ann@x.com", cur.Email)
	require.False(t, a.inFlight)
}

func TestSignupValidationStopsSubmit(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	runCmd(a, a.Init())
	press(a, runes("s"))

	a.signupInputs[fieldName].SetValue("Ann")
	a.signupInputs[fieldEmail].SetValue("not-an-email")
	a.signupInputs[fieldPassword].SetValue("secret1")
	a.signupInputs[fieldConfirm].SetValue("secret1")

	require.Nil(t, a.submitSignup())
	require.False(t, a.signupErrs.Valid())
	require.Contains(t, a.signupErrs["email"], "valid email")
	require.Equal(t, pageflow.PageSignup, a.pages.Current())
}

func TestInFlightGuardSwallowsResubmit(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	runCmd(a, a.Init())
	press(a, runes("s"))

	a.signupInputs[fieldName].SetValue("Ann")
	a.signupInputs[fieldEmail].SetValue("ann@x.com")
	a.signupInputs[fieldPassword].SetValue("secret1")
	a.signupInputs[fieldConfirm].SetValue("secret1")

	first := a.submitSignup()
	require.NotNil(t, first)
	require.True(t, a.inFlight)
	require.Nil(t, a.submitSignup())
}

func TestLoginWrongPasswordShowsUniformError(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	runCmd(a, a.Init())

	press(a, runes("s"))
	a.signupInputs[fieldName].SetValue("Ann")
	a.signupInputs[fieldEmail].SetValue("ann@x.com")
	a.signupInputs[fieldPassword].SetValue("secret1")
	a.signupInputs[fieldConfirm].SetValue("secret1")
	press(a, enter())

	press(a, runes("L")) // log out
	require.Equal(t, pageflow.PageLanding, a.pages.Current())

	press(a, runes("l"))
	require.Equal(t, pageflow.PageLogin, a.pages.Current())
	a.loginInputs[0].SetValue("ann@x.com")
	a.loginInputs[1].SetValue("wrong")
	press(a, enter())

	require.Equal(t, pageflow.PageLogin, a.pages.Current())
	require.Equal(t, "Invalid email or password", a.loginErrs["email"])
	require.Equal(t, "Invalid email or password", a.loginErrs["password"])
}

func TestGuestDashboardAddToggleDelete(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	runCmd(a, a.Init())

	press(a, runes("c"))
	require.Equal(t, pageflow.PageDashboard, a.pages.Current())
	require.Equal(t, storage.Anonymous, a.stores.Tasks.Account())

	press(a, runes("a"))
	require.Equal(t, modeInput, a.mode)
	a.taskInput.SetValue("buy milk")
	press(a, enter())
	require.Len(t, a.tasks, 1)
	require.Equal(t, "buy milk", a.tasks[0].Text)

	press(a, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, modeList, a.mode)

	press(a, enter()) // toggle under cursor
	require.True(t, a.tasks[0].Completed)

	press(a, runes("d"))
	require.Empty(t, a.tasks)
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	runCmd(a, a.Init())
	press(a, runes("c"))

	press(a, runes("a"))
	a.taskInput.SetValue("one")
	press(a, enter())
	a.taskInput.SetValue("two")
	press(a, enter())
	press(a, tea.KeyMsg{Type: tea.KeyEsc})

	press(a, runes("C"))
	require.Equal(t, modalConfirmClear, a.modal)
	press(a, runes("n"))
	require.Equal(t, modalNone, a.modal)
	require.Len(t, a.tasks, 2)

	press(a, runes("C"))
	press(a, runes("y"))
	require.Empty(t, a.tasks)
}

func TestExportWritesFile(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	runCmd(a, a.Init())
	press(a, runes("c"))

	press(a, runes("a"))
	a.taskInput.SetValue("buy milk")
	press(a, enter())
	press(a, tea.KeyMsg{Type: tea.KeyEsc})

	press(a, runes("x"))

	entries, err := os.ReadDir(a.cfg.Export.Dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	found := false
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "tasks-") && strings.HasSuffix(e.Name(), ".json") {
			found = true
		}
	}
	require.True(t, found)
}

func TestLogoutResetsAuthFormsOnReturn(t *testing.T) {
	t.Parallel()
	a, _ := newTestApp(t)
	runCmd(a, a.Init())

	press(a, runes("s"))
	a.signupInputs[fieldEmail].SetValue("half-typed")
	press(a, tea.KeyMsg{Type: tea.KeyEsc}) // back to landing; leaving signup resets it

	require.Equal(t, pageflow.PageLanding, a.pages.Current())
	require.Empty(t, a.signupInputs[fieldEmail].Value())
}
