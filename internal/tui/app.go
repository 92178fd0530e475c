// Package tui is the bubbletea front end: the splash, landing, signup,
// login, and dashboard pages over the account, session, and task stores.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tasklite/internal/auth"
	"github.com/jask/tasklite/internal/config"
	"github.com/jask/tasklite/internal/logging"
	"github.com/jask/tasklite/internal/pageflow"
	"github.com/jask/tasklite/internal/task"
	"github.com/jask/tasklite/internal/validate"
)

// Stores bundles the service objects the app is built from. Tests construct
// fresh instances per case; nothing here is a package-level singleton.
type Stores struct {
	Accounts *auth.AccountStore
	Sessions *auth.SessionManager
	Tasks    *task.Store
}

type dashMode string

const (
	modeList   dashMode = "list"
	modeInput  dashMode = "input"
	modeEdit   dashMode = "edit"
	modeFilter dashMode = "filter"
)

type modalState string

const (
	modalNone         modalState = ""
	modalConfirmClear modalState = "confirmClear"
)

// signup form field order.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldConfirm
	signupFieldCount
)

// App ties the pages together.
type App struct {
	ctx    context.Context
	cfg    config.Config
	log    logging.Logger
	stores Stores
	pages  *pageflow.Machine
	keys   keyMap

	width  int
	height int

	// auth forms
	signupInputs [signupFieldCount]textinput.Model
	signupFocus  int
	signupErrs   validate.FieldErrors
	loginInputs  [2]textinput.Model
	loginFocus   int
	loginErrs    validate.FieldErrors

	// a signup/login completion is pending; further submits are ignored
	// until it lands, which is the only re-entrancy hazard in the app
	inFlight bool

	// dashboard
	mode        dashMode
	modal       modalState
	taskInput   textinput.Model
	editInput   textinput.Model
	filterInput textinput.Model
	tasks       []task.Task
	cursor      int
	editID      int64
	filterQ     string

	toast    string
	toastErr bool
	toastSeq int
}

type (
	startupDoneMsg struct {
		restored bool
		err      error
	}
	fadeSettleMsg  struct{}
	redirectMsg    struct{ to pageflow.Page }
	toastExpireMsg struct{ seq int }

	signupDoneMsg struct {
		proj auth.Projection
		err  error
	}
	loginDoneMsg struct {
		proj auth.Projection
		err  error
	}
)

func New(ctx context.Context, cfg config.Config, log logging.Logger, stores Stores) *App {
	if log == nil {
		log = logging.NewNopLogger()
	}
	a := &App{
		ctx:    ctx,
		cfg:    cfg,
		log:    log,
		stores: stores,
		pages:  pageflow.New(),
		keys:   newKeyMap(),
		mode:   modeList,
	}

	labels := [signupFieldCount]string{"Your name", "you@example.com", "Password", "Confirm password"}
	for i := range a.signupInputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 128
		ti.Width = 40
		if i == fieldPassword || i == fieldConfirm {
			ti.EchoMode = textinput.EchoPassword
		}
		a.signupInputs[i] = ti
	}
	a.loginInputs[0] = textinput.New()
	a.loginInputs[0].Placeholder = "you@example.com"
	a.loginInputs[0].CharLimit = 128
	a.loginInputs[0].Width = 40
	a.loginInputs[1] = textinput.New()
	a.loginInputs[1].Placeholder = "Password"
	a.loginInputs[1].CharLimit = 128
	a.loginInputs[1].Width = 40
	a.loginInputs[1].EchoMode = textinput.EchoPassword

	a.taskInput = textinput.New()
	a.taskInput.Placeholder = "What needs doing?"
	a.taskInput.CharLimit = 500
	a.taskInput.Width = 50
	a.editInput = textinput.New()
	a.editInput.CharLimit = 500
	a.editInput.Width = 50
	a.filterInput = textinput.New()
	a.filterInput.Placeholder = "Filter tasks"
	a.filterInput.Width = 30

	return a
}

func (a *App) Init() tea.Cmd {
	nav := a.navigate(pageflow.PageSplash)
	return tea.Batch(textinput.Blink, nav, a.startup())
}

// startup waits out the splash, then restores any persisted session and
// binds the task store to whoever is (or is not) signed in.
func (a *App) startup() tea.Cmd {
	return tea.Tick(a.cfg.UI.SplashDelay(), func(time.Time) tea.Msg {
		_, restored := a.stores.Sessions.Restore(a.ctx)
		err := a.stores.Tasks.Bind(a.ctx, a.stores.Sessions.ActiveAccount())
		return startupDoneMsg{restored: restored, err: err}
	})
}

// navigate drives the page machine; on a fade it schedules the settle tick.
func (a *App) navigate(to pageflow.Page) tea.Cmd {
	tr, ok := a.pages.Navigate(to)
	if !ok {
		return nil
	}
	if tr.Fading {
		return tea.Tick(a.cfg.UI.FadeDelay(), func(time.Time) tea.Msg { return fadeSettleMsg{} })
	}
	a.applyEffects(tr.Effects)
	return nil
}

func (a *App) applyEffects(eff pageflow.Effects) {
	switch eff.ResetForm {
	case pageflow.PageSignup:
		a.resetSignupForm()
	case pageflow.PageLogin:
		a.resetLoginForm()
	}
	switch eff.Show {
	case pageflow.PageSignup:
		a.signupFocus = fieldName
		a.focusSignup()
	case pageflow.PageLogin:
		a.loginFocus = 0
		a.focusLogin()
	case pageflow.PageDashboard:
		a.mode = modeList
		a.cursor = 0
	}
}

func (a *App) resetSignupForm() {
	for i := range a.signupInputs {
		a.signupInputs[i].SetValue("")
		a.signupInputs[i].Blur()
	}
	a.signupFocus = fieldName
	a.signupErrs = nil
}

func (a *App) resetLoginForm() {
	for i := range a.loginInputs {
		a.loginInputs[i].SetValue("")
		a.loginInputs[i].Blur()
	}
	a.loginFocus = 0
	a.loginErrs = nil
}

func (a *App) focusSignup() {
	for i := range a.signupInputs {
		if i == a.signupFocus {
			a.signupInputs[i].Focus()
		} else {
			a.signupInputs[i].Blur()
		}
	}
}

func (a *App) focusLogin() {
	for i := range a.loginInputs {
		if i == a.loginFocus {
			a.loginInputs[i].Focus()
		} else {
			a.loginInputs[i].Blur()
		}
	}
}

// refresh re-reads the task snapshot after every mutation; the view renders
// the full list from it.
func (a *App) refresh() {
	a.tasks = a.stores.Tasks.All()
	if a.filterQ != "" {
		a.tasks = task.Filter(a.tasks, a.filterQ)
	}
	if a.cursor >= len(a.tasks) {
		a.cursor = len(a.tasks) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) showToast(text string, isErr bool) tea.Cmd {
	a.toast = text
	a.toastErr = isErr
	a.toastSeq++
	seq := a.toastSeq
	return tea.Tick(a.cfg.UI.ToastExpiry(), func(time.Time) tea.Msg { return toastExpireMsg{seq: seq} })
}
