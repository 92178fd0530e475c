package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tasklite/internal/auth"
	"github.com/jask/tasklite/internal/pageflow"
	"github.com/jask/tasklite/internal/storage"
	"github.com/jask/tasklite/internal/task"
	"github.com/jask/tasklite/internal/validate"
)

const storageWarning = "Could not save; the last change may not persist."

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case startupDoneMsg:
		var cmds []tea.Cmd
		if msg.err != nil {
			a.log.Error(a.ctx, "task load failed on startup", "err", msg.err.Error())
			cmds = append(cmds, a.showToast("Could not load saved tasks.", true))
		}
		a.refresh()
		to := pageflow.PageLanding
		if msg.restored {
			to = pageflow.PageDashboard
		}
		cmds = append(cmds, a.navigate(to))
		return a, tea.Batch(cmds...)

	case fadeSettleMsg:
		a.applyEffects(a.pages.Settle())
		return a, nil

	case redirectMsg:
		return a, a.navigate(msg.to)

	case toastExpireMsg:
		if msg.seq == a.toastSeq {
			a.toast = ""
		}
		return a, nil

	case signupDoneMsg:
		return a.finishSignup(msg)

	case loginDoneMsg:
		return a.finishLogin(msg)

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		if a.pages.InTransition() {
			return a, nil
		}
		switch a.pages.Current() {
		case pageflow.PageLanding:
			return a.updateLanding(msg)
		case pageflow.PageSignup:
			return a.updateSignup(msg)
		case pageflow.PageLogin:
			return a.updateLogin(msg)
		case pageflow.PageDashboard:
			return a.updateDashboard(msg)
		}
		return a, nil
	}

	return a, nil
}

func (a *App) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "s":
		return a, a.navigate(pageflow.PageSignup)
	case "l":
		return a, a.navigate(pageflow.PageLogin)
	case "c", "enter":
		// continue without an account, on the unscoped collection
		return a, a.navigate(pageflow.PageDashboard)
	}
	return a, nil
}

func (a *App) updateSignup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, a.navigate(pageflow.PageLanding)
	case "tab", "down":
		a.signupFocus = (a.signupFocus + 1) % signupFieldCount
		a.focusSignup()
		return a, nil
	case "shift+tab", "up":
		a.signupFocus = (a.signupFocus + signupFieldCount - 1) % signupFieldCount
		a.focusSignup()
		return a, nil
	case "enter":
		return a, a.submitSignup()
	}
	var cmd tea.Cmd
	a.signupInputs[a.signupFocus], cmd = a.signupInputs[a.signupFocus].Update(msg)
	return a, cmd
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a, a.navigate(pageflow.PageLanding)
	case "tab", "down":
		a.loginFocus = (a.loginFocus + 1) % len(a.loginInputs)
		a.focusLogin()
		return a, nil
	case "shift+tab", "up":
		a.loginFocus = (a.loginFocus + len(a.loginInputs) - 1) % len(a.loginInputs)
		a.focusLogin()
		return a, nil
	case "enter":
		return a, a.submitLogin()
	}
	var cmd tea.Cmd
	a.loginInputs[a.loginFocus], cmd = a.loginInputs[a.loginFocus].Update(msg)
	return a, cmd
}

// submitSignup validates synchronously, then schedules the registration
// after the simulated latency. The in-flight guard swallows re-submits
// while the completion is pending.
func (a *App) submitSignup() tea.Cmd {
	if a.inFlight {
		return nil
	}
	name := strings.TrimSpace(a.signupInputs[fieldName].Value())
	email := strings.TrimSpace(a.signupInputs[fieldEmail].Value())
	password := a.signupInputs[fieldPassword].Value()
	confirm := a.signupInputs[fieldConfirm].Value()

	a.signupErrs = validate.Signup(name, email, password, confirm)
	if !a.signupErrs.Valid() {
		return nil
	}

	a.inFlight = true
	return tea.Tick(a.cfg.UI.SignupDelay(), func(time.Time) tea.Msg {
		proj, err := a.stores.Accounts.Register(a.ctx, name, email, password)
		return signupDoneMsg{proj: proj, err: err}
	})
}

func (a *App) submitLogin() tea.Cmd {
	if a.inFlight {
		return nil
	}
	email := strings.TrimSpace(a.loginInputs[0].Value())
	password := a.loginInputs[1].Value()

	a.loginErrs = validate.Login(email, password)
	if !a.loginErrs.Valid() {
		return nil
	}

	a.inFlight = true
	return tea.Tick(a.cfg.UI.LoginDelay(), func(time.Time) tea.Msg {
		proj, err := a.stores.Accounts.Authenticate(a.ctx, email, password)
		return loginDoneMsg{proj: proj, err: err}
	})
}

func (a *App) finishSignup(msg signupDoneMsg) (tea.Model, tea.Cmd) {
	a.inFlight = false
	if errors.Is(msg.err, auth.ErrDuplicateEmail) {
		a.signupErrs = validate.FieldErrors{"email": "An account with this email already exists"}
		return a, nil
	}
	if msg.err != nil {
		a.log.Error(a.ctx, "register failed", "err", msg.err.Error())
		return a, a.showToast(storageWarning, true)
	}
	return a, tea.Batch(a.establish(msg.proj, "Account created successfully!")...)
}

func (a *App) finishLogin(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	a.inFlight = false
	if errors.Is(msg.err, auth.ErrInvalidCredentials) {
		// unknown email and wrong password read identically
		a.loginErrs = validate.FieldErrors{
			"email":    "Invalid email or password",
			"password": "Invalid email or password",
		}
		return a, nil
	}
	if msg.err != nil {
		a.log.Error(a.ctx, "authenticate failed", "err", msg.err.Error())
		return a, a.showToast(storageWarning, true)
	}
	return a, tea.Batch(a.establish(msg.proj, "Welcome back!")...)
}

// establish activates the session, rebinds the task store to the new
// identity, and schedules the dashboard redirect after the toast.
func (a *App) establish(proj auth.Projection, success string) []tea.Cmd {
	var cmds []tea.Cmd
	if err := a.stores.Sessions.Establish(a.ctx, proj); err != nil {
		a.log.Error(a.ctx, "session persist failed", "err", err.Error())
		cmds = append(cmds, a.showToast("Signed in, but the session may not survive a restart.", true))
	} else {
		cmds = append(cmds, a.showToast(success, false))
	}
	if err := a.stores.Tasks.Bind(a.ctx, a.stores.Sessions.ActiveAccount()); err != nil {
		a.log.Error(a.ctx, "task rebind failed", "err", err.Error())
		cmds = append(cmds, a.showToast("Could not load saved tasks.", true))
	}
	a.filterQ = ""
	a.refresh()
	cmds = append(cmds, tea.Tick(a.cfg.UI.RedirectDelay(), func(time.Time) tea.Msg {
		return redirectMsg{to: pageflow.PageDashboard}
	}))
	return cmds
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal == modalConfirmClear {
		switch msg.String() {
		case "y", "Y":
			a.modal = modalNone
			err := a.stores.Tasks.ClearAll(a.ctx)
			a.refresh()
			if err != nil {
				a.log.Error(a.ctx, "clear all failed", "err", err.Error())
				return a, a.showToast(storageWarning, true)
			}
			return a, a.showToast("All tasks cleared.", false)
		case "n", "N", "esc":
			a.modal = modalNone
			return a, nil
		}
		return a, nil
	}

	switch a.mode {
	case modeInput:
		return a.updateTaskInput(msg)
	case modeEdit:
		return a.updateTaskEdit(msg)
	case modeFilter:
		return a.updateTaskFilter(msg)
	}
	return a.updateTaskList(msg)
}

func (a *App) updateTaskList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "q":
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.tasks)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Add):
		a.mode = modeInput
		a.taskInput.Focus()
		return a, nil
	case key.Matches(msg, a.keys.Toggle), key.Matches(msg, a.keys.Submit):
		if t, ok := a.selected(); ok {
			err := a.stores.Tasks.Toggle(a.ctx, t.ID)
			a.refresh()
			if err != nil {
				a.log.Error(a.ctx, "toggle failed", "err", err.Error())
				return a, a.showToast(storageWarning, true)
			}
		}
	case key.Matches(msg, a.keys.Edit):
		if t, ok := a.selected(); ok && !t.Completed {
			a.mode = modeEdit
			a.editID = t.ID
			a.editInput.SetValue(t.Text)
			a.editInput.CursorEnd()
			a.editInput.Focus()
		}
	case key.Matches(msg, a.keys.Delete):
		if t, ok := a.selected(); ok {
			err := a.stores.Tasks.Delete(a.ctx, t.ID)
			a.refresh()
			if err != nil {
				a.log.Error(a.ctx, "delete failed", "err", err.Error())
				return a, a.showToast(storageWarning, true)
			}
		}
	case key.Matches(msg, a.keys.Filter):
		a.mode = modeFilter
		a.filterInput.SetValue(a.filterQ)
		a.filterInput.Focus()
	case key.Matches(msg, a.keys.Export):
		return a, a.exportTasks()
	case key.Matches(msg, a.keys.Clear):
		if len(a.tasks) > 0 {
			a.modal = modalConfirmClear
		}
	case key.Matches(msg, a.keys.Logout):
		return a, a.logout()
	case msg.String() == "esc":
		if a.filterQ != "" {
			a.filterQ = ""
			a.refresh()
		}
	}
	return a, nil
}

func (a *App) updateTaskInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeList
		a.taskInput.Blur()
		return a, nil
	case "enter":
		_, err := a.stores.Tasks.Add(a.ctx, a.taskInput.Value())
		if errors.Is(err, task.ErrEmptyText) {
			return a, a.showToast("Please enter a task!", true)
		}
		a.taskInput.SetValue("")
		a.refresh()
		if err != nil {
			a.log.Error(a.ctx, "add failed", "err", err.Error())
			return a, a.showToast(storageWarning, true)
		}
		return a, a.showToast("✓ Added!", false)
	}
	var cmd tea.Cmd
	a.taskInput, cmd = a.taskInput.Update(msg)
	return a, cmd
}

func (a *App) updateTaskEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeList
		a.editInput.Blur()
		return a, nil
	case "enter":
		err := a.stores.Tasks.Edit(a.ctx, a.editID, a.editInput.Value())
		if errors.Is(err, task.ErrEmptyText) {
			return a, a.showToast("Please enter a task!", true)
		}
		a.mode = modeList
		a.editInput.Blur()
		a.refresh()
		if err != nil {
			a.log.Error(a.ctx, "edit failed", "err", err.Error())
			return a, a.showToast(storageWarning, true)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.editInput, cmd = a.editInput.Update(msg)
	return a, cmd
}

func (a *App) updateTaskFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeList
		a.filterInput.Blur()
		a.filterQ = ""
		a.refresh()
		return a, nil
	case "enter":
		a.mode = modeList
		a.filterInput.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.filterInput, cmd = a.filterInput.Update(msg)
	a.filterQ = a.filterInput.Value()
	a.refresh()
	return a, cmd
}

func (a *App) selected() (task.Task, bool) {
	if a.cursor < 0 || a.cursor >= len(a.tasks) {
		return task.Task{}, false
	}
	return a.tasks[a.cursor], true
}

func (a *App) logout() tea.Cmd {
	var cmds []tea.Cmd
	if err := a.stores.Sessions.Clear(a.ctx); err != nil {
		a.log.Error(a.ctx, "session clear failed", "err", err.Error())
		cmds = append(cmds, a.showToast(storageWarning, true))
	}
	if err := a.stores.Tasks.Bind(a.ctx, storage.Anonymous); err != nil {
		a.log.Error(a.ctx, "task rebind failed", "err", err.Error())
	}
	a.filterQ = ""
	a.refresh()
	cmds = append(cmds, a.navigate(pageflow.PageLanding))
	return tea.Batch(cmds...)
}

func (a *App) exportTasks() tea.Cmd {
	snap, err := a.stores.Tasks.ExportSnapshot()
	if err != nil {
		a.log.Error(a.ctx, "export failed", "err", err.Error())
		return a.showToast("Export failed.", true)
	}
	if err := os.MkdirAll(a.cfg.Export.Dir, 0o755); err != nil {
		return a.showToast("Export failed.", true)
	}
	path := filepath.Join(a.cfg.Export.Dir, fmt.Sprintf("tasks-%s.json", time.Now().Format("20060102-150405")))
	if err := os.WriteFile(path, []byte(snap), 0o644); err != nil {
		a.log.Error(a.ctx, "export write failed", "err", err.Error())
		return a.showToast("Export failed.", true)
	}
	return a.showToast("Exported to "+path, false)
}
