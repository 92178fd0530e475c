package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/tasklite/internal/pageflow"
	"github.com/jask/tasklite/internal/storage"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	cursorStyle    = lipgloss.NewStyle().Bold(true)
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 2)
	fadeStyle      = lipgloss.NewStyle().Faint(true)
)

func (a *App) View() string {
	var body string
	switch a.pages.Current() {
	case pageflow.PageNone:
		return ""
	case pageflow.PageSplash:
		body = a.viewSplash()
	case pageflow.PageLanding:
		body = a.viewLanding()
	case pageflow.PageSignup:
		body = a.viewSignup()
	case pageflow.PageLogin:
		body = a.viewLogin()
	case pageflow.PageDashboard:
		body = a.viewDashboard()
	}

	// a page mid-fade renders dimmed until the settle tick reveals the target
	if a.pages.InTransition() {
		body = fadeStyle.Render(body)
	}

	if a.modal == modalConfirmClear {
		return a.overlayModal(body)
	}
	return a.place(body)
}

func (a *App) viewSplash() string {
	return titleStyle.Render("tasklite") + "\n\n" + subtleStyle.Render("Loading…")
}

func (a *App) viewLanding() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tasklite") + "\n")
	b.WriteString(subtleStyle.Render("Your tasks, kept on this machine.") + "\n\n")
	b.WriteString(boldKey("s") + " sign up\n")
	b.WriteString(boldKey("l") + " log in\n")
	b.WriteString(boldKey("c") + " continue without an account\n")
	b.WriteString("\n" + subtleStyle.Render("q quit"))
	return b.String()
}

func (a *App) viewSignup() string {
	labels := [signupFieldCount]string{"Name", "Email", "Password", "Confirm password"}
	fields := [signupFieldCount]string{"name", "email", "password", "confirm"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Create your account") + "\n\n")
	for i := 0; i < signupFieldCount; i++ {
		b.WriteString(labels[i] + "\n")
		b.WriteString(a.signupInputs[i].View() + "\n")
		if msg, ok := a.signupErrs[fields[i]]; ok {
			b.WriteString(errorStyle.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}
	if a.inFlight {
		b.WriteString(subtleStyle.Render("Creating account…") + "\n")
	}
	b.WriteString(a.toastLine())
	b.WriteString(renderHelp(a.keys.formHelp()))
	return b.String()
}

func (a *App) viewLogin() string {
	labels := [2]string{"Email", "Password"}
	fields := [2]string{"email", "password"}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome back") + "\n\n")
	for i := 0; i < len(a.loginInputs); i++ {
		b.WriteString(labels[i] + "\n")
		b.WriteString(a.loginInputs[i].View() + "\n")
		if msg, ok := a.loginErrs[fields[i]]; ok {
			b.WriteString(errorStyle.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}
	if a.inFlight {
		b.WriteString(subtleStyle.Render("Signing in…") + "\n")
	}
	b.WriteString(a.toastLine())
	b.WriteString(renderHelp(a.keys.formHelp()))
	return b.String()
}

func (a *App) viewDashboard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.welcome()) + "\n\n")

	switch a.mode {
	case modeInput:
		b.WriteString(a.taskInput.View() + "\n\n")
	case modeEdit:
		b.WriteString("Edit task\n" + a.editInput.View() + "\n\n")
	case modeFilter:
		b.WriteString("/" + a.filterInput.View() + "\n\n")
	default:
		if a.filterQ != "" {
			b.WriteString(subtleStyle.Render(fmt.Sprintf("filter: %s (esc clears)", a.filterQ)) + "\n\n")
		}
	}

	b.WriteString(boxStyle.Render(a.renderTasks()) + "\n")
	b.WriteString(a.toastLine())
	b.WriteString(a.renderFooter())
	return b.String()
}

func (a *App) welcome() string {
	if p, ok := a.stores.Sessions.Current(); ok {
		return "Welcome, " + p.Name
	}
	if a.stores.Tasks.Account() == storage.Anonymous {
		return "Your tasks (no account)"
	}
	return "Your tasks"
}

func (a *App) renderTasks() string {
	if len(a.tasks) == 0 {
		if a.filterQ != "" {
			return subtleStyle.Render("No tasks match the filter.")
		}
		return subtleStyle.Render("No tasks yet. Press a to add one.")
	}

	lines := make([]string, 0, len(a.tasks))
	for i, t := range a.tasks {
		prefix := "  "
		if i == a.cursor && a.mode != modeInput {
			prefix = cursorStyle.Render("> ")
		}
		box := "[ ] "
		text := t.Text
		if t.Completed {
			box = "[x] "
			text = completedStyle.Render(text)
		}
		date := subtleStyle.Render(t.CreatedAt.Format(a.cfg.UI.DateFormat))
		lines = append(lines, fmt.Sprintf("%s%s%s  %s", prefix, box, text, date))
	}
	return strings.Join(lines, "\n")
}

func (a *App) toastLine() string {
	if a.toast == "" {
		return "\n"
	}
	if a.toastErr {
		return errorStyle.Render(a.toast) + "\n"
	}
	return successStyle.Render(a.toast) + "\n"
}

func (a *App) renderFooter() string {
	text := renderHelp(a.keys.dashboardHelp())
	if a.mode != modeList {
		text = renderHelp(a.keys.formHelp())
	}
	if a.width == 0 {
		return footerStyle.Render(text)
	}
	return footerStyle.Render(padRight(text, a.width-footerStyle.GetHorizontalFrameSize()))
}

func (a *App) overlayModal(base string) string {
	content := "Delete all tasks?\n\n" + boldKey("y") + " yes   " + boldKey("n") + " no"
	modal := modalStyle.Render(content)
	if a.width == 0 || a.height == 0 {
		return base + "\n\n" + modal
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a *App) place(body string) string {
	if a.width == 0 || a.height == 0 {
		return body
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
