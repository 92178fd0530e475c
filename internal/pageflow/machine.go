// Package pageflow sequences which page is visible and how one page fades
// into the next. The machine is pure state; the presentation layer owns the
// settle timer and calls Settle when it fires.
package pageflow

// Page names one of the fixed set of UI pages.
type Page string

const (
	PageNone      Page = ""
	PageSplash    Page = "splash"
	PageLanding   Page = "landing"
	PageSignup    Page = "signup"
	PageLogin     Page = "login"
	PageDashboard Page = "dashboard"
)

// IsAuthForm reports whether the page hosts a credential form. Those forms
// are reset, along with their error decoration, when the page is left.
func (p Page) IsAuthForm() bool { return p == PageSignup || p == PageLogin }

// Effects describes what the presentation layer must apply once a switch
// completes: reveal Show, and reset ResetForm's inputs and errors when it is
// not PageNone.
type Effects struct {
	Show      Page
	ResetForm Page
}

// Transition is the result of a Navigate call. When Fading is set the
// switch has not happened yet; the caller schedules Settle after the fade
// settle delay and applies the Effects it returns. Otherwise the switch
// completed immediately and Effects is already valid.
type Transition struct {
	Fading  bool
	Effects Effects
}

// Machine is the page transition state machine. The zero value shows no
// page, the state before the splash is revealed.
type Machine struct {
	current Page
	target  Page
	fading  bool
}

func New() *Machine { return &Machine{} }

// Current returns the visible page, or PageNone during startup.
func (m *Machine) Current() Page { return m.current }

// InTransition reports whether a fade is waiting to settle.
func (m *Machine) InTransition() bool { return m.fading }

// Navigate requests a move to the given page. From an idle state with a
// different page showing it begins the fade; with no page showing, or when
// the target is already visible, the switch completes immediately without
// the fade delay. Navigating while a fade is in progress is rejected.
func (m *Machine) Navigate(to Page) (Transition, bool) {
	if m.fading {
		return Transition{}, false
	}
	if m.current == PageNone || m.current == to {
		m.current = to
		return Transition{Effects: Effects{Show: to}}, true
	}
	m.target = to
	m.fading = true
	return Transition{Fading: true}, true
}

// Settle completes a pending fade: every page is hidden, the page being
// left has its form reset if it was a signup or login form, and the target
// is revealed. Calling Settle with no fade pending is a no-op.
func (m *Machine) Settle() Effects {
	if !m.fading {
		return Effects{Show: m.current}
	}
	from := m.current
	m.current = m.target
	m.target = PageNone
	m.fading = false

	eff := Effects{Show: m.current}
	if from.IsAuthForm() {
		eff.ResetForm = from
	}
	return eff
}
