// Package session models the dashboard navigation as an explicit finite
// state machine. Transitions are pure; the server owns the per-user current
// state and feeds events through Next.
package session

import "fmt"

// State is a navigation position in the dashboard.
type State string

const (
	StateLoggedOut    State = "logged_out"
	StateRegistering  State = "registering"
	StateMetalView    State = "metal_view"
	StateCurrencyView State = "currency_view"
	StateProfile      State = "profile"
)

// Event drives a transition between states.
type Event string

const (
	EventStartRegister  Event = "start_register"
	EventRegisterDone   Event = "register_done"
	EventLoginSucceeded Event = "login_succeeded"
	EventLogout         Event = "logout"
	EventSelectMetal    Event = "select_metal"
	EventSelectCurrency Event = "select_currency"
	EventOpenProfile    Event = "open_profile"
)

// IsValid reports whether s is a known state.
func (s State) IsValid() bool {
	switch s {
	case StateLoggedOut, StateRegistering, StateMetalView, StateCurrencyView, StateProfile:
		return true
	}
	return false
}

// Authenticated reports whether s requires a logged-in user.
func (s State) Authenticated() bool {
	switch s {
	case StateMetalView, StateCurrencyView, StateProfile:
		return true
	}
	return false
}

// transitions maps each state to the events it accepts.
var transitions = map[State]map[Event]State{
	StateLoggedOut: {
		EventStartRegister:  StateRegistering,
		EventLoginSucceeded: StateMetalView,
	},
	StateRegistering: {
		EventRegisterDone: StateLoggedOut,
		EventLogout:       StateLoggedOut,
	},
	StateMetalView: {
		EventSelectMetal:    StateMetalView,
		EventSelectCurrency: StateCurrencyView,
		EventOpenProfile:    StateProfile,
		EventLogout:         StateLoggedOut,
	},
	StateCurrencyView: {
		EventSelectMetal:    StateMetalView,
		EventSelectCurrency: StateCurrencyView,
		EventOpenProfile:    StateProfile,
		EventLogout:         StateLoggedOut,
	},
	StateProfile: {
		EventSelectMetal:    StateMetalView,
		EventSelectCurrency: StateCurrencyView,
		EventLogout:         StateLoggedOut,
	},
}

// Next returns the state reached by applying event in the current state. An
// event the current state does not accept leaves the machine where it is and
// returns an error.
func Next(current State, event Event) (State, error) {
	if !current.IsValid() {
		return current, fmt.Errorf("unknown state %q", current)
	}
	next, ok := transitions[current][event]
	if !ok {
		return current, fmt.Errorf("event %q not allowed in state %q", event, current)
	}
	return next, nil
}
