package render

import (
	"errors"
	"fmt"
)

// State is a stage of a single render session
type State string

const (
	StateIdle     State = "IDLE"
	StateLaunched State = "LAUNCHED"
	StateLoaded   State = "LOADED"
	StateSettled  State = "SETTLED"
	StateMeasured State = "MEASURED"
	StateExported State = "EXPORTED"
	StateFailed   State = "FAILED"
	StateClosed   State = "CLOSED"
)

// ErrInvalidTransition is returned when a stage is entered out of order
var ErrInvalidTransition = errors.New("invalid render state transition")

var transitions = map[State][]State{
	StateIdle:     {StateLaunched, StateFailed},
	StateLaunched: {StateLoaded, StateFailed, StateClosed},
	StateLoaded:   {StateSettled, StateFailed, StateClosed},
	StateSettled:  {StateMeasured, StateFailed, StateClosed},
	StateMeasured: {StateExported, StateFailed, StateClosed},
	StateExported: {StateClosed},
	StateFailed:   {StateClosed},
}

func (s State) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are allowed
func (s State) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether to may follow s
func (s State) CanTransition(to State) bool {
	for _, allowed := range transitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Machine tracks the stage of one session and records the path taken
type Machine struct {
	current State
	history []State
}

// NewMachine starts a machine in StateIdle
func NewMachine() *Machine {
	return &Machine{current: StateIdle, history: []State{StateIdle}}
}

// State returns the current state
func (m *Machine) State() State {
	return m.current
}

// History returns every state entered, oldest first
func (m *Machine) History() []State {
	return append([]State(nil), m.history...)
}

// Transition moves to the next state if the move is allowed
func (m *Machine) Transition(to State) error {
	if !m.current.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.current, to)
	}
	m.current = to
	m.history = append(m.history, to)
	return nil
}
