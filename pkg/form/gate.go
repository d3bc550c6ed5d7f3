package form

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrFieldLocked  = errors.New("field is not enabled yet")
)

// Action is an operation unlocked once the whole chain has validated.
type Action string

const (
	ActionRootCause  Action = "rootCause"
	ActionCorrective Action = "correctiveAction"
	ActionAttach     Action = "attach"
	ActionSave       Action = "save"
)

// Actions are unlocked together, in this order.
var Actions = []Action{ActionRootCause, ActionCorrective, ActionAttach, ActionSave}

// Unlock is the outcome of one transition: either the next field index or
// the auxiliary actions, or nothing.
type Unlock struct {
	Field   int // -1 when no field is unlocked
	Actions bool
}

// Advance is the transition function of the chain. A valid field unlocks its
// successor, or the actions when it is the last one; an invalid field unlocks
// nothing and never locks anything already enabled.
func Advance(index int, valid bool, length int) Unlock {
	if !valid || index < 0 || index >= length {
		return Unlock{Field: -1}
	}
	if index+1 < length {
		return Unlock{Field: index + 1}
	}
	return Unlock{Field: -1, Actions: true}
}

// Gate holds the values and enablement of one form instance. It is not safe
// for concurrent use.
type Gate struct {
	chain   Chain
	values  []string
	enabled []bool
	unlock  bool
}

// NewGate returns a gate in its initial state: only the first field enabled.
func NewGate(chain Chain) *Gate {
	g := &Gate{chain: chain}
	g.Reset()
	return g
}

// Reset clears every value and returns to the initial state.
func (g *Gate) Reset() {
	g.values = make([]string, len(g.chain))
	g.enabled = make([]bool, len(g.chain))
	if len(g.enabled) > 0 {
		g.enabled[0] = true
	}
	g.unlock = false
}

// Set changes the value of an enabled field and applies the transition.
// It returns whether the new value is valid.
func (g *Gate) Set(name, value string) (bool, error) {
	i := g.chain.Index(name)
	if i < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if !g.enabled[i] {
		return false, fmt.Errorf("%w: %q", ErrFieldLocked, name)
	}
	return g.apply(i, value), nil
}

// Populate writes a value whether or not the field is enabled, then applies
// the same transition as Set.
func (g *Gate) Populate(name, value string) (bool, error) {
	i := g.chain.Index(name)
	if i < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return g.apply(i, value), nil
}

func (g *Gate) apply(i int, value string) bool {
	g.values[i] = value
	valid := g.chain[i].Kind.Validate(value)
	u := Advance(i, valid, len(g.chain))
	if u.Field >= 0 {
		g.enabled[u.Field] = true
	}
	if u.Actions {
		g.unlock = true
	}
	return valid
}

// Value returns the current text of a field.
func (g *Gate) Value(name string) string {
	if i := g.chain.Index(name); i >= 0 {
		return g.values[i]
	}
	return ""
}

// Values returns a copy of all field values keyed by field name.
func (g *Gate) Values() map[string]string {
	out := make(map[string]string, len(g.chain))
	for i, f := range g.chain {
		out[f.Name] = g.values[i]
	}
	return out
}

// Enabled reports whether a field accepts Set.
func (g *Gate) Enabled(name string) bool {
	i := g.chain.Index(name)
	return i >= 0 && g.enabled[i]
}

// ActionsUnlocked reports whether the auxiliary actions and save are enabled.
func (g *Gate) ActionsUnlocked() bool {
	return g.unlock
}

// FieldState is the externally visible state of one field.
type FieldState struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
	Valid   bool   `json:"valid"`
}

// State is a snapshot of the whole gate.
type State struct {
	Fields  []FieldState    `json:"fields"`
	Actions map[Action]bool `json:"actions"`
}

// Snapshot returns the current state.
func (g *Gate) Snapshot() State {
	st := State{
		Fields:  make([]FieldState, len(g.chain)),
		Actions: make(map[Action]bool, len(Actions)),
	}
	for i, f := range g.chain {
		st.Fields[i] = FieldState{
			Name:    f.Name,
			Kind:    f.Kind.String(),
			Value:   g.values[i],
			Enabled: g.enabled[i],
			Valid:   f.Kind.Validate(g.values[i]),
		}
	}
	for _, a := range Actions {
		st.Actions[a] = g.unlock
	}
	return st
}
