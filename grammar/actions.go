package grammar

import (
	"fmt"
	"sync"

	"github.com/npillmayer/retrace/grammar/sparse"
)

// ActionKind is the vocabulary of tree construction actions.
type ActionKind uint8

// The zero kind terminates an action list.
const (
	ActionStop ActionKind = iota
	BeginSlot
	EndSlot
	BeginExpressionSlot
	EndExpressionSlot
	BeginOperand
	EndOperand
	BeginOperator
	EndOperator
	SetSlotChoice
	TokenSlot
)

var actionKindNames = [...]string{
	"stop",
	"begin-slot",
	"end-slot",
	"begin-expression-slot",
	"end-expression-slot",
	"begin-operand",
	"end-operand",
	"begin-operator",
	"end-operator",
	"set-slot-choice",
	"token-slot",
}

func (k ActionKind) String() string {
	if int(k) < len(actionKindNames) {
		return actionKindNames[k]
	}
	return fmt.Sprintf("action(%d)", uint8(k))
}

// MarshalText lets tables files spell out action kinds.
func (k ActionKind) MarshalText() ([]byte, error) {
	if int(k) >= len(actionKindNames) {
		return nil, fmt.Errorf("unknown action kind %d", uint8(k))
	}
	return []byte(actionKindNames[k]), nil
}

// UnmarshalText is the inverse of MarshalText.
func (k *ActionKind) UnmarshalText(text []byte) error {
	for i, name := range actionKindNames {
		if name == string(text) {
			*k = ActionKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action kind %q", string(text))
}

// IsBegin is true for begin-slot, begin-expression-slot, begin-operand and begin-operator.
func (k ActionKind) IsBegin() bool {
	switch k {
	case BeginSlot, BeginExpressionSlot, BeginOperand, BeginOperator:
		return true
	}
	return false
}

// IsEnd is true for end-slot, end-expression-slot, end-operand and end-operator.
func (k ActionKind) IsEnd() bool {
	switch k {
	case EndSlot, EndExpressionSlot, EndOperand, EndOperator:
		return true
	}
	return false
}

// Action is a single tree construction instruction. For set-slot-choice,
// Slot carries the choice index.
type Action struct {
	Kind ActionKind `json:"kind" yaml:"kind"`
	Slot uint16     `json:"slot" yaml:"slot"`
}

// Act is a shortcut for creating an action.
func Act(kind ActionKind, slot uint16) Action {
	return Action{Kind: kind, Slot: slot}
}

func (a Action) String() string {
	return fmt.Sprintf("%s %d", a.Kind, a.Slot)
}

// ActionEntry is an entry of an action map.
type ActionEntry struct {
	NFAState uint32 `json:"nfa_state" yaml:"nfa_state"` // reversed-automaton state (key)
	State    uint32 `json:"state" yaml:"state"`         // deterministic state id, untagged (key)
	Symbol   Symbol `json:"symbol" yaml:"symbol"`       // token symbol (key)
	Next     uint32 `json:"next" yaml:"next"`           // reversed-automaton state to continue from
	// Only for bracket-transition tokens: selects the bracket sub-automaton
	// state to continue from.
	NFASymbol   Symbol `json:"nfa_symbol,omitempty" yaml:"nfa_symbol,omitempty"`
	ActionIndex uint32 `json:"action_index" yaml:"action_index"`
}

// ActionMap holds action map entries plus the action lists they refer to.
// Action lists are stored back to back, each terminated by an ActionStop.
type ActionMap struct {
	Entries []ActionEntry `json:"entries" yaml:"entries"`
	Actions []Action      `json:"actions" yaml:"actions"`
	once    sync.Once
	index   *sparse.IntCube
}

const noEntry = -1

func (m *ActionMap) buildIndex() {
	m.index = sparse.NewIntCube(noEntry)
	for i, e := range m.Entries {
		m.index.Set(e.NFAState, e.State, uint32(e.Symbol), int32(i))
	}
	tracer().Debugf("action map indexed, %d entries", m.index.ValueCount())
}

// Find looks up the entry for (reversed state, deterministic state, symbol).
// It is safe to call Find from concurrent parses.
func (m *ActionMap) Find(nfaState, state uint32, sym Symbol) (*ActionEntry, bool) {
	m.once.Do(m.buildIndex)
	i := m.index.Value(nfaState, state, uint32(sym))
	if i == noEntry {
		return nil, false
	}
	return &m.Entries[i], true
}

// ActionsAt returns the action list of an entry, without its terminator.
func (m *ActionMap) ActionsAt(entry *ActionEntry) []Action {
	if entry == nil || int(entry.ActionIndex) >= len(m.Actions) {
		return nil
	}
	actions := m.Actions[entry.ActionIndex:]
	for k, a := range actions {
		if a.Kind == ActionStop {
			return actions[:k]
		}
	}
	return actions
}
