package grammar

import (
	"fmt"
	"math"
)

// NoRule marks a slot which holds tokens instead of rule nodes.
const NoRule = math.MaxUint32

// Slot is a named position in a rule's node layout.
type Slot struct {
	Name string `json:"name" yaml:"name"`
	Rule uint32 `json:"rule" yaml:"rule"`
}

// Rule describes the node layout of a grammar rule.
//
// Choices are numbered first; operators continue the numbering, i.e. choice
// index len(Choices)+i denotes Operators[i].
type Rule struct {
	Name        string     `json:"name" yaml:"name"`
	Slots       []Slot     `json:"slots,omitempty" yaml:"slots,omitempty"`
	Choices     []string   `json:"choices,omitempty" yaml:"choices,omitempty"`
	Operators   []Operator `json:"operators,omitempty" yaml:"operators,omitempty"`
	LeftSlot    uint32     `json:"left_slot" yaml:"left_slot"`
	RightSlot   uint32     `json:"right_slot" yaml:"right_slot"`
	OperandSlot uint32     `json:"operand_slot" yaml:"operand_slot"`
}

// Operator is an operator choice of an expression rule.
type Operator struct {
	Name          string        `json:"name" yaml:"name"`
	Fixity        Fixity        `json:"fixity" yaml:"fixity"`
	Associativity Associativity `json:"associativity,omitempty" yaml:"associativity,omitempty"`
	Precedence    int           `json:"precedence" yaml:"precedence"`
}

// Fixity of an operator.
type Fixity uint8

// Operators are prefix, postfix or infix.
const (
	Prefix Fixity = iota
	Postfix
	Infix
)

var fixityNames = [...]string{"prefix", "postfix", "infix"}

func (f Fixity) String() string {
	if int(f) < len(fixityNames) {
		return fixityNames[f]
	}
	return fmt.Sprintf("fixity(%d)", uint8(f))
}

// MarshalText is part of encoding.TextMarshaler.
func (f Fixity) MarshalText() ([]byte, error) {
	if int(f) >= len(fixityNames) {
		return nil, fmt.Errorf("unknown fixity %d", uint8(f))
	}
	return []byte(fixityNames[f]), nil
}

// UnmarshalText is part of encoding.TextUnmarshaler.
func (f *Fixity) UnmarshalText(text []byte) error {
	for i, name := range fixityNames {
		if name == string(text) {
			*f = Fixity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown fixity %q", string(text))
}

// Associativity of an infix operator.
type Associativity uint8

// Infix operators associate to the left, to the right, flat (repeated
// applications collapse into one node) or not at all.
const (
	Left Associativity = iota
	Right
	Flat
	NonAssoc
)

var associativityNames = [...]string{"left", "right", "flat", "nonassoc"}

func (a Associativity) String() string {
	if int(a) < len(associativityNames) {
		return associativityNames[a]
	}
	return fmt.Sprintf("associativity(%d)", uint8(a))
}

// MarshalText is part of encoding.TextMarshaler.
func (a Associativity) MarshalText() ([]byte, error) {
	if int(a) >= len(associativityNames) {
		return nil, fmt.Errorf("unknown associativity %d", uint8(a))
	}
	return []byte(associativityNames[a]), nil
}

// UnmarshalText is part of encoding.TextUnmarshaler.
func (a *Associativity) UnmarshalText(text []byte) error {
	for i, name := range associativityNames {
		if name == string(text) {
			*a = Associativity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown associativity %q", string(text))
}

// OperatorKind combines fixity and associativity the way a tree builder
// needs it.
type OperatorKind uint8

// Non-associative infix operators are treated as left-associative.
const (
	PrefixOperator OperatorKind = iota
	PostfixOperator
	InfixFlat
	InfixLeft
	InfixRight
)

func (k OperatorKind) String() string {
	switch k {
	case PrefixOperator:
		return "prefix"
	case PostfixOperator:
		return "postfix"
	case InfixFlat:
		return "infix-flat"
	case InfixLeft:
		return "infix-left"
	case InfixRight:
		return "infix-right"
	}
	return fmt.Sprintf("operator(%d)", uint8(k))
}

// IsInfix is true for the three infix kinds.
func (k OperatorKind) IsInfix() bool {
	return k >= InfixFlat
}

// --- Schema accessors ------------------------------------------------------

// RootRule returns the index of the root rule.
func (t *Tables) RootRule() uint32 {
	return t.Root
}

// NumberOfSlots returns the number of slots declared for a rule.
func (t *Tables) NumberOfSlots(rule uint32) int {
	if int(rule) >= len(t.Rules) {
		return 0
	}
	return len(t.Rules[rule].Slots)
}

// RuleLookup returns the rule a slot of parent holds. Token slots return NoRule.
func (t *Tables) RuleLookup(parent uint32, slot uint16) uint32 {
	if int(parent) >= len(t.Rules) || int(slot) >= len(t.Rules[parent].Slots) {
		return NoRule
	}
	return t.Rules[parent].Slots[slot].Rule
}

// IsOperatorChoice is true if choice selects one of the rule's operators.
func (t *Tables) IsOperatorChoice(rule, choice uint32) bool {
	if int(rule) >= len(t.Rules) {
		return false
	}
	r := &t.Rules[rule]
	return int(choice) >= len(r.Choices) && int(choice)-len(r.Choices) < len(r.Operators)
}

// OperatorLookup returns kind and precedence of an operator choice.
// choice must not be smaller than the number of regular choices of rule.
func (t *Tables) OperatorLookup(rule, choice uint32) (OperatorKind, int, error) {
	if !t.IsOperatorChoice(rule, choice) {
		return 0, 0, fmt.Errorf("choice %d of rule %d is not an operator", choice, rule)
	}
	r := &t.Rules[rule]
	op := r.Operators[int(choice)-len(r.Choices)]
	switch op.Fixity {
	case Prefix:
		return PrefixOperator, op.Precedence, nil
	case Postfix:
		return PostfixOperator, op.Precedence, nil
	}
	switch op.Associativity {
	case Flat:
		return InfixFlat, op.Precedence, nil
	case Right:
		return InfixRight, op.Precedence, nil
	}
	return InfixLeft, op.Precedence, nil
}

// OperandSlots returns the slot indices holding the left operand, the right
// operand and the single operand of a rule's operators.
func (t *Tables) OperandSlots(rule uint32) (left, right, operand uint32) {
	if int(rule) >= len(t.Rules) {
		return NoRule, NoRule, NoRule
	}
	r := &t.Rules[rule]
	return r.LeftSlot, r.RightSlot, r.OperandSlot
}

// RuleName returns the name of a rule.
func (t *Tables) RuleName(rule uint32) string {
	if int(rule) >= len(t.Rules) {
		return fmt.Sprintf("rule(%d)", rule)
	}
	return t.Rules[rule].Name
}

// ChoiceName returns the name of a choice or operator of a rule.
func (t *Tables) ChoiceName(rule, choice uint32) string {
	if int(rule) >= len(t.Rules) {
		return ""
	}
	r := &t.Rules[rule]
	if int(choice) < len(r.Choices) {
		return r.Choices[choice]
	}
	if t.IsOperatorChoice(rule, choice) {
		return r.Operators[int(choice)-len(r.Choices)].Name
	}
	return ""
}

// SlotName returns the name of a slot of a rule.
func (t *Tables) SlotName(rule uint32, slot int) string {
	if int(rule) >= len(t.Rules) || slot >= len(t.Rules[rule].Slots) {
		return ""
	}
	return t.Rules[rule].Slots[slot].Name
}
