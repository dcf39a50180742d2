package grammar

import (
	"bufio"
	"fmt"
	"io"
)

// Automaton is a deterministic finite-state matcher over token symbols.
type Automaton struct {
	Start  uint32           `json:"start" yaml:"start"`
	States []AutomatonState `json:"states" yaml:"states"`
}

// AutomatonState is a state within an automaton.
type AutomatonState struct {
	Accepting bool `json:"accepting,omitempty" yaml:"accepting,omitempty"`
	// For accepting states of the bracket automaton: the real token the
	// closing bracket stands for.
	TransitionSymbol Symbol `json:"transition_symbol" yaml:"transition_symbol"`
	Edges            []Edge `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// Edge is a labeled transition to a target state.
type Edge struct {
	Symbol Symbol `json:"symbol" yaml:"symbol"`
	Target uint32 `json:"target" yaml:"target"`
}

// Size returns the number of states.
func (a *Automaton) Size() int {
	return len(a.States)
}

// Follow returns the state reached from state by an edge labeled sym.
func (a *Automaton) Follow(state uint32, sym Symbol) (uint32, bool) {
	if int(state) >= len(a.States) {
		return state, false
	}
	for _, e := range a.States[state].Edges {
		if e.Symbol == sym {
			return e.Target, true
		}
	}
	return state, false
}

// Accepting is true if state is an accepting state.
func (a *Automaton) Accepting(state uint32) bool {
	return int(state) < len(a.States) && a.States[state].Accepting
}

// TransitionSymbol returns the transition symbol recorded for state.
func (a *Automaton) TransitionSymbol(state uint32) Symbol {
	if int(state) >= len(a.States) {
		return Epsilon
	}
	return a.States[state].TransitionSymbol
}

// ToGraphViz exports an automaton to the Graphviz Dot format. Edge labels
// are resolved with the token table of t.
func (a *Automaton) ToGraphViz(w io.Writer, t *Tables) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(`digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	for id, s := range a.States {
		label := fmt.Sprintf("%03d", id)
		if uint32(id) == a.Start {
			label += " | start"
		}
		if s.Accepting && s.TransitionSymbol != Epsilon && t != nil {
			label += " | ⇥ " + escapeDot(t.SymbolName(s.TransitionSymbol))
		}
		bw.WriteString(fmt.Sprintf("s%03d [fillcolor=%s label=\"{%s}\"]\n",
			id, nodecolor(s), label))
	}
	for id, s := range a.States {
		for _, e := range s.Edges {
			name := e.Symbol.String()
			if t != nil {
				name = t.SymbolName(e.Symbol)
			}
			bw.WriteString(fmt.Sprintf("s%03d -> s%03d [label=\"%s\"]\n", id, e.Target, escapeDot(name)))
		}
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func nodecolor(state AutomatonState) string {
	if state.Accepting {
		return "lightgray"
	}
	return "white"
}

func escapeDot(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		switch c {
		case '"', '\\', '{', '}', '|', '<', '>':
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
