package parsetree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/retrace"
)

/*
Parse trees produced by interp are unambiguous, so walking them is plain
recursion over the slot chains. Clients attach behaviour through a Listener,
which may compute a value per node and propagate it upwards.
*/

// Direction lets clients decide wether children nodes should be traversed left-to-right
// (default) or right-to-left.
type Direction int

// Children nodes may be traversed left-to-right (default) or right-to-left.
const (
	LtoR Direction = 1
	RtoL Direction = -1
)

// Breakmode is a client hint wether to stop traversing on break-signals or not.
type Breakmode int

// Setting Continue will always traverse a complete (sub-)tree. Break will skip
// traversing sub-tree as soon as an Enter-function signals a break.
const (
	Continue Breakmode = iota
	Break
)

// Listener is a type for walking a parse tree.
//
// EnterRule returns a boolean value indicating if the traversal should continue to
// the children of this node. ExitRule and Leaf may return user-defined values
// to be propagated upwards of the tree. ExitRule receives the values of all
// nodes of the slots, in traversal order.
type Listener interface {
	EnterRule(*Node, RuleCtxt) bool
	ExitRule(*Node, []interface{}, RuleCtxt) interface{}
	Leaf(*Node, RuleCtxt) interface{}
}

// RuleCtxt is a context structure for Listeners.
type RuleCtxt struct {
	ID     NodeID
	Span   retrace.Span // span of input covered by this node
	Level  int          // nesting level
	Parent NodeID       // NoNode for the root
	Slot   int          // slot of the parent holding this node, -1 for the root
}

// Walk traverses the tree top-down, starting at the root, applying
// Listener-methods for all nodes encountered. It returns a user-defined
// value, calculated by the listener.
func (t *Tree) Walk(listener Listener, dir Direction, breakmode Breakmode) interface{} {
	if t.root == NoNode {
		return nil
	}
	return t.WalkFrom(t.root, listener, dir, breakmode)
}

// WalkFrom traverses the sub-tree rooted at id.
func (t *Tree) WalkFrom(id NodeID, listener Listener, dir Direction, breakmode Breakmode) interface{} {
	tracer().Debugf("Walk starting at node %d", id)
	return t.traverse(id, NoNode, -1, listener, dir, breakmode, 0)
}

func (t *Tree) traverse(id, parent NodeID, slot int, listener Listener, dir Direction,
	breakmode Breakmode, level int) interface{} {
	//
	node := t.Node(id)
	ctxt := RuleCtxt{ID: id, Span: node.Span, Level: level, Parent: parent, Slot: slot}
	if node.IsLeaf() {
		return listener.Leaf(node, ctxt)
	}
	var values []interface{}
	doContinue := listener.EnterRule(node, ctxt)
	if doContinue || breakmode == Continue { // listener signalled us to traverse children nodes
		slots := node.Slots
		for i := range slots {
			s := i
			if dir == RtoL {
				s = len(slots) - 1 - i
			}
			chain := slots[s]
			for j := range chain {
				k := j
				if dir == RtoL {
					k = len(chain) - 1 - j
				}
				v := t.traverse(chain[k], id, s, listener, dir, breakmode, level+1)
				values = append(values, v)
			}
		}
	}
	return listener.ExitRule(node, values, ctxt)
}

// --- Dump ------------------------------------------------------------------

// Namer provides names for rules, choices and slots.
type Namer interface {
	RuleName(rule uint32) string
	ChoiceName(rule, choice uint32) string
	SlotName(rule uint32, slot int) string
}

// Label returns a one-line description of a node: rule name, choice or
// operator name, the name of the slot the node lives in, and its span.
func (t *Tree) Label(id NodeID, names Namer, parent NodeID, slot int) string {
	node := t.Node(id)
	if node == nil {
		return "<nil>"
	}
	var b strings.Builder
	switch node.Kind {
	case RuleNode:
		b.WriteString(names.RuleName(node.Rule))
		if c := names.ChoiceName(node.Rule, node.Choice); c != "" {
			b.WriteString(" : ")
			b.WriteString(c)
		}
	case NumberLeaf:
		b.WriteString(fmt.Sprintf("%g", node.Number))
	default:
		b.WriteString(node.Text)
	}
	if p := t.Node(parent); p != nil && slot >= 0 {
		if s := names.SlotName(p.Rule, slot); s != "" && (node.IsLeaf() || s != names.RuleName(node.Rule)) {
			b.WriteString(" @")
			b.WriteString(s)
		}
	}
	if node.IsLeaf() || t.resolved {
		b.WriteString(" ")
		b.WriteString(node.Span.String())
	}
	return b.String()
}

type dumper struct {
	t     *Tree
	names Namer
	w     io.Writer
}

func (d dumper) line(node *Node, ctxt RuleCtxt) {
	fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", ctxt.Level), d.t.Label(ctxt.ID, d.names, ctxt.Parent, ctxt.Slot))
}

func (d dumper) EnterRule(node *Node, ctxt RuleCtxt) bool {
	d.line(node, ctxt)
	return true
}

func (d dumper) ExitRule(*Node, []interface{}, RuleCtxt) interface{} {
	return nil
}

func (d dumper) Leaf(node *Node, ctxt RuleCtxt) interface{} {
	d.line(node, ctxt)
	return nil
}

// Dump writes an indented textual representation of the tree to w.
func (t *Tree) Dump(w io.Writer, names Namer) {
	t.Walk(dumper{t: t, names: names, w: w}, LtoR, Continue)
}
