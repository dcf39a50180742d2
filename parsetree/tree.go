/*
Package parsetree implements parse trees as produced by package interp.

Nodes live in an arena owned by a Tree and refer to each other by NodeID.
A rule node owns one slot per declared slot of its rule, each slot holding a
chain of nodes in document order. Rule nodes additionally carry the list of
their rule-node children, sorted by start position, and the depth of their
subtree. Leaves hold identifiers, numbers or strings.

Nodes are created during reverse decoding, when real text offsets are not yet
known. Rule nodes are therefore created with abstract positions (stamps),
which are resolved to spans once decoding is complete.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parsetree

import (
	"errors"
	"fmt"

	"github.com/npillmayer/retrace"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'retrace.tree'.
func tracer() tracing.Trace {
	return tracing.Select("retrace.tree")
}

// NodeID addresses a node within its tree.
type NodeID int32

// NoNode is the null value for node ids.
const NoNode NodeID = -1

// NodeKind tells rule nodes from leaves.
type NodeKind uint8

// A node is either a rule node or one of three kinds of leaves.
const (
	RuleNode NodeKind = iota
	IdentifierLeaf
	NumberLeaf
	StringLeaf
)

func (k NodeKind) String() string {
	switch k {
	case RuleNode:
		return "rule"
	case IdentifierLeaf:
		return "identifier"
	case NumberLeaf:
		return "number"
	case StringLeaf:
		return "string"
	}
	return "?"
}

// Node is a node of a parse tree.
type Node struct {
	Kind     NodeKind
	Rule     uint32
	Choice   uint32
	Slots    [][]NodeID // one chain per slot of Rule
	Children []NodeID   // rule nodes within Slots, sorted by start position
	Depth    uint32     // 1 + max depth of Children; leaves have depth 0
	Start    retrace.Stamp
	End      retrace.Stamp
	Span     retrace.Span // valid after Resolve; leaves get it from the scanner
	Text     string       // identifiers and strings, no escapes processed
	Number   float64
}

// IsLeaf is true for identifier, number and string leaves.
func (n *Node) IsLeaf() bool {
	return n.Kind != RuleNode
}

// Schema is the part of the rule schema a tree needs.
type Schema interface {
	NumberOfSlots(rule uint32) int
}

// ErrSchemaMismatch is returned when nodes disagree with the rule schema.
var ErrSchemaMismatch = errors.New("parse node does not match rule schema")

// ErrNoPendingLeaf is returned when a leaf is requested but none is pending.
var ErrNoPendingLeaf = errors.New("no pending leaf")

// Tree is an arena of parse nodes. A tree is built by a single goroutine;
// once complete it may be read concurrently.
type Tree struct {
	nodes    []Node
	root     NodeID
	schema   Schema
	resolved bool
}

// NewTree creates an empty tree for a rule schema.
func NewTree(schema Schema) *Tree {
	return &Tree{
		nodes:  make([]Node, 0, 64),
		root:   NoNode,
		schema: schema,
	}
}

// Node returns the node for an id. The pointer is valid until the next node
// is allocated.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Size returns the number of nodes, leaves included.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Root returns the root node id, or NoNode.
func (t *Tree) Root() NodeID {
	return t.root
}

// SetRoot declares a node to be the root of the tree.
func (t *Tree) SetRoot(id NodeID) {
	t.root = id
}

// Resolved is true if spans of rule nodes are valid.
func (t *Tree) Resolved() bool {
	return t.resolved
}

// NewLeaf allocates a leaf.
func (t *Tree) NewLeaf(kind NodeKind, text string, number float64, span retrace.Span) NodeID {
	t.nodes = append(t.nodes, Node{
		Kind:   kind,
		Rule:   0,
		Text:   text,
		Number: number,
		Span:   span,
	})
	return NodeID(len(t.nodes) - 1)
}

// FinishNode allocates a rule node. slots must have exactly one entry per
// declared slot of rule. Children are collected from the slot chains and
// sorted by start position; children starting at the same position keep the
// order in which they appear in the slots.
func (t *Tree) FinishNode(rule, choice uint32, slots [][]NodeID, start, end retrace.Stamp) (NodeID, error) {
	if t.schema != nil {
		if n := t.schema.NumberOfSlots(rule); n != len(slots) {
			return NoNode, fmt.Errorf("%w: rule %d has %d slots, node has %d", ErrSchemaMismatch, rule, n, len(slots))
		}
	}
	node := Node{
		Kind:   RuleNode,
		Rule:   rule,
		Choice: choice,
		Slots:  slots,
		Start:  start,
		End:    end,
	}
	var maxDepth uint32
	for _, chain := range slots {
		for _, id := range chain {
			ch := t.Node(id)
			if ch == nil {
				return NoNode, fmt.Errorf("%w: rule %d refers to unknown node %d", ErrSchemaMismatch, rule, id)
			}
			if ch.Kind != RuleNode {
				continue
			}
			node.Children = append(node.Children, id)
			if ch.Depth > maxDepth {
				maxDepth = ch.Depth
			}
		}
	}
	node.Depth = maxDepth + 1
	slices.SortStableFunc(node.Children, func(a, b NodeID) int {
		sa, sb := t.nodes[a].Start, t.nodes[b].Start
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})
	t.nodes = append(t.nodes, node)
	id := NodeID(len(t.nodes) - 1)
	tracer().Debugf("finished node %d: rule %d/%d, %d children, depth %d", id, rule, choice,
		len(node.Children), node.Depth)
	return id, nil
}

// LeafSource hands out pending leaves, the last one scanned first.
type LeafSource interface {
	PopLeaf() (NodeID, bool)
}

// FinishToken takes the next pending leaf from leaves.
func (t *Tree) FinishToken(rule uint32, leaves LeafSource) (NodeID, error) {
	id, ok := leaves.PopLeaf()
	if !ok {
		return NoNode, fmt.Errorf("%w for rule %d", ErrNoPendingLeaf, rule)
	}
	if t.Node(id) == nil {
		return NoNode, fmt.Errorf("%w: pending leaf %d unknown", ErrSchemaMismatch, id)
	}
	return id, nil
}

// Resolve maps the stamps of all rule nodes to concrete spans.
func (t *Tree) Resolve(resolve func(retrace.Stamp) (uint64, error)) error {
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.Kind != RuleNode {
			continue
		}
		from, err := resolve(n.Start)
		if err != nil {
			return fmt.Errorf("node %d start: %w", i, err)
		}
		to, err := resolve(n.End)
		if err != nil {
			return fmt.Errorf("node %d end: %w", i, err)
		}
		n.Span = retrace.Span{from, to}
	}
	t.resolved = true
	return nil
}
