package construct

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/retrace"
	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/parsetree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type leafStack []parsetree.NodeID

func (ls *leafStack) PopLeaf() (parsetree.NodeID, bool) {
	if len(*ls) == 0 {
		return parsetree.NoNode, false
	}
	id := (*ls)[len(*ls)-1]
	*ls = (*ls)[:len(*ls)-1]
	return id, true
}

type treeNodes struct {
	tree   *parsetree.Tree
	leaves *leafStack
}

func (tn treeNodes) FinishNode(rule, choice uint32, slots [][]parsetree.NodeID, start, end retrace.Stamp) (parsetree.NodeID, error) {
	return tn.tree.FinishNode(rule, choice, slots, start, end)
}

func (tn treeNodes) FinishToken(rule uint32) (parsetree.NodeID, error) {
	return tn.tree.FinishToken(rule, tn.leaves)
}

// exprTables declares
//
//    Doc  -> expr:Expr
//    Expr -> left:Expr right:Expr operand:Expr name:token
//
// with operator choices
//
//    ',' flat 0, '+' left 1, '*' left 2, '^' right 3, '-' prefix 4, '!' postfix 5
//
func exprTables(t *testing.T, expressionRoot bool) *grammar.Tables {
	b := grammar.NewBuilder("expr")
	doc := b.Rule("Doc").Slot("expr", "Expr")
	expr := b.Rule("Expr").Slot("left", "Expr").Slot("right", "Expr").Slot("operand", "Expr").
		TokenSlot("name").Choice("atom").
		Operator(",", grammar.Infix, grammar.Flat, 0).
		Operator("+", grammar.Infix, grammar.Left, 1).
		Operator("*", grammar.Infix, grammar.Left, 2).
		Operator("^", grammar.Infix, grammar.Right, 3).
		Operator("-", grammar.Prefix, grammar.Left, 4).
		Operator("!", grammar.Postfix, grammar.Left, 5).
		Operands(0, 1, 2)
	if expressionRoot {
		expr.ExpressionRoot()
	} else {
		doc.Root()
	}
	b.Main().Start(0)
	tables, err := b.Tables()
	if err != nil {
		t.Fatalf("Expected expression tables to build, got %v", err)
	}
	return tables
}

var opChoice = map[string]uint32{",": 1, "+": 2, "*": 3, "^": 4, "-": 5, "!": 6}

// replay feeds the actions for an expression, given in document order, to an
// engine. Actions are generated back to front, the way the reverse decode
// produces them.
type replay struct {
	t      *testing.T
	tables *grammar.Tables
	tree   *parsetree.Tree
	leaves *leafStack
	engine *Engine
	next   uint64
}

func newReplay(t *testing.T, tables *grammar.Tables) *replay {
	tree := parsetree.NewTree(tables)
	leaves := &leafStack{}
	return &replay{
		t:      t,
		tables: tables,
		tree:   tree,
		leaves: leaves,
		engine: New(treeNodes{tree, leaves}, tables),
	}
}

func (r *replay) apply(kind grammar.ActionKind, slot uint16) error {
	err := r.engine.Apply(grammar.Act(kind, slot), retrace.StampAt(r.next))
	r.next++
	return err
}

func (r *replay) must(kind grammar.ActionKind, slot uint16) {
	if err := r.apply(kind, slot); err != nil {
		r.t.Fatalf("Expected %s %d to apply, got %v", kind, slot, err)
	}
}

func (r *replay) expression(items []string) {
	for i, it := range items { // scanner side: leaves in document order
		if _, ok := opChoice[it]; !ok {
			*r.leaves = append(*r.leaves, r.tree.NewLeaf(parsetree.IdentifierLeaf, it, 0,
				retrace.Span{uint64(i), uint64(i + 1)}))
		}
	}
	for i := len(items) - 1; i >= 0; i-- {
		if c, ok := opChoice[items[i]]; ok {
			r.must(grammar.EndOperator, 0)
			r.must(grammar.SetSlotChoice, uint16(c))
			r.must(grammar.BeginOperator, 0)
			continue
		}
		r.must(grammar.EndOperand, 0)
		r.must(grammar.SetSlotChoice, 0)
		r.must(grammar.TokenSlot, 3)
		r.must(grammar.BeginOperand, 0)
	}
}

func (r *replay) build(items []string) parsetree.NodeID {
	r.engine.Begin(retrace.StampAt(0), r.tables.RootIsExpression)
	r.next = 1
	if r.tables.RootIsExpression {
		r.expression(items)
	} else {
		r.must(grammar.EndExpressionSlot, 0)
		r.expression(items)
		r.must(grammar.BeginExpressionSlot, 0)
	}
	root, err := r.engine.Finish(retrace.StampAt(r.next))
	if err != nil {
		r.t.Fatalf("Expected tree to finish, got %v", err)
	}
	return root
}

// sexpr renders an Expr node as an s-expression.
func sexpr(tree *parsetree.Tree, tables *grammar.Tables, id parsetree.NodeID) string {
	n := tree.Node(id)
	if n.IsLeaf() {
		return n.Text
	}
	if n.Choice == 0 {
		return sexpr(tree, tables, n.Slots[3][0])
	}
	parts := []string{tables.ChoiceName(n.Rule, n.Choice)}
	for _, s := range n.Slots[:3] {
		for _, ch := range s {
			parts = append(parts, sexpr(tree, tables, ch))
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func TestExpressionFolding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.construct")
	defer teardown()
	//
	tables := exprTables(t, false)
	cases := []struct {
		input, expected string
	}{
		{"a", "a"},
		{"a + b * c", "(+ a (* b c))"},
		{"a * b + c", "(+ (* a b) c)"},
		{"a + b + c", "(+ (+ a b) c)"},
		{"a ^ b ^ c", "(^ a (^ b c))"},
		{"- a !", "(- (! a))"},
		{"- a * b", "(* (- a) b)"},
		{"a , b , c", "(, a b c)"},
		{"a , b * c , d", "(, a (* b c) d)"},
		{"a , b + c , d", "(, a (+ b c) d)"},
	}
	for _, c := range cases {
		r := newReplay(t, tables)
		root := r.build(strings.Fields(c.input))
		doc := r.tree.Node(root)
		if doc.Rule != 0 || len(doc.Slots[0]) != 1 {
			t.Fatalf("Expected Doc root with one expression, have %+v", doc)
		}
		if s := sexpr(r.tree, tables, doc.Slots[0][0]); s != c.expected {
			t.Errorf("Expected %q to fold to %s, is %s", c.input, c.expected, s)
		}
		if len(*r.leaves) != 0 {
			t.Errorf("Expected all leaves of %q to be consumed", c.input)
		}
	}
}

func TestOperatorSpan(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.construct")
	defer teardown()
	//
	tables := exprTables(t, false)
	r := newReplay(t, tables)
	root := r.build([]string{"-", "a", "+", "b"})
	plus := r.tree.Node(r.tree.Node(root).Slots[0][0])
	if tables.ChoiceName(plus.Rule, plus.Choice) != "+" {
		t.Fatalf("Expected '+' at the top, have choice %d", plus.Choice)
	}
	minus := r.tree.Node(plus.Slots[0][0])
	b := r.tree.Node(plus.Slots[1][0])
	if plus.Start != minus.Start || plus.End != b.End {
		t.Errorf("Expected '+' to span from '-' to 'b', is %v…%v", plus.Start, plus.End)
	}
	if !(minus.Start < b.Start) {
		t.Errorf("Expected '-' to start before 'b'")
	}
	if len(plus.Children) != 2 || plus.Children[0] != plus.Slots[0][0] {
		t.Errorf("Expected children of '+' in document order, have %v", plus.Children)
	}
}

func TestExpressionRoot(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.construct")
	defer teardown()
	//
	tables := exprTables(t, true)
	r := newReplay(t, tables)
	root := r.build([]string{"a", "*", "b"})
	if s := sexpr(r.tree, tables, root); s != "(* a b)" {
		t.Errorf("Expected expression root (* a b), is %s", s)
	}
}

func TestSlotChains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.construct")
	defer teardown()
	//
	b := grammar.NewBuilder("list")
	b.Rule("List").Slot("items", "Item").Root()
	b.Rule("Item").Choice("a").Choice("b")
	b.Main().Start(0)
	tables, err := b.Tables()
	if err != nil {
		t.Fatal(err)
	}
	r := newReplay(t, tables)
	r.engine.Begin(retrace.StampAt(0), false)
	r.next = 1
	// "(ab)" back to front
	r.must(grammar.EndSlot, 0)
	r.must(grammar.SetSlotChoice, 1)
	r.must(grammar.BeginSlot, 0)
	r.must(grammar.EndSlot, 0)
	r.must(grammar.SetSlotChoice, 0)
	r.must(grammar.BeginSlot, 0)
	root, err := r.engine.Finish(retrace.StampAt(r.next))
	if err != nil {
		t.Fatal(err)
	}
	list := r.tree.Node(root)
	if len(list.Slots[0]) != 2 {
		t.Fatalf("Expected 2 items, have %d", len(list.Slots[0]))
	}
	var choices []string
	for _, id := range list.Slots[0] {
		n := r.tree.Node(id)
		choices = append(choices, tables.ChoiceName(n.Rule, n.Choice))
	}
	if fmt.Sprint(choices) != "[a b]" {
		t.Errorf("Expected items [a b] in document order, have %v", choices)
	}
	if list.Depth != 2 {
		t.Errorf("Expected depth 2, is %d", list.Depth)
	}
}

func TestMalformedSequences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.construct")
	defer teardown()
	//
	tables := exprTables(t, false)
	r := newReplay(t, tables)
	r.engine.Begin(retrace.StampAt(0), false)
	if err := r.apply(grammar.BeginSlot, 0); !errors.Is(err, ErrActionSequence) {
		t.Errorf("Expected closing the root to fail, got %v", err)
	}
	r.must(grammar.EndSlot, 0)
	if err := r.apply(grammar.BeginExpressionSlot, 0); !errors.Is(err, ErrActionSequence) {
		t.Errorf("Expected mismatched begin to fail, got %v", err)
	}
	if err := r.apply(grammar.EndOperand, 0); !errors.Is(err, ErrActionSequence) {
		t.Errorf("Expected operand outside of expression to fail, got %v", err)
	}
	if _, err := r.engine.Finish(retrace.StampAt(9)); !errors.Is(err, ErrActionSequence) {
		t.Errorf("Expected open node to be reported, got %v", err)
	}
	r = newReplay(t, tables)
	r.engine.Begin(retrace.StampAt(0), false)
	r.must(grammar.EndExpressionSlot, 0)
	r.must(grammar.EndOperand, 0)
	if err := r.apply(grammar.TokenSlot, 3); !errors.Is(err, parsetree.ErrNoPendingLeaf) {
		t.Errorf("Expected missing leaf to be reported, got %v", err)
	}
}
