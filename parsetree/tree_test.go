package parsetree

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/retrace"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// rule 0 = Pair(left, right), rule 1 = Atom(name)
type schema []int

func (s schema) NumberOfSlots(rule uint32) int { return s[rule] }

type names struct{}

func (names) RuleName(rule uint32) string {
	return []string{"Pair", "Atom"}[rule]
}
func (names) ChoiceName(rule, choice uint32) string { return "" }
func (names) SlotName(rule uint32, slot int) string {
	if rule == 0 {
		return []string{"left", "right"}[slot]
	}
	return "name"
}

type leafStack []NodeID

func (ls *leafStack) PopLeaf() (NodeID, bool) {
	if len(*ls) == 0 {
		return NoNode, false
	}
	id := (*ls)[len(*ls)-1]
	*ls = (*ls)[:len(*ls)-1]
	return id, true
}

func TestFinishNodeSlotCount(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.tree")
	defer teardown()
	//
	tree := NewTree(schema{2, 1})
	_, err := tree.FinishNode(0, 0, make([][]NodeID, 1), retrace.StampAt(3), retrace.StampAt(0))
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Expected schema mismatch for wrong slot count, got %v", err)
	}
}

func TestChildrenAndDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.tree")
	defer teardown()
	//
	tree := NewTree(schema{2, 1})
	// stamps grow with document position
	a, _ := tree.FinishNode(1, 0, [][]NodeID{nil}, retrace.StampAt(9), retrace.StampAt(8))
	b, _ := tree.FinishNode(1, 0, [][]NodeID{nil}, retrace.StampAt(5), retrace.StampAt(4))
	c, _ := tree.FinishNode(1, 0, [][]NodeID{nil}, retrace.StampAt(5), retrace.StampAt(3))
	leaf := tree.NewLeaf(IdentifierLeaf, "x", 0, retrace.Span{7, 8})
	inner, err := tree.FinishNode(0, 0, [][]NodeID{{b, leaf}, {c}}, retrace.StampAt(5), retrace.StampAt(3))
	if err != nil {
		t.Fatal(err)
	}
	root, err := tree.FinishNode(0, 0, [][]NodeID{{inner}, {a}}, retrace.StampAt(9), retrace.StampAt(0))
	if err != nil {
		t.Fatal(err)
	}
	n := tree.Node(inner)
	if len(n.Children) != 2 || n.Children[0] != b || n.Children[1] != c {
		t.Errorf("Expected children [b c] in encounter order for equal starts, have %v", n.Children)
	}
	if n.Depth != 2 {
		t.Errorf("Expected depth 2 for inner node, is %d", n.Depth)
	}
	r := tree.Node(root)
	if len(r.Children) != 2 || r.Children[0] != a || r.Children[1] != inner {
		t.Errorf("Expected children sorted by start [a inner], have %v", r.Children)
	}
	if r.Depth != 3 {
		t.Errorf("Expected depth 3 for root, is %d", r.Depth)
	}
	if tree.Node(leaf).Depth != 0 {
		t.Errorf("Expected leaves to have depth 0")
	}
}

func TestFinishToken(t *testing.T) {
	tree := NewTree(schema{2, 1})
	x := tree.NewLeaf(IdentifierLeaf, "x", 0, retrace.Span{0, 1})
	y := tree.NewLeaf(NumberLeaf, "", 42, retrace.Span{2, 4})
	leaves := &leafStack{x, y}
	if id, err := tree.FinishToken(1, leaves); err != nil || id != y {
		t.Errorf("Expected last pushed leaf first, got %d (%v)", id, err)
	}
	if id, err := tree.FinishToken(1, leaves); err != nil || id != x {
		t.Errorf("Expected leaf x second, got %d (%v)", id, err)
	}
	if _, err := tree.FinishToken(1, leaves); !errors.Is(err, ErrNoPendingLeaf) {
		t.Errorf("Expected empty leaf stack to be reported, got %v", err)
	}
}

func TestResolveAndDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.tree")
	defer teardown()
	//
	tree := NewTree(schema{2, 1})
	x := tree.NewLeaf(IdentifierLeaf, "x", 0, retrace.Span{1, 2})
	atom, _ := tree.FinishNode(1, 0, [][]NodeID{{x}}, retrace.StampAt(2), retrace.StampAt(1))
	root, _ := tree.FinishNode(0, 0, [][]NodeID{{atom}, nil}, retrace.StampAt(3), retrace.StampAt(0))
	tree.SetRoot(root)
	offsets := []uint64{0, 1, 2, 3}
	err := tree.Resolve(func(st retrace.Stamp) (uint64, error) {
		i := st.Index()
		if i >= uint64(len(offsets)) {
			return 0, fmt.Errorf("stamp %v out of range", st)
		}
		return offsets[len(offsets)-1-int(i)], nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if sp := tree.Node(atom).Span; sp != (retrace.Span{1, 2}) {
		t.Errorf("Expected atom span [1…2), is %v", sp)
	}
	var b strings.Builder
	tree.Dump(&b, names{})
	expected := "Pair [0…3)\n  Atom @left [1…2)\n    x @name [1…2)\n"
	if b.String() != expected {
		t.Errorf("Unexpected dump:\n%s", b.String())
	}
}
