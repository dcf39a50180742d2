package grammar

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// listTables builds tables for
//
//    List -> '(' Item* ')'
//    Item -> 'a' | 'b'
//
func listTables(t *testing.T) *Tables {
	b := NewBuilder("List")
	open, close := b.Keyword("("), b.Keyword(")")
	a, bb := b.Keyword("a"), b.Keyword("b")
	b.Rule("List").Slot("items", "Item").Root()
	b.Rule("Item").Choice("a").Choice("b")
	b.Main().Start(0).Edge(0, open, 1).Edge(1, a, 1).Edge(1, bb, 1).Edge(1, close, 2).Accept(2, Epsilon)
	b.Entry(0, Main(1), close, 0)
	b.Entry(0, Main(1), bb, 0, Act(EndSlot, 0), Act(SetSlotChoice, 1))
	b.Entry(0, Main(1), a, 0, Act(BeginSlot, 0), Act(EndSlot, 0), Act(SetSlotChoice, 0))
	b.Entry(0, Main(0), open, 0, Act(BeginSlot, 0))
	b.Entry(0, BoundaryState, Boundary, 0)
	tables, err := b.Tables()
	if err != nil {
		t.Fatalf("Expected list tables to build, got %v", err)
	}
	return tables
}

func TestBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.grammar")
	defer teardown()
	//
	tables := listTables(t)
	if tables.KeywordCount != 4 || tables.NumberOfTokens() != 4 {
		t.Errorf("Expected 4 keywords, have %d of %d tokens", tables.KeywordCount, tables.NumberOfTokens())
	}
	if tables.TokenSymbol(IdentifierToken) != Epsilon {
		t.Errorf("Expected grammar without identifiers")
	}
	if n := tables.NumberOfSlots(0); n != 1 {
		t.Errorf("Expected List to have 1 slot, has %d", n)
	}
	if r := tables.RuleLookup(0, 0); r != 1 {
		t.Errorf("Expected slot 0 of List to hold Item, holds %d", r)
	}
	if r := tables.RuleLookup(1, 3); r != NoRule {
		t.Errorf("Expected no rule for undeclared slot, have %d", r)
	}
	if tables.ChoiceName(1, 1) != "b" {
		t.Errorf("Expected choice 1 of Item to be 'b', is %q", tables.ChoiceName(1, 1))
	}
}

func TestBuilderLiteralOrder(t *testing.T) {
	b := NewBuilder("G")
	b.Keyword("if")
	id := b.Literal(IdentifierToken)
	b.Keyword("then")
	b.Rule("S").Root()
	b.Main().Start(0)
	if _, err := b.Tables(); err == nil {
		t.Errorf("Expected keyword after literal class to be refused")
	}
	if id != 1 {
		t.Errorf("Expected identifier symbol 1, is %d", id)
	}
}

func TestStateRange(t *testing.T) {
	if err := checkStateRange(MaxStates, "main"); err != nil {
		t.Errorf("Expected 2^31 states to be representable, got %v", err)
	}
	err := checkStateRange(MaxStates+1, "bracket")
	if !errors.Is(err, ErrOversizedAutomaton) {
		t.Errorf("Expected oversized automaton error, got %v", err)
	}
}

func TestValidateEdges(t *testing.T) {
	tables := listTables(t)
	tables.Automaton.States[0].Edges[0].Target = 17
	if err := tables.Validate(); !errors.Is(err, ErrInvalidTables) {
		t.Errorf("Expected dangling edge to be rejected, got %v", err)
	}
}

func TestValidateTransitionSymbols(t *testing.T) {
	tables := listTables(t)
	tables.BracketTransitions = []Symbol{2}
	if err := tables.Validate(); !errors.Is(err, ErrInvalidTables) {
		t.Errorf("Expected transition symbol inside token range to be rejected, got %v", err)
	}
}

func TestActionMapFind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.grammar")
	defer teardown()
	//
	tables := listTables(t)
	e, ok := tables.Actions.Find(0, 1, 2)
	if !ok {
		t.Fatalf("Expected entry for (0,m1,'a')")
	}
	actions := tables.Actions.ActionsAt(e)
	if len(actions) != 3 || actions[0].Kind != BeginSlot || actions[2].Kind != SetSlotChoice {
		t.Errorf("Expected 3 actions for 'a', have %v", actions)
	}
	e, ok = tables.Actions.Find(0, 1, 1)
	if !ok || len(tables.Actions.ActionsAt(e)) != 0 {
		t.Errorf("Expected empty action list for ')'")
	}
	if _, ok = tables.Actions.Find(0, 0, 2); ok {
		t.Errorf("Expected no entry for (0,m0,'a')")
	}
	if _, ok = tables.Actions.Find(0, BoundaryState.ID, Boundary); !ok {
		t.Errorf("Expected entry for boundary token")
	}
}

func TestOperatorLookup(t *testing.T) {
	b := NewBuilder("Expr")
	b.Rule("E").Choice("number").
		Operator("neg", Prefix, Left, 5).
		Operator("fac", Postfix, Left, 6).
		Operator("+", Infix, Flat, 1).
		Operator("-", Infix, NonAssoc, 1).
		Operator("^", Infix, Right, 3).
		Operands(0, 1, 2).
		ExpressionRoot()
	b.Main().Start(0)
	tables, err := b.Tables()
	if err != nil {
		t.Fatal(err)
	}
	expected := []OperatorKind{PrefixOperator, PostfixOperator, InfixFlat, InfixLeft, InfixRight}
	for i, kind := range expected {
		k, _, err := tables.OperatorLookup(0, uint32(i+1))
		if err != nil || k != kind {
			t.Errorf("Expected operator %d to be %s, is %s (%v)", i, kind, k, err)
		}
	}
	if _, p, _ := tables.OperatorLookup(0, 5); p != 3 {
		t.Errorf("Expected precedence 3 for '^', is %d", p)
	}
	if _, _, err := tables.OperatorLookup(0, 0); err == nil {
		t.Errorf("Expected regular choice to be refused as operator")
	}
	if l, r, o := tables.OperandSlots(0); l != 0 || r != 1 || o != 2 {
		t.Errorf("Expected operand slots (0,1,2), have (%d,%d,%d)", l, r, o)
	}
}

func TestLoadYAML(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.grammar")
	defer teardown()
	//
	tables, err := Load("testdata/list.yaml")
	if err != nil {
		t.Fatal(err)
	}
	built := listTables(t)
	if tables.Fingerprint() != built.Fingerprint() {
		t.Errorf("Expected YAML tables to equal built tables")
	}
	e, ok := tables.Actions.Find(0, 1, 3)
	if !ok || tables.Actions.ActionsAt(e)[0].Kind != EndSlot {
		t.Errorf("Expected end-slot action for 'b'")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tables := listTables(t)
	var buf bytes.Buffer
	if err := tables.WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"set-slot-choice"`) {
		t.Errorf("Expected action kinds to be spelled out")
	}
	loaded, err := LoadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Fingerprint() != tables.Fingerprint() {
		t.Errorf("Expected fingerprint to survive JSON round trip")
	}
}

func TestLoadRejects(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"name": "G", "tokens": [], "keyword_count": 0, "rules": [],
		"automaton": {"start": 0, "states": []}}`))
	if err == nil {
		t.Errorf("Expected tables with empty automaton to be rejected")
	}
	_, err = LoadJSON(strings.NewReader(`{"name": "G", "colour": "blue"}`))
	if err == nil {
		t.Errorf("Expected unknown field to be rejected")
	}
}

func TestVerifySchema(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.grammar")
	defer teardown()
	//
	tables := listTables(t)
	if err := tables.VerifySchema(); err != nil {
		t.Errorf("Expected list schema to be closed, got %v", err)
	}
	tables.Rules = append(tables.Rules, Rule{Name: "Orphan"})
	if err := tables.VerifySchema(); err == nil {
		t.Errorf("Expected unreachable rule to be reported")
	}
}

func TestGraphViz(t *testing.T) {
	tables := listTables(t)
	var buf bytes.Buffer
	if err := tables.Automaton.ToGraphViz(&buf, tables); err != nil {
		t.Fatal(err)
	}
	dot := buf.String()
	if !strings.HasPrefix(dot, "digraph {") || !strings.Contains(dot, `s001 -> s002 [label="\")\""]`) {
		t.Errorf("Unexpected dot output:\n%s", dot)
	}
}
