package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/interp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func listInterpreter(t *testing.T) *interp.Interpreter {
	tables, err := grammar.Load("../../grammar/testdata/list.yaml")
	if err != nil {
		t.Fatal(err)
	}
	ip, err := interp.New(tables)
	if err != nil {
		t.Fatal(err)
	}
	return ip
}

func TestLeveledList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.cli")
	defer teardown()
	//
	ip := listInterpreter(t)
	tree, err := ip.Parse("(ab)")
	if err != nil {
		t.Fatal(err)
	}
	ll := leveledList(tree, ip.Tables())
	if len(ll) != 3 {
		t.Fatalf("Expected 3 list items, have %d", len(ll))
	}
	if ll[0].Level != 0 || !strings.HasPrefix(ll[0].Text, "List") {
		t.Errorf("Expected root item 'List' at level 0, have %q at %d", ll[0].Text, ll[0].Level)
	}
	if ll[1].Level != 1 || !strings.HasPrefix(ll[1].Text, "Item : a") {
		t.Errorf("Expected first child 'Item : a' at level 1, have %q at %d", ll[1].Text, ll[1].Level)
	}
	if !strings.Contains(ll[2].Text, "@items") {
		t.Errorf("Expected slot name in label, have %q", ll[2].Text)
	}
}

func TestRenderSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.cli")
	defer teardown()
	//
	ip := listInterpreter(t)
	tree, err := ip.Parse("(ab)")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err = render(&buf, tree, ip.Tables(), "spans"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "[0…4)") || !strings.Contains(out, "[2…3)") {
		t.Errorf("Expected spans of root and second item in output, have\n%s", out)
	}
	if err = render(&buf, tree, ip.Tables(), "xml"); err == nil {
		t.Errorf("Expected unknown format to be rejected")
	}
}

func TestReplCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.cli")
	defer teardown()
	//
	repl := &Repl{ip: listInterpreter(t), format: "tree"}
	if quit, err := repl.Eval(":format spans"); quit || err != nil {
		t.Errorf("Expected :format to succeed, have %v, %v", quit, err)
	}
	if repl.format != "spans" {
		t.Errorf("Expected format to be 'spans', is %q", repl.format)
	}
	if _, err := repl.Eval("(a"); err == nil {
		t.Errorf("Expected incomplete input to be rejected")
	}
	if quit, _ := repl.Eval(":quit"); !quit {
		t.Errorf("Expected :quit to end the loop")
	}
}

func TestMissingTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.cli")
	defer teardown()
	//
	s := &settings{}
	if _, err := s.loadTables(); err == nil {
		t.Errorf("Expected an error without --tables")
	}
	root := newRootCmd()
	root.SetArgs([]string{"check", "--tables", "../../grammar/testdata/list.yaml"})
	if err := root.Execute(); err != nil {
		t.Errorf("Expected list tables to check, got %v", err)
	}
}

func TestReportedErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "retrace.cli")
	defer teardown()
	//
	input := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(input, []byte("(a?b)"), 0644); err != nil {
		t.Fatal(err)
	}
	root := newRootCmd()
	var stderr bytes.Buffer
	root.SetErr(&stderr)
	root.SetArgs([]string{"parse", "--tables", "../../grammar/testdata/list.yaml", input})
	err := execute(root)
	if !errors.Is(err, interp.ErrUnterminatedScan) {
		t.Errorf("Expected parse to fail with an unterminated scan, got %v", err)
	}
	if !strings.Contains(stderr.String(), "unterminated scan at offset 2") {
		t.Errorf("Expected scan error to be reported, have %q", stderr.String())
	}
	//
	root = newRootCmd()
	stderr.Reset()
	root.SetErr(&stderr)
	root.SetArgs([]string{"check", "--tables", "/nonexistent/tables.yaml"})
	if err = execute(root); err == nil {
		t.Errorf("Expected check of missing tables to fail")
	}
	if !strings.Contains(stderr.String(), "tables.yaml") {
		t.Errorf("Expected missing tables file to be reported, have %q", stderr.String())
	}
}
