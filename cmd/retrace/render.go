package main

import (
	"fmt"
	"io"

	"github.com/npillmayer/retrace/parsetree"
	"github.com/pterm/pterm"
)

// render writes a parse tree in the given format. Trees are rendered to the
// terminal, spans to w.
func render(w io.Writer, tree *parsetree.Tree, names parsetree.Namer, format string) error {
	switch format {
	case "spans":
		tree.Dump(w, names)
	case "tree":
		root := pterm.NewTreeFromLeveledList(leveledList(tree, names))
		pterm.DefaultTree.WithRoot(root).Render()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// leveled collects tree nodes into a pterm leveled list.
type leveled struct {
	tree  *parsetree.Tree
	names parsetree.Namer
	list  pterm.LeveledList
}

func leveledList(tree *parsetree.Tree, names parsetree.Namer) pterm.LeveledList {
	l := &leveled{tree: tree, names: names}
	tree.Walk(l, parsetree.LtoR, parsetree.Continue)
	tracer().Debugf("|ll| = %d", len(l.list))
	return l.list
}

func (l *leveled) add(ctxt parsetree.RuleCtxt) {
	l.list = append(l.list, pterm.LeveledListItem{
		Level: ctxt.Level,
		Text:  l.tree.Label(ctxt.ID, l.names, ctxt.Parent, ctxt.Slot),
	})
}

func (l *leveled) EnterRule(node *parsetree.Node, ctxt parsetree.RuleCtxt) bool {
	l.add(ctxt)
	return true
}

func (l *leveled) ExitRule(*parsetree.Node, []interface{}, parsetree.RuleCtxt) interface{} {
	return nil
}

func (l *leveled) Leaf(node *parsetree.Node, ctxt parsetree.RuleCtxt) interface{} {
	l.add(ctxt)
	return nil
}
