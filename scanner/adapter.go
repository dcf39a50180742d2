package scanner

import (
	"strings"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/retrace"
	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/parsetree"
)

// Adapter bridges the scanning engine to grammar symbols. It owns the stack
// of pending leaves: literal tokens are pushed while scanning and popped by
// the tree builder while decoding back to front.
type Adapter struct {
	tables     *grammar.Tables
	tree       *parsetree.Tree
	leaves     *arraystack.Stack
	Identifier grammar.Symbol // Epsilon if the grammar has no identifiers
	Number     grammar.Symbol // Epsilon if the grammar has no numbers
	String     grammar.Symbol // Epsilon if the grammar has no strings
	Dashes     bool           // identifiers may contain dashes
}

// NewAdapter creates an adapter for a grammar. Leaves are allocated in tree.
func NewAdapter(tables *grammar.Tables, tree *parsetree.Tree) *Adapter {
	return &Adapter{
		tables:     tables,
		tree:       tree,
		leaves:     arraystack.New(),
		Identifier: tables.TokenSymbol(grammar.IdentifierToken),
		Number:     tables.TokenSymbol(grammar.NumberToken),
		String:     tables.TokenSymbol(grammar.StringToken),
		Dashes:     tables.AllowDashes,
	}
}

// MatchKeyword returns the longest keyword matching at the start of text,
// together with its length and whether it is an end-token. Of keywords with
// equal length, the one declared first wins. If nothing matches, MatchKeyword
// returns Epsilon and length 0.
func (a *Adapter) MatchKeyword(text string) (grammar.Symbol, int, bool) {
	sym, maxlen, end := grammar.Epsilon, 0, false
	for i := 0; i < a.tables.KeywordCount; i++ {
		tok := a.tables.Tokens[i]
		if len(tok.String) > maxlen && strings.HasPrefix(text, tok.String) {
			sym = grammar.Symbol(i)
			maxlen = len(tok.String)
			end = tok.Type == grammar.EndToken
		}
	}
	return sym, maxlen, end
}

// EmitIdentifier pushes an identifier leaf.
func (a *Adapter) EmitIdentifier(offset, length int, text string) {
	id := a.tree.NewLeaf(parsetree.IdentifierLeaf, text, 0, span(offset, length))
	a.leaves.Push(id)
}

// EmitNumber pushes a number leaf.
func (a *Adapter) EmitNumber(offset, length int, number float64) {
	id := a.tree.NewLeaf(parsetree.NumberLeaf, "", number, span(offset, length))
	a.leaves.Push(id)
}

// EmitString pushes a string leaf. The leaf carries the raw token text,
// quotes included; escape sequences are not processed.
func (a *Adapter) EmitString(offset, length int, text string) {
	id := a.tree.NewLeaf(parsetree.StringLeaf, text, 0, span(offset, length))
	a.leaves.Push(id)
}

// PopLeaf returns the most recently pushed pending leaf.
func (a *Adapter) PopLeaf() (parsetree.NodeID, bool) {
	v, ok := a.leaves.Pop()
	if !ok {
		return parsetree.NoNode, false
	}
	return v.(parsetree.NodeID), true
}

// Pending returns the number of pending leaves.
func (a *Adapter) Pending() int {
	return a.leaves.Size()
}

func span(offset, length int) retrace.Span {
	return retrace.Span{uint64(offset), uint64(offset + length)}
}
