package interp

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/npillmayer/retrace"
	"github.com/npillmayer/retrace/construct"
	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/parsetree"
	"github.com/npillmayer/retrace/scanner"
)

// Interpreter parses texts with a fixed set of grammar tables.
type Interpreter struct {
	tables   *grammar.Tables
	scanOpts []scanner.Option
	trace    func(*scanner.Run)
}

// Option configures an interpreter.
type Option func(*Interpreter)

// ScannerOptions passes options to the scanner.
func ScannerOptions(opts ...scanner.Option) Option {
	return func(ip *Interpreter) {
		ip.scanOpts = append(ip.scanOpts, opts...)
	}
}

// TraceRuns installs a function to be called for every token run after the
// forward pass has annotated it. Runs are recycled once Parse returns; f must
// not keep a reference to a run.
func TraceRuns(f func(*scanner.Run)) Option {
	return func(ip *Interpreter) {
		ip.trace = f
	}
}

// New creates an interpreter for a set of tables. Tables which do not
// validate are rejected; this includes automata with too many states
// (ErrOversizedAutomaton).
func New(tables *grammar.Tables, opts ...Option) (*Interpreter, error) {
	if tables == nil {
		return nil, errors.New("interpreter needs grammar tables")
	}
	if err := tables.Validate(); err != nil {
		tracer().Errorf("tables %q rejected: %v", tables.Name, err)
		return nil, err
	}
	ip := &Interpreter{tables: tables}
	for _, opt := range opts {
		opt(ip)
	}
	tracer().Infof("interpreter for grammar %q, tables %s", tables.Name, tables.Fingerprint())
	return ip, nil
}

// Parse parses text with tables. It is a shortcut for creating an interpreter
// and parsing a single text.
func Parse(tables *grammar.Tables, text string, opts ...Option) (*parsetree.Tree, error) {
	ip, err := New(tables, opts...)
	if err != nil {
		return nil, err
	}
	return ip.Parse(text)
}

// Tables returns the interpreter's grammar tables.
func (ip *Interpreter) Tables() *grammar.Tables {
	return ip.tables
}

// Parse parses a text and returns its parse tree. Spans of all nodes of the
// tree are resolved. No partial tree is returned on failure.
func (ip *Interpreter) Parse(text string) (*parsetree.Tree, error) {
	p := newParse(ip.tables, text)
	var err error
	if p.tokenizer, err = scanner.NewTokenizer(text, p.adapter, ip.scanOpts...); err != nil {
		return nil, err
	}
	var run *scanner.Run
	defer func() {
		scanner.ReleaseRuns(run)
	}()
	for more := true; more; {
		run, more = p.tokenizer.Advance(run)
		if err = p.forward(run); err != nil {
			return nil, err
		}
		if ip.trace != nil {
			ip.trace(run)
		}
	}
	if !p.tokenizer.Done() {
		err := &ScanError{Offset: uint64(p.tokenizer.Offset)}
		tracer().Errorf("%v", err)
		return nil, err
	}
	if err = p.accept(); err != nil {
		return nil, err
	}
	tracer().Debugf("forward pass complete: %d tokens", p.index)
	root, err := p.reverse(run)
	if err != nil {
		return nil, err
	}
	if n := p.adapter.Pending(); n > 0 {
		tracer().Infof("%d literal tokens not placed into the tree", n)
	}
	p.offsets.reverse()
	if err = p.tree.Resolve(p.offsets.resolve); err != nil {
		return nil, internal(&InternalError{NFAState: p.nfa, State: grammar.BoundaryState,
			Symbol: grammar.Boundary, Err: err})
	}
	p.tree.SetRoot(root)
	tracer().Infof("parsed %d bytes into %d nodes", len(text), p.tree.Size())
	return p.tree, nil
}

// --- Per-call context ------------------------------------------------------

// parse holds everything belonging to a single call of Parse.
type parse struct {
	tables    *grammar.Tables
	text      string
	tree      *parsetree.Tree
	adapter   *scanner.Adapter
	tokenizer *scanner.Tokenizer
	// forward pass
	state    uint32            // state of the active automaton
	brackets *arraystack.Stack // states interrupted by guard brackets
	index    int               // number of tokens followed
	offset   uint64            // end of the last token with text
	// reverse pass
	nfa      uint32
	nfaStack *arraystack.Stack
	offsets  *offsetTable
	engine   *construct.Engine
}

func newParse(tables *grammar.Tables, text string) *parse {
	p := &parse{
		tables:   tables,
		text:     text,
		tree:     parsetree.NewTree(tables),
		state:    tables.Automaton.Start,
		brackets: arraystack.New(),
		nfaStack: arraystack.New(),
		offsets:  newOffsetTable(2*len(text) + 4),
	}
	p.adapter = scanner.NewAdapter(tables, p.tree)
	p.engine = construct.New(p, tables)
	return p
}

// FinishNode is part of interface construct.Nodes.
func (p *parse) FinishNode(rule, choice uint32, slots [][]parsetree.NodeID, start, end retrace.Stamp) (parsetree.NodeID, error) {
	id, err := p.tree.FinishNode(rule, choice, slots, start, end)
	if err != nil {
		return id, fmt.Errorf("finish node of rule %s: %w", p.tables.RuleName(rule), err)
	}
	return id, nil
}

// FinishToken is part of interface construct.Nodes.
func (p *parse) FinishToken(rule uint32) (parsetree.NodeID, error) {
	return p.tree.FinishToken(rule, p.adapter)
}

var _ construct.Nodes = (*parse)(nil)
