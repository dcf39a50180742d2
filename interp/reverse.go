package interp

import (
	"github.com/npillmayer/retrace"
	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/parsetree"
	"github.com/npillmayer/retrace/scanner"
)

// reverse walks the token runs back to front, starting with last, replays
// the construct actions and fills the offset table. It returns the root node.
//
// Every token is handed to followReversed together with its end offset and
// the whitespace following it. The synthetic boundary token stands for the
// start of the input and is processed after the leftmost token.
func (p *parse) reverse(last *scanner.Run) (parsetree.NodeID, error) {
	n := uint64(len(p.text))
	p.offsets.pushPair(n, n)
	p.engine.Begin(retrace.StampMax, p.tables.RootIsExpression)
	p.nfa = p.tables.FinalNFAState
	ws := uint64(p.tokenizer.Whitespace)
	offset := uint64(p.tokenizer.Offset) - ws
	ntokens := grammar.Symbol(p.tables.NumberOfTokens())
	for run := last; run != nil; run = run.Prev {
		lengths := run.Lengths()
		for i := run.Len() - 1; i >= 0; i-- {
			sym := run.Tokens[i]
			end := offset
			var length uint64
			if sym < ntokens {
				before, l, err := lengths.Prev()
				if err != nil {
					return parsetree.NoNode, internal(&InternalError{NFAState: p.nfa,
						State: run.States[i], Symbol: sym, Err: err})
				}
				length = l
				offset = end - l - before
			}
			if err := p.followReversed(run.States[i], sym, end, end+ws); err != nil {
				return parsetree.NoNode, err
			}
			if length > 0 {
				p.offsets.pushPair(end, end-length)
			}
			ws = end - offset - length
		}
	}
	if err := p.followReversed(grammar.BoundaryState, grammar.Boundary, offset, offset+ws); err != nil {
		return parsetree.NoNode, err
	}
	if p.nfaStack.Size() > 0 {
		return parsetree.NoNode, internal(&InternalError{NFAState: p.nfa, State: grammar.BoundaryState,
			Symbol: grammar.Boundary, Err: errOpenBrackets})
	}
	root, err := p.engine.Finish(retrace.StampAt(p.offsets.next() - 1))
	if err != nil {
		return parsetree.NoNode, internal(&InternalError{NFAState: p.nfa, State: grammar.BoundaryState,
			Symbol: grammar.Boundary, Err: err})
	}
	return root, nil
}

// followReversed looks up the action map entry for a token and replays its
// actions. start is the end offset of the token, end includes the whitespace
// following it.
func (p *parse) followReversed(state grammar.State, sym grammar.Symbol, start, end uint64) error {
	m := &p.tables.Actions
	bracket := state.IsBracket()
	if bracket {
		m = &p.tables.BracketActions
	}
	fail := func(err error) error {
		return internal(&InternalError{NFAState: p.nfa, State: state, Symbol: sym, Err: err})
	}
	entry, ok := m.Find(p.nfa, state.ID, sym)
	if !ok {
		return fail(errNoEntry)
	}
	nfa := entry.Next
	if p.tables.IsBracketTransition(sym) {
		p.nfaStack.Push(nfa)
		if nfa, ok = p.tables.BracketNFAState(entry.NFASymbol); !ok {
			return fail(errNoBracketState)
		}
	}
	tracer().Debugf("reverse %s in %s: nfa %d -> %d", p.tables.SymbolName(sym), state, p.nfa, nfa)
	running := end
	for _, action := range m.ActionsAt(entry) {
		index := p.offsets.next()
		switch {
		case action.Kind.IsBegin():
			index--
		case action.Kind.IsEnd():
			if running != start {
				running = p.offsets.pushPair(running, start)
			}
			index = p.offsets.next() - 1
		}
		if err := p.engine.Apply(action, retrace.StampAt(index)); err != nil {
			return fail(err)
		}
	}
	if running != start {
		p.offsets.pushPair(running, start)
	}
	if bracket && state.ID == p.tables.BracketAutomaton.Start {
		v, ok := p.nfaStack.Pop()
		if !ok {
			return fail(errBracketUnderflow)
		}
		nfa = v.(uint32)
	}
	p.nfa = nfa
	return nil
}
