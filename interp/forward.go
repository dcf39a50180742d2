package interp

import (
	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/scanner"
)

// automaton returns the active automaton: the bracket automaton while a
// guard bracket is open, the main automaton otherwise.
func (p *parse) automaton() *grammar.Automaton {
	if p.brackets.Size() > 0 {
		return &p.tables.BracketAutomaton
	}
	return &p.tables.Automaton
}

// current returns the current state, tagged with the active automaton.
func (p *parse) current() grammar.State {
	if p.brackets.Size() > 0 {
		return grammar.Bracket(p.state)
	}
	return grammar.Main(p.state)
}

// forward follows the token automata over a run and records the state every
// token is read in. State and bracket stack carry over to the next run.
func (p *parse) forward(run *scanner.Run) error {
	a := p.automaton()
	lengths := run.Forward()
	ntokens := grammar.Symbol(p.tables.NumberOfTokens())
	for i := range run.Tokens {
		sym := run.Tokens[i]
		at := p.offset
		if sym < ntokens {
			ws, l, err := lengths.Next()
			if err != nil {
				return internal(&InternalError{State: p.current(), Symbol: sym, Err: err})
			}
			at += ws
			p.offset = at + l
		}
		run.States[i] = p.current()
		if p.brackets.Size() > 0 && a.Accepting(p.state) {
			// guard bracket is complete
			if sym != grammar.BracketTransition {
				return internal(&InternalError{State: p.current(), Symbol: sym,
					Err: errNoBracketTransition})
			}
			sym = a.TransitionSymbol(p.state)
			run.Tokens[i] = sym
			v, _ := p.brackets.Pop()
			p.state = v.(uint32)
			a = p.automaton()
			tracer().Debugf("bracket closed with %s, depth %d", p.tables.SymbolName(sym), p.brackets.Size())
		} else if next, ok := a.Follow(p.state, sym); ok {
			tracer().Debugf("%s: %s -> %d", p.tables.SymbolName(sym), p.current(), next)
			p.state = next
			p.index++
			continue
		} else {
			p.brackets.Push(p.state)
			a = &p.tables.BracketAutomaton
			p.state = a.Start
			tracer().Debugf("bracket opened by %s, depth %d", p.tables.SymbolName(sym), p.brackets.Size())
		}
		run.States[i] = p.current()
		next, ok := a.Follow(p.state, sym)
		if !ok {
			err := &TokenError{
				Symbol: sym,
				Name:   p.tables.SymbolName(sym),
				Index:  p.index,
				Offset: at,
			}
			tracer().Errorf("%v", err)
			return err
		}
		p.state = next
		p.index++
	}
	return nil
}

// accept checks the state at the end of the input.
func (p *parse) accept() error {
	if p.brackets.Size() > 0 {
		tracer().Errorf("%v: depth %d", ErrUnbalancedBracket, p.brackets.Size())
		return ErrUnbalancedBracket
	}
	if !p.tables.Automaton.Accepting(p.state) {
		err := &TokenError{
			Symbol: grammar.Epsilon,
			Name:   "end of input",
			Index:  p.index,
			Offset: uint64(len(p.text)),
		}
		tracer().Errorf("%v", err)
		return err
	}
	return nil
}
