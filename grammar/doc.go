/*
Package grammar holds the compiled tables a parse is driven by.

Grammar compilation is done upstream. What arrives here is a set of
read-only tables:

■ a token table: keywords and operators first (with their spelling), then
literal classes like "identifier", "number" and "string".

■ two deterministic token automata, the main automaton and the bracket
automaton. The bracket automaton recognizes guarded sub-regions, nested to
arbitrary depth.

■ two action maps (main and bracket), keyed by
(reversed-automaton state, deterministic state, token symbol). An entry names the
next state of the reversed automaton and lists tree construction actions.

■ the rule schema: slots per rule, choices, operators with fixity,
associativity and precedence.

Tables are usually loaded from a JSON or YAML file:

    tables, err := grammar.Load("list.yaml")

For tests, tables may be assembled with a Builder:

    b := grammar.NewBuilder("List")
    lparen := b.Keyword("(")
    b.Rule("List").Slot("items", "Item").Root()
    b.Rule("Item").Choice("a").Choice("b")
    b.Main().Edge(0, lparen, 1).Accept(2, grammar.Epsilon)
    tables, err := b.Tables()

Once loaded, tables are never modified and may be shared between concurrent
parses.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'retrace.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("retrace.grammar")
}
