/*
Package scanner splits source text into token runs for package interp.

Scanning is done in two layers. The Adapter knows the grammar: it matches
keywords and operators (longest match wins, ties go to the keyword declared
first) and keeps literal leaves (identifiers, numbers, strings) on a stack until
the tree builder asks for them. The Tokenizer is the scanning engine: it skips
whitespace, recognizes literal classes with a lexmachine DFA, asks the adapter
for keywords and appends tokens to runs.

A run is a batch of tokens together with the automaton state each token was
read in, and a compact encoding of per-token whitespace and length. Runs are
chained to their predecessor, so the last run gives access to all tokens, read
back to front.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'retrace.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("retrace.scanner")
}
