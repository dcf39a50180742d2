/*
Package interp turns source text into a parse tree, driven by compiled grammar
tables.

Parsing is done in two passes. The forward pass scans the text into token
runs and follows the deterministic token automaton over them, recording the
state each token was read in. Regions the main automaton has no edge for are
tried as guard brackets: the main state is pushed and the bracket automaton
takes over, until one of its accepting states is closed by an end-token.

The reverse pass walks the recorded tokens back to front. For every token it
looks up the construct actions in the grammar's action map and replays them
with package construct. Text offsets are not yet known for the nodes created
this way; actions are stamped with positions in an offset table, which is
filled on the fly from the token lengths recorded by the scanner and resolved
once the tree is complete.

Usage

	tree, err := interp.Parse(tables, text)
	if err != nil {
		var tokerr *interp.TokenError
		if errors.As(err, &tokerr) {
			…
		}
	}

Interpreters are bound to one set of tables and may be re-used for parsing
many texts, but not concurrently. Tables are read-only and may be shared
between interpreters.

Configuration

If configuration flag `panic-on-internal-error` is set, the interpreter panics
on errors indicating tables which are inconsistent with themselves. This is
meant as a help for debugging grammar compilers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package interp

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'retrace.interp'.
func tracer() tracing.Trace {
	return tracing.Select("retrace.interp")
}
