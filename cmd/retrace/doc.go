/*
Command retrace parses texts with compiled grammar tables and displays the
resulting parse trees. It is intended as a workbench while developing a
grammar compiler: tables may be checked, their automata exported to
Graphviz, and sample inputs parsed one by one or interactively.

	retrace check --tables list.yaml
	retrace parse --tables list.yaml input.txt
	retrace repl  --tables list.yaml --trace Debug
	retrace dot   --tables list.yaml --bracket | dot -Tsvg > bracket.svg

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'retrace.cli'
func tracer() tracing.Trace {
	return tracing.Select("retrace.cli")
}
