/*
Package construct replays tree construction actions and hands finished nodes
to a node allocator.

Actions arrive in reverse document order, as produced by the reverse decode
of package interp. An end-action therefore opens a pending node and the
matching begin-action closes it; nodes are prepended to the slot chain of
their parent, which leaves every chain in document order once decoding is
complete.

Expression slots collect a flat sequence of operands and operators. When the
expression slot is closed, the sequence is folded into a tree by operator
precedence and associativity, as reported by the grammar's schema. Infix
operators of flat associativity collect all their operands in one node, with
the first operand in the left slot and all others in the right slot.

Positions are abstract stamps (see retrace.Stamp); they are resolved to text
offsets by the caller once the complete tree is built.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package construct

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'retrace.construct'.
func tracer() tracing.Trace {
	return tracing.Select("retrace.construct")
}
