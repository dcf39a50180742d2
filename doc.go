/*
Package retrace is the runtime half of a parser generator. Given a grammar
which has already been compiled into token automata and a table of tree
construction actions, retrace turns source text into a concrete parse tree.

Parsing happens in two passes. A forward pass drives a token automaton over
the scanned tokens, including a nested bracket automaton for guarded
sub-regions. A reverse pass then walks the tokens back to front against the
action table, replays tree construction actions and recovers exact text
offsets for every node. Package structure is as follows:

■ grammar: Package grammar holds the compiled tables, the rule schema and
loaders for them.

■ scanner: Package scanner splits text into token runs and keeps literal
leaves until the tree builder asks for them.

■ construct: Package construct is the default tree construction engine,
replaying construct actions against the rule schema.

■ parsetree: Package parsetree implements the resulting parse nodes.

■ interp: Package interp implements both passes and is the main entry point.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package retrace
