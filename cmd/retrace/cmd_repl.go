package main

import (
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/retrace/interp"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newReplCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse lines of input interactively",
		Long: `Start an interactive loop. Every line entered is parsed with the grammar
tables given by --tables and its parse tree is displayed.

Lines starting with a colon are commands:

  :format tree|spans   switch the output format
  :ebnf                print the rule schema
  :quit                leave (as does <ctrl>D)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ip, err := s.interpreter(cmd)
			if err != nil {
				return err
			}
			rl, err := readline.New("retrace> ")
			if err != nil {
				return err
			}
			defer rl.Close()
			repl := &Repl{ip: ip, rl: rl, format: s.format}
			pterm.Info.Println("Welcome to the retrace REPL, grammar " + ip.Tables().Name)
			tracer().Infof("Quit with <ctrl>D")
			repl.Loop()
			return nil
		},
	}
}

// Repl is our interactive parsing loop.
type Repl struct {
	ip     *interp.Interpreter
	rl     *readline.Instance
	format string
}

// Loop reads lines until end of input or a quit command.
func (repl *Repl) Loop() {
	for {
		line, err := repl.rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := repl.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	println("Good bye!")
}

// Eval parses a line of input or executes a command.
func (repl *Repl) Eval(line string) (bool, error) {
	if strings.HasPrefix(line, ":") {
		return repl.command(strings.Fields(line[1:]))
	}
	tree, err := repl.ip.Parse(line)
	if err != nil {
		return false, err
	}
	tracer().Infof("%d nodes, depth %d", tree.Size(), tree.Node(tree.Root()).Depth)
	return false, render(os.Stdout, tree, repl.ip.Tables(), repl.format)
}

func (repl *Repl) command(args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "quit", "q":
		return true, nil
	case "ebnf":
		pterm.Println(repl.ip.Tables().SchemaEBNF())
	case "format":
		if len(args) != 2 || (args[1] != "tree" && args[1] != "spans") {
			pterm.Error.Println("usage: :format tree|spans")
			return false, nil
		}
		repl.format = args[1]
		pterm.Info.Println("output format is " + repl.format)
	default:
		pterm.Error.Println("unknown command :" + args[0])
	}
	return false, nil
}
