package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newDotCmd(s *settings) *cobra.Command {
	var bracket bool
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "Export a token automaton in Graphviz Dot format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := s.loadTables()
			if err != nil {
				return err
			}
			a := &tables.Automaton
			if bracket {
				a = &tables.BracketAutomaton
			}
			return a.ToGraphViz(os.Stdout, tables)
		},
	}
	cmd.Flags().BoolVar(&bracket, "bracket", false, "export the bracket automaton")
	return cmd
}
