package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCheckCmd(s *settings) *cobra.Command {
	var ebnf bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate grammar tables and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := s.loadTables()
			if err != nil {
				return err
			}
			if err = tables.Validate(); err != nil {
				return err
			}
			if err = tables.VerifySchema(); err != nil {
				return err
			}
			pterm.Info.Println(fmt.Sprintf("grammar %q, fingerprint %s", tables.Name, tables.Fingerprint()))
			pterm.Info.Println(fmt.Sprintf("%d tokens (%d keywords), %d rules",
				tables.NumberOfTokens(), tables.KeywordCount, len(tables.Rules)))
			pterm.Info.Println(fmt.Sprintf("automaton: %d states, bracket automaton: %d states",
				tables.Automaton.Size(), tables.BracketAutomaton.Size()))
			pterm.Info.Println(fmt.Sprintf("action map: %d entries, bracket action map: %d entries",
				len(tables.Actions.Entries), len(tables.BracketActions.Entries)))
			if ebnf {
				fmt.Print(tables.SchemaEBNF())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&ebnf, "ebnf", false, "print the rule schema as EBNF")
	return cmd
}
