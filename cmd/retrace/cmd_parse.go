package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newParseCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a text and print its parse tree",
		Long: `Parse a text with the grammar tables given by --tables and print the
resulting parse tree.

If no file is provided, reads the text from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			if len(args) == 0 {
				if source, err = io.ReadAll(os.Stdin); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else if source, err = os.ReadFile(args[0]); err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			ip, err := s.interpreter(cmd)
			if err != nil {
				return err
			}
			tree, err := ip.Parse(string(source))
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			return render(os.Stdout, tree, ip.Tables(), s.format)
		},
	}
}
