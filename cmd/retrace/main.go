package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/npillmayer/retrace/grammar"
	"github.com/npillmayer/retrace/interp"
	"github.com/npillmayer/retrace/scanner"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// traceKeys are the tracing keys of all packages of this module.
var traceKeys = []string{
	"retrace.cli",
	"retrace.grammar",
	"retrace.scanner",
	"retrace.tree",
	"retrace.construct",
	"retrace.interp",
}

// settings are the flags shared by all sub-commands.
type settings struct {
	tables string
	trace  string
	dashes bool
	format string
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs the command tree. Errors of sub-commands are silenced by cobra
// and reported here.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), pterm.Error.Sprint(err.Error()))
	}
	return err
}

func newRootCmd() *cobra.Command {
	s := &settings{}
	root := &cobra.Command{
		Use:           "retrace",
		Short:         "Parse texts with compiled grammar tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setTraceLevel(s.trace)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&s.tables, "tables", "t", "", "compiled grammar tables (.json, .yaml)")
	flags.StringVar(&s.trace, "trace", "Error", "trace level [Debug|Info|Error]")
	flags.BoolVar(&s.dashes, "dashes", false, "allow dashes within identifiers")
	flags.StringVar(&s.format, "format", "tree", "output format [tree|spans]")

	root.AddCommand(newParseCmd(s))
	root.AddCommand(newReplCmd(s))
	root.AddCommand(newDotCmd(s))
	root.AddCommand(newCheckCmd(s))
	return root
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func setTraceLevel(l string) {
	level := tracing.TraceLevelFromString(l)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
}

// loadTables loads the tables named by --tables.
func (s *settings) loadTables() (*grammar.Tables, error) {
	if s.tables == "" {
		return nil, errors.New("no grammar tables given, use --tables")
	}
	tables, err := grammar.Load(s.tables)
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded tables %q from %s", tables.Name, s.tables)
	return tables, nil
}

// interpreter loads the tables and creates an interpreter for them.
func (s *settings) interpreter(cmd *cobra.Command) (*interp.Interpreter, error) {
	tables, err := s.loadTables()
	if err != nil {
		return nil, err
	}
	var opts []interp.Option
	if cmd.Flags().Changed("dashes") {
		opts = append(opts, interp.ScannerOptions(scanner.AllowDashes(s.dashes)))
	}
	opts = append(opts, interp.TraceRuns(func(run *scanner.Run) {
		tracer().Debugf("run of %d tokens", run.Len())
	}))
	return interp.New(tables, opts...)
}
