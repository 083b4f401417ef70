package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/OLUWAMUYIWA/combinators/ebnf"
)

func newEbnfCmd(d *driver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ebnf",
		Short: "EBNF grammar tools",
	}

	cmd.AddCommand(newEbnfCheckCmd(d))
	cmd.AddCommand(newEbnfParseCmd(d))

	return cmd
}

func newEbnfCheckCmd(d *driver) *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse, verify and compile an EBNF grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := d.logger("ebnf")
			start := d.start(cmd, startProduction)

			g, err := loadGrammar(args[0], start, d.cfg.Ebnf.Config)
			if err != nil {
				return grammarErrors(cmd.ErrOrStderr(), args[0], err)
			}
			log.Infof("%s: %d productions", args[0], len(g.Productions()))
			for _, name := range g.Productions() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newEbnfParseCmd(d *driver) *cobra.Command {
	var (
		startProduction string
		formatFlag      string
		skipSpace       bool
	)

	cmd := &cobra.Command{
		Use:   "parse <grammar> <input>",
		Short: "Parse an input file with a grammar and print its syntax tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := d.logger("ebnf")
			start := d.start(cmd, startProduction)
			if start == "" {
				return errors.New("no start production: use --start or ebnf.start in the config")
			}
			format, err := d.format(cmd, formatFlag)
			if err != nil {
				return err
			}
			cfg := d.cfg.Ebnf.Config
			if cmd.Flags().Changed("skip-space") {
				cfg.SkipSpace = skipSpace
			}

			g, err := loadGrammar(args[0], start, cfg)
			if err != nil {
				return grammarErrors(cmd.ErrOrStderr(), args[0], err)
			}
			input, err := os.ReadFile(args[1])
			if err != nil {
				return errors.Wrap(err, "read input")
			}
			log.Debugf("parsing %d bytes of %s as %s", len(input), args[1], start)

			tree, err := g.Parse(start, string(input))
			if err != nil {
				return errors.Wrap(err, args[1])
			}
			log.Infof("%s: %d nodes", args[1], countNodes(tree))
			return render(cmd.OutOrStdout(), format, tree)
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "production the whole input must match")
	cmd.Flags().StringVar(&formatFlag, "format", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&skipSpace, "skip-space", false, "skip white space between the tokens of upper-case productions")

	return cmd
}

func (d *driver) start(cmd *cobra.Command, flag string) string {
	if cmd.Flags().Changed("start") {
		return flag
	}
	return d.cfg.Ebnf.Start
}

func loadGrammar(filename, start string, cfg ebnf.Config) (*ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open grammar")
	}
	defer f.Close()
	return ebnf.Load(filename, f, start, cfg)
}

func countNodes(n *ebnf.Node) int {
	count := 0
	n.Walk(func(*ebnf.Node) bool {
		count++
		return true
	})
	return count
}

// grammarErrors prints one line per error when err is an error list, as returned by
// ebnf.Parse and ebnf.Verify, and returns a summary so main does not print them again.
func grammarErrors(w io.Writer, filename string, err error) error {
	n := printErrors(w, err)
	if n == 1 {
		return errors.Errorf("%s: invalid grammar", filename)
	}
	return errors.Errorf("%s: %d grammar errors", filename, n)
}

func printErrors(w io.Writer, err error) int {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(w, v.Index(i).Interface())
		}
		return v.Len()
	}
	fmt.Fprintln(w, err)
	return 1
}
