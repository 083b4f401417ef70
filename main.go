package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(newDriver()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(d *driver) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "combinators",
		Short:         "Grammar and bencode tools built on parser combinators",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return d.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&d.cfgFile, "config", "", "YAML config file")
	flags.CountVarP(&d.verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	flags.StringVar(&d.logFile, "log", "", "log to this file instead of stderr")

	rootCmd.AddCommand(newEbnfCmd(d))
	rootCmd.AddCommand(newBencodeCmd(d))
	rootCmd.AddCommand(newTorrentCmd(d))

	return rootCmd
}
