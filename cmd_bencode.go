package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/OLUWAMUYIWA/combinators/formats"
)

func newBencodeCmd(d *driver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bencode",
		Short: "Bencode tools",
	}

	cmd.AddCommand(newBencodeDecodeCmd(d))

	return cmd
}

func newBencodeDecodeCmd(d *driver) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "decode <file>...",
		Short: "Decode bencoded files and print them as YAML or JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := d.logger("bencode")
			format, err := d.format(cmd, formatFlag)
			if err != nil {
				return err
			}

			values := make([]any, len(args))
			var g errgroup.Group
			for i, name := range args {
				g.Go(func() error {
					data, err := os.ReadFile(name)
					if err != nil {
						return errors.Wrap(err, "read")
					}
					v, err := formats.Decode(data)
					if err != nil {
						return errors.Wrap(err, name)
					}
					log.Debugf("%s: decoded %d bytes", name, len(data))
					values[i] = v
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if len(args) == 1 {
				return render(cmd.OutOrStdout(), format, values[0])
			}
			byName := make(map[string]any, len(args))
			for i, name := range args {
				byName[name] = values[i]
			}
			return render(cmd.OutOrStdout(), format, byName)
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "yaml", "output format: yaml or json")

	return cmd
}

func newTorrentCmd(d *driver) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "torrent",
		Short: "Torrent metainfo tools",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "info <file>",
		Short: "Print the metainfo of a .torrent file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := d.logger("torrent")
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read torrent")
			}
			m, err := formats.ParseMetaInfo(data)
			if err != nil {
				return errors.Wrap(err, args[0])
			}
			log.Infof("%s: info hash %s", args[0], m.InfoHash)

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, m.String())
			fmt.Fprintf(w, "Name: %s\nSize: %d\nPiece Length: %d\nPieces: %d\n",
				m.Info.Name, m.Size(), m.Info.PieceLength, len(m.PieceHashes()))
			for _, f := range m.Info.Files {
				fmt.Fprintf(w, "  %s (%d)\n", strings.Join(f.Path, "/"), f.Length)
			}
			return nil
		},
	})

	return cmd
}
