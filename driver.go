package main

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"gopkg.in/yaml.v3"
)

// driver carries the state shared by every command: flags, config and logging.
type driver struct {
	cfgFile   string
	verbosity int
	logFile   string

	cfg config
}

func newDriver() *driver {
	return &driver{cfg: defaultConfig()}
}

// setup merges the config file under the flags and configures logging.
func (d *driver) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(d.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbosity = d.verbosity
	}
	if flags.Changed("log") {
		cfg.Log = d.logFile
	}
	d.cfg = cfg

	var path *string
	if cfg.Log != "" {
		path = &cfg.Log
	}
	commonlog.Configure(cfg.Verbosity, path)
	return nil
}

func (d *driver) logger(cmd string) commonlog.Logger {
	return commonlog.GetLogger("combinators." + cmd)
}

// format picks the output format, letting an explicit --format override the config.
func (d *driver) format(cmd *cobra.Command, flag string) (string, error) {
	format := d.cfg.Format
	if cmd.Flags().Changed("format") {
		format = flag
	}
	return format, checkFormat(format)
}

func render(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.Errorf("unknown format %q", format)
}
