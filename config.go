package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/OLUWAMUYIWA/combinators/ebnf"
)

// config holds the defaults read from --config. Flags set on the command line win.
type config struct {
	Verbosity int    `yaml:"verbosity"`
	Log       string `yaml:"log"`
	Format    string `yaml:"format"` // yaml or json
	Ebnf      struct {
		Start       string `yaml:"start"`
		ebnf.Config `yaml:",inline"`
	} `yaml:"ebnf"`
}

func defaultConfig() config {
	return config{Format: "yaml"}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := checkFormat(cfg.Format); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func checkFormat(format string) error {
	switch format {
	case "yaml", "json":
		return nil
	}
	return errors.Errorf("unknown format %q, want yaml or json", format)
}
