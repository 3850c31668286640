package cmd

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/botarena/botarena/sim"
)

// LoadConfig reads an arena YAML file over the defaults. Keys absent from
// the file keep their default values; unknown keys are errors so typos
// cannot silently fall back to a default.
func LoadConfig(path string) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading arena config")
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, "parsing arena config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "arena config %s", path)
	}
	return cfg, nil
}

// defaultsYAML renders the default configuration, the starting point for a
// custom arena file.
func defaultsYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sim.DefaultConfig()); err != nil {
		return nil, errors.Wrap(err, "encoding defaults")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding defaults")
	}
	return buf.Bytes(), nil
}
