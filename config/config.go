// Package config reads and writes serpentine.yaml.
package config

import (
	"io/ioutil"
	"os"

	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const DefaultFile = "serpentine.yaml"

type Config struct {
	ImplicitChecking bool `yaml:"implicit_checking"`
	Verbose          bool `yaml:"verbose"`
	ShowTypesOnError bool `yaml:"show_types_on_error"`
}

// Load reads the config at path. A missing file is not an error and yields
// the zero Config.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, tracerr.Wrap(err)
	}

	err = yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return Config{}, tracerr.Wrap(err)
	}
	return cfg, nil
}

func Write(path string, cfg Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return tracerr.Wrap(err)
	}

	fi, err := os.Create(path)
	if err != nil {
		return tracerr.Wrap(err)
	}
	defer fi.Close()

	_, err = fi.Write(out)
	if err != nil {
		return tracerr.Wrap(err)
	}
	return nil
}
