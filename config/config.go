// Package config loads tool defaults from a YAML file. Explicit command
// line flags always win over values read here.
package config

import (
	"io/ioutil"

	"github.com/PapiCZ/minivsfs/vfs"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Builder struct {
	Image   string `yaml:"image"`
	SizeKiB uint64 `yaml:"size_kib"`
	Inodes  uint64 `yaml:"inodes"`
	Seed    uint64 `yaml:"seed"`
}

type Adder struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	File   string `yaml:"file"`
}

type Config struct {
	LogLevel string  `yaml:"log_level"`
	Progress bool    `yaml:"progress"`
	Builder  Builder `yaml:"builder"`
	Adder    Adder   `yaml:"adder"`
}

// Defaults leaves size and inode count unset so the creation tool still
// demands them when neither a flag nor the file provides one.
func Defaults() Config {
	return Config{
		LogLevel: "warn",
	}
}

// Load reads path on top of Defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "cannot read config %s", path)
	}

	err = yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return cfg, vfs.NewValidationError("invalid config %s: %v", path, err)
	}

	return cfg, nil
}
