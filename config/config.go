// Package config loads preparser settings from a YAML file.
package config

import (
	"fmt"

	"github.com/rubiojr/sagepp/preprocess"
)

// Config holds the settings a sagepp.yaml file may carry. Command line
// flags override them.
type Config struct {
	Path            string `yaml:"-"` // file the settings were read from, empty for defaults
	ImplicitMul     Level  `yaml:"implicit_multiplication"`
	NumericLiterals bool   `yaml:"numeric_literals"`
	Time            bool   `yaml:"time"`
	IgnorePrompts   bool   `yaml:"ignore_prompts"`
	Magic           bool   `yaml:"magic"` // honour load/attach directives
}

// Level is an implicit multiplication level. In YAML it is either an
// integer or a boolean: true selects the default level, false turns the
// rewrite off.
type Level int

// UnmarshalYAML implements yaml.Unmarshaler to accept both bool and int.
func (l *Level) UnmarshalYAML(unmarshal func(any) error) error {
	var on bool
	if err := unmarshal(&on); err == nil {
		if on {
			*l = preprocess.MulDefault
		} else {
			*l = preprocess.MulOff
		}
		return nil
	}

	var n int
	if err := unmarshal(&n); err != nil {
		return fmt.Errorf("implicit_multiplication must be a boolean or an integer level")
	}
	*l = Level(n)
	return nil
}

// Defaults returns the settings used when no file is found.
func Defaults() *Config {
	return &Config{
		NumericLiterals: true,
		Magic:           true,
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.ImplicitMul < preprocess.MulOff {
		return fmt.Errorf("invalid implicit_multiplication: %d (must be 0 or greater)", c.ImplicitMul)
	}
	return nil
}

// Options returns the preparser options the settings select.
func (c *Config) Options() preprocess.Options {
	return preprocess.Options{
		ImplicitMul:     int(c.ImplicitMul),
		NumericLiterals: c.NumericLiterals,
		Time:            c.Time,
		IgnorePrompts:   c.IgnorePrompts,
	}
}
