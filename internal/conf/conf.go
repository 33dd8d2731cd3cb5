package conf

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

type Conf struct {
	Log      Log      `yaml:"log"`
	Output   Output   `yaml:"output"`
	Generate Generate `yaml:"generate"`
	Marker   Marker   `yaml:"marker"`
	Encoding Encoding `yaml:"encoding"`
	Network  Network  `yaml:"network"`
	Noise    Noise    `yaml:"noise"`
}

// Load parses a YAML configuration file without applying defaults, so that
// command-line overrides can be layered on before Finalize.
func Load(path string) (*Conf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var conf Conf
	if err := yaml.UnmarshalWithOptions(data, &conf, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &conf, nil
}

func LoadFromFile(path string) (*Conf, error) {
	conf, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := conf.Finalize(); err != nil {
		return conf, err
	}
	return conf, nil
}

// Default returns a configuration with every section at its default value.
func Default() *Conf {
	var conf Conf
	conf.setDefaults()
	if err := conf.validate(); err != nil {
		panic("default configuration is invalid: " + err.Error())
	}
	return &conf
}

// Finalize fills unset fields with defaults and validates the result.
func (c *Conf) Finalize() error {
	c.setDefaults()
	return c.validate()
}

func (c *Conf) setDefaults() {
	c.Log.setDefaults()
	c.Output.setDefaults()
	c.Generate.setDefaults()
	c.Marker.setDefaults()
	c.Encoding.setDefaults()
	c.Network.setDefaults()
	c.Noise.setDefaults()
}

func (c *Conf) validate() error {
	var allErrors []error

	allErrors = append(allErrors, c.Log.validate()...)
	allErrors = append(allErrors, c.Output.validate()...)
	allErrors = append(allErrors, c.Generate.validate()...)
	allErrors = append(allErrors, c.Marker.validate()...)
	allErrors = append(allErrors, c.Encoding.validate()...)
	allErrors = append(allErrors, c.Network.validate()...)
	allErrors = append(allErrors, c.Noise.validate()...)

	return writeErr(allErrors)
}

func writeErr(allErrors []error) error {
	if len(allErrors) > 0 {
		var messages []string
		for _, err := range allErrors {
			messages = append(messages, err.Error())
		}
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(messages, "\n  - "))
	}
	return nil
}
