package conf

import (
	"fmt"
	"slices"
)

// Encoding selects the reversible transform applied to the serialized payload
// before it is fragmented.
type Encoding struct {
	// Mode: none, base64, chacha20
	Mode       string `yaml:"mode"`
	Passphrase string `yaml:"passphrase"`
}

func (e *Encoding) setDefaults() {
	if e.Mode == "" {
		e.Mode = "none"
	}
}

func (e *Encoding) validate() []error {
	var errors []error

	validModes := []string{"none", "base64", "chacha20"}
	if !slices.Contains(validModes, e.Mode) {
		errors = append(errors, fmt.Errorf("encoding mode must be one of: %v", validModes))
	}
	if e.Mode == "chacha20" && len(e.Passphrase) < 4 {
		errors = append(errors, fmt.Errorf("encoding passphrase of at least 4 characters is required for chacha20"))
	}
	return errors
}
