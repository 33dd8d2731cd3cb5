package conf

import "fmt"

type Marker struct {
	Length int `yaml:"length"`
}

func (m *Marker) setDefaults() {
	if m.Length == 0 {
		m.Length = 5
	}
}

func (m *Marker) validate() []error {
	var errors []error

	if m.Length < 3 || m.Length > 16 {
		errors = append(errors, fmt.Errorf("marker length must be between 3 and 16"))
	}
	return errors
}
