package conf

import (
	"fmt"
	"slices"
)

const (
	PolicyFloor = "floor"
	PolicyExact = "exact"
)

// Generate sizes the output. total_packets and fragments are pointers so that
// an explicit 0 is rejected instead of taking the default.
type Generate struct {
	TotalPackets_ *int   `yaml:"total_packets"`
	Fragments_    *int   `yaml:"fragments"`
	Policy        string `yaml:"policy"`
	// Seed of 0 selects an unseeded source.
	Seed int64 `yaml:"seed"`

	TotalPackets int `yaml:"-"`
	Fragments    int `yaml:"-"`
}

func (g *Generate) setDefaults() {
	if g.TotalPackets_ == nil {
		total := 50
		g.TotalPackets_ = &total
	}
	if g.Fragments_ == nil {
		fragments := 3
		g.Fragments_ = &fragments
	}
	if g.Policy == "" {
		g.Policy = PolicyFloor
	}
}

func (g *Generate) validate() []error {
	var errors []error

	g.TotalPackets, g.Fragments = *g.TotalPackets_, *g.Fragments_
	if g.Fragments < 1 {
		errors = append(errors, fmt.Errorf("generate fragments must be >= 1"))
	}
	if g.TotalPackets < 1 || g.TotalPackets > 10_000_000 {
		errors = append(errors, fmt.Errorf("generate total_packets must be between 1 and 10000000"))
	}
	if g.Fragments >= 1 && g.TotalPackets >= 1 && g.TotalPackets < g.Fragments {
		errors = append(errors, fmt.Errorf("generate total_packets (%d) must be >= fragments (%d)", g.TotalPackets, g.Fragments))
	}
	validPolicies := []string{PolicyFloor, PolicyExact}
	if !slices.Contains(validPolicies, g.Policy) {
		errors = append(errors, fmt.Errorf("generate policy must be one of: %v", validPolicies))
	}
	return errors
}
