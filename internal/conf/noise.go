package conf

import "fmt"

// Noise bounds the randomized decoy traffic.
type Noise struct {
	// Decoys emitted ahead of each fragment, drawn uniformly from [LeadMin, LeadMax].
	LeadMin int `yaml:"lead_min"`
	LeadMax int `yaml:"lead_max"`
	PortMin int `yaml:"port_min"`
	PortMax int `yaml:"port_max"`
	BodyMin int `yaml:"body_min"`
	BodyMax int `yaml:"body_max"`
	// Flag combinations of TCP decoys, used in turn, e.g. ["S", "SE"]. Each
	// must carry SYN so every TCP decoy looks like a connection attempt.
	TCPFlags_ []string `yaml:"tcp_flags"`
	TCPFlags  []TCPF   `yaml:"-"`
}

func (n *Noise) setDefaults() {
	if n.LeadMin == 0 && n.LeadMax == 0 {
		n.LeadMin = 1
		n.LeadMax = 3
	}
	if n.PortMin == 0 {
		n.PortMin = 1024
	}
	if n.PortMax == 0 {
		n.PortMax = 9999
	}
	if n.BodyMin == 0 {
		n.BodyMin = 10
	}
	if n.BodyMax == 0 {
		n.BodyMax = 50
	}
	if len(n.TCPFlags_) == 0 {
		n.TCPFlags_ = []string{"S"}
	}
}

func (n *Noise) validate() []error {
	var errors []error

	if n.LeadMin < 0 || n.LeadMax > 16 || n.LeadMax < n.LeadMin {
		errors = append(errors, fmt.Errorf("noise lead_min/lead_max must satisfy 0 <= lead_min <= lead_max <= 16"))
	}
	if n.PortMin < 1024 || n.PortMin > 65535 {
		errors = append(errors, fmt.Errorf("noise port_min must be between 1024-65535 (well-known ports are excluded)"))
	}
	if n.PortMax < n.PortMin || n.PortMax > 65535 {
		errors = append(errors, fmt.Errorf("noise port_max must be between port_min-65535"))
	}
	if n.BodyMin < 1 || n.BodyMin > 1400 {
		errors = append(errors, fmt.Errorf("noise body_min must be between 1-1400"))
	}
	if n.BodyMax < n.BodyMin || n.BodyMax > 1400 {
		errors = append(errors, fmt.Errorf("noise body_max must be between body_min-1400"))
	}

	n.TCPFlags = make([]TCPF, 0, len(n.TCPFlags_))
	for _, fStr := range n.TCPFlags_ {
		f, err := strTCPF(fStr)
		if err != nil {
			errors = append(errors, fmt.Errorf("noise tcp_flags %v", err))
			continue
		}
		if !f.SYN {
			errors = append(errors, fmt.Errorf("noise tcp_flags %q must include S", fStr))
			continue
		}
		n.TCPFlags = append(n.TCPFlags, f)
	}

	return errors
}
