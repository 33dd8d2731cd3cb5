package conf

import (
	"fmt"
	"net"
)

// Network holds the fixed addressing of fragment-carrying packets and the
// link-layer identity shared by every frame in the capture.
type Network struct {
	HomeIP_     string `yaml:"home_ip"`
	ExternalIP_ string `yaml:"external_ip"`
	HomeMAC_    string `yaml:"home_mac"`
	GatewayMAC_ string `yaml:"gateway_mac"`
	// Host interface read when home_mac or gateway_mac is "auto".
	Interface  string           `yaml:"interface"`
	TTL        int              `yaml:"ttl"`
	TOS        int              `yaml:"tos"`
	HomeIP     net.IP           `yaml:"-"`
	ExternalIP net.IP           `yaml:"-"`
	HomeMAC    net.HardwareAddr `yaml:"-"`
	GatewayMAC net.HardwareAddr `yaml:"-"`
}

func (n *Network) setDefaults() {
	if n.HomeIP_ == "" {
		n.HomeIP_ = "192.168.1.100"
	}
	if n.ExternalIP_ == "" {
		n.ExternalIP_ = "8.8.8.8"
	}
	if n.HomeMAC_ == "" {
		n.HomeMAC_ = "02:00:00:00:00:01"
	}
	if n.GatewayMAC_ == "" {
		n.GatewayMAC_ = "02:00:00:00:00:02"
	}
	if n.TTL == 0 {
		n.TTL = 64
	}
}

func (n *Network) validate() []error {
	var errors []error

	ip, err := parseIPv4(n.HomeIP_)
	if err != nil {
		errors = append(errors, fmt.Errorf("network home_ip %v", err))
	}
	n.HomeIP = ip

	ip, err = parseIPv4(n.ExternalIP_)
	if err != nil {
		errors = append(errors, fmt.Errorf("network external_ip %v", err))
	}
	n.ExternalIP = ip

	hwAddr, err := n.mac(n.HomeMAC_, resolveHomeMAC)
	if err != nil {
		errors = append(errors, fmt.Errorf("invalid home MAC address '%s': %v", n.HomeMAC_, err))
	}
	n.HomeMAC = hwAddr

	hwAddr, err = n.mac(n.GatewayMAC_, resolveGatewayMAC)
	if err != nil {
		errors = append(errors, fmt.Errorf("invalid gateway MAC address '%s': %v", n.GatewayMAC_, err))
	}
	n.GatewayMAC = hwAddr

	if n.TOS < 0 || n.TOS > 255 {
		errors = append(errors, fmt.Errorf("network tos must be between 0-255"))
	}
	if n.TTL < 1 || n.TTL > 255 {
		errors = append(errors, fmt.Errorf("network ttl must be between 1-255"))
	}

	return errors
}

func (n *Network) mac(s string, resolve func(string) (net.HardwareAddr, error)) (net.HardwareAddr, error) {
	if s != autoMAC {
		hwAddr, err := net.ParseMAC(s)
		if err == nil && len(hwAddr) != 6 {
			return nil, fmt.Errorf("not an Ethernet address")
		}
		return hwAddr, err
	}
	if n.Interface == "" {
		return nil, fmt.Errorf("network interface is required to resolve it")
	}
	return resolve(n.Interface)
}

func parseIPv4(s string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("'%s' is not an IP address", s)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("'%s' is not an IPv4 address", s)
	}
	return ip4, nil
}
