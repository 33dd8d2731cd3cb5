package conf

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"os"
	"runtime"
	"strings"
)

// autoMAC asks for a MAC address to be read from the host interface.
const autoMAC = "auto"

func resolveHomeMAC(ifaceName string) (net.HardwareAddr, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, err
	}
	if len(iface.HardwareAddr) != 6 {
		return nil, fmt.Errorf("interface %s has no Ethernet address", ifaceName)
	}
	return iface.HardwareAddr, nil
}

// resolveGatewayMAC looks up the IPv4 default gateway of ifaceName in the
// kernel's ARP cache.
func resolveGatewayMAC(ifaceName string) (net.HardwareAddr, error) {
	if runtime.GOOS != "linux" {
		return nil, fmt.Errorf("gateway auto-discovery is only supported on Linux")
	}

	route, err := os.Open("/proc/net/route")
	if err != nil {
		return nil, err
	}
	defer route.Close()
	gatewayIP, err := defaultGateway(route, ifaceName)
	if err != nil {
		return nil, err
	}

	arp, err := os.Open("/proc/net/arp")
	if err != nil {
		return nil, err
	}
	defer arp.Close()
	mac, err := arpLookup(arp, gatewayIP)
	if err != nil {
		return nil, fmt.Errorf("gateway IP %s found, but MAC not in ARP cache: %v", gatewayIP, err)
	}
	return mac, nil
}

// defaultGateway parses a /proc/net/route table.
func defaultGateway(r io.Reader, ifaceName string) (net.IP, error) {
	scanner := bufio.NewScanner(r)
	scanner.Scan() // header

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != ifaceName || fields[1] != "00000000" {
			continue
		}
		b, err := hex.DecodeString(fields[2])
		if err != nil || len(b) != 4 {
			continue
		}
		// little-endian on every architecture Linux reports it for
		return net.IPv4(b[3], b[2], b[1], b[0]).To4(), nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no default route found for interface %s", ifaceName)
}

// arpLookup parses a /proc/net/arp table.
func arpLookup(r io.Reader, ip net.IP) (net.HardwareAddr, error) {
	scanner := bufio.NewScanner(r)
	scanner.Scan() // header

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || !ip.Equal(net.ParseIP(fields[0])) {
			continue
		}
		if fields[3] == "00:00:00:00:00:00" {
			return nil, fmt.Errorf("incomplete ARP entry")
		}
		return net.ParseMAC(fields[3])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("IP %s not found in ARP cache", ip)
}
