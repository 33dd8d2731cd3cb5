// Package packet builds the frames of a capture: fragment packets that carry
// the concealed payload and noise packets that hide them.
package packet

import (
	"bytes"
	"errors"
	"fmt"
	"net"

	"github.com/gopacket/gopacket/layers"
)

// FragmentPrefix opens the body of every fragment packet. Noise bodies are
// alphanumeric and so can never contain it.
const FragmentPrefix = "frag:"

// MaxBody is the largest body an IPv4/UDP datagram can carry.
const MaxBody = 65535 - 20 - 8

var ErrTooLarge = errors.New("packet body exceeds the IPv4 datagram limit")

type Kind uint8

const (
	KindNoise Kind = iota
	KindFragment
)

func (k Kind) String() string {
	switch k {
	case KindNoise:
		return "noise"
	case KindFragment:
		return "fragment"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Packet is one synthesized frame. Data holds the serialized
// Ethernet/IPv4/transport/body bytes; the other fields describe it.
type Packet struct {
	Kind     Kind
	SrcIP    net.IP
	DstIP    net.IP
	Protocol layers.IPProtocol
	SrcPort  uint16
	DstPort  uint16
	SYN      bool
	ACK      bool
	Payload  []byte
	Data     []byte
}

func (p *Packet) String() string {
	return fmt.Sprintf("%s %s %s:%d -> %s:%d len=%d", p.Kind, p.Protocol, p.SrcIP, p.SrcPort, p.DstIP, p.DstPort, len(p.Data))
}

// FragmentBody renders "frag:" + marker + ":" + chunk.
func FragmentBody(marker string, chunk []byte) []byte {
	body := make([]byte, 0, len(FragmentPrefix)+len(marker)+1+len(chunk))
	body = append(body, FragmentPrefix...)
	body = append(body, marker...)
	body = append(body, ':')
	return append(body, chunk...)
}

// ParseFragmentBody splits a fragment body into its marker and chunk. ok is
// false for bodies that do not follow the fragment convention.
func ParseFragmentBody(body []byte) (marker string, chunk []byte, ok bool) {
	rest, found := bytes.CutPrefix(body, []byte(FragmentPrefix))
	if !found {
		return "", nil, false
	}
	i := bytes.IndexByte(rest, ':')
	if i <= 0 {
		return "", nil, false
	}
	return string(rest[:i]), rest[i+1:], true
}
