package packet

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"net"
	"pcapveil/internal/conf"
	"pcapveil/internal/fragment"
	"pcapveil/internal/pkg/iterator"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

const (
	ephemeralPortMin = 49152
	ephemeralPortMax = 65535
)

// Builder synthesizes fragment and noise packets. It performs no I/O and is
// not safe for concurrent use.
type Builder struct {
	rng        *rand.Rand
	network    *conf.Network
	noise      *conf.Noise
	tcpF       iterator.Iterator[conf.TCPF]
	synOptions []layers.TCPOption
	ackOptions []layers.TCPOption
	// base of the TCP timestamp clock
	time      uint32
	tsCounter uint32
	buf       gopacket.SerializeBuffer
}

func NewBuilder(rng *rand.Rand, network *conf.Network, noise *conf.Noise) *Builder {
	synOptions := []layers.TCPOption{
		{OptionType: layers.TCPOptionKindMSS, OptionLength: 4, OptionData: make([]byte, 2)},
		{OptionType: layers.TCPOptionKindSACKPermitted, OptionLength: 2},
		{OptionType: layers.TCPOptionKindTimestamps, OptionLength: 10, OptionData: make([]byte, 8)},
		{OptionType: layers.TCPOptionKindNop},
		{OptionType: layers.TCPOptionKindWindowScale, OptionLength: 3, OptionData: make([]byte, 1)},
	}

	ackOptions := []layers.TCPOption{
		{OptionType: layers.TCPOptionKindNop},
		{OptionType: layers.TCPOptionKindNop},
		{OptionType: layers.TCPOptionKindTimestamps, OptionLength: 10, OptionData: make([]byte, 8)},
	}

	return &Builder{
		rng:        rng,
		network:    network,
		noise:      noise,
		tcpF:       iterator.Iterator[conf.TCPF]{Items: noise.TCPFlags},
		synOptions: synOptions,
		ackOptions: ackOptions,
		time:       rng.Uint32(),
		buf:        gopacket.NewSerializeBuffer(),
	}
}

// Fragment builds the UDP packet carrying f from the home address to the
// external address.
func (b *Builder) Fragment(f fragment.Fragment) (*Packet, error) {
	body := FragmentBody(f.Marker, f.Bytes)
	if len(body) > MaxBody {
		return nil, fmt.Errorf("fragment %d: %w (%d bytes)", f.Index, ErrTooLarge, len(body))
	}

	p := &Packet{
		Kind:     KindFragment,
		SrcIP:    b.network.HomeIP,
		DstIP:    b.network.ExternalIP,
		Protocol: layers.IPProtocolUDP,
		SrcPort:  randInRange16(b.rng, ephemeralPortMin, ephemeralPortMax),
		DstPort:  randInRange16(b.rng, uint16(b.noise.PortMin), uint16(b.noise.PortMax)),
		Payload:  body,
	}

	eth := &layers.Ethernet{
		SrcMAC:       b.network.HomeMAC,
		DstMAC:       b.network.GatewayMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := b.buildIPv4Header(p.SrcIP, p.DstIP, layers.IPProtocolUDP, uint8(b.network.TTL))
	udp := &layers.UDP{
		SrcPort: layers.UDPPort(p.SrcPort),
		DstPort: layers.UDPPort(p.DstPort),
	}
	udp.SetNetworkLayerForChecksum(ip)

	if err := b.serialize(p, eth, ip, udp); err != nil {
		return nil, fmt.Errorf("fragment %d: %w", f.Index, err)
	}
	return p, nil
}

// Noise builds one decoy: UDP or TCP with equal probability, source in
// 10.0.0.0/8, destination in 192.168.0.0/16, an alphanumeric body.
func (b *Builder) Noise() (*Packet, error) {
	p := &Packet{
		Kind:    KindNoise,
		SrcIP:   randPrivateIPv4(b.rng, 10),
		DstIP:   randPrivateIPv4(b.rng, 192, 168),
		SrcPort: randInRange16(b.rng, ephemeralPortMin, ephemeralPortMax),
		DstPort: randInRange16(b.rng, uint16(b.noise.PortMin), uint16(b.noise.PortMax)),
		Payload: randAlnum(b.rng, randInRange(b.rng, b.noise.BodyMin, b.noise.BodyMax)),
	}

	eth := &layers.Ethernet{
		SrcMAC:       randLocalMAC(b.rng),
		DstMAC:       randLocalMAC(b.rng),
		EthernetType: layers.EthernetTypeIPv4,
	}

	var ip *layers.IPv4
	var transport gopacket.SerializableLayer
	if b.rng.Intn(2) == 0 {
		p.Protocol = layers.IPProtocolUDP
		ip = b.buildIPv4Header(p.SrcIP, p.DstIP, p.Protocol, realisticTTL(b.rng))
		udp := &layers.UDP{
			SrcPort: layers.UDPPort(p.SrcPort),
			DstPort: layers.UDPPort(p.DstPort),
		}
		udp.SetNetworkLayerForChecksum(ip)
		transport = udp
	} else {
		f := b.tcpF.Next()
		p.Protocol = layers.IPProtocolTCP
		p.SYN, p.ACK = f.SYN, f.ACK
		ip = b.buildIPv4Header(p.SrcIP, p.DstIP, p.Protocol, realisticTTL(b.rng))
		tcp := b.buildTCPHeader(p.SrcPort, p.DstPort, f)
		tcp.SetNetworkLayerForChecksum(ip)
		transport = tcp
	}

	if err := b.serialize(p, eth, ip, transport); err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}
	return p, nil
}

func (b *Builder) buildIPv4Header(src, dst net.IP, proto layers.IPProtocol, ttl uint8) *layers.IPv4 {
	return &layers.IPv4{
		Version:  4,
		IHL:      5,
		TOS:      uint8(b.network.TOS),
		Id:       uint16(b.rng.Intn(1 << 16)),
		TTL:      ttl,
		Flags:    layers.IPv4DontFragment,
		Protocol: proto,
		SrcIP:    src,
		DstIP:    dst,
	}
}

func (b *Builder) buildTCPHeader(srcPort, dstPort uint16, f conf.TCPF) *layers.TCP {
	tcp := &layers.TCP{
		SrcPort: layers.TCPPort(srcPort),
		DstPort: layers.TCPPort(dstPort),
		FIN:     f.FIN, SYN: f.SYN, RST: f.RST, PSH: f.PSH, ACK: f.ACK, URG: f.URG, ECE: f.ECE, CWR: f.CWR, NS: f.NS,
		Window: realisticWindow(b.rng),
		Seq:    b.rng.Uint32(),
	}

	b.tsCounter++
	tsVal := b.time + (b.tsCounter >> 3)
	if f.SYN {
		binary.BigEndian.PutUint16(b.synOptions[0].OptionData, realisticMSS(b.rng))
		binary.BigEndian.PutUint32(b.synOptions[2].OptionData[0:4], tsVal)
		binary.BigEndian.PutUint32(b.synOptions[2].OptionData[4:8], 0)
		b.synOptions[4].OptionData[0] = realisticWindowScale(b.rng)
		tcp.Options = b.synOptions
	} else {
		tsEcr := tsVal - (b.tsCounter%200 + 50)
		binary.BigEndian.PutUint32(b.ackOptions[2].OptionData[0:4], tsVal)
		binary.BigEndian.PutUint32(b.ackOptions[2].OptionData[4:8], tsEcr)
		tcp.Options = b.ackOptions
	}
	if f.ACK {
		tcp.Ack = b.rng.Uint32()
	}
	return tcp
}

// serialize renders the layers plus p.Payload into p.Data. Options are shared
// between calls, so the bytes are copied out of the reusable buffer.
func (b *Builder) serialize(p *Packet, eth *layers.Ethernet, ip *layers.IPv4, transport gopacket.SerializableLayer) error {
	if err := b.buf.Clear(); err != nil {
		return err
	}
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(b.buf, opts, eth, ip, transport, gopacket.Payload(p.Payload)); err != nil {
		return err
	}
	p.Data = append([]byte(nil), b.buf.Bytes()...)
	return nil
}
