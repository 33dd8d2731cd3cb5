package generator

import (
	"bytes"
	"fmt"
	"pcapveil/internal/capture"
	"pcapveil/internal/packet"
	"slices"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

// verify reads the capture back and checks that it holds seq record for
// record and exactly one fragment packet per marker.
func verify(path string, seq []*packet.Packet, markers []string) error {
	records, err := capture.Read(path)
	if err != nil {
		return err
	}
	if len(records) != len(seq) {
		return fmt.Errorf("capture holds %d records, expected %d", len(records), len(seq))
	}

	found := make(map[string]int, len(markers))
	for i, rec := range records {
		if !bytes.Equal(rec.Data, seq[i].Data) {
			return fmt.Errorf("record %d differs from the generated packet", i)
		}
		pkt := gopacket.NewPacket(rec.Data, layers.LayerTypeEthernet, gopacket.NoCopy)
		tl := pkt.TransportLayer()
		if tl == nil {
			return fmt.Errorf("record %d has no transport layer", i)
		}
		if m, _, ok := packet.ParseFragmentBody(tl.LayerPayload()); ok {
			found[m]++
		}
	}

	for _, m := range markers {
		if found[m] != 1 {
			return fmt.Errorf("marker %s appears in %d records, expected 1", m, found[m])
		}
	}
	for m := range found {
		if !slices.Contains(markers, m) {
			return fmt.Errorf("unexpected marker %s in capture", m)
		}
	}
	return nil
}
