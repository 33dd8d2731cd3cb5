package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/pcapgo"
)

var ngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

type packetDataReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
}

// Read returns every record of the pcap or pcapng file at path, in file order.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture header: %w", err)
	}

	var r packetDataReader
	if bytes.Equal(magic, ngMagic) {
		r, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		r, err = pcapgo.NewReader(br)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse capture header: %w", err)
	}

	var records []Record
	for {
		data, ci, err := r.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("failed to read record %d: %w", len(records), err)
		}
		records = append(records, Record{
			Timestamp:     ci.Timestamp,
			CaptureLength: ci.CaptureLength,
			Length:        ci.Length,
			Data:          append([]byte(nil), data...),
		})
	}
}
