package capture

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"pcapveil/internal/conf"
	"pcapveil/internal/packet"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
)

type Writer struct {
	Format     string
	Snaplen    int
	Nanosecond bool
	// Start is the timestamp of the first record; zero means the time of the
	// write.
	Start time.Time
	Step  time.Duration
	// Check, if set, inspects the finished temporary file before it is renamed
	// into place. An error aborts the write and leaves nothing at path.
	Check func(tmpPath string) error
}

func NewWriter(cfg *conf.Output) *Writer {
	return &Writer{
		Format:     cfg.Format,
		Snaplen:    cfg.Snaplen,
		Nanosecond: cfg.Nanosecond,
		Step:       DefaultStep,
	}
}

// Write stores seq at path in the order given and returns the number of
// records written. The file is assembled under a temporary name in the same
// directory and renamed into place only once complete and checked, so a failed
// run never leaves a partial or rejected capture at path.
func (w *Writer) Write(path string, seq []*packet.Packet) (int, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create capture file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	n, err := w.encode(bw, seq)
	if err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write capture: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync capture: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return 0, fmt.Errorf("failed to set capture permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close capture: %w", err)
	}
	if w.Check != nil {
		if err := w.Check(tmpName); err != nil {
			return 0, &CheckError{Err: err}
		}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("failed to move capture into place: %w", err)
	}
	committed = true
	return n, nil
}

// encode writes the container header followed by one record per packet.
func (w *Writer) encode(out io.Writer, seq []*packet.Packet) (int, error) {
	start := w.Start
	if start.IsZero() {
		start = time.Now()
	}
	step := w.Step
	if step <= 0 {
		step = DefaultStep
	}

	var writePacket func(ci gopacket.CaptureInfo, data []byte) error
	var flush func() error

	switch w.Format {
	case FormatPCAP, "":
		pw := pcapgo.NewWriter(out)
		if w.Nanosecond {
			pw = pcapgo.NewWriterNanos(out)
		}
		if err := pw.WriteFileHeader(uint32(w.snaplen(seq)), layers.LinkTypeEthernet); err != nil {
			return 0, fmt.Errorf("failed to write pcap header: %w", err)
		}
		writePacket = pw.WritePacket
		flush = func() error { return nil }
	case FormatPCAPNG:
		ngw, err := pcapgo.NewNgWriter(out, layers.LinkTypeEthernet)
		if err != nil {
			return 0, fmt.Errorf("failed to write pcapng header: %w", err)
		}
		writePacket = ngw.WritePacket
		flush = ngw.Flush
	default:
		return 0, fmt.Errorf("unknown capture format %q", w.Format)
	}

	for i, p := range seq {
		ci := gopacket.CaptureInfo{
			Timestamp:     start.Add(time.Duration(i) * step),
			CaptureLength: len(p.Data),
			Length:        len(p.Data),
		}
		if err := writePacket(ci, p.Data); err != nil {
			return i, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := flush(); err != nil {
		return len(seq), fmt.Errorf("failed to flush capture: %w", err)
	}
	return len(seq), nil
}

// snaplen is the configured snapshot length, raised to the largest frame so
// that no record is truncated.
func (w *Writer) snaplen(seq []*packet.Packet) int {
	n := w.Snaplen
	for _, p := range seq {
		n = max(n, len(p.Data))
	}
	return n
}
