package capture

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pcapveil/internal/conf"
	"pcapveil/internal/fragment"
	"pcapveil/internal/packet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(t *testing.T, n int) []*packet.Packet {
	t.Helper()
	cfg := conf.Default()
	b := packet.NewBuilder(rand.New(rand.NewSource(11)), &cfg.Network, &cfg.Noise)

	seq := make([]*packet.Packet, 0, n)
	for i := 0; i < n; i++ {
		var p *packet.Packet
		var err error
		if i%5 == 0 {
			p, err = b.Fragment(fragment.Fragment{Index: i, Bytes: []byte("chunk"), Marker: "abcde"})
		} else {
			p, err = b.Noise()
		}
		require.NoError(t, err)
		seq = append(seq, p)
	}
	return seq
}

func TestWriteReadRoundTrip(t *testing.T) {
	formats := []struct {
		name  string
		write Writer
	}{
		{"pcap", Writer{Format: FormatPCAP, Snaplen: 65536}},
		{"pcap nanosecond", Writer{Format: FormatPCAP, Snaplen: 65536, Nanosecond: true}},
		{"pcapng", Writer{Format: FormatPCAPNG, Snaplen: 65536}},
	}
	for _, tt := range formats {
		t.Run(tt.name, func(t *testing.T) {
			seq := sequence(t, 57)
			path := filepath.Join(t.TempDir(), "out.pcap")

			w := tt.write
			w.Start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			w.Step = time.Millisecond

			n, err := w.Write(path, seq)
			require.NoError(t, err)
			assert.Equal(t, len(seq), n)

			records, err := Read(path)
			require.NoError(t, err)
			require.Len(t, records, len(seq))
			for i, rec := range records {
				assert.Equal(t, seq[i].Data, rec.Data, "record %d", i)
				assert.Equal(t, len(seq[i].Data), rec.CaptureLength)
				assert.Equal(t, len(seq[i].Data), rec.Length)
				assert.True(t, w.Start.Add(time.Duration(i)*time.Millisecond).Equal(rec.Timestamp), "record %d timestamp %v", i, rec.Timestamp)
			}

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
		})
	}
}

func TestWriteEmptySequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pcap")
	w := Writer{Format: FormatPCAP, Snaplen: 65536}

	n, err := w.Write(path, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	records, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteRaisesSnaplenForLargeFrames(t *testing.T) {
	cfg := conf.Default()
	b := packet.NewBuilder(rand.New(rand.NewSource(1)), &cfg.Network, &cfg.Noise)
	big, err := b.Fragment(fragment.Fragment{Bytes: make([]byte, 2000), Marker: "abcde"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "big.pcap")
	w := Writer{Format: FormatPCAP, Snaplen: 128}
	_, err = w.Write(path, []*packet.Packet{big})
	require.NoError(t, err)

	records, err := Read(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, big.Data, records[0].Data)
}

func TestWriteFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	seq := sequence(t, 3)

	w := Writer{Format: FormatPCAP, Snaplen: 65536}
	_, err := w.Write(filepath.Join(dir, "missing", "out.pcap"), seq)
	assert.Error(t, err)

	// The destination is a directory, so the final rename fails.
	target := filepath.Join(dir, "occupied")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0o644))
	_, err = w.Write(target, seq)
	assert.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"occupied"}, names, "temporary files must be cleaned up")
}

func TestWriteCheckRunsBeforeRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pcap")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))
	seq := sequence(t, 4)

	rejected := errors.New("record count mismatch")
	var checked string
	w := Writer{Format: FormatPCAP, Snaplen: 65536, Check: func(tmpPath string) error {
		checked = tmpPath
		records, err := Read(tmpPath)
		require.NoError(t, err)
		assert.Len(t, records, len(seq))
		return rejected
	}}
	_, err := w.Write(path, seq)

	var cerr *CheckError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, rejected)
	assert.NotEqual(t, path, checked)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data), "rejected capture must not replace the destination")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be cleaned up")

	w.Check = func(string) error { return nil }
	n, err := w.Write(path, seq)
	require.NoError(t, err)
	assert.Equal(t, len(seq), n)
	records, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, records, len(seq))
}

func TestWriteUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.erf")
	_, err := (&Writer{Format: "erf"}).Write(path, sequence(t, 1))
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.pcap"))
	assert.Error(t, err)

	junk := filepath.Join(t.TempDir(), "junk.pcap")
	require.NoError(t, os.WriteFile(junk, []byte("this is not a capture file at all"), 0o644))
	_, err = Read(junk)
	assert.Error(t, err)
}

func TestNewWriterFromConfig(t *testing.T) {
	cfg := conf.Default()
	cfg.Output.Format = FormatPCAPNG
	w := NewWriter(&cfg.Output)
	assert.Equal(t, FormatPCAPNG, w.Format)
	assert.Equal(t, 65536, w.Snaplen)
	assert.Equal(t, DefaultStep, w.Step)
	assert.True(t, w.Start.IsZero())
}
