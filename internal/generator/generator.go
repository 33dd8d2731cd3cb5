// Package generator runs the whole pipeline: serialize the payload, split it
// into marked fragments, hide the fragment packets among noise and write the
// capture.
package generator

import (
	"errors"
	"math/rand"
	"pcapveil/internal/capture"
	"pcapveil/internal/conf"
	"pcapveil/internal/encoding"
	"pcapveil/internal/flog"
	"pcapveil/internal/fragment"
	"pcapveil/internal/marker"
	"pcapveil/internal/packet"
	"pcapveil/internal/payload"
	"pcapveil/internal/schedule"
	"time"
)

// Result summarizes one generation run.
type Result struct {
	Path string
	// Packets is the final number of records, noise included.
	Packets   int
	Fragments int
	Markers   []string
	// PayloadBytes is the length of the canonical payload before encoding.
	PayloadBytes int
	// Digest is the CID of the canonical payload, usable as an answer key.
	Digest   string
	Encoding string
}

type Generator struct {
	cfg    *conf.Conf
	log    *flog.Logger
	rng    *rand.Rand
	writer *capture.Writer
	check  func(path string, seq []*packet.Packet, markers []string) error
}

// New returns a generator for a finalized configuration. A nil rng is
// replaced by one seeded from cfg.Generate.Seed, or from the clock when the
// seed is 0. A nil log discards messages.
func New(cfg *conf.Conf, log *flog.Logger, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = NewRand(cfg.Generate.Seed)
	}
	if log == nil {
		log = flog.Discard()
	}
	return &Generator{
		cfg:    cfg,
		log:    log,
		rng:    rng,
		writer: capture.NewWriter(&cfg.Output),
		check:  verify,
	}
}

func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// GenerateFile loads the payload at input and runs the pipeline on it.
func (g *Generator) GenerateFile(input string) (*Result, error) {
	v, err := payload.Load(input)
	if err != nil {
		return nil, fail(PhaseLoad, err)
	}
	g.log.Debugf("loaded payload from %s", input)
	return g.Run(v)
}

// Run builds the packet sequence for v and writes it to the configured path.
func (g *Generator) Run(v any) (*Result, error) {
	seq, res, err := g.Build(v)
	if err != nil {
		return nil, err
	}

	path := g.cfg.Output.Path
	w := *g.writer
	if g.cfg.Output.Verify {
		w.Check = func(tmpPath string) error {
			return g.check(tmpPath, seq, res.Markers)
		}
	}
	n, err := w.Write(path, seq)
	if err != nil {
		var cerr *capture.CheckError
		if errors.As(err, &cerr) {
			return nil, fail(PhaseVerify, cerr.Err)
		}
		return nil, fail(PhaseWrite, err)
	}
	res.Path = path
	res.Packets = n
	if g.cfg.Output.Verify {
		g.log.Debugf("verified %d records in %s", n, path)
	}

	g.log.Infof("PCAP file '%s' generated with %d packets", path, n)
	return res, nil
}

// Build produces the shuffled packet sequence for v without touching the
// filesystem.
func (g *Generator) Build(v any) ([]*packet.Packet, *Result, error) {
	gen := &g.cfg.Generate

	data, err := payload.Serialize(v)
	if err != nil {
		return nil, nil, fail(PhaseSerialize, err)
	}
	digest, err := payload.Digest(data)
	if err != nil {
		return nil, nil, fail(PhaseSerialize, err)
	}
	g.log.Debugf("payload serialized to %d bytes (%s)", len(data), digest)

	enc, err := encoding.New(g.cfg.Encoding.Mode, g.cfg.Encoding.Passphrase)
	if err != nil {
		return nil, nil, fail(PhaseEncode, err)
	}
	encoded, err := enc.Encode(data)
	if err != nil {
		return nil, nil, fail(PhaseEncode, err)
	}
	if enc.Name() != "none" {
		g.log.Debugf("payload encoded with %s to %d bytes", enc.Name(), len(encoded))
	}

	markers, err := marker.New(g.rng, g.cfg.Marker.Length).Unique(gen.Fragments)
	if err != nil {
		return nil, nil, fail(PhaseFragment, err)
	}
	frags, err := fragment.New(encoded, markers)
	if err != nil {
		return nil, nil, fail(PhaseFragment, err)
	}
	if len(encoded) < gen.Fragments {
		g.log.Warnf("%d fragments requested for %d payload bytes; leading fragments will be empty", gen.Fragments, len(encoded))
	}

	builder := packet.NewBuilder(g.rng, &g.cfg.Network, &g.cfg.Noise)
	fragPackets := make([]*packet.Packet, len(frags))
	for i, f := range frags {
		p, err := builder.Fragment(f)
		if err != nil {
			return nil, nil, fail(PhaseSynthesize, err)
		}
		fragPackets[i] = p
		g.log.Debugf("fragment %d: marker %s, %d bytes", f.Index, f.Marker, len(f.Bytes))
	}

	sched := schedule.New(g.rng, builder, &g.cfg.Noise, gen.Policy)
	seq, err := sched.Interleave(fragPackets, gen.TotalPackets)
	if err != nil {
		return nil, nil, fail(PhaseSchedule, err)
	}
	if len(seq) > gen.TotalPackets {
		g.log.Warnf("sequence holds %d packets, %d more than the requested %d", len(seq), len(seq)-gen.TotalPackets, gen.TotalPackets)
	}

	return seq, &Result{
		Packets:      len(seq),
		Fragments:    len(frags),
		Markers:      markers,
		PayloadBytes: len(data),
		Digest:       digest,
		Encoding:     enc.Name(),
	}, nil
}
