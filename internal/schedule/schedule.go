// Package schedule decides where fragment packets sit among the noise.
package schedule

import (
	"fmt"
	"math/rand"
	"pcapveil/internal/conf"
	"pcapveil/internal/packet"
)

// NoiseSource manufactures one decoy per call.
type NoiseSource interface {
	Noise() (*packet.Packet, error)
}

type Scheduler struct {
	rng     *rand.Rand
	noise   NoiseSource
	leadMin int
	leadMax int
	policy  string
}

func New(rng *rand.Rand, noise NoiseSource, cfg *conf.Noise, policy string) *Scheduler {
	return &Scheduler{
		rng:     rng,
		noise:   noise,
		leadMin: cfg.LeadMin,
		leadMax: cfg.LeadMax,
		policy:  policy,
	}
}

// Interleave places every fragment packet after a random run of noise, pads
// the sequence with noise up to total and shuffles it.
//
// With the floor policy the result has at least total packets and may have
// more, since the lead-in noise alone can overshoot total. The exact policy
// drops surplus noise so the result has max(total, len(fragments)) packets.
func (s *Scheduler) Interleave(fragments []*packet.Packet, total int) ([]*packet.Packet, error) {
	seq := make([]*packet.Packet, 0, max(total, len(fragments)*(s.leadMax+1)))

	for _, f := range fragments {
		lead := s.leadMin + s.rng.Intn(s.leadMax-s.leadMin+1)
		for range lead {
			p, err := s.noise.Noise()
			if err != nil {
				return nil, err
			}
			seq = append(seq, p)
		}
		seq = append(seq, f)
	}

	for len(seq) < total {
		p, err := s.noise.Noise()
		if err != nil {
			return nil, err
		}
		seq = append(seq, p)
	}

	switch s.policy {
	case conf.PolicyFloor, "":
	case conf.PolicyExact:
		seq = s.trim(seq, max(total, len(fragments)))
	default:
		return nil, fmt.Errorf("unknown interleaving policy %q", s.policy)
	}

	s.rng.Shuffle(len(seq), func(i, j int) {
		seq[i], seq[j] = seq[j], seq[i]
	})
	return seq, nil
}

// trim removes randomly chosen noise packets until len(seq) == target.
func (s *Scheduler) trim(seq []*packet.Packet, target int) []*packet.Packet {
	surplus := len(seq) - target
	if surplus <= 0 {
		return seq
	}

	var noise []int
	for i, p := range seq {
		if p.Kind == packet.KindNoise {
			noise = append(noise, i)
		}
	}
	s.rng.Shuffle(len(noise), func(i, j int) {
		noise[i], noise[j] = noise[j], noise[i]
	})

	drop := make(map[int]struct{}, surplus)
	for _, i := range noise[:min(surplus, len(noise))] {
		drop[i] = struct{}{}
	}

	kept := seq[:0]
	for i, p := range seq {
		if _, ok := drop[i]; !ok {
			kept = append(kept, p)
		}
	}
	return kept
}
