// Package marker generates the short lowercase tags that label fragment
// packets.
//
// Tags are drawn independently, so for n tags of length l the chance that two
// collide is about n(n-1)/(2*26^l): 2.5e-7 for three 5-letter tags. Unique
// removes that chance by redrawing duplicates.
package marker

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

const alphabetSize = float64(len(alphabet))

var ErrExhausted = errors.New("not enough distinct markers of this length")

type Generator struct {
	rng    *rand.Rand
	length int
}

func New(rng *rand.Rand, length int) *Generator {
	return &Generator{rng: rng, length: length}
}

func (g *Generator) Length() int { return g.length }

// Next draws one tag.
func (g *Generator) Next() string {
	b := make([]byte, g.length)
	for i := range b {
		b[i] = alphabet[g.rng.Intn(len(alphabet))]
	}
	return string(b)
}

// Unique draws n pairwise distinct tags.
func (g *Generator) Unique(n int) ([]string, error) {
	if space := math.Pow(alphabetSize, float64(g.length)); float64(n) > space/2 {
		return nil, fmt.Errorf("%w: %d requested, length %d", ErrExhausted, n, g.length)
	}

	seen := make(map[string]struct{}, n)
	tags := make([]string, 0, n)
	for len(tags) < n {
		tag := g.Next()
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Valid reports whether s has the marker character class: lowercase ASCII
// letters only, at least one of them.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
