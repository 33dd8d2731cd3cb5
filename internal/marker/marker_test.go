package marker

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextCharacterClass(t *testing.T) {
	g := New(rand.New(rand.NewSource(1)), 5)
	for i := 0; i < 1000; i++ {
		tag := g.Next()
		require.Len(t, tag, 5)
		require.True(t, Valid(tag), "tag %q", tag)
	}
}

func TestUniqueAcrossSeeds(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		g := New(rand.New(rand.NewSource(seed)), 5)
		tags, err := g.Unique(50)
		require.NoError(t, err)
		require.Len(t, tags, 50)

		seen := map[string]bool{}
		for _, tag := range tags {
			require.False(t, seen[tag], "seed %d produced duplicate %q", seed, tag)
			seen[tag] = true
		}
	}
}

func TestUniqueForcesRedraw(t *testing.T) {
	// 5000 draws out of 17576 three-letter tags are certain to collide.
	g := New(rand.New(rand.NewSource(7)), 3)
	tags, err := g.Unique(5000)
	require.NoError(t, err)

	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		seen[tag] = struct{}{}
	}
	assert.Len(t, seen, 5000)
}

func TestUniqueExhausted(t *testing.T) {
	g := New(rand.New(rand.NewSource(7)), 3)
	_, err := g.Unique(26 * 26 * 26)
	assert.True(t, errors.Is(err, ErrExhausted))
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	a, err := New(rand.New(rand.NewSource(99)), 5).Unique(3)
	require.NoError(t, err)
	b, err := New(rand.New(rand.NewSource(99)), 5).Unique(3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("abcde"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("abCde"))
	assert.False(t, Valid("ab1de"))
	assert.False(t, Valid("frag:"))
}
