package plaintext

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := New()
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultOverlap, c.overlap)
	})

	t.Run("custom chunk size", func(t *testing.T) {
		c := New(WithChunkSize(500))
		assert.Equal(t, 500, c.chunkSize)
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		c := New(WithChunkSize(100), WithOverlap(150))
		assert.Less(t, c.overlap, c.chunkSize)
	})

	t.Run("zero values ignored", func(t *testing.T) {
		c := New(WithChunkSize(0), WithOverlap(-1))
		assert.Equal(t, DefaultChunkSize, c.chunkSize)
		assert.Equal(t, DefaultOverlap, c.overlap)
	})
}

func TestChunker_Chunk_Empty(t *testing.T) {
	c := New()

	for _, text := range []string{"", "   ", "\n\t\n"} {
		drafts, err := c.Chunk(context.Background(), text)
		require.NoError(t, err)
		assert.Empty(t, drafts)
	}
}

func TestChunker_Chunk_Small(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))

	drafts, err := c.Chunk(context.Background(), "This fits in one chunk.")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "This fits in one chunk.", drafts[0].Text)
	assert.Equal(t, 0, drafts[0].Offset)
}

func TestChunker_Chunk_Overlap(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(20))

	content := strings.Repeat("x", 250)
	drafts, err := c.Chunk(context.Background(), content)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(drafts), 2)

	// Adjacent windows share text: each next window starts before the
	// previous one ended.
	for i := 1; i < len(drafts); i++ {
		prevEnd := drafts[i-1].Offset + len([]rune(drafts[i-1].Text))
		assert.Less(t, drafts[i].Offset, prevEnd, "window %d should overlap its predecessor", i)
	}
}

func TestChunker_Chunk_SentenceBoundary(t *testing.T) {
	c := New(WithChunkSize(50), WithOverlap(10))

	text := "This opening sentence runs for quite a while yes. Then more text follows here continuing onward."
	drafts, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(drafts), 2)

	// The cut should land on the sentence boundary, not mid-word.
	assert.Equal(t, "This opening sentence runs for quite a while yes.", drafts[0].Text)
}

func TestChunker_Chunk_LineBoundary(t *testing.T) {
	c := New(WithChunkSize(40), WithOverlap(5))

	text := "alpha beta gamma delta epsilon\nzeta eta theta iota kappa lambda mu"
	drafts, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(drafts), 2)
	assert.Equal(t, "alpha beta gamma delta epsilon", drafts[0].Text)
}

func TestChunker_Chunk_NoMidNumberSplit(t *testing.T) {
	c := New(WithChunkSize(30), WithOverlap(5))

	// A dot inside a version number is not a sentence boundary.
	text := "Release v1.234 shipped today and included many fixes overall."
	drafts, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	for _, d := range drafts {
		assert.NotEqual(t, "Release v1.", d.Text)
	}
}

func TestChunker_Chunk_Restartable(t *testing.T) {
	c := New(WithChunkSize(80), WithOverlap(16))
	text := strings.Repeat("some sentence here. ", 30)

	first, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	second, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
