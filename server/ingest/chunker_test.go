package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerShortDocument(t *testing.T) {
	c := NewChunker()
	chunks := c.Split("a short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short document", chunks[0])
}

func TestChunkerEmptyDocument(t *testing.T) {
	c := NewChunker()
	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\n  "))
}

func TestChunkerLongDocument(t *testing.T) {
	para := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 8)
	content := para + "\n\n" + para + "\n\n" + para

	c := NewChunker()
	chunks := c.Split(content)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		// A chunk may exceed Size only by its carried overlap prefix.
		assert.LessOrEqual(t, len(chunk), c.Size+c.Overlap+2, "chunk %d too large", i)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

func TestChunkerOverlapCarriesTail(t *testing.T) {
	// Two paragraphs that fit a chunk each but not together; the second
	// chunk should open with the tail of the first, so the marker at the
	// end of paragraph one appears in both.
	para1 := strings.Repeat("alpha beta gamma delta. ", 12) + "OVERLAPMARKER."
	para2 := strings.Repeat("epsilon zeta eta theta. ", 12)
	content := para1 + "\n\n" + para2

	c := NewChunker()
	chunks := c.Split(content)
	require.Greater(t, len(chunks), 1)
	assert.Contains(t, chunks[0], "OVERLAPMARKER.")
	assert.Contains(t, chunks[1], "OVERLAPMARKER.")
}

func TestChunkerCollapsesSingleLineBreaks(t *testing.T) {
	chunks := NewChunker().Split("line one\nline two")
	require.Len(t, chunks, 1)
	assert.Equal(t, "line one line two", chunks[0])
}

func TestBreakPointPrefersSentenceEnd(t *testing.T) {
	text := "First sentence. Second sentence without end"
	cut := breakPoint(text)
	assert.Equal(t, len("First sentence."), cut)
}

func TestBreakPointFallsBackToWordBoundary(t *testing.T) {
	text := "no sentence boundaries here just words all along"
	cut := breakPoint(text)
	assert.Less(t, cut, len(text))
	assert.True(t, text[cut] == ' ' || cut == len(text))
}
