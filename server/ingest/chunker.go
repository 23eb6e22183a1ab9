package ingest

import (
	"strings"
	"unicode"
)

const (
	// DefaultChunkSize is the maximum character count per chunk.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the character count carried over between chunks.
	DefaultChunkOverlap = 50
)

// Chunker splits document text into embedding-sized pieces. Paragraph
// boundaries are preserved when possible and consecutive chunks share a
// short overlap so sentences cut at a boundary stay searchable.
type Chunker struct {
	Size    int
	Overlap int
}

// NewChunker creates a Chunker with the default size and overlap.
func NewChunker() *Chunker {
	return &Chunker{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap}
}

// Split breaks content into chunks of at most c.Size characters.
func (c *Chunker) Split(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= c.Size {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		tail := c.overlapTail(current.String())
		current.Reset()
		if tail != "" {
			current.WriteString(tail)
			current.WriteString("\n\n")
		}
	}

	for _, para := range paragraphs(content) {
		if current.Len() > 0 && current.Len()+len(para) > c.Size {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)

		for current.Len() > c.Size {
			text := current.String()
			cut := breakPoint(text[:c.Size])
			chunks = append(chunks, strings.TrimSpace(text[:cut]))
			current.Reset()
			current.WriteString(strings.TrimSpace(text[cut:]))
		}
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// overlapTail returns the trailing overlap of a finished chunk, cut at a
// word boundary when one exists.
func (c *Chunker) overlapTail(chunk string) string {
	if c.Overlap <= 0 {
		return ""
	}
	if len(chunk) <= c.Overlap {
		return chunk
	}
	tail := chunk[len(chunk)-c.Overlap:]
	if idx := strings.IndexAny(tail, " \t"); idx > 0 {
		return tail[idx+1:]
	}
	return tail
}

// paragraphs collapses single line breaks into spaces and splits on blank
// lines.
func paragraphs(content string) []string {
	var result []string
	var current strings.Builder

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			if current.Len() > 0 {
				result = append(result, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// breakPoint picks a split position at a sentence end, falling back to the
// last word boundary in the second half, then to a hard cut.
func breakPoint(text string) int {
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '.' || text[i] == '!' || text[i] == '?' {
			if i == len(text)-1 || unicode.IsSpace(rune(text[i+1])) {
				return i + 1
			}
		}
	}
	for i := len(text) - 1; i >= len(text)/2; i-- {
		if unicode.IsSpace(rune(text[i])) {
			return i
		}
	}
	return len(text)
}
