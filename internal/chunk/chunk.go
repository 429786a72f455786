// Package chunk splits extracted invoice text into overlapping pieces
// small enough for a single model call.
package chunk

import (
	"regexp"
	"strings"
)

const (
	// DefaultSize is the chunk budget in estimated tokens.
	DefaultSize = 3000

	// DefaultOverlap is the estimated token overlap carried between
	// consecutive chunks so that rows split across a boundary are seen
	// by both calls.
	DefaultOverlap = 500
)

var paragraphSep = regexp.MustCompile(`\n\s*\n`)

// Splitter splits text on paragraph boundaries, packing paragraphs into
// chunks of at most Size estimated tokens with Overlap tokens of
// trailing context repeated at the start of the next chunk.
type Splitter struct {
	Size    int
	Overlap int
}

// NewSplitter returns a Splitter with the default size and overlap.
func NewSplitter() Splitter {
	return Splitter{Size: DefaultSize, Overlap: DefaultOverlap}
}

// estimateTokens approximates the token count of s. Four characters per
// token is close enough for chunk sizing.
func estimateTokens(s string) float64 {
	return float64(len(s)) / 4
}

// Split breaks content into chunks. Paragraphs are never split; a
// paragraph larger than Size becomes its own chunk. Returns nil for
// empty input.
func (sp Splitter) Split(content string) []string {
	if content == "" {
		return nil
	}

	paragraphs := paragraphSep.Split(content, -1)

	var chunks []string
	var current []string
	currentLen := 0.0

	for _, paragraph := range paragraphs {
		paragraphLen := estimateTokens(paragraph)

		if currentLen+paragraphLen > float64(sp.Size) && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))

			// Carry trailing paragraphs as overlap into the next chunk
			overlapLen := 0.0
			var overlap []string
			for i := len(current) - 1; i >= 0; i-- {
				overlapLen += estimateTokens(current[i])
				overlap = append([]string{current[i]}, overlap...)
				if overlapLen > float64(sp.Overlap) {
					break
				}
			}

			current = overlap
			currentLen = overlapLen
		}

		current = append(current, paragraph)
		currentLen += paragraphLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n\n"))
	}

	return chunks
}
