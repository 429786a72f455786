package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyInput(t *testing.T) {
	sp := NewSplitter()
	assert.Nil(t, sp.Split(""))
}

func TestSplitShortContentSingleChunk(t *testing.T) {
	sp := NewSplitter()
	content := "Faktura 112262\n\nLeverandør: Danfoss A/S\n\nTotal: 1.250,00 DKK"

	chunks := sp.Split(content)

	require.Len(t, chunks, 1)
	assert.Equal(t, content, chunks[0])
}

func TestSplitRespectsSizeBudget(t *testing.T) {
	sp := Splitter{Size: 100, Overlap: 20}

	// Ten paragraphs of ~50 estimated tokens each.
	paragraph := strings.Repeat("linje med varebeskrivelse ", 8)
	content := strings.TrimSpace(strings.Repeat(paragraph+"\n\n", 10))

	chunks := sp.Split(content)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		// A chunk may exceed the budget by at most one paragraph.
		assert.LessOrEqual(t, len(c)/4, sp.Size+len(paragraph)/4+1)
	}
}

func TestSplitCarriesOverlap(t *testing.T) {
	sp := Splitter{Size: 100, Overlap: 30}

	paragraphs := []string{
		strings.Repeat("a", 200),
		strings.Repeat("b", 200),
		strings.Repeat("c", 200),
		strings.Repeat("d", 200),
	}
	content := strings.Join(paragraphs, "\n\n")

	chunks := sp.Split(content)
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first starts with the tail of its predecessor.
	for i := 1; i < len(chunks); i++ {
		first := strings.SplitN(chunks[i], "\n\n", 2)[0]
		assert.True(t, strings.Contains(chunks[i-1], first),
			"chunk %d should start with overlap from chunk %d", i, i-1)
	}
}

func TestSplitOversizedParagraphBecomesOwnChunk(t *testing.T) {
	sp := Splitter{Size: 10, Overlap: 2}
	big := strings.Repeat("x", 400)

	chunks := sp.Split("intro\n\n" + big + "\n\nslut")

	require.Greater(t, len(chunks), 1)
	found := false
	for _, c := range chunks {
		if strings.Contains(c, big) {
			found = true
		}
	}
	assert.True(t, found, "oversized paragraph must survive splitting intact")
}
