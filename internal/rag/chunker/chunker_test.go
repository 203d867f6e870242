package chunker

import (
	"strings"
	"testing"
)

func TestSplit_ChunkCounts(t *testing.T) {
	tests := []struct {
		name      string
		length    int
		chunkSize int
		expected  int
	}{
		{"empty text", 0, 500, 0},
		{"shorter than one window", 100, 500, 1},
		{"exact single window", 500, 500, 1},
		{"spec example 1200 chars", 1200, 500, 3},
		{"exact multiple", 1000, 500, 2},
		{"one char over", 1001, 500, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.length)
			chunks := Split(text, "doc", tt.chunkSize)
			if len(chunks) != tt.expected {
				t.Errorf("Split produced %d chunks, want %d", len(chunks), tt.expected)
			}
		})
	}
}

func TestSplit_Coverage(t *testing.T) {
	// Concatenating all chunks in order must reproduce the input exactly.
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)
	chunks := Split(text, "doc", 500)

	var rebuilt strings.Builder
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		rebuilt.WriteString(c.Text)
	}
	if rebuilt.String() != text {
		t.Error("concatenated chunks do not reproduce the original text")
	}
}

func TestSplit_WindowLengths(t *testing.T) {
	text := strings.Repeat("x", 1200)
	chunks := Split(text, "doc", 500)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	wantLens := []int{500, 500, 200}
	for i, c := range chunks {
		if len(c.Text) != wantLens[i] {
			t.Errorf("chunk %d length %d, want %d", i, len(c.Text), wantLens[i])
		}
	}
}

func TestSplit_MultiByteRunes(t *testing.T) {
	// 300 two-rune pairs = 600 runes, must split at the rune boundary.
	text := strings.Repeat("日本", 300)
	chunks := Split(text, "doc", 500)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if rebuilt := chunks[0].Text + chunks[1].Text; rebuilt != text {
		t.Error("rune-boundary split corrupted the text")
	}
}

func TestSplit_CarriesSourceDocument(t *testing.T) {
	chunks := Split("some content", "https://example.com/guide.pdf", 500)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].SourceDocument != "https://example.com/guide.pdf" {
		t.Errorf("source document not carried: %q", chunks[0].SourceDocument)
	}
}
