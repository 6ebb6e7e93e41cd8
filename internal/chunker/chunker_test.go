package chunker

import (
	"strings"
	"testing"
)

func TestSplitShortContent(t *testing.T) {
	chunks := Split("short text", 100)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Fatalf("chunks = %v, want the input unchanged", chunks)
	}
	if got := Split("", 100); got != nil {
		t.Fatalf("empty input should produce no chunks, got %v", got)
	}
}

func TestSplitRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
	}{
		{
			name:    "paragraphs",
			content: "first paragraph here\n\nsecond paragraph follows\n\nthird one ends it",
			maxLen:  25,
		},
		{
			name:    "long paragraph falls back to lines",
			content: strings.Repeat("a line of source code\n", 40),
			maxLen:  100,
		},
		{
			name:    "single oversized line hard cuts",
			content: strings.Repeat("x", 950),
			maxLen:  100,
		},
		{
			name:    "mixed structure",
			content: "intro\n\n" + strings.Repeat("body line\n", 30) + "\n" + strings.Repeat("y", 300),
			maxLen:  80,
		},
		{
			name:    "multibyte runes",
			content: strings.Repeat("日本語のテキスト\n", 50),
			maxLen:  60,
		},
		{
			name:    "trailing newlines preserved",
			content: "alpha\n\nbeta\n\n\n",
			maxLen:  8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.content, tt.maxLen)
			if len(chunks) == 0 {
				t.Fatal("no chunks produced")
			}
			if got := strings.Join(chunks, ""); got != tt.content {
				t.Errorf("concatenated chunks do not reproduce the input\ngot:  %q\nwant: %q", got, tt.content)
			}
			for i, c := range chunks {
				if n := len([]rune(c)); n > tt.maxLen {
					t.Errorf("chunk %d has %d runes, limit %d", i, n, tt.maxLen)
				}
				if c == "" {
					t.Errorf("chunk %d is empty", i)
				}
			}
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	content := strings.Repeat("some repeated content with words\n\n", 20)
	first := Split(content, 90)
	for i := 0; i < 3; i++ {
		next := Split(content, 90)
		if len(next) != len(first) {
			t.Fatalf("run %d produced %d chunks, first produced %d", i, len(next), len(first))
		}
		for j := range next {
			if next[j] != first[j] {
				t.Fatalf("run %d chunk %d differs", i, j)
			}
		}
	}
}

func TestSplitDefaultMaxLen(t *testing.T) {
	content := strings.Repeat("line of text that repeats itself\n", 100)
	chunks := Split(content, 0)
	if got := strings.Join(chunks, ""); got != content {
		t.Fatal("round trip failed with default max length")
	}
	for i, c := range chunks {
		if n := len([]rune(c)); n > DefaultMaxChunkLen {
			t.Fatalf("chunk %d has %d runes, limit %d", i, n, DefaultMaxChunkLen)
		}
	}
}
