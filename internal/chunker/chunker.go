// Package chunker splits documents into bounded segments for embedding.
//
// Splitting prefers paragraph boundaries, then line boundaries, and only
// hard-cuts when a single line exceeds the limit. Chunks never overlap and
// concatenating them (re-inserting the boundary whitespace removed at split
// points) reproduces the original content exactly.
package chunker

import "strings"

const DefaultMaxChunkLen = 1000

// Split breaks content into chunks of at most maxLen runes. Deterministic
// for identical input.
func Split(content string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxChunkLen
	}
	if content == "" {
		return nil
	}
	if len([]rune(content)) <= maxLen {
		return []string{content}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		currentLen = 0
	}

	for _, para := range splitKeep(content, "\n\n") {
		n := len([]rune(para))
		if n > maxLen {
			// Paragraph alone is too big, fall back to lines.
			flush()
			for _, line := range splitKeep(para, "\n") {
				ln := len([]rune(line))
				if ln > maxLen {
					flush()
					chunks = append(chunks, hardCut(line, maxLen)...)
					continue
				}
				if currentLen+ln > maxLen {
					flush()
				}
				current.WriteString(line)
				currentLen += ln
			}
			flush()
			continue
		}
		if currentLen+n > maxLen {
			flush()
		}
		current.WriteString(para)
		currentLen += n
	}
	flush()
	return chunks
}

// splitKeep splits s on sep while keeping the separator attached to the
// piece before it, so joining the pieces reproduces s.
func splitKeep(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i < len(parts)-1 {
			p += sep
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hardCut(s string, maxLen int) []string {
	runes := []rune(s)
	var out []string
	for len(runes) > maxLen {
		out = append(out, string(runes[:maxLen]))
		runes = runes[maxLen:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}
