package knowledge

import "strings"

// Separator is the canonical paragraph boundary.
const Separator = "\n\n"

// Chunk splits text into paragraph fragments.
// Any run of two or more newlines is a single boundary. Fragments are returned
// byte-for-byte; empty and whitespace-only fragments are dropped.
func Chunk(text string) []string {
	var fragments []string
	start := 0
	for i := 0; i < len(text); {
		if text[i] != '\n' {
			i++
			continue
		}
		j := i
		for j < len(text) && text[j] == '\n' {
			j++
		}
		if j-i >= 2 {
			fragments = appendFragment(fragments, text[start:i])
			start = j
		}
		i = j
	}
	return appendFragment(fragments, text[start:])
}

func appendFragment(fragments []string, f string) []string {
	if strings.TrimSpace(f) == "" {
		return fragments
	}
	return append(fragments, f)
}
