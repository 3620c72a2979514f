package content

import "strings"

// SplitLines splits text into lines without their "\n" or "\r\n" terminators.
// A trailing terminator does not produce an empty last line; a lone "\r" is not a terminator.
func SplitLines(text string) []string {
	var lines []string
	for line := range strings.Lines(text) {
		if trimmed, ok := strings.CutSuffix(line, "\n"); ok {
			line = strings.TrimSuffix(trimmed, "\r")
		}
		lines = append(lines, line)
	}
	return lines
}
