package diff

import "strings"

// Line delimiters, in detection priority order.
const (
	EOLCRLF = "\r\n"
	EOLCR   = "\r"
	EOLLF   = "\n"
)

// DetectEOL returns the dominant line delimiter of s: CRLF if present
// anywhere, else CR, else LF.
func DetectEOL(s string) string {
	switch {
	case strings.Contains(s, EOLCRLF):
		return EOLCRLF
	case strings.Contains(s, EOLCR):
		return EOLCR
	default:
		return EOLLF
	}
}

// SplitLines splits s into logical lines, treating CRLF, LF and CR as
// equivalent boundaries. A trailing delimiter yields a final empty line,
// so SplitLines and JoinLines round-trip for single-delimiter input.
func SplitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// JoinLines joins lines with eol.
func JoinLines(lines []string, eol string) string {
	return strings.Join(lines, eol)
}
