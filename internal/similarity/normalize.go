package similarity

import (
	"strings"
	"unicode"
)

// Normalize prepares text for hashing and shingling: lowercase,
// whitespace collapsed to single spaces, punctuation stripped except
// hyphens, which carry meaning in clinical and technical terms.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	lastSpace := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
			lastSpace = false
		default:
			// Punctuation is dropped entirely.
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Words splits normalised text into tokens.
func Words(text string) []string {
	return strings.Fields(text)
}

// Shingles returns the set of contiguous n-word shingles of the text.
// Texts shorter than n words produce an empty set.
func Shingles(text string, n int) []string {
	words := Words(text)
	if n <= 0 || len(words) < n {
		return nil
	}

	seen := make(map[string]struct{}, len(words))
	shingles := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		s := strings.Join(words[i:i+n], " ")
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		shingles = append(shingles, s)
	}
	return shingles
}

// Paragraphs splits raw text into trimmed, non-empty paragraphs on
// blank-line boundaries.
func Paragraphs(text string) []string {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	paras := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}
