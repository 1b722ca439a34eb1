package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/dedupe-cli/internal/core/domain"
	"github.com/custodia-labs/dedupe-cli/internal/logger"
)

const (
	// maxDiffLines bounds the line-diff DP table for pathological inputs.
	maxDiffLines = 5000

	// minSectionLength skips trivially short paragraphs when matching
	// sections; they produce noisy high ratios.
	minSectionLength = 50

	// snippetLength is the preview size for matched sections.
	snippetLength = 100
)

// Diff computes line- and word-level difference statistics for two
// texts. Common lines are counted via longest common subsequence, so
// reordered content is not credited as common.
func Diff(a, b string) domain.DiffStats {
	linesA := splitLines(a)
	linesB := splitLines(b)

	if len(linesA) > maxDiffLines || len(linesB) > maxDiffLines {
		logger.Debug("diff truncated to %d lines", maxDiffLines)
		linesA = truncateLines(linesA)
		linesB = truncateLines(linesB)
	}

	common := lcsLength(linesA, linesB)
	stats := domain.DiffStats{
		Additions: len(linesB) - common,
		Deletions: len(linesA) - common,
		Common:    common,
	}

	total := len(linesA) + len(linesB)
	switch {
	case total > 0:
		stats.LineSimilarity = float64(2*common) / float64(total)
	case a == b:
		stats.LineSimilarity = 1.0
	}

	stats.WordSimilarity = wordJaccard(a, b)
	return stats
}

// SimilarSections finds paragraph pairs whose match ratio meets the
// threshold. Each pair carries truncated snippets for display.
func SimilarSections(a, b string, threshold float64) []domain.SectionMatch {
	parasA := Paragraphs(a)
	parasB := Paragraphs(b)

	var matches []domain.SectionMatch
	for i, pa := range parasA {
		if len(pa) < minSectionLength {
			continue
		}
		for j, pb := range parasB {
			if len(pb) < minSectionLength {
				continue
			}
			ratio := MatchRatio(pa, pb)
			if ratio >= threshold {
				matches = append(matches, domain.SectionMatch{
					IndexA:     i,
					IndexB:     j,
					SnippetA:   snippet(pa),
					SnippetB:   snippet(pb),
					Similarity: ratio,
				})
			}
		}
	}
	return matches
}

// MatchRatio returns a similarity ratio in [0,1] for two texts:
// twice the length of the longest common word subsequence over the
// total word count.
func MatchRatio(a, b string) float64 {
	wordsA := Words(Normalize(a))
	wordsB := Words(Normalize(b))
	total := len(wordsA) + len(wordsB)
	if total == 0 {
		return 1.0
	}
	return float64(2*lcsLength(wordsA, wordsB)) / float64(total)
}

// wordJaccard computes Jaccard similarity over the word sets of two
// texts.
func wordJaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		if a == b {
			return 1.0
		}
		return 0.0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	words := Words(Normalize(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// lcsLength computes longest-common-subsequence length with a
// two-row DP table.
func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

func truncateLines(lines []string) []string {
	if len(lines) > maxDiffLines {
		return lines[:maxDiffLines]
	}
	return lines
}

func snippet(text string) string {
	if len(text) <= snippetLength {
		return text
	}
	// Back off to a rune boundary so the cut never splits a
	// multi-byte character.
	cut := snippetLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
