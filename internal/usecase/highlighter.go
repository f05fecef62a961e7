package usecase

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/freshmart/storefront/internal/domain"
)

// span is a half-open byte range of the original text
type span struct {
	start, end int
}

// Highlight splits text into plain and emphasized runs, emphasizing the parts
// whose normalized form matches one of matchedTokens. Original casing and
// diacritics are preserved and the runs always concatenate back to text.
func Highlight(text string, matchedTokens []string) []domain.HighlightRun {
	plain := []domain.HighlightRun{{Text: text}}
	if text == "" || len(matchedTokens) == 0 {
		return plain
	}

	shadow := fold(text, true)
	normalized := string(shadow.text)

	var spans []span
	for _, token := range uniqueStrings(matchedTokens) {
		needle := Normalize(token)
		if needle == "" {
			continue
		}
		for from := 0; from < len(normalized); {
			i := strings.Index(normalized[from:], needle)
			if i < 0 {
				break
			}
			start := from + i
			last := start + len(needle) - 1
			end := extendOverMarks(text, shadow.ends[last])
			spans = append(spans, span{start: shadow.starts[start], end: end})
			from = start + 1
		}
	}

	if len(spans) == 0 {
		return plain
	}

	return splitRuns(text, mergeSpans(spans))
}

// extendOverMarks moves end past combining marks that belong to the last
// emphasized character, so decomposed text is never cut inside a letter.
func extendOverMarks(text string, end int) int {
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !unicode.Is(unicode.Mn, r) {
			break
		}
		end += size
	}
	return end
}

// mergeSpans sorts spans and merges the overlapping or adjacent ones
func mergeSpans(spans []span) []span {
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})

	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// splitRuns cuts text into alternating plain and emphasized runs
func splitRuns(text string, spans []span) []domain.HighlightRun {
	runs := make([]domain.HighlightRun, 0, 2*len(spans)+1)
	pos := 0
	for _, s := range spans {
		if s.start > pos {
			runs = append(runs, domain.HighlightRun{Text: text[pos:s.start]})
		}
		runs = append(runs, domain.HighlightRun{Text: text[s.start:s.end], Emphasized: true})
		pos = s.end
	}
	if pos < len(text) {
		runs = append(runs, domain.HighlightRun{Text: text[pos:]})
	}
	return runs
}
