package usecase

import "regexp"

// Sentence boundaries used for per-sentence tokenization
var sentenceSplitPattern = regexp.MustCompile(`[.!?\n]+`)

// ExtractAllKeywords merges the tokens of the question and answer, taken both
// from the whole text and sentence by sentence, into one deduplicated pool.
// First-seen order is kept.
func ExtractAllKeywords(question, answer string) []string {
	blob := question + " " + answer

	seen := make(map[string]bool)
	var pool []string
	add := func(tokens []string) {
		for _, token := range tokens {
			if !seen[token] {
				seen[token] = true
				pool = append(pool, token)
			}
		}
	}

	add(Tokenize(blob))
	for _, sentence := range sentenceSplitPattern.Split(blob, -1) {
		add(Tokenize(sentence))
	}

	return pool
}

// uniqueStrings returns values without duplicates or empty strings, first-seen order
func uniqueStrings(values ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range values {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
