package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// minTokenLength is the shortest token kept by Tokenize; shorter ones are noise
const minTokenLength = 3

// foldedText is the normalized projection of a string. When offsets are tracked,
// starts[i] and ends[i] hold the byte span of the original rune that produced
// text[i].
type foldedText struct {
	text   []byte
	starts []int
	ends   []int
}

// Normalize lowercases text, strips diacritics, replaces everything outside
// [a-z0-9] with a space, collapses whitespace and trims.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return string(fold(text, false).text)
}

// Tokenize normalizes text and splits it into words longer than two characters.
// Source order and duplicates are preserved.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	words := strings.Split(normalized, " ")
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < minTokenLength {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// fold builds the normalized projection of s, optionally recording for every
// output byte which original rune it came from.
func fold(s string, trackOffsets bool) foldedText {
	out := foldedText{text: make([]byte, 0, len(s))}
	if trackOffsets {
		out.starts = make([]int, 0, len(s))
		out.ends = make([]int, 0, len(s))
	}

	var (
		pendingSpace bool
		spaceStart   int
		spaceEnd     int
		scratch      [8]rune
	)

	for i, r := range s {
		_, size := utf8.DecodeRuneInString(s[i:])
		end := i + size

		for _, c := range foldRune(scratch[:0], r) {
			if c == ' ' {
				if len(out.text) > 0 && !pendingSpace {
					pendingSpace = true
					spaceStart, spaceEnd = i, end
				}
				continue
			}
			if pendingSpace {
				out.text = append(out.text, ' ')
				if trackOffsets {
					out.starts = append(out.starts, spaceStart)
					out.ends = append(out.ends, spaceEnd)
				}
				pendingSpace = false
			}
			out.text = append(out.text, byte(c))
			if trackOffsets {
				out.starts = append(out.starts, i)
				out.ends = append(out.ends, end)
			}
		}
	}

	return out
}

// foldRune appends the normalized form of r to dst: ASCII letters and digits
// (lowercased), a space for anything else, and nothing for combining marks.
func foldRune(dst []rune, r rune) []rune {
	if r < utf8.RuneSelf {
		return append(dst, asciiFold(r))
	}

	r = unicode.ToLower(r)
	if r == 'đ' {
		// NFD leaves the stroke letter intact
		return append(dst, 'd')
	}
	if unicode.Is(unicode.Mn, r) {
		return dst
	}

	for _, d := range norm.NFD.String(string(r)) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		if d < utf8.RuneSelf {
			dst = append(dst, asciiFold(d))
		} else {
			dst = append(dst, ' ')
		}
	}
	return dst
}

func asciiFold(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return r
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A')
	default:
		return ' '
	}
}

// foldDiacritics lowercases text and strips combining marks but keeps
// punctuation and line structure. Section patterns run on this form.
func foldDiacritics(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToLower(r)
		if r == 'đ' {
			r = 'd'
		}
		b.WriteRune(r)
	}
	return b.String()
}
