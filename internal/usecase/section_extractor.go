package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SectionKind names a labeled sub-region of an assistant answer
type SectionKind string

const (
	SectionIngredients SectionKind = "ingredients"
	SectionNutrients   SectionKind = "nutrients"
)

// sectionRule is one attempt at locating a section; extract returns the
// captured region or "" when the pattern does not apply.
type sectionRule struct {
	name    string
	pattern *regexp.Regexp
	reject  *regexp.Regexp
	extract func(re *regexp.Regexp, reject *regexp.Regexp, text string) string
}

// sectionLabels is the label alternation of a section kind. Matches whose
// header also matches reject belong to another section and are skipped.
type sectionLabels struct {
	labels string
	reject *regexp.Regexp
}

// Labels are written against diacritic-folded, lowercased text
var (
	ingredientLabels = sectionLabels{
		labels: `(?:nguyen lieu|thanh phan|ingredients?)`,
		// "thanh phan dinh duong" is the nutrient breakdown
		reject: regexp.MustCompile(`thanh phan[ \t]+dinh duong`),
	}
	nutrientLabels = sectionLabels{
		labels: `(?:chat dinh duong|thanh phan dinh duong|gia tri dinh duong|dinh duong|nutrients?|nutrition(?:al)?(?: facts| values?)?)`,
	}
)

var (
	// Matches list bullets and numbering anywhere in the answer
	bulletLinePattern = regexp.MustCompile(`(?m)^[ \t]*(?:[-*•+]|\d+[.)])[ \t]+(.+)$`)

	// Separators between items of a section region
	sectionItemSeparator = regexp.MustCompile(`[\n,;]`)

	// Leading bullet/numbering markers on a single item
	itemMarkerPattern = regexp.MustCompile(`^\s*(?:[-*•+]+|\d+[.)])\s*`)

	sectionRules = map[SectionKind][]sectionRule{
		SectionIngredients: buildSectionRules(ingredientLabels),
		SectionNutrients:   buildSectionRules(nutrientLabels),
	}
)

// buildSectionRules returns the ordered rule list for a section's labels,
// most specific first.
func buildSectionRules(section sectionLabels) []sectionRule {
	labels := section.labels
	rules := []sectionRule{
		{
			name:    "bold-header",
			pattern: regexp.MustCompile(`\*\*\s*` + labels + `[^*\n]*\*\*\s*:?[ \t]*\n?((?s:.*?))(?:\n[ \t]*\n|\n[ \t]*\*\*|\z)`),
			extract: firstCapture,
		},
		{
			name:    "label-colon",
			pattern: regexp.MustCompile(labels + `[^:\n]{0,40}:[ \t]*((?s:.*?))(?:\n[ \t]*\n|\z)`),
			extract: firstCapture,
		},
		{
			name:    "label-heading",
			pattern: regexp.MustCompile(`(?m)^[#>\s]*` + labels + `[^\n]*\n((?s:.*?))(?:\n[ \t]*\n|\z)`),
			extract: firstCapture,
		},
		{
			name:    "bullet-lines",
			pattern: bulletLinePattern,
			extract: allCaptures,
		},
	}
	for i := range rules {
		rules[i].reject = section.reject
	}
	return rules
}

// firstCapture returns the first capture whose header, the text between the
// match start and the capture, is not rejected.
func firstCapture(re *regexp.Regexp, reject *regexp.Regexp, text string) string {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}
		if reject != nil && reject.MatchString(text[m[0]:m[2]]) {
			continue
		}
		if region := strings.TrimSpace(text[m[2]:m[3]]); region != "" {
			return region
		}
	}
	return ""
}

func allCaptures(re *regexp.Regexp, _ *regexp.Regexp, text string) string {
	matches := re.FindAllStringSubmatch(text, -1)
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 && strings.TrimSpace(m[1]) != "" {
			lines = append(lines, m[1])
		}
	}
	return strings.Join(lines, "\n")
}

// ExtractSection pulls the ingredient or nutrient lines out of an assistant
// answer. Rules are tried in order and the first non-empty capture wins; when
// none applies the whole answer is used. Returned lines are normalized.
func ExtractSection(kind SectionKind, answer string) []string {
	if strings.TrimSpace(answer) == "" {
		return nil
	}

	folded := foldDiacritics(answer)
	region := ""
	for _, rule := range sectionRules[kind] {
		if region = rule.extract(rule.pattern, rule.reject, folded); region != "" {
			break
		}
	}
	if region == "" {
		region = folded
	}

	return splitSectionLines(region)
}

// splitSectionLines splits a section region into normalized item lines
func splitSectionLines(region string) []string {
	parts := sectionItemSeparator.Split(region, -1)
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(itemMarkerPattern.ReplaceAllString(part, ""))
		if utf8.RuneCountInString(item) < minTokenLength {
			continue
		}
		if normalized := Normalize(item); normalized != "" {
			lines = append(lines, normalized)
		}
	}
	return lines
}
