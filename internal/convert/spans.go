package convert

import (
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"
)

// StyleKind names one inline style recognized in org text.
type StyleKind string

const (
	StyleLink          StyleKind = "link"
	StyleBold          StyleKind = "bold"
	StyleItalic        StyleKind = "italic"
	StyleCode          StyleKind = "code"
	StyleUnderline     StyleKind = "underline"
	StyleStrikethrough StyleKind = "strikethrough"
)

// span is one candidate inline-format match. Start/End are byte offsets into
// the source text including the delimiters; Content is the inner text that
// survives into the output; Data carries the URL for links.
type span struct {
	Start   int
	End     int
	Kind    StyleKind
	Content string
	Data    string
}

// Inline format patterns, most specific first. RE2 has no lookbehind, so the
// emphasis delimiters carry their word-boundary rule as a post-check
// (delim rune) instead of the usual (?<![*\w]) guards.
var inlinePatterns = []struct {
	re    *regexp.Regexp
	kind  StyleKind
	delim rune // 0 = no boundary rule (links, code)
}{
	{regexp.MustCompile(`\[\[([^\]]+)\]\[([^\]]+)\]\]`), StyleLink, 0},
	{regexp.MustCompile(`\[\[([^\]]+)\]\]`), StyleLink, 0},
	{regexp.MustCompile(`\*([^*\n]+)\*`), StyleBold, '*'},
	{regexp.MustCompile(`/([^/\n]+)/`), StyleItalic, '/'},
	{regexp.MustCompile("~([^~\n]+)~"), StyleCode, 0},
	{regexp.MustCompile("=([^=\n]+)="), StyleCode, 0},
	{regexp.MustCompile(`_([^_\n]+)_`), StyleUnderline, '_'},
	{regexp.MustCompile(`\+([^+\n]+)\+`), StyleStrikethrough, '+'},
}

// findSpans collects every inline-format candidate in text, across all
// patterns, in source order per pattern. Overlaps are resolved later by
// reduceSpans.
func findSpans(text string) []span {
	var spans []span

	for _, p := range inlinePatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			if p.delim != 0 && !emphasisBoundaryOK(text, loc[0], loc[1], p.delim) {
				continue
			}
			s := span{Start: loc[0], End: loc[1], Kind: p.kind}
			switch {
			case p.kind == StyleLink && len(loc) >= 6 && loc[4] >= 0:
				// [[url][description]]
				s.Data = text[loc[2]:loc[3]]
				s.Content = text[loc[4]:loc[5]]
			case p.kind == StyleLink:
				// [[url]] displays the URL itself.
				s.Data = text[loc[2]:loc[3]]
				s.Content = text[loc[2]:loc[3]]
			default:
				s.Content = text[loc[2]:loc[3]]
			}
			spans = append(spans, s)
		}
	}

	return spans
}

// emphasisBoundaryOK rejects emphasis spans touching a word character or a
// repeated delimiter, so a*b*c is not read as emphasis around a single
// letter. Links and code delimiters are exempt.
func emphasisBoundaryOK(text string, start, end int, delim rune) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if r == delim || isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if r == delim || isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// reduceSpans resolves overlapping candidates to a non-overlapping set: sort
// by (start ascending, length descending), then sweep left to right keeping a
// span only when it starts at or after the end of the last kept one. Earlier
// and longer spans win ties.
func reduceSpans(spans []span) []span {
	sorted := append([]span(nil), spans...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	var kept []span
	lastEnd := -1
	for _, s := range sorted {
		if s.Start >= lastEnd {
			kept = append(kept, s)
			lastEnd = s.End
		}
	}
	return kept
}
