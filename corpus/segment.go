package corpus

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Paragraph is an ordered list of non-empty fragments.
type Paragraph []string

// segmentOptions selects which rules apply.
type segmentOptions struct {
	splitSentences bool
	removeHTMLTags bool
}

// rule is one ordered rewrite applied before structural splitting.
type rule struct {
	name    string
	enabled func(segmentOptions) bool
	apply   func(string) string
}

var (
	paragraphTag = regexp.MustCompile(`(?i)</p\s*>`)
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	anyTag       = regexp.MustCompile(`<[^<>]+>`)

	// A terminal '!' or '?', optionally quoted, or a quoted '.'.
	quotedTerminal = regexp.MustCompile(`([!?]["']?|\.["'])\s`)

	// A period after two or more letters or three or more digits, with an
	// optional closing bracket, followed by one space.
	wordTerminal = regexp.MustCompile(`((?:\p{L}{2,}|\d{3,})[)\]}]?\.) `)

	paragraphBreak = regexp.MustCompile(`\n{2,}`)
)

func htmlEnabled(o segmentOptions) bool      { return o.removeHTMLTags }
func sentencesEnabled(o segmentOptions) bool { return o.splitSentences }

func replaceWith(re *regexp.Regexp, repl string) func(string) string {
	return func(s string) string {
		return re.ReplaceAllString(s, repl)
	}
}

// segmentRules run in order. Markup is resolved before sentence boundaries
// are inserted, and both run before the structural split.
var segmentRules = []rule{
	{"paragraph tags", htmlEnabled, replaceWith(paragraphTag, "\n\n")},
	{"line break tags", htmlEnabled, replaceWith(lineBreakTag, "\n")},
	{"strip tags", htmlEnabled, replaceWith(anyTag, "")},
	{"unescape entities", htmlEnabled, unescapeEntities},
	{"join wrapped lines", sentencesEnabled, joinWrappedLines},
	{"quoted terminals", sentencesEnabled, replaceWith(quotedTerminal, "${1}\n")},
	{"word terminals", sentencesEnabled, replaceWith(wordTerminal, "${1}\n")},
}

// unescapeEntities resolves character references and folds what they
// produce, so "&nbsp;" and "&rdquo;" reach the sentence rules as ASCII.
func unescapeEntities(s string) string {
	return foldPunctuation(foldWhitespace(canonicalizeBreaks(html.UnescapeString(s))))
}

// Segment splits text into paragraphs of fragments. Empty fragments and empty
// paragraphs are discarded.
func Segment(text string, splitSentences, removeHTMLTags bool) []Paragraph {
	opts := segmentOptions{splitSentences: splitSentences, removeHTMLTags: removeHTMLTags}
	for _, r := range segmentRules {
		if r.enabled(opts) {
			text = r.apply(text)
		}
	}

	var out []Paragraph
	for _, block := range paragraphBreak.Split(text, -1) {
		var p Paragraph
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimFunc(line, isTrimmable)
			if line != "" {
				p = append(p, line)
			}
		}
		if len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Flatten returns the fragments of all paragraphs in order.
func Flatten(paragraphs []Paragraph) []string {
	var out []string
	for _, p := range paragraphs {
		out = append(out, p...)
	}
	return out
}

// joinWrappedLines replaces each single newline with a space. Runs of two or
// more newlines are paragraph breaks and are kept.
func joinWrappedLines(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i, r := range runes {
		if r != '\n' {
			b.WriteRune(r)
			continue
		}
		prevBreak := i > 0 && runes[i-1] == '\n'
		nextBreak := i+1 < len(runes) && runes[i+1] == '\n'
		if prevBreak || nextBreak {
			b.WriteRune(r)
			continue
		}
		prevSpace := i > 0 && isSpace(runes[i-1])
		nextSpace := i+1 < len(runes) && isSpace(runes[i+1])
		if !prevSpace && !nextSpace {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
