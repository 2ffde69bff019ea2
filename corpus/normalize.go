package corpus

import (
	"regexp"
	"strings"
)

// Normalize returns the canonical form of s. It is total and idempotent, and
// its output never holds two consecutive spaces or more than two consecutive
// newlines.
func Normalize(s string) string {
	for _, phase := range normalizePhases {
		s = phase(s)
	}
	return s
}

// normalizePhases run in order. Whitespace folding must precede punctuation
// folding, and newline collapsing must run last.
var normalizePhases = []func(string) string{
	trimText,
	canonicalizeBreaks,
	foldWhitespace,
	foldPunctuation,
	collapseNewlines,
}

// isSpace reports whether r is a horizontal whitespace code point.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\v', '\f', ' ', 0x00A0, 0x1680, 0x202F, 0x205F, 0x3000:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// isBreak reports whether r is a line or paragraph break.
func isBreak(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x0085 || r == 0x2028 || r == 0x2029
}

func isTrimmable(r rune) bool {
	return isSpace(r) || isBreak(r)
}

func trimText(s string) string {
	return strings.TrimFunc(s, isTrimmable)
}

func canonicalizeBreaks(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case 0x2029:
			b.WriteString("\n\n")
		case '\r':
			// CRLF is a single break.
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			b.WriteByte('\n')
		case '\n', 0x0085, 0x2028:
			b.WriteByte('\n')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldWhitespace maps every space code point to ASCII space and collapses
// runs. Spaces next to a newline are dropped.
func foldWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pending := false
	atLineStart := true
	for _, r := range s {
		switch {
		case isSpace(r):
			if !atLineStart {
				pending = true
			}
		case r == '\n':
			pending = false
			atLineStart = true
			b.WriteByte('\n')
		default:
			if pending {
				b.WriteByte(' ')
				pending = false
			}
			atLineStart = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

func foldPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if repl, ok := decorative[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var newlineRun = regexp.MustCompile(`\n{3,}`)

func collapseNewlines(s string) string {
	return newlineRun.ReplaceAllString(s, "\n\n")
}

// decorative maps typographic code points to ASCII. Replacements never
// contain whitespace.
var decorative = map[rune]string{
	0x00AB: `"`,  // LEFT-POINTING DOUBLE ANGLE QUOTATION MARK
	0x00AD: "-",  // SOFT HYPHEN
	0x00B4: "'",  // ACUTE ACCENT
	0x00BB: `"`,  // RIGHT-POINTING DOUBLE ANGLE QUOTATION MARK
	0x00F7: "/",  // DIVISION SIGN
	0x01C0: "|",  // LATIN LETTER DENTAL CLICK
	0x01C3: "!",  // LATIN LETTER RETROFLEX CLICK
	0x02B9: "'",  // MODIFIER LETTER PRIME
	0x02BA: `"`,  // MODIFIER LETTER DOUBLE PRIME
	0x02BC: "'",  // MODIFIER LETTER APOSTROPHE
	0x02C4: "^",  // MODIFIER LETTER UP ARROWHEAD
	0x02C6: "^",  // MODIFIER LETTER CIRCUMFLEX ACCENT
	0x02C8: "'",  // MODIFIER LETTER VERTICAL LINE
	0x02CB: "`",  // MODIFIER LETTER GRAVE ACCENT
	0x02CD: "_",  // MODIFIER LETTER LOW MACRON
	0x02DC: "~",  // SMALL TILDE
	0x0300: "`",  // COMBINING GRAVE ACCENT
	0x0301: "'",  // COMBINING ACUTE ACCENT
	0x0302: "^",  // COMBINING CIRCUMFLEX ACCENT
	0x0303: "~",  // COMBINING TILDE
	0x030B: `"`,  // COMBINING DOUBLE ACUTE ACCENT
	0x030E: `"`,  // COMBINING DOUBLE VERTICAL LINE ABOVE
	0x0331: "_",  // COMBINING MACRON BELOW
	0x0332: "_",  // COMBINING LOW LINE
	0x0338: "/",  // COMBINING LONG SOLIDUS OVERLAY
	0x0589: ":",  // ARMENIAN FULL STOP
	0x05C0: "|",  // HEBREW PUNCTUATION PASEQ
	0x05C3: ":",  // HEBREW PUNCTUATION SOF PASUQ
	0x066A: "%",  // ARABIC PERCENT SIGN
	0x066D: "*",  // ARABIC FIVE POINTED STAR
	0x2010: "-",  // HYPHEN
	0x2011: "-",  // NON-BREAKING HYPHEN
	0x2012: "-",  // FIGURE DASH
	0x2013: "-",  // EN DASH
	0x2014: "-",  // EM DASH
	0x2015: "--", // HORIZONTAL BAR
	0x2016: "||", // DOUBLE VERTICAL LINE
	0x2017: "_",  // DOUBLE LOW LINE
	0x2018: "'",  // LEFT SINGLE QUOTATION MARK
	0x2019: "'",  // RIGHT SINGLE QUOTATION MARK
	0x201A: ",",  // SINGLE LOW-9 QUOTATION MARK
	0x201B: "'",  // SINGLE HIGH-REVERSED-9 QUOTATION MARK
	0x201C: `"`,  // LEFT DOUBLE QUOTATION MARK
	0x201D: `"`,  // RIGHT DOUBLE QUOTATION MARK
	0x201E: `"`,  // DOUBLE LOW-9 QUOTATION MARK
	0x201F: `"`,  // DOUBLE HIGH-REVERSED-9 QUOTATION MARK
	0x2032: "'",  // PRIME
	0x2033: `"`,  // DOUBLE PRIME
	0x2034: "'",  // TRIPLE PRIME
	0x2035: "`",  // REVERSED PRIME
	0x2036: `"`,  // REVERSED DOUBLE PRIME
	0x2037: "'",  // REVERSED TRIPLE PRIME
	0x2038: "^",  // CARET
	0x2039: "<",  // SINGLE LEFT-POINTING ANGLE QUOTATION MARK
	0x203A: ">",  // SINGLE RIGHT-POINTING ANGLE QUOTATION MARK
	0x203D: "?",  // INTERROBANG
	0x2044: "/",  // FRACTION SLASH
	0x204E: "*",  // LOW ASTERISK
	0x2052: "%",  // COMMERCIAL MINUS SIGN
	0x2053: "~",  // SWUNG DASH
	0x20E5: `\`,  // COMBINING REVERSE SOLIDUS OVERLAY
	0x2212: "-",  // MINUS SIGN
	0x2215: "/",  // DIVISION SLASH
	0x2216: `\`,  // SET MINUS
	0x2217: "*",  // ASTERISK OPERATOR
	0x2223: "|",  // DIVIDES
	0x2236: ":",  // RATIO
	0x223C: "~",  // TILDE OPERATOR
	0x2264: "<=", // LESS-THAN OR EQUAL TO
	0x2265: ">=", // GREATER-THAN OR EQUAL TO
	0x2266: "<=", // LESS-THAN OVER EQUAL TO
	0x2267: ">=", // GREATER-THAN OVER EQUAL TO
	0x2303: "^",  // UP ARROWHEAD
	0x2329: "<",  // LEFT-POINTING ANGLE BRACKET
	0x232A: ">",  // RIGHT-POINTING ANGLE BRACKET
	0x266F: "#",  // MUSIC SHARP SIGN
	0x2731: "*",  // HEAVY ASTERISK
	0x2758: "|",  // LIGHT VERTICAL BAR
	0x2762: "!",  // HEAVY EXCLAMATION MARK ORNAMENT
	0x27E6: "[",  // MATHEMATICAL LEFT WHITE SQUARE BRACKET
	0x27E7: "]",  // MATHEMATICAL RIGHT WHITE SQUARE BRACKET
	0x27E8: "<",  // MATHEMATICAL LEFT ANGLE BRACKET
	0x27E9: ">",  // MATHEMATICAL RIGHT ANGLE BRACKET
	0x2983: "{",  // LEFT WHITE CURLY BRACKET
	0x2984: "}",  // RIGHT WHITE CURLY BRACKET
	0x3003: `"`,  // DITTO MARK
	0x3008: "<",  // LEFT ANGLE BRACKET
	0x3009: ">",  // RIGHT ANGLE BRACKET
	0x301A: "[",  // LEFT WHITE SQUARE BRACKET
	0x301B: "]",  // RIGHT WHITE SQUARE BRACKET
	0x301C: "~",  // WAVE DASH
	0x301D: `"`,  // REVERSED DOUBLE PRIME QUOTATION MARK
	0x301E: `"`,  // DOUBLE PRIME QUOTATION MARK
	0x301F: `"`,  // LOW DOUBLE PRIME QUOTATION MARK
	0xFF02: `"`,  // FULLWIDTH QUOTATION MARK
	0xFF07: "'",  // FULLWIDTH APOSTROPHE
	0xFE63: "-",  // SMALL HYPHEN-MINUS
	0xFF0D: "-",  // FULLWIDTH HYPHEN-MINUS
}
