package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSegmentSentences tests heuristic sentence boundaries
func TestSegmentSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"terminals", "Hello.  World! Foo?", []string{"Hello.", "World!", "Foo?"}},
		{"quoted period", `He said "Stop." Then left.`, []string{`He said "Stop."`, "Then left."}},
		{"quoted question", "Really?' she asked.", []string{"Really?'", "she asked."}},
		{"single letter abbreviation", "Use e.g. this one.", []string{"Use e.g. this one."}},
		{"two digits", "Chapter 12. Next", []string{"Chapter 12. Next"}},
		{"three digits", "In 1999. Then", []string{"In 1999.", "Then"}},
		{"closing bracket", "(see above). Next", []string{"(see above).", "Next"}},
		{"wrapped line", "This is a\nwrapped line. Next one", []string{"This is a wrapped line.", "Next one"}},
		{"unicode letters", "Grüße. Tschüss", []string{"Grüße.", "Tschüss"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(Segment(tt.input, true, false)))
		})
	}
}

// TestSegmentWithoutSentences tests structural splitting only
func TestSegmentWithoutSentences(t *testing.T) {
	got := Segment("This is a\nwrapped line. Next\n\nNew para.", false, false)
	assert.Equal(t, []Paragraph{
		{"This is a", "wrapped line. Next"},
		{"New para."},
	}, got)
}

// TestSegmentParagraphs tests paragraph breaks survive sentence splitting
func TestSegmentParagraphs(t *testing.T) {
	got := Segment("First one. Second one.\n\nThird one.", true, false)
	assert.Equal(t, []Paragraph{
		{"First one.", "Second one."},
		{"Third one."},
	}, got)
}

// TestSegmentHTML tests markup handling
func TestSegmentHTML(t *testing.T) {
	got := Segment("<P>One</P><p>Two<BR>three<br/>four</p>", false, true)
	assert.Equal(t, []Paragraph{{"One"}, {"Two", "three", "four"}}, got)

	got = Segment("A <note>hidden</note> tag", false, true)
	assert.Equal(t, []Paragraph{{"A hidden tag"}}, got)
	assert.NotContains(t, Flatten(got)[0], "<note>")

	got = Segment("Fish &amp; Chips", false, true)
	assert.Equal(t, "Fish & Chips", Flatten(got)[0])

	got = Segment("<b>kept</b>", false, false)
	assert.Equal(t, "<b>kept</b>", Flatten(got)[0])
}

// TestSegmentEntities tests that entities are folded before sentence splitting
func TestSegmentEntities(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"no-break space", "<p>Stop!&nbsp;Go now.</p>", []string{"Stop!", "Go now."}},
		{"numeric no-break space", "Wait?&#160;Yes.", []string{"Wait?", "Yes."}},
		{"curly quotes", "He said &ldquo;Stop.&rdquo; Then left.", []string{`He said "Stop."`, "Then left."}},
		{"dash", "A&mdash;B", []string{"A-B"}},
		{"doubled space", "one &nbsp; two", []string{"one two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Flatten(Segment(tt.input, true, true)))
		})
	}
}

// TestSegmentStrayAngleBrackets documents the non-nesting tag pattern
func TestSegmentStrayAngleBrackets(t *testing.T) {
	got := Segment("a < b and c > d", false, true)
	assert.Equal(t, []string{"a d"}, Flatten(got))
}

// TestSegmentDiscardsEmpty tests empty fragment and paragraph removal
func TestSegmentDiscardsEmpty(t *testing.T) {
	assert.Empty(t, Segment("", true, true))
	assert.Empty(t, Segment("\n\n\n", false, false))
	assert.Empty(t, Segment("<p></p><br>", false, true))

	for _, p := range Segment(" a \n\n\n b \n  \n c ", false, false) {
		for _, frag := range p {
			assert.NotEmpty(t, frag)
			assert.Equal(t, Normalize(frag), frag)
		}
	}
}

// TestJoinWrappedLines tests single newline removal
func TestJoinWrappedLines(t *testing.T) {
	assert.Equal(t, "a b\n\nc", joinWrappedLines("a\nb\n\nc"))
	assert.Equal(t, "a b", joinWrappedLines("a \nb"))
	assert.Equal(t, "a\n\n\nb", joinWrappedLines("a\n\n\nb"))
}
