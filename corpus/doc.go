// Package corpus turns raw page text into a structured text corpus.
//
// Processing runs in three stages:
//
//   - [Normalize] canonicalizes whitespace, line breaks and decorative
//     punctuation.
//   - [Segment] strips HTML markup, inserts heuristic sentence boundaries and
//     splits the text into paragraphs of fragments.
//   - [TextCorpus.Build] turns fragments into typed [Item] values, separating
//     paragraphs with empty delimiter items.
//
// [TextCorpus.Parse] runs all three with the corpus flags:
//
//	c := corpus.New(corpus.Flags{SplitSentences: true, SplitParagraphs: true})
//	c.Parse(raw, false)
//	for _, item := range c.Items() {
//	    if item.IsDelimiter() {
//	        continue
//	    }
//	    fmt.Println(item.Type(), item.Text())
//	}
//
// Sentence detection is heuristic: a boundary follows '!', '?', a quoted
// terminal such as `."` and a period preceded by two or more letters or three
// or more digits. It does not consult a dictionary of abbreviations.
package corpus
