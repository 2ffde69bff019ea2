// Package fractionator extracts the text of PDF pages and breaks it into a
// typed corpus of titles, sentences, paragraphs and list items.
//
// Basic usage:
//
//	doc, err := fractionator.Open("document.pdf", fractionator.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	defer doc.Close()
//
//	c, err := doc.GetText(1, true, true)
//	if err != nil {
//	    // handle error
//	}
//	for _, item := range c.Items() {
//	    fmt.Println(item.Type(), item.Text())
//	}
//
// A Document keeps one slot per page. The first GetText call for a page runs
// the content stream through the text position tracker and caches the raw
// text; corpora are then built from it, one per combination of flags, and
// reused by later calls.
//
// Plain text and HTML sources are loaded with FromText or by Load, which
// detects the input format. Pages can be rendered to images through a
// caller-supplied render.Rasterizer.
package fractionator
