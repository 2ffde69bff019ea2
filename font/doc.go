// Package font provides glyph metrics and text decoding for PDF fonts.
//
// Text extraction needs three things from a font: the width of a word
// space, the advance width of each character, and a way to turn the raw
// character codes of a string operand into Unicode text. The [Metrics]
// interface captures exactly that, and [Font] implements it.
//
// # Font Creation
//
// Fonts are created from explicit metrics, usually gathered from a PDF font
// dictionary by the document layer:
//
//	f := font.New(font.Config{
//	    Name:     "F1",
//	    BaseFont: "ABCDEF+Garamond",
//	    Widths:   widths,  // rune -> width in 1000ths of em
//	    Decoder:  decodeFn,
//	})
//
// or from the built-in Standard 14 tables:
//
//	f := font.NewStandardFont("F1", "Helvetica")
//
// # Character Widths
//
// Widths are reported in glyph space (1000ths of an em) and must be scaled by
// the font size by the caller:
//
//	w := f.AdvanceWidth('W')
//	total := f.StringWidth("Hello")
//
// # Decoding
//
// Decoded text is normalized to NFC. [DecodeRaw] is the fallback used when no
// font is available: UTF-16 strings with a byte order mark are honored and
// everything else is read as Windows-1252.
package font
