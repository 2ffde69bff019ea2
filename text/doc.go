// Package text reconstructs the raw text of a page from its content stream.
//
// PDF content streams carry no explicit "next word" or "next line" signal.
// The [Tracker] infers them from geometry: it interprets text operators,
// keeps the operand stack and the text cursor, and inserts a space or a
// newline whenever the cursor moves far enough.
//
// # Extraction
//
//	raw, err := text.Extract(contentstream.NewLexer(data), resolver)
//
// The resolver maps font resource names such as "F1" to [font.Metrics]. A nil
// resolver, or a name it cannot resolve, makes the tracker decode strings with
// [font.DecodeRaw] and stop advancing the cursor for shown text.
//
// # Operand Discipline
//
// Every operand is pushed onto a stack that is fully drained after every
// operator, recognized or not. Recognized text operators must find exactly
// the operands they need; otherwise extraction fails with a [*ParseError] and
// no text is returned. Positioning and showing operators are only legal
// between BT and ET.
//
// # Cursor Adjustment
//
// When Td, TD or Tm move the cursor, [Adjust] decides what to emit: a space
// when the horizontal move is at least one space width, a newline when the
// vertical move exceeds [DefaultVerticalThreshold] and no text rise is
// active. Both may fire for the same move.
package text
