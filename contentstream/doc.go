// Package contentstream lexes PDF content streams into tokens.
//
// Content streams contain the instructions for rendering page content.
// Operands precede the operator that consumes them:
//
//	lx := contentstream.NewLexer(streamData)
//	for {
//	    tok, err := lx.Next()
//	    if err != nil {
//	        return err
//	    }
//	    if tok.Kind == contentstream.TokenEnd {
//	        break
//	    }
//	    // tok.Operand or tok.Keyword
//	}
//
// # Operators
//
// Operators are classified into the closed [Op] set used by text extraction:
//
//   - BT, ET - begin/end text object
//   - Tf, Ts, Tc, Tw - text state
//   - Td, TD, Tm, T* - text positioning
//   - Tj, TJ, ', " - text showing
//
// Any other operator (graphics state, paths, marked content, XObjects) is
// reported as [OpOther] with its name preserved.
//
// # Operand Types
//
// Operands are numbers, strings, names and arrays, plus the booleans, nulls
// and dictionaries that appear in marked-content property lists. Inline image
// data between ID and EI is skipped.
package contentstream
