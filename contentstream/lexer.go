package contentstream

import (
	"bytes"
	"fmt"
	"strconv"
)

// SyntaxError reports malformed content stream bytes.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("content stream: offset %d: %s", e.Offset, e.Msg)
}

// Lexer splits a decoded content stream into operand and operator tokens.
type Lexer struct {
	data        []byte
	pos         int
	inlineImage bool // the previous token was the ID operator
}

// NewLexer creates a lexer over data.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Tokens lexes data completely. The returned slice does not include the end marker.
func Tokens(data []byte) ([]Token, error) {
	l := NewLexer(data)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokenEnd {
			return out, nil
		}
		out = append(out, tok)
	}
}

// Next returns the next token. At the end of data it returns a TokenEnd token.
func (l *Lexer) Next() (Token, error) {
	if l.inlineImage {
		l.inlineImage = false
		return l.skipInlineImage()
	}

	l.skipWhitespace()
	if l.pos >= len(l.data) {
		return Token{Kind: TokenEnd, Offset: l.pos}, nil
	}

	start := l.pos
	c := l.data[l.pos]

	if isRegular(c) {
		word := l.readRegular()
		if operand, ok, err := classifyWord(word); err != nil {
			return Token{}, &SyntaxError{Offset: start, Msg: err.Error()}
		} else if ok {
			return Token{Kind: TokenOperand, Operand: operand, Offset: start}, nil
		}
		if word == "ID" {
			l.inlineImage = true
		}
		return Token{Kind: TokenKeyword, Keyword: Keyword{Name: word, Op: LookupOp(word)}, Offset: start}, nil
	}

	operand, err := l.parseOperand()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenOperand, Operand: operand, Offset: start}, nil
}

// classifyWord turns a regular-character run into a number, boolean or null.
// ok is false when the word is an operator.
func classifyWord(word string) (Operand, bool, error) {
	switch word {
	case "true":
		return Operand{Kind: KindBool, Bool: true}, true, nil
	case "false":
		return Operand{Kind: KindBool}, true, nil
	case "null":
		return Operand{Kind: KindNull}, true, nil
	}

	c := word[0]
	if c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9') {
		v, err := parseNumber(word)
		if err != nil {
			return Operand{}, false, err
		}
		return Num(v), true, nil
	}
	return Operand{}, false, nil
}

// parseNumber accepts PDF integers and reals, including forms like "4." and
// "-.5". Exponents, hex and inf/nan spellings are not PDF numbers.
func parseNumber(word string) (float64, error) {
	if !isPDFNumber(word) {
		return 0, fmt.Errorf("invalid number %q", word)
	}
	v, err := strconv.ParseFloat(word, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", word)
	}
	return v, nil
}

// isPDFNumber reports whether word is an optional sign followed by digits
// with at most one decimal point and at least one digit.
func isPDFNumber(word string) bool {
	if word != "" && (word[0] == '+' || word[0] == '-') {
		word = word[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(word); i++ {
		switch c := word[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// readRegular consumes a run of regular characters.
func (l *Lexer) readRegular() string {
	start := l.pos
	for l.pos < len(l.data) && isRegular(l.data[l.pos]) {
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// parseOperand parses an operand that begins with a delimiter, or a number,
// boolean or null inside an array or dictionary.
func (l *Lexer) parseOperand() (Operand, error) {
	l.skipWhitespace()
	if l.pos >= len(l.data) {
		return Operand{}, &SyntaxError{Offset: l.pos, Msg: "unexpected end of stream"}
	}

	start := l.pos
	c := l.data[l.pos]

	switch {
	case c == '(':
		return l.parseString()
	case c == '<' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '<':
		return l.parseDict()
	case c == '<':
		return l.parseHexString()
	case c == '/':
		return l.parseName(), nil
	case c == '[':
		return l.parseArray()
	case isRegular(c):
		word := l.readRegular()
		operand, ok, err := classifyWord(word)
		if err != nil {
			return Operand{}, &SyntaxError{Offset: start, Msg: err.Error()}
		}
		if !ok {
			return Operand{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("operator %q inside operand", word)}
		}
		return operand, nil
	}

	return Operand{}, &SyntaxError{Offset: start, Msg: fmt.Sprintf("unexpected character %q", c)}
}

// parseString parses a literal string (...) with escape sequence handling.
func (l *Lexer) parseString() (Operand, error) {
	start := l.pos
	l.pos++ // skip '('

	var result bytes.Buffer
	depth := 1

	for l.pos < len(l.data) && depth > 0 {
		c := l.data[l.pos]

		switch {
		case c == '\\' && l.pos+1 < len(l.data):
			l.pos++
			next := l.data[l.pos]
			l.pos++
			switch next {
			case 'n':
				result.WriteByte('\n')
			case 'r':
				result.WriteByte('\r')
			case 't':
				result.WriteByte('\t')
			case 'b':
				result.WriteByte('\b')
			case 'f':
				result.WriteByte('\f')
			case '\r':
				// Line continuation
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
				// Line continuation
			case '0', '1', '2', '3', '4', '5', '6', '7':
				octal := int(next - '0')
				for i := 0; i < 2 && l.pos < len(l.data); i++ {
					d := l.data[l.pos]
					if d < '0' || d > '7' {
						break
					}
					octal = octal*8 + int(d-'0')
					l.pos++
				}
				result.WriteByte(byte(octal & 0xFF))
			default:
				// \( \) \\ and unknown escapes keep the character
				result.WriteByte(next)
			}
		case c == '(':
			depth++
			result.WriteByte(c)
			l.pos++
		case c == ')':
			depth--
			if depth > 0 {
				result.WriteByte(c)
			}
			l.pos++
		default:
			result.WriteByte(c)
			l.pos++
		}
	}

	if depth != 0 {
		return Operand{}, &SyntaxError{Offset: start, Msg: "unclosed string"}
	}
	return Operand{Kind: KindString, Bytes: result.Bytes()}, nil
}

// parseHexString parses a hexadecimal string <...>.
func (l *Lexer) parseHexString() (Operand, error) {
	start := l.pos
	l.pos++ // skip '<'

	var result bytes.Buffer
	var hi byte
	haveHi := false

	for {
		if l.pos >= len(l.data) {
			return Operand{}, &SyntaxError{Offset: start, Msg: "unclosed hex string"}
		}
		c := l.data[l.pos]
		l.pos++

		if c == '>' {
			break
		}
		if isWhitespace(c) {
			continue
		}
		if !isHexDigit(c) {
			return Operand{}, &SyntaxError{Offset: l.pos - 1, Msg: fmt.Sprintf("invalid hex digit %q", c)}
		}
		if !haveHi {
			hi = hexValue(c)
			haveHi = true
			continue
		}
		result.WriteByte(hi<<4 | hexValue(c))
		haveHi = false
	}

	// Odd number of digits: the final digit is followed by an implied 0.
	if haveHi {
		result.WriteByte(hi << 4)
	}
	return Operand{Kind: KindString, Bytes: result.Bytes()}, nil
}

// parseName parses a name object /Name with # escape handling.
func (l *Lexer) parseName() Operand {
	l.pos++ // skip '/'

	var result bytes.Buffer
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if !isRegular(c) {
			break
		}
		if c == '#' && l.pos+2 < len(l.data) && isHexDigit(l.data[l.pos+1]) && isHexDigit(l.data[l.pos+2]) {
			result.WriteByte(hexValue(l.data[l.pos+1])<<4 | hexValue(l.data[l.pos+2]))
			l.pos += 3
			continue
		}
		result.WriteByte(c)
		l.pos++
	}
	return NameOp(result.String())
}

// parseArray parses an array [...] of operands.
func (l *Lexer) parseArray() (Operand, error) {
	start := l.pos
	l.pos++ // skip '['

	arr := make([]Operand, 0)
	for {
		l.skipWhitespace()
		if l.pos >= len(l.data) {
			return Operand{}, &SyntaxError{Offset: start, Msg: "unclosed array"}
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return Arr(arr...), nil
		}
		item, err := l.parseOperand()
		if err != nil {
			return Operand{}, err
		}
		arr = append(arr, item)
	}
}

// parseDict parses a dictionary <<...>>, which appears in marked-content operators.
func (l *Lexer) parseDict() (Operand, error) {
	start := l.pos
	l.pos += 2 // skip '<<'

	dict := make(map[string]Operand)
	for {
		l.skipWhitespace()
		if l.pos+1 < len(l.data) && l.data[l.pos] == '>' && l.data[l.pos+1] == '>' {
			l.pos += 2
			return Operand{Kind: KindDict, Dict: dict}, nil
		}
		if l.pos >= len(l.data) {
			return Operand{}, &SyntaxError{Offset: start, Msg: "unclosed dictionary"}
		}
		if l.data[l.pos] != '/' {
			return Operand{}, &SyntaxError{Offset: l.pos, Msg: "dictionary key must be a name"}
		}
		key := l.parseName()
		value, err := l.parseOperand()
		if err != nil {
			return Operand{}, err
		}
		dict[key.Name] = value
	}
}

// skipInlineImage skips the binary payload that follows ID and returns the
// closing EI operator. The payload ends at an "EI" surrounded by whitespace.
func (l *Lexer) skipInlineImage() (Token, error) {
	start := l.pos
	// A single whitespace byte separates ID from the data.
	if l.pos < len(l.data) && isWhitespace(l.data[l.pos]) {
		l.pos++
	}
	for i := l.pos; i+1 < len(l.data); i++ {
		if l.data[i] != 'E' || l.data[i+1] != 'I' {
			continue
		}
		if i > 0 && !isWhitespace(l.data[i-1]) {
			continue
		}
		if i+2 < len(l.data) && !isWhitespace(l.data[i+2]) {
			continue
		}
		l.pos = i + 2
		return Token{Kind: TokenKeyword, Keyword: Keyword{Name: "EI", Op: OpOther}, Offset: i}, nil
	}
	return Token{}, &SyntaxError{Offset: start, Msg: "unterminated inline image"}
}

// skipWhitespace advances past whitespace and comments.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isWhitespace(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

// isRegular reports whether c can be part of an operator, number or name.
func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

// isHexDigit reports whether c is a hexadecimal digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
