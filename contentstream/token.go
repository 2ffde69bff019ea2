package contentstream

import (
	"fmt"
	"strconv"
	"strings"
)

// OperandKind identifies the type carried by an Operand.
type OperandKind int

const (
	// KindNumber is an integer or real number.
	KindNumber OperandKind = iota
	// KindString is a literal or hexadecimal string.
	KindString
	// KindName is a name object such as /F1.
	KindName
	// KindArray is an array of operands.
	KindArray
	// KindBool is true or false.
	KindBool
	// KindNull is the null object.
	KindNull
	// KindDict is a dictionary, typically a marked-content property list.
	KindDict
)

// String returns the kind name.
func (k OperandKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindName:
		return "name"
	case KindArray:
		return "array"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Operand is a single operand value. Only the field matching Kind is set.
type Operand struct {
	Kind   OperandKind
	Number float64
	Bytes  []byte // KindString: raw, undecoded bytes
	Name   string // KindName: without the leading '/'
	Array  []Operand
	Dict   map[string]Operand
	Bool   bool
}

// Num returns a number operand.
func Num(v float64) Operand { return Operand{Kind: KindNumber, Number: v} }

// Str returns a string operand.
func Str(s string) Operand { return Operand{Kind: KindString, Bytes: []byte(s)} }

// NameOp returns a name operand.
func NameOp(n string) Operand { return Operand{Kind: KindName, Name: n} }

// Arr returns an array operand.
func Arr(items ...Operand) Operand { return Operand{Kind: KindArray, Array: items} }

// String renders the operand in content stream syntax.
func (o Operand) String() string {
	switch o.Kind {
	case KindNumber:
		return strconv.FormatFloat(o.Number, 'f', -1, 64)
	case KindString:
		return fmt.Sprintf("(%s)", o.Bytes)
	case KindName:
		return "/" + o.Name
	case KindArray:
		parts := make([]string, len(o.Array))
		for i, item := range o.Array {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindBool:
		return strconv.FormatBool(o.Bool)
	case KindNull:
		return "null"
	case KindDict:
		return fmt.Sprintf("<<%d entries>>", len(o.Dict))
	default:
		return "?"
	}
}

// Op is the closed set of operators the text tracker distinguishes.
// Everything else is OpOther.
type Op int

const (
	OpOther Op = iota
	OpBeginText
	OpEndText
	OpSetFont
	OpSetTextRise
	OpSetCharSpacing
	OpSetWordSpacing
	OpMoveText
	OpMoveTextSetLeading
	OpSetTextMatrix
	OpNextLine
	OpShowText
	OpShowTextArray
	OpNextLineShowText
	OpNextLineShowTextSpaced
)

var opNames = map[string]Op{
	"BT": OpBeginText,
	"ET": OpEndText,
	"Tf": OpSetFont,
	"Ts": OpSetTextRise,
	"Tc": OpSetCharSpacing,
	"Tw": OpSetWordSpacing,
	"Td": OpMoveText,
	"TD": OpMoveTextSetLeading,
	"Tm": OpSetTextMatrix,
	"T*": OpNextLine,
	"Tj": OpShowText,
	"TJ": OpShowTextArray,
	"'":  OpNextLineShowText,
	"\"": OpNextLineShowTextSpaced,
}

// LookupOp classifies an operator name.
func LookupOp(name string) Op {
	if op, ok := opNames[name]; ok {
		return op
	}
	return OpOther
}

// Arity returns the exact number of operands op consumes, or -1 for OpOther,
// whose operands are discarded unchecked.
func (op Op) Arity() int {
	switch op {
	case OpBeginText, OpEndText, OpNextLine:
		return 0
	case OpSetTextRise, OpSetCharSpacing, OpSetWordSpacing,
		OpShowText, OpShowTextArray, OpNextLineShowText:
		return 1
	case OpSetFont, OpMoveText, OpMoveTextSetLeading:
		return 2
	case OpNextLineShowTextSpaced:
		return 3
	case OpSetTextMatrix:
		return 6
	default:
		return -1
	}
}

// TokenKind distinguishes operands, operators and the end marker.
type TokenKind int

const (
	// TokenOperand carries an Operand.
	TokenOperand TokenKind = iota
	// TokenKeyword carries an operator.
	TokenKeyword
	// TokenEnd marks the end of the stream.
	TokenEnd
)

// Keyword is an operator token.
type Keyword struct {
	Name string
	Op   Op
}

// Token is one lexical event from a content stream.
type Token struct {
	Kind    TokenKind
	Operand Operand
	Keyword Keyword
	Offset  int // byte offset in the stream, -1 when unknown
}

// KeywordToken returns an operator token for name.
func KeywordToken(name string) Token {
	return Token{Kind: TokenKeyword, Keyword: Keyword{Name: name, Op: LookupOp(name)}, Offset: -1}
}

// OperandToken wraps an operand.
func OperandToken(o Operand) Token {
	return Token{Kind: TokenOperand, Operand: o, Offset: -1}
}

// Source is an ordered stream of tokens. After the last token Next returns a
// TokenEnd token and a nil error.
type Source interface {
	Next() (Token, error)
}

// SliceSource replays a fixed token slice.
type SliceSource struct {
	tokens []Token
	pos    int
}

// NewSliceSource returns a Source over tokens.
func NewSliceSource(tokens ...Token) *SliceSource {
	return &SliceSource{tokens: tokens}
}

// Next implements Source.
func (s *SliceSource) Next() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{Kind: TokenEnd, Offset: -1}, nil
	}
	t := s.tokens[s.pos]
	s.pos++
	if t.Kind == TokenEnd {
		s.pos = len(s.tokens)
	}
	return t, nil
}
