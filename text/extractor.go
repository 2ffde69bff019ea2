package text

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/fractionator/contentstream"
	"github.com/tsawler/fractionator/font"
)

// FontResolver resolves a font resource name of the page being extracted.
type FontResolver interface {
	ResolveFont(name string) (font.Metrics, bool)
}

// FontResolverFunc adapts a function to FontResolver.
type FontResolverFunc func(name string) (font.Metrics, bool)

// ResolveFont implements FontResolver.
func (f FontResolverFunc) ResolveFont(name string) (font.Metrics, bool) {
	return f(name)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithVerticalThreshold overrides DefaultVerticalThreshold.
func WithVerticalThreshold(threshold float64) Option {
	return func(t *Tracker) {
		t.verticalThreshold = threshold
	}
}

// Tracker interprets text operators and accumulates the raw text of a page.
// A Tracker may be reused; all state is reset by Extract. It is not safe for
// concurrent use.
type Tracker struct {
	fonts             FontResolver
	logger            zerolog.Logger
	verticalThreshold float64

	stack    []contentstream.Operand
	inText   bool
	cur      cursor
	font     font.Metrics
	fontSize float64
	out      strings.Builder
}

// NewTracker creates a tracker. fonts may be nil.
func NewTracker(fonts FontResolver, opts ...Option) *Tracker {
	t := &Tracker{
		fonts:             fonts,
		logger:            zerolog.Nop(),
		verticalThreshold: DefaultVerticalThreshold,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Extract is a convenience wrapper around NewTracker(fonts, opts...).Extract(src).
func Extract(src contentstream.Source, fonts FontResolver, opts ...Option) (string, error) {
	return NewTracker(fonts, opts...).Extract(src)
}

// Extract consumes src up to its end marker and returns the raw text. On any
// error the text decoded so far is discarded.
func (t *Tracker) Extract(src contentstream.Source) (string, error) {
	t.reset()
	defer t.reset()

	for {
		tok, err := src.Next()
		if err != nil {
			offset := -1
			var syn *contentstream.SyntaxError
			if errors.As(err, &syn) {
				offset = syn.Offset
			}
			return "", &ParseError{Offset: offset, Msg: "stream fault", Err: err}
		}

		switch tok.Kind {
		case contentstream.TokenOperand:
			t.stack = append(t.stack, tok.Operand)

		case contentstream.TokenKeyword:
			err := t.apply(tok)
			// The stack never survives an operator boundary.
			t.stack = t.stack[:0]
			if err != nil {
				return "", err
			}

		case contentstream.TokenEnd:
			if t.inText {
				return "", &ParseError{Offset: tok.Offset, Msg: "unexpected end of stream inside text object"}
			}
			if len(t.stack) > 0 {
				return "", &ParseError{Offset: tok.Offset, Msg: fmt.Sprintf("unexpected end of stream with %d pending operands", len(t.stack))}
			}
			return t.out.String(), nil

		default:
			return "", &ParseError{Offset: tok.Offset, Msg: fmt.Sprintf("unknown token kind %d", tok.Kind)}
		}
	}
}

func (t *Tracker) reset() {
	t.stack = t.stack[:0]
	t.inText = false
	t.cur = cursor{}
	t.font = nil
	t.fontSize = 0
	t.out.Reset()
}

// apply executes one operator against the current operand stack.
func (t *Tracker) apply(tok contentstream.Token) error {
	kw := tok.Keyword
	if kw.Op == contentstream.OpOther {
		return nil
	}
	if n := kw.Op.Arity(); len(t.stack) != n {
		return t.errorf(tok, "expected %d operands, got %d", n, len(t.stack))
	}

	// Text object delimiters and text state operators.
	switch kw.Op {
	case contentstream.OpBeginText:
		if t.inText {
			return t.errorf(tok, "nested text object")
		}
		t.inText = true
		return nil

	case contentstream.OpEndText:
		if !t.inText {
			return t.errorf(tok, "end of text object without begin")
		}
		t.inText = false
		return nil

	case contentstream.OpSetFont:
		return t.setFont(tok)

	case contentstream.OpSetTextRise:
		rise, err := t.number(tok, 0)
		if err != nil {
			return err
		}
		t.cur.textRise = rise
		return nil

	case contentstream.OpSetCharSpacing, contentstream.OpSetWordSpacing:
		// Spacing affects rendering only.
		_, err := t.number(tok, 0)
		return err
	}

	// Positioning and showing operators.
	if !t.inText {
		return t.errorf(tok, "operator outside text object")
	}

	switch kw.Op {
	case contentstream.OpMoveText, contentstream.OpMoveTextSetLeading, contentstream.OpSetTextMatrix:
		vals := make([]float64, len(t.stack))
		for i := range t.stack {
			v, err := t.number(tok, i)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		x, y := vals[len(vals)-2], vals[len(vals)-1]
		t.out.WriteString(t.cur.moveTo(x, y, t.verticalThreshold))

	case contentstream.OpNextLine:
		t.out.WriteByte('\n')

	case contentstream.OpShowText:
		raw, err := t.str(tok, 0)
		if err != nil {
			return err
		}
		t.show(raw)

	case contentstream.OpNextLineShowText:
		raw, err := t.str(tok, 0)
		if err != nil {
			return err
		}
		t.out.WriteByte('\n')
		t.show(raw)

	case contentstream.OpNextLineShowTextSpaced:
		for i := 0; i < 2; i++ {
			if _, err := t.number(tok, i); err != nil {
				return err
			}
		}
		raw, err := t.str(tok, 2)
		if err != nil {
			return err
		}
		t.out.WriteByte('\n')
		t.show(raw)

	case contentstream.OpShowTextArray:
		return t.showArray(tok)
	}

	return nil
}

// setFont handles Tf: size, then spaceWidth from the font metrics.
func (t *Tracker) setFont(tok contentstream.Token) error {
	nameOp := t.stack[0]
	if nameOp.Kind != contentstream.KindName {
		return t.errorf(tok, "operand 0: expected name, got %s", nameOp.Kind)
	}
	size, err := t.number(tok, 1)
	if err != nil {
		return err
	}

	t.fontSize = size

	var metrics font.Metrics
	ok := false
	if t.fonts != nil {
		metrics, ok = t.fonts.ResolveFont(nameOp.Name)
	}
	if !ok || metrics == nil {
		t.logger.Debug().Str("font", nameOp.Name).Msg("font not resolved")
		t.font = nil
		return nil
	}
	t.font = metrics

	sw := metrics.WordSpace()
	if sw <= 0 {
		sw = metrics.AdvanceWidth(' ')
	}
	if sw <= 0 {
		sw = metrics.AdvanceWidth('W')
	}
	t.cur.spaceWidth = sw * math.Abs(size) / 1000
	return nil
}

// showArray handles TJ. Elements are validated before any text is appended.
func (t *Tracker) showArray(tok contentstream.Token) error {
	arr := t.stack[0]
	if arr.Kind != contentstream.KindArray {
		return t.errorf(tok, "operand 0: expected array, got %s", arr.Kind)
	}
	for i, el := range arr.Array {
		if el.Kind != contentstream.KindString && el.Kind != contentstream.KindNumber {
			return t.errorf(tok, "array element %d: expected string or number, got %s", i, el.Kind)
		}
	}

	for _, el := range arr.Array {
		if el.Kind == contentstream.KindString {
			t.show(el.Bytes)
			continue
		}
		// Kerning adjustment in thousandths of an em.
		t.cur.pos.X -= el.Number * t.fontSize / 1000
	}
	return nil
}

// show decodes raw, appends it and advances the cursor.
func (t *Tracker) show(raw []byte) {
	if t.font == nil {
		t.out.WriteString(font.DecodeRaw(raw))
		return
	}

	s := t.font.Decode(raw)
	t.out.WriteString(s)

	width := 0.0
	for _, r := range s {
		width += t.font.AdvanceWidth(r)
	}
	t.cur.pos.X += width * t.fontSize / 1000
}

func (t *Tracker) number(tok contentstream.Token, i int) (float64, error) {
	op := t.stack[i]
	if op.Kind != contentstream.KindNumber {
		return 0, t.errorf(tok, "operand %d: expected number, got %s", i, op.Kind)
	}
	return op.Number, nil
}

func (t *Tracker) str(tok contentstream.Token, i int) ([]byte, error) {
	op := t.stack[i]
	if op.Kind != contentstream.KindString {
		return nil, t.errorf(tok, "operand %d: expected string, got %s", i, op.Kind)
	}
	return op.Bytes, nil
}

func (t *Tracker) errorf(tok contentstream.Token, format string, args ...interface{}) error {
	return &ParseError{Op: tok.Keyword.Name, Offset: tok.Offset, Msg: fmt.Sprintf(format, args...)}
}
