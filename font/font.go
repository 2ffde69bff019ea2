package font

// Metrics supplies the measurements text extraction takes from a font.
// Widths are in 1000ths of an em.
type Metrics interface {
	// WordSpace returns the font's word-space width, or 0 if it has none.
	WordSpace() float64
	// AdvanceWidth returns the advance width of r, or 0 if unknown.
	AdvanceWidth(r rune) float64
	// Decode converts raw character codes to Unicode text.
	Decode(raw []byte) string
}

// DecoderFunc converts raw character codes to text.
type DecoderFunc func(raw []byte) string

// Config describes a font built from explicit metrics.
type Config struct {
	Name     string // resource name, e.g. "F1"
	BaseFont string
	Subtype  string

	// Widths maps Unicode characters to advance widths.
	Widths map[rune]float64

	// MissingWidth is used for characters absent from Widths.
	MissingWidth float64

	// WordSpace is the font's word-space metric. Most PDF fonts carry none.
	WordSpace float64

	// Decoder converts character codes. Nil means DecodeRaw.
	Decoder DecoderFunc
}

// Font is a resolved font with width information.
type Font struct {
	Name     string
	BaseFont string
	Subtype  string

	widths       map[rune]float64
	standard     *asciiWidths
	missingWidth float64
	wordSpace    float64
	decode       DecoderFunc
}

var _ Metrics = (*Font)(nil)

// New creates a font from cfg. When cfg carries no widths, Standard 14 widths
// are used for a matching base font and Helvetica widths otherwise.
func New(cfg Config) *Font {
	f := &Font{
		Name:         cfg.Name,
		BaseFont:     cfg.BaseFont,
		Subtype:      cfg.Subtype,
		widths:       cfg.Widths,
		missingWidth: cfg.MissingWidth,
		wordSpace:    cfg.WordSpace,
		decode:       cfg.Decoder,
	}
	if f.widths == nil {
		f.widths = make(map[rune]float64)
	}

	if std, ok := standardFonts[stripSubsetPrefix(cfg.BaseFont)]; ok {
		f.standard = std
	} else if len(f.widths) == 0 {
		f.standard = &helvetica
	}

	return f
}

// NewStandardFont creates a font that uses the built-in Standard 14 metrics.
func NewStandardFont(name, baseFont string) *Font {
	return New(Config{Name: name, BaseFont: baseFont, Subtype: "Type1"})
}

// WordSpace implements Metrics.
func (f *Font) WordSpace() float64 {
	return f.wordSpace
}

// AdvanceWidth implements Metrics.
func (f *Font) AdvanceWidth(r rune) float64 {
	if w, ok := f.widths[r]; ok {
		return w
	}
	if f.standard != nil {
		if w, ok := f.standard.lookup(r); ok {
			return w
		}
	}
	return f.missingWidth
}

// StringWidth returns the total advance width of s.
func (f *Font) StringWidth(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += f.AdvanceWidth(r)
	}
	return total
}

// Decode implements Metrics.
func (f *Font) Decode(raw []byte) string {
	if f.decode == nil {
		return DecodeRaw(raw)
	}
	return NormalizeUnicode(f.decode(raw))
}

// IsStandard reports whether the font uses Standard 14 metrics.
func (f *Font) IsStandard() bool {
	return IsStandardFont(f.BaseFont)
}
