package pdfdoc

import (
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/fractionator/font"
)

// maxCIDWidths bounds the number of entries read from a /W array.
const maxCIDWidths = 1 << 16

// ResolveFont returns the metrics of the font resource name on page n.
// Results are cached per page. ok is false when the page has no such font or
// the font dictionary cannot be read.
func (d *Document) ResolveFont(name string, n int) (metrics font.Metrics, ok bool) {
	key := fontKey{page: n, name: name}

	d.mu.Lock()
	defer d.mu.Unlock()

	if f, cached := d.fonts[key]; cached {
		if f == nil {
			return nil, false
		}
		return f, true
	}

	f := d.loadFont(name, n)
	d.fonts[key] = f
	if f == nil {
		return nil, false
	}
	return f, true
}

// loadFont builds a font from the page's font dictionary. It returns nil
// when the font is missing or malformed.
func (d *Document) loadFont(name string, n int) (f *font.Font) {
	defer func() {
		if r := recover(); r != nil {
			f = nil
		}
	}()

	p, err := d.page(n)
	if err != nil {
		return nil
	}
	pf := p.Font(name)
	if pf.V.IsNull() || pf.V.Kind() != pdf.Dict {
		return nil
	}

	enc := pf.Encoder()
	decode := func(raw []byte) string {
		s := enc.Decode(string(raw))
		if !utf8.ValidString(s) {
			return font.DecodeRaw(raw)
		}
		return s
	}

	subtype := pf.V.Key("Subtype").Name()
	cfg := font.Config{
		Name:     name,
		BaseFont: pf.BaseFont(),
		Subtype:  subtype,
		Decoder:  decode,
	}

	if subtype == "Type0" {
		cfg.Widths, cfg.MissingWidth = cidWidths(pf.V.Key("DescendantFonts").Index(0), decode)
	} else {
		cfg.Widths = simpleWidths(pf, decode)
		cfg.MissingWidth = pf.V.Key("FontDescriptor").Key("MissingWidth").Float64()
	}

	return font.New(cfg)
}

// simpleWidths maps the /Widths array of a single-byte font to Unicode.
func simpleWidths(pf pdf.Font, decode font.DecoderFunc) map[rune]float64 {
	widths := pf.Widths()
	if len(widths) == 0 {
		return nil
	}

	first := pf.FirstChar()
	out := make(map[rune]float64, len(widths))
	for i, w := range widths {
		code := first + i
		if code < 0 || code > 0xFF {
			continue
		}
		addWidth(out, decode([]byte{byte(code)}), w)
	}
	return out
}

// cidWidths maps the /W array of a CIDFont to Unicode. The second result is
// the default width /DW.
func cidWidths(desc pdf.Value, decode font.DecoderFunc) (map[rune]float64, float64) {
	dw := 1000.0
	if v := desc.Key("DW"); v.Kind() == pdf.Integer || v.Kind() == pdf.Real {
		dw = v.Float64()
	}

	w := desc.Key("W")
	if w.Kind() != pdf.Array {
		return nil, dw
	}

	out := make(map[rune]float64)
	count := 0
	add := func(cid int, width float64) {
		count++
		if cid < 0 || cid > 0xFFFF {
			return
		}
		addWidth(out, decode([]byte{byte(cid >> 8), byte(cid)}), width)
	}

	// Entries are either "c [w1 w2 ...]" or "cFirst cLast w".
	for i := 0; i < w.Len() && count < maxCIDWidths; {
		start := int(w.Index(i).Int64())
		if i+1 >= w.Len() {
			break
		}
		next := w.Index(i + 1)
		if next.Kind() == pdf.Array {
			for j := 0; j < next.Len(); j++ {
				add(start+j, next.Index(j).Float64())
			}
			i += 2
			continue
		}
		if i+2 >= w.Len() {
			break
		}
		last := int(next.Int64())
		width := w.Index(i + 2).Float64()
		for cid := start; cid <= last && count < maxCIDWidths; cid++ {
			add(cid, width)
		}
		i += 3
	}
	return out, dw
}

// addWidth records width for s when it decodes to exactly one character.
func addWidth(widths map[rune]float64, s string, width float64) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return
	}
	if _, exists := widths[r]; !exists {
		widths[r] = width
	}
}
