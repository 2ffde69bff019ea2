package font

// Standard-14 advance widths for printable ASCII (U+0020..U+007E), in 1000ths
// of an em. A zero entry falls back to the Helvetica width for that character.
type asciiWidths [95]float64

func (w *asciiWidths) lookup(r rune) (float64, bool) {
	if r < ' ' || r > '~' {
		return 0, false
	}
	v := w[r-' ']
	if v == 0 {
		v = helvetica[r-' ']
	}
	return v, v > 0
}

var helvetica = asciiWidths{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278, // ' '..'/'
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556, // '0'..'?'
	1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778, // '@'..'O'
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556, // 'P'..'_'
	333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556, // '`'..'o'
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584, // 'p'..'~'
}

var helveticaBold = asciiWidths{
	278, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
	667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 0, 0, 0, 0, 0,
	0, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 0, 0, 0, 0,
}

var timesRoman = asciiWidths{
	250, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889, 722, 722,
	556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611, 0, 0, 0, 0, 0,
	0, 444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778, 500, 500,
	500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444, 0, 0, 0, 0,
}

var timesBold = asciiWidths{
	250, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 722, 667, 722, 722, 667, 611, 778, 778, 389, 500, 778, 667, 944, 722, 778,
	611, 778, 722, 556, 667, 722, 722, 1000, 722, 722, 667, 0, 0, 0, 0, 0,
	0, 500, 556, 444, 556, 444, 333, 500, 556, 278, 333, 556, 278, 833, 556, 500,
	556, 556, 444, 389, 333, 556, 500, 722, 500, 500, 444, 0, 0, 0, 0,
}

var courier = func() asciiWidths {
	var w asciiWidths
	for i := range w {
		w[i] = 600
	}
	return w
}()

// standardFonts maps Standard-14 base font names to their width tables.
// Symbol and ZapfDingbats are approximated by Helvetica.
var standardFonts = map[string]*asciiWidths{
	"Helvetica":             &helvetica,
	"Helvetica-Bold":        &helveticaBold,
	"Helvetica-Oblique":     &helvetica,
	"Helvetica-BoldOblique": &helveticaBold,
	"Times-Roman":           &timesRoman,
	"Times-Bold":            &timesBold,
	"Times-Italic":          &timesRoman,
	"Times-BoldItalic":      &timesBold,
	"Courier":               &courier,
	"Courier-Bold":          &courier,
	"Courier-Oblique":       &courier,
	"Courier-BoldOblique":   &courier,
	"Symbol":                &helvetica,
	"ZapfDingbats":          &helvetica,
}

// IsStandardFont reports whether baseFont is one of the Standard 14 fonts.
// A subset prefix such as "ABCDEF+" is ignored.
func IsStandardFont(baseFont string) bool {
	_, ok := standardFonts[stripSubsetPrefix(baseFont)]
	return ok
}

// stripSubsetPrefix removes the six-letter subset tag from embedded font names.
func stripSubsetPrefix(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}
