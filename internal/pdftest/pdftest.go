// Package pdftest builds small, uncompressed PDF files for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Font is a simple font resource.
type Font struct {
	Name      string // resource name, e.g. "F1"
	BaseFont  string
	FirstChar int
	Widths    []float64
	Encoding  string // e.g. "WinAnsiEncoding"; empty for none
}

// Page describes one page. Each element of Contents becomes its own content
// stream; a single element is written as a stream, several as an array.
type Page struct {
	Contents []string
	Fonts    []Font
	MediaBox []float64 // nil inherits from the page tree
}

// Letter is the US Letter media box.
var Letter = []float64{0, 0, 612, 792}

// Build returns a PDF with the given pages. mediaBox is set on the page tree
// root and inherited by pages that carry none.
func Build(mediaBox []float64, pages ...Page) []byte {
	b := &builder{}

	catalog := b.reserve()
	tree := b.reserve()

	var kids []string
	for _, p := range pages {
		page := b.reserve()
		kids = append(kids, ref(page))

		var fonts []string
		for _, f := range p.Fonts {
			fonts = append(fonts, fmt.Sprintf("/%s %s", f.Name, ref(b.add(fontDict(f)))))
		}

		var streams []string
		for _, c := range p.Contents {
			streams = append(streams, ref(b.add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(c)+1, c))))
		}
		contents := "[]"
		if len(streams) == 1 {
			contents = streams[0]
		} else if len(streams) > 1 {
			contents = "[" + strings.Join(streams, " ") + "]"
		}

		dict := fmt.Sprintf("<< /Type /Page /Parent %s /Resources << /Font << %s >> >> /Contents %s",
			ref(tree), strings.Join(fonts, " "), contents)
		if p.MediaBox != nil {
			dict += " /MediaBox " + array(p.MediaBox)
		}
		b.set(page, dict+" >>")
	}

	b.set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s >>", ref(tree)))
	b.set(tree, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox %s >>",
		strings.Join(kids, " "), len(pages), array(mediaBox)))

	return b.bytes(catalog)
}

func fontDict(f Font) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<< /Type /Font /Subtype /Type1 /BaseFont /%s", f.BaseFont)
	if len(f.Widths) > 0 {
		fmt.Fprintf(&sb, " /FirstChar %d /LastChar %d /Widths %s",
			f.FirstChar, f.FirstChar+len(f.Widths)-1, array(f.Widths))
	}
	if f.Encoding != "" {
		fmt.Fprintf(&sb, " /Encoding /%s", f.Encoding)
	}
	sb.WriteString(" >>")
	return sb.String()
}

func ref(n int) string {
	return fmt.Sprintf("%d 0 R", n)
}

func array(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

type builder struct {
	objects []string // index i holds object i+1
}

func (b *builder) reserve() int {
	b.objects = append(b.objects, "")
	return len(b.objects)
}

func (b *builder) set(n int, body string) {
	b.objects[n-1] = body
}

func (b *builder) add(body string) int {
	n := b.reserve()
	b.set(n, body)
	return n
}

func (b *builder) bytes(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(b.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %s >>\nstartxref\n%d\n%%%%EOF\n", len(b.objects)+1, ref(root), xref)
	return buf.Bytes()
}
