package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/fractionator/contentstream"
	"github.com/tsawler/fractionator/font"
)

// ErrPageRange is returned for page numbers outside [1, PageCount].
var ErrPageRange = errors.New("page out of range")

// Document is an open PDF document. It is safe for concurrent use.
type Document struct {
	file   *os.File // nil when created from a reader
	reader *pdf.Reader
	pages  int

	mu    sync.Mutex
	fonts map[fontKey]*font.Font
}

type fontKey struct {
	page int
	name string
}

// Open opens the PDF file at path.
func Open(path string) (*Document, error) {
	return openFile(path, newDocument)
}

// openFile opens path and hands the reader to build. The file is closed when
// build fails, including by panicking.
func openFile(path string, build func(*os.File, *pdf.Reader) *Document) (doc *Document, err error) {
	var f *os.File
	defer func() {
		if err != nil && f != nil {
			f.Close()
		}
	}()
	defer recoverInto(&err, "open "+path)

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return build(f, r), nil
}

// NewReader reads a PDF document from r.
func NewReader(r io.ReaderAt, size int64) (doc *Document, err error) {
	defer recoverInto(&err, "read")

	pr, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return newDocument(nil, pr), nil
}

// FromBytes reads a PDF document held in memory.
func FromBytes(data []byte) (*Document, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

func newDocument(f *os.File, r *pdf.Reader) *Document {
	return &Document{
		file:   f,
		reader: r,
		pages:  r.NumPage(),
		fonts:  make(map[fontKey]*font.Font),
	}
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pages
}

func (d *Document) page(n int) (pdf.Page, error) {
	if n < 1 || n > d.pages {
		return pdf.Page{}, fmt.Errorf("%w: %d (document has %d pages)", ErrPageRange, n, d.pages)
	}
	p := d.reader.Page(n)
	if p.V.IsNull() {
		return pdf.Page{}, fmt.Errorf("page %d not found", n)
	}
	return p, nil
}

// Content returns the decoded content stream of page n. Multiple content
// streams are joined with a newline.
func (d *Document) Content(n int) (data []byte, err error) {
	defer recoverInto(&err, fmt.Sprintf("page %d content", n))

	p, err := d.page(n)
	if err != nil {
		return nil, err
	}

	contents := p.V.Key("Contents")
	switch contents.Kind() {
	case pdf.Null:
		return nil, nil
	case pdf.Stream:
		return readStream(contents)
	case pdf.Array:
		var buf bytes.Buffer
		for i := 0; i < contents.Len(); i++ {
			part, err := readStream(contents.Index(i))
			if err != nil {
				return nil, fmt.Errorf("content stream %d: %w", i, err)
			}
			buf.Write(part)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("page %d: unexpected Contents kind %v", n, contents.Kind())
	}
}

func readStream(v pdf.Value) ([]byte, error) {
	if v.Kind() != pdf.Stream {
		return nil, fmt.Errorf("expected stream, got %v", v.Kind())
	}
	rc := v.Reader()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stream: %w", err)
	}
	return data, nil
}

// TokenStream returns a token source over the content of page n.
func (d *Document) TokenStream(n int) (contentstream.Source, error) {
	data, err := d.Content(n)
	if err != nil {
		return nil, err
	}
	return contentstream.NewLexer(data), nil
}

// Rect is a rectangle in default user space units (1/72 inch).
type Rect struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.URY - r.LLY }

// maxTreeDepth bounds the walk up the page tree.
const maxTreeDepth = 32

// MediaBox returns the media box of page n, following page tree inheritance.
func (d *Document) MediaBox(n int) (box Rect, err error) {
	defer recoverInto(&err, fmt.Sprintf("page %d media box", n))

	p, err := d.page(n)
	if err != nil {
		return Rect{}, err
	}

	node := p.V
	for i := 0; i < maxTreeDepth && !node.IsNull(); i++ {
		if mb := node.Key("MediaBox"); !mb.IsNull() {
			return parseRect(mb)
		}
		node = node.Key("Parent")
	}
	return Rect{}, fmt.Errorf("page %d has no media box", n)
}

// PageSize returns the width and height of page n in points.
func (d *Document) PageSize(n int) (width, height float64, err error) {
	box, err := d.MediaBox(n)
	if err != nil {
		return 0, 0, err
	}
	return box.Width(), box.Height(), nil
}

func parseRect(v pdf.Value) (Rect, error) {
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return Rect{}, fmt.Errorf("invalid rectangle %v", v)
	}
	var c [4]float64
	for i := range c {
		el := v.Index(i)
		if el.Kind() != pdf.Integer && el.Kind() != pdf.Real {
			return Rect{}, fmt.Errorf("invalid rectangle coordinate %v", el)
		}
		c[i] = el.Float64()
	}
	r := Rect{LLX: c[0], LLY: c[1], URX: c[2], URY: c[3]}
	if r.LLX > r.URX {
		r.LLX, r.URX = r.URX, r.LLX
	}
	if r.LLY > r.URY {
		r.LLY, r.URY = r.URY, r.LLY
	}
	return r, nil
}

// recoverInto converts a panic from the PDF library into an error.
func recoverInto(err *error, what string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pdfdoc: %s: %v", what, r)
	}
}
