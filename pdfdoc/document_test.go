package pdfdoc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/fractionator/contentstream"
	"github.com/tsawler/fractionator/internal/pdftest"
)

func samplePDF() []byte {
	return pdftest.Build(pdftest.Letter,
		pdftest.Page{
			Contents: []string{"BT /F1 12 Tf 72 720 Td (Hello) Tj ET"},
			Fonts: []pdftest.Font{
				{Name: "F1", BaseFont: "Helvetica"},
				{Name: "F2", BaseFont: "Custom", FirstChar: 65, Widths: []float64{500, 600}, Encoding: "WinAnsiEncoding"},
			},
		},
		pdftest.Page{
			Contents: []string{"BT", "(Second) Tj", "ET"},
			MediaBox: []float64{0, 0, 842, 595},
		},
		pdftest.Page{},
	)
}

func openSample(t *testing.T) *Document {
	t.Helper()
	doc, err := FromBytes(samplePDF())
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })
	return doc
}

// TestPageCount tests page counting
func TestPageCount(t *testing.T) {
	doc := openSample(t)
	assert.Equal(t, 3, doc.PageCount())
}

// TestContent tests reading single and multiple content streams
func TestContent(t *testing.T) {
	doc := openSample(t)

	data, err := doc.Content(1)
	require.NoError(t, err)
	assert.Contains(t, string(data), "(Hello) Tj")

	data, err = doc.Content(2)
	require.NoError(t, err)
	toks, err := contentstream.Tokens(data)
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, contentstream.OpBeginText, toks[0].Keyword.Op)
	assert.Equal(t, contentstream.OpEndText, toks[3].Keyword.Op)

	data, err = doc.Content(3)
	require.NoError(t, err)
	assert.Empty(t, data)
}

// TestTokenStream tests the lexer over a page
func TestTokenStream(t *testing.T) {
	doc := openSample(t)

	src, err := doc.TokenStream(1)
	require.NoError(t, err)

	var ops []string
	for {
		tok, err := src.Next()
		require.NoError(t, err)
		if tok.Kind == contentstream.TokenEnd {
			break
		}
		if tok.Kind == contentstream.TokenKeyword {
			ops = append(ops, tok.Keyword.Name)
		}
	}
	assert.Equal(t, []string{"BT", "Tf", "Td", "Tj", "ET"}, ops)
}

// TestPageRange tests page bounds
func TestPageRange(t *testing.T) {
	doc := openSample(t)

	for _, n := range []int{0, -1, 4} {
		_, err := doc.Content(n)
		assert.True(t, errors.Is(err, ErrPageRange), "page %d", n)

		_, err = doc.MediaBox(n)
		assert.True(t, errors.Is(err, ErrPageRange), "page %d", n)

		_, ok := doc.ResolveFont("F1", n)
		assert.False(t, ok)
	}
}

// TestMediaBox tests direct and inherited media boxes
func TestMediaBox(t *testing.T) {
	doc := openSample(t)

	box, err := doc.MediaBox(1)
	require.NoError(t, err)
	assert.Equal(t, float64(612), box.Width())
	assert.Equal(t, float64(792), box.Height())

	box, err = doc.MediaBox(2)
	require.NoError(t, err)
	assert.Equal(t, Rect{LLX: 0, LLY: 0, URX: 842, URY: 595}, box)

	w, h, err := doc.PageSize(2)
	require.NoError(t, err)
	assert.Equal(t, float64(842), w)
	assert.Equal(t, float64(595), h)

	_, _, err = doc.PageSize(7)
	assert.True(t, errors.Is(err, ErrPageRange))
}

// TestResolveFont tests font metrics from font dictionaries
func TestResolveFont(t *testing.T) {
	doc := openSample(t)

	m, ok := doc.ResolveFont("F1", 1)
	require.True(t, ok)
	assert.Equal(t, float64(944), m.AdvanceWidth('W'))
	assert.Equal(t, "Hello", m.Decode([]byte("Hello")))

	m, ok = doc.ResolveFont("F2", 1)
	require.True(t, ok)
	assert.Equal(t, float64(500), m.AdvanceWidth('A'))
	assert.Equal(t, float64(600), m.AdvanceWidth('B'))

	again, ok := doc.ResolveFont("F2", 1)
	require.True(t, ok)
	assert.Same(t, m, again)

	_, ok = doc.ResolveFont("F9", 1)
	assert.False(t, ok)
	_, ok = doc.ResolveFont("F1", 2)
	assert.False(t, ok)
}

// TestOpenFile tests opening from disk and closing
func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, samplePDF(), 0o600))

	doc, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())
	assert.NoError(t, doc.Close())
	assert.NoError(t, doc.Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

// TestOpenClosesFileOnPanic tests that a library panic after opening
// releases the file
func TestOpenClosesFileOnPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, samplePDF(), 0o600))

	var opened *os.File
	doc, err := openFile(path, func(f *os.File, r *pdf.Reader) *Document {
		opened = f
		panic("malformed page tree")
	})
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed page tree")

	require.NotNil(t, opened)
	assert.True(t, errors.Is(opened.Close(), os.ErrClosed), "file left open")
}

// TestGarbage tests that non-PDF input fails cleanly
func TestGarbage(t *testing.T) {
	_, err := FromBytes([]byte("this is not a pdf"))
	assert.Error(t, err)

	_, err = FromBytes(nil)
	assert.Error(t, err)
}
