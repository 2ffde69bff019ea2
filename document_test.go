package fractionator

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/fractionator/contentstream"
	"github.com/tsawler/fractionator/corpus"
	"github.com/tsawler/fractionator/format"
	"github.com/tsawler/fractionator/internal/pdftest"
	"github.com/tsawler/fractionator/pdfdoc"
)

var courier = []pdftest.Font{{Name: "F1", BaseFont: "Courier"}}

// samplePDF has four pages: running text with a paragraph break, a title
// followed by a list, an unterminated text object and an empty landscape page.
func samplePDF() []byte {
	return pdftest.Build(pdftest.Letter,
		pdftest.Page{
			Contents: []string{"BT /F1 10 Tf 100 700 Td (Hello world.) Tj 100 680 Td (This is fine. Next one!) Tj T* 100 640 Td (New paragraph here.) Tj ET"},
			Fonts:    courier,
		},
		pdftest.Page{
			Contents: []string{"BT /F1 12 Tf 72 700 Td (Introduction) Tj T* T* 72 600 Td (- first point) Tj 72 580 Td (- second point) Tj ET"},
			Fonts:    courier,
		},
		pdftest.Page{
			Contents: []string{"BT /F1 10 Tf 100 700 Td (dangling) Tj"},
			Fonts:    courier,
		},
		pdftest.Page{
			MediaBox: []float64{0, 0, 792, 612},
		},
	)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func openSample(t *testing.T, opts Options) *Document {
	t.Helper()
	doc, err := Open(writeFile(t, "sample.pdf", samplePDF()), opts)
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })
	return doc
}

// countingSource counts token stream requests.
type countingSource struct {
	*pdfdoc.Document
	streams atomic.Int32
}

func (s *countingSource) TokenStream(n int) (contentstream.Source, error) {
	s.streams.Add(1)
	return s.Document.TokenStream(n)
}

func countingSample(t *testing.T) *countingSource {
	t.Helper()
	pdf, err := pdfdoc.FromBytes(samplePDF())
	require.NoError(t, err)
	return &countingSource{Document: pdf}
}

func texts(c *corpus.TextCorpus) []string {
	var out []string
	for _, item := range c.Items() {
		out = append(out, item.Text())
	}
	return out
}

func types(c *corpus.TextCorpus) []corpus.ItemType {
	var out []corpus.ItemType
	for _, item := range c.Items() {
		out = append(out, item.Type())
	}
	return out
}

// TestOpenPDF tests loading a PDF file
func TestOpenPDF(t *testing.T) {
	doc := openSample(t, DefaultOptions())

	assert.True(t, doc.Valid())
	assert.NoError(t, doc.Err())
	assert.Equal(t, 4, doc.PageCount())
	assert.Equal(t, format.PDF, doc.Format())
}

// TestGetTextSentencesAndParagraphs tests the full pipeline on one page
func TestGetTextSentencesAndParagraphs(t *testing.T) {
	doc := openSample(t, DefaultOptions())

	c, err := doc.GetText(1, true, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello world.", "This is fine.", "Next one!", "", "New paragraph here.", ""}, texts(c))
	assert.Equal(t, []corpus.ItemType{
		corpus.ItemSentence, corpus.ItemSentence, corpus.ItemSentence, corpus.ItemParagraph,
		corpus.ItemSentence, corpus.ItemParagraph,
	}, types(c))
	assert.Equal(t, corpus.Flags{SplitSentences: true, SplitParagraphs: true, RemoveHTMLTags: true, ClassifyItems: true}, c.Flags())
}

// TestGetTextWithoutSplitting tests lines as fragments
func TestGetTextWithoutSplitting(t *testing.T) {
	doc := openSample(t, DefaultOptions())

	c, err := doc.GetText(1, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello world.", "This is fine. Next one!", "New paragraph here."}, texts(c))
	for _, typ := range types(c) {
		assert.Equal(t, corpus.ItemParagraph, typ)
	}
}

// TestGetTextClassifiesTitlesAndLists tests item classification
func TestGetTextClassifiesTitlesAndLists(t *testing.T) {
	doc := openSample(t, DefaultOptions())

	c, err := doc.GetText(2, false, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Introduction", "", "- first point", "- second point", ""}, texts(c))
	assert.Equal(t, []corpus.ItemType{
		corpus.ItemTitle, corpus.ItemParagraph, corpus.ItemListItem, corpus.ItemListItem, corpus.ItemParagraph,
	}, types(c))
}

// TestGetTextClassificationDisabled tests that every item is a paragraph
func TestGetTextClassificationDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ClassifyItems = false
	doc := openSample(t, opts)

	c, err := doc.GetText(2, false, true)
	require.NoError(t, err)
	for _, typ := range types(c) {
		assert.Equal(t, corpus.ItemParagraph, typ)
	}
}

// TestGetTextCache tests that extraction runs once per page
func TestGetTextCache(t *testing.T) {
	src := countingSample(t)
	doc := FromSource(src, DefaultOptions())
	defer doc.Close()

	first, err := doc.GetText(1, true, true)
	require.NoError(t, err)
	again, err := doc.GetText(1, true, true)
	require.NoError(t, err)
	assert.Same(t, first, again)

	other, err := doc.GetText(1, false, true)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.False(t, other.Flags().SplitSentences)
	assert.Equal(t, []string{"Hello world.", "This is fine. Next one!", "", "New paragraph here.", ""}, texts(other))

	raw, err := doc.RawText(1)
	require.NoError(t, err)
	assert.Equal(t, "Hello world. \nThis is fine. Next one!\n \nNew paragraph here.", raw)

	assert.Equal(t, int32(1), src.streams.Load())
}

// TestGetTextConcurrent tests concurrent population of one page
func TestGetTextConcurrent(t *testing.T) {
	src := countingSample(t)
	doc := FromSource(src, DefaultOptions())
	defer doc.Close()

	const workers = 16
	results := make([]*corpus.TextCorpus, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := doc.GetText(1, true, true)
			if err == nil {
				results[i] = c
			}
		}(i)
	}
	wg.Wait()

	require.NotNil(t, results[0])
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
	assert.Equal(t, int32(1), src.streams.Load())
}

// TestGetTextOutOfRange tests page numbers outside the document
func TestGetTextOutOfRange(t *testing.T) {
	src := countingSample(t)
	doc := FromSource(src, DefaultOptions())
	defer doc.Close()

	for _, page := range []int{0, -1, 5, 100} {
		c, err := doc.GetText(page, true, true)
		assert.Nil(t, c)

		var oor *OutOfRangeError
		require.True(t, errors.As(err, &oor), "page %d", page)
		assert.Equal(t, page, oor.Page)
		assert.Equal(t, 4, oor.Count)
		assert.True(t, errors.Is(err, ErrOutOfRange))
	}

	assert.Equal(t, int32(0), src.streams.Load())
	for _, slot := range doc.slots {
		assert.False(t, slot.extracted)
		assert.Empty(t, slot.corpora)
	}
}

// TestGetTextParseError tests that a malformed page yields no corpus
func TestGetTextParseError(t *testing.T) {
	src := countingSample(t)
	doc := FromSource(src, DefaultOptions())
	defer doc.Close()

	c, err := doc.GetText(3, true, true)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrParse))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Msg, "inside text object")

	slot := doc.slots[2]
	assert.False(t, slot.extracted)
	assert.Empty(t, slot.corpora)

	// A retry starts from scratch.
	_, err = doc.GetText(3, true, true)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Equal(t, int32(2), src.streams.Load())

	// Other pages are unaffected.
	_, err = doc.GetText(1, true, true)
	assert.NoError(t, err)
}

// TestGetTextEmptyPage tests that a page without text is not an error
func TestGetTextEmptyPage(t *testing.T) {
	doc := openSample(t, DefaultOptions())

	c, err := doc.GetText(4, true, true)
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

// TestVerticalThresholdOption tests the line break threshold option
func TestVerticalThresholdOption(t *testing.T) {
	opts := DefaultOptions()
	opts.VerticalThreshold = 30
	doc := openSample(t, opts)

	raw, err := doc.RawText(1)
	require.NoError(t, err)
	assert.Equal(t, "Hello world. This is fine. Next one!\n \nNew paragraph here.", raw)
}

// TestInvalidState tests documents that are not usable
func TestInvalidState(t *testing.T) {
	t.Run("never loaded", func(t *testing.T) {
		doc := New(DefaultOptions())
		assert.False(t, doc.Valid())
		assert.Equal(t, 0, doc.PageCount())

		_, err := doc.GetText(1, true, true)
		assert.True(t, errors.Is(err, ErrInvalidState))

		var ise *InvalidStateError
		require.True(t, errors.As(err, &ise))
		assert.Equal(t, "no document loaded", ise.Reason)
	})

	t.Run("load failed", func(t *testing.T) {
		doc := New(DefaultOptions())
		err := doc.Load(filepath.Join(t.TempDir(), "missing.pdf"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
		assert.False(t, doc.Valid())
		assert.Error(t, doc.Err())

		_, err = doc.GetText(1, true, true)
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("not a pdf", func(t *testing.T) {
		_, err := Open(writeFile(t, "broken.pdf", []byte("%PDF-1.4 garbage")), DefaultOptions())
		assert.True(t, errors.Is(err, ErrInvalidState))
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Open(writeFile(t, "blob.bin", []byte{0xff, 0x00, 0xfe, 0x01}), DefaultOptions())
		assert.True(t, errors.Is(err, ErrUnknownFormat))
	})

	t.Run("closed", func(t *testing.T) {
		doc := openSample(t, DefaultOptions())
		require.NoError(t, doc.Close())
		require.NoError(t, doc.Close())

		assert.False(t, doc.Valid())
		assert.Equal(t, 0, doc.PageCount())
		_, err := doc.GetText(1, true, true)
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.False(t, errors.Is(err, ErrOutOfRange))
	})
}

// TestLoadReplacesContent tests loading a second input into a document
func TestLoadReplacesContent(t *testing.T) {
	doc := openSample(t, DefaultOptions())
	_, err := doc.GetText(1, true, true)
	require.NoError(t, err)

	require.NoError(t, doc.Load(writeFile(t, "notes.txt", []byte("Only one page."))))
	assert.Equal(t, 1, doc.PageCount())
	assert.Equal(t, format.Text, doc.Format())

	c, err := doc.GetText(1, true, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Only one page.", ""}, texts(c))
}

// TestFromText tests plain text documents
func TestFromText(t *testing.T) {
	doc := FromText("Hello there.  General Kenobi!\f<p>Second</p>page\f", DefaultOptions())
	require.True(t, doc.Valid())
	assert.Equal(t, 2, doc.PageCount())

	c, err := doc.GetText(1, true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello there.", "General Kenobi!"}, texts(c))

	c, err = doc.GetText(2, false, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "", "page", ""}, texts(c))
	assert.Equal(t, []corpus.ItemType{
		corpus.ItemTitle, corpus.ItemParagraph, corpus.ItemParagraph, corpus.ItemParagraph,
	}, types(c))

	_, err = doc.GetText(3, true, true)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

// TestFromTextKeepsMarkup tests RemoveHTMLTags=false
func TestFromTextKeepsMarkup(t *testing.T) {
	opts := DefaultOptions()
	opts.RemoveHTMLTags = false
	doc := FromText("A <note>kept</note> tag", opts)

	c, err := doc.GetText(1, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"A <note>kept</note> tag"}, texts(c))
}

// TestFromTextEntities tests sentence splitting around character references
func TestFromTextEntities(t *testing.T) {
	doc := FromText("<p>Stop!&nbsp;Go now.</p>", DefaultOptions())

	c, err := doc.GetText(1, true, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Stop!", "Go now.", ""}, texts(c))
	assert.Equal(t, []corpus.ItemType{
		corpus.ItemSentence, corpus.ItemSentence, corpus.ItemParagraph,
	}, types(c))
}

// TestLoadReader tests format detection on in-memory input
func TestLoadReader(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format format.Format
		pages  int
	}{
		{"pdf", samplePDF(), format.PDF, 4},
		{"html", []byte("<!DOCTYPE html><html><body><p>One.</p><p>Two.</p></body></html>"), format.HTML, 1},
		{"text", []byte("first\fsecond"), format.Text, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := New(DefaultOptions())
			defer doc.Close()

			require.NoError(t, doc.LoadReader(bytes.NewReader(tt.data), int64(len(tt.data))))
			assert.Equal(t, tt.format, doc.Format())
			assert.Equal(t, tt.pages, doc.PageCount())
		})
	}

	doc := New(DefaultOptions())
	data := []byte("<!DOCTYPE html><html><body><p>One.</p><p>Two.</p></body></html>")
	require.NoError(t, doc.LoadReader(bytes.NewReader(data), int64(len(data))))
	c, err := doc.GetText(1, false, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"One.", "", "Two.", ""}, texts(c))

	binary := []byte{0x00, 0x01, 0x02, 0x03}
	err = doc.LoadReader(bytes.NewReader(binary), int64(len(binary)))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.False(t, doc.Valid())
}

// TestLogging tests the events written to the configured logger
func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	doc := openSample(t, opts)

	_, err := doc.GetText(1, true, true)
	require.NoError(t, err)
	_, err = doc.GetText(1, true, true)
	require.NoError(t, err)
	_, err = doc.GetText(1, false, false)
	require.NoError(t, err)
	_, err = doc.GetText(3, true, true)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"message":"document loaded"`)
	assert.Contains(t, out, `"pages":4`)
	assert.Equal(t, 1, strings.Count(out, `"message":"page extracted"`), "new flags reuse the raw text")
	assert.Equal(t, 2, strings.Count(out, `"message":"corpus built"`))
	assert.Equal(t, 1, strings.Count(out, `"message":"corpus cache hit"`))
	assert.Contains(t, out, `"message":"extraction failed"`)
}

// TestErrorMessages tests error formatting
func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "page 5 out of range [1, 4]", (&OutOfRangeError{Page: 5, Count: 4}).Error())
	assert.Equal(t, "page 1 out of range: document has no pages", (&OutOfRangeError{Page: 1}).Error())
	assert.Equal(t, "invalid document state: document closed", (&InvalidStateError{Reason: "document closed"}).Error())
	assert.Equal(t, "invalid document state: load failed: boom",
		(&InvalidStateError{Reason: "load failed", Err: errors.New("boom")}).Error())
}
