package fractionator

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tsawler/fractionator/contentstream"
	"github.com/tsawler/fractionator/corpus"
	"github.com/tsawler/fractionator/font"
	"github.com/tsawler/fractionator/format"
	"github.com/tsawler/fractionator/pdfdoc"
	"github.com/tsawler/fractionator/text"
)

// Source is a paged document container. Pages are numbered from 1.
// *pdfdoc.Document implements it.
type Source interface {
	PageCount() int
	TokenStream(page int) (contentstream.Source, error)
	ResolveFont(name string, page int) (font.Metrics, bool)
}

// PageSizer is implemented by sources that know their page dimensions in
// points. RenderPageFitted requires it.
type PageSizer interface {
	PageSize(page int) (width, height float64, err error)
}

type docState int

const (
	stateEmpty docState = iota
	stateLoaded
	stateFailed
	stateClosed
)

// pageSlot holds everything cached for one page. The raw text is extracted
// once; corpora are built from it per set of flags.
type pageSlot struct {
	mu        sync.Mutex
	extracted bool
	raw       string
	corpora   map[corpus.Flags]*corpus.TextCorpus
}

// Document is a loaded document with a per-page corpus cache. It is safe
// for concurrent use.
type Document struct {
	opts   Options
	logger zerolog.Logger

	mu      sync.RWMutex
	state   docState
	loadErr error
	name    string
	format  format.Format
	source  Source // nil for text documents
	slots   []*pageSlot
}

// New creates a document with no content. Load or LoadReader must succeed
// before pages can be read.
func New(opts Options) *Document {
	return &Document{
		opts:   opts,
		logger: opts.Logger,
	}
}

// Open creates a document and loads the file at path.
func Open(path string, opts Options) (*Document, error) {
	d := New(opts)
	if err := d.Load(path); err != nil {
		return nil, err
	}
	return d, nil
}

// FromSource wraps an already opened container. Closing the document closes
// src when it implements io.Closer.
func FromSource(src Source, opts Options) *Document {
	d := New(opts)
	d.setLoaded("source", format.PDF, src, newSlots(src.PageCount()))
	return d
}

// FromText creates a document over plain text or HTML. Form feeds separate
// pages; a trailing form feed does not start a new page.
func FromText(input string, opts Options) *Document {
	d := New(opts)
	d.loadText("text", format.Text, input)
	return d
}

// Load replaces the content of the document with the file at path. The
// format is taken from the file extension, then from the leading bytes. On
// failure the document is left invalid.
func (d *Document) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return d.fail(path, fmt.Errorf("failed to open file: %w", err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return d.fail(path, fmt.Errorf("failed to stat file: %w", err))
	}

	kind := format.Detect(path)
	if kind == format.Unknown {
		if kind, err = format.DetectFromReader(f, info.Size()); err != nil {
			return d.fail(path, fmt.Errorf("failed to detect format: %w", err))
		}
	}

	if kind == format.PDF {
		doc, err := pdfdoc.Open(path)
		if err != nil {
			return d.fail(path, err)
		}
		d.setLoaded(path, kind, doc, newSlots(doc.PageCount()))
		return nil
	}
	return d.loadTextFrom(path, kind, f)
}

// LoadReader replaces the content of the document with the data in r,
// detecting the format from its leading bytes.
func (d *Document) LoadReader(r io.ReaderAt, size int64) error {
	const name = "reader"

	kind, err := format.DetectFromReader(r, size)
	if err != nil {
		return d.fail(name, fmt.Errorf("failed to detect format: %w", err))
	}

	if kind == format.PDF {
		doc, err := pdfdoc.NewReader(r, size)
		if err != nil {
			return d.fail(name, err)
		}
		d.setLoaded(name, kind, doc, newSlots(doc.PageCount()))
		return nil
	}
	return d.loadTextFrom(name, kind, io.NewSectionReader(r, 0, size))
}

func (d *Document) loadTextFrom(name string, kind format.Format, r io.Reader) error {
	if kind != format.HTML && kind != format.Text {
		return d.fail(name, ErrUnknownFormat)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return d.fail(name, fmt.Errorf("failed to read input: %w", err))
	}
	d.loadText(name, kind, decodeText(data))
	return nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText reads UTF-8 input as is and hands anything else to the same
// decoder used for unresolved PDF strings.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM))
	}
	return font.DecodeRaw(data)
}

func (d *Document) loadText(name string, kind format.Format, input string) {
	pages := strings.Split(input, "\f")
	if len(pages) > 1 && pages[len(pages)-1] == "" {
		pages = pages[:len(pages)-1]
	}

	slots := newSlots(len(pages))
	for i, p := range pages {
		slots[i].raw = p
		slots[i].extracted = true
	}
	d.setLoaded(name, kind, nil, slots)
}

func newSlots(n int) []*pageSlot {
	slots := make([]*pageSlot, n)
	for i := range slots {
		slots[i] = &pageSlot{}
	}
	return slots
}

func (d *Document) setLoaded(name string, kind format.Format, src Source, slots []*pageSlot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closeSourceLocked()
	d.state = stateLoaded
	d.loadErr = nil
	d.name = name
	d.format = kind
	d.source = src
	d.slots = slots

	d.logger.Info().
		Str("source", name).
		Str("format", kind.String()).
		Int("pages", len(slots)).
		Msg("document loaded")
}

func (d *Document) fail(name string, err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closeSourceLocked()
	d.state = stateFailed
	d.loadErr = err
	d.name = name
	d.format = format.Unknown
	d.slots = nil

	d.logger.Warn().Err(err).Str("source", name).Msg("document failed to load")
	return &InvalidStateError{Reason: "load failed", Err: err}
}

// Close releases the underlying container. The document is invalid
// afterwards. It is safe to call Close multiple times.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.closeSourceLocked()
	d.state = stateClosed
	d.slots = nil
	return err
}

func (d *Document) closeSourceLocked() error {
	if d.source == nil {
		return nil
	}
	var err error
	if c, ok := d.source.(io.Closer); ok {
		err = c.Close()
	}
	d.source = nil
	return err
}

// Valid reports whether the document is loaded.
func (d *Document) Valid() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state == stateLoaded
}

// Err returns the error of the last failed load, or nil.
func (d *Document) Err() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadErr
}

// Format returns the format of the loaded input.
func (d *Document) Format() format.Format {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.format
}

// PageCount returns the number of pages, or zero when the document is not
// loaded.
func (d *Document) PageCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != stateLoaded {
		return 0
	}
	return len(d.slots)
}

// checkLocked validates the document and page. The read lock must be held.
func (d *Document) checkLocked(page int) error {
	switch d.state {
	case stateEmpty:
		return &InvalidStateError{Reason: "no document loaded"}
	case stateFailed:
		return &InvalidStateError{Reason: "load failed", Err: d.loadErr}
	case stateClosed:
		return &InvalidStateError{Reason: "document closed"}
	}
	if page < 1 || page > len(d.slots) {
		return &OutOfRangeError{Page: page, Count: len(d.slots)}
	}
	return nil
}

// GetText returns the corpus of page. The first call for a page extracts
// its raw text; later calls reuse it. Calls with the same flags return the
// same corpus, which callers must not modify.
func (d *Document) GetText(page int, splitSentences, splitParagraphs bool) (*corpus.TextCorpus, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkLocked(page); err != nil {
		return nil, err
	}

	flags := corpus.Flags{
		SplitSentences:  splitSentences,
		SplitParagraphs: splitParagraphs,
		RemoveHTMLTags:  d.opts.RemoveHTMLTags,
		ClassifyItems:   d.opts.ClassifyItems,
	}

	slot := d.slots[page-1]
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if c, ok := slot.corpora[flags]; ok {
		d.logger.Debug().Int("page", page).Msg("corpus cache hit")
		return c, nil
	}

	if !slot.extracted {
		raw, err := d.extract(page)
		if err != nil {
			d.logger.Warn().Err(err).Int("page", page).Msg("extraction failed")
			return nil, err
		}
		slot.raw = raw
		slot.extracted = true
		d.logger.Debug().
			Int("page", page).
			Int("raw_length", len(raw)).
			Msg("page extracted")
	}

	c := corpus.New(flags)
	c.Parse(slot.raw, false)
	if slot.corpora == nil {
		slot.corpora = make(map[corpus.Flags]*corpus.TextCorpus)
	}
	slot.corpora[flags] = c

	d.logger.Debug().
		Int("page", page).
		Int("items", c.Len()).
		Bool("split_sentences", splitSentences).
		Bool("split_paragraphs", splitParagraphs).
		Msg("corpus built")
	return c, nil
}

// RawText returns the text of page before normalization and segmentation.
func (d *Document) RawText(page int) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkLocked(page); err != nil {
		return "", err
	}

	slot := d.slots[page-1]
	slot.mu.Lock()
	defer slot.mu.Unlock()

	if !slot.extracted {
		raw, err := d.extract(page)
		if err != nil {
			return "", err
		}
		slot.raw = raw
		slot.extracted = true
	}
	return slot.raw, nil
}

// extract runs the tracker over the token stream of page.
func (d *Document) extract(page int) (string, error) {
	src, err := d.source.TokenStream(page)
	if err != nil {
		return "", &ParseError{Offset: -1, Msg: "content stream unavailable", Err: err}
	}

	fonts := text.FontResolverFunc(func(name string) (font.Metrics, bool) {
		return d.source.ResolveFont(name, page)
	})
	return text.Extract(src, fonts,
		text.WithLogger(d.logger.With().Int("page", page).Logger()),
		text.WithVerticalThreshold(d.opts.verticalThreshold()),
	)
}
