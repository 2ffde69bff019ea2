// Package format detects the kind of input a document is loaded from.
package format

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// HTML indicates an HTML document.
	HTML
	// Text indicates UTF-8 plain text.
	Text
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case HTML:
		return "HTML"
	case Text:
		return "Text"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case HTML:
		return ".html"
	case Text:
		return ".txt"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".html", ".htm", ".xhtml":
		return HTML
	case ".txt", ".text", ".md":
		return Text
	default:
		return Unknown
	}
}

// sniffLen is how much of the input DetectFromReader inspects.
const sniffLen = 512

// DetectFromMagic checks leading bytes to determine format. PDF and HTML are
// recognized by their signatures; any other valid UTF-8 without NUL bytes is
// Text.
func DetectFromMagic(data []byte) Format {
	if len(data) == 0 {
		return Unknown
	}
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	if looksLikeText(data) {
		return Text
	}
	return Unknown
}

// DetectFromReader inspects the start of the content to determine format.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	n := int64(sniffLen)
	if size < n {
		n = size
	}
	if n <= 0 {
		return Unknown, nil
	}
	magic := make([]byte, n)
	read, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:read]), nil
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data[:min(sniffLen, len(data))]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// An XML declaration followed by html content is XHTML.
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}

// looksLikeText reports whether data is UTF-8 without NUL bytes. A rune cut
// off at the end of the sample is tolerated.
func looksLikeText(data []byte) bool {
	if bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	for i := 0; i < utf8.UTFMax && len(data) > 0; i++ {
		if utf8.Valid(data) {
			return true
		}
		data = data[:len(data)-1]
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
