package font

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// NormalizeUnicode returns s in Unicode normalization form C.
func NormalizeUnicode(s string) string {
	return norm.NFC.String(s)
}

// DecodeRaw decodes a string operand without font information.
// Priority order:
// 1. UTF-16BE or UTF-16LE when a byte order mark is present
// 2. Windows-1252 (a superset of the printable WinAnsiEncoding range)
func DecodeRaw(raw []byte) string {
	if len(raw) >= 2 {
		var (
			endian unicode.Endianness
			hasBOM bool
		)
		switch {
		case raw[0] == 0xFE && raw[1] == 0xFF:
			endian, hasBOM = unicode.BigEndian, true
		case raw[0] == 0xFF && raw[1] == 0xFE:
			endian, hasBOM = unicode.LittleEndian, true
		}
		if hasBOM {
			out, err := unicode.UTF16(endian, unicode.ExpectBOM).NewDecoder().Bytes(raw)
			if err == nil {
				return NormalizeUnicode(string(out))
			}
		}
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return NormalizeUnicode(strings.ToValidUTF8(string(raw), "�"))
	}
	return NormalizeUnicode(string(out))
}
