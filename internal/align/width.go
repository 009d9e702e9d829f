package align

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"
)

// Width selects how key widths are measured.
type Width uint8

const (
	// WidthRunes counts Unicode code points.
	WidthRunes Width = iota
	// WidthBytes counts UTF-8 bytes.
	WidthBytes
	// WidthDisplay counts terminal cells, so wide CJK characters count twice.
	WidthDisplay
	// WidthNFC counts code points after NFC normalization, so a
	// decomposed "é" counts once.
	WidthNFC
)

var widthNames = [...]string{
	WidthRunes:   "runes",
	WidthBytes:   "bytes",
	WidthDisplay: "display",
	WidthNFC:     "nfc",
}

func (w Width) String() string {
	if int(w) < len(widthNames) {
		return widthNames[w]
	}
	return fmt.Sprintf("Width(%d)", w)
}

// ParseWidth accepts the names used in configuration files.
// The empty string selects WidthRunes.
func ParseWidth(s string) (Width, error) {
	if s == "" {
		return WidthRunes, nil
	}
	for w, name := range widthNames {
		if name == s {
			return Width(w), nil
		}
	}
	return WidthRunes, fmt.Errorf("unknown width %q (want runes, bytes, display or nfc)", s)
}

// Measure returns the width of s.
func (w Width) Measure(s string) int {
	switch w {
	case WidthBytes:
		return len(s)
	case WidthDisplay:
		return runewidth.StringWidth(s)
	case WidthNFC:
		return utf8.RuneCountInString(norm.NFC.String(s))
	default:
		return utf8.RuneCountInString(s)
	}
}
