package render

import (
	"bytes"
	"strings"

	errs "github.com/matzehuels/eksdiagrams/pkg/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatJPG Format = "jpg"
	FormatDOT Format = "dot"
)

var formats = []Format{FormatPNG, FormatSVG, FormatJPG, FormatDOT}

// Formats returns every supported format, PNG first.
func Formats() []Format {
	return append([]Format(nil), formats...)
}

// ParseFormat parses a format name. "jpeg" and "gv" are accepted as aliases;
// an empty string yields PNG.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPNG, nil
	case "jpeg":
		return FormatJPG, nil
	case "gv":
		return FormatDOT, nil
	case FormatPNG, FormatSVG, FormatJPG, FormatDOT:
		return f, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be png, svg, jpg or dot)", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type of the encoding.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatJPG:
		return "image/jpeg"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// IsPNG reports whether data starts with the PNG signature.
func IsPNG(data []byte) bool { return bytes.HasPrefix(data, pngMagic) }

// IsSVG reports whether data looks like an SVG document.
func IsSVG(data []byte) bool { return bytes.Contains(data, []byte("<svg")) }
