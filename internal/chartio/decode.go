// Package chartio turns raw chart bytes into text and resolves chart
// sources.
package chartio

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LabelAuto selects encoding detection.
const LabelAuto = "auto"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts raw chart bytes to text. An empty or "auto" label detects
// the encoding: a byte order mark wins, then valid UTF-8, then Shift-JIS.
// Any other label is resolved through the WHATWG encoding names.
func Decode(raw []byte, label string) (string, error) {
	label = strings.TrimSpace(strings.ToLower(label))
	if label != "" && label != LabelAuto {
		r, err := charset.NewReaderLabel(label, bytes.NewReader(raw))
		if err != nil {
			return "", errors.Wrapf(err, "chartio: encoding %q", label)
		}
		out, err := io.ReadAll(r)
		if err != nil {
			return "", errors.Wrapf(err, "chartio: decode %s", label)
		}
		return string(stripBOM(out)), nil
	}

	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), nil
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return "", errors.Wrap(err, "chartio: decode utf-16")
		}
		return string(out), nil
	case utf8.Valid(raw):
		return string(raw), nil
	}
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), raw)
	if err != nil {
		return "", errors.Wrap(err, "chartio: decode shift-jis")
	}
	return string(out), nil
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, bomUTF8)
}
