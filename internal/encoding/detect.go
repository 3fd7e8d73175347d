// Package encoding normalizes the character encoding of statement export
// files. Banks emit CSVs as UTF-8 with or without BOM, UTF-16, or legacy
// Windows-1252; everything downstream assumes plain UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// peekSize is enough for BOM detection plus a useful chardet sample.
const peekSize = 4096

// NewUTF8Reader wraps r so that reads yield UTF-8 regardless of the
// source encoding. A UTF-8 BOM is stripped, UTF-16 is decoded by its BOM,
// valid UTF-8 passes through untouched, and anything else goes through
// charset detection with Windows-1252 as the last resort.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
		return br, nil
	}

	if bytes.HasPrefix(head, []byte{0xFF, 0xFE}) || bytes.HasPrefix(head, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, dec), nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	return transform.NewReader(br, guessLegacyDecoder(head)), nil
}

// guessLegacyDecoder picks a single-byte decoder for non-UTF-8 content.
func guessLegacyDecoder(head []byte) transform.Transformer {
	result, err := chardet.NewTextDetector().DetectBest(head)
	if err == nil {
		switch result.Charset {
		case "ISO-8859-1", "windows-1252":
			return charmap.Windows1252.NewDecoder()
		case "ISO-8859-15":
			return charmap.ISO8859_15.NewDecoder()
		}
	}

	// Windows-1252 decodes every byte sequence, so this never fails; at
	// worst a few accented characters come out wrong.
	return charmap.Windows1252.NewDecoder()
}
