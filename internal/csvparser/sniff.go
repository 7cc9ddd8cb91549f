package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"fjacquet/expense-app/internal/parser"
)

// Encoding names reported in parser.Report.
const (
	EncodingUTF8        = "UTF-8"
	EncodingLatin1      = "ISO-8859-1"
	EncodingWindows1252 = "Windows-1252"
)

// Delimiters are tried in this order, each against every encoding.
var Delimiters = []rune{';', ','}

type encoding struct {
	name   string
	decode func([]byte) (string, bool)
}

// encodings are tried in this order for each delimiter.
var encodings = []encoding{
	{name: EncodingUTF8, decode: decodeUTF8},
	{name: EncodingLatin1, decode: decodeLatin1},
	{name: EncodingWindows1252, decode: decodeWindows1252},
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), true
}

// decodeLatin1 refuses text containing C1 control characters. Those bytes
// almost always mean Windows-1252 punctuation such as "€" or "„".
func decodeLatin1(data []byte) (string, bool) {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	for _, r := range string(decoded) {
		if r >= 0x80 && r <= 0x9F {
			return "", false
		}
	}
	return string(decoded), true
}

func decodeWindows1252(data []byte) (string, bool) {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// format is the delimiter/encoding combination accepted for a statement.
type format struct {
	delimiter rune
	encoding  string
	text      string
}

var errNoFormat = errors.New("no delimiter/encoding combination exposes an amount column")

// sniff returns the first delimiter/encoding combination whose header row
// contains an amount alias.
func sniff(data []byte) (format, error) {
	decoded := make(map[string]string, len(encodings))
	failed := make(map[string]bool, len(encodings))

	for _, delim := range Delimiters {
		for _, enc := range encodings {
			if failed[enc.name] {
				continue
			}
			text, ok := decoded[enc.name]
			if !ok {
				if text, ok = enc.decode(data); !ok {
					failed[enc.name] = true
					continue
				}
				decoded[enc.name] = text
			}

			header, err := newReader(text, delim).Read()
			if err != nil {
				continue
			}
			if parser.HasAmountAlias(header) {
				return format{delimiter: delim, encoding: enc.name, text: text}, nil
			}
		}
	}
	return format{}, errNoFormat
}

func newReader(text string, delim rune) *csv.Reader {
	reader := csv.NewReader(bytes.NewBufferString(text))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader
}
