package tasks

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jcbmsp/halopsa-template-creator/report"
)

const (
	UTF8        = "utf-8"
	Windows1252 = "windows-1252"
)

var bom = []byte{0xef, 0xbb, 0xbf}

// Load reads a task sheet from a CSV file.
func Load(path string) (*TaskList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &report.Error{Kind: report.FileDecoding, Op: fmt.Sprintf("open %s", path), Err: err}
	}

	defer f.Close()

	return Read(f)
}

// Read decodes a CSV task sheet as UTF-8 (with optional BOM), falling back to Windows-1252 if the
// content is not valid UTF-8. The Windows-1252 decoder substitutes unmappable bytes rather than failing.
func Read(r io.Reader) (*TaskList, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &report.Error{Kind: report.FileDecoding, Op: "read task sheet", Err: err}
	}

	text, encoding, err := decode(b)
	if err != nil {
		return nil, &report.Error{Kind: report.FileDecoding, Op: "decode task sheet", Err: err}
	}

	rows, err := readCSV(text)
	if err != nil {
		return nil, &report.Error{Kind: report.FileDecoding, Op: fmt.Sprintf("parse task sheet (%s)", encoding), Err: err}
	}

	list := Parse(rows)
	list.Encoding = encoding

	return list, nil
}

func decode(b []byte) (string, string, error) {
	b = bytes.TrimPrefix(b, bom)
	if utf8.Valid(b) {
		return string(b), UTF8, nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", Windows1252, err
	}

	return string(decoded), Windows1252, nil
}

func readCSV(text string) ([][]string, error) {
	r := csv.NewReader(bytes.NewBufferString(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	return r.ReadAll()
}
