// Package source reads message batches: newline-delimited UTF-8 text with one
// notification per line.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fjacquet/miamala/internal/fileutils"
	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/parsererror"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxLineBytes bounds a single message line.
const DefaultMaxLineBytes = 64 * 1024

const (
	expectedFormat = "UTF-8 text, one message per line"
	snippetBytes   = 40
)

// Document is the ordered list of lines read from one input.
type Document struct {
	Name  string
	Lines []string
}

// Reader decodes message files.
type Reader struct {
	logger       logging.Logger
	maxLineBytes int
}

// NewReader creates a Reader. A non-positive maxLineBytes selects
// DefaultMaxLineBytes.
func NewReader(logger logging.Logger, maxLineBytes int) *Reader {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Reader{logger: logger, maxLineBytes: maxLineBytes}
}

// Read decodes in as one document. A leading byte order mark is removed
// (UTF-16 input carrying a BOM is converted to UTF-8). Blank lines are kept
// so that line numbers match the input. Any invalid UTF-8 rejects the whole
// document with a *parsererror.InvalidFormatError.
func (r *Reader) Read(name string, in io.Reader) (Document, error) {
	decoded := transform.NewReader(in, unicode.BOMOverride(transform.Nop))

	sc := bufio.NewScanner(decoded)
	initial := r.maxLineBytes
	if initial > bufio.MaxScanTokenSize {
		initial = bufio.MaxScanTokenSize
	}
	sc.Buffer(make([]byte, 0, initial), r.maxLineBytes)

	lines := []string{}
	for sc.Scan() {
		line := sc.Text()
		if !utf8.ValidString(line) {
			return Document{}, &parsererror.InvalidFormatError{
				FilePath:             name,
				ExpectedFormat:       expectedFormat,
				ActualContentSnippet: snippet(line),
				Msg:                  fmt.Sprintf("invalid UTF-8 on line %d", len(lines)+1),
			}
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		msg := "failed to read input"
		if errors.Is(err, bufio.ErrTooLong) {
			msg = fmt.Sprintf("line %d exceeds %d bytes", len(lines)+1, r.maxLineBytes)
		}
		return Document{}, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: expectedFormat,
			Msg:            msg,
			Err:            err,
		}
	}

	r.logger.Debug("Read message source",
		logging.F(logging.FieldSource, name),
		logging.F(logging.FieldCount, len(lines)))
	return Document{Name: name, Lines: lines}, nil
}

// ReadFile reads a single file. The document is named after the file's base
// name.
func (r *Reader) ReadFile(path string) (Document, error) {
	f, err := fileutils.OpenFile(path)
	if err != nil {
		return Document{}, &parsererror.InvalidFormatError{
			FilePath:       path,
			ExpectedFormat: expectedFormat,
			Msg:            "file could not be opened",
			Err:            err,
		}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.WithError(cerr).Warn("Failed to close input file",
				logging.F(logging.FieldFile, path))
		}
	}()

	return r.Read(filepath.Base(path), f)
}

// ReadFiles reads every path in order. A path that fails is reported in the
// returned error slice and the remaining paths are still read.
func (r *Reader) ReadFiles(paths []string) ([]Document, []error) {
	docs := make([]Document, 0, len(paths))
	var errs []error
	for _, p := range paths {
		doc, err := r.ReadFile(p)
		if err != nil {
			r.logger.WithError(err).Warn("Skipping unreadable source",
				logging.F(logging.FieldFile, p))
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

func snippet(line string) string {
	if len(line) > snippetBytes {
		line = line[:snippetBytes]
	}
	return strings.ToValidUTF8(line, "?")
}
