package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Read(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"plain", "first\nsecond", []string{"first", "second"}},
		{"utf8 bom stripped", "\xef\xbb\xbfUmepokea Tsh 500\n", []string{"Umepokea Tsh 500"}},
		{"crlf", "one\r\ntwo\r\n", []string{"one", "two"}},
		{"blank lines kept", "one\n\nthree", []string{"one", "", "three"}},
		{"empty input", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(logging.NewMockLogger(), 0)
			doc, err := r.Read("test.txt", strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, "test.txt", doc.Name)
			assert.Equal(t, tt.want, doc.Lines)
		})
	}
}

func TestReader_Read_UTF16WithBOM(t *testing.T) {
	// "Hi\n" in UTF-16LE with BOM
	input := []byte{0xff, 0xfe, 'H', 0, 'i', 0, '\n', 0}
	r := NewReader(logging.NewMockLogger(), 0)

	doc, err := r.Read("utf16.txt", strings.NewReader(string(input)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi"}, doc.Lines)
}

func TestReader_Read_InvalidUTF8(t *testing.T) {
	r := NewReader(logging.NewMockLogger(), 0)

	_, err := r.Read("bad.txt", strings.NewReader("ok\nbad \xff\xfe byte\n"))
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "bad.txt", formatErr.FilePath)
	assert.Contains(t, formatErr.Msg, "line 2")
	assert.Equal(t, "bad ? byte", formatErr.ActualContentSnippet)
}

func TestReader_Read_LineTooLong(t *testing.T) {
	r := NewReader(logging.NewMockLogger(), 16)

	_, err := r.Read("long.txt", strings.NewReader("short\n"+strings.Repeat("x", 64)+"\n"))
	require.Error(t, err)

	var formatErr *parsererror.InvalidFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Contains(t, formatErr.Msg, "line 2 exceeds 16 bytes")
}

func TestReader_ReadFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "mpesa.txt")
	require.NoError(t, os.WriteFile(good, []byte("a\nb\n"), 0600))
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0x00, 0xfe}, 0600))
	other := filepath.Join(dir, "tigo.txt")
	require.NoError(t, os.WriteFile(other, []byte("c"), 0600))
	missing := filepath.Join(dir, "missing.txt")

	logger := logging.NewMockLogger()
	r := NewReader(logger, 0)

	docs, errs := r.ReadFiles([]string{good, bad, missing, other})

	require.Len(t, docs, 2)
	assert.Equal(t, "mpesa.txt", docs[0].Name)
	assert.Equal(t, []string{"a", "b"}, docs[0].Lines)
	assert.Equal(t, "tigo.txt", docs[1].Name)
	assert.Equal(t, []string{"c"}, docs[1].Lines)

	require.Len(t, errs, 2)
	for _, err := range errs {
		var formatErr *parsererror.InvalidFormatError
		assert.True(t, errors.As(err, &formatErr))
	}
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 2)
}
