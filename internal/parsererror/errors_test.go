package parsererror

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	err := &ParseError{
		Parser: "sms",
		Field:  "amount",
		Value:  ",",
		Err:    ErrMalformedDigits,
	}

	assert.Equal(t, "sms: failed to parse amount=',': malformed digit group", err.Error())
	assert.True(t, errors.Is(err, ErrMalformedDigits))

	wrapped := fmt.Errorf("line 4: %w", err)
	var target *ParseError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "amount", target.Field)
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "without file",
			err:  &ValidationError{Reason: "manual adjustment must not be negative"},
			want: "validation failed: manual adjustment must not be negative",
		},
		{
			name: "with file",
			err:  &ValidationError{FilePath: "inbox.txt", Reason: "empty path"},
			want: "validation failed for inbox.txt: empty path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestInvalidFormatError(t *testing.T) {
	withSnippet := &InvalidFormatError{
		FilePath:             "sms.bin",
		ExpectedFormat:       "UTF-8 text",
		ActualContentSnippet: "\\xff\\xfe",
		Msg:                  "not valid UTF-8",
	}
	assert.Contains(t, withSnippet.Error(), "Content snippet")
	assert.Contains(t, withSnippet.Error(), "sms.bin")

	cause := os.ErrNotExist
	withoutSnippet := &InvalidFormatError{
		FilePath:       "missing.txt",
		ExpectedFormat: "UTF-8 text",
		Msg:            "cannot read file",
		Err:            cause,
	}
	assert.Equal(t, "invalid format in file 'missing.txt': cannot read file. Expected: UTF-8 text", withoutSnippet.Error())
	assert.True(t, errors.Is(withoutSnippet, os.ErrNotExist))
}
