package parser

import (
	"fmt"

	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/source"
)

// BatchParser is implemented by parsers that turn message lines into
// records.
type BatchParser interface {
	// ParseBatch returns exactly one record per line, in input order.
	// Problems with individual fields are reported as warnings, never as
	// errors.
	ParseBatch(lines []string) Result
	ParseSources(docs []source.Document) Result
}

// Warning describes a field that matched but could not be turned into a
// value. The record still carries the field's default.
type Warning struct {
	// Line is the 1-based position of the message in its batch or
	// document; 0 when the message was built on its own.
	Line    int
	Source  string
	// Text is the offending message as received.
	Text    string
	Field   string
	Message string
	Err     error
}

func (w Warning) String() string {
	loc := fmt.Sprintf("line %d", w.Line)
	if w.Source != "" {
		loc = w.Source + ":" + fmt.Sprint(w.Line)
	}
	out := loc + ": " + w.Message
	if w.Err != nil {
		out += fmt.Sprintf(": %v", w.Err)
	}
	if w.Text != "" {
		out += fmt.Sprintf(" in %q", w.Text)
	}
	return out
}

// Result is the outcome of parsing a batch.
type Result struct {
	Records  []models.TransactionRecord
	Warnings []Warning
}
