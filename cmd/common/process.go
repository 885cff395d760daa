// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"io"

	"fjacquet/miamala/internal/fileutils"
	"fjacquet/miamala/internal/filter"
	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/parser"
	"fjacquet/miamala/internal/parsererror"
	"fjacquet/miamala/internal/source"

	"github.com/spf13/cobra"
)

// StdinInput is the input name that reads messages from standard input.
const StdinInput = "-"

// MessageExtension selects the files read from an input directory.
const MessageExtension = ".txt"

// SourceReader reads message documents.
type SourceReader interface {
	Read(name string, in io.Reader) (source.Document, error)
	ReadFiles(paths []string) ([]source.Document, []error)
}

// LoadResult is the outcome of reading and parsing every input.
type LoadResult struct {
	parser.Result
	// Failed holds one error per input that could not be read.
	Failed []error
}

// LoadRecords reads every input in order and parses the readable ones into a
// single batch. Directories are expanded to their .txt files. It fails only
// when no input is given or when none of them could be read.
func LoadRecords(reader SourceReader, p parser.BatchParser, inputs []string, stdin io.Reader, log logging.Logger) (LoadResult, error) {
	if len(inputs) == 0 {
		return LoadResult{}, &parsererror.ValidationError{Reason: "at least one --input is required"}
	}

	expanded, err := fileutils.ExpandInputs(inputs, MessageExtension)
	if err != nil {
		return LoadResult{}, err
	}

	var docs []source.Document
	var failed []error
	var pending []string
	flush := func() {
		if len(pending) == 0 {
			return
		}
		d, errs := reader.ReadFiles(pending)
		docs = append(docs, d...)
		failed = append(failed, errs...)
		pending = nil
	}
	for _, in := range expanded {
		if in != StdinInput {
			pending = append(pending, in)
			continue
		}
		flush()
		doc, err := reader.Read("stdin", stdin)
		if err != nil {
			failed = append(failed, err)
			continue
		}
		docs = append(docs, doc)
	}
	flush()

	for _, err := range failed {
		log.Warn("Skipping unreadable input", logging.F(logging.FieldReason, err.Error()))
	}

	if len(docs) == 0 {
		if len(failed) == 0 {
			return LoadResult{}, &parsererror.ValidationError{Reason: "no message files found in the given inputs"}
		}
		return LoadResult{Failed: failed}, fmt.Errorf("no readable input: %w", errors.Join(failed...))
	}

	res := p.ParseSources(docs)
	log.Info("Loaded messages",
		logging.F("sources", len(docs)),
		logging.F("failed_sources", len(failed)),
		logging.F(logging.FieldCount, len(res.Records)),
		logging.F(logging.FieldWarnings, len(res.Warnings)))

	return LoadResult{Result: res, Failed: failed}, nil
}

// FilterFlags are the record filters shared by commands.
type FilterFlags struct {
	Counterparties []string
	Types          []string
	MinAmount      int64
}

// Register adds the filter flags to cmd.
func (f *FilterFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.Counterparties, "counterparty", nil, `Keep only these counterparties, e.g. "John Doe" (repeatable)`)
	cmd.Flags().StringSliceVar(&f.Types, "type", nil, "Keep only these transaction types: Bill Payment, Deposit, Withdrawal, Unknown (repeatable)")
	cmd.Flags().Int64Var(&f.MinAmount, "min-amount", 0, "Keep only records with at least this amount (Tsh)")
}

// Criteria converts the flag values.
func (f *FilterFlags) Criteria() (filter.Criteria, error) {
	c := filter.Criteria{
		Counterparties: f.Counterparties,
		MinAmount:      f.MinAmount,
	}
	for _, name := range f.Types {
		t, err := models.ParseTransactionType(name)
		if err != nil {
			return filter.Criteria{}, &parsererror.ValidationError{Reason: err.Error()}
		}
		c.Types = append(c.Types, t)
	}
	if err := c.Validate(); err != nil {
		return filter.Criteria{}, err
	}
	return c, nil
}

// WriteOutput hands write either the file at path or stdout when path is
// empty.
func WriteOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := fileutils.CreateFile(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
