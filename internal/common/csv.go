// Package common provides the CSV import and export of transaction records.
package common

import (
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/miamala/internal/fileutils"
	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter separates CSV columns unless configured otherwise.
const DefaultDelimiter = ','

// CSVWriter writes records with the column layout of
// models.TransactionRecord.
type CSVWriter struct {
	logger         logging.Logger
	delimiter      rune
	includeHeaders bool
}

// NewCSVWriter creates a writer. A zero delimiter selects DefaultDelimiter.
func NewCSVWriter(logger logging.Logger, delimiter rune, includeHeaders bool) *CSVWriter {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &CSVWriter{
		logger:         logger,
		delimiter:      delimiter,
		includeHeaders: includeHeaders,
	}
}

// Delimiter returns the column separator in use.
func (w *CSVWriter) Delimiter() rune {
	return w.delimiter
}

// Write marshals records to out.
func (w *CSVWriter) Write(records []models.TransactionRecord, out io.Writer) error {
	if records == nil {
		records = []models.TransactionRecord{}
	}

	csvWriter := csv.NewWriter(out)
	csvWriter.Comma = w.delimiter
	safe := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if w.includeHeaders {
		err = gocsv.MarshalCSV(records, safe)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(records, safe)
	}
	if err != nil {
		w.logger.WithError(err).Error("Failed to marshal records to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("error flushing CSV data: %w", err)
	}
	return nil
}

// WriteFile writes records to csvFile, creating parent directories as
// needed.
func (w *CSVWriter) WriteFile(records []models.TransactionRecord, csvFile string) error {
	w.logger.Info("Writing records to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(records)),
		logging.F(logging.FieldDelimiter, string(w.delimiter)))

	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		w.logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			w.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := w.Write(records, file); err != nil {
		return err
	}

	w.logger.Info("Successfully wrote records to CSV file",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(records)))
	return nil
}

// ReadCSV reads rows into a slice of structs using gocsv. The input must
// carry a header row.
func ReadCSV[TCSVRow any](in io.Reader, delimiter rune) ([]TCSVRow, error) {
	reader := csv.NewReader(in)
	if delimiter != 0 {
		reader.Comma = delimiter
	}

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// ReadRecordsFile loads records previously exported by CSVWriter. With
// includeHeaders false the columns are taken in export order. Line is set
// from the row position and Source from csvFile.
//
// Labels are resolved with the models.Parse* functions and negative amounts
// are rejected, so a hand-edited file fails with a
// *parsererror.ValidationError naming the first bad row.
func ReadRecordsFile(csvFile string, delimiter rune, includeHeaders bool, logger logging.Logger) ([]models.TransactionRecord, error) {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	logger.Info("Reading records CSV file", logging.F(logging.FieldInputFile, csvFile))

	file, err := fileutils.OpenFile(csvFile)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var records []models.TransactionRecord
	if includeHeaders {
		records, err = ReadCSV[models.TransactionRecord](file, delimiter)
	} else {
		records, err = readCSVWithoutHeaders[models.TransactionRecord](file, delimiter)
	}
	if err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, err
	}

	for i := range records {
		if err := normalizeRecord(&records[i]); err != nil {
			logger.WithError(err).Error("Invalid record in CSV file",
				logging.F(logging.FieldInputFile, csvFile),
				logging.F(logging.FieldLine, i+1))
			return nil, &parsererror.ValidationError{
				FilePath: csvFile,
				Reason:   fmt.Sprintf("row %d: %v", i+1, err),
			}
		}
		records[i].Line = i + 1
		records[i].Source = csvFile
	}

	logger.Info("Successfully read records CSV file", logging.F(logging.FieldCount, len(records)))
	return records, nil
}

func readCSVWithoutHeaders[TCSVRow any](in io.Reader, delimiter rune) ([]TCSVRow, error) {
	reader := csv.NewReader(in)
	if delimiter != 0 {
		reader.Comma = delimiter
	}

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSVWithoutHeaders(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// normalizeRecord resolves the record's labels to their canonical values
// and checks that no amount is negative.
func normalizeRecord(r *models.TransactionRecord) error {
	direction, err := models.ParseDirection(string(r.Direction))
	if err != nil {
		return err
	}
	operator, err := models.ParseOperator(string(r.Operator))
	if err != nil {
		return err
	}
	txType, err := models.ParseTransactionType(string(r.TransactionType))
	if err != nil {
		return err
	}
	r.Direction, r.Operator, r.TransactionType = direction, operator, txType

	amounts := []struct {
		column string
		value  int64
	}{
		{"Amount", r.Amount},
		{"Commission", r.Commission},
		{"Fee", r.Fee},
		{"Govt Fee", r.GovtFee},
		{"Remaining Balance", r.RemainingBalance},
	}
	for _, a := range amounts {
		if a.value < 0 {
			return fmt.Errorf("%s must not be negative, got %d", a.column, a.value)
		}
	}
	return nil
}
