package common

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "Direction,Transaction ID,Amount,Counterparty,Phone,Commission,Fee,Govt Fee," +
	"Datetime,Remaining Balance,Operator,Transaction Type"

const sampleRow = "Sent,8HJ29KD0,50000,John Doe,0712345678,0,1500,200,01/01/2024 09:00,120000,M-Pesa,Withdrawal"

func sampleRecords() []models.TransactionRecord {
	return []models.TransactionRecord{
		{
			Direction:        models.DirectionSent,
			TransactionID:    "8HJ29KD0",
			Amount:           50000,
			Counterparty:     "John Doe",
			Phone:            "0712345678",
			Fee:              1500,
			GovtFee:          200,
			Datetime:         "01/01/2024 09:00",
			RemainingBalance: 120000,
			Operator:         models.OperatorMPesa,
			TransactionType:  models.TypeWithdrawal,
			Line:             1,
			Source:           "mpesa.txt",
		},
		models.NewTransactionRecord(),
	}
}

func TestCSVWriter_Write(t *testing.T) {
	tests := []struct {
		name           string
		delimiter      rune
		includeHeaders bool
		want           []string
	}{
		{
			name:           "comma with headers",
			delimiter:      ',',
			includeHeaders: true,
			want: []string{
				header,
				"Sent,8HJ29KD0,50000,John Doe,0712345678,0,1500,200,01/01/2024 09:00,120000,M-Pesa,Withdrawal",
				"Unknown,,0,,,0,0,0,,0,Unknown,Unknown",
			},
		},
		{
			name:           "semicolon without headers",
			delimiter:      ';',
			includeHeaders: false,
			want: []string{
				"Sent;8HJ29KD0;50000;John Doe;0712345678;0;1500;200;01/01/2024 09:00;120000;M-Pesa;Withdrawal",
				"Unknown;;0;;;0;0;0;;0;Unknown;Unknown",
			},
		},
		{
			name:           "zero delimiter falls back to comma",
			delimiter:      0,
			includeHeaders: true,
			want: []string{
				header,
				"Sent,8HJ29KD0,50000,John Doe,0712345678,0,1500,200,01/01/2024 09:00,120000,M-Pesa,Withdrawal",
				"Unknown,,0,,,0,0,0,,0,Unknown,Unknown",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewCSVWriter(logging.NewMockLogger(), tt.delimiter, tt.includeHeaders)
			var buf bytes.Buffer
			require.NoError(t, w.Write(sampleRecords(), &buf))
			assert.Equal(t, tt.want, strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"))
		})
	}
}

func TestCSVWriter_Write_QuotesDelimiterInValue(t *testing.T) {
	rec := models.NewTransactionRecord()
	rec.Counterparty = "Doe, John"

	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter(logging.NewMockLogger(), ',', false).Write([]models.TransactionRecord{rec}, &buf))
	assert.Contains(t, buf.String(), `"Doe, John"`)
}

func TestCSVWriter_WriteFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "miamala.csv")
	logger := logging.NewMockLogger()

	w := NewCSVWriter(logger, ';', true)
	require.NoError(t, w.WriteFile(sampleRecords(), target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Direction;Transaction ID;"))
	assert.True(t, logger.HasEntry("INFO", "Successfully wrote records to CSV file"))
}

func TestReadRecordsFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "miamala.csv")
	require.NoError(t, NewCSVWriter(logging.NewMockLogger(), ';', true).WriteFile(sampleRecords(), target))

	got, err := ReadRecordsFile(target, ';', true, logging.NewMockLogger())
	require.NoError(t, err)

	want := sampleRecords()
	want[0].Source = target
	want[1].Line = 2
	want[1].Source = target
	assert.Equal(t, want, got)

	_, err = ReadRecordsFile(filepath.Join(dir, "missing.csv"), ';', true, logging.NewMockLogger())
	assert.Error(t, err)
}

func TestReadRecordsFile_WithoutHeaders(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "miamala.csv")
	require.NoError(t, NewCSVWriter(logging.NewMockLogger(), ',', false).WriteFile(sampleRecords(), target))

	got, err := ReadRecordsFile(target, ',', false, logging.NewMockLogger())
	require.NoError(t, err)

	want := sampleRecords()
	want[0].Source = target
	want[1].Line = 2
	want[1].Source = target
	assert.Equal(t, want, got)
}

func TestReadRecordsFile_NormalizesLabels(t *testing.T) {
	target := filepath.Join(t.TempDir(), "edited.csv")
	content := header + "\n" + "sent,,500,,,0,0,0,,0,mpesa,bill payment\n"
	require.NoError(t, os.WriteFile(target, []byte(content), 0600))

	got, err := ReadRecordsFile(target, ',', true, logging.NewMockLogger())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.DirectionSent, got[0].Direction)
	assert.Equal(t, models.OperatorMPesa, got[0].Operator)
	assert.Equal(t, models.TypeBillPayment, got[0].TransactionType)
}

func TestReadRecordsFile_RejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{"negative amount", "Sent,,-500,,,0,0,0,,0,M-Pesa,Withdrawal", "Amount must not be negative"},
		{"negative balance", "Received,,500,,,0,0,0,,-1,Tigo Pesa,Deposit", "Remaining Balance must not be negative"},
		{"unknown direction", "Sideways,,500,,,0,0,0,,0,M-Pesa,Withdrawal", "unknown direction"},
		{"empty direction", ",,500,,,0,0,0,,0,M-Pesa,Withdrawal", "unknown direction"},
		{"unknown operator", "Sent,,500,,,0,0,0,,0,PayPal,Withdrawal", "unknown operator"},
		{"unknown type", "Sent,,500,,,0,0,0,,0,M-Pesa,Refund", "unknown transaction type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := filepath.Join(t.TempDir(), "edited.csv")
			content := header + "\n" + sampleRow + "\n" + tt.row + "\n"
			require.NoError(t, os.WriteFile(target, []byte(content), 0600))
			logger := logging.NewMockLogger()

			_, err := ReadRecordsFile(target, ',', true, logger)

			var validationErr *parsererror.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, target, validationErr.FilePath)
			assert.Contains(t, validationErr.Reason, "row 2")
			assert.Contains(t, validationErr.Reason, tt.wantErr)
			assert.True(t, logger.HasEntry("ERROR", "Invalid record in CSV file"))
		})
	}
}

func TestReadCSV(t *testing.T) {
	type row struct {
		Name   string `csv:"Name"`
		Amount int64  `csv:"Amount"`
	}

	rows, err := ReadCSV[row](strings.NewReader("Name|Amount\nAsha|500\nJuma|0\n"), '|')
	require.NoError(t, err)
	assert.Equal(t, []row{{"Asha", 500}, {"Juma", 0}}, rows)

	_, err = ReadCSV[row](strings.NewReader("Name|Amount\nAsha|not-a-number\n"), '|')
	assert.Error(t, err)
}
