// Package extract holds the field extractors. Each one inspects a single
// message and returns its field or the documented default: an empty string,
// or 0 for integer fields. Extractors never depend on each other.
package extract

import (
	"regexp"
	"strings"

	"fjacquet/miamala/internal/currencyutils"
	"fjacquet/miamala/internal/parsererror"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field names, as reported in warnings and logs.
const (
	FieldTransactionID    = "transaction_id"
	FieldAmount           = "amount"
	FieldCounterparty     = "counterparty"
	FieldPhone            = "phone"
	FieldCommission       = "commission"
	FieldFee              = "fee"
	FieldGovtFee          = "govt_fee"
	FieldDatetime         = "datetime"
	FieldRemainingBalance = "remaining_balance"
)

const parserName = "sms"

// Separators match any Unicode space, so "Tsh\u00a050,000" (no-break space)
// reads like "Tsh 50,000". Digits stay ASCII.
var (
	// Reference label followed by an uppercase alphanumeric token:
	// "Kumbukumbu: 8HJ29KD0" or "Utambulisho wa muamala: MP240101.1234.A"
	// (only the leading [A-Z0-9]+ run is kept).
	transactionIDPattern = regexp.MustCompile(`(Kumbukumbu|Utambulisho wa muamala):[\s\p{Zs}]*([A-Z0-9]+)`)

	// First currency marker with a digit group: "Tsh 1,250,000", "Tsh5000"
	amountPattern = regexp.MustCompile(`Tsh[\s\p{Zs}]?([\d,]+)`)

	// Uppercase name between "kwa" and an opening parenthesis:
	// "kwa JOHN DOE (0712345678)"
	counterpartyPattern = regexp.MustCompile(`kwa[\s\p{Zs}]([A-Z ]+)[\s\p{Zs}]?\(`)

	// Local 10-digit number in parentheses: "(0712345678)"
	phonePattern = regexp.MustCompile(`\((0\d{9})\)`)

	commissionPattern = regexp.MustCompile(`umepata[\s\p{Zs}]?Tsh[\s\p{Zs}]?([\d,]+)`)
	feePattern        = regexp.MustCompile(`Ada[\s\p{Zs}]Tsh[\s\p{Zs}]([\d,]+)`)
	govtFeePattern    = regexp.MustCompile(`Serikali[\s\p{Zs}]Tsh[\s\p{Zs}]([\d,]+)`)

	// DD/MM/YYYY HH:MM, calendar correctness is not checked
	datetimePattern = regexp.MustCompile(`(\d{2}/\d{2}/\d{4}[\s\p{Zs}]\d{2}:\d{2})`)

	// "Salio Tsh 10,000", "Salio: Tsh 10,000", "Salio:Tsh 10,000"
	balancePattern = regexp.MustCompile(`Salio[:]?[\s\p{Zs}]*Tsh[\s\p{Zs}]([\d,]+)`)
)

// TransactionID returns the reference token, or "".
func TransactionID(msg string) string {
	if m := transactionIDPattern.FindStringSubmatch(msg); len(m) > 2 {
		return m[2]
	}
	return ""
}

// Amount returns the first Tsh amount in the message, or 0.
func Amount(msg string) (int64, error) {
	return digitField(amountPattern, FieldAmount, msg)
}

// Counterparty returns the title-cased name of the other party, or "".
func Counterparty(msg string) string {
	m := counterpartyPattern.FindStringSubmatch(msg)
	if len(m) < 2 {
		return ""
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return ""
	}
	return cases.Title(language.Und).String(name)
}

// Phone returns the parenthesised local phone number, or "".
func Phone(msg string) string {
	if m := phonePattern.FindStringSubmatch(msg); len(m) > 1 {
		return m[1]
	}
	return ""
}

// Commission returns the agent commission ("umepata Tsh ..."), or 0.
func Commission(msg string) (int64, error) {
	return digitField(commissionPattern, FieldCommission, msg)
}

// Fee returns the operator fee ("Ada Tsh ..."), or 0.
func Fee(msg string) (int64, error) {
	return digitField(feePattern, FieldFee, msg)
}

// GovtFee returns the government levy ("Serikali Tsh ..."), or 0.
func GovtFee(msg string) (int64, error) {
	return digitField(govtFeePattern, FieldGovtFee, msg)
}

// Datetime returns the DD/MM/YYYY HH:MM token, or "". The date and time
// are joined by a plain space whatever separator the message used.
func Datetime(msg string) string {
	if m := datetimePattern.FindStringSubmatch(msg); len(m) > 1 {
		return strings.Join(strings.Fields(m[1]), " ")
	}
	return ""
}

// RemainingBalance returns the wallet balance after the transaction, or 0.
func RemainingBalance(msg string) (int64, error) {
	return digitField(balancePattern, FieldRemainingBalance, msg)
}

// digitField converts the first capture group of re. A miss is 0 with no
// error; a match that fails conversion is 0 with a *parsererror.ParseError.
func digitField(re *regexp.Regexp, field, msg string) (int64, error) {
	m := re.FindStringSubmatch(msg)
	if len(m) < 2 {
		return 0, nil
	}
	value, err := currencyutils.ParseDigitGroup(m[1])
	if err != nil {
		return 0, &parsererror.ParseError{
			Parser: parserName,
			Field:  field,
			Value:  m[1],
			Err:    err,
		}
	}
	return value, nil
}
