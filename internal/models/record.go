// Package models provides the data structures shared by the parser, the
// aggregator and the exporters.
package models

import (
	"fmt"
	"strings"
)

// Direction tells whether money left or reached the agent's wallet.
type Direction string

const (
	DirectionSent     Direction = "Sent"
	DirectionReceived Direction = "Received"
	DirectionUnknown  Direction = "Unknown"
)

// Operator is the mobile-money provider that issued a message.
type Operator string

const (
	OperatorHalopesa    Operator = "Halopesa"
	OperatorTigoPesa    Operator = "Tigo Pesa"
	OperatorMPesa       Operator = "M-Pesa"
	OperatorAirtelMoney Operator = "Airtel Money"
	OperatorTPesa       Operator = "T-Pesa"
	OperatorUnknown     Operator = "Unknown"
)

// KnownOperators lists the operators reported by the aggregator, in report
// order.
var KnownOperators = []Operator{
	OperatorHalopesa,
	OperatorTigoPesa,
	OperatorMPesa,
	OperatorAirtelMoney,
	OperatorTPesa,
}

// TransactionType is the kind of agent transaction a message describes.
type TransactionType string

const (
	TypeBillPayment TransactionType = "Bill Payment"
	TypeDeposit     TransactionType = "Deposit"
	TypeWithdrawal  TransactionType = "Withdrawal"
	TypeUnknown     TransactionType = "Unknown"
)

// TransactionTypes lists every transaction type label.
var TransactionTypes = []TransactionType{
	TypeBillPayment,
	TypeDeposit,
	TypeWithdrawal,
	TypeUnknown,
}

// TransactionRecord is the structured form of one notification message.
// Records are built once by the parser and treated as immutable values.
type TransactionRecord struct {
	Direction        Direction       `csv:"Direction" json:"direction" yaml:"direction"`
	TransactionID    string          `csv:"Transaction ID" json:"transaction_id" yaml:"transaction_id"`
	Amount           int64           `csv:"Amount" json:"amount" yaml:"amount"`
	Counterparty     string          `csv:"Counterparty" json:"counterparty" yaml:"counterparty"`
	Phone            string          `csv:"Phone" json:"phone" yaml:"phone"`
	Commission       int64           `csv:"Commission" json:"commission" yaml:"commission"`
	Fee              int64           `csv:"Fee" json:"fee" yaml:"fee"`
	GovtFee          int64           `csv:"Govt Fee" json:"govt_fee" yaml:"govt_fee"`
	Datetime         string          `csv:"Datetime" json:"datetime" yaml:"datetime"`
	RemainingBalance int64           `csv:"Remaining Balance" json:"remaining_balance" yaml:"remaining_balance"`
	Operator         Operator        `csv:"Operator" json:"operator" yaml:"operator"`
	TransactionType  TransactionType `csv:"Transaction Type" json:"transaction_type" yaml:"transaction_type"`

	// Line is the 1-based position of the message within its batch.
	Line int `csv:"-" json:"line" yaml:"line"`
	// Source names the input the message came from; empty for in-memory input.
	Source string `csv:"-" json:"source,omitempty" yaml:"source,omitempty"`
}

// NewTransactionRecord returns a record holding every documented default.
func NewTransactionRecord() TransactionRecord {
	return TransactionRecord{
		Direction:       DirectionUnknown,
		Operator:        OperatorUnknown,
		TransactionType: TypeUnknown,
	}
}

// HasDatetime reports whether the record can take part in chronological
// aggregation.
func (r TransactionRecord) HasDatetime() bool {
	return r.Datetime != ""
}

// ParseDirection resolves a direction label, ignoring case.
func ParseDirection(s string) (Direction, error) {
	for _, d := range []Direction{DirectionSent, DirectionReceived, DirectionUnknown} {
		if normalizeLabel(string(d)) == normalizeLabel(s) {
			return d, nil
		}
	}
	return DirectionUnknown, fmt.Errorf("unknown direction: %q", s)
}

// ParseOperator resolves an operator label. Case, spaces and hyphens are
// ignored so "mpesa", "M-Pesa" and "M PESA" all resolve to OperatorMPesa.
func ParseOperator(s string) (Operator, error) {
	if normalizeLabel(s) == normalizeLabel(string(OperatorUnknown)) {
		return OperatorUnknown, nil
	}
	for _, op := range KnownOperators {
		if normalizeLabel(string(op)) == normalizeLabel(s) {
			return op, nil
		}
	}
	return OperatorUnknown, fmt.Errorf("unknown operator: %q", s)
}

// ParseTransactionType resolves a transaction type label the same way
// ParseOperator does.
func ParseTransactionType(s string) (TransactionType, error) {
	for _, tt := range TransactionTypes {
		if normalizeLabel(string(tt)) == normalizeLabel(s) {
			return tt, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown transaction type: %q", s)
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
