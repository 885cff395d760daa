// Package classify assigns the direction, operator and transaction type
// labels of a message from keyword presence. Rules are evaluated in order and
// the first match wins.
package classify

import (
	"strings"

	"fjacquet/miamala/internal/models"
)

// keywordRule maps a set of markers to a label. A rule matches when any of
// its markers occurs in the text.
type keywordRule[L any] struct {
	label   L
	markers []string
}

func (r keywordRule[L]) matches(text string) bool {
	for _, marker := range r.markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func firstMatch[L any](rules []keywordRule[L], text string, fallback L) L {
	for _, rule := range rules {
		if rule.matches(text) {
			return rule.label
		}
	}
	return fallback
}

// Case-sensitive. Sent markers are checked first so they win when both kinds
// appear.
var directionRules = []keywordRule[models.Direction]{
	{models.DirectionSent, []string{"Umetuma", "Umetoa"}},
	{models.DirectionReceived, []string{"Umepokea", "umepokea"}},
}

// Case-sensitive, in priority order. Promotional text can mention several
// operators, so the order is the tie-break.
var operatorRules = []keywordRule[models.Operator]{
	{models.OperatorHalopesa, []string{"Halopesa"}},
	{models.OperatorTigoPesa, []string{"Tigo"}},
	{models.OperatorMPesa, []string{"M-Pesa", "Vodacom"}},
	{models.OperatorAirtelMoney, []string{"Airtel Money"}},
	{models.OperatorTPesa, []string{"T-Pesa", "TTCL"}},
}

// Matched against the lower-cased message. Bill payment outranks deposit.
var typeRules = []keywordRule[models.TransactionType]{
	{models.TypeBillPayment, []string{"lipa", "malipo"}},
	{models.TypeDeposit, []string{"kutoka kwa", "umepokea"}},
}

// withdrawalMarker only counts for messages already classified as sent.
const withdrawalMarker = "kwa"

// Direction classifies the message as sent, received or unknown.
func Direction(msg string) models.Direction {
	return firstMatch(directionRules, msg, models.DirectionUnknown)
}

// Operator returns the first operator whose name appears in the message.
func Operator(msg string) models.Operator {
	return firstMatch(operatorRules, msg, models.OperatorUnknown)
}

// TransactionType classifies the message given its already computed
// direction: bill payment, then deposit, then withdrawal for sent messages
// mentioning "kwa".
func TransactionType(msg string, direction models.Direction) models.TransactionType {
	lower := strings.ToLower(msg)
	if t := firstMatch(typeRules, lower, models.TypeUnknown); t != models.TypeUnknown {
		return t
	}
	if direction == models.DirectionSent && strings.Contains(lower, withdrawalMarker) {
		return models.TypeWithdrawal
	}
	return models.TypeUnknown
}
