package models

// NoDataLabel is shown in place of a balance when an operator has no
// timestamped record.
const NoDataLabel = "Hakuna data"

// OperatorBalance is the latest known balance of one operator. HasData is
// false when no timestamped record matched; Balance is then meaningless and
// must not be read as zero.
type OperatorBalance struct {
	Operator Operator
	Balance  int64
	HasData  bool
}

// AggregateSummary is derived from a record collection on demand and never
// persisted.
type AggregateSummary struct {
	RecordCount      int
	TotalSent        int64
	TotalReceived    int64
	TotalCommission  int64
	ManualAdjustment int64
	CashInHand       int64
	Balances         []OperatorBalance
	// Counterparties lists the names a caller can filter on. The aggregator
	// leaves it empty; commands fill it from the unfiltered records.
	Counterparties []string
}

// Balance returns the entry for op. The second result is false when op is
// not one of KnownOperators.
func (s AggregateSummary) Balance(op Operator) (OperatorBalance, bool) {
	for _, b := range s.Balances {
		if b.Operator == op {
			return b, true
		}
	}
	return OperatorBalance{Operator: op}, false
}
