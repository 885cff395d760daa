// Package aggregate derives the agent's financial state from parsed records.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"fjacquet/miamala/internal/currencyutils"
	"fjacquet/miamala/internal/dateutils"
	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Aggregator computes totals, cash in hand and the latest balance per
// operator. It never filters; callers narrow the records first.
type Aggregator struct {
	logger        logging.Logger
	chronological bool
}

// NewAggregator creates an Aggregator. With chronological false the latest
// balance is chosen by comparing the raw DD/MM/YYYY HH:MM strings, so
// "31/01/2024" sorts after "01/02/2024". With chronological true the
// timestamps are compared as times.
func NewAggregator(logger logging.Logger, chronological bool) *Aggregator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Aggregator{
		logger:        logger,
		chronological: chronological,
	}
}

// Aggregate summarises records. manualAdjustment is cash the agent added
// from outside the wallets and must not be negative.
//
// Cash in hand is total sent - total received + manualAdjustment and may be
// negative. Totals are summed exactly; one that does not fit an int64 fails
// with parsererror.ErrAmountOverflow.
func (a *Aggregator) Aggregate(records []models.TransactionRecord, manualAdjustment int64) (models.AggregateSummary, error) {
	if manualAdjustment < 0 {
		return models.AggregateSummary{}, &parsererror.ValidationError{
			Reason: "manual adjustment must not be negative",
		}
	}

	summary := models.AggregateSummary{
		RecordCount:      len(records),
		ManualAdjustment: manualAdjustment,
	}

	sent, received, commission := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range records {
		switch r.Direction {
		case models.DirectionSent:
			sent = sent.Add(decimal.NewFromInt(r.Amount))
		case models.DirectionReceived:
			received = received.Add(decimal.NewFromInt(r.Amount))
		}
		commission = commission.Add(decimal.NewFromInt(r.Commission))
	}
	cash := sent.Sub(received).Add(decimal.NewFromInt(manualAdjustment))

	totals := []struct {
		name  string
		value decimal.Decimal
		dst   *int64
	}{
		{"total sent", sent, &summary.TotalSent},
		{"total received", received, &summary.TotalReceived},
		{"total commission", commission, &summary.TotalCommission},
		{"cash in hand", cash, &summary.CashInHand},
	}
	for _, t := range totals {
		v, err := currencyutils.ToAmount(t.value)
		if err != nil {
			a.logger.WithError(err).Error("Aggregate total out of range",
				logging.F(logging.FieldField, t.name),
				logging.F(logging.FieldCount, len(records)))
			return models.AggregateSummary{}, fmt.Errorf("%s: %w", t.name, err)
		}
		*t.dst = v
	}

	summary.Balances = a.latestBalances(records)

	a.logger.Info("Aggregated records",
		logging.F(logging.FieldCount, summary.RecordCount),
		logging.F("total_sent", summary.TotalSent),
		logging.F("total_received", summary.TotalReceived),
		logging.F("cash_in_hand", summary.CashInHand))

	return summary, nil
}

// latestBalances keeps the timestamped records, orders them and takes the
// remaining balance of the last record of each known operator.
func (a *Aggregator) latestBalances(records []models.TransactionRecord) []models.OperatorBalance {
	dated := make([]models.TransactionRecord, 0, len(records))
	for _, r := range records {
		if r.HasDatetime() {
			dated = append(dated, r)
		}
	}

	if a.chronological {
		dated = a.sortChronologically(dated)
	} else {
		sort.SliceStable(dated, func(i, j int) bool {
			return dated[i].Datetime < dated[j].Datetime
		})
	}

	latest := make(map[models.Operator]int64, len(models.KnownOperators))
	for _, r := range dated {
		latest[r.Operator] = r.RemainingBalance
	}

	balances := make([]models.OperatorBalance, 0, len(models.KnownOperators))
	for _, op := range models.KnownOperators {
		bal, ok := latest[op]
		if !ok {
			a.logger.Debug("No dated record for operator", logging.F(logging.FieldOperator, string(op)))
		}
		balances = append(balances, models.OperatorBalance{
			Operator: op,
			Balance:  bal,
			HasData:  ok,
		})
	}
	return balances
}

type timedRecord struct {
	record models.TransactionRecord
	at     time.Time
	valid  bool
}

// sortChronologically orders records by parsed timestamp. Records whose
// timestamp does not parse come first, in input order.
func (a *Aggregator) sortChronologically(records []models.TransactionRecord) []models.TransactionRecord {
	timed := make([]timedRecord, len(records))
	for i, r := range records {
		at, err := dateutils.ParseMessageTime(r.Datetime)
		if err != nil {
			a.logger.WithError(err).Warn("Unparsable datetime ordered before dated records",
				logging.F(logging.FieldSource, r.Source),
				logging.F(logging.FieldLine, r.Line),
				logging.F(logging.FieldValue, r.Datetime))
		}
		timed[i] = timedRecord{record: r, at: at, valid: err == nil}
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].valid != timed[j].valid {
			return !timed[i].valid
		}
		return dateutils.CompareTimes(timed[i].at, timed[j].at) < 0
	})

	out := make([]models.TransactionRecord, len(timed))
	for i, t := range timed {
		out[i] = t.record
	}
	return out
}
