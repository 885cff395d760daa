package parser

import (
	"fmt"

	"fjacquet/miamala/internal/classify"
	"fjacquet/miamala/internal/extract"
	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/source"
)

// Field names of the classified labels, alongside the extract.Field* names.
const (
	FieldDirection       = "direction"
	FieldOperator        = "operator"
	FieldTransactionType = "transaction_type"
)

// fieldStep fills one record field from the message.
type fieldStep struct {
	field string
	apply func(msg string, rec *models.TransactionRecord) error
}

func stringStep(field string, fn func(string) string, set func(*models.TransactionRecord, string)) fieldStep {
	return fieldStep{field: field, apply: func(msg string, rec *models.TransactionRecord) error {
		set(rec, fn(msg))
		return nil
	}}
}

func digitStep(field string, fn func(string) (int64, error), set func(*models.TransactionRecord, int64)) fieldStep {
	return fieldStep{field: field, apply: func(msg string, rec *models.TransactionRecord) error {
		v, err := fn(msg)
		set(rec, v)
		return err
	}}
}

// defaultSteps run in order. The transaction type step reads the direction
// set by an earlier step.
func defaultSteps() []fieldStep {
	return []fieldStep{
		{field: FieldDirection, apply: func(msg string, rec *models.TransactionRecord) error {
			rec.Direction = classify.Direction(msg)
			return nil
		}},
		stringStep(extract.FieldTransactionID, extract.TransactionID,
			func(r *models.TransactionRecord, v string) { r.TransactionID = v }),
		digitStep(extract.FieldAmount, extract.Amount,
			func(r *models.TransactionRecord, v int64) { r.Amount = v }),
		stringStep(extract.FieldCounterparty, extract.Counterparty,
			func(r *models.TransactionRecord, v string) { r.Counterparty = v }),
		stringStep(extract.FieldPhone, extract.Phone,
			func(r *models.TransactionRecord, v string) { r.Phone = v }),
		digitStep(extract.FieldCommission, extract.Commission,
			func(r *models.TransactionRecord, v int64) { r.Commission = v }),
		digitStep(extract.FieldFee, extract.Fee,
			func(r *models.TransactionRecord, v int64) { r.Fee = v }),
		digitStep(extract.FieldGovtFee, extract.GovtFee,
			func(r *models.TransactionRecord, v int64) { r.GovtFee = v }),
		stringStep(extract.FieldDatetime, extract.Datetime,
			func(r *models.TransactionRecord, v string) { r.Datetime = v }),
		digitStep(extract.FieldRemainingBalance, extract.RemainingBalance,
			func(r *models.TransactionRecord, v int64) { r.RemainingBalance = v }),
		{field: FieldOperator, apply: func(msg string, rec *models.TransactionRecord) error {
			rec.Operator = classify.Operator(msg)
			return nil
		}},
		{field: FieldTransactionType, apply: func(msg string, rec *models.TransactionRecord) error {
			rec.TransactionType = classify.TransactionType(msg, rec.Direction)
			return nil
		}},
	}
}

// Parser builds transaction records from Swahili mobile-money notifications.
// It is stateless apart from its logger and safe for concurrent use.
type Parser struct {
	BaseParser
	steps []fieldStep
}

// NewParser creates a Parser logging through logger.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{
		BaseParser: NewBaseParser(logger),
		steps:      defaultSteps(),
	}
}

// BuildRecord runs every extractor and classifier on line. Fields whose
// marker is absent keep their default silently. Fields that match but
// cannot be converted keep their default and produce a warning. The
// returned warnings have Line 0 and no Source.
func (p *Parser) BuildRecord(line string) (models.TransactionRecord, []Warning) {
	return p.buildRecord(line, 0, "")
}

func (p *Parser) buildRecord(line string, pos int, src string) (models.TransactionRecord, []Warning) {
	rec := models.NewTransactionRecord()
	rec.Line = pos
	rec.Source = src

	var warnings []Warning
	for _, step := range p.steps {
		if err := runStep(step, line, &rec); err != nil {
			w := Warning{
				Line:    pos,
				Source:  src,
				Text:    line,
				Field:   step.field,
				Message: fmt.Sprintf("%s could not be parsed", step.field),
				Err:     err,
			}
			p.logger.WithError(err).Warn("Message field could not be parsed",
				logging.F(logging.FieldSource, src),
				logging.F(logging.FieldLine, pos),
				logging.F(logging.FieldField, step.field))
			warnings = append(warnings, w)
		}
	}
	return rec, warnings
}

// runStep applies one step on a scratch copy so a failing step leaves the
// record's field at its default.
func runStep(step fieldStep, line string, rec *models.TransactionRecord) (err error) {
	scratch := *rec
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while extracting %s: %v", step.field, r)
		}
	}()
	if err = step.apply(line, &scratch); err != nil {
		return err
	}
	*rec = scratch
	return nil
}

// ParseBatch parses lines in order. The result holds exactly one record per
// line, blank and unrecognised lines included.
func (p *Parser) ParseBatch(lines []string) Result {
	res := Result{Records: make([]models.TransactionRecord, 0, len(lines))}
	p.parseInto(&res, "", lines)
	p.logger.Info("Parsed message batch",
		logging.F(logging.FieldCount, len(res.Records)),
		logging.F(logging.FieldWarnings, len(res.Warnings)))
	return res
}

// ParseSources parses several documents into a single batch. Documents are
// concatenated in the given order and every record is tagged with the name
// of its document and its line within it.
func (p *Parser) ParseSources(docs []source.Document) Result {
	total := 0
	for _, d := range docs {
		total += len(d.Lines)
	}
	res := Result{Records: make([]models.TransactionRecord, 0, total)}
	for _, d := range docs {
		p.parseInto(&res, d.Name, d.Lines)
	}
	p.logger.Info("Parsed message sources",
		logging.F("sources", len(docs)),
		logging.F(logging.FieldCount, len(res.Records)),
		logging.F(logging.FieldWarnings, len(res.Warnings)))
	return res
}

func (p *Parser) parseInto(res *Result, src string, lines []string) {
	for i, line := range lines {
		rec, warnings := p.buildRecord(line, i+1, src)
		res.Records = append(res.Records, rec)
		res.Warnings = append(res.Warnings, warnings...)
	}
}
