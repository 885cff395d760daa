// Package report renders an aggregate summary for people or other tools.
package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"fjacquet/miamala/internal/currencyutils"
	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/models"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatXML}

// ParseFormat resolves a format name, ignoring case. "yml" is accepted for
// YAML.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "yml" {
		return FormatYAML, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported report format: %s", s)
}

// Summary is the serialised form of models.AggregateSummary.
type Summary struct {
	XMLName          xml.Name       `json:"-" yaml:"-" xml:"summary"`
	RecordCount      int            `json:"record_count" yaml:"record_count" xml:"record_count"`
	Warnings         int            `json:"warnings" yaml:"warnings" xml:"warnings"`
	TotalSent        int64          `json:"total_sent" yaml:"total_sent" xml:"total_sent"`
	TotalReceived    int64          `json:"total_received" yaml:"total_received" xml:"total_received"`
	TotalCommission  int64          `json:"total_commission" yaml:"total_commission" xml:"total_commission"`
	ManualAdjustment int64          `json:"manual_adjustment" yaml:"manual_adjustment" xml:"manual_adjustment"`
	CashInHand       int64          `json:"cash_in_hand" yaml:"cash_in_hand" xml:"cash_in_hand"`
	Balances         []BalanceEntry `json:"balances" yaml:"balances" xml:"balances>balance"`
	Counterparties   []string       `json:"counterparties" yaml:"counterparties" xml:"counterparties>counterparty"`
}

// BalanceEntry is one operator's latest balance. Balance is nil when the
// operator has no timestamped record.
type BalanceEntry struct {
	Operator string `json:"operator" yaml:"operator" xml:"operator,attr"`
	Balance  *int64 `json:"balance" yaml:"balance" xml:"amount,omitempty"`
	Display  string `json:"display" yaml:"display" xml:"display"`
}

// NewSummary converts an aggregate summary. warnings is the number of
// parse warnings behind it.
func NewSummary(s models.AggregateSummary, warnings int) Summary {
	out := Summary{
		RecordCount:      s.RecordCount,
		Warnings:         warnings,
		TotalSent:        s.TotalSent,
		TotalReceived:    s.TotalReceived,
		TotalCommission:  s.TotalCommission,
		ManualAdjustment: s.ManualAdjustment,
		CashInHand:       s.CashInHand,
		Balances:         make([]BalanceEntry, 0, len(s.Balances)),
		Counterparties:   append([]string{}, s.Counterparties...),
	}
	for _, b := range s.Balances {
		entry := BalanceEntry{Operator: string(b.Operator), Display: models.NoDataLabel}
		if b.HasData {
			bal := b.Balance
			entry.Balance = &bal
			entry.Display = currencyutils.FormatTsh(bal)
		}
		out.Balances = append(out.Balances, entry)
	}
	return out
}

// Generator renders summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Generator{logger: logger.WithField("component", "ReportGenerator")}
}

// Generate renders summary in the given format.
func (g *Generator) Generate(summary models.AggregateSummary, warnings int, format Format) ([]byte, error) {
	doc := NewSummary(summary, warnings)
	switch format {
	case FormatText:
		return []byte(renderText(doc)), nil
	case FormatJSON:
		return g.generateJSON(doc)
	case FormatYAML:
		return g.generateYAML(doc)
	case FormatXML:
		return g.generateXML(doc)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(doc Summary) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(doc Summary) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

func (g *Generator) generateXML(doc Summary) ([]byte, error) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal XML report")
		return nil, fmt.Errorf("failed to marshal XML report: %w", err)
	}
	return []byte(xml.Header + string(out) + "\n"), nil
}

// renderText lays the summary out with the Swahili labels agents know.
func renderText(doc Summary) string {
	var b strings.Builder
	b.WriteString("Muhtasari wa Miamala\n")
	fmt.Fprintf(&b, "Idadi ya miamala: %d\n", doc.RecordCount)
	if doc.Warnings > 0 {
		fmt.Fprintf(&b, "Ujumbe wenye hitilafu: %d\n", doc.Warnings)
	}
	fmt.Fprintf(&b, "Jumla iliyotumwa: %s\n", currencyutils.FormatTsh(doc.TotalSent))
	fmt.Fprintf(&b, "Jumla iliyopokelewa: %s\n", currencyutils.FormatTsh(doc.TotalReceived))
	fmt.Fprintf(&b, "Fedha ya ziada: %s\n", currencyutils.FormatTsh(doc.ManualAdjustment))
	fmt.Fprintf(&b, "Cash in Hand: %s\n", currencyutils.FormatTsh(doc.CashInHand))
	fmt.Fprintf(&b, "Jumla ya Kamisheni: %s\n", currencyutils.FormatTsh(doc.TotalCommission))
	b.WriteString("Salio kwa Kila Mtandao:\n")
	for _, e := range doc.Balances {
		fmt.Fprintf(&b, "- %s: %s\n", e.Operator, e.Display)
	}
	if len(doc.Counterparties) > 0 {
		b.WriteString("Wahusika:\n")
		for _, name := range doc.Counterparties {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	return b.String()
}
