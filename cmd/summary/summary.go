// Package summary implements the command that reports an agent's totals,
// cash in hand and latest balance per operator.
package summary

import (
	"io"

	"fjacquet/miamala/cmd/common"
	"fjacquet/miamala/cmd/root"
	appcommon "fjacquet/miamala/internal/common"
	"fjacquet/miamala/internal/container"
	"fjacquet/miamala/internal/filter"
	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/models"
	"fjacquet/miamala/internal/report"

	"github.com/spf13/cobra"
)

// Options configure a summary run.
type Options struct {
	Inputs  []string
	Output  string
	FromCSV string
	// TopUp is the cash the agent added from outside the wallets. Nil
	// selects aggregate.manual_adjustment from the configuration.
	TopUp  *int64
	Format string
	Filter common.FilterFlags
}

var (
	filterFlags common.FilterFlags
	topUp       int64
	format      string
	fromCSV     string
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise cash in hand, commissions and balances",
	Long: `Parse message files and report the totals sent and received, the total
commission, the cash in hand (sent - received + top-up) and the latest
remaining balance of every operator. Operators without a dated message are
reported as "Hakuna data".`,
	Example: `  miamala summary -i mpesa.txt --topup 5000
  miamala summary -i inbox/ --counterparty "John Doe" --format json
  miamala summary --from-csv miamala.csv --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := Options{
			Inputs:  root.SharedFlags.Inputs,
			Output:  root.SharedFlags.Output,
			FromCSV: fromCSV,
			Format:  format,
			Filter:  filterFlags,
		}
		if cmd.Flags().Changed("topup") {
			opts.TopUp = &topUp
		}
		return Run(root.GetContainer(), opts, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	filterFlags.Register(Cmd)
	Cmd.Flags().Int64Var(&topUp, "topup", 0, "Cash added by the agent, in Tsh (default from aggregate.manual_adjustment)")
	Cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatText), "Output format: text, json, yaml or xml")
	Cmd.Flags().StringVar(&fromCSV, "from-csv", "", "Summarise a CSV file written by the parse command instead of message files")
}

// Run loads the records, filters them, aggregates them and writes the
// report.
func Run(c *container.Container, opts Options, stdin io.Reader, stdout io.Writer) error {
	log := c.GetLogger()

	reportFormat, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	criteria, err := opts.Filter.Criteria()
	if err != nil {
		return err
	}

	adjustment := c.GetConfig().Aggregate.ManualAdjustment
	if opts.TopUp != nil {
		adjustment = *opts.TopUp
	}

	var records []models.TransactionRecord
	warnings := 0
	if opts.FromCSV != "" {
		records, err = appcommon.ReadRecordsFile(opts.FromCSV, c.GetConfig().DelimiterRune(), c.GetConfig().CSV.IncludeHeaders, log)
		if err != nil {
			return err
		}
	} else {
		loaded, err := common.LoadRecords(c.GetSourceReader(), c.GetParser(), opts.Inputs, stdin, log)
		if err != nil {
			return err
		}
		records = loaded.Records
		warnings = len(loaded.Warnings)
	}

	counterparties := filter.Counterparties(records)
	if !criteria.IsEmpty() {
		before := len(records)
		records = filter.Apply(records, criteria)
		log.Info("Filtered records",
			logging.F("before", before),
			logging.F(logging.FieldCount, len(records)))
	}

	summary, err := c.GetAggregator().Aggregate(records, adjustment)
	if err != nil {
		return err
	}
	summary.Counterparties = counterparties

	out, err := c.GetReportGenerator().Generate(summary, warnings, reportFormat)
	if err != nil {
		return err
	}

	log.Debug("Writing summary",
		logging.F(logging.FieldFormat, string(reportFormat)),
		logging.F(logging.FieldCount, summary.RecordCount))

	return common.WriteOutput(opts.Output, stdout, func(w io.Writer) error {
		_, err := w.Write(out)
		return err
	})
}
