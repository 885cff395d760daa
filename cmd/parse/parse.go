// Package parse implements the command that exports parsed messages to CSV.
package parse

import (
	"io"

	"fjacquet/miamala/cmd/common"
	"fjacquet/miamala/cmd/root"
	"fjacquet/miamala/internal/container"
	"fjacquet/miamala/internal/filter"
	"fjacquet/miamala/internal/logging"

	"github.com/spf13/cobra"
)

var filterFlags common.FilterFlags

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse message files and export the records to CSV",
	Long: `Parse one or more message files (one SMS per line) and write one CSV row
per message, in input order. Unrecognised messages are kept with default
values so that every input line can be traced.`,
	Example: `  miamala parse -i mpesa.txt -i tigo.txt -o miamala.csv
  miamala parse -i inbox/ --type Deposit --min-amount 1000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(root.GetContainer(), root.SharedFlags.Inputs, root.SharedFlags.Output, filterFlags, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	filterFlags.Register(Cmd)
}

// Run reads inputs, applies the filters and writes the records as CSV to
// output, or to stdout when output is empty.
func Run(c *container.Container, inputs []string, output string, flags common.FilterFlags, stdin io.Reader, stdout io.Writer) error {
	log := c.GetLogger()

	criteria, err := flags.Criteria()
	if err != nil {
		return err
	}

	loaded, err := common.LoadRecords(c.GetSourceReader(), c.GetParser(), inputs, stdin, log)
	if err != nil {
		return err
	}
	records := loaded.Records
	if !criteria.IsEmpty() {
		records = filter.Apply(records, criteria)
	}

	writer := c.GetCSVWriter()
	if output != "" {
		if err := writer.WriteFile(records, output); err != nil {
			return err
		}
	} else if err := writer.Write(records, stdout); err != nil {
		return err
	}

	log.Info("Parse completed",
		logging.F(logging.FieldCount, len(records)),
		logging.F(logging.FieldWarnings, len(loaded.Warnings)),
		logging.F(logging.FieldOutputFile, outputName(output)))
	return nil
}

func outputName(output string) string {
	if output == "" {
		return "stdout"
	}
	return output
}
