// Package container wires the application's collaborators from the
// configuration so that commands receive them ready to use.
package container

import (
	"fmt"

	"fjacquet/miamala/internal/aggregate"
	"fjacquet/miamala/internal/common"
	"fjacquet/miamala/internal/config"
	"fjacquet/miamala/internal/logging"
	"fjacquet/miamala/internal/parser"
	"fjacquet/miamala/internal/report"
	"fjacquet/miamala/internal/source"
)

// Container holds all application dependencies. It is immutable after
// creation; collaborators are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	reader     *source.Reader
	parser     *parser.Parser
	aggregator *aggregate.Aggregator
	csvWriter  *common.CSVWriter
	reports    *report.Generator
}

// NewContainer creates and wires all application dependencies, logging
// through a logrus logger configured from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	c := &Container{
		logger:     logger,
		config:     cfg,
		reader:     source.NewReader(logger, cfg.Input.MaxLineBytes),
		parser:     parser.NewParser(logger),
		aggregator: aggregate.NewAggregator(logger, cfg.Aggregate.ChronologicalBalances),
		csvWriter:  common.NewCSVWriter(logger, cfg.DelimiterRune(), cfg.CSV.IncludeHeaders),
		reports:    report.NewGenerator(logger),
	}

	logger.Debug("Container initialized",
		logging.F(logging.FieldDelimiter, string(cfg.DelimiterRune())),
		logging.F("chronological_balances", cfg.Aggregate.ChronologicalBalances))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetSourceReader returns the reader for message files.
func (c *Container) GetSourceReader() *source.Reader {
	return c.reader
}

// GetParser returns the message parser.
func (c *Container) GetParser() *parser.Parser {
	return c.parser
}

// GetAggregator returns the aggregator.
func (c *Container) GetAggregator() *aggregate.Aggregator {
	return c.aggregator
}

// GetCSVWriter returns the record exporter.
func (c *Container) GetCSVWriter() *common.CSVWriter {
	return c.csvWriter
}

// GetReportGenerator returns the summary renderer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close releases container resources. Nothing currently needs releasing.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
