// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/miamala/internal/config"
	"fjacquet/miamala/internal/container"
	"fjacquet/miamala/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Inputs       []string
	Output       string
	ConfigFile   string
	LogLevel     string
	LogFormat    string
	CSVDelimiter string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is loaded by PersistentPreRunE
	AppConfig *config.Config

	// AppContainer is wired by PersistentPreRunE
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "miamala",
		Short: "Parse mobile-money SMS notifications and summarise an agent's float.",
		Long: `miamala reads Swahili mobile-money notification messages (M-Pesa, Tigo Pesa,
Airtel Money, Halopesa, T-Pesa), one message per line, and turns them into
transaction records. It exports the records to CSV and computes the agent's
cash in hand, commissions and latest balance per operator.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to miamala!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}

	// SharedFlags holds the values of the persistent flags
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	pf := Cmd.PersistentFlags()
	pf.StringSliceVarP(&SharedFlags.Inputs, "input", "i", nil, "Input message file or directory of .txt files (repeatable, - for stdin)")
	pf.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
	pf.StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.miamala, .miamala or .)")
	pf.StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
	pf.StringVar(&SharedFlags.CSVDelimiter, "csv-delimiter", "", "CSV delimiter, a single character")
}

// Setup loads the configuration, applies flag overrides and wires the
// container.
func Setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// applyFlagOverrides copies explicitly set persistent flags over the loaded
// configuration. Flags left at their zero value keep the configured value.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if SharedFlags.CSVDelimiter != "" {
		cfg.CSV.Delimiter = SharedFlags.CSVDelimiter
	}
	if cmd != nil {
		Log.Debug("Configuration loaded", logging.F("command", cmd.Name()))
	}
}

// GetContainer returns the application container, nil before Setup ran.
func GetContainer() *container.Container {
	return AppContainer
}
