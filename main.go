package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/miamala/cmd/parse"
	"fjacquet/miamala/cmd/root"
	"fjacquet/miamala/cmd/summary"
	"fjacquet/miamala/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// .env is loaded before anything logs so MIAMALA_LOG_LEVEL applies from
	// the first line.
	_, _ = config.LoadEnv()

	logrus.SetLevel(logLevelFromEnv())

	root.Init()

	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
}

// logLevelFromEnv reads MIAMALA_LOG_LEVEL, defaulting to info.
func logLevelFromEnv() logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "info")))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
