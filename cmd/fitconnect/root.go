package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	jsonLogs bool

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fitconnect",
	Short: "A sync tool for various fitness apps",
	Long: `fitconnect pulls the latest weight measurement from Withings and can
push it to Strava or report Strava athlete data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger()
	},
}

// newLogger builds the process logger from the persistent flags.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var l zerolog.Logger
	if jsonLogs {
		l = zerolog.New(os.Stderr)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return l.Level(level).With().Timestamp().Logger()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log as JSON instead of console output")
}
