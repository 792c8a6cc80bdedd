package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MarijnSt/soccermatics-project-1/internal/config"
	"github.com/MarijnSt/soccermatics-project-1/internal/logger"
)

var (
	dbPath      string
	configPath  string
	logLevel    string
	metricsFile string

	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "soccermetrics",
	Short: "StatsBomb playing time and danger dribble metrics",
	Long: `Ingest StatsBomb-format event data, compute period clocks, player playing time
and danger dribbles per match, and aggregate them into a season table.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaults := config.New()
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaults.DBPath, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $SOCCERMETRICS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaults.LogLevel, "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after ingest")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(dribblesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig layers defaults, config file and env, then lets explicitly set
// flags win. It also builds the process logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("metrics-file") {
		c.MetricsFile = metricsFile
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logger.New(os.Stderr, c.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	cfg, log = c, l
	dbPath, metricsFile = c.DBPath, c.MetricsFile
	return nil
}
