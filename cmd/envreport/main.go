package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/envreport/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:   "envreport",
		Short: "Generate environmental monitoring reports",
		Long: `envreport renders Word monitoring reports from a session file, the
report constants and the section template they point at.

Configuration is read from the environment (and a .env file); flags
override it.`,
		SilenceUsage: true,
	}

	constantsPath string
	chartBackend  string
	outputDir     string
	verbose       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&constantsPath, "constants", "", "Path to the constants file (default: CONSTANTS_PATH)")
	rootCmd.PersistentFlags().StringVar(&chartBackend, "chart-backend", "", "Chart renderer: plot or analyze (default: CHART_BACKEND)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for generated files (default: constants output_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(outlineCmd)
}

// loadConfig applies flag overrides on top of the environment.
func loadConfig() config.Config {
	cfg := config.Load()
	if constantsPath != "" {
		cfg.ConstantsPath = constantsPath
	}
	if chartBackend != "" {
		cfg.ChartBackend = chartBackend
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	return cfg
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
