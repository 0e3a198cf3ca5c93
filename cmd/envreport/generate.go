package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dgallion1/envreport/internal/docsink"
	"github.com/dgallion1/envreport/internal/parser"
	"github.com/dgallion1/envreport/internal/report"
	"github.com/dgallion1/envreport/internal/session"
	"github.com/dgallion1/envreport/internal/workbook"
)

var (
	sessionPath string
	airPath     string
	noisePath   string
	exportData  bool
	dryRun      bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render a monitoring report from a session file",
	Long: `Render a monitoring report from a YAML or JSON session file.

Readings can also be imported from CSV or XLSX files whose first row is a
header; columns are matched by name. With --dry-run the report is rendered
in memory and only the warnings are printed.`,
	Example: `  envreport generate --session weekly.yaml
  envreport generate --session weekly.yaml --air air.xlsx --noise noise.csv --export-data`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&sessionPath, "session", "s", "", "Session file (YAML or JSON)")
	generateCmd.Flags().StringVar(&airPath, "air", "", "Air quality readings (.csv or .xlsx)")
	generateCmd.Flags().StringVar(&noisePath, "noise", "", "Noise readings (.csv or .xlsx)")
	generateCmd.Flags().BoolVar(&exportData, "export-data", false, "Also write the collected data workbook")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render without writing any files")
	_ = generateCmd.MarkFlagRequired("session")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := loadConfig()

	s, err := session.Load(sessionPath)
	if err != nil {
		return err
	}
	if err := importReadings(airPath, s.ImportAir); err != nil {
		return err
	}
	if err := importReadings(noisePath, s.ImportNoise); err != nil {
		return err
	}

	gen, consts, err := report.Load(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req := report.Request{
		ReportType:   s.ReportType,
		Placeholders: s.Placeholders(consts.ConsultancyName),
	}
	out := cmd.OutOrStdout()

	var res *report.Result
	if dryRun {
		res, err = gen.Render(ctx, &docsink.Recorder{}, req)
	} else {
		res, err = gen.Generate(ctx, req)
	}
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	fmt.Fprintf(out, "sections: %d of %d, tables: %d, figures: %d, charts: %d\n",
		res.Rendered, res.Sections, res.Tables, res.Figures, res.Charts)
	if dryRun {
		return nil
	}
	fmt.Fprintf(out, "report: %s\n", res.Path)

	if exportData {
		path := workbook.Path(consts.OutputDir, s.ReportFrequency)
		if err := workbook.Export(s, path); err != nil {
			return fmt.Errorf("export data: %w", err)
		}
		fmt.Fprintf(out, "data: %s\n", path)
	}
	return nil
}

func importReadings(path string, apply func([][]string) error) error {
	if path == "" {
		return nil
	}
	table, err := parser.ReadReadings(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return apply(table)
}
