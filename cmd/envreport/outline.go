package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/envreport/internal/docsink"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <report.docx>",
	Short: "Print the heading outline of a generated report",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func runOutline(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	entries, err := docsink.Outline(f, info.Size())
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		indent := strings.Repeat("  ", max(e.Level-1, 0))
		fmt.Fprintf(out, "%s%s\n", indent, e.Text)
	}
	return nil
}
