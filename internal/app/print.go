package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kurochkinivan/receipt_reporter/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func banner(out io.Writer, title string) {
	line := strings.Repeat("=", 50)
	fmt.Fprintln(out)
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, titleStyle.Render(title))
	fmt.Fprintln(out, line)
}

func field(out io.Writer, label string, value any) {
	fmt.Fprintf(out, "%s %v\n", labelStyle.Render(label+":"), value)
}

func printExtractResult(out io.Writer, r *ExtractResult, workers int) {
	s := r.Summary

	banner(out, "EXTRACTION COMPLETE")
	field(out, "Total files processed", s.Total)
	field(out, "Successfully extracted", s.Succeeded)
	field(out, "Failed", s.Failed)
	field(out, "Model used", s.Model)
	field(out, "Parallel workers", workers)
	field(out, "Total time", fmt.Sprintf("%.1fs", s.Elapsed.Seconds()))
	field(out, "Average per file", fmt.Sprintf("%.1fs", s.Average.Seconds()))

	fmt.Fprintln(out, "\nOutput files:")
	fmt.Fprintf(out, "  Run data: %s\n", r.ArtifactPath)
	for _, p := range r.ReportPaths {
		fmt.Fprintf(out, "  Report: %s\n", p)
	}
	fmt.Fprintf(out, "  LLM logs: %s\n", r.AuditDir)

	if s.Failed > 0 {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("\n%d files failed to process:", s.Failed)))
		for _, o := range s.FailedOutcomes() {
			fmt.Fprintf(out, "  - %s (%s after %d attempts)\n", o.File.Name, o.Error.Kind, o.Attempts)
		}
	}
}

func printConsolidationSummary(out io.Writer, s *report.ConsolidationSummary, outputDir string) {
	banner(out, "CONSOLIDATION COMPLETE")
	field(out, "Total receipts", s.TotalReceipts)
	field(out, "Total amount", fmt.Sprintf("₪%.2f", s.TotalAmount))
	field(out, "Processing time", fmt.Sprintf("%.1f seconds", s.ProcessingSeconds))

	if s.CSVFile != "" {
		fmt.Fprintf(out, "\nGenerated file: %s\n", s.CSVFile)
	}

	if len(s.CategoryBreakdown) > 0 {
		fmt.Fprintln(out, "\nCategory breakdown:")
		categories := make([]string, 0, len(s.CategoryBreakdown))
		for c := range s.CategoryBreakdown {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Fprintf(out, "  %s: %d receipts\n", c, s.CategoryBreakdown[c])
		}
	}

	if len(s.Errors) > 0 {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("\nErrors encountered: %d", len(s.Errors))))
		for _, e := range s.Errors {
			fmt.Fprintf(out, "  - %s: %s\n", e.File, e.Error)
		}
	}

	fmt.Fprintf(out, "\nOutput directory: %s\n", outputDir)
	if s.SummaryFile != "" {
		fmt.Fprintf(out, "Summary saved to: %s\n", s.SummaryFile)
	}
}

func printClassifyResult(out io.Writer, r *ClassifyResult) {
	s := r.Summary

	banner(out, "CLASSIFICATION COMPLETE")
	field(out, "Receipts classified", s.TotalReceipts)
	field(out, "Business expenses", fmt.Sprintf("₪%.2f", s.BusinessTotal))
	field(out, "Personal expenses", fmt.Sprintf("₪%.2f", s.PersonalTotal))
	field(out, "Mixed expenses", fmt.Sprintf("₪%.2f", s.MixedTotal))
	field(out, "Total VAT", fmt.Sprintf("₪%.2f", s.TotalVAT))

	if len(s.ByCategory) > 0 {
		fmt.Fprintln(out, "\nBy category:")
		keys := make([]string, 0, len(s.ByCategory))
		for k := range s.ByCategory {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			c := s.ByCategory[k]
			fmt.Fprintf(out, "  %s: %d receipts, ₪%.2f\n", c.Label, c.Count, c.Amount)
		}
	}

	if s.RequiresClarification > 0 {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("\n%d receipts need clarification, see %s", s.RequiresClarification, r.Paths.TaxCSV)))
	}

	fmt.Fprintln(out, "\nOutput files:")
	fmt.Fprintf(out, "  Classified receipts: %s\n", r.Paths.Receipts)
	fmt.Fprintf(out, "  Summary: %s\n", r.Paths.Summary)
	fmt.Fprintf(out, "  Tax report: %s\n", r.Paths.TaxCSV)

	if len(r.Failed) > 0 {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("\n%d receipts failed to classify:", len(r.Failed))))
		for _, o := range r.Failed {
			fmt.Fprintf(out, "  - %s (%s after %d attempts)\n", o.File.Name, o.Error.Kind, o.Attempts)
		}
	}
}
