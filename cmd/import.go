package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"content-planner/core/reconcile"
	"content-planner/feature/performance"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import a performance CSV into the calendar",
	Long: `Matches every row of a platform performance export to a calendar entry, by
entry_id or by date and platform, and merges its metric columns.

Without --yes the import is previewed first and applied only after confirmation.
Use --object to read the CSV from the storage bucket instead of a local file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objectKey, _ := cmd.Flags().GetString("object")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		assumeYes, _ := cmd.Flags().GetBool("yes")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		if (len(args) == 0) == (objectKey == "") {
			return fmt.Errorf("provide either a file argument or --object")
		}

		rt, err := loadSession()
		if err != nil {
			return err
		}
		if err := rt.connect(); err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}
		svc, err := rt.importService()
		if err != nil {
			return err
		}

		run := func(opts performance.ImportOptions) (*performance.ImportReport, error) {
			if objectKey != "" {
				return svc.ImportObject(cmd.Context(), objectKey, opts)
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			return svc.Import(cmd.Context(), args[0], data, opts)
		}

		if !dryRun && !assumeYes {
			preview, err := run(performance.ImportOptions{DryRun: true})
			if err != nil {
				return err
			}
			logReport(rt.log, preview, rt.cfg.Import.MaxIssuesShown)
			if preview.Summary.Matched == 0 {
				rt.log.Warn("Nothing to apply")
				return nil
			}
			prompt := fmt.Sprintf("Apply %d rows to %d entries?", preview.Summary.Matched, preview.Summary.UpdatedEntryCount)
			if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
				rt.log.Info("Import cancelled")
				return nil
			}
		}

		report, err := run(performance.ImportOptions{DryRun: dryRun})
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		logReport(rt.log, report, rt.cfg.Import.MaxIssuesShown)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(importCmd)
	importCmd.Flags().String("object", "", "Read the CSV from this object key in the storage bucket")
	importCmd.Flags().Bool("dry-run", false, "Resolve rows without saving")
	importCmd.Flags().BoolP("yes", "y", false, "Apply without asking for confirmation")
	importCmd.Flags().Bool("json", false, "Print the full report as JSON")
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func logReport(l *zap.Logger, report *performance.ImportReport, maxIssues int) {
	s := report.Summary
	l.Info("Import summary",
		zap.String("run_id", report.RunID),
		zap.String("source", report.Source),
		zap.Bool("dry_run", report.DryRun),
		zap.Bool("applied", report.Applied),
		zap.Int("rows", s.TotalRows),
		zap.Int("matched", s.Matched),
		zap.Int("updated_entries", s.UpdatedEntryCount),
		zap.Int("missing", len(s.Missing)),
		zap.Int("ambiguous", len(s.Ambiguous)),
		zap.Int("errors", len(s.Errors)),
	)
	if report.ArchiveKey != "" {
		l.Info("Upload archived", zap.String("object", report.ArchiveKey), zap.String("report", report.ReportKey))
	}

	logIssues(l, "Missing", s.Missing, maxIssues)
	logIssues(l, "Ambiguous", s.Ambiguous, maxIssues)
	logIssues(l, "Error", s.Errors, maxIssues)
}

func logIssues(l *zap.Logger, kind string, issues []reconcile.Issue, maxIssues int) {
	for i, issue := range issues {
		if maxIssues > 0 && i == maxIssues {
			l.Warn(kind+" rows truncated", zap.Int("more", len(issues)-maxIssues))
			return
		}
		l.Warn(kind, zap.Int("row", issue.RowNumber), zap.String("reason", issue.Reason))
	}
}
