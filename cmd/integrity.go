package cmd

import (
	"context"

	"content-planner/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check storage folders and database schema",
	Long:  `Checks that the storage bucket has the archive folders and that the database tables match the application models.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the bucket folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// serverCmd represents the integrity server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Check the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, serverCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing folders")
}

func runIntegrityChecks(ctx context.Context, runStructure, runServer bool) error {
	rt, err := loadSession()
	if err != nil {
		return err
	}
	logg := rt.log

	if runServer {
		if err := rt.connect(); err != nil {
			logg.Warn("Database connection failed", zap.Error(err))
		} else {
			logg = rt.log
		}
	}

	svc := integrity.NewService(rt.client, rt.cfg.Storage.Bucket, rt.archiveFolders(), logg, rt.db)

	if runStructure {
		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return err
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))

			if fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return err
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run 'integrity structure --fix' to create missing folders.")
			}
		}
	}

	if runServer && rt.db != nil {
		logg.Info("Checking database schema...")
		report, err := svc.CheckServer()
		if err != nil {
			return err
		}
		if report.Matched {
			logg.Info("Database schema matches the models.", zap.String("driver", report.Driver))
			return nil
		}

		logg.Warn("Database schema mismatches found", zap.String("driver", report.Driver))
		for table, tblReport := range report.Tables {
			if tblReport.Status == "ok" {
				continue
			}
			if len(tblReport.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
			}
			if len(tblReport.TypeMismatches) > 0 {
				logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
	}
	return nil
}
