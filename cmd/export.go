package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file.csv]",
	Short: "Export stored metrics as an importable CSV",
	Long:  `Writes one row per entry and scheduled platform with every imported metric. Writes to stdout when no file is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], err)
			}
			defer f.Close()
			w = f
		}

		if err := svc.Export(cmd.Context(), w); err != nil {
			return err
		}
		if len(args) == 1 {
			rt.log.Info("Export written", zap.String("file", args[0]))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
}
