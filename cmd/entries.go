package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"content-planner/core/reconcile"
	"content-planner/feature/calendar"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// entriesCmd represents the entries command
var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage calendar entries",
}

// entriesLoadCmd represents the entries load command
var entriesLoadCmd = &cobra.Command{
	Use:   "load <file.json>",
	Short: "Upsert calendar entries from a JSON array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var entries []*reconcile.Entry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		rt, err := loadSession()
		if err != nil {
			return err
		}
		if err := rt.connect(); err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		store := calendar.NewStore(rt.db)
		if err := store.Migrate(); err != nil {
			return err
		}

		if err := calendar.NewService(store, rt.log).Replace(cmd.Context(), entries); err != nil {
			return err
		}
		rt.log.Info("Entries loaded", zap.String("file", args[0]), zap.Int("count", len(entries)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(entriesCmd)
	entriesCmd.AddCommand(entriesLoadCmd)
}
