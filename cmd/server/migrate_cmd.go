package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"studio/internal/adapters/storage/legacy"
)

func newMigrateLegacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-legacy",
		Short: "Move top-level assignment and payment documents under their member",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()

			report, err := legacy.Migrate(cmd.Context(), rt.timed, rt.tx)
			if err != nil {
				return err
			}
			slog.Info("migration", "event", "legacy_migrated",
				"moved", report.Moved, "orphaned", report.Orphaned, "conflict", report.Conflict)
			return nil
		},
	}
}
