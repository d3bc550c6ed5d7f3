package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"p9e.in/ncac/config"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rollback, err := cmd.Flags().GetBool("rollback")
			if err != nil {
				return err
			}

			db, err := config.Connect(cfg)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err == nil {
				defer sqlDB.Close()
			}

			if rollback {
				if err := config.RollbackLastMigration(db); err != nil {
					return err
				}
				slog.Info("rolled back last migration")
			}
			return nil
		},
	}
	cmd.Flags().Bool("rollback", false, "Roll back the most recent migration after applying pending ones")
	return cmd
}
