package main

import (
	"fmt"

	"github.com/fekuna/omnipos-wms-service/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded PostgreSQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			appLogger := newLogger(cfg)
			defer appLogger.Sync()

			db, err := openPostgres(cfg)
			if err != nil {
				return fmt.Errorf("could not connect to database: %w", err)
			}
			defer db.Close()

			applied, err := migrations.Apply(cmd.Context(), db, appLogger)
			if err != nil {
				return err
			}
			appLogger.Info("Migrations complete", zap.Int("applied", len(applied)))
			return nil
		},
	}
}
