package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/profitum/platform-api/internal/infrastructure/db/postgres"
	"github.com/profitum/platform-api/pkg/logger"
)

func migrateCmd() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				return errors.New("no database: pass --dsn or set DATABASE_URL")
			}
			log := logger.Init(logger.Options{Level: os.Getenv("LOG_LEVEL"), Service: "platform-api"})
			if err := postgres.Migrate(cmd.Context(), dsn); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string")
	return cmd
}
