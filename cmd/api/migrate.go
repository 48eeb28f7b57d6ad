package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"impact-lending/internal/adapter/repository/mysql"
	"impact-lending/internal/config"
	"impact-lending/internal/domain/engine"
	"impact-lending/internal/infrastructure/db"
)

func migrateCommand(conf func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and seed the engine config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := conf()
			gdb, err := db.OpenGorm(cfg.MySQLDSN())
			if err != nil {
				return err
			}
			if err := mysql.AutoMigrate(gdb); err != nil {
				return err
			}
			ec, err := mysql.NewEngineRepository(gdb).EnsureConfig(cmd.Context(), engine.NewConfig(cfg.MaxLoans, cfg.CreationFee))
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"maxLoans":    ec.MaxLoans,
				"creationFee": ec.CreationFee,
				"nextLoanId":  ec.NextLoanID,
			}).Info("Schema migrated")
			return nil
		},
	}
}
