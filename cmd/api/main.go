package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"impact-lending/internal/config"
	"impact-lending/internal/infrastructure/logging"
)

const programName = "impact-lending"

var envFile string

func main() {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Impact lending engine API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.LoadFile(envFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := c.Validate(); err != nil {
				return err
			}
			if err := logging.Setup(c.LogLevel); err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file read before the environment")

	conf := func() *config.Config { return cfg }
	rootCmd.AddCommand(serveCommand(conf))
	rootCmd.AddCommand(migrateCommand(conf))
	rootCmd.AddCommand(registerBusinessCommand(conf))
	rootCmd.AddCommand(recordImpactCommand(conf))

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
